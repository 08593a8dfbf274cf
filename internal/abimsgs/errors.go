// Package abimsgs centralizes the error catalog for every failure kind the
// codec can surface (schema, tokenization, serialization, deserialization
// and signing errors).
package abimsgs

import "github.com/hyperledger/firefly-common/pkg/i18n"

var ffe = i18n.FFE

//revive:disable
var (
	// Schema errors
	MsgUnsupportedAbiVersion = ffe("FFAB10001", "Unsupported ABI version: %s")
	MsgInvalidType           = ffe("FFAB10002", "Invalid ABI type '%s' at %s")
	MsgMissingComponents     = ffe("FFAB10003", "Tuple type at %s requires a 'components' array")
	MsgDuplicateName         = ffe("FFAB10004", "Duplicate name '%s' in %s")
	MsgDuplicateKey          = ffe("FFAB10005", "Duplicate data key %d")
	MsgMissingField          = ffe("FFAB10006", "Missing required field '%s' at %s")
	MsgInvalidField          = ffe("FFAB10007", "Invalid value for field '%s' at %s: %s")
	MsgIntOverflow           = ffe("FFAB10008", "Value %s outside valid range for type %s at %s")
	MsgInvalidABISuffix      = ffe("FFAB10009", "Invalid suffix '%s' on type '%s' at %s")
	MsgInvalidABIArraySpec   = ffe("FFAB10010", "Invalid array specifier in type '%s' at %s")
	MsgDeprecatedType        = ffe("FFAB10011", "Type '%s' at %s is deprecated for new encodes under ABI %s strict mode")
	MsgUnsupportedType       = ffe("FFAB10012", "Type '%s' at %s requires ABI version >= %s, document declares %s")

	// Tokenization errors
	MsgWrongDataFormat  = ffe("FFAB10020", "Wrong data format for type %s at %s: %v")
	MsgInvalidHex       = ffe("FFAB10021", "Invalid hex string '%v' at %s")
	MsgInvalidAddress   = ffe("FFAB10022", "Invalid address '%v' at %s")
	MsgLengthMismatch   = ffe("FFAB10023", "Expected length %d but got %d at %s")
	MsgUnknownField     = ffe("FFAB10024", "Unknown field '%s' at %s")
	MsgUtf8Error        = ffe("FFAB10025", "Invalid UTF-8 data at %s")
	MsgNotASlice        = ffe("FFAB10026", "Expected an array at %s, got %T")
	MsgNotAMapOrObject  = ffe("FFAB10027", "Expected an object at %s, got %T")
	MsgArrayLenMismatch = ffe("FFAB10028", "Expected %d elements in fixed-size array at %s, got %d")

	// Serialization errors
	MsgNotFitInCell = ffe("FFAB10040", "Internal error: value for %s did not fit in cell (bug in fixed layout planner)")
	MsgInvalidName  = ffe("FFAB10041", "No function or event named '%s' in contract")

	// Deserialization errors
	MsgUnexpectedEOF       = ffe("FFAB10050", "Unexpected end of cell data at %s: need %d more %s")
	MsgWrongVersion        = ffe("FFAB10051", "Unsupported ABI version for decode: %s")
	MsgWrongID             = ffe("FFAB10052", "Function/event ID mismatch: expected %#08x, got %#08x")
	MsgLeftoverData        = ffe("FFAB10053", "Leftover data after decoding all declared parameters (%d bits, %d refs)")
	MsgInvalidBagOfCells   = ffe("FFAB10054", "Invalid bag of cells: %s")
	MsgDictionaryKeyBits   = ffe("FFAB10055", "Dictionary key width must be > 0")
	MsgDictionaryKeyTooBig = ffe("FFAB10056", "Dictionary key %s does not fit in %d bits")
	MsgUnknownFunctionID   = ffe("FFAB10057", "No function or event in contract matches ID %#08x")

	// Cell primitive errors
	MsgCellBitOverflow = ffe("FFAB10060", "Cell bit capacity exceeded: used %d, requested %d, max %d")
	MsgCellRefOverflow = ffe("FFAB10061", "Cell reference capacity exceeded: used %d, requested %d, max %d")

	// Signing errors
	MsgNoSignature       = ffe("FFAB10070", "No signature available: signer policy is 'none'")
	MsgInvalidSignature  = ffe("FFAB10071", "Invalid signature: expected 64 bytes, got %d")
	MsgSigningFailed     = ffe("FFAB10072", "Signing failed: %s")
	MsgDestinationNeeded = ffe("FFAB10073", "ABI version %s requires a destination address to compute the signing preimage")
)
