// Copyright © 2026 Lattice Labs
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package facade

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/funcid"
	"github.com/latticebound/tvmabi/pkg/layout"
	"github.com/latticebound/tvmabi/pkg/signer"
	"github.com/latticebound/tvmabi/pkg/token"

	"context"
)

// signatureReserveBits is how many leading bits of the body's first cell
// are held for the signature flag (and, for signed policies, the 512-bit
// signature itself) while header/ID/args are laid out (spec.md §4.8). Both
// the pre-2.3 and 2.3+ signed forms carry the same 513-bit flag+signature
// on the wire - 2.3's extra headroom (591, the addr_var maximum) exists
// only to stage the destination-bound preimage before signing, and is
// never transmitted; see buildPreimageHash.
func signatureReserveBits(policy signer.Policy, v contract.Version) int {
	if policy == signer.PolicyNone {
		return 1
	}
	if v.UsesDestinationBoundSigning() {
		return 591
	}
	return 513
}

// decodeReserveBits reconstructs the reserveBits signatureReserveBits used
// at encode time from what the decode side actually has available: whether
// the flag bit was set (readBodyPrefix) and the contract's version. The
// two ABI-version-specific encode reserveBits values (591 destination-bound,
// 513 otherwise) both flag as signed, so no separate policy is needed here.
func decodeReserveBits(signed bool, v contract.Version) int {
	if !signed {
		return 1
	}
	if v.UsesDestinationBoundSigning() {
		return 591
	}
	return 513
}

// buildPreimageHash computes the representation hash to sign, implementing
// spec.md §4.8's destination-bound preimage for ABI >= 2.3 (splice the
// actual, unpadded destination address bits over the reserved prefix before
// hashing) and the plain preimage otherwise (hash the body content with the
// reserved placeholder bits removed - the reservation exists only to leave
// room for the signature that follows, not for any address).
func buildPreimageHash(ctx context.Context, fixed bool, v contract.Version, unsigned *cell.Cell, reserveBits int, destination *token.Address) ([32]byte, error) {
	if !v.UsesDestinationBoundSigning() {
		content, err := cellTail(ctx, unsigned, reserveBits)
		if err != nil {
			return [32]byte{}, err
		}
		return content.RepresentationHash(), nil
	}
	if destination == nil {
		return [32]byte{}, i18n.NewError(ctx, abimsgs.MsgDestinationNeeded, v.String())
	}
	addrCell, err := layout.EncodeSequence(ctx, fixed, []*abitype.Type{addressType}, []*token.Token{{Type: addressType, Address: *destination}})
	if err != nil {
		return [32]byte{}, err
	}
	preimage, err := spliceCell(ctx, addrCell, unsigned, reserveBits)
	if err != nil {
		return [32]byte{}, err
	}
	return preimage.RepresentationHash(), nil
}

func spliceFlagAndMaybeSignature(ctx context.Context, signed bool, sig [64]byte, unsigned *cell.Cell, reserveBits int) (*cell.Cell, error) {
	b := cell.NewBuilder()
	if err := b.WriteBit(ctx, signed); err != nil {
		return nil, err
	}
	if signed {
		if err := b.WriteBytes(ctx, sig[:]); err != nil {
			return nil, err
		}
	}
	return spliceCell(ctx, b.Build(), unsigned, reserveBits)
}

// EncodeInput builds the on-wire body of a call to fn (spec.md §4.7 point
// 1): header values, the function's call ID, its tokenized arguments, and
// the signature dance of §4.8. destination is required only when
// sign.Policy is not signer.PolicyNone and c.Version uses destination-bound
// signing (>= 2.3).
func EncodeInput(ctx context.Context, c *contract.Contract, fn *contract.Function, hv HeaderValues, args map[string]interface{}, sign signer.SignPolicy, destination *token.Address) (*cell.Cell, error) {
	fixed := c.Version.UsesFixedLayout()

	headerTypes, err := buildHeaderTypes(ctx, c)
	if err != nil {
		return nil, err
	}
	headerToks, err := buildHeaderToks(ctx, c, hv)
	if err != nil {
		return nil, err
	}
	id, err := funcid.FunctionCallID(ctx, fn, c.Version)
	if err != nil {
		return nil, err
	}
	argTypes, argToks, err := tokenizeParams(ctx, fn.Inputs, args)
	if err != nil {
		return nil, err
	}

	types := append(append(append([]*abitype.Type{}, headerTypes...), uint32Type), argTypes...)
	toks := append(append(append([]*token.Token{}, headerToks...), uintToken(uint32Type, uint64(id))), argToks...)

	reserveBits := signatureReserveBits(sign.Policy, c.Version)
	unsigned, err := layout.EncodeSequenceReserved(ctx, fixed, reserveBits, types, toks)
	if err != nil {
		return nil, err
	}

	if sign.Policy == signer.PolicyNone {
		return spliceFlagAndMaybeSignature(ctx, false, [64]byte{}, unsigned, reserveBits)
	}

	hash, err := buildPreimageHash(ctx, fixed, c.Version, unsigned, reserveBits, destination)
	if err != nil {
		return nil, err
	}
	sig, err := sign.Resolve(ctx, hash)
	if err != nil {
		return nil, err
	}
	return spliceFlagAndMaybeSignature(ctx, true, sig, unsigned, reserveBits)
}

// readBodyPrefix reads the leading flag bit (and, if set, the 512-bit
// signature) off body, returning how many bits to skip to reach the
// header/ID/args content.
func readBodyPrefix(ctx context.Context, body *cell.Cell) (skipBits int, sig *[64]byte, err error) {
	s := body.NewSlice()
	flag, err := s.ReadBit(ctx)
	if err != nil {
		return 0, nil, err
	}
	if !flag {
		return 1, nil, nil
	}
	raw, err := s.ReadBytes(ctx, 64)
	if err != nil {
		return 0, nil, err
	}
	var out [64]byte
	copy(out[:], raw)
	return 513, &out, nil
}

// DecodeInput reverses EncodeInput (spec.md §4.7 point 2), verifying the
// decoded ID matches fn's call ID.
func DecodeInput(ctx context.Context, c *contract.Contract, fn *contract.Function, body *cell.Cell) (HeaderValues, map[string]interface{}, error) {
	fixed := c.Version.UsesFixedLayout()

	skip, sig, err := readBodyPrefix(ctx, body)
	if err != nil {
		return HeaderValues{}, nil, err
	}
	tail, err := cellTail(ctx, body, skip)
	if err != nil {
		return HeaderValues{}, nil, err
	}
	reserveBits := decodeReserveBits(sig != nil, c.Version)

	headerTypes, err := buildHeaderTypes(ctx, c)
	if err != nil {
		return HeaderValues{}, nil, err
	}
	argTypes, err := paramTypes(ctx, fn.Inputs)
	if err != nil {
		return HeaderValues{}, nil, err
	}
	types := append(append(append([]*abitype.Type{}, headerTypes...), uint32Type), argTypes...)

	res, err := layout.DecodeSequenceReserved(ctx, fixed, reserveBits, tail, types)
	if err != nil {
		return HeaderValues{}, nil, err
	}

	gotID := uint32(res.Tokens[len(headerTypes)].Int.Uint64())
	wantID, err := funcid.FunctionCallID(ctx, fn, c.Version)
	if err != nil {
		return HeaderValues{}, nil, err
	}
	if gotID != wantID {
		return HeaderValues{}, nil, i18n.NewError(ctx, abimsgs.MsgWrongID, wantID, gotID)
	}

	hv := parseHeaderTokens(c, res.Tokens[:len(headerTypes)])
	args := detokenizeParams(fn.Inputs, res.Tokens[len(headerTypes)+1:])
	return hv, args, nil
}

// DecodeOutput decodes fn's return-value body (spec.md §4.7 point 2): the
// tokenized output parameters, packed with no header, ID or signature -
// a function's response payload is data, not a signed message.
func DecodeOutput(ctx context.Context, c *contract.Contract, fn *contract.Function, body *cell.Cell) (map[string]interface{}, error) {
	fixed := c.Version.UsesFixedLayout()
	types, err := paramTypes(ctx, fn.Outputs)
	if err != nil {
		return nil, err
	}
	res, err := layout.DecodeSequence(ctx, fixed, body, types)
	if err != nil {
		return nil, err
	}
	return detokenizeParams(fn.Outputs, res.Tokens), nil
}
