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

// Package signer provides the three message-signing policies of spec.md
// §4.8 (None, External key, Precomputed signature), grounded on the small
// capability-interface-plus-adapters shape of hyperledger-firefly-signer's
// pkg/ethsigner.EthSigner.
package signer

import (
	"context"
	"crypto/ed25519"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// Signer is the capability the message assembler invokes once per encode,
// treated as a pure function from a 32-byte preimage hash to a 64-byte
// Ed25519 signature (spec.md §5, §6.3). Implementations may call out to a
// remote key custodian; the codec makes no assumption beyond this shape.
type Signer interface {
	// Sign returns the 64-byte Ed25519 signature over hash, or an error.
	Sign(ctx context.Context, hash [32]byte) ([64]byte, error)
}

// Policy discriminates the three signing policies of spec.md §4.8.
type Policy int

const (
	// PolicyNone prefixes the body with a single cleared signature-flag
	// bit and performs no signing at all.
	PolicyNone Policy = iota
	// PolicyCallback invokes a Signer to produce the signature.
	PolicyCallback
	// PolicyPrecomputed supplies the 64-byte signature directly.
	PolicyPrecomputed
)

// SignPolicy bundles a Policy with whichever of a Signer or a precomputed
// signature it needs.
type SignPolicy struct {
	Policy      Policy
	Callback    Signer
	Precomputed [64]byte
}

// None is the "no signature" policy.
func None() SignPolicy { return SignPolicy{Policy: PolicyNone} }

// Precomputed is the "signature supplied directly" policy.
func Precomputed(sig [64]byte) SignPolicy {
	return SignPolicy{Policy: PolicyPrecomputed, Precomputed: sig}
}

// WithCallback is the "external key" policy: sig is computed by invoking s.
func WithCallback(s Signer) SignPolicy {
	return SignPolicy{Policy: PolicyCallback, Callback: s}
}

// resolve produces the 64-byte signature for preimage hash under this
// policy. It is an error to call resolve for PolicyNone.
func (sp SignPolicy) resolve(ctx context.Context, hash [32]byte) ([64]byte, error) {
	switch sp.Policy {
	case PolicyPrecomputed:
		return sp.Precomputed, nil
	case PolicyCallback:
		sig, err := sp.Callback.Sign(ctx, hash)
		if err != nil {
			return [64]byte{}, i18n.WrapError(ctx, err, abimsgs.MsgSigningFailed, err.Error())
		}
		return sig, nil
	default:
		return [64]byte{}, i18n.NewError(ctx, abimsgs.MsgNoSignature)
	}
}

// Resolve is the exported form of resolve, used by pkg/facade.
func (sp SignPolicy) Resolve(ctx context.Context, hash [32]byte) ([64]byte, error) {
	return sp.resolve(ctx, hash)
}

// ed25519Signer adapts a raw ed25519.PrivateKey to the Signer interface.
type ed25519Signer struct {
	priv ed25519.PrivateKey
}

// Ed25519 wraps a private key as a Signer, treating Ed25519 as the pure,
// injected primitive spec.md §6.3 describes (crypto/ed25519 from the
// standard library is the only Ed25519 implementation anywhere in the
// example pack, so no third-party alternative exists to wire here).
func Ed25519(priv ed25519.PrivateKey) Signer {
	return &ed25519Signer{priv: priv}
}

func (s *ed25519Signer) Sign(_ context.Context, hash [32]byte) ([64]byte, error) {
	var out [64]byte
	sig := ed25519.Sign(s.priv, hash[:])
	copy(out[:], sig)
	return out, nil
}
