// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stealth

import (
	"fmt"

	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/novasuite/novaec"
)

// MutablePubKeySize is the length of a serialized mutable public key.  It is
// the concatenation of the two component points in compressed form.
const MutablePubKeySize = 2 * novaec.PubKeyBytesLenCompressed

// makeError creates a novaec.Error given a set of arguments.
func makeError(c novaec.ErrorCode, desc string) novaec.Error {
	return novaec.Error{ErrorCode: c, Description: desc}
}

// MutablePubKey is the public half of a mutable keypair, the pair of points
// (L, H) a recipient publishes as its long-lived stealth identifier.  Both
// points are guaranteed non-infinity by construction.
//
// MutablePubKey is immutable after creation and safe for concurrent use.
type MutablePubKey struct {
	l *novaec.Point
	h *novaec.Point
}

// NewMutablePubKey returns a mutable public key built from the provided
// component points.  Neither point may be the point at infinity.
func NewMutablePubKey(l, h *novaec.Point) (*MutablePubKey, error) {
	if l.IsInfinity() || h.IsInfinity() {
		str := "mutable public key components must not be the point at infinity"
		return nil, makeError(novaec.ErrPointAtInfinity, str)
	}
	return &MutablePubKey{l: l, h: h}, nil
}

// ParseMutablePubKey parses a 66-byte serialized mutable public key, the
// compressed L point followed by the compressed H point.
func ParseMutablePubKey(b []byte) (*MutablePubKey, error) {
	if len(b) != MutablePubKeySize {
		str := fmt.Sprintf("malformed mutable public key: invalid length: %d",
			len(b))
		return nil, makeError(novaec.ErrPubKeyInvalidLen, str)
	}
	l, err := novaec.ParsePoint(b[:novaec.PubKeyBytesLenCompressed])
	if err != nil {
		return nil, err
	}
	h, err := novaec.ParsePoint(b[novaec.PubKeyBytesLenCompressed:])
	if err != nil {
		return nil, err
	}
	return NewMutablePubKey(l, h)
}

// Serialize returns the 66-byte serialization of the mutable public key.
func (mpk *MutablePubKey) Serialize() []byte {
	b := make([]byte, 0, MutablePubKeySize)
	b = append(b, mpk.l.SerializeCompressed()...)
	b = append(b, mpk.h.SerializeCompressed()...)
	return b
}

// L returns the first component point.
func (mpk *MutablePubKey) L() *novaec.Point {
	return mpk.l
}

// H returns the second component point.
func (mpk *MutablePubKey) H() *novaec.Point {
	return mpk.h
}

// IsEqual compares this mutable public key to the one passed, returning true
// if both component points match.
func (mpk *MutablePubKey) IsEqual(other *MutablePubKey) bool {
	return mpk.l.IsEqual(other.l) && mpk.h.IsEqual(other.h)
}

// DeriveVariant derives a fresh one-time variant of the mutable public key
// using an ephemeral scalar drawn from the system CSPRNG.  It returns the
// compressed witness point R = r*G and the compressed variant public key
// P = H160(r*L)*G + H.
//
// An ErrPointAtInfinity error indicates the sampled scalar produced an
// unusable variant; the caller may simply retry.
func (mpk *MutablePubKey) DeriveVariant() (rPub, variant []byte, err error) {
	ephemeral, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader())
	if err != nil {
		return nil, nil, err
	}
	defer ephemeral.Zero()
	return mpk.deriveVariant(&ephemeral.Key)
}

// deriveVariant derives the variant selected by the provided ephemeral
// scalar.  The scalar must be non-zero.
func (mpk *MutablePubKey) deriveVariant(r *novaec.Scalar) (rPub, variant []byte, err error) {
	// T = r*L is the Diffie-Hellman secret shared with the holder of l.
	shared := mpk.l.Mul(r)
	if shared.IsInfinity() {
		str := "derived shared secret is the point at infinity"
		return nil, nil, makeError(novaec.ErrPointAtInfinity, str)
	}
	sharedBytes := shared.SerializeCompressed()
	k := novaec.ReduceScalar(Hash160(sharedBytes))
	zeroBytes(sharedBytes)

	p := novaec.MulGenAdd(k, mpk.h)
	k.Zero()
	if p.IsInfinity() {
		str := "derived variant is the point at infinity"
		return nil, nil, makeError(novaec.ErrPointAtInfinity, str)
	}

	witness := novaec.MulGen(r)
	return witness.SerializeCompressed(), p.SerializeCompressed(), nil
}

// zeroBytes zeroes the provided byte slice.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
