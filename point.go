// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package novaec

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// These constants define the lengths of serialized public keys.
const (
	// PubKeyBytesLenCompressed is the length of a serialized compressed
	// public key.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the length of a serialized uncompressed
	// public key.
	PubKeyBytesLenUncompressed = 65
)

const (
	pubkeyCompressed   byte = 0x2 // y_bit + x coord
	pubkeyUncompressed byte = 0x4 // x coord + y coord
)

// Scalar is an integer modulo the secp256k1 group order.
type Scalar = secp256k1.ModNScalar

// ParseScalar interprets the provided 32 bytes as a big-endian unsigned
// integer and returns the corresponding scalar.  An error with code
// ErrScalarOutOfRange is returned when the value is zero or greater than or
// equal to the group order, so the result is always usable as a private key.
func ParseScalar(b []byte) (*Scalar, error) {
	if len(b) != 32 {
		str := fmt.Sprintf("malformed scalar: invalid length: %d", len(b))
		return nil, makeError(ErrScalarOutOfRange, str)
	}
	var s Scalar
	if overflow := s.SetByteSlice(b); overflow || s.IsZero() {
		str := "invalid scalar: zero or >= group order"
		return nil, makeError(ErrScalarOutOfRange, str)
	}
	return &s, nil
}

// ReduceScalar interprets the provided bytes as a big-endian unsigned integer
// and reduces it modulo the group order.  It is intended for turning hash
// output into a scalar and therefore accepts any length up to 32 bytes.
func ReduceScalar(b []byte) *Scalar {
	var s Scalar
	s.SetByteSlice(b)
	return &s
}

// Point is an element of the secp256k1 group.  The zero value is the point at
// infinity.
//
// The point arithmetic methods return new points and never mutate their
// receiver, so a Point may be shared by concurrent readers.
type Point struct {
	p secp256k1.JacobianPoint
}

// NewPointFromPubKey returns the point represented by the provided parsed
// public key.
func NewPointFromPubKey(pubKey *secp256k1.PublicKey) *Point {
	var result Point
	pubKey.AsJacobian(&result.p)
	return &result
}

// ParsePoint parses a point on the secp256k1 curve from its compressed
// (33-byte) or uncompressed (65-byte) encoding.  All other lengths and any
// encoding that does not name a point on the curve are rejected.
func ParsePoint(b []byte) (*Point, error) {
	var x, y secp256k1.FieldVal

	switch len(b) {
	case PubKeyBytesLenCompressed:
		format := b[0]
		if format != pubkeyCompressed && format != pubkeyCompressed|0x1 {
			str := fmt.Sprintf("invalid point: unsupported format: %x", format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}
		if overflow := x.SetByteSlice(b[1:33]); overflow {
			str := "invalid point: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}
		odd := format&0x1 == 0x1
		if !secp256k1.DecompressY(&x, odd, &y) {
			str := fmt.Sprintf("invalid point: x coordinate %v is not on the "+
				"secp256k1 curve", x)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}
		y.Normalize()

	case PubKeyBytesLenUncompressed:
		if b[0] != pubkeyUncompressed {
			str := fmt.Sprintf("invalid point: unsupported format: %x", b[0])
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}
		if overflow := x.SetByteSlice(b[1:33]); overflow {
			str := "invalid point: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}
		if overflow := y.SetByteSlice(b[33:]); overflow {
			str := "invalid point: y >= field prime"
			return nil, makeError(ErrPubKeyYTooBig, str)
		}
		// y^2 = x^3 + 7
		var y2, rhs secp256k1.FieldVal
		y2.SquareVal(&y).Normalize()
		rhs.SquareVal(&x).Mul(&x).AddInt(7).Normalize()
		if !y2.Equals(&rhs) {
			str := "invalid point: coordinates are not on the secp256k1 curve"
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}

	default:
		str := fmt.Sprintf("malformed point: invalid length: %d", len(b))
		return nil, makeError(ErrPubKeyInvalidLen, str)
	}

	var result Point
	var z secp256k1.FieldVal
	z.SetInt(1)
	result.p = secp256k1.MakeJacobianPoint(&x, &y, &z)
	return &result, nil
}

// IsInfinity returns whether or not the point is the point at infinity.
func (p *Point) IsInfinity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

// IsEqual compares this point to the one passed, returning true if both
// represent the same group element.
func (p *Point) IsEqual(other *Point) bool {
	if p.IsInfinity() || other.IsInfinity() {
		return p.IsInfinity() && other.IsInfinity()
	}

	// The internal representation is not unique, so normalize both sides to
	// affine coordinates before comparing.
	p1, p2 := p.p, other.p
	p1.ToAffine()
	p2.ToAffine()
	return p1.X.Equals(&p2.X) && p1.Y.Equals(&p2.Y)
}

// Add returns the group sum of the point and the provided point.
func (p *Point) Add(other *Point) *Point {
	var result Point
	secp256k1.AddNonConst(&p.p, &other.p, &result.p)
	return &result
}

// Mul returns the point multiplied by the provided scalar.
func (p *Point) Mul(k *Scalar) *Point {
	var result Point
	secp256k1.ScalarMultNonConst(k, &p.p, &result.p)
	return &result
}

// MulGen returns k*G where G is the curve generator.
func MulGen(k *Scalar) *Point {
	var result Point
	secp256k1.ScalarBaseMultNonConst(k, &result.p)
	return &result
}

// MulGenAdd returns k*G + Q as a single operation.  This combined form is
// what the stealth derivation uses, so it is provided as its own primitive.
func MulGenAdd(k *Scalar, q *Point) *Point {
	var kG secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &kG)

	var result Point
	secp256k1.AddNonConst(&kG, &q.p, &result.p)
	return &result
}

// SerializeCompressed serializes the point in the 33-byte compressed format.
// It must not be called on the point at infinity, which has no encoding.
func (p *Point) SerializeCompressed() []byte {
	affine := p.p
	affine.ToAffine()

	format := pubkeyCompressed
	if affine.Y.IsOdd() {
		format |= 0x1
	}
	b := make([]byte, PubKeyBytesLenCompressed)
	b[0] = format
	affine.X.PutBytesUnchecked(b[1:33])
	return b
}

// PubKey returns the point as a parsed public key.  It must not be called on
// the point at infinity, which is not a valid public key.
func (p *Point) PubKey() *secp256k1.PublicKey {
	affine := p.p
	affine.ToAffine()
	return secp256k1.NewPublicKey(&affine.X, &affine.Y)
}
