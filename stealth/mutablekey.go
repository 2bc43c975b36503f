// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stealth

import (
	"fmt"

	"github.com/novasuite/novaec"
)

// SecretSize is the length of each raw component secret of a mutable key.
const SecretSize = 32

// MutableKey is the private counterpart of a MutablePubKey: the pair of keys
// (l, h) a recipient uses to recognize and unlock variants derived for it.
// Both halves carry the compressed public key form.
//
// The zero value is a null key; populate it with MakeNew, SetSecrets, or
// SetPrivateKeys before use.  A MutableKey is not safe for concurrent
// mutation, but CheckVariant does not mutate the receiver and may be called
// concurrently on a populated key.
type MutableKey struct {
	l novaec.Key
	h novaec.Key
}

// NewMutableKey returns a new null mutable key.
func NewMutableKey() *MutableKey {
	return &MutableKey{}
}

// Reset returns the mutable key to the null state, zeroing the secret
// material of both halves.
func (mk *MutableKey) Reset() {
	mk.l.Reset()
	mk.h.Reset()
}

// IsNull returns whether either half of the mutable key is null.
func (mk *MutableKey) IsNull() bool {
	return mk.l.IsNull() || mk.h.IsNull()
}

// MakeNew generates both halves of the mutable key from the system CSPRNG.
func (mk *MutableKey) MakeNew() error {
	if err := mk.l.MakeNew(true); err != nil {
		return err
	}
	if err := mk.h.MakeNew(true); err != nil {
		mk.Reset()
		return err
	}
	return nil
}

// SetSecrets sets both halves of the mutable key from raw 32-byte secret
// scalars.  The existing state is only replaced after both scalars validate.
func (mk *MutableKey) SetSecrets(lSecret, hSecret []byte) error {
	var l, h novaec.Key
	if err := l.SetSecret(lSecret, true); err != nil {
		return err
	}
	if err := h.SetSecret(hSecret, true); err != nil {
		l.Reset()
		return err
	}
	mk.Reset()
	mk.l = l
	mk.h = h
	return nil
}

// Secrets returns the raw 32-byte secret scalars of both halves.
func (mk *MutableKey) Secrets() (lSecret, hSecret []byte, err error) {
	lSecret, _, err = mk.l.Secret()
	if err != nil {
		return nil, nil, err
	}
	hSecret, _, err = mk.h.Secret()
	if err != nil {
		zeroBytes(lSecret)
		return nil, nil, err
	}
	return lSecret, hSecret, nil
}

// SetPrivateKeys sets both halves of the mutable key from SEC1 ASN.1 DER
// encoded EC private keys.  The compressed public key form is enforced on
// both halves regardless of the embedded encodings.  The existing state is
// only replaced after both inputs fully validate.
func (mk *MutableKey) SetPrivateKeys(lDER, hDER []byte) error {
	var parsedL, parsedH novaec.Key
	if err := parsedL.SetPrivateKey(lDER); err != nil {
		return err
	}
	if err := parsedH.SetPrivateKey(hDER); err != nil {
		parsedL.Reset()
		return err
	}

	lSecret, _, err := parsedL.Secret()
	if err != nil {
		return err
	}
	hSecret, _, err := parsedH.Secret()
	if err != nil {
		zeroBytes(lSecret)
		return err
	}
	parsedL.Reset()
	parsedH.Reset()
	defer zeroBytes(lSecret)
	defer zeroBytes(hSecret)
	return mk.SetSecrets(lSecret, hSecret)
}

// PrivateKeys returns both halves serialized as SEC1 ASN.1 DER encoded EC
// private keys.
func (mk *MutableKey) PrivateKeys() (lDER, hDER []byte, err error) {
	lDER, err = mk.l.PrivateKey()
	if err != nil {
		return nil, nil, err
	}
	hDER, err = mk.h.PrivateKey()
	if err != nil {
		zeroBytes(lDER)
		return nil, nil, err
	}
	return lDER, hDER, nil
}

// PubKey derives the MutablePubKey (L, H) = (l*G, h*G) recipients publish.
// It panics when called on a null key.
func (mk *MutableKey) PubKey() *MutablePubKey {
	mpk, err := mk.pubKey()
	if err != nil {
		panic(fmt.Sprintf("PubKey called on a null mutable key: %v", err))
	}
	return mpk
}

func (mk *MutableKey) pubKey() (*MutablePubKey, error) {
	lPub := mk.l.Pub()
	hPub := mk.h.Pub()
	if lPub == nil || hPub == nil {
		return nil, makeError(novaec.ErrScalarOutOfRange,
			"mutable key is null")
	}
	return NewMutablePubKey(novaec.NewPointFromPubKey(lPub),
		novaec.NewPointFromPubKey(hPub))
}

// CheckVariant determines whether the variant described by the compressed
// points (R, H, P) was derived for this mutable key.  On a match, it returns
// the variant's one-time private key p = H160(l*R) + h mod n as a compressed
// Key satisfying p*G = P, along with true.
//
// A false return means the inputs are malformed or the variant belongs to a
// different recipient; the common scanning case stays cheap with no error
// allocation.  CheckVariant panics when called on a null key.
func (mk *MutableKey) CheckVariant(rPub, hPub, variant []byte) (*novaec.Key, bool) {
	if mk.IsNull() {
		panic("CheckVariant called on a null mutable key")
	}

	witness, err := novaec.ParsePoint(rPub)
	if err != nil {
		return nil, false
	}
	hPoint, err := novaec.ParsePoint(hPub)
	if err != nil {
		return nil, false
	}
	candidate, err := novaec.ParsePoint(variant)
	if err != nil {
		return nil, false
	}

	lSecret, _, err := mk.l.Secret()
	if err != nil {
		return nil, false
	}
	lScalar, err := novaec.ParseScalar(lSecret)
	zeroBytes(lSecret)
	if err != nil {
		return nil, false
	}

	// T' = l*R equals the sender's shared secret r*L when R = r*G.
	shared := witness.Mul(lScalar)
	lScalar.Zero()
	sharedBytes := shared.SerializeCompressed()
	k := novaec.ReduceScalar(Hash160(sharedBytes))
	zeroBytes(sharedBytes)

	// A parsed candidate is never the point at infinity, so an infinite
	// derived point is covered by the mismatch comparison.
	derived := novaec.MulGenAdd(k, hPoint)
	if !derived.IsEqual(candidate) {
		k.Zero()
		return nil, false
	}

	hSecret, _, err := mk.h.Secret()
	if err != nil {
		k.Zero()
		return nil, false
	}
	hScalar, err := novaec.ParseScalar(hSecret)
	zeroBytes(hSecret)
	if err != nil {
		k.Zero()
		return nil, false
	}

	// p = k + h mod n.
	k.Add(hScalar)
	hScalar.Zero()
	pBytes := k.Bytes()
	k.Zero()

	var oneTime novaec.Key
	err = oneTime.SetSecret(pBytes[:], true)
	zeroBytes(pBytes[:])
	if err != nil {
		return nil, false
	}
	return &oneTime, true
}
