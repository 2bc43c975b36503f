// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package novaec

import (
	"bytes"
	"encoding/asn1"
	"fmt"

	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivKeyBytesLen is the length of a serialized private key secret.
const PrivKeyBytesLen = 32

// oidNamedCurveSecp256k1 is the ASN.1 object identifier of the secp256k1
// curve per SEC 2.
var oidNamedCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

// ecPrivateKey mirrors the SEC1 ASN.1 structure for an EC private key as
// described in RFC 5915.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"explicit,optional,tag:0"`
	PublicKey     asn1.BitString        `asn1:"explicit,optional,tag:1"`
}

// Key is a secp256k1 keypair with an associated compression preference for
// its serialized public key.  The zero value is a null key that fails
// IsValid; use MakeNew or one of the setters to populate it.
//
// A Key may hold only the public half, in which case the signing operations
// fail but verification and recovery remain available.
type Key struct {
	secret     *secp256k1.PrivateKey
	pub        *secp256k1.PublicKey
	compressed bool
	set        bool
}

// NewKey returns a new null key.
func NewKey() *Key {
	return &Key{}
}

// Reset returns the key to the null state.  Any secret material held by the
// key is zeroed before the reference is dropped.
func (k *Key) Reset() {
	if k.secret != nil {
		k.secret.Zero()
	}
	k.secret = nil
	k.pub = nil
	k.compressed = false
	k.set = false
}

// MakeNew generates a fresh keypair from the system CSPRNG with the provided
// compression preference.
func (k *Key) MakeNew(compressed bool) error {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand.Reader())
	if err != nil {
		return err
	}
	k.Reset()
	k.secret = priv
	k.pub = priv.PubKey()
	k.compressed = compressed
	k.set = true
	return nil
}

// SetSecret sets the key from a raw 32-byte big-endian secret scalar and a
// compression preference.  The scalar must be in the range [1, N-1].
func (k *Key) SetSecret(secret []byte, compressed bool) error {
	s, err := ParseScalar(secret)
	if err != nil {
		return err
	}
	k.Reset()
	k.secret = secp256k1.NewPrivateKey(s)
	s.Zero()
	k.pub = k.secret.PubKey()
	k.compressed = compressed
	k.set = true
	return nil
}

// Secret returns the raw 32-byte big-endian secret scalar and the key's
// compression preference.  It errors when the key is null or public-only.
func (k *Key) Secret() ([]byte, bool, error) {
	if !k.set || k.secret == nil {
		return nil, false, makeError(ErrScalarOutOfRange,
			"key does not hold a secret scalar")
	}
	return k.secret.Serialize(), k.compressed, nil
}

// SetPrivateKey sets the key from a SEC1 ASN.1 DER encoded EC private key
// such as those produced by PrivateKey.  The existing key state is only
// replaced after the input fully validates, so a failed call leaves the key
// unchanged.
//
// When the encoding embeds a public key, it must match the one derived from
// the secret scalar, and its length determines the compression preference.
// Encodings without an embedded public key yield an uncompressed preference.
func (k *Key) SetPrivateKey(der []byte) error {
	var parsed ecPrivateKey
	rest, err := asn1.Unmarshal(der, &parsed)
	if err != nil || len(rest) != 0 {
		str := "malformed EC private key: not valid SEC1 ASN.1 DER"
		return makeError(ErrPrivKeyBadDER, str)
	}
	if parsed.Version != 1 {
		str := fmt.Sprintf("malformed EC private key: unsupported version: "+
			"%d", parsed.Version)
		return makeError(ErrPrivKeyBadDER, str)
	}
	if parsed.NamedCurveOID != nil &&
		!parsed.NamedCurveOID.Equal(oidNamedCurveSecp256k1) {

		str := "malformed EC private key: named curve is not secp256k1"
		return makeError(ErrPrivKeyBadDER, str)
	}
	if len(parsed.PrivateKey) > PrivKeyBytesLen {
		str := fmt.Sprintf("malformed EC private key: invalid scalar "+
			"length: %d", len(parsed.PrivateKey))
		return makeError(ErrPrivKeyBadDER, str)
	}

	// DER integers may drop leading zero bytes, so left pad to the full
	// scalar width before range checking.
	var secretBytes [PrivKeyBytesLen]byte
	copy(secretBytes[PrivKeyBytesLen-len(parsed.PrivateKey):],
		parsed.PrivateKey)
	defer zeroArray32(&secretBytes)

	s, err := ParseScalar(secretBytes[:])
	if err != nil {
		return err
	}
	secret := secp256k1.NewPrivateKey(s)
	s.Zero()
	pub := secret.PubKey()

	compressed := false
	if embedded := parsed.PublicKey.Bytes; len(embedded) != 0 {
		var derived []byte
		switch len(embedded) {
		case PubKeyBytesLenCompressed:
			derived = pub.SerializeCompressed()
			compressed = true
		case PubKeyBytesLenUncompressed:
			derived = pub.SerializeUncompressed()
		}
		if !bytes.Equal(embedded, derived) {
			secret.Zero()
			str := "embedded public key does not match the secret scalar"
			return makeError(ErrInconsistentKey, str)
		}
	}

	k.Reset()
	k.secret = secret
	k.pub = pub
	k.compressed = compressed
	k.set = true
	return nil
}

// PrivateKey returns the key serialized as a SEC1 ASN.1 DER encoded EC
// private key per RFC 5915, embedding the secp256k1 curve OID and the public
// key in the key's preferred compression format.
func (k *Key) PrivateKey() ([]byte, error) {
	if !k.set || k.secret == nil {
		return nil, makeError(ErrScalarOutOfRange,
			"key does not hold a secret scalar")
	}

	pubBytes := k.serializePub()
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    k.secret.Serialize(),
		NamedCurveOID: oidNamedCurveSecp256k1,
		PublicKey:     asn1.BitString{Bytes: pubBytes, BitLength: 8 * len(pubBytes)},
	})
	if err != nil {
		return nil, makeError(ErrPrivKeyBadDER, err.Error())
	}
	return der, nil
}

// SetPublicKey sets the key to the public half described by the provided
// serialized public key.  The compression preference follows the encoding.
// The resulting key can verify and match but not sign.
func (k *Key) SetPublicKey(serialized []byte) error {
	// Parse through the Point layer first so malformed encodings map to the
	// precise error kinds rather than the generic parser failure.
	point, err := ParsePoint(serialized)
	if err != nil {
		return err
	}
	k.Reset()
	k.pub = point.PubKey()
	k.compressed = len(serialized) == PubKeyBytesLenCompressed
	k.set = true
	return nil
}

// PublicKey returns the serialized public key in the key's preferred
// compression format.
func (k *Key) PublicKey() ([]byte, error) {
	if !k.set || k.pub == nil {
		return nil, makeError(ErrScalarOutOfRange, "key is null")
	}
	return k.serializePub(), nil
}

// serializePub serializes the public key honoring the compression flag.  The
// caller must ensure the key is set.
func (k *Key) serializePub() []byte {
	if k.compressed {
		return k.pub.SerializeCompressed()
	}
	return k.pub.SerializeUncompressed()
}

// Pub returns the parsed public key, or nil for a null key.
func (k *Key) Pub() *secp256k1.PublicKey {
	if !k.set {
		return nil
	}
	return k.pub
}

// IsValid returns whether the key holds usable key material.
func (k *Key) IsValid() bool {
	return k.set && k.pub != nil
}

// IsNull returns whether the key is in the null state.
func (k *Key) IsNull() bool {
	return !k.set
}

// IsCompressed returns the key's compression preference.
func (k *Key) IsCompressed() bool {
	return k.compressed
}

// CanSign returns whether the key holds the secret scalar needed to produce
// signatures.
func (k *Key) CanSign() bool {
	return k.set && k.secret != nil
}

// Sign produces a canonical DER encoded ECDSA signature over the provided
// 32-byte hash using RFC 6979 deterministic nonce generation.
func (k *Key) Sign(hash []byte) ([]byte, error) {
	if !k.CanSign() {
		return nil, makeError(ErrScalarOutOfRange,
			"key does not hold a secret scalar")
	}
	if len(hash) != 32 {
		str := fmt.Sprintf("invalid message hash length: %d", len(hash))
		return nil, makeError(ErrScalarOutOfRange, str)
	}
	return signRFC6979(k.secret, hash).Serialize(), nil
}

// Verify reports whether the provided DER encoded signature is valid for the
// 32-byte hash under this key's public key.  Malformed signatures and null
// keys verify as false.
func (k *Key) Verify(hash, derSig []byte) bool {
	if !k.set || k.pub == nil || len(hash) != 32 {
		return false
	}
	sig, err := ParseDERSignature(derSig)
	if err != nil {
		return false
	}
	return sig.Verify(hash, k.pub)
}

// SignCompact produces a 65-byte compact signature over the provided 32-byte
// hash.  The recovery header byte encodes both the recovery ID and the key's
// compression preference, so RecoverCompact reproduces the public key in the
// same serialized form.
func (k *Key) SignCompact(hash []byte) ([]byte, error) {
	if !k.CanSign() {
		return nil, makeError(ErrScalarOutOfRange,
			"key does not hold a secret scalar")
	}
	if len(hash) != 32 {
		str := fmt.Sprintf("invalid message hash length: %d", len(hash))
		return nil, makeError(ErrScalarOutOfRange, str)
	}
	return signCompact(k.secret, hash, k.compressed)
}

// SetCompactSignature sets the key to the public key recovered from the
// provided compact signature and 32-byte message hash.  The compression
// preference follows the signature's header byte.
//
// Recovery alone does not authenticate the signature; use VerifyCompact when
// the signature must additionally be proven valid for the recovered key.
func (k *Key) SetCompactSignature(hash, sig []byte) error {
	if len(hash) != 32 {
		str := fmt.Sprintf("invalid message hash length: %d", len(hash))
		return makeError(ErrScalarOutOfRange, str)
	}
	pub, compressed, err := RecoverCompact(sig, hash)
	if err != nil {
		return err
	}
	k.Reset()
	k.pub = pub
	k.compressed = compressed
	k.set = true
	return nil
}

// VerifyCompact reports whether the provided compact signature is valid for
// the 32-byte hash under this key.  It recovers the signer from the
// signature and requires the recovered key to match this key's public key,
// compared in canonical compressed form so the header's compression flag
// does not affect the outcome.
func (k *Key) VerifyCompact(hash, sig []byte) bool {
	if !k.set || k.pub == nil || len(hash) != 32 {
		return false
	}
	recovered := NewKey()
	if err := recovered.SetCompactSignature(hash, sig); err != nil {
		return false
	}
	if !bytes.Equal(recovered.pub.SerializeCompressed(),
		k.pub.SerializeCompressed()) {
		return false
	}

	// Matching keys still require the signature itself to verify since
	// recovery does not prove validity on its own.
	parsed, _, _, err := parseCompactSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(hash, k.pub)
}
