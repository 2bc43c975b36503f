// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package novaec

import (
	"bytes"
	"encoding/asn1"
	"errors"
	"testing"
)

// TestKeyNullState ensures the zero value and reset behavior of Key.
func TestKeyNullState(t *testing.T) {
	key := NewKey()
	if !key.IsNull() || key.IsValid() || key.CanSign() {
		t.Fatal("new key is not null")
	}
	if _, _, err := key.Secret(); err == nil {
		t.Fatal("Secret succeeded on a null key")
	}
	if _, err := key.PublicKey(); err == nil {
		t.Fatal("PublicKey succeeded on a null key")
	}
	if _, err := key.Sign(make([]byte, 32)); err == nil {
		t.Fatal("Sign succeeded on a null key")
	}
	if key.Verify(make([]byte, 32), nil) {
		t.Fatal("Verify succeeded on a null key")
	}

	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")
	if err := key.SetSecret(secret, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if key.IsNull() || !key.IsValid() || !key.CanSign() {
		t.Fatal("populated key reports null state")
	}

	key.Reset()
	if !key.IsNull() || key.IsValid() {
		t.Fatal("reset key is not null")
	}
}

// TestKeyPublicKeyVectors ensures the public key derived from a fixed secret
// serializes to the pinned encodings under both compression preferences.
func TestKeyPublicKeyVectors(t *testing.T) {
	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")

	tests := []struct {
		name       string
		compressed bool
		want       []byte
	}{{
		name:       "compressed",
		compressed: true,
		want: hexToBytes("031b84c5567b126440995d3ed5aaba0565d71e183460481" +
			"9ff9c17f5e9d5dd078f"),
	}, {
		name:       "uncompressed",
		compressed: false,
		want: hexToBytes("041b84c5567b126440995d3ed5aaba0565d71e183460481" +
			"9ff9c17f5e9d5dd078f70beaf8f588b541507fed6a642c5ab42dfdf8120a7f6" +
			"39de5122d47a69a8e8d1"),
	}}

	for _, test := range tests {
		key := NewKey()
		if err := key.SetSecret(secret, test.compressed); err != nil {
			t.Errorf("%s: unexpected err: %v", test.name, err)
			continue
		}
		if key.IsCompressed() != test.compressed {
			t.Errorf("%s: mismatched compression preference", test.name)
			continue
		}
		pub, err := key.PublicKey()
		if err != nil {
			t.Errorf("%s: unexpected err: %v", test.name, err)
			continue
		}
		if !bytes.Equal(pub, test.want) {
			t.Errorf("%s: unexpected public key -- got %x, want %x",
				test.name, pub, test.want)
			continue
		}

		// The round trip back from the secret must be stable.
		gotSecret, gotCompressed, err := key.Secret()
		if err != nil {
			t.Errorf("%s: unexpected err: %v", test.name, err)
			continue
		}
		if !bytes.Equal(gotSecret, secret) || gotCompressed != test.compressed {
			t.Errorf("%s: secret round trip mismatch", test.name)
			continue
		}
	}
}

// TestKeySetSecretErrors ensures out of range secrets are rejected.
func TestKeySetSecretErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{{
		name: "zero",
		in:   make([]byte, 32),
	}, {
		name: "group order",
		in: hexToBytes("fffffffffffffffffffffffffffffffebaaedce6af48a03b" +
			"bfd25e8cd0364141"),
	}, {
		name: "short",
		in:   hexToBytes("01"),
	}, {
		name: "long",
		in: hexToBytes("0101010101010101010101010101010101010101010101010" +
			"10101010101010101"),
	}}

	for _, test := range tests {
		key := NewKey()
		err := key.SetSecret(test.in, true)
		if !errors.Is(err, ErrScalarOutOfRange) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				ErrScalarOutOfRange)
			continue
		}
		if !key.IsNull() {
			t.Errorf("%s: key not null after failed set", test.name)
		}
	}
}

// TestKeyPrivateKeyRoundTrip ensures the SEC1 DER private key serialization
// round trips through parsing, preserving both the secret and the
// compression preference, and that the serialization is idempotent.
func TestKeyPrivateKeyRoundTrip(t *testing.T) {
	secret := hexToBytes("0202020202020202020202020202020202020202020202" +
		"020202020202020202")

	for _, compressed := range []bool{true, false} {
		key := NewKey()
		if err := key.SetSecret(secret, compressed); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		der, err := key.PrivateKey()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}

		parsed := NewKey()
		if err := parsed.SetPrivateKey(der); err != nil {
			t.Fatalf("unexpected err parsing own serialization: %v", err)
		}
		gotSecret, gotCompressed, err := parsed.Secret()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !bytes.Equal(gotSecret, secret) {
			t.Fatalf("secret mismatch -- got %x, want %x", gotSecret, secret)
		}
		if gotCompressed != compressed {
			t.Fatalf("compression preference mismatch -- got %v, want %v",
				gotCompressed, compressed)
		}

		der2, err := parsed.PrivateKey()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !bytes.Equal(der, der2) {
			t.Fatalf("serialization not idempotent -- got %x, want %x", der2,
				der)
		}
	}
}

// TestKeySetPrivateKeyErrors ensures malformed and inconsistent DER private
// keys are rejected and leave the key unchanged.
func TestKeySetPrivateKeyErrors(t *testing.T) {
	// A valid baseline the key is seeded with before each failed attempt.
	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")

	// A structurally valid encoding whose embedded public key belongs to a
	// different secret.
	wrongPub := NewKey()
	if err := wrongPub.SetSecret(hexToBytes("020202020202020202020202"+
		"0202020202020202020202020202020202020202"), true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wrongPubBytes, err := wrongPub.PublicKey()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	inconsistent, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    secret,
		NamedCurveOID: oidNamedCurveSecp256k1,
		PublicKey: asn1.BitString{
			Bytes:     wrongPubBytes,
			BitLength: 8 * len(wrongPubBytes),
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// A structurally valid encoding naming the wrong curve.
	wrongCurve, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    secret,
		NamedCurveOID: asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// A structurally valid encoding with a zero scalar.
	zeroScalar, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    make([]byte, 32),
		NamedCurveOID: oidNamedCurveSecp256k1,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	tests := []struct {
		name string
		der  []byte
		err  error
	}{{
		name: "not DER",
		der:  hexToBytes("0001020304"),
		err:  ErrPrivKeyBadDER,
	}, {
		name: "empty",
		der:  nil,
		err:  ErrPrivKeyBadDER,
	}, {
		name: "wrong curve",
		der:  wrongCurve,
		err:  ErrPrivKeyBadDER,
	}, {
		name: "zero scalar",
		der:  zeroScalar,
		err:  ErrScalarOutOfRange,
	}, {
		name: "inconsistent embedded public key",
		der:  inconsistent,
		err:  ErrInconsistentKey,
	}}

	for _, test := range tests {
		key := NewKey()
		if err := key.SetSecret(secret, true); err != nil {
			t.Fatalf("%s: unexpected err: %v", test.name, err)
		}
		if err := key.SetPrivateKey(test.der); !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				test.err)
			continue
		}

		// The failed set must leave the prior key intact.
		gotSecret, _, err := key.Secret()
		if err != nil || !bytes.Equal(gotSecret, secret) {
			t.Errorf("%s: key state changed by failed set", test.name)
		}
	}
}

// TestKeySetPublicKey ensures public-only keys parse both encodings and
// support verification but not signing.
func TestKeySetPublicKey(t *testing.T) {
	signer := NewKey()
	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")
	if err := signer.SetSecret(secret, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	hash := make([]byte, 32)
	derSig, err := signer.Sign(hash)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, compressed := range []bool{true, false} {
		signer.compressed = compressed
		pubBytes, err := signer.PublicKey()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}

		key := NewKey()
		if err := key.SetPublicKey(pubBytes); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if key.IsCompressed() != compressed {
			t.Fatal("compression preference does not follow the encoding")
		}
		if key.CanSign() {
			t.Fatal("public-only key claims signing capability")
		}
		if _, err := key.Sign(hash); err == nil {
			t.Fatal("Sign succeeded on a public-only key")
		}
		if !key.Verify(hash, derSig) {
			t.Fatal("valid signature failed to verify")
		}
		if key.Verify(hash, derSig[:len(derSig)-1]) {
			t.Fatal("truncated signature verified")
		}
	}
}

// TestKeySignVector ensures Key.Sign produces the pinned DER signature and
// that verification rejects tampered inputs.
func TestKeySignVector(t *testing.T) {
	key := NewKey()
	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")
	if err := key.SetSecret(secret, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	hash := make([]byte, 32)
	want := hexToBytes("304402206734cb4e3c071082482bf0f8579484f28dcdb1ca1" +
		"5b0cce72fbf130b2673d00c02205fbeecc4075cfd6a52634210486f24ce6db20f2" +
		"870e606acc43ade814d48394a")

	got, err := key.Sign(hash)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("unexpected signature -- got %x, want %x", got, want)
	}
	if !key.Verify(hash, got) {
		t.Fatal("signature failed to verify")
	}

	// Signing requires a 32-byte hash.
	if _, err := key.Sign(hash[:31]); err == nil {
		t.Fatal("Sign accepted a short hash")
	}

	tampered := make([]byte, 32)
	tampered[0] = 0x01
	if key.Verify(tampered, got) {
		t.Fatal("signature verified against a tampered hash")
	}
}

// TestKeyCompactSignature exercises the compact signature flows end to end:
// signing, recovery into a fresh key, and verification including tampering.
func TestKeyCompactSignature(t *testing.T) {
	key := NewKey()
	secret := hexToBytes("0101010101010101010101010101010101010101010101" +
		"010101010101010101")
	if err := key.SetSecret(secret, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	hash := make([]byte, 32)

	sig, err := key.SignCompact(hash)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	wantSig := hexToBytes("1f6734cb4e3c071082482bf0f8579484f28dcdb1ca15b0c" +
		"ce72fbf130b2673d00c5fbeecc4075cfd6a52634210486f24ce6db20f2870e606a" +
		"cc43ade814d48394a")
	if !bytes.Equal(sig, wantSig) {
		t.Fatalf("unexpected signature -- got %x, want %x", sig, wantSig)
	}

	// Recovery into a fresh key reproduces the signer's public key and
	// compression preference.
	recovered := NewKey()
	if err := recovered.SetCompactSignature(hash, sig); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !recovered.IsCompressed() {
		t.Fatal("recovered key does not follow the header compression flag")
	}
	recoveredPub, err := recovered.PublicKey()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	keyPub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !bytes.Equal(recoveredPub, keyPub) {
		t.Fatalf("recovered key mismatch -- got %x, want %x", recoveredPub,
			keyPub)
	}

	if !key.VerifyCompact(hash, sig) {
		t.Fatal("compact signature failed to verify")
	}

	// Changing the recovery ID bits of the header selects a different
	// candidate key, so verification against this key must fail.
	tamperedHeader := append([]byte{sig[0] + 1}, sig[1:]...)
	if key.VerifyCompact(hash, tamperedHeader) {
		t.Fatal("compact signature with tampered recovery ID verified")
	}

	// Flipping only the compression bit still recovers the same point, and
	// keys are compared in canonical compressed form, so verification is
	// unaffected.
	flippedCompression := append([]byte{sig[0] - 4}, sig[1:]...)
	if !key.VerifyCompact(hash, flippedCompression) {
		t.Fatal("compression flag changed the verification outcome")
	}

	// Corrupting the S component must fail verification.
	tamperedS := append([]byte{}, sig...)
	tamperedS[64] ^= 0x01
	if key.VerifyCompact(hash, tamperedS) {
		t.Fatal("compact signature with tampered S verified")
	}

	// A signature by a different key must not verify against this one.
	other := NewKey()
	if err := other.SetSecret(hexToBytes("040404040404040404040404040404"+
		"0404040404040404040404040404040404"), true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	otherSig, err := other.SignCompact(hash)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if key.VerifyCompact(hash, otherSig) {
		t.Fatal("foreign compact signature verified")
	}
}

// TestKeyMakeNew ensures generated keys are usable and distinct.
func TestKeyMakeNew(t *testing.T) {
	key1 := NewKey()
	if err := key1.MakeNew(true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	key2 := NewKey()
	if err := key2.MakeNew(true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	pub1, err := key1.PublicKey()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	pub2, err := key2.PublicKey()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if bytes.Equal(pub1, pub2) {
		t.Fatal("two generated keys share a public key")
	}

	hash := hexToBytes("6734cb4e3c071082482bf0f8579484f28dcdb1ca15b0cce72" +
		"fbf130b2673d00c")
	sig, err := key1.SignCompact(hash)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !key1.VerifyCompact(hash, sig) {
		t.Fatal("generated key failed to verify its own signature")
	}
	if key2.VerifyCompact(hash, sig) {
		t.Fatal("signature verified under an unrelated generated key")
	}
}
