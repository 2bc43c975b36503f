// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package novaec implements support for secp256k1 keypairs with compact,
public-key-recoverable ECDSA signatures.

It provides the Key type, which pairs an optional secret scalar with its
public point and a compression preference, along with DER signing and
verification, SEC1 private key serialization, and the 65-byte compact
signature format whose header byte embeds both the recovery ID and the
compression flag of the signing key.

The curve group arithmetic is supplied by the
github.com/decred/dcrd/dcrec/secp256k1/v4 module.  This package wraps the
group element and scalar types with the exact operations the key and
signature layers need, including the combined k*G + Q multiplication used
by the stealth subpackage.
*/
package novaec
