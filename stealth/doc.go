// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package stealth implements mutable keypairs for unlinkable one-time payment
addresses on secp256k1.

A recipient publishes a MutablePubKey, the points (L, H) of a two-part
keypair.  A sender with only (L, H) derives a fresh variant public key

	P = H160(r*L)*G + H

together with the witness R = r*G, where r is an ephemeral scalar and H160 is
RIPEMD-160 over SHA-256.  The recipient, holding the private pair (l, h),
recognizes the variant by recomputing the shared secret as l*R = r*L and, on a
match, unlocks it with the one-time private key

	p = H160(l*R) + h mod n

so that p*G = P.  Third parties cannot link P to (L, H) without solving the
Diffie-Hellman problem on the curve.
*/
package stealth
