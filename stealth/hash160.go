// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stealth

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// Hash160Size is the size of a Hash160 digest.
const Hash160Size = ripemd160.Size

// Hash160 computes RIPEMD160(SHA256(b)).
//
// The 20-byte digest is interpreted by the derivation and recognition flows
// as an unsigned big-endian integer.  Its value is below 2^160 and therefore
// always a canonical scalar, but the conversion is performed explicitly via
// ReduceScalar at the call sites.
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
