// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package novaec

import (
	"fmt"
)

// ErrorCode identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error code when
// determining the reason for an error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrPubKeyInvalidLen is returned when attempting to parse a public key
	// that is not the compressed (33 bytes) or uncompressed (65 bytes)
	// length.
	ErrPubKeyInvalidLen ErrorCode = iota

	// ErrPubKeyInvalidFormat is returned when attempting to parse a public
	// key whose format byte does not match its length.
	ErrPubKeyInvalidFormat

	// ErrPubKeyXTooBig is returned when attempting to parse a public key
	// with an x coordinate that is greater than or equal to the field prime.
	ErrPubKeyXTooBig

	// ErrPubKeyYTooBig is returned when attempting to parse a public key
	// with a y coordinate that is greater than or equal to the field prime.
	ErrPubKeyYTooBig

	// ErrPubKeyNotOnCurve is returned when attempting to parse a public key
	// whose coordinates do not satisfy the secp256k1 curve equation.
	ErrPubKeyNotOnCurve

	// ErrScalarOutOfRange is returned when a 32-byte value that is expected
	// to be a canonical scalar is zero or greater than or equal to the group
	// order.
	ErrScalarOutOfRange

	// ErrPrivKeyBadDER is returned when a serialized EC private key is not
	// valid SEC1 ASN.1 DER or names a curve other than secp256k1.
	ErrPrivKeyBadDER

	// ErrInconsistentKey is returned when a parsed private key carries an
	// embedded public key that does not match the one derived from its
	// secret scalar.
	ErrInconsistentKey

	// ErrSigTooShort is returned when a signature that should be a DER
	// signature is too short.
	ErrSigTooShort

	// ErrSigTooLong is returned when a signature that should be a DER
	// signature is too long.
	ErrSigTooLong

	// ErrSigInvalidSeqID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 sequence ID.
	ErrSigInvalidSeqID

	// ErrSigInvalidDataLen is returned when a signature that should be a DER
	// signature does not specify the correct number of remaining bytes for
	// the R and S portions.
	ErrSigInvalidDataLen

	// ErrSigMissingSTypeID is returned when a signature that should be a DER
	// signature does not provide the ASN.1 type ID for S.
	ErrSigMissingSTypeID

	// ErrSigMissingSLen is returned when a signature that should be a DER
	// signature does not provide the length of S.
	ErrSigMissingSLen

	// ErrSigInvalidSLen is returned when a signature that should be a DER
	// signature does not specify the correct number of bytes for the S
	// portion.
	ErrSigInvalidSLen

	// ErrSigInvalidRIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for R.
	ErrSigInvalidRIntID

	// ErrSigZeroRLen is returned when a signature that should be a DER
	// signature has an R length of zero.
	ErrSigZeroRLen

	// ErrSigNegativeR is returned when a signature that should be a DER
	// signature has a negative value for R.
	ErrSigNegativeR

	// ErrSigTooMuchRPadding is returned when a signature that should be a
	// DER signature has too much padding for R.
	ErrSigTooMuchRPadding

	// ErrSigRIsZero is returned when a signature has R set to the value
	// zero.
	ErrSigRIsZero

	// ErrSigRTooBig is returned when a signature has R with a value that is
	// greater than or equal to the group order.
	ErrSigRTooBig

	// ErrSigInvalidSIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for S.
	ErrSigInvalidSIntID

	// ErrSigZeroSLen is returned when a signature that should be a DER
	// signature has an S length of zero.
	ErrSigZeroSLen

	// ErrSigNegativeS is returned when a signature that should be a DER
	// signature has a negative value for S.
	ErrSigNegativeS

	// ErrSigTooMuchSPadding is returned when a signature that should be a
	// DER signature has too much padding for S.
	ErrSigTooMuchSPadding

	// ErrSigSIsZero is returned when a signature has S set to the value
	// zero.
	ErrSigSIsZero

	// ErrSigSTooBig is returned when a signature has S with a value that is
	// greater than or equal to the group order.
	ErrSigSTooBig

	// ErrSigInvalidLen is returned when a signature that should be a compact
	// signature is not the required 65-byte length.
	ErrSigInvalidLen

	// ErrSigInvalidRecoveryHeader is returned when a compact signature has
	// a header byte outside of the valid range [27, 34].
	ErrSigInvalidRecoveryHeader

	// ErrSigOverflowsPrime is returned during public key recovery when the
	// x coordinate implied by the signature R component and the recovery ID
	// exceeds the field prime and therefore cannot be a valid coordinate.
	ErrSigOverflowsPrime

	// ErrPointNotOnCurve is returned during public key recovery when no
	// curve point exists for the x coordinate implied by the signature R
	// component and the recovery ID.
	ErrPointNotOnCurve

	// ErrRecoveryFailed is returned when public key recovery produces the
	// point at infinity or, while searching for a recovery ID during
	// compact signing, no candidate reproduces the signing public key.
	ErrRecoveryFailed

	// ErrPointAtInfinity is returned when an operation that requires a
	// valid group element produces the point at infinity.  Callers may
	// retry such operations with fresh randomness.
	ErrPointAtInfinity

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrPubKeyInvalidLen:         "ErrPubKeyInvalidLen",
	ErrPubKeyInvalidFormat:      "ErrPubKeyInvalidFormat",
	ErrPubKeyXTooBig:            "ErrPubKeyXTooBig",
	ErrPubKeyYTooBig:            "ErrPubKeyYTooBig",
	ErrPubKeyNotOnCurve:         "ErrPubKeyNotOnCurve",
	ErrScalarOutOfRange:         "ErrScalarOutOfRange",
	ErrPrivKeyBadDER:            "ErrPrivKeyBadDER",
	ErrInconsistentKey:          "ErrInconsistentKey",
	ErrSigTooShort:              "ErrSigTooShort",
	ErrSigTooLong:               "ErrSigTooLong",
	ErrSigInvalidSeqID:          "ErrSigInvalidSeqID",
	ErrSigInvalidDataLen:        "ErrSigInvalidDataLen",
	ErrSigMissingSTypeID:        "ErrSigMissingSTypeID",
	ErrSigMissingSLen:           "ErrSigMissingSLen",
	ErrSigInvalidSLen:           "ErrSigInvalidSLen",
	ErrSigInvalidRIntID:         "ErrSigInvalidRIntID",
	ErrSigZeroRLen:              "ErrSigZeroRLen",
	ErrSigNegativeR:             "ErrSigNegativeR",
	ErrSigTooMuchRPadding:       "ErrSigTooMuchRPadding",
	ErrSigRIsZero:               "ErrSigRIsZero",
	ErrSigRTooBig:               "ErrSigRTooBig",
	ErrSigInvalidSIntID:         "ErrSigInvalidSIntID",
	ErrSigZeroSLen:              "ErrSigZeroSLen",
	ErrSigNegativeS:             "ErrSigNegativeS",
	ErrSigTooMuchSPadding:       "ErrSigTooMuchSPadding",
	ErrSigSIsZero:               "ErrSigSIsZero",
	ErrSigSTooBig:               "ErrSigSTooBig",
	ErrSigInvalidLen:            "ErrSigInvalidLen",
	ErrSigInvalidRecoveryHeader: "ErrSigInvalidRecoveryHeader",
	ErrSigOverflowsPrime:        "ErrSigOverflowsPrime",
	ErrPointNotOnCurve:          "ErrPointNotOnCurve",
	ErrRecoveryFailed:           "ErrRecoveryFailed",
	ErrPointAtInfinity:          "ErrPointAtInfinity",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error implements the error interface.
func (e ErrorCode) Error() string {
	return e.String()
}

// Is implements the interface to work with the standard library's errors.Is.
//
// It returns true in the following cases:
// - The target is a Error and the error codes match
// - The target is a ErrorCode and the error codes match
func (e ErrorCode) Is(target error) bool {
	switch target := target.(type) {
	case Error:
		return e == target.ErrorCode

	case ErrorCode:
		return e == target
	}

	return false
}

// Error identifies a key or signature related error.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error code.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Is implements the interface to work with the standard library's errors.Is.
//
// It returns true in the following cases:
// - The target is a Error and the error codes match
// - The target is a ErrorCode and the error codes match
func (e Error) Is(target error) bool {
	switch target := target.(type) {
	case Error:
		return e.ErrorCode == target.ErrorCode

	case ErrorCode:
		return target == e.ErrorCode
	}

	return false
}

// Unwrap returns the underlying wrapped error code.
func (e Error) Unwrap() error {
	return e.ErrorCode
}

// makeError creates a Error given a set of arguments.
func makeError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}
