// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-jwt.
//
// go-jwt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package jwterr defines the error taxonomy shared by every go-jwt package.
//
// All failures surfaced by decoding, signing and verification are *Error
// values tagged with a Kind. Callers branch on the kind with errors.Is and
// the package sentinels:
//
//	if errors.Is(err, jwterr.ErrTokenExpired) {
//	    ...
//	}
package jwterr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedStructure
	KindInvalidBase64
	KindInvalidJSON
	KindMissingKey
	KindUnsupportedAlgorithm
	KindInvalidKey
	KindSignatureVerification
	KindSignatureGeneration
	KindInvalidDERFormat
	KindInvalidSignatureFormat
	KindInvalidJOSEFormat
	KindAlgorithmMismatch
	KindMissingClaim
	KindIncorrectClaim
	KindTokenExpired
	KindInvalidArgument
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindMalformedStructure:     "malformed_structure",
	KindInvalidBase64:          "invalid_base64",
	KindInvalidJSON:            "invalid_json",
	KindMissingKey:             "missing_key",
	KindUnsupportedAlgorithm:   "unsupported_algorithm",
	KindInvalidKey:             "invalid_key",
	KindSignatureVerification:  "signature_verification",
	KindSignatureGeneration:    "signature_generation",
	KindInvalidDERFormat:       "invalid_der_format",
	KindInvalidSignatureFormat: "invalid_signature_format",
	KindInvalidJOSEFormat:      "invalid_jose_format",
	KindAlgorithmMismatch:      "algorithm_mismatch",
	KindMissingClaim:           "missing_claim",
	KindIncorrectClaim:         "incorrect_claim",
	KindTokenExpired:           "token_expired",
	KindInvalidArgument:        "invalid_argument",
}

// String returns the snake_case name of the kind. It is stable and safe to
// use as a metrics label.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the concrete error type returned by go-jwt.
type Error struct {
	Kind    Kind
	Message string

	// Algorithm is the algorithm description for signature failures.
	Algorithm string

	// Claim is the offending claim name for claim failures.
	Claim string

	// Value is a snapshot of the offending claim (a claims.Claim).
	Value any

	// ExpiredOn is set for KindTokenExpired.
	ExpiredOn time.Time

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel() {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) sentinel() bool {
	return e.Message == "" && e.Err == nil && e.Claim == "" && e.Algorithm == ""
}

// Sentinels, one per kind. Use with errors.Is.
var (
	ErrMalformedStructure     = &Error{Kind: KindMalformedStructure}
	ErrInvalidBase64          = &Error{Kind: KindInvalidBase64}
	ErrInvalidJSON            = &Error{Kind: KindInvalidJSON}
	ErrMissingKey             = &Error{Kind: KindMissingKey}
	ErrUnsupportedAlgorithm   = &Error{Kind: KindUnsupportedAlgorithm}
	ErrInvalidKey             = &Error{Kind: KindInvalidKey}
	ErrSignatureVerification  = &Error{Kind: KindSignatureVerification}
	ErrSignatureGeneration    = &Error{Kind: KindSignatureGeneration}
	ErrInvalidDERFormat       = &Error{Kind: KindInvalidDERFormat}
	ErrInvalidSignatureFormat = &Error{Kind: KindInvalidSignatureFormat}
	ErrInvalidJOSEFormat      = &Error{Kind: KindInvalidJOSEFormat}
	ErrAlgorithmMismatch      = &Error{Kind: KindAlgorithmMismatch}
	ErrMissingClaim           = &Error{Kind: KindMissingClaim}
	ErrIncorrectClaim         = &Error{Kind: KindIncorrectClaim}
	ErrTokenExpired           = &Error{Kind: KindTokenExpired}
	ErrInvalidArgument        = &Error{Kind: KindInvalidArgument}
)

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind carrying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// SignatureVerification reports that a signature could not be verified
// with the algorithm described by description.
func SignatureVerification(description string, cause error) *Error {
	return &Error{
		Kind:      KindSignatureVerification,
		Message:   "The Token's Signature resulted invalid when verified using the Algorithm: " + description,
		Algorithm: description,
		Err:       cause,
	}
}

// SignatureGeneration reports that a signature could not be produced.
func SignatureGeneration(description string, cause error) *Error {
	return &Error{
		Kind:      KindSignatureGeneration,
		Message:   "The Token's Signature couldn't be generated when signing using the Algorithm: " + description,
		Algorithm: description,
		Err:       cause,
	}
}

// MissingClaim reports a required claim that is absent from the payload.
func MissingClaim(name string) *Error {
	return &Error{
		Kind:    KindMissingClaim,
		Message: fmt.Sprintf("The Claim '%s' is not present in the JWT.", name),
		Claim:   name,
	}
}

// IncorrectClaim reports a claim whose value failed its check.
func IncorrectClaim(name string, value any) *Error {
	return &Error{
		Kind:    KindIncorrectClaim,
		Message: fmt.Sprintf("The Claim '%s' value doesn't match the required one.", name),
		Claim:   name,
		Value:   value,
	}
}

// NotYetValid reports a time claim (nbf or iat) that lies in the future.
func NotYetValid(name string, value any, at time.Time) *Error {
	return &Error{
		Kind:    KindIncorrectClaim,
		Message: fmt.Sprintf("The Token can't be used before %s.", at.UTC().Format(time.RFC3339)),
		Claim:   name,
		Value:   value,
	}
}

// TokenExpired reports a token whose exp claim has passed.
func TokenExpired(expiredOn time.Time) *Error {
	return &Error{
		Kind:      KindTokenExpired,
		Message:   fmt.Sprintf("The Token has expired on %s.", expiredOn.UTC().Format(time.RFC3339)),
		Claim:     "exp",
		ExpiredOn: expiredOn,
	}
}

// InvalidArgument reports a configuration mistake made by the caller.
func InvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}
