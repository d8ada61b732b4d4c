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


package metrics

import (
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/jwt"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// TokenVerifier is satisfied by *verification.Verifier.
type TokenVerifier interface {
	Algorithm() algorithm.Algorithm
	Verify(tokenString string) (*token.DecodedToken, error)
}

// InstrumentedVerifier records every verification.
type InstrumentedVerifier struct {
	next TokenVerifier
}

// NewInstrumentedVerifier wraps next.
func NewInstrumentedVerifier(next TokenVerifier) *InstrumentedVerifier {
	return &InstrumentedVerifier{next: next}
}

// Algorithm returns the wrapped verifier's algorithm.
func (v *InstrumentedVerifier) Algorithm() algorithm.Algorithm {
	return v.next.Algorithm()
}

// Verify delegates to the wrapped verifier and records the outcome under
// the "verify" operation.
func (v *InstrumentedVerifier) Verify(tokenString string) (*token.DecodedToken, error) {
	start := time.Now()
	decoded, err := v.next.Verify(tokenString)
	Observe(OpVerify, v.next.Algorithm().Name(), time.Since(start).Seconds(), err)
	return decoded, err
}

// InstrumentedSigner signs builders with a fixed algorithm and records
// every signature.
type InstrumentedSigner struct {
	alg algorithm.Algorithm
}

// NewInstrumentedSigner returns a signer for alg.
func NewInstrumentedSigner(alg algorithm.Algorithm) *InstrumentedSigner {
	return &InstrumentedSigner{alg: alg}
}

// Algorithm returns the signing algorithm.
func (s *InstrumentedSigner) Algorithm() algorithm.Algorithm {
	return s.alg
}

// Sign signs b and records the outcome under the "sign" operation.
func (s *InstrumentedSigner) Sign(b *jwt.Builder) (string, error) {
	name := "unknown"
	if s.alg != nil {
		name = s.alg.Name()
	}
	start := time.Now()
	tokenString, err := b.Sign(s.alg)
	Observe(OpSign, name, time.Since(start).Seconds(), err)
	return tokenString, err
}
