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

package verification

import (
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// Verifier checks tokens against a frozen configuration. It is immutable
// and safe for concurrent use.
type Verifier struct {
	alg    algorithm.Algorithm
	checks []check
	clock  Clock
}

// Algorithm returns the algorithm tokens must be signed with.
func (v *Verifier) Algorithm() algorithm.Algorithm {
	return v.alg
}

// Verify decodes and verifies a compact token.
func (v *Verifier) Verify(tok string) (*token.DecodedToken, error) {
	decoded, err := token.Decode(tok)
	if err != nil {
		return nil, err
	}
	return v.VerifyDecoded(decoded)
}

// VerifyDecoded verifies an already decoded token: the header algorithm,
// the signature, then every claim check in order. The first failure is
// returned.
func (v *Verifier) VerifyDecoded(decoded *token.DecodedToken) (*token.DecodedToken, error) {
	if decoded.Algorithm() != v.alg.Name() {
		return nil, jwterr.New(jwterr.KindAlgorithmMismatch,
			"The provided Algorithm doesn't match the one defined in the JWT's Header.")
	}
	if err := v.alg.Verify(decoded); err != nil {
		return nil, err
	}

	now := v.clock.Now().Truncate(time.Second)
	for _, c := range v.checks {
		claim := decoded.Claim(c.name)
		if c.required && claim.IsMissing() {
			return nil, jwterr.MissingClaim(c.name)
		}
		if err := c.verify(claim, decoded, now); err != nil {
			return nil, err
		}
	}
	return decoded, nil
}
