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

package jwt

import (
	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/token"
	"github.com/jeremyhahn/go-jwt/pkg/verification"
)

// Decode parses a token without verifying its signature or claims.
//
// Example:
//
//	decoded, err := jwt.Decode(tokenString)
//	if err != nil {
//	    log.Fatal("invalid token format")
//	}
//	fmt.Printf("Token was signed with key: %s\n", decoded.KeyID())
func Decode(tokenString string) (*token.DecodedToken, error) {
	return token.Decode(tokenString)
}

// Require starts a Verification for tokens signed with alg.
//
// Example:
//
//	verifier, err := jwt.Require(alg).
//	    WithIssuer("go-jwt").
//	    Build()
func Require(alg algorithm.Algorithm) *verification.Verification {
	return verification.New(alg)
}

// Create starts a new token Builder.
//
// Example:
//
//	tokenString, err := jwt.Create().
//	    WithSubject("user123").
//	    WithExpiresAt(time.Now().Add(time.Hour)).
//	    Sign(alg)
func Create() *Builder {
	return NewBuilder()
}
