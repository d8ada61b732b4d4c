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

// Package jwt is the entry point of go-jwt: it creates, decodes and
// verifies JSON Web Tokens (RFC 7519) in JWS compact serialization.
//
// # Supported Algorithms
//
//   - HS256, HS384, HS512 (HMAC)
//   - RS256, RS384, RS512 (RSA with PKCS#1 v1.5)
//   - ES256, ES384, ES512 (ECDSA)
//   - none
//
// # Basic Usage
//
// Signing a token:
//
//	privateKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
//	alg, _ := algorithm.ECDSA256(nil, privateKey)
//	tokenString, err := jwt.Create().
//	    WithIssuer("auth0").
//	    WithExpiresAt(time.Now().Add(time.Hour)).
//	    WithClaim("role", "admin").
//	    Sign(alg)
//
// Verifying a token:
//
//	verifier, err := jwt.Require(alg).WithIssuer("auth0").Build()
//	decoded, err := verifier.Verify(tokenString)
//	if errors.Is(err, jwterr.ErrTokenExpired) {
//	    ...
//	}
//
// Decoding without verification:
//
//	decoded, err := jwt.Decode(tokenString)
//	fmt.Println(decoded.Subject())
//
// # Errors
//
// Every failure is a *jwterr.Error; use errors.Is with the jwterr
// sentinels to branch on the failure kind.
package jwt
