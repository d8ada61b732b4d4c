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

// Package algorithm provides the JWS signature algorithms supported by
// go-jwt.
//
// # Supported Algorithms
//
//   - HS256, HS384, HS512 (HMAC with SHA-2)
//   - RS256, RS384, RS512 (RSA with PKCS#1 v1.5)
//   - ES256, ES384, ES512 (ECDSA on P-256, P-384, P-521)
//   - none (unsecured tokens)
//
// # Keys
//
// Each family can be built from fixed keys or from a KeyProvider that is
// consulted on every operation:
//
//	alg, err := algorithm.ECDSA256(&priv.PublicKey, priv)
//	alg, err := algorithm.RSA256WithProvider(provider)
//
// A KeyProvider receives the "kid" header of the token being verified,
// which lets one verifier accept tokens signed by several keys.
//
// # Crypto Providers
//
// The raw signing work is delegated to a CryptoProvider. The default is
// the standard library implementation in pkg/crypto/native; any other
// implementation, such as pkg/crypto/vault, can be injected with
// WithCryptoProvider. ECDSA signatures are exchanged with providers in
// ASN.1 DER form and converted to and from the JOSE R || S form here.
// Incoming ECDSA signatures are structurally validated first, rejecting
// all-zero values (CVE-2022-21449).
package algorithm
