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

package algorithm

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// New returns the named algorithm for key. HMAC algorithms take a []byte
// or string secret; RSA and ECDSA take any key accepted by the WithKey
// constructors, or a KeyProvider; "none" ignores key.
func New(name string, key any, opts ...Option) (Algorithm, error) {
	info, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	switch info.Family {
	case FamilyHMAC:
		var secret []byte
		switch k := key.(type) {
		case []byte:
			secret = k
		case string:
			secret = []byte(k)
		default:
			return nil, jwterr.Newf(jwterr.KindInvalidArgument, "%s requires a []byte or string secret, got %T", name, key)
		}
		return newHMAC(name, secret, opts)
	case FamilyRSA:
		if kp, ok := key.(KeyProvider); ok {
			return newRSA(name, kp, opts)
		}
		return newRSAFromKey(name, key, opts)
	case FamilyECDSA:
		if kp, ok := key.(KeyProvider); ok {
			return newECDSA(name, kp, opts)
		}
		return newECDSAFromKey(name, key, opts)
	}
	return NewNone(), nil
}

// ForKey picks the algorithm matching a key: RS256 for RSA keys and the
// ES variant matching the curve for ECDSA keys.
func ForKey(key any, opts ...Option) (Algorithm, error) {
	if isNil(key) {
		return nil, jwterr.InvalidArgument("The key cannot be null.")
	}
	pub := key
	if signer, ok := key.(crypto.Signer); ok {
		pub = signer.Public()
	}
	if isNil(pub) {
		return nil, jwterr.InvalidArgument("The key cannot be null.")
	}
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return New("RS256", key, opts...)
	case *ecdsa.PublicKey:
		if k.Curve == nil {
			return nil, jwterr.InvalidArgument("The ECDSA key has no curve.")
		}
		switch k.Curve {
		case elliptic.P256():
			return New("ES256", key, opts...)
		case elliptic.P384():
			return New("ES384", key, opts...)
		case elliptic.P521():
			return New("ES512", key, opts...)
		}
		return nil, jwterr.Newf(jwterr.KindUnsupportedAlgorithm, "unsupported ECDSA curve: %s", k.Curve.Params().Name)
	}
	return nil, jwterr.Newf(jwterr.KindUnsupportedAlgorithm, "unsupported key type: %T", key)
}
