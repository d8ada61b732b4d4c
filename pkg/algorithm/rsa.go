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
	"crypto/rsa"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// RSA is RSASSA-PKCS1-v1_5 (RS256, RS384, RS512).
type RSA struct {
	keyed
}

// RSA256 returns RS256 for the given keys. Either may be nil, not both.
// A nil public key is derived from the private key.
func RSA256(pub *rsa.PublicKey, priv *rsa.PrivateKey, opts ...Option) (*RSA, error) {
	return newRSAFromKeys("RS256", pub, priv, opts)
}

// RSA384 returns RS384 for the given keys.
func RSA384(pub *rsa.PublicKey, priv *rsa.PrivateKey, opts ...Option) (*RSA, error) {
	return newRSAFromKeys("RS384", pub, priv, opts)
}

// RSA512 returns RS512 for the given keys.
func RSA512(pub *rsa.PublicKey, priv *rsa.PrivateKey, opts ...Option) (*RSA, error) {
	return newRSAFromKeys("RS512", pub, priv, opts)
}

// RSA256WithKey returns RS256 for a single key: an *rsa.PublicKey, an
// *rsa.PrivateKey, or a crypto.Signer holding an RSA key.
func RSA256WithKey(key any, opts ...Option) (*RSA, error) {
	return newRSAFromKey("RS256", key, opts)
}

// RSA384WithKey returns RS384 for a single key.
func RSA384WithKey(key any, opts ...Option) (*RSA, error) {
	return newRSAFromKey("RS384", key, opts)
}

// RSA512WithKey returns RS512 for a single key.
func RSA512WithKey(key any, opts ...Option) (*RSA, error) {
	return newRSAFromKey("RS512", key, opts)
}

// RSA256WithProvider returns RS256 resolving keys through kp.
func RSA256WithProvider(kp KeyProvider, opts ...Option) (*RSA, error) {
	return newRSA("RS256", kp, opts)
}

// RSA384WithProvider returns RS384 resolving keys through kp.
func RSA384WithProvider(kp KeyProvider, opts ...Option) (*RSA, error) {
	return newRSA("RS384", kp, opts)
}

// RSA512WithProvider returns RS512 resolving keys through kp.
func RSA512WithProvider(kp KeyProvider, opts ...Option) (*RSA, error) {
	return newRSA("RS512", kp, opts)
}

func newRSAFromKeys(name string, pub *rsa.PublicKey, priv *rsa.PrivateKey, opts []Option) (*RSA, error) {
	if pub == nil && priv == nil {
		return nil, missingBoth()
	}
	keys := fixedKeys{}
	if priv != nil {
		keys.private = priv
		keys.public = &priv.PublicKey
	}
	if pub != nil {
		keys.public = pub
	}
	return newRSA(name, keys, opts)
}

func newRSAFromKey(name string, key any, opts []Option) (*RSA, error) {
	switch k := key.(type) {
	case nil:
		return nil, missingBoth()
	case *rsa.PublicKey:
		if k == nil {
			return nil, missingBoth()
		}
		return newRSA(name, fixedKeys{public: k}, opts)
	case *rsa.PrivateKey:
		return newRSAFromKeys(name, nil, k, opts)
	case crypto.Signer:
		if pub, ok := k.Public().(*rsa.PublicKey); ok {
			return newRSA(name, fixedKeys{public: pub, private: k}, opts)
		}
	}
	return nil, jwterr.Newf(jwterr.KindInvalidArgument, "%T is not an RSA public or private key", key)
}

func newRSA(name string, kp KeyProvider, opts []Option) (*RSA, error) {
	if isNil(kp) {
		return nil, missingProvider()
	}
	o := applyOptions(opts)
	return &RSA{keyed{base: base{info: registry[name], provider: o.provider}, keys: kp}}, nil
}

// Verify implements Algorithm.
func (a *RSA) Verify(t *token.DecodedToken) error {
	sig, err := token.DecodeSegment(t.SignaturePart())
	if err != nil {
		return a.verificationError(err)
	}
	pub, err := a.publicKey(t.KeyID())
	if err != nil {
		return a.verificationError(err)
	}
	ok, err := a.provider.Verify(a.info.Description, pub, []byte(t.HeaderPart()), []byte(t.PayloadPart()), sig)
	if err != nil {
		return a.verificationError(err)
	}
	if !ok {
		return a.verificationError(nil)
	}
	return nil
}

// Sign implements Algorithm.
func (a *RSA) Sign(header, payload []byte) ([]byte, error) {
	priv, err := a.privateKey()
	if err != nil {
		return nil, a.generationError(err)
	}
	sig, err := a.provider.Sign(a.info.Description, priv, header, payload)
	if err != nil {
		return nil, a.generationError(err)
	}
	return sig, nil
}
