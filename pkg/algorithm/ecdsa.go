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

	"github.com/jeremyhahn/go-jwt/pkg/ecdsasig"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// ECDSA is ECDSA over the NIST curves (ES256, ES384, ES512).
type ECDSA struct {
	keyed
}

// ECDSA256 returns ES256 for the given keys. Either may be nil, not both.
// A nil public key is derived from the private key.
func ECDSA256(pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKeys("ES256", pub, priv, opts)
}

// ECDSA384 returns ES384 for the given keys.
func ECDSA384(pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKeys("ES384", pub, priv, opts)
}

// ECDSA512 returns ES512 for the given keys.
func ECDSA512(pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKeys("ES512", pub, priv, opts)
}

// ECDSA256WithKey returns ES256 for a single key: an *ecdsa.PublicKey, an
// *ecdsa.PrivateKey, or a crypto.Signer holding an ECDSA key.
func ECDSA256WithKey(key any, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKey("ES256", key, opts)
}

// ECDSA384WithKey returns ES384 for a single key.
func ECDSA384WithKey(key any, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKey("ES384", key, opts)
}

// ECDSA512WithKey returns ES512 for a single key.
func ECDSA512WithKey(key any, opts ...Option) (*ECDSA, error) {
	return newECDSAFromKey("ES512", key, opts)
}

// ECDSA256WithProvider returns ES256 resolving keys through kp.
func ECDSA256WithProvider(kp KeyProvider, opts ...Option) (*ECDSA, error) {
	return newECDSA("ES256", kp, opts)
}

// ECDSA384WithProvider returns ES384 resolving keys through kp.
func ECDSA384WithProvider(kp KeyProvider, opts ...Option) (*ECDSA, error) {
	return newECDSA("ES384", kp, opts)
}

// ECDSA512WithProvider returns ES512 resolving keys through kp.
func ECDSA512WithProvider(kp KeyProvider, opts ...Option) (*ECDSA, error) {
	return newECDSA("ES512", kp, opts)
}

func newECDSAFromKeys(name string, pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, opts []Option) (*ECDSA, error) {
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
	return newECDSA(name, keys, opts)
}

func newECDSAFromKey(name string, key any, opts []Option) (*ECDSA, error) {
	switch k := key.(type) {
	case nil:
		return nil, missingBoth()
	case *ecdsa.PublicKey:
		if k == nil {
			return nil, missingBoth()
		}
		return newECDSA(name, fixedKeys{public: k}, opts)
	case *ecdsa.PrivateKey:
		return newECDSAFromKeys(name, nil, k, opts)
	case crypto.Signer:
		if pub, ok := k.Public().(*ecdsa.PublicKey); ok {
			return newECDSA(name, fixedKeys{public: pub, private: k}, opts)
		}
	}
	return nil, jwterr.Newf(jwterr.KindInvalidArgument, "%T is not an ECDSA public or private key", key)
}

func newECDSA(name string, kp KeyProvider, opts []Option) (*ECDSA, error) {
	if isNil(kp) {
		return nil, missingProvider()
	}
	o := applyOptions(opts)
	return &ECDSA{keyed{base: base{info: registry[name], provider: o.provider}, keys: kp}}, nil
}

// Verify implements Algorithm. The JOSE signature is validated and
// converted to DER before it reaches the crypto provider.
func (a *ECDSA) Verify(t *token.DecodedToken) error {
	sig, err := token.DecodeSegment(t.SignaturePart())
	if err != nil {
		return a.verificationError(err)
	}
	pub, err := a.publicKey(t.KeyID())
	if err != nil {
		return a.verificationError(err)
	}
	if err := a.validate(sig, pub); err != nil {
		return a.verificationError(err)
	}
	der, err := ecdsasig.JOSEToDER(sig, a.info.Size)
	if err != nil {
		return a.verificationError(err)
	}
	ok, err := a.provider.Verify(a.info.Description, pub, []byte(t.HeaderPart()), []byte(t.PayloadPart()), der)
	if err != nil {
		return a.verificationError(err)
	}
	if !ok {
		return a.verificationError(nil)
	}
	return nil
}

// validate checks the signature shape and, for a plain ECDSA key, that the
// key's curve belongs to this algorithm and R and S are below its order.
func (a *ECDSA) validate(sig []byte, pub crypto.PublicKey) error {
	if k, ok := pub.(*ecdsa.PublicKey); ok && k != nil && k.Curve != nil {
		if ecdsasig.SizeForCurve(k.Curve) != a.info.Size {
			return jwterr.Newf(jwterr.KindInvalidKey,
				"%s key cannot verify %s", k.Curve.Params().Name, a.info.Name)
		}
		return ecdsasig.CheckRange(sig, a.info.Size, k.Curve.Params().N)
	}
	return ecdsasig.Validate(sig, a.info.Size)
}

// Sign implements Algorithm. The provider's DER signature is returned in
// JOSE form.
func (a *ECDSA) Sign(header, payload []byte) ([]byte, error) {
	priv, err := a.privateKey()
	if err != nil {
		return nil, a.generationError(err)
	}
	der, err := a.provider.Sign(a.info.Description, priv, header, payload)
	if err != nil {
		return nil, a.generationError(err)
	}
	jose, err := ecdsasig.DERToJOSE(der, a.info.Size)
	if err != nil {
		return nil, a.generationError(err)
	}
	return jose, nil
}
