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
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// HMAC is a shared secret algorithm (HS256, HS384, HS512).
type HMAC struct {
	base
	secret []byte
}

// HMAC256 returns HS256 with the given secret.
func HMAC256(secret []byte, opts ...Option) (*HMAC, error) {
	return newHMAC("HS256", secret, opts)
}

// HMAC384 returns HS384 with the given secret.
func HMAC384(secret []byte, opts ...Option) (*HMAC, error) {
	return newHMAC("HS384", secret, opts)
}

// HMAC512 returns HS512 with the given secret.
func HMAC512(secret []byte, opts ...Option) (*HMAC, error) {
	return newHMAC("HS512", secret, opts)
}

// HMAC256String returns HS256 keyed with the UTF-8 bytes of secret.
func HMAC256String(secret string, opts ...Option) (*HMAC, error) {
	return HMAC256([]byte(secret), opts...)
}

// HMAC384String returns HS384 keyed with the UTF-8 bytes of secret.
func HMAC384String(secret string, opts ...Option) (*HMAC, error) {
	return HMAC384([]byte(secret), opts...)
}

// HMAC512String returns HS512 keyed with the UTF-8 bytes of secret.
func HMAC512String(secret string, opts ...Option) (*HMAC, error) {
	return HMAC512([]byte(secret), opts...)
}

func newHMAC(name string, secret []byte, opts []Option) (*HMAC, error) {
	if len(secret) == 0 {
		return nil, jwterr.InvalidArgument("The Secret cannot be null.")
	}
	o := applyOptions(opts)
	return &HMAC{
		base:   base{info: registry[name], provider: o.provider},
		secret: append([]byte(nil), secret...),
	}, nil
}

// Verify implements Algorithm.
func (a *HMAC) Verify(t *token.DecodedToken) error {
	sig, err := token.DecodeSegment(t.SignaturePart())
	if err != nil {
		return a.verificationError(err)
	}
	ok, err := a.provider.Verify(a.info.Description, a.secret, []byte(t.HeaderPart()), []byte(t.PayloadPart()), sig)
	if err != nil {
		return a.verificationError(err)
	}
	if !ok {
		return a.verificationError(nil)
	}
	return nil
}

// Sign implements Algorithm.
func (a *HMAC) Sign(header, payload []byte) ([]byte, error) {
	sig, err := a.provider.Sign(a.info.Description, a.secret, header, payload)
	if err != nil {
		return nil, a.generationError(err)
	}
	return sig, nil
}

// SigningKeyID implements Algorithm. Shared secrets carry no key id.
func (a *HMAC) SigningKeyID() string {
	return ""
}
