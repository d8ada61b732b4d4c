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

// Package native implements the go-jwt crypto provider with the Go
// standard library: HMAC, RSA PKCS#1 v1.5 and ECDSA with ASN.1 DER
// signatures.
//
// Private keys may be concrete *rsa.PrivateKey / *ecdsa.PrivateKey values
// or any crypto.Signer whose public half is an RSA or ECDSA key, so keys
// held in hardware or a KMS can sign without exposing key material.
package native

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

type scheme int

const (
	schemeHMAC scheme = iota
	schemeRSA
	schemeECDSA
)

type method struct {
	scheme scheme
	hash   crypto.Hash
}

var methods = map[string]method{
	"HmacSHA256":      {schemeHMAC, crypto.SHA256},
	"HmacSHA384":      {schemeHMAC, crypto.SHA384},
	"HmacSHA512":      {schemeHMAC, crypto.SHA512},
	"SHA256withRSA":   {schemeRSA, crypto.SHA256},
	"SHA384withRSA":   {schemeRSA, crypto.SHA384},
	"SHA512withRSA":   {schemeRSA, crypto.SHA512},
	"SHA256withECDSA": {schemeECDSA, crypto.SHA256},
	"SHA384withECDSA": {schemeECDSA, crypto.SHA384},
	"SHA512withECDSA": {schemeECDSA, crypto.SHA512},
}

// Provider signs and verifies with Go's crypto packages. The zero value is
// ready to use.
type Provider struct {
	// Rand is the entropy source for RSA and ECDSA signing. Defaults to
	// crypto/rand.Reader.
	Rand io.Reader
}

// New returns a Provider using crypto/rand.
func New() *Provider {
	return &Provider{}
}

// Sign signs header + "." + payload. ECDSA signatures are ASN.1 DER.
func (p *Provider) Sign(description string, key any, header, payload []byte) ([]byte, error) {
	m, err := lookup(description)
	if err != nil {
		return nil, err
	}
	content := signingInput(header, payload)

	if m.scheme == schemeHMAC {
		secret, err := secretOf(key)
		if err != nil {
			return nil, err
		}
		return mac(m.hash, secret, content), nil
	}

	digest := hashOf(m.hash, content)
	switch k := key.(type) {
	case *rsa.PrivateKey:
		if m.scheme != schemeRSA {
			return nil, invalidKey(description, key)
		}
		return rsa.SignPKCS1v15(p.rand(), k, m.hash, digest)
	case *ecdsa.PrivateKey:
		if m.scheme != schemeECDSA {
			return nil, invalidKey(description, key)
		}
		return ecdsa.SignASN1(p.rand(), k, digest)
	case crypto.Signer:
		if !signerMatches(m.scheme, k) {
			return nil, invalidKey(description, key)
		}
		// crypto.Signer implementations return PKCS#1 v1.5 for RSA with a
		// crypto.Hash option and ASN.1 DER for ECDSA.
		return k.Sign(p.rand(), digest, m.hash)
	}
	return nil, invalidKey(description, key)
}

// Verify checks signature over header + "." + payload. A signature that
// does not match reports false with a nil error.
func (p *Provider) Verify(description string, key any, header, payload, signature []byte) (bool, error) {
	m, err := lookup(description)
	if err != nil {
		return false, err
	}
	content := signingInput(header, payload)

	if m.scheme == schemeHMAC {
		secret, err := secretOf(key)
		if err != nil {
			return false, err
		}
		return hmac.Equal(mac(m.hash, secret, content), signature), nil
	}

	digest := hashOf(m.hash, content)
	switch m.scheme {
	case schemeRSA:
		pub, ok := key.(*rsa.PublicKey)
		if !ok {
			return false, invalidKey(description, key)
		}
		return rsa.VerifyPKCS1v15(pub, m.hash, digest, signature) == nil, nil
	case schemeECDSA:
		pub, ok := key.(*ecdsa.PublicKey)
		if !ok {
			return false, invalidKey(description, key)
		}
		return ecdsa.VerifyASN1(pub, digest, signature), nil
	}
	return false, invalidKey(description, key)
}

func (p *Provider) rand() io.Reader {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.Reader
}

func lookup(description string) (method, error) {
	m, ok := methods[description]
	if !ok {
		return method{}, jwterr.Newf(jwterr.KindUnsupportedAlgorithm, "unsupported algorithm %q", description)
	}
	return m, nil
}

func signingInput(header, payload []byte) []byte {
	content := make([]byte, 0, len(header)+1+len(payload))
	content = append(content, header...)
	content = append(content, '.')
	return append(content, payload...)
}

func hashOf(h crypto.Hash, content []byte) []byte {
	hasher := h.New()
	hasher.Write(content)
	return hasher.Sum(nil)
}

func mac(h crypto.Hash, secret, content []byte) []byte {
	m := hmac.New(h.New, secret)
	m.Write(content)
	return m.Sum(nil)
}

func secretOf(key any) ([]byte, error) {
	switch k := key.(type) {
	case []byte:
		return k, nil
	case string:
		return []byte(k), nil
	}
	return nil, jwterr.Newf(jwterr.KindInvalidKey, "HMAC secret must be []byte, got %T", key)
}

func signerMatches(s scheme, signer crypto.Signer) bool {
	switch signer.Public().(type) {
	case *rsa.PublicKey:
		return s == schemeRSA
	case *ecdsa.PublicKey:
		return s == schemeECDSA
	}
	return false
}

func invalidKey(description string, key any) error {
	return jwterr.New(jwterr.KindInvalidKey, fmt.Sprintf("key of type %T cannot be used with %s", key, description))
}
