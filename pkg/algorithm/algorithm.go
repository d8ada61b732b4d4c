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
	"reflect"
	"sort"

	"github.com/jeremyhahn/go-jwt/pkg/crypto/native"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// Algorithm signs and verifies tokens. The set of implementations is
// closed: *HMAC, *RSA, *ECDSA and *None.
type Algorithm interface {
	// Name is the JWA identifier written to the "alg" header, e.g. "ES256".
	Name() string

	// Description is the JCA style name handed to the CryptoProvider,
	// e.g. "SHA256withECDSA".
	Description() string

	Family() Family

	// Verify checks the signature of a decoded token. Failures are
	// jwterr.KindSignatureVerification errors wrapping the cause.
	Verify(t *token.DecodedToken) error

	// Sign signs the encoded header and payload parts.
	Sign(header, payload []byte) ([]byte, error)

	// SigningKeyID returns the key id of the signing key, or "".
	SigningKeyID() string

	String() string

	algorithm()
}

// CryptoProvider performs the raw cryptographic operations for an
// Algorithm. The signed content is header + "." + payload. ECDSA
// signatures cross this boundary in ASN.1 DER form.
type CryptoProvider interface {
	Sign(description string, key any, header, payload []byte) ([]byte, error)
	Verify(description string, key any, header, payload, signature []byte) (bool, error)
}

// KeyProvider resolves keys at use time. PublicKeyByID receives the "kid"
// header of the token being verified ("" if absent).
type KeyProvider interface {
	PublicKeyByID(keyID string) (crypto.PublicKey, error)
	PrivateKey() (crypto.PrivateKey, error)
	PrivateKeyID() string
}

// Family groups algorithms by signature scheme.
type Family int

const (
	FamilyNone Family = iota
	FamilyHMAC
	FamilyRSA
	FamilyECDSA
)

func (f Family) String() string {
	switch f {
	case FamilyHMAC:
		return "HMAC"
	case FamilyRSA:
		return "RSA"
	case FamilyECDSA:
		return "ECDSA"
	}
	return "none"
}

// Info describes a supported algorithm.
type Info struct {
	Name        string
	Description string
	Family      Family
	Hash        crypto.Hash

	// Size is the R/S width in bytes for ECDSA algorithms.
	Size int
}

var registry = map[string]Info{
	"HS256": {Name: "HS256", Description: "HmacSHA256", Family: FamilyHMAC, Hash: crypto.SHA256},
	"HS384": {Name: "HS384", Description: "HmacSHA384", Family: FamilyHMAC, Hash: crypto.SHA384},
	"HS512": {Name: "HS512", Description: "HmacSHA512", Family: FamilyHMAC, Hash: crypto.SHA512},
	"RS256": {Name: "RS256", Description: "SHA256withRSA", Family: FamilyRSA, Hash: crypto.SHA256},
	"RS384": {Name: "RS384", Description: "SHA384withRSA", Family: FamilyRSA, Hash: crypto.SHA384},
	"RS512": {Name: "RS512", Description: "SHA512withRSA", Family: FamilyRSA, Hash: crypto.SHA512},
	"ES256": {Name: "ES256", Description: "SHA256withECDSA", Family: FamilyECDSA, Hash: crypto.SHA256, Size: 32},
	"ES384": {Name: "ES384", Description: "SHA384withECDSA", Family: FamilyECDSA, Hash: crypto.SHA384, Size: 48},
	"ES512": {Name: "ES512", Description: "SHA512withECDSA", Family: FamilyECDSA, Hash: crypto.SHA512, Size: 66},
	"none":  {Name: "none", Description: "none", Family: FamilyNone},
}

// Lookup returns the description of the named algorithm.
func Lookup(name string) (Info, error) {
	info, ok := registry[name]
	if !ok {
		return Info{}, jwterr.Newf(jwterr.KindUnsupportedAlgorithm, "unsupported algorithm %q", name)
	}
	return info, nil
}

// Names returns the supported algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Option configures an Algorithm.
type Option func(*options)

type options struct {
	provider CryptoProvider
}

// WithCryptoProvider replaces the default native provider.
func WithCryptoProvider(p CryptoProvider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = native.New()
	}
	return o
}

type base struct {
	info     Info
	provider CryptoProvider
}

func (b *base) Name() string        { return b.info.Name }
func (b *base) Description() string { return b.info.Description }
func (b *base) Family() Family      { return b.info.Family }
func (b *base) String() string      { return b.info.Name }
func (b *base) algorithm()          {}

func (b *base) verificationError(cause error) error {
	return jwterr.SignatureVerification(b.info.Description, cause)
}

func (b *base) generationError(cause error) error {
	return jwterr.SignatureGeneration(b.info.Description, cause)
}

// fixedKeys serves the keys an algorithm was constructed with.
type fixedKeys struct {
	public  crypto.PublicKey
	private crypto.PrivateKey
}

func (k fixedKeys) PublicKeyByID(string) (crypto.PublicKey, error) { return k.public, nil }
func (k fixedKeys) PrivateKey() (crypto.PrivateKey, error)         { return k.private, nil }
func (k fixedKeys) PrivateKeyID() string                           { return "" }

// keyed holds the key resolution shared by RSA and ECDSA.
type keyed struct {
	base
	keys KeyProvider
}

func (k *keyed) SigningKeyID() string {
	return k.keys.PrivateKeyID()
}

func (k *keyed) publicKey(keyID string) (crypto.PublicKey, error) {
	pub, err := k.keys.PublicKeyByID(keyID)
	if err != nil {
		return nil, err
	}
	if isNil(pub) {
		return nil, jwterr.New(jwterr.KindMissingKey, "The given Public Key is null.")
	}
	return pub, nil
}

func (k *keyed) privateKey() (crypto.PrivateKey, error) {
	priv, err := k.keys.PrivateKey()
	if err != nil {
		return nil, err
	}
	if isNil(priv) {
		return nil, jwterr.New(jwterr.KindMissingKey, "The given Private Key is null.")
	}
	return priv, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func missingBoth() error {
	return jwterr.InvalidArgument("Both provided Keys cannot be null.")
}

func missingProvider() error {
	return jwterr.InvalidArgument("The Key Provider cannot be null.")
}
