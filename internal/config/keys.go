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


package config

import (
	"crypto"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-jwt/internal/keyfile"
	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/crypto/vault"
	"github.com/jeremyhahn/go-jwt/pkg/jwt"
	"github.com/jeremyhahn/go-jwt/pkg/keyprovider"
	"github.com/jeremyhahn/go-jwt/pkg/verification"
)

// ErrNoKey is returned when the profile names no key material.
var ErrNoKey = errors.New("no key configured: set a secret, key file, JWK set or vault key")

// AutoJWTID requests a random "jti".
const AutoJWTID = "auto"

// SigningAlgorithm builds the algorithm used to sign tokens.
func (c *Config) SigningAlgorithm() (algorithm.Algorithm, error) {
	return c.buildAlgorithm(true)
}

// VerifyingAlgorithm builds the algorithm used to verify tokens. A private
// key file alone is enough: its public half is used.
func (c *Config) VerifyingAlgorithm() (algorithm.Algorithm, error) {
	return c.buildAlgorithm(false)
}

func (c *Config) buildAlgorithm(signing bool) (algorithm.Algorithm, error) {
	switch {
	case c.Vault.Enabled:
		return c.vaultAlgorithm()
	case c.Key.Secret != "" || c.Key.SecretFile != "":
		return c.hmacAlgorithm()
	case c.Key.JWKSFile != "":
		return c.jwksAlgorithm(signing)
	case c.Key.PrivateKeyFile != "" || c.Key.PublicKeyFile != "":
		return c.keyFileAlgorithm(signing)
	}
	if c.Algorithm == "none" {
		return algorithm.NewNone(), nil
	}
	return nil, ErrNoKey
}

func (c *Config) vaultAlgorithm() (algorithm.Algorithm, error) {
	provider, err := vault.NewProvider(&vault.Config{
		Address:       c.Vault.Address,
		Token:         c.Vault.Token,
		TransitPath:   c.Vault.MountPath,
		Namespace:     c.Vault.Namespace,
		TLSSkipVerify: c.Vault.TLSSkipVerify,
		Timeout:       c.Vault.Timeout,
	})
	if err != nil {
		return nil, err
	}
	kp := vault.NewKeyProvider(vault.Key{Name: c.Vault.KeyName, Version: c.Vault.KeyVersion},
		vault.WithVersionTracking(provider))
	return algorithm.New(c.Algorithm, kp, algorithm.WithCryptoProvider(provider))
}

func (c *Config) hmacAlgorithm() (algorithm.Algorithm, error) {
	secret := []byte(c.Key.Secret)
	if c.Key.SecretFile != "" {
		var err error
		if secret, err = keyfile.ReadSecret(c.Key.SecretFile); err != nil {
			return nil, err
		}
	}
	name := c.Algorithm
	if name == "" {
		name = "HS256"
	}
	return algorithm.New(name, secret)
}

func (c *Config) jwksAlgorithm(signing bool) (algorithm.Algorithm, error) {
	if c.Algorithm == "" {
		return nil, fmt.Errorf("algorithm is required with a JWK set")
	}
	data, err := os.ReadFile(c.Key.JWKSFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWK set: %w", err)
	}

	var opts []keyprovider.JWKSetOption
	if signing || c.Key.PrivateKeyFile != "" {
		priv, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, keyprovider.WithSigningKey(c.Key.KeyID, priv))
	}

	set, err := keyprovider.ParseJWKSet(data, opts...)
	if err != nil {
		return nil, err
	}
	return algorithm.New(c.Algorithm, set)
}

func (c *Config) keyFileAlgorithm(signing bool) (algorithm.Algorithm, error) {
	var (
		priv crypto.PrivateKey
		pub  crypto.PublicKey
		err  error
	)
	if c.Key.PrivateKeyFile != "" {
		if priv, err = c.privateKey(); err != nil {
			return nil, err
		}
		if signer, ok := priv.(crypto.Signer); ok {
			pub = signer.Public()
		}
	} else if signing {
		return nil, fmt.Errorf("a private key file is required to sign")
	}
	if c.Key.PublicKeyFile != "" {
		if pub, err = keyfile.LoadPublicKey(c.Key.PublicKeyFile); err != nil {
			return nil, err
		}
	}

	name := c.Algorithm
	if name == "" {
		inferred, err := algorithm.ForKey(pub)
		if err != nil {
			return nil, err
		}
		name = inferred.Name()
	}

	provider := keyprovider.NewStatic(
		keyprovider.WithDefaultPublicKey(pub),
		keyprovider.WithPrivateKey(c.Key.KeyID, priv),
	)
	return algorithm.New(name, provider)
}

func (c *Config) privateKey() (crypto.PrivateKey, error) {
	if c.Key.PrivateKeyFile == "" {
		return nil, fmt.Errorf("a private key file is required to sign")
	}
	var password []byte
	if c.Key.Password != "" {
		password = []byte(c.Key.Password)
	}
	return keyfile.LoadPrivateKey(c.Key.PrivateKeyFile, password)
}

// Verification returns a verification for alg with the profile's claim
// checks applied.
func (c *Config) Verification(alg algorithm.Algorithm) *verification.Verification {
	v := jwt.Require(alg)
	vc := c.Verify

	if len(vc.Issuers) > 0 {
		v.WithIssuer(vc.Issuers...)
	}
	if len(vc.Audience) > 0 {
		if vc.AnyAudience {
			v.WithAnyOfAudience(vc.Audience...)
		} else {
			v.WithAudience(vc.Audience...)
		}
	}
	if vc.Subject != "" {
		v.WithSubject(vc.Subject)
	}
	for _, name := range vc.RequiredClaims {
		v.WithClaimPresence(name)
	}
	if vc.Leeway > 0 {
		v.AcceptLeeway(vc.Leeway)
	}
	if vc.ExpiresAtLeeway > 0 {
		v.AcceptExpiresAt(vc.ExpiresAtLeeway)
	}
	if vc.NotBeforeLeeway > 0 {
		v.AcceptNotBefore(vc.NotBeforeLeeway)
	}
	if vc.IssuedAtLeeway > 0 {
		v.AcceptIssuedAt(vc.IssuedAtLeeway)
	}
	if vc.IgnoreIssuedAt {
		v.IgnoreIssuedAt()
	}
	return v
}

// Builder returns a token builder carrying the profile's registered
// claims, with times relative to now.
func (c *Config) Builder(now time.Time) *jwt.Builder {
	sc := c.Sign
	b := jwt.Create()

	if sc.Issuer != "" {
		b.WithIssuer(sc.Issuer)
	}
	if sc.Subject != "" {
		b.WithSubject(sc.Subject)
	}
	if len(sc.Audience) > 0 {
		b.WithAudience(sc.Audience...)
	}
	if sc.IssuedAt {
		b.WithIssuedAt(now)
	}
	if sc.ExpiresIn > 0 {
		b.WithExpiresAt(now.Add(sc.ExpiresIn))
	}
	if sc.NotBefore > 0 {
		b.WithNotBefore(now.Add(sc.NotBefore))
	}
	switch sc.JWTID {
	case "":
	case AutoJWTID:
		b.WithJWTID(uuid.NewString())
	default:
		b.WithJWTID(sc.JWTID)
	}
	if c.Key.KeyID != "" {
		b.WithKeyID(c.Key.KeyID)
	}
	return b
}
