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
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

func TestNew_ByName(t *testing.T) {
	rsaPriv := rsaKey(t)
	ecPriv := ecKey(t, elliptic.P256())

	tests := []struct {
		name   string
		key    any
		family Family
	}{
		{"HS256", []byte("secret"), FamilyHMAC},
		{"HS512", "secret", FamilyHMAC},
		{"RS384", rsaPriv, FamilyRSA},
		{"RS256", &rsaPriv.PublicKey, FamilyRSA},
		{"ES256", ecPriv, FamilyECDSA},
		{"ES256", &stubKeys{private: ecPriv}, FamilyECDSA},
		{"none", nil, FamilyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, err := New(tt.name, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.name, alg.Name())
			assert.Equal(t, tt.family, alg.Family())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("PS256", nil)
	assert.True(t, errors.Is(err, jwterr.ErrUnsupportedAlgorithm))

	_, err = New("HS256", 12)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidArgument))

	_, err = New("ES256", rsaKey(t))
	assert.True(t, errors.Is(err, jwterr.ErrInvalidArgument))
}

func TestForKey(t *testing.T) {
	tests := []struct {
		key  crypto.PrivateKey
		want string
	}{
		{rsaKey(t), "RS256"},
		{ecKey(t, elliptic.P256()), "ES256"},
		{ecKey(t, elliptic.P384()), "ES384"},
		{ecKey(t, elliptic.P521()), "ES512"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			alg, err := ForKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, alg.Name())
		})
	}

	pub := &ecKey(t, elliptic.P384()).PublicKey
	alg, err := ForKey(pub)
	require.NoError(t, err)
	assert.Equal(t, "ES384", alg.Name())

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, err = ForKey(edKey)
	assert.True(t, errors.Is(err, jwterr.ErrUnsupportedAlgorithm))
}

func TestForKey_NilKeys(t *testing.T) {
	var nilECPub *ecdsa.PublicKey
	var nilECPriv *ecdsa.PrivateKey
	var nilRSAPub *rsa.PublicKey

	for _, key := range []any{nil, nilECPub, nilECPriv, nilRSAPub, &ecdsa.PublicKey{}} {
		assert.NotPanics(t, func() {
			_, err := ForKey(key)
			assert.True(t, errors.Is(err, jwterr.ErrInvalidArgument), "%T", key)
		})
	}
}
