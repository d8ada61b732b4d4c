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


package keyprovider_test

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/jwt"
	"github.com/jeremyhahn/go-jwt/pkg/keyprovider"
)

func newJWXSet(t *testing.T, kid string) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := jwk.PublicKeyOf(key)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, kid))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, jwa.RS256))

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))
	payload, err := json.Marshal(set)
	require.NoError(t, err)
	return key, payload
}

func TestJWKSet_VerifiesJWXSignedToken(t *testing.T) {
	const kid = "jwx-key"
	key, doc := newJWXSet(t, kid)

	set, err := keyprovider.ParseJWKSet(doc)
	require.NoError(t, err)

	tok, err := jwxjwt.NewBuilder().
		Issuer("jwx").
		Subject("interop").
		Expiration(time.Now().Add(time.Hour)).
		Build()
	require.NoError(t, err)

	jwkPriv, err := jwk.FromRaw(key)
	require.NoError(t, err)
	require.NoError(t, jwkPriv.Set(jwk.KeyIDKey, kid))
	signed, err := jwxjwt.Sign(tok, jwxjwt.WithKey(jwa.RS256, jwkPriv))
	require.NoError(t, err)

	alg, err := algorithm.RSA256WithProvider(set)
	require.NoError(t, err)
	verifier, err := jwt.Require(alg).WithIssuer("jwx").Build()
	require.NoError(t, err)

	decoded, err := verifier.Verify(string(signed))
	require.NoError(t, err)
	assert.Equal(t, kid, decoded.KeyID())
	assert.Equal(t, "interop", decoded.Subject())
}

func TestJWX_VerifiesOurToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	provider := keyprovider.NewStatic(keyprovider.WithPrivateKey("ours", key))
	alg, err := algorithm.RSA512WithProvider(provider)
	require.NoError(t, err)

	signed, err := jwt.Create().
		WithIssuer("go-jwt").
		WithAudience("svc").
		WithExpiresAt(time.Now().Add(time.Hour)).
		Sign(alg)
	require.NoError(t, err)

	doc, err := keyprovider.MarshalPublicJWKSet(map[string]crypto.PublicKey{"ours": &key.PublicKey}, "RS512")
	require.NoError(t, err)
	set, err := jwk.Parse(doc)
	require.NoError(t, err)

	tok, err := jwxjwt.Parse([]byte(signed), jwxjwt.WithKeySet(set), jwxjwt.WithAudience("svc"))
	require.NoError(t, err)
	assert.Equal(t, "go-jwt", tok.Issuer())
}
