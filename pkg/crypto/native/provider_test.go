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

package native

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

var (
	header  = []byte("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9")
	payload = []byte("eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ")
)

// TestHMAC_KnownVector tests the HS256 signature of a well known token
func TestHMAC_KnownVector(t *testing.T) {
	p := New()
	sig, err := p.Sign("HmacSHA256", []byte("your-256-bit-secret"), header, payload)
	require.NoError(t, err)
	assert.Equal(t, "SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c", base64.RawURLEncoding.EncodeToString(sig))

	ok, err := p.Verify("HmacSHA256", []byte("your-256-bit-secret"), header, payload, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify("HmacSHA256", []byte("other"), header, payload, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHMAC_AllSizes(t *testing.T) {
	p := New()
	for _, d := range []string{"HmacSHA256", "HmacSHA384", "HmacSHA512"} {
		t.Run(d, func(t *testing.T) {
			sig, err := p.Sign(d, "secret", header, payload)
			require.NoError(t, err)
			ok, err := p.Verify(d, "secret", header, payload, sig)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRSA_SignVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := New()
	for _, d := range []string{"SHA256withRSA", "SHA384withRSA", "SHA512withRSA"} {
		t.Run(d, func(t *testing.T) {
			sig, err := p.Sign(d, key, header, payload)
			require.NoError(t, err)
			assert.Len(t, sig, 256)

			ok, err := p.Verify(d, &key.PublicKey, header, payload, sig)
			require.NoError(t, err)
			assert.True(t, ok)

			sig[0] ^= 0xff
			ok, err = p.Verify(d, &key.PublicKey, header, payload, sig)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestECDSA_SignProducesDER(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	p := New()
	sig, err := p.Sign("SHA256withECDSA", key, header, payload)
	require.NoError(t, err)
	assert.Equal(t, byte(0x30), sig[0])

	digest := sha256.Sum256(append(append(append([]byte{}, header...), '.'), payload...))
	assert.True(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig))

	ok, err := p.Verify("SHA256withECDSA", &key.PublicKey, header, payload, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

// opaqueSigner hides the concrete key type the way hardware keys do.
type opaqueSigner struct {
	inner crypto.Signer
}

func (s opaqueSigner) Public() crypto.PublicKey { return s.inner.Public() }

func (s opaqueSigner) Sign(r io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return s.inner.Sign(r, digest, opts)
}

func TestSign_CryptoSigner(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := New()

	sig, err := p.Sign("SHA384withECDSA", opaqueSigner{ecKey}, header, payload)
	require.NoError(t, err)
	ok, err := p.Verify("SHA384withECDSA", &ecKey.PublicKey, header, payload, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	sig, err = p.Sign("SHA256withRSA", opaqueSigner{rsaKey}, header, payload)
	require.NoError(t, err)
	ok, err = p.Verify("SHA256withRSA", &rsaKey.PublicKey, header, payload, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = p.Sign("SHA256withRSA", opaqueSigner{ecKey}, header, payload)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidKey))
}

func TestProvider_Errors(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	p := New()

	_, err = p.Sign("SHA1withDSA", rsaKey, header, payload)
	assert.True(t, errors.Is(err, jwterr.ErrUnsupportedAlgorithm))

	_, err = p.Verify("SHA1withDSA", rsaKey, header, payload, nil)
	assert.True(t, errors.Is(err, jwterr.ErrUnsupportedAlgorithm))

	_, err = p.Sign("SHA256withECDSA", rsaKey, header, payload)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidKey))

	_, err = p.Verify("SHA256withRSA", rsaKey, header, payload, nil)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidKey), "private key is not a verification key")

	_, err = p.Sign("HmacSHA256", 42, header, payload)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidKey))
}

func TestHMAC_ConstantTimeCompareSemantics(t *testing.T) {
	p := New()
	m := hmac.New(sha256.New, []byte("k"))
	m.Write([]byte("a.b"))
	expected := m.Sum(nil)

	ok, err := p.Verify("HmacSHA256", []byte("k"), []byte("a"), []byte("b"), expected)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify("HmacSHA256", []byte("k"), []byte("a"), []byte("b"), expected[:16])
	require.NoError(t, err)
	assert.False(t, ok)
}
