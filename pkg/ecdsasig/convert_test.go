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

package ecdsasig

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

var curves = []struct {
	name  string
	curve elliptic.Curve
	size  int
}{
	{"P-256", elliptic.P256(), SizeP256},
	{"P-384", elliptic.P384(), SizeP384},
	{"P-521", elliptic.P521(), SizeP521},
}

// TestRoundTrip_RealSignatures tests DER -> JOSE -> DER on signatures from crypto/ecdsa
func TestRoundTrip_RealSignatures(t *testing.T) {
	for _, c := range curves {
		t.Run(c.name, func(t *testing.T) {
			key, err := ecdsa.GenerateKey(c.curve, rand.Reader)
			require.NoError(t, err)
			assert.Equal(t, c.size, SizeForCurve(c.curve))

			for i := 0; i < 20; i++ {
				digest := sha256.Sum256([]byte{byte(i)})
				der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
				require.NoError(t, err)

				jose, err := DERToJOSE(der, c.size)
				require.NoError(t, err)
				assert.Len(t, jose, 2*c.size)
				require.NoError(t, Validate(jose, c.size))
				require.NoError(t, CheckRange(jose, c.size, c.curve.Params().N))

				back, err := JOSEToDER(jose, c.size)
				require.NoError(t, err)
				assert.Equal(t, der, back)
				assert.True(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], back))
			}
		})
	}
}

func TestJOSEToDER_SignByte(t *testing.T) {
	jose := make([]byte, 64)
	jose[0] = 0x80
	jose[32] = 0x01

	der, err := JOSEToDER(jose, SizeP256)
	require.NoError(t, err)

	// R gains a 0x00 sign byte, S keeps its 32 bytes
	assert.Equal(t, byte(0x30), der[0])
	assert.Equal(t, byte(2+33+2+32), der[1])
	assert.Equal(t, []byte{0x02, 33, 0x00, 0x80}, der[2:6])
}

func TestJOSEToDER_LeadingZerosTrimmed(t *testing.T) {
	jose := make([]byte, 64)
	jose[31] = 0x05
	jose[63] = 0x07

	der, err := JOSEToDER(jose, SizeP256)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x07}, der)
}

func TestJOSEToDER_LongFormLength(t *testing.T) {
	jose := bytes.Repeat([]byte{0xff}, 2*SizeP521)

	der, err := JOSEToDER(jose, SizeP521)
	require.NoError(t, err)
	assert.Equal(t, byte(0x81), der[1])
	assert.Equal(t, len(der)-3, int(der[2]))

	back, err := DERToJOSE(der, SizeP521)
	require.NoError(t, err)
	assert.Equal(t, jose, back)
}

// integerPattern fills size bytes for one half of a JOSE signature
func integerPattern(kind string, size int) []byte {
	b := bytes.Repeat([]byte{0x5a}, size)
	switch kind {
	case "high bit":
		b[0] = 0x80
	case "one leading zero":
		b[0] = 0x00
		b[1] = 0x9c
	case "several leading zeros":
		for i := 0; i < 5; i++ {
			b[i] = 0x00
		}
		b[5] = 0x01
	case "single byte":
		b = make([]byte, size)
		b[size-1] = 0x7f
	}
	return b
}

// TestRoundTrip_PaddingCombinations tests every R/S padding shape on every curve size
func TestRoundTrip_PaddingCombinations(t *testing.T) {
	kinds := []string{"plain", "high bit", "one leading zero", "several leading zeros", "single byte"}
	for _, c := range curves {
		for _, rk := range kinds {
			for _, sk := range kinds {
				t.Run(c.name+"/r "+rk+"/s "+sk, func(t *testing.T) {
					jose := append(integerPattern(rk, c.size), integerPattern(sk, c.size)...)

					der, err := JOSEToDER(jose, c.size)
					require.NoError(t, err)
					back, err := DERToJOSE(der, c.size)
					require.NoError(t, err)
					assert.Equal(t, jose, back)

					again, err := JOSEToDER(back, c.size)
					require.NoError(t, err)
					assert.Equal(t, der, again)
				})
			}
		}
	}
}

func TestDERToJOSE_OptionalLongFormMarker(t *testing.T) {
	jose := append(integerPattern("plain", SizeP256), integerPattern("plain", SizeP256)...)
	der, err := JOSEToDER(jose, SizeP256)
	require.NoError(t, err)
	require.Equal(t, byte(0x44), der[1])

	marked := append([]byte{0x30, 0x81}, der[1:]...)
	back, err := DERToJOSE(marked, SizeP256)
	require.NoError(t, err)
	assert.Equal(t, jose, back)

	marked[2]++
	_, err = DERToJOSE(marked, SizeP256)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidDERFormat))
}

func TestJOSEToDER_WrongLength(t *testing.T) {
	_, err := JOSEToDER(make([]byte, 63), SizeP256)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidJOSEFormat))
}

func TestDERToJOSE_RightAlignsShortIntegers(t *testing.T) {
	der := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x07}
	jose, err := DERToJOSE(der, SizeP256)
	require.NoError(t, err)

	want := make([]byte, 64)
	want[31] = 0x05
	want[63] = 0x07
	assert.Equal(t, want, jose)
}

func TestDERToJOSE_Invalid(t *testing.T) {
	valid := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x02, 0x01, 0x07}
	tooLong := append([]byte{0x30, 0x26, 0x02, 0x22}, make([]byte, 0x22)...)
	tooLong = append(tooLong, 0x02, 0x00)

	tests := []struct {
		name string
		der  []byte
	}{
		{"too short", valid[:6]},
		{"wrong tag", append([]byte{0x31}, valid[1:]...)},
		{"length mismatch", append([]byte{0x30, 0x07}, valid[2:]...)},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
		{"integer too long", tooLong},
		{"jose sized", make([]byte, 64)},
		{"missing second integer", []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x04, 0x01, 0x07}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DERToJOSE(tt.der, SizeP256)
			require.Error(t, err)
			assert.True(t, errors.Is(err, jwterr.ErrInvalidDERFormat))
			assert.Equal(t, "Invalid DER signature format.", err.Error())
		})
	}
}

// TestValidate_RejectsZeroSignatures covers the CVE-2022-21449 family
func TestValidate_RejectsZeroSignatures(t *testing.T) {
	nonZero := bytes.Repeat([]byte{0x01}, 32)
	zero := make([]byte, 32)

	tests := []struct {
		name string
		sig  []byte
	}{
		{"all zero", make([]byte, 64)},
		{"zero r", append(append([]byte{}, zero...), nonZero...)},
		{"zero s", append(append([]byte{}, nonZero...), zero...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sig, SizeP256)
			require.Error(t, err)
			assert.True(t, errors.Is(err, jwterr.ErrInvalidSignatureFormat))
			assert.Equal(t, "Invalid signature format.", err.Error())
		})
	}
}

func TestValidate_WrongLength(t *testing.T) {
	err := Validate(make([]byte, 96), SizeP256)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidJOSEFormat))
}

func TestCheckRange_RejectsValuesAboveOrder(t *testing.T) {
	sig := bytes.Repeat([]byte{0xff}, 64)
	err := CheckRange(sig, SizeP256, elliptic.P256().Params().N)
	assert.True(t, errors.Is(err, jwterr.ErrInvalidSignatureFormat))
}

func TestSizeForCurve_Unsupported(t *testing.T) {
	assert.Equal(t, 0, SizeForCurve(elliptic.P224()))
}
