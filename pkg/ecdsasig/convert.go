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

// Package ecdsasig converts ECDSA signatures between the fixed width JOSE
// form (R || S, RFC 7518 section 3.4) and the ASN.1 DER form produced and
// consumed by crypto libraries, and validates JOSE signatures before they
// reach a verifier.
package ecdsasig

import (
	"crypto/elliptic"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// Byte width of R and S for each supported curve.
const (
	SizeP256 = 32
	SizeP384 = 48
	SizeP521 = 66
)

const (
	msgInvalidDER  = "Invalid DER signature format."
	msgInvalidJOSE = "Invalid JOSE signature format."
	msgInvalidSig  = "Invalid signature format."
)

// SizeForCurve returns the R/S width for curve, or 0 if unsupported.
func SizeForCurve(curve elliptic.Curve) int {
	switch curve {
	case elliptic.P256():
		return SizeP256
	case elliptic.P384():
		return SizeP384
	case elliptic.P521():
		return SizeP521
	}
	return 0
}

// JOSEToDER encodes a R || S signature as a DER SEQUENCE of two INTEGERs.
func JOSEToDER(jose []byte, size int) ([]byte, error) {
	if size <= 0 || len(jose) != 2*size {
		return nil, jwterr.New(jwterr.KindInvalidJOSEFormat, msgInvalidJOSE)
	}
	r := new(big.Int).SetBytes(jose[:size])
	s := new(big.Int).SetBytes(jose[size:])

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, jwterr.Wrap(jwterr.KindInvalidJOSEFormat, msgInvalidJOSE, err)
	}
	return der, nil
}

// DERToJOSE decodes a DER SEQUENCE of two INTEGERs into R || S, each
// left-padded with zeros to size bytes.
func DERToJOSE(der []byte, size int) ([]byte, error) {
	if size <= 0 || len(der) < 8 || der[0] != 0x30 || len(der) == 2*size {
		return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
	}

	// The SEQUENCE length may carry the 0x81 marker even when it fits the
	// short form, so the header is read by hand.
	input := cryptobyte.String(der[1:])
	var length uint8
	if !input.ReadUint8(&length) {
		return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
	}
	if length == 0x81 && !input.ReadUint8(&length) {
		return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
	}
	if int(length) != len(input) {
		return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
	}
	seq := input

	jose := make([]byte, 2*size)
	for i := 0; i < 2; i++ {
		var n cryptobyte.String
		if !seq.ReadASN1(&n, asn1.INTEGER) || len(n) == 0 || len(n) > size+1 {
			return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
		}
		v := trimLeadingZeros(n)
		if len(v) > size {
			return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
		}
		copy(jose[(i+1)*size-len(v):(i+1)*size], v)
	}
	if !seq.Empty() {
		return nil, jwterr.New(jwterr.KindInvalidDERFormat, msgInvalidDER)
	}
	return jose, nil
}

// Validate checks the structure of a JOSE signature: exact length, no
// all-zero signature, R or S, and a DER encoding that fits the single
// byte long form.
func Validate(jose []byte, size int) error {
	if size <= 0 || len(jose) != 2*size {
		return jwterr.New(jwterr.KindInvalidJOSEFormat, msgInvalidJOSE)
	}
	if allZero(jose) || allZero(jose[:size]) || allZero(jose[size:]) {
		return jwterr.New(jwterr.KindInvalidSignatureFormat, msgInvalidSig)
	}
	if derContentLength(jose[:size])+derContentLength(jose[size:]) > 255 {
		return jwterr.New(jwterr.KindInvalidJOSEFormat, msgInvalidJOSE)
	}
	return nil
}

// CheckRange rejects signatures whose R or S is not below the curve order.
func CheckRange(jose []byte, size int, order *big.Int) error {
	if err := Validate(jose, size); err != nil {
		return err
	}
	r := new(big.Int).SetBytes(jose[:size])
	s := new(big.Int).SetBytes(jose[size:])
	if r.Cmp(order) >= 0 || s.Cmp(order) >= 0 {
		return jwterr.New(jwterr.KindInvalidSignatureFormat, msgInvalidSig)
	}
	return nil
}

// derContentLength is the encoded size of a minimal positive INTEGER
// holding v, tag and length included.
func derContentLength(v []byte) int {
	t := trimLeadingZeros(v)
	n := len(t)
	if n == 0 || t[0]&0x80 != 0 {
		n++
	}
	return 2 + n
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
