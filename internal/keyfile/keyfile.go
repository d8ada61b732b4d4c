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


// Package keyfile reads and writes the PEM key files used by the jwt
// command: PKCS#1, SEC 1 and PKCS#8 private keys (optionally encrypted),
// PKIX public keys and certificates.
package keyfile

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/youmark/pkcs8"
)

const (
	PEMTypeRSAPrivateKey       = "RSA PRIVATE KEY"
	PEMTypeECPrivateKey        = "EC PRIVATE KEY"
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypePublicKey           = "PUBLIC KEY"
	PEMTypeRSAPublicKey        = "RSA PUBLIC KEY"
	PEMTypeCertificate         = "CERTIFICATE"
)

var (
	// ErrInvalidPEMEncoding is returned when no PEM block is found
	ErrInvalidPEMEncoding = errors.New("keyfile: invalid PEM encoding")

	// ErrUnsupportedBlock is returned for PEM blocks that hold no usable key
	ErrUnsupportedBlock = errors.New("keyfile: unsupported PEM block")

	// ErrInvalidPassword is returned when an encrypted key cannot be decrypted
	ErrInvalidPassword = errors.New("keyfile: invalid password")

	// ErrPasswordRequired is returned for encrypted keys without a password
	ErrPasswordRequired = errors.New("keyfile: password required")

	// ErrUnsupportedKey is returned for keys other than RSA and ECDSA
	ErrUnsupportedKey = errors.New("keyfile: unsupported key type")
)

// LoadPrivateKey reads a PEM private key from path.
func LoadPrivateKey(path string, password []byte) (crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return ParsePrivateKey(data, password)
}

// LoadPublicKey reads a PEM public key, certificate or private key from
// path and returns the public key.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return ParsePublicKey(data)
}

// ParsePrivateKey decodes the first PEM block of data as an RSA or ECDSA
// private key.
func ParsePrivateKey(data []byte, password []byte) (crypto.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	var (
		key any
		err error
	)
	switch block.Type {
	case PEMTypeRSAPrivateKey:
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case PEMTypeECPrivateKey:
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case PEMTypeEncryptedPrivateKey:
		if len(password) == 0 {
			return nil, ErrPasswordRequired
		}
		key, err = pkcs8.ParsePKCS8PrivateKey(block.Bytes, password)
		if err != nil && isPasswordError(err) {
			return nil, ErrInvalidPassword
		}
	case PEMTypePrivateKey:
		key, err = pkcs8.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBlock, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	switch key.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return key, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
}

// ParsePublicKey decodes the first PEM block of data. Private keys and
// certificates yield their public key.
func ParsePublicKey(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	var (
		pub any
		err error
	)
	switch block.Type {
	case PEMTypePublicKey:
		pub, err = x509.ParsePKIXPublicKey(block.Bytes)
	case PEMTypeRSAPublicKey:
		pub, err = x509.ParsePKCS1PublicKey(block.Bytes)
	case PEMTypeCertificate:
		var cert *x509.Certificate
		if cert, err = x509.ParseCertificate(block.Bytes); err == nil {
			pub = cert.PublicKey
		}
	case PEMTypeRSAPrivateKey, PEMTypeECPrivateKey, PEMTypePrivateKey:
		priv, perr := ParsePrivateKey(data, nil)
		if perr != nil {
			return nil, perr
		}
		return priv.(crypto.Signer).Public(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBlock, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	switch pub.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return pub, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
}

// EncodePrivateKeyPEM writes key as PKCS#8, encrypted when password is set.
func EncodePrivateKeyPEM(key crypto.PrivateKey, password []byte) ([]byte, error) {
	der, err := pkcs8.MarshalPrivateKey(key, password, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKCS#8: %w", err)
	}
	blockType := PEMTypePrivateKey
	if len(password) > 0 {
		blockType = PEMTypeEncryptedPrivateKey
	}
	return encode(blockType, der)
}

// EncodePublicKeyPEM writes pub as a PKIX "PUBLIC KEY" block.
func EncodePublicKeyPEM(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKIX public key: %w", err)
	}
	return encode(PEMTypePublicKey, der)
}

// ReadSecret returns the contents of an HMAC secret file with trailing
// newlines removed.
func ReadSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}
	return bytes.TrimRight(data, "\r\n"), nil
}

func encode(blockType string, der []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf.Bytes(), nil
}

func isPasswordError(err error) bool {
	msg := err.Error()
	for _, s := range []string{"incorrect password", "asn1: structure error", "tags don't match"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
