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

// Package token implements the JWS compact serialization used by JWTs:
// three base64url segments separated by dots.
package token

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

const separator = "."

// Split splits a compact token into its header, payload and signature
// parts. Empty parts are preserved, so "a.b." yields an empty signature.
func Split(token string) ([3]string, error) {
	var parts [3]string
	if token == "" {
		return parts, jwterr.New(jwterr.KindMalformedStructure, "The token is null.")
	}
	split := strings.Split(token, separator)
	if len(split) != 3 {
		return parts, jwterr.Newf(jwterr.KindMalformedStructure,
			"The token was expected to have 3 parts, but got %d.", len(split))
	}
	copy(parts[:], split)
	return parts, nil
}

// Join assembles a compact token from its encoded parts.
func Join(header, payload, signature string) string {
	return header + separator + payload + separator + signature
}

// EncodeSegment encodes data as unpadded base64url.
func EncodeSegment(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeSegment decodes unpadded base64url.
func DecodeSegment(seg string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return nil, jwterr.Wrap(jwterr.KindInvalidBase64, "Received bytes didn't correspond to a valid Base64 encoded string.", err)
	}
	return data, nil
}

// DecodeHeaderPart decodes the header segment into its JSON text.
func DecodeHeaderPart(seg string) (string, error) {
	return decodeText(seg)
}

// DecodePayloadPart decodes the payload segment into its JSON text.
func DecodePayloadPart(seg string) (string, error) {
	return decodeText(seg)
}

func decodeText(seg string) (string, error) {
	data, err := DecodeSegment(seg)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", jwterr.New(jwterr.KindInvalidBase64, "Decoded segment is not valid UTF-8.")
	}
	return string(data), nil
}
