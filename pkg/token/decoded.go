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

package token

import (
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/claims"
)

// DecodedToken is a parsed, not yet verified, token. It is immutable.
type DecodedToken struct {
	raw     string
	parts   [3]string
	header  *claims.Header
	payload *claims.Payload
}

// Decode splits and parses a compact token without verifying it.
func Decode(token string) (*DecodedToken, error) {
	parts, err := Split(token)
	if err != nil {
		return nil, err
	}
	headerJSON, err := DecodeHeaderPart(parts[0])
	if err != nil {
		return nil, err
	}
	payloadJSON, err := DecodePayloadPart(parts[1])
	if err != nil {
		return nil, err
	}
	header, err := claims.ParseHeader([]byte(headerJSON))
	if err != nil {
		return nil, err
	}
	payload, err := claims.ParsePayload([]byte(payloadJSON))
	if err != nil {
		return nil, err
	}
	return &DecodedToken{raw: token, parts: parts, header: header, payload: payload}, nil
}

// Token returns the original compact string.
func (t *DecodedToken) Token() string { return t.raw }

// HeaderPart returns the encoded header segment.
func (t *DecodedToken) HeaderPart() string { return t.parts[0] }

// PayloadPart returns the encoded payload segment.
func (t *DecodedToken) PayloadPart() string { return t.parts[1] }

// SignaturePart returns the encoded signature segment.
func (t *DecodedToken) SignaturePart() string { return t.parts[2] }

// Header returns the parsed header.
func (t *DecodedToken) Header() *claims.Header { return t.header }

// Payload returns the parsed claim set.
func (t *DecodedToken) Payload() *claims.Payload { return t.payload }

// Algorithm returns the "alg" header parameter.
func (t *DecodedToken) Algorithm() string { return t.header.Algorithm() }

// Type returns the "typ" header parameter, or "" when absent.
func (t *DecodedToken) Type() string { return t.header.Type() }

// ContentType returns the "cty" header parameter, or "" when absent.
func (t *DecodedToken) ContentType() string { return t.header.ContentType() }

// KeyID returns the "kid" header parameter, or "" when absent.
func (t *DecodedToken) KeyID() string { return t.header.KeyID() }

// HeaderClaim returns the named header parameter.
func (t *DecodedToken) HeaderClaim(name string) claims.Claim { return t.header.Claim(name) }

// Issuer returns the "iss" claim, or "" when absent.
func (t *DecodedToken) Issuer() string { return t.payload.Issuer() }

// Subject returns the "sub" claim, or "" when absent.
func (t *DecodedToken) Subject() string { return t.payload.Subject() }

// Audience returns the "aud" claim. A single string becomes a one-element
// slice; nil when absent.
func (t *DecodedToken) Audience() []string { return t.payload.Audience() }

// ExpiresAt returns the "exp" claim, or the zero time when absent.
func (t *DecodedToken) ExpiresAt() time.Time { return t.payload.ExpiresAt() }

// NotBefore returns the "nbf" claim, or the zero time when absent.
func (t *DecodedToken) NotBefore() time.Time { return t.payload.NotBefore() }

// IssuedAt returns the "iat" claim, or the zero time when absent.
func (t *DecodedToken) IssuedAt() time.Time { return t.payload.IssuedAt() }

// ID returns the "jti" claim, or "" when absent.
func (t *DecodedToken) ID() string { return t.payload.ID() }

// Claim returns the named payload claim.
func (t *DecodedToken) Claim(name string) claims.Claim { return t.payload.Claim(name) }

// Claims returns every payload claim.
func (t *DecodedToken) Claims() map[string]claims.Claim { return t.payload.Claims() }
