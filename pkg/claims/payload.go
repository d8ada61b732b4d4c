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

package claims

import (
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// Registered claim names (RFC 7519 section 4.1).
const (
	Issuer    = "iss"
	Subject   = "sub"
	Audience  = "aud"
	ExpiresAt = "exp"
	NotBefore = "nbf"
	IssuedAt  = "iat"
	JWTID     = "jti"
)

var timeClaims = []string{ExpiresAt, NotBefore, IssuedAt}

// Payload is the decoded claim set of a token.
type Payload struct {
	tree map[string]any
}

// ParsePayload parses the JSON text of a claim set. The registered time
// claims must be null or a number within the range of time.Time.
func ParsePayload(data []byte) (*Payload, error) {
	tree, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	for _, name := range timeClaims {
		c := claimOf(tree, name)
		if c.IsMissing() || c.IsNull() {
			continue
		}
		if _, ok := c.AsDouble(); !ok {
			return nil, jwterr.Newf(jwterr.KindInvalidJSON,
				"The claim '%s' contained a non-numeric date value.", name)
		}
		if _, ok := c.AsTime(); !ok {
			return nil, jwterr.Newf(jwterr.KindInvalidJSON,
				"The claim '%s' contained a date value out of range.", name)
		}
	}
	return &Payload{tree: tree}, nil
}

// NewPayload wraps an already parsed claim tree.
func NewPayload(tree map[string]any) *Payload {
	return &Payload{tree: deepCopy(tree).(map[string]any)}
}

// Issuer returns the "iss" claim, or "" if absent or not a string.
func (p *Payload) Issuer() string { return stringOf(p.tree, Issuer) }

// Subject returns the "sub" claim.
func (p *Payload) Subject() string { return stringOf(p.tree, Subject) }

// ID returns the "jti" claim.
func (p *Payload) ID() string { return stringOf(p.tree, JWTID) }

// Audience returns the "aud" claim normalized to a list. A single string
// becomes a one-element list; non-string array elements are skipped. Any
// other shape yields nil.
func (p *Payload) Audience() []string {
	switch v := p.tree[Audience].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ExpiresAt returns the "exp" claim, or the zero time.
func (p *Payload) ExpiresAt() time.Time { return p.instant(ExpiresAt) }

// NotBefore returns the "nbf" claim, or the zero time.
func (p *Payload) NotBefore() time.Time { return p.instant(NotBefore) }

// IssuedAt returns the "iat" claim, or the zero time.
func (p *Payload) IssuedAt() time.Time { return p.instant(IssuedAt) }

// Claim returns the named claim.
func (p *Payload) Claim(name string) Claim { return claimOf(p.tree, name) }

// Claims returns every claim.
func (p *Payload) Claims() map[string]Claim { return claimsOf(p.tree) }

// Tree returns a copy of the raw claim set.
func (p *Payload) Tree() map[string]any { return deepCopy(p.tree).(map[string]any) }

func (p *Payload) instant(name string) time.Time {
	t, _ := claimOf(p.tree, name).AsTime()
	return t
}
