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

// Registered header parameter names.
const (
	HeaderAlgorithm   = "alg"
	HeaderType        = "typ"
	HeaderContentType = "cty"
	HeaderKeyID       = "kid"
)

// Header is the decoded JOSE header of a token.
type Header struct {
	tree map[string]any
}

// ParseHeader parses the JSON text of a JOSE header.
func ParseHeader(data []byte) (*Header, error) {
	tree, err := ParseObject(data)
	if err != nil {
		return nil, err
	}
	return &Header{tree: tree}, nil
}

// NewHeader wraps an already parsed claim tree.
func NewHeader(tree map[string]any) *Header {
	return &Header{tree: deepCopy(tree).(map[string]any)}
}

// Algorithm returns the "alg" parameter, or "" if absent or not a string.
func (h *Header) Algorithm() string { return stringOf(h.tree, HeaderAlgorithm) }

// Type returns the "typ" parameter.
func (h *Header) Type() string { return stringOf(h.tree, HeaderType) }

// ContentType returns the "cty" parameter.
func (h *Header) ContentType() string { return stringOf(h.tree, HeaderContentType) }

// KeyID returns the "kid" parameter.
func (h *Header) KeyID() string { return stringOf(h.tree, HeaderKeyID) }

// Claim returns the named header parameter.
func (h *Header) Claim(name string) Claim { return claimOf(h.tree, name) }

// Claims returns every header parameter.
func (h *Header) Claims() map[string]Claim { return claimsOf(h.tree) }

// Tree returns a copy of the raw header object.
func (h *Header) Tree() map[string]any { return deepCopy(h.tree).(map[string]any) }
