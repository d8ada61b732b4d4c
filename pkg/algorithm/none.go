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
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// None is the unsecured "none" algorithm. Tokens carry an empty signature.
type None struct {
	base
}

// NewNone returns the "none" algorithm.
func NewNone() *None {
	return &None{base: base{info: registry["none"]}}
}

// Verify succeeds only for an empty signature.
func (a *None) Verify(t *token.DecodedToken) error {
	sig, err := token.DecodeSegment(t.SignaturePart())
	if err != nil {
		return a.verificationError(err)
	}
	if len(sig) != 0 {
		return a.verificationError(nil)
	}
	return nil
}

// Sign returns an empty signature.
func (a *None) Sign(header, payload []byte) ([]byte, error) {
	return []byte{}, nil
}

// SigningKeyID implements Algorithm.
func (a *None) SigningKeyID() string {
	return ""
}
