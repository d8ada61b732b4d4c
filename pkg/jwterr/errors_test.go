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

package jwterr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesSentinelOfSameKind(t *testing.T) {
	err := MissingClaim("iss")
	assert.True(t, errors.Is(err, ErrMissingClaim))
	assert.False(t, errors.Is(err, ErrIncorrectClaim))
}

func TestIs_ThroughWrapping(t *testing.T) {
	cause := New(KindMissingKey, "The given Public Key is null.")
	err := fmt.Errorf("verify: %w", SignatureVerification("SHA256withRSA", cause))

	assert.True(t, errors.Is(err, ErrSignatureVerification))
	assert.True(t, errors.Is(err, ErrMissingKey))
	assert.Equal(t, KindSignatureVerification, KindOf(err))
}

func TestIs_NonSentinelTargetDoesNotMatch(t *testing.T) {
	a := New(KindInvalidJSON, "a")
	b := New(KindInvalidJSON, "b")
	assert.False(t, errors.Is(a, b))
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"missing claim", MissingClaim("sub"), "The Claim 'sub' is not present in the JWT."},
		{"incorrect claim", IncorrectClaim("aud", nil), "The Claim 'aud' value doesn't match the required one."},
		{"expired", TokenExpired(time.Unix(0, 0)), "The Token has expired on 1970-01-01T00:00:00Z."},
		{"kind only", &Error{Kind: KindInvalidKey}, "invalid_key"},
		{"with cause", Wrap(KindInvalidJSON, "bad header", errors.New("eof")), "bad header: eof"},
		{"verification", SignatureVerification("none", nil), "The Token's Signature resulted invalid when verified using the Algorithm: none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTokenExpired_CarriesInstant(t *testing.T) {
	at := time.Unix(1477592, 0)
	err := TokenExpired(at)

	var jerr *Error
	require.True(t, errors.As(err, &jerr))
	assert.Equal(t, at, jerr.ExpiredOn)
	assert.Equal(t, "exp", jerr.Claim)
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "token_expired", KindTokenExpired.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
