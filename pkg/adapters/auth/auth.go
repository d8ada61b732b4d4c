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


// Package auth authenticates HTTP and gRPC requests carrying bearer JWTs.
package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Identity is the authenticated caller.
type Identity struct {
	// Subject is the "sub" claim of the token
	Subject string

	// Claims holds the verified payload
	Claims map[string]interface{}

	// Attributes contains metadata about the authentication (auth method, key id, etc.)
	Attributes map[string]string
}

type Authenticator interface {
	// AuthenticateHTTP authenticates an HTTP request and returns an identity
	AuthenticateHTTP(r *http.Request) (*Identity, error)

	// AuthenticateGRPC authenticates a gRPC request using metadata
	AuthenticateGRPC(ctx context.Context, md metadata.MD) (*Identity, error)

	// Name returns the authenticator name for logging
	Name() string
}

type ContextKey string

const (
	// IdentityContextKey is the context key for storing authenticated identity
	IdentityContextKey ContextKey = "auth.identity"
)

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return identity
	}
	return nil
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// HasRole reports whether the "roles" claim contains role.
func (i *Identity) HasRole(role string) bool {
	return i.listClaimContains("roles", role)
}

// HasScope reports whether the space separated "scope" claim (RFC 8693)
// or the "scp" array contains scope.
func (i *Identity) HasScope(scope string) bool {
	if i == nil || i.Claims == nil {
		return false
	}
	if s, ok := i.Claims["scope"].(string); ok && slices.Contains(strings.Fields(s), scope) {
		return true
	}
	return i.listClaimContains("scp", scope)
}

func (i *Identity) listClaimContains(name, want string) bool {
	if i == nil || i.Claims == nil {
		return false
	}
	switch v := i.Claims[name].(type) {
	case []string:
		return slices.Contains(v, want)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	case string:
		return v == want
	}
	return false
}
