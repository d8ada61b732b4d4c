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


package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc/metadata"

	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/metrics"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

var (
	// ErrNoToken is returned when the request carries no bearer token
	ErrNoToken = errors.New("auth: no token provided")

	// ErrMissingSubject is returned when a verified token has no "sub"
	ErrMissingSubject = errors.New("auth: missing subject claim")
)

// TokenVerifier is satisfied by *verification.Verifier and
// *metrics.InstrumentedVerifier.
type TokenVerifier interface {
	Algorithm() algorithm.Algorithm
	Verify(tokenString string) (*token.DecodedToken, error)
}

// JWTConfig configures a JWTAuthenticator.
type JWTConfig struct {
	// Verifier checks signature and claims (required)
	Verifier TokenVerifier

	// HeaderName is the HTTP header name (default: "Authorization")
	HeaderName string

	// AllowMissingSubject accepts tokens without a "sub" claim
	AllowMissingSubject bool

	// Logger receives rejections at warn level (default: discard)
	Logger logger.Logger
}

// JWTAuthenticator authenticates requests carrying "Bearer <jwt>".
type JWTAuthenticator struct {
	verifier            TokenVerifier
	headerName          string
	allowMissingSubject bool
	logger              logger.Logger
}

// NewJWTAuthenticator validates config and fills in the default header and
// logger.
func NewJWTAuthenticator(config *JWTConfig) (*JWTAuthenticator, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}

	headerName := config.HeaderName
	if headerName == "" {
		headerName = "Authorization"
	}
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &JWTAuthenticator{
		verifier:            config.Verifier,
		headerName:          headerName,
		allowMissingSubject: config.AllowMissingSubject,
		logger:              log.With(logger.String("authenticator", "jwt")),
	}, nil
}

// AuthenticateHTTP verifies the bearer token in the configured header.
// Rejected tokens are logged with the fields carried by the request context.
func (a *JWTAuthenticator) AuthenticateHTTP(r *http.Request) (*Identity, error) {
	tokenString := bearer(r.Header.Get(a.headerName))
	if tokenString == "" {
		return nil, ErrNoToken
	}

	identity, err := a.validateToken(tokenString)
	if err != nil {
		a.logger.WarnContext(r.Context(), "rejected http request",
			logger.String("remote_addr", r.RemoteAddr),
			logger.String("path", r.URL.Path),
			logger.String("reason", metrics.ErrorType(err)),
			logger.Error(err))
		return nil, err
	}
	identity.Attributes["remote_addr"] = r.RemoteAddr
	return identity, nil
}

// AuthenticateGRPC verifies the bearer token in the incoming metadata.
func (a *JWTAuthenticator) AuthenticateGRPC(ctx context.Context, md metadata.MD) (*Identity, error) {
	var tokenString string
	if values := md.Get(strings.ToLower(a.headerName)); len(values) > 0 {
		tokenString = bearer(values[0])
	}
	if tokenString == "" {
		return nil, ErrNoToken
	}

	identity, err := a.validateToken(tokenString)
	if err != nil {
		a.logger.WarnContext(ctx, "rejected grpc request",
			logger.String("reason", metrics.ErrorType(err)),
			logger.Error(err))
		return nil, err
	}
	return identity, nil
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return "jwt"
}

func (a *JWTAuthenticator) validateToken(tokenString string) (*Identity, error) {
	alg := a.verifier.Algorithm().Name()
	start := time.Now()
	identity, err := a.identityOf(tokenString)
	metrics.Observe(metrics.OpAuthenticate, alg, time.Since(start).Seconds(), err)
	return identity, err
}

func (a *JWTAuthenticator) identityOf(tokenString string) (*Identity, error) {
	decoded, err := a.verifier.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	sub := decoded.Subject()
	if sub == "" && !a.allowMissingSubject {
		return nil, jwterr.MissingClaim("sub")
	}

	identity := &Identity{
		Subject: sub,
		Claims:  decoded.Payload().Tree(),
		Attributes: map[string]string{
			"auth_method": "jwt",
			"algorithm":   decoded.Algorithm(),
		},
	}
	if kid := decoded.KeyID(); kid != "" {
		identity.Attributes["key_id"] = kid
	}
	if jti := decoded.ID(); jti != "" {
		identity.Attributes["token_id"] = jti
	}
	if name, ok := decoded.Claim("name").AsString(); ok {
		identity.Attributes["display_name"] = name
	}
	return identity, nil
}

// bearer extracts the token from "Bearer <token>" or a bare token.
func bearer(header string) string {
	scheme, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	if found {
		return ""
	}
	return scheme
}
