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
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
	"github.com/jeremyhahn/go-jwt/pkg/ratelimit"
)

// MiddlewareOption configures Middleware and UnaryServerInterceptor.
type MiddlewareOption func(*middlewareOptions)

type middlewareOptions struct {
	limiter *ratelimit.Limiter
}

// WithFailureLimiter refuses clients that keep presenting rejected tokens:
// 429 over HTTP, codes.ResourceExhausted over gRPC.
func WithFailureLimiter(l *ratelimit.Limiter) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.limiter = l
	}
}

func applyMiddlewareOptions(opts []MiddlewareOption) middlewareOptions {
	o := middlewareOptions{limiter: ratelimit.New(nil)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Middleware rejects unauthenticated requests with 401 and stores the
// Identity in the request context. Rejections are logged with the client
// address attached to the request context.
func Middleware(a Authenticator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := applyMiddlewareOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ratelimit.ClientIP(r)
			if o.limiter.Blocked(client) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			r = r.WithContext(logger.WithContextFields(r.Context(), logger.String("client_ip", client)))
			identity, err := a.AuthenticateHTTP(r)
			if err != nil {
				o.limiter.RecordFailure(client)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// UnaryServerInterceptor authenticates unary gRPC calls from the incoming
// metadata and answers codes.Unauthenticated on failure.
func UnaryServerInterceptor(a Authenticator, opts ...MiddlewareOption) grpc.UnaryServerInterceptor {
	o := applyMiddlewareOptions(opts)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		client := ratelimit.PeerIP(ctx)
		if o.limiter.Blocked(client) {
			return nil, status.Error(codes.ResourceExhausted, "too many failed authentications")
		}
		md, _ := metadata.FromIncomingContext(ctx)
		ctx = logger.WithContextFields(ctx,
			logger.String("grpc_method", info.FullMethod),
			logger.String("client_ip", client))
		identity, err := a.AuthenticateGRPC(ctx, md)
		if err != nil {
			o.limiter.RecordFailure(client)
			return nil, status.Error(codes.Unauthenticated, "invalid or missing token")
		}
		return handler(WithIdentity(ctx, identity), req)
	}
}
