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


package config

import (
	"fmt"
	"io"

	"github.com/jeremyhahn/go-jwt/pkg/adapters/auth"
	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
	"github.com/jeremyhahn/go-jwt/pkg/metrics"
)

// NewLogger creates the logger described by the logging section.
// A nil writer logs to stderr.
func (cfg *LoggingConfig) NewLogger(w io.Writer) logger.Logger {
	return logger.NewSlogAdapter(&logger.SlogConfig{
		Level:  logger.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: w,
	})
}

// CreateAuthenticator creates a bearer token authenticator from the
// verifying key and the verify section. Verification outcomes are
// recorded in the metrics package.
func (c *Config) CreateAuthenticator(log logger.Logger) (*auth.JWTAuthenticator, error) {
	alg, err := c.VerifyingAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("failed to build verifying algorithm: %w", err)
	}

	verifier, err := c.Verification(alg).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build verifier: %w", err)
	}

	return auth.NewJWTAuthenticator(&auth.JWTConfig{
		Verifier: metrics.NewInstrumentedVerifier(verifier),
		Logger:   log,
	})
}
