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

package vault

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds a single Transit request.
const DefaultTimeout = 10 * time.Second

// DefaultVersionCacheTTL is how long a key's latest version is trusted
// before it is read again.
const DefaultVersionCacheTTL = time.Minute

// Config holds the Vault connection settings.
type Config struct {
	// Address is the Vault server address (e.g., "http://127.0.0.1:8200")
	Address string

	// Token is the Vault authentication token
	Token string

	// TransitPath is the mount of the Transit secrets engine (default: "transit")
	TransitPath string

	// Namespace is the Vault namespace (Enterprise feature, optional)
	Namespace string

	// TLSSkipVerify disables TLS certificate verification (not recommended for production)
	TLSSkipVerify bool

	// Timeout bounds each request (default: DefaultTimeout)
	Timeout time.Duration

	// VersionCacheTTL bounds how long the latest version of a key is cached
	// (default: DefaultVersionCacheTTL)
	VersionCacheTTL time.Duration
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("vault address is required")
	}
	if c.Token == "" {
		return fmt.Errorf("vault token is required")
	}
	if c.TransitPath == "" {
		c.TransitPath = "transit"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.VersionCacheTTL <= 0 {
		c.VersionCacheTTL = DefaultVersionCacheTTL
	}
	return nil
}
