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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestLoad_Success tests loading a complete profile
func TestLoad_Success(t *testing.T) {
	path := writeFile(t, "config.yaml", `
algorithm: ES256
key:
  private_key_file: /keys/signing.pem
  key_id: k1
verify:
  issuers: ["auth0", "idp"]
  audience: ["api"]
  leeway: 30s
  ignore_issued_at: true
  required_claims: ["role"]
sign:
  issuer: auth0
  expires_in: 15m
  jwt_id: auto
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ES256", cfg.Algorithm)
	assert.Equal(t, "/keys/signing.pem", cfg.Key.PrivateKeyFile)
	assert.Equal(t, "k1", cfg.Key.KeyID)
	assert.Equal(t, []string{"auth0", "idp"}, cfg.Verify.Issuers)
	assert.Equal(t, 30*time.Second, cfg.Verify.Leeway)
	assert.True(t, cfg.Verify.IgnoreIssuedAt)
	assert.Equal(t, []string{"role"}, cfg.Verify.RequiredClaims)
	assert.Equal(t, 15*time.Minute, cfg.Sign.ExpiresIn)
	assert.Equal(t, AutoJWTID, cfg.Sign.JWTID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// defaults survive a partial file
	assert.True(t, cfg.Sign.IssuedAt)
	assert.Equal(t, "transit", cfg.Vault.MountPath)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "algorithm: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "algorithm: HS256\nkey:\n  secret: from-file\n")

	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("JWT_KEY_SECRET", "from-env")
	t.Setenv("JWT_VERIFY_AUDIENCE", "a,b")
	t.Setenv("JWT_VERIFY_LEEWAY", "1m")
	t.Setenv("JWT_SIGN_ISSUED_AT", "false")
	t.Setenv("JWT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, "from-env", cfg.Key.Secret)
	assert.Equal(t, []string{"a", "b"}, cfg.Verify.Audience)
	assert.Equal(t, time.Minute, cfg.Verify.Leeway)
	assert.False(t, cfg.Sign.IssuedAt)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("JWT_VERIFY_LEEWAY", "soon")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment overrides")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "PS256" }, "algorithm"},
		{"secret and secret file", func(c *Config) {
			c.Key.Secret = "a"
			c.Key.SecretFile = "b"
		}, "mutually exclusive"},
		{"vault without address", func(c *Config) {
			c.Algorithm = "ES256"
			c.Vault = VaultConfig{Enabled: true, Token: "t", KeyName: "k"}
		}, "vault address"},
		{"vault without token", func(c *Config) {
			c.Algorithm = "ES256"
			c.Vault = VaultConfig{Enabled: true, Address: "http://v", KeyName: "k"}
		}, "vault token"},
		{"vault without key", func(c *Config) {
			c.Algorithm = "ES256"
			c.Vault = VaultConfig{Enabled: true, Address: "http://v", Token: "t"}
		}, "vault key name"},
		{"vault without algorithm", func(c *Config) {
			c.Vault = VaultConfig{Enabled: true, Address: "http://v", Token: "t", KeyName: "k"}
		}, "algorithm is required"},
		{"vault with hmac", func(c *Config) {
			c.Algorithm = "HS256"
			c.Vault = VaultConfig{Enabled: true, Address: "http://v", Token: "t", KeyName: "k"}
		}, "RSA and ECDSA"},
		{"negative leeway", func(c *Config) { c.Verify.Leeway = -time.Second }, "verify.leeway"},
		{"negative expiry", func(c *Config) { c.Sign.ExpiresIn = -time.Second }, "sign.expires_in"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
