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
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
)

// EnvPrefix prefixes every environment override, e.g. JWT_ALGORITHM.
const EnvPrefix = "JWT_"

// Config is a signing and verification profile.
type Config struct {
	// Algorithm is the JWS "alg" name. Empty infers it from the key.
	Algorithm string        `yaml:"algorithm" env:"ALGORITHM"`
	Key       KeyConfig     `yaml:"key" envPrefix:"KEY_"`
	Vault     VaultConfig   `yaml:"vault" envPrefix:"VAULT_"`
	Verify    VerifyConfig  `yaml:"verify" envPrefix:"VERIFY_"`
	Sign      SignConfig    `yaml:"sign" envPrefix:"SIGN_"`
	Logging   LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// KeyConfig locates local key material.
type KeyConfig struct {
	Secret         string `yaml:"secret" env:"SECRET"`
	SecretFile     string `yaml:"secret_file" env:"SECRET_FILE"`
	PrivateKeyFile string `yaml:"private_key_file" env:"PRIVATE_FILE"`
	PublicKeyFile  string `yaml:"public_key_file" env:"PUBLIC_FILE"`
	JWKSFile       string `yaml:"jwks_file" env:"JWKS_FILE"`
	Password       string `yaml:"password" env:"PASSWORD"`
	KeyID          string `yaml:"key_id" env:"ID"`
}

// VaultConfig selects a Transit key.
type VaultConfig struct {
	Enabled       bool          `yaml:"enabled" env:"ENABLED"`
	Address       string        `yaml:"address" env:"ADDRESS"`
	Token         string        `yaml:"token" env:"TOKEN"`
	Namespace     string        `yaml:"namespace" env:"NAMESPACE"`
	MountPath     string        `yaml:"mount_path" env:"MOUNT_PATH"`
	KeyName       string        `yaml:"key_name" env:"KEY_NAME"`
	KeyVersion    int           `yaml:"key_version" env:"KEY_VERSION"`
	TLSSkipVerify bool          `yaml:"tls_skip_verify" env:"TLS_SKIP_VERIFY"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// VerifyConfig lists the claim checks applied by a verifier.
type VerifyConfig struct {
	Issuers         []string      `yaml:"issuers" env:"ISSUERS"`
	Audience        []string      `yaml:"audience" env:"AUDIENCE"`
	AnyAudience     bool          `yaml:"any_audience" env:"ANY_AUDIENCE"`
	Subject         string        `yaml:"subject" env:"SUBJECT"`
	Leeway          time.Duration `yaml:"leeway" env:"LEEWAY"`
	ExpiresAtLeeway time.Duration `yaml:"expires_at_leeway" env:"EXP_LEEWAY"`
	NotBeforeLeeway time.Duration `yaml:"not_before_leeway" env:"NBF_LEEWAY"`
	IssuedAtLeeway  time.Duration `yaml:"issued_at_leeway" env:"IAT_LEEWAY"`
	IgnoreIssuedAt  bool          `yaml:"ignore_issued_at" env:"IGNORE_IAT"`
	RequiredClaims  []string      `yaml:"required_claims" env:"REQUIRED_CLAIMS"`
}

// SignConfig holds the registered claims written by a signer.
type SignConfig struct {
	Issuer    string        `yaml:"issuer" env:"ISSUER"`
	Subject   string        `yaml:"subject" env:"SUBJECT"`
	Audience  []string      `yaml:"audience" env:"AUDIENCE"`
	ExpiresIn time.Duration `yaml:"expires_in" env:"EXPIRES_IN"`
	NotBefore time.Duration `yaml:"not_before" env:"NOT_BEFORE"`
	IssuedAt  bool          `yaml:"issued_at" env:"ISSUED_AT"`

	// JWTID is written as "jti"; "auto" generates a random UUID
	JWTID string `yaml:"jwt_id" env:"JTI"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns a profile with defaults applied.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			MountPath: "transit",
			Timeout:   10 * time.Second,
		},
		Sign: SignConfig{
			ExpiresIn: time.Hour,
			IssuedAt:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML profile, applies environment overrides and validates
// the result. An empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides replaces fields whose JWT_* variable is set.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// Validate checks the profile for inconsistent settings. Key presence is
// checked when an algorithm is built, since decoding needs none.
func (c *Config) Validate() error {
	if c.Algorithm != "" {
		if _, err := algorithm.Lookup(c.Algorithm); err != nil {
			return fmt.Errorf("algorithm: %w", err)
		}
	}

	if c.Key.Secret != "" && c.Key.SecretFile != "" {
		return fmt.Errorf("key.secret and key.secret_file are mutually exclusive")
	}

	if c.Vault.Enabled {
		if c.Vault.Address == "" {
			return fmt.Errorf("vault address is required when enabled")
		}
		if c.Vault.Token == "" {
			return fmt.Errorf("vault token is required when enabled")
		}
		if c.Vault.KeyName == "" {
			return fmt.Errorf("vault key name is required when enabled")
		}
		if c.Vault.KeyVersion < 0 {
			return fmt.Errorf("vault key version must not be negative")
		}
		if c.Algorithm == "" {
			return fmt.Errorf("algorithm is required with vault")
		}
		info, _ := algorithm.Lookup(c.Algorithm)
		if info.Family != algorithm.FamilyRSA && info.Family != algorithm.FamilyECDSA {
			return fmt.Errorf("vault supports RSA and ECDSA algorithms, got %s", c.Algorithm)
		}
	}

	for name, d := range map[string]time.Duration{
		"verify.leeway":            c.Verify.Leeway,
		"verify.expires_at_leeway": c.Verify.ExpiresAtLeeway,
		"verify.not_before_leeway": c.Verify.NotBeforeLeeway,
		"verify.issued_at_leeway":  c.Verify.IssuedAtLeeway,
		"sign.expires_in":          c.Sign.ExpiresIn,
		"sign.not_before":          c.Sign.NotBefore,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := []string{"json", "text"}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}
