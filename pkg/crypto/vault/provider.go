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

// Package vault signs and verifies tokens with keys held in the HashiCorp
// Vault Transit secrets engine. Private key material never leaves Vault.
//
//	provider, err := vault.NewProvider(&vault.Config{Address: addr, Token: token})
//	key := vault.Key{Name: "jwt-signing"}
//	kp := vault.NewKeyProvider(key, vault.WithVersionTracking(provider))
//	alg, err := algorithm.ECDSA256WithProvider(kp, algorithm.WithCryptoProvider(provider))
package vault

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// Key identifies a Transit key. A zero Version means the latest version.
type Key struct {
	Name    string
	Version int
}

// ID returns the key id written to the "kid" header, "vault:<name>" or
// "vault:<name>:v<version>".
func (k Key) ID() string {
	if k.Version > 0 {
		return fmt.Sprintf("vault:%s:v%d", k.Name, k.Version)
	}
	return "vault:" + k.Name
}

// ParseKeyID reverses Key.ID.
func ParseKeyID(id string) (Key, bool) {
	parts := strings.Split(id, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "vault" || parts[1] == "" {
		return Key{}, false
	}
	k := Key{Name: parts[1]}
	if len(parts) == 3 {
		v, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v"))
		if err != nil || v <= 0 || !strings.HasPrefix(parts[2], "v") {
			return Key{}, false
		}
		k.Version = v
	}
	return k, true
}

type method struct {
	hash      string
	algorithm string // "" for ECDSA
}

var methods = map[string]method{
	"SHA256withRSA":   {"sha2-256", "pkcs1v15"},
	"SHA384withRSA":   {"sha2-384", "pkcs1v15"},
	"SHA512withRSA":   {"sha2-512", "pkcs1v15"},
	"SHA256withECDSA": {"sha2-256", ""},
	"SHA384withECDSA": {"sha2-384", ""},
	"SHA512withECDSA": {"sha2-512", ""},
}

// VaultClient is the subset of the Vault API client used by the provider.
type VaultClient interface {
	Logical() *vault.Logical
}

// Provider is an algorithm.CryptoProvider backed by Vault Transit. Keys
// passed to Sign and Verify must be Key values.
type Provider struct {
	config *Config
	client VaultClient

	mu       sync.Mutex
	versions map[string]versionEntry
}

type versionEntry struct {
	version int
	fetched time.Time
}

// NewProvider connects to Vault with config.
func NewProvider(config *Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = config.Address
	vaultConfig.Timeout = config.Timeout

	if config.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultConnection, err)
	}
	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return NewProviderWithClient(config, client)
}

// NewProviderWithClient uses an existing client.
func NewProviderWithClient(config *Config, client VaultClient) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &Provider{
		config:   config,
		client:   client,
		versions: make(map[string]versionEntry),
	}, nil
}

// Sign asks Transit to sign header + "." + payload. ECDSA signatures are
// returned in ASN.1 DER form.
func (p *Provider) Sign(description string, key any, header, payload []byte) ([]byte, error) {
	m, k, err := p.resolve(description, key)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.config.Timeout)
	defer cancel()

	data := map[string]interface{}{
		"input": base64.StdEncoding.EncodeToString(signingInput(header, payload)),
	}
	if k.Version > 0 {
		data["key_version"] = k.Version
	}
	if m.algorithm != "" {
		data["signature_algorithm"] = m.algorithm
	}

	path := fmt.Sprintf("%s/sign/%s/%s", p.config.TransitPath, k.Name, m.hash)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign with vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: no signature returned", ErrInvalidResponse)
	}

	signatureStr, ok := secret.Data["signature"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: no signature in response", ErrInvalidResponse)
	}

	// "vault:v1:base64..."
	parts := strings.Split(signatureStr, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: invalid signature format", ErrInvalidResponse)
	}
	signature, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	if v, err := strconv.Atoi(strings.TrimPrefix(parts[1], "v")); err == nil && k.Version == 0 {
		p.observeVersion(k.Name, v)
	}
	return signature, nil
}

// Verify asks Transit whether signature is valid for header + "." + payload.
func (p *Provider) Verify(description string, key any, header, payload, signature []byte) (bool, error) {
	m, k, err := p.resolve(description, key)
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.config.Timeout)
	defer cancel()

	if k.Version > 0 {
		return p.verifyVersion(ctx, m, k.Name, k.Version, header, payload, signature)
	}

	// An unpinned key is checked against the cached latest version; after a
	// rotation the cache may be behind, so a rejection re-reads it once.
	version, err := p.latestVersion(ctx, k.Name)
	if err != nil {
		return false, err
	}
	valid, err := p.verifyVersion(ctx, m, k.Name, version, header, payload, signature)
	if err != nil || valid {
		return valid, err
	}
	latest, err := p.refreshVersion(ctx, k.Name)
	if err != nil || latest == version {
		return false, err
	}
	return p.verifyVersion(ctx, m, k.Name, latest, header, payload, signature)
}

func (p *Provider) verifyVersion(ctx context.Context, m method, name string, version int, header, payload, signature []byte) (bool, error) {
	data := map[string]interface{}{
		"input":     base64.StdEncoding.EncodeToString(signingInput(header, payload)),
		"signature": fmt.Sprintf("vault:v%d:%s", version, base64.StdEncoding.EncodeToString(signature)),
	}
	if m.algorithm != "" {
		data["signature_algorithm"] = m.algorithm
	}

	path := fmt.Sprintf("%s/verify/%s/%s", p.config.TransitPath, name, m.hash)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return false, fmt.Errorf("failed to verify with vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return false, fmt.Errorf("%w: no verification result", ErrInvalidResponse)
	}
	valid, ok := secret.Data["valid"].(bool)
	if !ok {
		return false, fmt.Errorf("%w: invalid verification result", ErrInvalidResponse)
	}
	return valid, nil
}

// PublicKey reads the public half of a Transit key version.
func (p *Provider) PublicKey(ctx context.Context, key Key) (crypto.PublicKey, error) {
	keyData, latest, err := p.readKey(ctx, key.Name)
	if err != nil {
		return nil, err
	}

	version := key.Version
	if version == 0 {
		version = latest
	}
	versionData, ok := keyData[strconv.Itoa(version)].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: version %d not found", ErrInvalidResponse, version)
	}
	publicKeyPEM, ok := versionData["public_key"].(string)
	if !ok || publicKeyPEM == "" {
		return nil, fmt.Errorf("%w: no public key in response", ErrInvalidResponse)
	}

	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("%w: failed to decode PEM", ErrInvalidResponse)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return pub, nil
}

func (p *Provider) resolve(description string, key any) (method, Key, error) {
	m, ok := methods[description]
	if !ok {
		return method{}, Key{}, jwterr.Newf(jwterr.KindUnsupportedAlgorithm,
			"vault transit does not support %q", description)
	}
	var k Key
	switch v := key.(type) {
	case Key:
		k = v
	case *Key:
		if v == nil {
			return method{}, Key{}, jwterr.New(jwterr.KindInvalidKey, "vault key is nil")
		}
		k = *v
	default:
		return method{}, Key{}, jwterr.Newf(jwterr.KindInvalidKey,
			"key of type %T cannot be used with the vault provider", key)
	}
	if k.Name == "" {
		return method{}, Key{}, jwterr.New(jwterr.KindInvalidKey, "vault key name is empty")
	}
	return m, k, nil
}

// latestVersion returns the latest version of a Transit key, read from
// Vault at most once per VersionCacheTTL.
func (p *Provider) latestVersion(ctx context.Context, name string) (int, error) {
	p.mu.Lock()
	c, ok := p.versions[name]
	p.mu.Unlock()
	if ok && time.Since(c.fetched) < p.config.VersionCacheTTL {
		return c.version, nil
	}
	return p.refreshVersion(ctx, name)
}

// cachedVersion returns the cached latest version regardless of its age,
// reading it only when the key was never seen.
func (p *Provider) cachedVersion(ctx context.Context, name string) (int, error) {
	p.mu.Lock()
	c, ok := p.versions[name]
	p.mu.Unlock()
	if ok {
		return c.version, nil
	}
	return p.refreshVersion(ctx, name)
}

func (p *Provider) refreshVersion(ctx context.Context, name string) (int, error) {
	_, latest, err := p.readKey(ctx, name)
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	p.versions[name] = versionEntry{version: latest, fetched: time.Now()}
	p.mu.Unlock()
	return latest, nil
}

// observeVersion records a version Transit reported for the latest key.
// The cache only moves forward.
func (p *Provider) observeVersion(name string, version int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.versions[name]; !ok || version > c.version {
		p.versions[name] = versionEntry{version: version, fetched: time.Now()}
	}
}

// readKey returns the "keys" map of a Transit key and its latest version.
func (p *Provider) readKey(ctx context.Context, name string) (map[string]interface{}, int, error) {
	path := fmt.Sprintf("%s/keys/%s", p.config.TransitPath, name)
	secret, err := p.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read key from vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}

	keys, ok := secret.Data["keys"].(map[string]interface{})
	if !ok {
		return nil, 0, fmt.Errorf("%w: no keys data", ErrInvalidResponse)
	}
	latest, err := strconv.Atoi(fmt.Sprintf("%v", secret.Data["latest_version"]))
	if err != nil || latest <= 0 {
		return nil, 0, fmt.Errorf("%w: no latest_version", ErrInvalidResponse)
	}
	return keys, latest, nil
}

func signingInput(header, payload []byte) []byte {
	content := make([]byte, 0, len(header)+1+len(payload))
	content = append(content, header...)
	content = append(content, '.')
	return append(content, payload...)
}
