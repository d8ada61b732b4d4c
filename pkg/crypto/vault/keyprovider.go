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
	"context"
	"crypto"
)

// KeyProvider hands out Key handles. A token whose "kid" names another
// version of the configured key, "vault:<name>:v<n>", is verified with that
// version; any other kid gets the configured key.
type KeyProvider struct {
	key     Key
	tracker *Provider
}

// KeyProviderOption configures a KeyProvider.
type KeyProviderOption func(*KeyProvider)

// WithVersionTracking pins an unversioned signing key to the latest version
// known to p, so issued tokens carry "vault:<name>:v<n>" and stay
// verifiable after the key is rotated.
func WithVersionTracking(p *Provider) KeyProviderOption {
	return func(kp *KeyProvider) {
		kp.tracker = p
	}
}

// NewKeyProvider returns a provider for key.
func NewKeyProvider(key Key, opts ...KeyProviderOption) *KeyProvider {
	kp := &KeyProvider{key: key}
	for _, opt := range opts {
		opt(kp)
	}
	return kp
}

// PublicKeyByID returns the Key used to verify a token with keyID.
func (kp *KeyProvider) PublicKeyByID(keyID string) (crypto.PublicKey, error) {
	if k, ok := ParseKeyID(keyID); ok && k.Name == kp.key.Name {
		return k, nil
	}
	return kp.key, nil
}

// PrivateKey returns the Key used for signing. It reuses the version
// PrivateKeyID reported so the kid and the signature agree.
func (kp *KeyProvider) PrivateKey() (crypto.PrivateKey, error) {
	return kp.signingKey(false)
}

// PrivateKeyID returns the id of the signing Key. With version tracking
// and Vault unreachable it falls back to the unversioned id; signing then
// fails in PrivateKey.
func (kp *KeyProvider) PrivateKeyID() string {
	k, err := kp.signingKey(true)
	if err != nil {
		return kp.key.ID()
	}
	return k.ID()
}

func (kp *KeyProvider) signingKey(refresh bool) (Key, error) {
	if kp.key.Version > 0 || kp.tracker == nil {
		return kp.key, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), kp.tracker.config.Timeout)
	defer cancel()
	lookup := kp.tracker.cachedVersion
	if refresh {
		lookup = kp.tracker.latestVersion
	}
	v, err := lookup(ctx, kp.key.Name)
	if err != nil {
		return Key{}, err
	}
	return Key{Name: kp.key.Name, Version: v}, nil
}
