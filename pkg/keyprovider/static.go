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

// Package keyprovider contains algorithm.KeyProvider implementations that
// resolve verification keys by the token's "kid" header.
package keyprovider

import (
	"crypto"
	"sync"
)

// Static serves keys from memory. Public keys are looked up by key id;
// DefaultPublicKey answers ids that are empty or unknown.
type Static struct {
	mu               sync.RWMutex
	publicKeys       map[string]crypto.PublicKey
	defaultPublicKey crypto.PublicKey
	privateKey       crypto.PrivateKey
	privateKeyID     string
}

// StaticOption configures a Static provider.
type StaticOption func(*Static)

// WithPublicKey registers a public key under keyID.
func WithPublicKey(keyID string, pub crypto.PublicKey) StaticOption {
	return func(s *Static) {
		s.publicKeys[keyID] = pub
	}
}

// WithDefaultPublicKey sets the key returned when no id matches.
func WithDefaultPublicKey(pub crypto.PublicKey) StaticOption {
	return func(s *Static) {
		s.defaultPublicKey = pub
	}
}

// WithPrivateKey sets the signing key and the id written to "kid".
func WithPrivateKey(keyID string, priv crypto.PrivateKey) StaticOption {
	return func(s *Static) {
		s.privateKey = priv
		s.privateKeyID = keyID
	}
}

// NewStatic returns a Static provider.
func NewStatic(opts ...StaticOption) *Static {
	s := &Static{publicKeys: make(map[string]crypto.PublicKey)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers or replaces a public key.
func (s *Static) Add(keyID string, pub crypto.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicKeys[keyID] = pub
}

// Remove drops a public key.
func (s *Static) Remove(keyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.publicKeys, keyID)
}

// PublicKeyByID returns the key registered under keyID or the default key.
// A nil key with a nil error means no key is known.
func (s *Static) PublicKeyByID(keyID string) (crypto.PublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pub, ok := s.publicKeys[keyID]; ok {
		return pub, nil
	}
	return s.defaultPublicKey, nil
}

// PrivateKey returns the signing key.
func (s *Static) PrivateKey() (crypto.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privateKey, nil
}

// PrivateKeyID returns the signing key id.
func (s *Static) PrivateKeyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privateKeyID
}
