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

package keyprovider

import (
	"crypto"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/go-jose/go-jose/v4"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// JWKSet resolves public keys from a JSON Web Key Set (RFC 7517). Keys
// whose "use" is set to anything other than "sig" are ignored. Private
// keys in the set are reduced to their public half.
type JWKSet struct {
	set          jose.JSONWebKeySet
	privateKey   crypto.PrivateKey
	privateKeyID string
}

// JWKSetOption configures a JWKSet provider.
type JWKSetOption func(*JWKSet)

// WithSigningKey sets the key used for signing and its "kid".
func WithSigningKey(keyID string, priv crypto.PrivateKey) JWKSetOption {
	return func(j *JWKSet) {
		j.privateKey = priv
		j.privateKeyID = keyID
	}
}

// ParseJWKSet parses a JWK Set document.
func ParseJWKSet(data []byte, opts ...JWKSetOption) (*JWKSet, error) {
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, jwterr.Wrap(jwterr.KindInvalidArgument, "invalid JWK set", err)
	}
	return NewJWKSet(set, opts...), nil
}

// NewJWKSet wraps an already parsed set.
func NewJWKSet(set jose.JSONWebKeySet, opts ...JWKSetOption) *JWKSet {
	j := &JWKSet{set: set}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// PublicKeyByID returns the key with the matching "kid". An empty id
// selects the only key of a single key set. A nil key with a nil error
// means no key matched.
func (j *JWKSet) PublicKeyByID(keyID string) (crypto.PublicKey, error) {
	var candidates []jose.JSONWebKey
	if keyID == "" {
		if len(j.set.Keys) != 1 {
			return nil, nil
		}
		candidates = j.set.Keys
	} else {
		candidates = j.set.Key(keyID)
	}

	for _, k := range candidates {
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		return publicOf(k)
	}
	return nil, nil
}

// PrivateKey returns the signing key.
func (j *JWKSet) PrivateKey() (crypto.PrivateKey, error) {
	return j.privateKey, nil
}

// PrivateKeyID returns the signing key id.
func (j *JWKSet) PrivateKeyID() string {
	return j.privateKeyID
}

// KeyIDs lists the ids in the set, in document order.
func (j *JWKSet) KeyIDs() []string {
	ids := make([]string, 0, len(j.set.Keys))
	for _, k := range j.set.Keys {
		ids = append(ids, k.KeyID)
	}
	return ids
}

func publicOf(k jose.JSONWebKey) (crypto.PublicKey, error) {
	if secret, ok := k.Key.([]byte); ok {
		return secret, nil
	}
	if !k.Valid() {
		return nil, jwterr.InvalidArgument(fmt.Sprintf("JWK %q is not valid", k.KeyID))
	}
	if k.IsPublic() {
		return k.Key, nil
	}
	return k.Public().Key, nil
}

// MarshalPublicJWKSet renders public keys as a JWK Set document ordered by
// key id. alg may be empty.
func MarshalPublicJWKSet(keys map[string]crypto.PublicKey, alg string) ([]byte, error) {
	set := jose.JSONWebKeySet{}
	for _, kid := range slices.Sorted(maps.Keys(keys)) {
		k := jose.JSONWebKey{Key: keys[kid], KeyID: kid, Algorithm: alg, Use: "sig"}
		if !k.Valid() {
			return nil, jwterr.InvalidArgument(fmt.Sprintf("key %q cannot be represented as a JWK", kid))
		}
		set.Keys = append(set.Keys, k)
	}
	return json.Marshal(set)
}
