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

package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/claims"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

const invalidValueMessage = "Claim values must only be of types map[string]any, slice, bool, int, int64, float64, string, time.Time or nil"

// Builder assembles and signs a token. Values are validated as they are
// added; the first invalid call is recorded and returned by Sign, and
// leaves the builder unchanged.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	header  map[string]any
	payload map[string]any
	err     error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		header:  make(map[string]any),
		payload: make(map[string]any),
	}
}

// Err returns the first recorded error, if any.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// WithHeader merges header parameters. A nil value removes the parameter.
func (b *Builder) WithHeader(header map[string]any) *Builder {
	normalized, err := normalizeMap(header)
	if err != nil {
		return b.fail(err)
	}
	for k, v := range normalized {
		if v == nil {
			delete(b.header, k)
			continue
		}
		b.header[k] = v
	}
	return b
}

// WithHeaderJSON merges header parameters given as a JSON object.
func (b *Builder) WithHeaderJSON(s string) *Builder {
	tree, err := claims.ParseObject([]byte(s))
	if err != nil {
		return b.fail(jwterr.Wrap(jwterr.KindInvalidArgument, "Invalid header JSON", err))
	}
	return b.WithHeader(tree)
}

// WithKeyID sets the "kid" header. It is overridden at signing time by a
// key id supplied by the algorithm's key provider.
func (b *Builder) WithKeyID(kid string) *Builder {
	b.header[claims.HeaderKeyID] = kid
	return b
}

// WithIssuer sets "iss".
func (b *Builder) WithIssuer(iss string) *Builder {
	return b.set(claims.Issuer, iss)
}

// WithSubject sets "sub".
func (b *Builder) WithSubject(sub string) *Builder {
	return b.set(claims.Subject, sub)
}

// WithJWTID sets "jti".
func (b *Builder) WithJWTID(id string) *Builder {
	return b.set(claims.JWTID, id)
}

// WithAudience sets "aud". A single audience is written as a string,
// several as an array. No arguments removes the claim.
func (b *Builder) WithAudience(audience ...string) *Builder {
	switch len(audience) {
	case 0:
		delete(b.payload, claims.Audience)
	case 1:
		b.payload[claims.Audience] = audience[0]
	default:
		list := make([]any, len(audience))
		for i, a := range audience {
			list[i] = a
		}
		b.payload[claims.Audience] = list
	}
	return b
}

// WithExpiresAt sets "exp". The zero time removes the claim.
func (b *Builder) WithExpiresAt(t time.Time) *Builder {
	return b.setTime(claims.ExpiresAt, t)
}

// WithNotBefore sets "nbf". The zero time removes the claim.
func (b *Builder) WithNotBefore(t time.Time) *Builder {
	return b.setTime(claims.NotBefore, t)
}

// WithIssuedAt sets "iat". The zero time removes the claim.
func (b *Builder) WithIssuedAt(t time.Time) *Builder {
	return b.setTime(claims.IssuedAt, t)
}

// WithClaim sets a claim. Maps and slices are validated recursively. A nil
// value removes the claim; use WithNullClaim for an explicit null.
func (b *Builder) WithClaim(name string, value any) *Builder {
	if name == "" {
		return b.fail(jwterr.InvalidArgument("The Custom Claim's name can't be null."))
	}
	v, err := normalize(value)
	if err != nil {
		return b.fail(err)
	}
	if v == nil {
		delete(b.payload, name)
		return b
	}
	b.payload[name] = v
	return b
}

// WithNullClaim sets a claim to JSON null.
func (b *Builder) WithNullClaim(name string) *Builder {
	if name == "" {
		return b.fail(jwterr.InvalidArgument("The Custom Claim's name can't be null."))
	}
	b.payload[name] = nil
	return b
}

// WithArrayClaim sets a claim to an array of items.
func (b *Builder) WithArrayClaim(name string, items ...any) *Builder {
	if items == nil {
		return b.WithClaim(name, nil)
	}
	return b.WithClaim(name, items)
}

// WithPayload merges claims. Every value is validated before any is
// applied. A nil value removes the claim.
func (b *Builder) WithPayload(payload map[string]any) *Builder {
	normalized, err := normalizeMap(payload)
	if err != nil {
		return b.fail(err)
	}
	for k, v := range normalized {
		if v == nil {
			delete(b.payload, k)
			continue
		}
		b.payload[k] = v
	}
	return b
}

// WithPayloadJSON merges claims given as a JSON object.
func (b *Builder) WithPayloadJSON(s string) *Builder {
	tree, err := claims.ParseObject([]byte(s))
	if err != nil {
		return b.fail(jwterr.Wrap(jwterr.KindInvalidArgument, "Invalid payload JSON", err))
	}
	return b.WithPayload(tree)
}

// Sign serializes and signs the token. "alg" is always set from alg, "typ"
// defaults to "JWT", and a signing key id from alg replaces any "kid".
func (b *Builder) Sign(alg algorithm.Algorithm) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if alg == nil {
		return "", jwterr.InvalidArgument("The Algorithm cannot be null.")
	}

	header := maps.Clone(b.header)
	header[claims.HeaderAlgorithm] = alg.Name()
	if _, ok := header[claims.HeaderType]; !ok {
		header[claims.HeaderType] = "JWT"
	}
	if kid := alg.SigningKeyID(); kid != "" {
		header[claims.HeaderKeyID] = kid
	}

	headerJSON, err := marshal(header)
	if err != nil {
		return "", err
	}
	payloadJSON, err := marshal(b.payload)
	if err != nil {
		return "", err
	}

	h := token.EncodeSegment(headerJSON)
	p := token.EncodeSegment(payloadJSON)
	sig, err := alg.Sign([]byte(h), []byte(p))
	if err != nil {
		return "", err
	}
	return token.Join(h, p, token.EncodeSegment(sig)), nil
}

func (b *Builder) set(name string, value string) *Builder {
	b.payload[name] = value
	return b
}

func (b *Builder) setTime(name string, t time.Time) *Builder {
	if t.IsZero() {
		delete(b.payload, name)
		return b
	}
	b.payload[name] = t.Unix()
	return b
}

func marshal(v map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, jwterr.Wrap(jwterr.KindInvalidArgument,
			"Some of the Claims couldn't be converted to a valid JSON format.", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		n, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

// normalize validates a claim value and converts it to its JSON form:
// times become epoch seconds, slices become []any and string keyed maps
// become map[string]any.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t, nil
	case float32:
		return finite(float64(t), v)
	case float64:
		return finite(t, v)
	case time.Time:
		return t.Unix(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			n, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, invalidValue(v)
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = n
		}
		return out, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
	}
	return nil, invalidValue(v)
}

func finite(f float64, original any) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalidValue(original)
	}
	return f, nil
}

func invalidValue(v any) error {
	return jwterr.InvalidArgument(fmt.Sprintf("%s, got %T", invalidValueMessage, v))
}
