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

// Package verification validates signed tokens against an algorithm and a
// set of expected claims.
//
// A Verification collects the expectations; Build freezes them into a
// Verifier that can be shared between goroutines:
//
//	v, err := verification.New(alg).
//	    WithIssuer("auth0").
//	    WithAudience("api").
//	    AcceptLeeway(30 * time.Second).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	decoded, err := v.Verify(tokenString)
//
// Checks run in registration order after the algorithm and signature
// checks, with exp, nbf and iat always evaluated last. Registering the same
// claim name twice replaces the earlier check in place.
package verification

import (
	"fmt"
	"slices"
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/claims"
	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// Predicate decides whether a present claim is acceptable.
type Predicate func(c claims.Claim, t *token.DecodedToken) bool

type check struct {
	name     string
	required bool
	verify   func(c claims.Claim, t *token.DecodedToken, now time.Time) error
}

// Verification configures a Verifier. Configuration mistakes are recorded
// by the call that made them and returned from Err and Build.
type Verification struct {
	alg            algorithm.Algorithm
	checks         []check
	index          map[string]int
	leeway         time.Duration
	leeways        map[string]time.Duration
	ignoreIssuedAt bool
	clock          Clock
	err            error
}

// New starts a Verification for tokens signed with alg.
func New(alg algorithm.Algorithm) *Verification {
	v := &Verification{
		alg:     alg,
		index:   make(map[string]int),
		leeways: make(map[string]time.Duration),
		clock:   SystemClock,
	}
	if alg == nil {
		v.fail(jwterr.InvalidArgument("The Algorithm cannot be null."))
	}
	return v
}

// Err returns the first configuration error, if any.
func (v *Verification) Err() error {
	return v.err
}

func (v *Verification) fail(err error) *Verification {
	if v.err == nil {
		v.err = err
	}
	return v
}

func (v *Verification) add(name string, p Predicate) *Verification {
	if name == "" {
		return v.fail(jwterr.InvalidArgument("The Custom Claim's name can't be null."))
	}
	c := check{
		name:     name,
		required: true,
		verify: func(c claims.Claim, t *token.DecodedToken, _ time.Time) error {
			if !p(c, t) {
				return jwterr.IncorrectClaim(name, c)
			}
			return nil
		},
	}
	if i, ok := v.index[name]; ok {
		v.checks[i] = c
		return v
	}
	v.index[name] = len(v.checks)
	v.checks = append(v.checks, c)
	return v
}

func present(claims.Claim, *token.DecodedToken) bool { return true }

// WithIssuer requires "iss" to be one of issuers.
func (v *Verification) WithIssuer(issuers ...string) *Verification {
	if len(issuers) == 0 {
		return v.add(claims.Issuer, present)
	}
	allowed := slices.Clone(issuers)
	return v.add(claims.Issuer, func(c claims.Claim, _ *token.DecodedToken) bool {
		s, ok := c.AsString()
		return ok && slices.Contains(allowed, s)
	})
}

// WithSubject requires "sub" to equal subject.
func (v *Verification) WithSubject(subject string) *Verification {
	return v.add(claims.Subject, stringEquals(subject))
}

// WithJWTID requires "jti" to equal id.
func (v *Verification) WithJWTID(id string) *Verification {
	return v.add(claims.JWTID, stringEquals(id))
}

// WithAudience requires "aud" to contain every value in audience.
// It replaces any earlier audience check.
func (v *Verification) WithAudience(audience ...string) *Verification {
	if len(audience) == 0 {
		return v.add(claims.Audience, present)
	}
	want := slices.Clone(audience)
	return v.add(claims.Audience, func(_ claims.Claim, t *token.DecodedToken) bool {
		got := t.Audience()
		for _, a := range want {
			if !slices.Contains(got, a) {
				return false
			}
		}
		return true
	})
}

// WithAnyOfAudience requires "aud" to contain at least one value in
// audience. It replaces any earlier audience check.
func (v *Verification) WithAnyOfAudience(audience ...string) *Verification {
	if len(audience) == 0 {
		return v.add(claims.Audience, present)
	}
	want := slices.Clone(audience)
	return v.add(claims.Audience, func(_ claims.Claim, t *token.DecodedToken) bool {
		for _, a := range t.Audience() {
			if slices.Contains(want, a) {
				return true
			}
		}
		return false
	})
}

// WithClaim requires the named claim to equal value. Supported values are
// nil (JSON null), bool, integer types, float32, float64, string and
// time.Time (compared in whole seconds).
func (v *Verification) WithClaim(name string, value any) *Verification {
	match, err := matcher(value)
	if err != nil {
		return v.fail(err)
	}
	return v.add(name, func(c claims.Claim, _ *token.DecodedToken) bool {
		return match(c)
	})
}

// WithClaimFunc registers a custom predicate for the named claim.
func (v *Verification) WithClaimFunc(name string, p Predicate) *Verification {
	if p == nil {
		return v.fail(jwterr.InvalidArgument("The predicate cannot be null."))
	}
	return v.add(name, p)
}

// WithArrayClaim requires the named claim to be an array containing every
// item. Items follow the WithClaim value rules.
func (v *Verification) WithArrayClaim(name string, items ...any) *Verification {
	if len(items) == 0 {
		return v.add(name, present)
	}
	matchers := make([]func(claims.Claim) bool, 0, len(items))
	for _, item := range items {
		m, err := matcher(item)
		if err != nil {
			return v.fail(err)
		}
		matchers = append(matchers, m)
	}
	return v.add(name, func(c claims.Claim, _ *token.DecodedToken) bool {
		list, ok := c.AsSlice()
		if !ok {
			return false
		}
		for _, m := range matchers {
			if !slices.ContainsFunc(list, func(e any) bool { return m(claims.Of(e)) }) {
				return false
			}
		}
		return true
	})
}

// WithClaimPresence requires the named claim to be present, with any value.
func (v *Verification) WithClaimPresence(name string) *Verification {
	return v.add(name, present)
}

// WithNullClaim requires the named claim to be present with a null value.
func (v *Verification) WithNullClaim(name string) *Verification {
	return v.add(name, func(c claims.Claim, _ *token.DecodedToken) bool {
		return c.IsNull()
	})
}

// AcceptLeeway sets the default leeway for exp, nbf and iat. Leeways are
// applied in whole seconds.
func (v *Verification) AcceptLeeway(d time.Duration) *Verification {
	if d < 0 {
		return v.fail(negativeLeeway())
	}
	v.leeway = d.Truncate(time.Second)
	return v
}

// AcceptExpiresAt sets the leeway for "exp", overriding AcceptLeeway.
func (v *Verification) AcceptExpiresAt(d time.Duration) *Verification {
	return v.acceptFor(claims.ExpiresAt, d)
}

// AcceptNotBefore sets the leeway for "nbf", overriding AcceptLeeway.
func (v *Verification) AcceptNotBefore(d time.Duration) *Verification {
	return v.acceptFor(claims.NotBefore, d)
}

// AcceptIssuedAt sets the leeway for "iat", overriding AcceptLeeway.
func (v *Verification) AcceptIssuedAt(d time.Duration) *Verification {
	return v.acceptFor(claims.IssuedAt, d)
}

func (v *Verification) acceptFor(name string, d time.Duration) *Verification {
	if d < 0 {
		return v.fail(negativeLeeway())
	}
	v.leeways[name] = d.Truncate(time.Second)
	return v
}

// IgnoreIssuedAt skips the "iat" check.
func (v *Verification) IgnoreIssuedAt() *Verification {
	v.ignoreIssuedAt = true
	return v
}

// WithClock overrides the clock used for time based claims.
func (v *Verification) WithClock(c Clock) *Verification {
	if c == nil {
		return v.fail(jwterr.InvalidArgument("The Clock cannot be null."))
	}
	v.clock = c
	return v
}

// Build freezes the configuration into a Verifier.
func (v *Verification) Build() (*Verifier, error) {
	if v.err != nil {
		return nil, v.err
	}
	checks := slices.Clone(v.checks)
	checks = append(checks, expiresAtCheck(v.leewayFor(claims.ExpiresAt)))
	checks = append(checks, notBeforeCheck(claims.NotBefore, v.leewayFor(claims.NotBefore)))
	if !v.ignoreIssuedAt {
		checks = append(checks, notBeforeCheck(claims.IssuedAt, v.leewayFor(claims.IssuedAt)))
	}
	return &Verifier{alg: v.alg, checks: checks, clock: v.clock}, nil
}

func (v *Verification) leewayFor(name string) time.Duration {
	if d, ok := v.leeways[name]; ok {
		return d
	}
	return v.leeway
}

func negativeLeeway() error {
	return jwterr.InvalidArgument("Leeway value can't be negative.")
}

// expiresAtCheck accepts a token while now - leeway is before exp.
func expiresAtCheck(leeway time.Duration) check {
	return check{
		name: claims.ExpiresAt,
		verify: func(c claims.Claim, _ *token.DecodedToken, now time.Time) error {
			if c.IsMissing() || c.IsNull() {
				return nil
			}
			exp, ok := c.AsTime()
			if !ok {
				return jwterr.IncorrectClaim(claims.ExpiresAt, c)
			}
			if !now.Add(-leeway).Before(exp) {
				return jwterr.TokenExpired(exp)
			}
			return nil
		},
	}
}

// notBeforeCheck accepts a token once now + leeway reaches the claim.
func notBeforeCheck(name string, leeway time.Duration) check {
	return check{
		name: name,
		verify: func(c claims.Claim, _ *token.DecodedToken, now time.Time) error {
			if c.IsMissing() || c.IsNull() {
				return nil
			}
			at, ok := c.AsTime()
			if !ok {
				return jwterr.IncorrectClaim(name, c)
			}
			if now.Add(leeway).Before(at) {
				return jwterr.NotYetValid(name, c, at)
			}
			return nil
		},
	}
}

func stringEquals(want string) Predicate {
	return func(c claims.Claim, _ *token.DecodedToken) bool {
		s, ok := c.AsString()
		return ok && s == want
	}
}

func matcher(value any) (func(claims.Claim) bool, error) {
	switch want := value.(type) {
	case nil:
		return claims.Claim.IsNull, nil
	case bool:
		return func(c claims.Claim) bool {
			b, ok := c.AsBoolean()
			return ok && b == want
		}, nil
	case string:
		return func(c claims.Claim) bool {
			s, ok := c.AsString()
			return ok && s == want
		}, nil
	case int:
		return longEquals(int64(want)), nil
	case int8:
		return longEquals(int64(want)), nil
	case int16:
		return longEquals(int64(want)), nil
	case int32:
		return longEquals(int64(want)), nil
	case int64:
		return longEquals(want), nil
	case uint8:
		return longEquals(int64(want)), nil
	case uint16:
		return longEquals(int64(want)), nil
	case uint32:
		return longEquals(int64(want)), nil
	case float32:
		return doubleEquals(float64(want)), nil
	case float64:
		return doubleEquals(want), nil
	case time.Time:
		secs := want.Unix()
		return func(c claims.Claim) bool {
			t, ok := c.AsTime()
			return ok && t.Unix() == secs
		}, nil
	}
	return nil, jwterr.InvalidArgument(fmt.Sprintf("unsupported expected claim value of type %T", value))
}

func longEquals(want int64) func(claims.Claim) bool {
	return func(c claims.Claim) bool {
		n, ok := c.AsLong()
		return ok && n == want
	}
}

func doubleEquals(want float64) func(claims.Claim) bool {
	return func(c claims.Claim) bool {
		f, ok := c.AsDouble()
		return ok && f == want
	}
}
