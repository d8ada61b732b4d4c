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

package claims

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

type state uint8

const (
	stateMissing state = iota
	stateNull
	statePresent
)

// Claim is a single JSON member of a header or payload. It is either a
// present value, a present JSON null, or missing. The zero Claim is the
// missing claim.
//
// Accessors never fail: a type mismatch reports ok == false.
type Claim struct {
	state state
	value any
}

// Missing returns the missing claim.
func Missing() Claim {
	return Claim{}
}

// Of wraps a JSON value as a present claim. A nil value is a present null.
func Of(v any) Claim {
	if v == nil {
		return Claim{state: stateNull}
	}
	return Claim{state: statePresent, value: v}
}

// IsMissing reports whether the claim was absent.
func (c Claim) IsMissing() bool {
	return c.state == stateMissing
}

// IsNull reports whether the claim was present with a JSON null value.
func (c Claim) IsNull() bool {
	return c.state == stateNull
}

// Value returns the raw JSON value, nil for missing and null claims.
func (c Claim) Value() any {
	return c.value
}

// AsString returns the value if it is a JSON string.
func (c Claim) AsString() (string, bool) {
	s, ok := c.value.(string)
	return s, ok
}

// AsBoolean returns the value if it is a JSON boolean.
func (c Claim) AsBoolean() (bool, bool) {
	b, ok := c.value.(bool)
	return b, ok
}

// AsLong returns the value if it is an integral JSON number that fits an int64.
func (c Claim) AsLong() (int64, bool) {
	n, ok := number(c.value)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// AsInt returns the value if it is an integral JSON number in the 32-bit range.
func (c Claim) AsInt() (int, bool) {
	i, ok := c.AsLong()
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}
	return int(i), true
}

// AsDouble returns the value if it is a JSON number.
func (c Claim) AsDouble() (float64, bool) {
	n, ok := number(c.value)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Seconds from year 1 to 1970; time.Unix adds them to its argument.
const unixToInternal int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * 24 * 60 * 60

// MaxUnixSeconds is the largest epoch value AsTime accepts.
const MaxUnixSeconds = math.MaxInt64 - unixToInternal

// AsTime interprets a JSON number as seconds since the epoch. Fractional
// seconds are truncated. Numbers beyond the range of time.Time report
// ok == false.
func (c Claim) AsTime() (time.Time, bool) {
	if i, ok := c.AsLong(); ok {
		if i > MaxUnixSeconds {
			return time.Time{}, false
		}
		return time.Unix(i, 0), true
	}
	f, ok := c.AsDouble()
	if !ok || math.IsNaN(f) || f < -0x1p63 || f >= 0x1p63 {
		return time.Time{}, false
	}
	i := int64(f)
	if i > MaxUnixSeconds {
		return time.Time{}, false
	}
	return time.Unix(i, 0), true
}

// AsMap returns the value if it is a JSON object.
func (c Claim) AsMap() (map[string]any, bool) {
	m, ok := c.value.(map[string]any)
	if !ok {
		return nil, false
	}
	return deepCopy(m).(map[string]any), true
}

// AsSlice returns the value if it is a JSON array.
func (c Claim) AsSlice() ([]any, bool) {
	s, ok := c.value.([]any)
	if !ok {
		return nil, false
	}
	return deepCopy(s).([]any), true
}

// As decodes the value into dst, which must be a non-nil pointer. Missing
// and null claims leave dst untouched.
func (c Claim) As(dst any) error {
	if c.state != statePresent {
		return nil
	}
	raw, err := json.Marshal(c.value)
	if err != nil {
		return jwterr.Wrap(jwterr.KindInvalidJSON, "couldn't encode claim value", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return jwterr.Wrap(jwterr.KindInvalidJSON,
			fmt.Sprintf("Couldn't map the Claim value to %s", reflect.TypeOf(dst)), err)
	}
	return nil
}

// ListOf decodes a JSON array claim into a []T. Missing and null claims
// return nil.
func ListOf[T any](c Claim) ([]T, error) {
	if c.state != statePresent {
		return nil, nil
	}
	if _, ok := c.value.([]any); !ok {
		return nil, jwterr.Newf(jwterr.KindInvalidJSON, "Couldn't map the Claim's value to []%s", typeName[T]())
	}
	var out []T
	if err := c.As(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// String returns the JSON text of the value.
func (c Claim) String() string {
	switch c.state {
	case stateMissing:
		return "Missing claim"
	case stateNull:
		return "Null claim"
	}
	raw, err := json.Marshal(c.value)
	if err != nil {
		return fmt.Sprint(c.value)
	}
	return string(raw)
}

func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return "interface {}"
}

// number normalizes the numeric representations a claim tree may hold.
func number(v any) (json.Number, bool) {
	switch n := v.(type) {
	case json.Number:
		return n, true
	case int:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), true
	}
	return "", false
}
