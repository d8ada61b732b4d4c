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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

// ParseObject parses a JSON object into a claim tree. Numbers are kept as
// json.Number so integers are not rounded through float64.
func ParseObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, invalidJSON(data, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, invalidJSON(data, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalidJSON(data, fmt.Errorf("expected a JSON object, got %T", v))
	}
	return m, nil
}

func invalidJSON(data []byte, cause error) error {
	return jwterr.Wrap(jwterr.KindInvalidJSON,
		fmt.Sprintf("The string '%s' doesn't have a valid JSON format.", data), cause)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}

func claimOf(tree map[string]any, name string) Claim {
	v, ok := tree[name]
	if !ok {
		return Missing()
	}
	return Of(deepCopy(v))
}

func claimsOf(tree map[string]any) map[string]Claim {
	out := make(map[string]Claim, len(tree))
	for k, v := range tree {
		out[k] = Of(deepCopy(v))
	}
	return out
}

func stringOf(tree map[string]any, name string) string {
	s, _ := tree[name].(string)
	return s
}
