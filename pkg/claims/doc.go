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

// Package claims models the JSON content of a JWT: the JOSE header, the
// claim set and the individual claims inside them.
//
// Header and Payload keep the whole parsed JSON object, so members the
// package knows nothing about remain reachable through Claim and Claims.
// Named accessors such as Payload.Issuer or Payload.ExpiresAt are plain
// views over that tree and never fail; an absent or mistyped member simply
// yields the zero value.
//
// A Claim distinguishes three states:
//
//	c := payload.Claim("role")
//	switch {
//	case c.IsMissing():
//	    // not in the token
//	case c.IsNull():
//	    // "role": null
//	default:
//	    role, ok := c.AsString()
//	}
//
// Numbers are kept as json.Number so that large integers survive intact.
package claims
