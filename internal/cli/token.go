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


package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-jwt/internal/config"
	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
	"github.com/jeremyhahn/go-jwt/pkg/jwt"
	"github.com/jeremyhahn/go-jwt/pkg/metrics"
	"github.com/jeremyhahn/go-jwt/pkg/verification"
)

func (a *app) newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "Decode a token without verifying it",
		Long: `Decode prints the header and claims of a token. The signature is not
checked. The token is read from stdin when omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenString, err := a.tokenArg(args)
			if err != nil {
				return err
			}

			start := time.Now()
			decoded, err := jwt.Decode(tokenString)
			alg := "unknown"
			if decoded != nil {
				alg = decoded.Algorithm()
			}
			metrics.Observe(metrics.OpDecode, alg, time.Since(start).Seconds(), err)
			if err != nil {
				return err
			}
			return a.printer.PrintDecoded(decoded, false)
		},
	}
}

func (a *app) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify a token's signature and claims",
		Long: `Verify checks the signature with the configured key and the claims
against the profile's verify section and the flags below. The token is
read from stdin when omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenString, err := a.tokenArg(args)
			if err != nil {
				return err
			}
			if err := a.applyKeyFlags(); err != nil {
				return err
			}
			a.applyVerifyFlags()

			alg, err := a.cfg.VerifyingAlgorithm()
			if err != nil {
				return err
			}

			clock := verification.ClockFunc(a.now)
			if at := a.v.GetInt64("time"); at > 0 {
				clock = verification.ClockFunc(func() time.Time { return time.Unix(at, 0) })
			}
			verifier, err := a.cfg.Verification(alg).WithClock(clock).Build()
			if err != nil {
				return err
			}

			decoded, err := metrics.NewInstrumentedVerifier(verifier).Verify(tokenString)
			if err != nil {
				a.log.Warn("token rejected",
					logger.String("algorithm", alg.Name()),
					logger.String("reason", metrics.ErrorType(err)))
				return err
			}
			a.log.Debug("token verified",
				logger.String("algorithm", alg.Name()),
				logger.String("key_id", decoded.KeyID()))
			return a.printer.PrintDecoded(decoded, true)
		},
	}

	addKeyFlags(cmd)
	f := cmd.Flags()
	f.StringSlice("iss", nil, "accepted issuers")
	f.StringSlice("aud", nil, "required audiences")
	f.Bool("any-audience", false, "accept a token carrying any one of --aud")
	f.String("sub", "", "required subject")
	f.StringSlice("require", nil, "claims that must be present")
	f.Duration("leeway", 0, "clock skew accepted for exp, nbf and iat")
	f.Bool("ignore-iat", false, "skip the issued-at check")
	f.Int64("time", 0, "verify at this Unix time instead of now")
	return cmd
}

func (a *app) newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Create and sign a token",
		Long: `Sign creates a token from the profile's sign section, the flags below
and any --claim values. Claim values are parsed as JSON when valid and
used as strings otherwise.`,
		Example: `  jwt sign --secret s3cr3t --sub alice --claim admin=true --exp 15m
  jwt sign --key ec.pem --kid 2025-01 --aud api --jti auto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyKeyFlags(); err != nil {
				return err
			}
			a.applySignFlags()

			alg, err := a.cfg.SigningAlgorithm()
			if err != nil {
				return err
			}

			b := a.cfg.Builder(a.now())
			if payload := a.v.GetString("payload"); payload != "" {
				b.WithPayloadJSON(payload)
			}
			claimArgs, _ := cmd.Flags().GetStringArray("claim")
			for _, kv := range claimArgs {
				name, value, err := splitAssignment(kv)
				if err != nil {
					return err
				}
				if value == nil {
					b.WithNullClaim(name)
					continue
				}
				b.WithClaim(name, value)
			}
			headerArgs, _ := cmd.Flags().GetStringArray("header")
			for _, kv := range headerArgs {
				name, value, err := splitAssignment(kv)
				if err != nil {
					return err
				}
				b.WithHeader(map[string]any{name: value})
			}

			tokenString, err := metrics.NewInstrumentedSigner(alg).Sign(b)
			if err != nil {
				return err
			}
			a.log.Debug("token signed",
				logger.String("algorithm", alg.Name()),
				logger.String("key_id", alg.SigningKeyID()))
			return a.printer.PrintToken(tokenString, alg.Name(), alg.SigningKeyID())
		},
	}

	addKeyFlags(cmd)
	f := cmd.Flags()
	f.String("iss", "", "issuer")
	f.String("sub", "", "subject")
	f.StringSlice("aud", nil, "audiences")
	f.Duration("exp", 0, "lifetime, written as exp = now + exp")
	f.Duration("nbf", 0, "delay before the token is valid, written as nbf = now + nbf")
	f.Bool("no-iat", false, "omit the issued-at claim")
	f.String("jti", "", `token id; "auto" generates a UUID`)
	f.StringArray("claim", nil, "custom claim as name=value (repeatable)")
	f.StringArray("header", nil, "header parameter as name=value (repeatable)")
	f.String("payload", "", "claims as a JSON object")
	return cmd
}

func addKeyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("alg", "", "algorithm (HS256, RS256, ES256, ...); inferred from the key when empty")
	f.String("secret", "", "HMAC secret")
	f.String("secret-file", "", "file holding the HMAC secret")
	f.String("key", "", "PEM private key file")
	f.String("pubkey", "", "PEM public key or certificate file")
	f.String("jwks", "", "JWK set file")
	f.String("password", "", "password of an encrypted private key")
	f.String("kid", "", "key id")
}

// applyKeyFlags overrides the profile's key settings. Key material given
// on the command line replaces the profile's material entirely.
func (a *app) applyKeyFlags() error {
	k := &a.cfg.Key
	if a.anySet("secret", "secret-file", "key", "pubkey", "jwks") {
		*k = config.KeyConfig{Password: k.Password, KeyID: k.KeyID}
		a.cfg.Vault.Enabled = false
	}
	a.setString("alg", &a.cfg.Algorithm)
	a.setString("secret", &k.Secret)
	a.setString("secret-file", &k.SecretFile)
	a.setString("key", &k.PrivateKeyFile)
	a.setString("pubkey", &k.PublicKeyFile)
	a.setString("jwks", &k.JWKSFile)
	a.setString("password", &k.Password)
	a.setString("kid", &k.KeyID)
	return a.cfg.Validate()
}

func (a *app) applyVerifyFlags() {
	vc := &a.cfg.Verify
	a.setStrings("iss", &vc.Issuers)
	a.setStrings("aud", &vc.Audience)
	a.setStrings("require", &vc.RequiredClaims)
	a.setString("sub", &vc.Subject)
	if a.v.IsSet("any-audience") {
		vc.AnyAudience = a.v.GetBool("any-audience")
	}
	if a.v.IsSet("leeway") {
		vc.Leeway = a.v.GetDuration("leeway")
	}
	if a.v.IsSet("ignore-iat") {
		vc.IgnoreIssuedAt = a.v.GetBool("ignore-iat")
	}
}

func (a *app) applySignFlags() {
	sc := &a.cfg.Sign
	a.setString("iss", &sc.Issuer)
	a.setString("sub", &sc.Subject)
	a.setStrings("aud", &sc.Audience)
	a.setString("jti", &sc.JWTID)
	if a.v.IsSet("exp") {
		sc.ExpiresIn = a.v.GetDuration("exp")
	}
	if a.v.IsSet("nbf") {
		sc.NotBefore = a.v.GetDuration("nbf")
	}
	if a.v.GetBool("no-iat") {
		sc.IssuedAt = false
	}
}

func (a *app) anySet(keys ...string) bool {
	for _, key := range keys {
		if a.v.IsSet(key) {
			return true
		}
	}
	return false
}

func (a *app) setString(key string, dst *string) {
	if a.v.IsSet(key) {
		*dst = a.v.GetString(key)
	}
}

func (a *app) setStrings(key string, dst *[]string) {
	if a.v.IsSet(key) {
		*dst = a.v.GetStringSlice(key)
	}
}

// splitAssignment parses name=value. The value is decoded as JSON when it
// is a single valid JSON value and kept as a string otherwise.
func splitAssignment(s string) (string, any, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("expected name=value, got %q", s)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil || dec.More() {
		return name, raw, nil
	}
	return name, value, nil
}
