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
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-jwt/internal/keyfile"
	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
	"github.com/jeremyhahn/go-jwt/pkg/algorithm"
	"github.com/jeremyhahn/go-jwt/pkg/keyprovider"
)

var curves = map[string]elliptic.Curve{
	"ES256": elliptic.P256(),
	"ES384": elliptic.P384(),
	"ES512": elliptic.P521(),
}

func (a *app) newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate key material for an algorithm",
		Long: `Keygen writes key material usable by sign and verify. RSA and ECDSA
algorithms produce a PKCS#8 private key, a PKIX public key and a JWK set
holding the public key. HMAC algorithms produce a random secret file.`,
		Example: `  jwt keygen --alg ES384 --kid 2025-01 --out ./keys
  jwt keygen --alg RS256 --bits 3072 --password changeit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.v.GetString("alg")
			info, err := algorithm.Lookup(name)
			if err != nil {
				return err
			}
			dir := a.v.GetString("out")
			if err := os.MkdirAll(dir, 0700); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			base := filepath.Join(dir, a.v.GetString("name"))

			var files map[string]string
			switch info.Family {
			case algorithm.FamilyHMAC:
				files, err = writeSecret(base, info.Hash.Size())
			case algorithm.FamilyRSA, algorithm.FamilyECDSA:
				files, err = a.writeKeyPair(base, info)
			default:
				return fmt.Errorf("%s takes no key material", name)
			}
			if err != nil {
				return err
			}

			a.log.Info("key material generated",
				logger.String("algorithm", name),
				logger.String("directory", dir))
			return a.printer.PrintFiles(name, files)
		},
	}

	f := cmd.Flags()
	f.String("alg", "ES256", "algorithm the key is for")
	f.Int("bits", 2048, "RSA modulus size")
	f.String("kid", "", "key id written to the JWK set (default: random UUID)")
	f.String("password", "", "encrypt the private key with this password")
	f.String("out", ".", "output directory")
	f.String("name", "jwt", "file name prefix")
	return cmd
}

func (a *app) writeKeyPair(base string, info algorithm.Info) (map[string]string, error) {
	var (
		priv crypto.Signer
		err  error
	)
	if info.Family == algorithm.FamilyRSA {
		bits := a.v.GetInt("bits")
		if bits < 2048 {
			return nil, fmt.Errorf("RSA keys must be at least 2048 bits, got %d", bits)
		}
		priv, err = rsa.GenerateKey(rand.Reader, bits)
	} else {
		priv, err = ecdsa.GenerateKey(curves[info.Name], rand.Reader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	var password []byte
	if p := a.v.GetString("password"); p != "" {
		password = []byte(p)
	}
	privPEM, err := keyfile.EncodePrivateKeyPEM(priv, password)
	if err != nil {
		return nil, err
	}
	pubPEM, err := keyfile.EncodePublicKeyPEM(priv.Public())
	if err != nil {
		return nil, err
	}

	kid := a.v.GetString("kid")
	if kid == "" {
		kid = uuid.NewString()
	}
	jwks, err := keyprovider.MarshalPublicJWKSet(map[string]crypto.PublicKey{kid: priv.Public()}, info.Name)
	if err != nil {
		return nil, err
	}

	files := map[string]string{
		"private": base + ".pem",
		"public":  base + ".pub.pem",
		"jwks":    base + ".jwks.json",
	}
	for _, out := range []struct {
		path string
		data []byte
		perm os.FileMode
	}{
		{files["private"], privPEM, 0600},
		{files["public"], pubPEM, 0644},
		{files["jwks"], jwks, 0644},
	} {
		if err := os.WriteFile(out.path, out.data, out.perm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", out.path, err)
		}
	}
	return files, nil
}

// writeSecret writes size random bytes as base64url text.
func writeSecret(base string, size int) (map[string]string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	path := base + ".secret"
	if err := os.WriteFile(path, []byte(base64.RawURLEncoding.EncodeToString(buf)+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return map[string]string{"secret": path}, nil
}
