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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-jwt/internal/config"
	"github.com/jeremyhahn/go-jwt/pkg/adapters/logger"
)

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	log     logger.Logger
	printer *Printer
	stdin   io.Reader
	now     func() time.Time
}

// NewRootCommand builds the command tree. Every flag may also be given as
// a JWT_<FLAG> environment variable.
func NewRootCommand() *cobra.Command {
	return newApp().rootCommand()
}

func newApp() *app {
	a := &app{
		v:     viper.New(),
		stdin: os.Stdin,
		now:   time.Now,
	}
	a.v.SetEnvPrefix("JWT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	return a
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jwt",
		Short: "go-jwt CLI - JSON Web Token tool",
		Long: `go-jwt CLI creates, decodes and verifies JSON Web Tokens.

Supported algorithms:
  - HS256, HS384, HS512: HMAC with a shared secret
  - RS256, RS384, RS512: RSA PKCS#1 v1.5
  - ES256, ES384, ES512: ECDSA
  - none:                unsecured tokens

Keys come from PEM files, a JWK set, or a HashiCorp Vault Transit key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "profile file (YAML)")
	flags.StringP("output", "o", "text", "output format (text, json)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("log-format", "", "log format (text, json)")

	rootCmd.AddCommand(
		a.newDecodeCmd(),
		a.newVerifyCmd(),
		a.newSignCmd(),
		a.newKeygenCmd(),
		a.newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		printer := NewPrinter(outputFormat(rootCmd), rootCmd.ErrOrStderr())
		_ = printer.PrintError(err) // best-effort
	}
	return err
}

func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.PersistentFlags().GetString("output")
	if err != nil || format == "" {
		return string(OutputFormatText)
	}
	return format
}

// setup binds the invoked command's flags, loads the profile and creates
// the logger and printer.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	format := a.v.GetString("output")
	if format != string(OutputFormatText) && format != string(OutputFormatJSON) {
		return fmt.Errorf("unknown output format: %s", format)
	}
	a.printer = NewPrinter(format, cmd.OutOrStdout())

	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if a.v.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}
	if a.v.IsSet("log-format") {
		cfg.Logging.Format = a.v.GetString("log-format")
	}
	a.cfg = cfg
	a.log = cfg.Logging.NewLogger(cmd.ErrOrStderr())

	a.log.Debug("configuration loaded",
		logger.String("command", cmd.Name()),
		logger.String("config", a.v.GetString("config")))
	return nil
}

// tokenArg returns the token given as the only argument, or read from
// stdin when the argument is "-" or absent.
func (a *app) tokenArg(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
