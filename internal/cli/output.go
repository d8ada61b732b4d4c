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
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
	"github.com/jeremyhahn/go-jwt/pkg/token"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintDecoded prints the header and claims of a token.
func (p *Printer) PrintDecoded(d *token.DecodedToken, verified bool) error {
	header := d.Header().Tree()
	payload := d.Payload().Tree()

	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"header":    header,
			"payload":   payload,
			"signature": d.SignaturePart(),
			"verified":  verified,
		})
	case OutputFormatText:
		if verified {
			fmt.Fprintln(p.writer, "Signature: verified")
		} else {
			fmt.Fprintln(p.writer, "Signature: NOT verified")
		}
		fmt.Fprintln(p.writer, "Header:")
		if err := p.printIndented(header); err != nil {
			return err
		}
		fmt.Fprintln(p.writer, "Payload:")
		if err := p.printIndented(payload); err != nil {
			return err
		}
		for _, line := range []struct {
			label string
			t     time.Time
		}{
			{"Issued At", d.IssuedAt()},
			{"Not Before", d.NotBefore()},
			{"Expires At", d.ExpiresAt()},
		} {
			if !line.t.IsZero() {
				fmt.Fprintf(p.writer, "%-11s %s\n", line.label+":", line.t.UTC().Format(time.RFC3339))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintToken prints a signed token.
func (p *Printer) PrintToken(tokenString, alg, keyID string) error {
	switch p.format {
	case OutputFormatJSON:
		info := map[string]interface{}{
			"token":     tokenString,
			"algorithm": alg,
		}
		if keyID != "" {
			info["key_id"] = keyID
		}
		return p.printJSON(info)
	case OutputFormatText:
		fmt.Fprintln(p.writer, tokenString)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintFiles prints the files written by a command, keyed by role.
func (p *Printer) PrintFiles(alg string, files map[string]string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"algorithm": alg,
			"files":     files,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Generated %s key material:\n", alg)
		roles := make([]string, 0, len(files))
		for role := range files {
			roles = append(roles, role)
		}
		slices.Sort(roles)
		for _, role := range roles {
			fmt.Fprintf(p.writer, "  %-8s %s\n", role+":", files[role])
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message. Token errors carry their kind.
func (p *Printer) PrintError(err error) error {
	kind := jwterr.KindOf(err)
	switch p.format {
	case OutputFormatJSON:
		out := map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
		if kind != jwterr.KindUnknown {
			out["kind"] = kind.String()
		}
		return p.printJSON(out)
	default:
		if kind != jwterr.KindUnknown {
			fmt.Fprintf(p.writer, "Error (%s): %v\n", kind, err)
			return nil
		}
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

func (p *Printer) printIndented(v interface{}) error {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(p.writer, "  %s\n", strings.TrimSpace(string(data)))
	return nil
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
