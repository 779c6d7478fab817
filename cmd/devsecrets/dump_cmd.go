// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/devsecrets/internal/audit"
	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/ManuGH/devsecrets/internal/validate"
	"github.com/spf13/cobra"
)

var dumpFormats = []string{"yaml", "json", "header", "env"}

type dumpOptions struct {
	file     string
	format   string
	reveal   bool
	comments bool
	strict   bool
}

func newDumpCmd() *cobra.Command {
	opts := &dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective secrets (file + environment)",
		Long: "Dump prints the secrets that a build would see: the secrets file\n" +
			"overlaid with SECRET_* environment variables. Passwords are masked\n" +
			"unless --reveal is given.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "secrets file (default: $"+secretsFileEnv+" or ./secrets.{h,env,yaml})")
	f.StringVar(&opts.format, "format", "yaml", "output format: "+strings.Join(dumpFormats, ", "))
	f.BoolVar(&opts.reveal, "reveal", false, "print passwords in clear text")
	f.BoolVar(&opts.comments, "comments", false, "annotate keys with their description (header, env, yaml)")
	f.BoolVar(&opts.strict, "strict", false, "reject unknown SECRET_* environment variables")
	return cmd
}

func (o *dumpOptions) run(ctx context.Context, w io.Writer) error {
	format := strings.ToLower(strings.TrimSpace(o.format))
	v := validate.New()
	v.OneOf("format", format, dumpFormats)
	if err := v.Err(); err != nil {
		return usageError{err: err}
	}

	path := resolveSecretsPath(o.file)
	s, err := loadEffective(path, o.strict)
	if err != nil {
		return fmt.Errorf("load secrets from %s: %w", describePath(path), err)
	}

	if o.reveal {
		audit.NewLogger().SecretsRevealed(ctx, describePath(path), countMasked(s.Set()))
	}

	if format == "json" {
		var out any = setMap(s.Set())
		if !o.reveal {
			out = secrets.MaskSecrets(out)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}

	if !o.reveal {
		s = s.Redacted()
	}
	set := s.Set()

	f, err := secrets.ParseFormat(format)
	if err != nil {
		return usageError{err: err}
	}
	return secrets.Encode(f, w, set, secrets.RenderOptions{Comments: o.comments})
}

// countMasked reports how many entries of set masking would hide.
func countMasked(set secrets.Set) int {
	n := 0
	for i, e := range set.Masked() {
		if !e.Value.Equal(set[i].Value) {
			n++
		}
	}
	return n
}

// setMap flattens set into a JSON object keyed by variable name.
func setMap(set secrets.Set) map[string]any {
	m := make(map[string]any, len(set))
	for _, e := range set {
		if e.Value.Kind() == secrets.KindInt {
			m[e.Key] = e.Value.Int()
			continue
		}
		m[e.Key] = e.Value.Text()
	}
	return m
}
