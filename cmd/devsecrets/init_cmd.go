// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ManuGH/devsecrets/internal/audit"
	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/spf13/cobra"
)

type initOptions struct {
	format string
	output string
	force  bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a secrets file from the example template",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout(), cmd.Flags().Changed("format"))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "header", "file format: header, env or yaml")
	f.StringVarP(&opts.output, "output", "o", "", "output path (default: secrets.<ext> for --format)")
	f.BoolVar(&opts.force, "force", false, "overwrite an existing file")
	return cmd
}

func (o *initOptions) run(ctx context.Context, w io.Writer, formatSet bool) error {
	format, err := secrets.ParseFormat(o.format)
	if err != nil {
		return usageError{err: err}
	}

	path := o.output
	if path == "" {
		path = "secrets" + format.Extension()
	}
	inferred, err := secrets.FormatForPath(path)
	if err != nil {
		return usageError{err: err}
	}
	if formatSet && inferred != format {
		return usagef("--format %s does not match output %s", format, path)
	}

	set := secrets.ExampleSet()
	if err := writeSecrets(ctx, path, set, secrets.RenderOptions{Comments: true}, o.force); err != nil {
		return err
	}

	logger := log.WithComponentFromContext(ctx, "init")
	logger.Info().Str(log.FieldPath, path).Str(log.FieldFormat, string(inferred)).Msg("wrote secrets template")
	fmt.Fprintf(w, "✓ wrote %s; replace the placeholder values before building\n", path)
	return nil
}

// writeSecrets writes set to path and records the outcome in the audit log.
// An existing file is only replaced when force is set.
func writeSecrets(ctx context.Context, path string, set secrets.Set, opts secrets.RenderOptions, force bool) error {
	auditor := audit.NewLogger()

	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			auditor.WriteRefused(ctx, path, "file exists")
			return fmt.Errorf("refusing to overwrite %s (use --force)", path)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := secrets.WriteFile(ctx, path, set, opts); err != nil {
		auditor.WriteFailed(ctx, path, err)
		return fmt.Errorf("write %s: %w", path, err)
	}

	format, _ := secrets.FormatForPath(path)
	auditor.SecretsWritten(ctx, path, string(format), len(set))
	return nil
}
