// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	input    string
	output   string
	force    bool
	comments bool
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert -f IN -o OUT",
		Short: "Re-encode a secrets file in the format implied by OUT",
		Long: "Convert reads IN, validates it and writes the same key/value pairs\n" +
			"to OUT. Key spelling is kept, so SECRET_CLIENT stays SECRET_CLIENT.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "file", "f", "", "input secrets file")
	f.StringVarP(&opts.output, "output", "o", "", "output secrets file")
	f.BoolVar(&opts.force, "force", false, "overwrite an existing output file")
	f.BoolVar(&opts.comments, "comments", true, "annotate keys with their description")
	return cmd
}

func (o *convertOptions) run(ctx context.Context, w io.Writer) error {
	if o.input == "" || o.output == "" {
		return usagef("both --file and --output are required")
	}
	if _, err := secrets.FormatForPath(o.output); err != nil {
		return usageError{err: err}
	}

	set, err := secrets.ReadFile(o.input)
	if err != nil {
		return err
	}
	if _, err := secrets.FromSet(set); err != nil {
		return fmt.Errorf("%s: %w", o.input, err)
	}

	if err := writeSecrets(ctx, o.output, set, secrets.RenderOptions{Comments: o.comments}, o.force); err != nil {
		return err
	}

	logger := log.WithComponentFromContext(ctx, "convert")
	logger.Debug().
		Str(log.FieldPath, o.output).
		Int("keys", len(set)).
		Msg("converted secrets file")
	fmt.Fprintf(w, "✓ %s -> %s\n", o.input, o.output)
	return nil
}
