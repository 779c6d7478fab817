// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var file string
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report likely mistakes in the effective secrets",
		Long: "Check loads the effective secrets and lists advisory findings such as\n" +
			"example placeholders that were never replaced. It exits 1 when there\n" +
			"is at least one finding.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveSecretsPath(file)
			s, err := loadEffective(path, strict)
			if err != nil {
				return fmt.Errorf("load secrets from %s: %w", describePath(path), err)
			}

			findings := secrets.Lint(s)
			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintf(out, "✓ %s: no findings\n", describePath(path))
				return nil
			}
			for _, f := range findings {
				fmt.Fprintln(out, f)
			}
			return exitCode(1)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "secrets file (default: $"+secretsFileEnv+" or ./secrets.{h,env,yaml})")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unknown SECRET_* environment variables")
	return cmd
}
