// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentValidations bounds parallel file loads.
const maxConcurrentValidations = 4

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate one or more secrets files",
		Long: "Validate parses every FILE in the format implied by its extension\n" +
			"(.h, .env, .yaml) and checks it against the key registry.\n" +
			"The environment is not consulted.",
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, paths []string) error {
	logger := log.WithComponentFromContext(cmd.Context(), "validate")
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(maxConcurrentValidations)
	for i, path := range paths {
		g.Go(func() error {
			if err := cmd.Context().Err(); err != nil {
				errs[i] = err
				return nil
			}
			_, errs[i] = secrets.LoadFile(path)
			logger.Debug().Str(log.FieldPath, path).Bool("valid", errs[i] == nil).Msg("validated secrets file")
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Secrets error in %s:\n  %v\n", path, errs[i])
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", path)
	}
	if failed > 0 {
		return exitCode(1)
	}
	return nil
}
