// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff A B",
		Short: "List keys whose values differ between two secrets files",
		Long: "Diff compares two secrets files of any format and prints the keys\n" +
			"that changed. Values are never printed. It exits 1 when the files differ.",
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := secrets.LoadFile(args[0])
			if err != nil {
				return err
			}
			b, err := secrets.LoadFile(args[1])
			if err != nil {
				return err
			}

			changed := secrets.Diff(a, b)
			out := cmd.OutOrStdout()
			if len(changed) == 0 {
				fmt.Fprintln(out, "✓ no differences")
				return nil
			}
			for _, key := range changed {
				fmt.Fprintln(out, key)
			}
			return exitCode(1)
		},
	}
}
