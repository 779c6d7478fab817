// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ManuGH/devsecrets/internal/mqttclient"
	"github.com/ManuGH/devsecrets/internal/validate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMQTTCmd() *cobra.Command {
	var file, format string
	cmd := &cobra.Command{
		Use:   "mqtt",
		Short: "Show the MQTT client settings derived from the secrets",
		Long: "Mqtt builds the broker options a client would use and prints a\n" +
			"summary. No connection is made and the password is never printed.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			v := validate.New()
			v.OneOf("format", format, []string{"yaml", "json"})
			if err := v.Err(); err != nil {
				return usageError{err: err}
			}

			path := resolveSecretsPath(file)
			s, err := loadEffective(path, false)
			if err != nil {
				return fmt.Errorf("load secrets from %s: %w", describePath(path), err)
			}
			summary := mqttclient.Describe(mqttclient.Options(s))

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(summary); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "secrets file (default: $"+secretsFileEnv+" or ./secrets.{h,env,yaml})")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
