// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"io"
	"os"
	"strings"

	xglog "github.com/ManuGH/devsecrets/internal/log"
	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/ManuGH/devsecrets/internal/validate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// secretsFileEnv names an explicit secrets file when -f is not given.
const secretsFileEnv = "DEVSECRETS_FILE"

type rootOptions struct {
	logLevel  string
	logFormat string
	stderr    io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stderr: stderr}

	root := &cobra.Command{
		Use:           "devsecrets",
		Short:         "Manage device secrets (WiFi, MQTT, OTA) for firmware builds",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.configureLogging(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); defaults to $LOG_LEVEL or warn")
	pf.StringVar(&opts.logFormat, "log-format", "console", "log format: json or console")

	root.AddCommand(
		newValidateCmd(),
		newDumpCmd(),
		newInitCmd(),
		newConvertCmd(),
		newCheckCmd(),
		newMQTTCmd(),
		newDiffCmd(),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) configureLogging(cmd *cobra.Command) error {
	v := validate.New()
	v.OneOf("log-format", strings.ToLower(o.logFormat), []string{"json", "console"})
	if o.logLevel != "" {
		if _, err := zerolog.ParseLevel(o.logLevel); err != nil {
			v.AddError("log-level", "unknown log level", o.logLevel)
		}
	}
	if err := v.Err(); err != nil {
		return usageError{err: err}
	}

	xglog.Configure(xglog.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
		Output: o.stderr,
	})
	cmd.SetContext(xglog.ContextWithCommand(cmd.Context(), cmd.Name()))
	return nil
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// resolveSecretsPath picks the secrets file: the flag, then $DEVSECRETS_FILE,
// then the first secrets.{h,env,yaml} in the working directory. An empty
// result means environment only.
func resolveSecretsPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(secretsFileEnv)); p != "" {
		return p
	}
	for _, f := range secrets.Formats() {
		candidate := "secrets" + f.Extension()
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// loadEffective loads file and environment and converts the merged set.
func loadEffective(path string, strict bool) (secrets.Secrets, error) {
	loader := secrets.NewLoader(path)
	loader.Strict = strict
	return loader.Load()
}

func describePath(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}
