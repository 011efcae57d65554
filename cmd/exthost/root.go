// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configFile string
	workspace  string
	logFormat  string
	logLevel   string
	settings   []string
}

// Default values for global flags.
const (
	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// Validate checks that the options are usable.
func (o *globalOptions) Validate() error {
	if o.logFormat != "json" && o.logFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", o.logFormat)
	}
	for _, s := range o.settings {
		if k, _, ok := strings.Cut(s, "="); !ok || k == "" {
			return fmt.Errorf("set must be key=value, got %q", s)
		}
	}
	return nil
}

// NewRootCmd creates the root command for the exthost CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "exthost",
		Short: "exthost - a headless host for IDE extensions",
		Long: `exthost runs an IDE extension bundle without the IDE. It supplies the
host services the extension expects (secrets, state, configuration,
commands, notifications) and bridges its webview messages to a terminal
client over stdio or WebSocket.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/exthost/config.yaml)")
	pf.StringVar(&opts.workspace, "workspace", "", "workspace root (default: current directory)")
	pf.StringVar(&opts.logFormat, "log-format", defaultLogFormat, "log format (json or text)")
	pf.StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringArrayVar(&opts.settings, "set", nil, "configuration override key=value (repeatable)")

	cmd.AddCommand(NewRunCmd(opts))
	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewCompleteCmd(opts))
	cmd.AddCommand(NewValidateCmd(opts))
	cmd.AddCommand(NewListCmd(opts))

	return cmd
}
