// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(_ *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bundle-dir>...",
		Short: "Check extension bundles without running them",
		Long: `Validate each bundle's extension.yaml against the manifest schema, check
its engine constraint against this host and make sure the entry file or
executable exists.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, dir := range args {
				if err := validateBundle(dir); err != nil {
					failed++
					cmd.PrintErrf("%s: %s\n", dir, plugin.FormatSchemaError(err))
					continue
				}
				cmd.Printf("%s: ok\n", dir)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d bundles invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateBundle(dir string) error {
	b, err := plugin.LoadBundle(dir)
	if err != nil {
		return err
	}
	if err := b.Manifest.CheckEngine(host.APIVersion); err != nil {
		return err
	}

	var entry string
	switch b.Manifest.Type {
	case plugin.TypeLua:
		entry = b.Manifest.Lua.Entry
	case plugin.TypeBinary:
		entry = b.Manifest.Binary.Executable
	}
	if _, err := os.Stat(b.Path(entry)); err != nil {
		return fmt.Errorf("%s entry: %w", b.Manifest.Type, err)
	}
	return nil
}
