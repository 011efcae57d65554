// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/xdg"
)

// NewListCmd creates the list subcommand.
func NewListCmd(_ *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [extensions-dir]",
		Short: "List installed extension bundles",
		Long: `List the bundles found directly under the extensions directory
(default: XDG_DATA_HOME/exthost/extensions). Bundles listed here can be
passed to the other commands by name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			} else {
				dir, err := xdg.ExtensionsDir()
				if err != nil {
					return err
				}
				root = dir
			}

			bundles, err := plugin.Discover(cmd.Context(), root)
			if err != nil {
				return err
			}
			if len(bundles) == 0 {
				cmd.Printf("no extensions in %s\n", root)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tVERSION\tTYPE\tDIR")
			for _, b := range bundles {
				m := b.Manifest
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID(), m.Version, m.Type, b.Dir)
			}
			return tw.Flush()
		},
	}
}
