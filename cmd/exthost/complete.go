// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/exthost/internal/service"
)

// NewCompleteCmd creates the complete subcommand.
func NewCompleteCmd(opts *globalOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "complete <bundle-dir> <prompt>...",
		Short: "Request one completion from an extension",
		Long: `Activate the extension, send it a single-completion request for the
prompt, print the returned text and dispose the extension.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplete(cmd, opts, args[0], strings.Join(args[1:], " "), timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", service.DefaultCompletionTimeout, "how long to wait for the completion")

	return cmd
}

func runComplete(cmd *cobra.Command, opts *globalOptions, bundleDir, prompt string, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a, err := newApp(ctx, opts, appParams{bundleDir: bundleDir, logger: logger, completionTimeout: timeout})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	if err := a.service.Initialize(ctx); err != nil {
		return err
	}
	text, err := a.service.RequestSingleCompletion(ctx, prompt, timeout)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
