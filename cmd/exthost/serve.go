// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	cryptotls "crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holomush/exthost/internal/observability"
	"github.com/holomush/exthost/internal/service"
	exttls "github.com/holomush/exthost/internal/tls"
	"github.com/holomush/exthost/internal/transport"
	"github.com/holomush/exthost/internal/xdg"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	addr           string
	allowAnyOrigin bool
	lazy           bool
	tls            bool
	certsDir       string
	tlsHosts       []string
}

// Validate checks that the configuration is valid.
func (cfg *serveConfig) Validate() error {
	if cfg.addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

const defaultServeAddr = "127.0.0.1:8765"

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *globalOptions) *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve <bundle-dir>",
		Short: "Host an extension over WebSocket",
		Long: `Load and activate the extension bundle, then accept WebSocket clients on
/ws. Every client shares the one extension. The same listener serves
/metrics, /healthz/live, /healthz/ready and a JSON report on /health.
With --tls the listener serves HTTPS and wss using a certificate issued by
a CA kept in the certificates directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, cfg, args[0], nil)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultServeAddr, "HTTP listen address")
	cmd.Flags().BoolVar(&cfg.allowAnyOrigin, "allow-any-origin", false, "accept WebSocket upgrades from any origin")
	cmd.Flags().BoolVar(&cfg.lazy, "lazy", false, "wait for a client's initialize instead of activating at startup")
	cmd.Flags().BoolVar(&cfg.tls, "tls", false, "serve HTTPS and wss with a certificate from the local CA")
	cmd.Flags().StringVar(&cfg.certsDir, "certs-dir", "", "certificate directory (default: XDG_STATE_HOME/exthost/certs)")
	cmd.Flags().StringSliceVar(&cfg.tlsHosts, "tls-host", []string{"localhost", "127.0.0.1"}, "names the server certificate covers")

	return cmd
}

// runServe blocks until the context ends or the listener fails. started,
// when non-nil, receives the bound address once clients can connect.
func runServe(cmd *cobra.Command, opts *globalOptions, cfg *serveConfig, bundleDir string, started func(addr string)) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	srvOpts := []observability.Option{observability.WithLogger(logger)}
	if cfg.tls {
		tlsCfg, err := serverTLS(cfg)
		if err != nil {
			return err
		}
		srvOpts = append(srvOpts, observability.WithTLS(tlsCfg))
	}
	srv := observability.NewServer(cfg.addr, srvOpts...)
	a, err := newApp(ctx, opts, appParams{
		bundleDir:  bundleDir,
		logger:     logger,
		registerer: srv.Registry(),
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(closeCtx); err != nil {
			a.logger.Warn("observability server stop failed", "error", err)
		}
		if err := a.Close(closeCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	wsOpts := []transport.HandlerOption{transport.WithHandlerLogger(a.logger)}
	if cfg.allowAnyOrigin {
		wsOpts = append(wsOpts, transport.WithOriginCheck(func(*http.Request) bool { return true }))
	}
	srv.Handle("/ws", transport.NewWebSocketHandler(a.service, wsOpts...))
	srv.Handle("/health", healthHandler(a.service))
	srv.AddLivenessCheck("service", a.service.Live)
	srv.AddReadinessCheck("extension", a.service.Ready)

	if !cfg.lazy {
		if err := a.service.Initialize(ctx); err != nil {
			return err
		}
	}

	errCh, err := srv.Start()
	if err != nil {
		return err
	}
	a.logger.Info("serving extension",
		"extension", a.bundle.Manifest.ID(),
		"addr", srv.Addr())
	if started != nil {
		started(srv.Addr())
	}

	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}

func serverTLS(cfg *serveConfig) (*cryptotls.Config, error) {
	dir := cfg.certsDir
	if dir == "" {
		state, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(state, "certs")
		if err := xdg.EnsureDir(dir); err != nil {
			return nil, err
		}
	}
	return exttls.EnsureServerTLS(dir, cfg.tlsHosts...)
}

func healthHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(svc.GetExtensionHealth())
	})
}
