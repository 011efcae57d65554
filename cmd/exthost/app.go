// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/logging"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/plugin/goplugin"
	"github.com/holomush/exthost/internal/plugin/hostfunc"
	"github.com/holomush/exthost/internal/plugin/lua"
	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/internal/xdg"
)

// Activation retry defaults for recoverable faults.
const (
	defaultRetryAttempts = 2
	defaultRetryBase     = 200 * time.Millisecond
)

// app is one loaded extension and the service wrapped around it.
type app struct {
	logger  *slog.Logger
	config  *shim.Configuration
	loader  *plugin.Loader
	bundle  *plugin.Bundle
	service *service.Service
}

// appParams carries what a subcommand adds to the global options.
type appParams struct {
	bundleDir         string
	logger            *slog.Logger
	registerer        prometheus.Registerer
	completionTimeout time.Duration
}

// newLogger validates the global options and builds the logger. Logs go
// to w so stdout stays free for frames.
func newLogger(opts *globalOptions, w io.Writer) (*slog.Logger, error) {
	if err := opts.Validate(); err != nil {
		return nil, oops.In("cli").Hint("invalid flags").Wrap(err)
	}
	return logging.New(logging.Config{
		Service: "exthost",
		Version: version,
		Format:  opts.logFormat,
		Level:   opts.logLevel,
		Output:  w,
	})
}

// newApp wires configuration, the runtimes, and the service for the
// bundle in p.bundleDir. Nothing is activated.
func newApp(ctx context.Context, opts *globalOptions, p appParams) (*app, error) {
	logger := p.logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := loadConfiguration(opts)
	if err != nil {
		return nil, err
	}

	enforcer := capability.NewEnforcer()
	funcs := hostfunc.New(enforcer, hostfunc.WithLogger(logger))
	loader := plugin.NewLoader(host.APIVersion,
		plugin.WithRuntime(plugin.TypeLua, lua.NewRuntime(funcs, lua.WithLogger(logger))),
		plugin.WithRuntime(plugin.TypeBinary, goplugin.NewRuntime(enforcer, goplugin.WithLogger(logger))),
		plugin.WithEnforcer(enforcer),
		plugin.WithConfiguration(cfg),
		plugin.WithLoaderLogger(logger),
	)

	ext, bundle, err := loader.LoadDir(ctx, resolveBundle(p.bundleDir))
	if err != nil {
		_ = loader.Close(ctx)
		return nil, err
	}

	workspace := opts.workspace
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			_ = loader.Close(ctx)
			return nil, oops.In("cli").Wrapf(err, "resolve workspace")
		}
	}

	services := shim.New(logger, shim.WithConfiguration(cfg))
	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithHostOptions(
			host.WithServices(services),
			host.WithIdentity(host.NewIdentity("exthost", version)),
			host.WithWorkspaceRoot(shim.FileURI(workspace)),
			host.WithExtensionRoot(shim.FileURI(bundle.Dir)),
		),
		service.WithActivationRetry(defaultRetryAttempts, defaultRetryBase),
	}
	if p.registerer != nil {
		svcOpts = append(svcOpts, service.WithRegisterer(p.registerer))
	}
	if p.completionTimeout > 0 {
		svcOpts = append(svcOpts, service.WithCompletionTimeout(p.completionTimeout))
	}

	return &app{
		logger:  logger,
		config:  cfg,
		loader:  loader,
		bundle:  bundle,
		service: service.New(ext, svcOpts...),
	}, nil
}

// Close disposes the service and shuts the runtimes down.
func (a *app) Close(ctx context.Context) error {
	return errors.Join(a.service.Dispose(ctx), a.loader.Close(ctx))
}

// resolveBundle returns arg when it is a directory. A bare name that is
// not a directory names a bundle under the XDG extensions directory.
func resolveBundle(arg string) string {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg
	}
	if strings.ContainsRune(arg, filepath.Separator) || arg == "." || arg == ".." {
		return arg
	}
	root, err := xdg.ExtensionsDir()
	if err != nil {
		return arg
	}
	candidate := filepath.Join(root, arg)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return arg
}

// loadConfiguration reads the config file, then merges --set overrides as
// flags. The XDG default file is optional; an explicit --config must exist.
func loadConfiguration(opts *globalOptions) (*shim.Configuration, error) {
	cfg := shim.NewConfiguration()

	path := opts.configFile
	if path == "" {
		def, err := xdg.ConfigFile()
		if err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return nil, oops.In("cli").With("path", def).Wrap(statErr)
			}
		}
	}
	if path != "" {
		if err := cfg.LoadFile(filepath.Clean(path)); err != nil {
			return nil, err
		}
	}

	flags, err := settingFlags(opts.settings)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadFlags(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// settingFlags turns key=value overrides into a flag set with one flag per
// key. A repeated key keeps its last value.
func settingFlags(settings []string) (*pflag.FlagSet, error) {
	flags := pflag.NewFlagSet("set", pflag.ContinueOnError)
	for _, s := range settings {
		key, raw, _ := strings.Cut(s, "=")
		if flags.Lookup(key) == nil {
			flags.String(key, "", "configuration override")
		}
		if err := flags.Set(key, raw); err != nil {
			return nil, oops.In("cli").With("key", key).Wrapf(err, "set %s", key)
		}
	}
	return flags, nil
}
