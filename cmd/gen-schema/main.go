// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Command gen-schema writes the JSON Schema for extension.yaml manifests.
// With -check it only verifies the committed file is current.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/holomush/exthost/internal/plugin"
)

// errStale reports a committed schema that no longer matches the Manifest type.
var errStale = errors.New("schema is out of date; run gen-schema")

func main() {
	out := flag.String("o", filepath.Join("schemas", "extension.schema.json"), "output path")
	check := flag.Bool("check", false, "fail if the output file differs from the generated schema")
	flag.Parse()

	if err := run(*out, *check); err != nil {
		fmt.Fprintf(os.Stderr, "gen-schema: %v\n", err)
		os.Exit(1)
	}
	if !*check {
		fmt.Printf("Generated %s\n", *out)
	}
}

func run(outPath string, check bool) error {
	schema, err := plugin.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}

	if check {
		current, err := os.ReadFile(outPath) //nolint:gosec // path comes from the -o flag
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("%s: %w", outPath, errStale)
		case err != nil:
			return fmt.Errorf("reading %s: %w", outPath, err)
		case !bytes.Equal(bytes.TrimSpace(current), bytes.TrimSpace(schema)):
			return fmt.Errorf("%s: %w", outPath, errStale)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
