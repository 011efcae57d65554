// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"net/url"
	"path"
	"path/filepath"

	"github.com/samber/oops"
)

// URI identifies a resource, typically a file on disk. It mirrors the small
// part of an IDE's URI helper extensions use: construct from a path, join
// segments, format, and convert back to a filesystem path.
type URI struct {
	Scheme    string `json:"scheme"`
	Authority string `json:"authority,omitempty"`
	Path      string `json:"path"`
	Query     string `json:"query,omitempty"`
	Fragment  string `json:"fragment,omitempty"`
}

// FileURI returns a file URI for a filesystem path. Relative paths are made absolute.
func FileURI(p string) URI {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return URI{Scheme: "file", Path: filepath.ToSlash(p)}
}

// ParseURI parses s. A string without a scheme is treated as a file path.
func ParseURI(s string) (URI, error) {
	if s == "" {
		return URI{}, oops.In("shim").New("uri cannot be empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, oops.In("shim").With("uri", s).Wrapf(err, "parse uri")
	}
	if u.Scheme == "" {
		return FileURI(s), nil
	}
	return URI{
		Scheme:    u.Scheme,
		Authority: u.Host,
		Path:      u.Path,
		Query:     u.RawQuery,
		Fragment:  u.Fragment,
	}, nil
}

// JoinPath returns a copy of u with segments appended to its path.
func (u URI) JoinPath(segments ...string) URI {
	parts := append([]string{u.Path}, segments...)
	u.Path = path.Join(parts...)
	return u
}

// FSPath returns the filesystem path for a file URI, or "" for other schemes.
func (u URI) FSPath() string {
	if u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// String formats the URI.
func (u URI) String() string {
	out := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Authority,
		Path:     u.Path,
		RawQuery: u.Query,
		Fragment: u.Fragment,
	}
	return out.String()
}

// IsZero reports whether u is the zero URI.
func (u URI) IsZero() bool {
	return u == URI{}
}
