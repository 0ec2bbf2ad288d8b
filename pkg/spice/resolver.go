package spice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
)

// Resolver finds the library files that declare subcircuits and device
// models. It reads the search directories on every call and keeps no
// cache, so one instance may be reused across resolution passes.
type Resolver struct {
	paths  []string
	logger *log.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for scan diagnostics
func WithResolverLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver over the given search directories,
// scanned in order
func NewResolver(paths []string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		paths:  append([]string(nil), paths...),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Paths returns the search directories
func (r *Resolver) Paths() []string {
	return r.paths
}

// Resolve returns the file declaring name followed by the files it
// includes, without duplicates. Directories are scanned in order and
// their files in name order (not recursive); within a file a .subckt
// declaration is checked before a .model declaration. The first match
// wins.
func (r *Resolver) Resolve(name string) ([]string, error) {
	for _, dir := range r.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrSpiceModelNotFound, name, fmt.Errorf("read library path: %w", err))
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			filename := filepath.Join(dir, entry.Name())

			lib, err := ParseLibraryFile(filename)
			if err != nil {
				r.logger.Debug("skipping library file", "file", filename, "err", err)
				continue
			}
			if !lib.Declares("subckt", name) && !lib.Declares("model", name) {
				continue
			}

			r.logger.Debug("resolved model", "model", name, "file", filename)
			return includesOf(filename, lib), nil
		}
	}

	return nil, errors.New(errors.ErrSpiceModelNotFound, name)
}

// includesOf lists the matched file and its .include directives. A bare
// file name is relative to the including file; anything containing a
// path separator is kept as written.
func includesOf(filename string, lib *Library) []string {
	paths := []string{filename}
	for _, d := range lib.Directives("include") {
		inc, ok := d.Arg(0)
		if !ok || inc == "" {
			continue
		}
		if !strings.ContainsAny(inc, `/\`) {
			inc = filepath.Join(filepath.Dir(filename), inc)
		}
		if !contains(paths, inc) {
			paths = append(paths, inc)
		}
	}
	return paths
}
