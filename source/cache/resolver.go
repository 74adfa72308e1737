package cache

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/prep"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/text"
	"github.com/tim-hardcastle/compute/source/values"
)

// A Resolver turns a source file into the function table of a program: the file's own
// functions, parsed or taken from the cache, followed by those of everything it imports. An
// import names a file relative to the directory of the file importing it.
type Resolver struct {
	Cache  *Cache
	Entry  string
	Logger *slog.Logger

	resolving []string        // The chain of files being resolved, for finding cycles.
	resolved  map[string]unit // So that a file imported twice is only resolved once.
}

func NewResolver(c *Cache, entry string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{Cache: c, Entry: entry, Logger: logger, resolved: map[string]unit{}}
}

// Resolve returns the function table for the program whose top-level file is at path. The
// top-level file, and only that, must define the entry function.
func (r *Resolver) Resolve(path string) (values.FunctionTable, error) {
	u, err := r.resolve(path, "")
	if err != nil {
		return nil, err
	}
	if _, ok := u.own.Lookup(r.Entry); !ok {
		return nil, report.CreateErr("cache/main", nil, r.Entry, path)
	}
	return u.table, nil
}

// A resolved file: its own functions, and those followed by everything it imports.
type unit struct {
	own   values.FunctionTable
	table values.FunctionTable
}

func (r *Resolver) resolve(path, importedAs string) (unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return unit{}, report.WrapErr("cache/source", nil, err, path)
	}
	if i := slices.Index(r.resolving, abs); i >= 0 {
		chain := []string{}
		for _, p := range append(slices.Clone(r.resolving[i:]), abs) {
			chain = append(chain, text.ExtractFileName(p))
		}
		return unit{}, report.CreateErr("cache/import/cycle", nil, strings.Join(chain, " -> "))
	}
	if u, ok := r.resolved[abs]; ok {
		return u, nil
	}
	source, err := os.ReadFile(abs)
	if err != nil {
		if importedAs != "" {
			return unit{}, report.WrapErr("cache/import/missing", nil, err, importedAs, path)
		}
		return unit{}, report.WrapErr("cache/source", nil, err, path)
	}
	r.resolving = append(r.resolving, abs)
	defer func() { r.resolving = r.resolving[:len(r.resolving)-1] }()

	normalized, imports, err := prep.Process(path, string(source))
	if err != nil {
		return unit{}, err
	}
	r.Logger.Debug("preprocessed", "file", path, "imports", imports)
	var imported values.FunctionTable
	for _, name := range imports {
		importPath := filepath.Join(filepath.Dir(abs), filepath.FromSlash(name)+text.EXTENSION)
		u, err := r.resolve(importPath, name)
		if err != nil {
			return unit{}, err
		}
		imported = append(imported, u.table...)
	}
	own, err := r.parseOrLoad(path, normalized)
	if err != nil {
		return unit{}, err
	}
	u := unit{own: own, table: append(slices.Clone(own), imported...)}
	r.resolved[abs] = u
	return u, nil
}

func (r *Resolver) parseOrLoad(path, normalized string) (values.FunctionTable, error) {
	key := Key(normalized)
	table, hit, err := r.Cache.Load(key)
	if err != nil {
		return nil, err
	}
	if hit {
		r.Logger.Debug("cache hit", "file", path, "key", key[:12], "functions", len(table))
		return table, nil
	}
	start := time.Now()
	table, err = parser.ParseFunctionsFrom(path, normalized)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("cache miss", "file", path, "key", key[:12], "functions", len(table), "parse", time.Since(start))
	if err := r.Cache.Store(key, table); err != nil {
		return nil, err
	}
	return table, nil
}
