// Package compute runs a compute program: it finds the program's functions, through the
// cache, and calls the entry function. It is where every fatal error ends up and is shown to
// the user.
package compute

import (
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tim-hardcastle/compute/source/cache"
	"github.com/tim-hardcastle/compute/source/evaluator"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
	"github.com/tim-hardcastle/compute/source/values"
)

type Options struct {
	Settings settings.Settings
	Args     []string // Passed on to the program as 'os.args'.
	IO       *evaluator.IoHandler
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

func (opts *Options) fillDefaults() {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.IO == nil {
		standard := evaluator.MakeStandardIoHandler(opts.Stdout)
		opts.IO = &standard
	}
	if opts.Logger == nil {
		opts.Logger = opts.Settings.NewLogger(opts.Stderr)
	}
	if opts.Settings.MaxDepth == 0 {
		defaults := settings.Default()
		opts.Settings.MaxDepth = defaults.MaxDepth
		opts.Settings.MaxStackMB = defaults.MaxStackMB
	}
}

// RunFile runs the program whose top-level file is at path and returns the exit code.
func RunFile(path string, opts Options) int {
	opts.fillDefaults()
	table, err := Load(path, opts.Settings, opts.Logger)
	if err != nil {
		report.Render(opts.Stderr, err)
		return 1
	}
	return Run(table, opts.Settings.Entry, opts)
}

// Load resolves the program at path, parsing only what isn't in the cache.
func Load(path string, s settings.Settings, logger *slog.Logger) (values.FunctionTable, error) {
	c, err := cache.Open(s.CacheDir)
	if err != nil {
		return nil, err
	}
	return cache.NewResolver(c, s.Entry, logger).Resolve(path)
}

// Run calls the entry function of the table and returns the exit code: 0 if the program
// finished, 1 if it failed, in which case the error has been written to stderr.
func Run(table values.FunctionTable, entry string, opts Options) int {
	opts.fillDefaults()
	if err := Execute(table, entry, opts); err != nil {
		report.Render(opts.Stderr, err)
		return 1
	}
	return 0
}

// Execute runs the program on a goroutine of its own, whose stack may grow as large as the
// settings allow, so that deep recursion in a program hits the depth limit first.
func Execute(table values.FunctionTable, entry string, opts Options) error {
	opts.fillDefaults()
	fn, ok := table.Lookup(entry)
	if !ok || len(fn.Params) > 0 {
		return report.CreateErr("run/entry", nil, entry)
	}
	ctx := evaluator.NewContext(table, *opts.IO, opts.Logger)
	ctx.MaxDepth = opts.Settings.MaxDepth
	ctx.Args = opts.Args
	defer ctx.Databases.CloseAll()

	previous := debug.SetMaxStack(opts.Settings.MaxStackMB << 20)
	defer debug.SetMaxStack(previous)

	var g errgroup.Group
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				opts.Logger.Error("panic", "value", r, "stack", string(debug.Stack()))
				err = report.CreateErr("run/panic", nil, r)
			}
		}()
		start := time.Now()
		_, err = ctx.CallFunction(fn, nil)
		opts.Logger.Debug("run finished", "entry", entry, "elapsed", time.Since(start), "ok", err == nil)
		return err
	})
	return g.Wait()
}
