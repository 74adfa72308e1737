//
// compute version 0.3.0
//
// A small scripting language: a program is a set of functions, the 'main' one of which is
// run. Parsed functions are cached by the hash of their source, so that an unchanged file is
// never parsed twice.
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tim-hardcastle/compute/source/cache"
	"github.com/tim-hardcastle/compute/source/compute"
	"github.com/tim-hardcastle/compute/source/evaluator"
	"github.com/tim-hardcastle/compute/source/repl"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
	"github.com/tim-hardcastle/compute/source/text"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// Flags which take a value, so that the value isn't mistaken for the name of a file.
var valueFlags = map[string]bool{"entry": true, "cache-dir": true, "log-level": true}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, text.HELP) }
	var clearCache, version, help, noColor bool
	fs.BoolVar(&clearCache, "c", false, "clear the function cache before running")
	fs.BoolVar(&clearCache, "clear-cache", false, "clear the function cache before running")
	fs.BoolVar(&version, "v", false, "show the version")
	fs.BoolVar(&version, "version", false, "show the version")
	fs.BoolVar(&help, "h", false, "show help")
	fs.BoolVar(&help, "help", false, "show help")
	fs.BoolVar(&noColor, "no-color", false, "don't use color")
	entry := fs.String("entry", "", "the function to start at")
	cacheDir := fs.String("cache-dir", "", "where to keep the function cache")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")

	flags, positional := splitArgs(args)
	if err := fs.Parse(flags); err != nil {
		return 2
	}
	switch {
	case version:
		fmt.Fprintln(stdout, "compute version "+text.VERSION)
		return 0
	case help:
		fmt.Fprint(stdout, text.HELP)
		return 0
	}

	s, err := settings.Load(settings.FILE, getenv)
	if err != nil {
		report.Render(stderr, err)
		return 1
	}
	if *entry != "" {
		s.Entry = *entry
	}
	if *cacheDir != "" {
		s.CacheDir = *cacheDir
	}
	if *logLevel != "" {
		s.LogLevel = *logLevel
	}
	s.NoColor = s.NoColor || noColor
	if err := s.Validate(); err != nil {
		report.Render(stderr, err)
		return 1
	}
	logger := s.NewLogger(stderr)

	if clearCache {
		c, err := cache.Open(s.CacheDir)
		if err == nil {
			err = c.Clear()
		}
		if err != nil {
			report.Render(stderr, err)
			return 1
		}
		logger.Debug("cleared cache", "dir", s.CacheDir)
	}
	switch {
	case len(positional) == 0:
		if !clearCache {
			fmt.Fprint(stdout, text.Logo())
			fmt.Fprint(stdout, text.HELP)
		}
		return 0
	case positional[0] == "repl":
		fmt.Fprint(stdout, text.Logo())
		repl.Start(repl.New(nil, evaluator.MakeStandardIoHandler(stdout), stdout, logger))
		return 0
	}
	return compute.RunFile(positional[0], compute.Options{
		Settings: s,
		Args:     positional[1:],
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
	})
}

// splitArgs separates the flags from the other arguments, so that flags may come after the
// name of the file. Everything after "--" is passed to the program.
func splitArgs(args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return flags, append(positional, args[i+1:]...)
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			flags = append(flags, arg)
			name := strings.TrimLeft(arg, "-")
			if valueFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}
	return flags, positional
}
