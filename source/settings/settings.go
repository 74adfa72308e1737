// The settings controlling a run of compute: where the function cache lives, which function
// execution starts at, how deep the interpreter may recurse, and how it logs. They come from
// the defaults below, overlaid in order by an optional YAML file, by COMPUTE_* environment
// variables, and finally by the command line.

package settings

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/tim-hardcastle/compute/source/report"
)

const (
	FILE       = "compute.yaml"
	ENV_PREFIX = "COMPUTE_"

	// These do what it sounds like. For debugging the interpreter rather than compute code.
	SHOW_LEXER  = false
	SHOW_PARSER = false
	SHOW_PREP   = false
)

type Settings struct {
	CacheDir   string `yaml:"cache_dir"`
	Entry      string `yaml:"entry"`
	MaxStackMB int    `yaml:"max_stack_mb"`
	MaxDepth   int    `yaml:"max_depth"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	NoColor    bool   `yaml:"no_color"`
}

// A call to a user function costs a few kilobytes of Go stack, so the default stack leaves a
// wide margin over the default depth.
func Default() Settings {
	return Settings{
		CacheDir:   ".compute",
		Entry:      "main",
		MaxStackMB: 256,
		MaxDepth:   10000,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// Load builds the settings from the defaults, the file at path (which may be absent) and
// the environment as given by getenv.
func Load(path string, getenv func(string) string) (Settings, error) {
	s := Default()
	if err := s.loadFile(path); err != nil {
		return s, err
	}
	if err := s.loadEnv(getenv); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return report.WrapErr("settings/file", nil, err, path)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return report.WrapErr("settings/file", nil, err, path)
	}
	return nil
}

func (s *Settings) loadEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	for _, key := range []string{"CACHE_DIR", "ENTRY", "LOG_LEVEL", "LOG_FORMAT"} {
		if v := getenv(ENV_PREFIX + key); v != "" {
			switch key {
			case "CACHE_DIR":
				s.CacheDir = v
			case "ENTRY":
				s.Entry = v
			case "LOG_LEVEL":
				s.LogLevel = v
			case "LOG_FORMAT":
				s.LogFormat = v
			}
		}
	}
	for key, dest := range map[string]*int{"MAX_STACK_MB": &s.MaxStackMB, "MAX_DEPTH": &s.MaxDepth} {
		if v := getenv(ENV_PREFIX + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return report.WrapErr("settings/env", nil, err, ENV_PREFIX+key, v)
			}
			*dest = n
		}
	}
	if v := getenv(ENV_PREFIX + "NO_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return report.WrapErr("settings/env", nil, err, ENV_PREFIX+"NO_COLOR", v)
		}
		s.NoColor = b
	}
	return nil
}

func (s Settings) Validate() error {
	switch {
	case s.CacheDir == "":
		return report.CreateErr("settings/value", nil, "cache_dir", s.CacheDir, "a directory name")
	case s.Entry == "":
		return report.CreateErr("settings/value", nil, "entry", s.Entry, "the name of a function")
	case s.MaxStackMB <= 0:
		return report.CreateErr("settings/value", nil, "max_stack_mb", s.MaxStackMB, "a positive number of megabytes")
	case s.MaxDepth <= 0:
		return report.CreateErr("settings/value", nil, "max_depth", s.MaxDepth, "a positive integer")
	}
	if _, ok := levels[strings.ToLower(s.LogLevel)]; !ok {
		return report.CreateErr("settings/value", nil, "log_level", s.LogLevel, "one of debug, info, warn or error")
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return report.CreateErr("settings/value", nil, "log_format", s.LogFormat, "either text or json")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger returns a logger writing to w, colorized if w is a terminal and color hasn't been
// turned off, or in JSON if that's the format asked for. It also sets whether the error
// renderer uses color.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	level := levels[strings.ToLower(s.LogLevel)]
	noColor := s.NoColor || !isTerminal(w)
	color.NoColor = noColor
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
