package settings_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDefaults(t *testing.T) {
	s, err := settings.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	require.Equal(t, settings.Default(), s)
}

func TestFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compute.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: start\nmax_depth: 500\nlog_level: debug\n"), 0644))
	s, err := settings.Load(path, env(map[string]string{
		"COMPUTE_MAX_DEPTH": "700",
		"COMPUTE_CACHE_DIR": "/tmp/compute-cache",
		"COMPUTE_NO_COLOR":  "true",
	}))
	require.NoError(t, err)
	require.Equal(t, "start", s.Entry)
	require.Equal(t, 700, s.MaxDepth)
	require.Equal(t, "/tmp/compute-cache", s.CacheDir)
	require.Equal(t, "debug", s.LogLevel)
	require.True(t, s.NoColor)
	require.Equal(t, 256, s.MaxStackMB)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("max_depth: [1, 2\n"), 0644))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("log_format: xml\n"), 0644))
	absent := filepath.Join(dir, "absent.yaml")

	tests := []struct {
		path string
		vars map[string]string
		want string
	}{
		{bad, nil, "settings/file"},
		{invalid, nil, "settings/value"},
		{absent, map[string]string{"COMPUTE_MAX_STACK_MB": "big"}, "settings/env"},
		{absent, map[string]string{"COMPUTE_NO_COLOR": "perhaps"}, "settings/env"},
		{absent, map[string]string{"COMPUTE_MAX_DEPTH": "-1"}, "settings/value"},
		{absent, map[string]string{"COMPUTE_LOG_LEVEL": "loud"}, "settings/value"},
	}
	for _, test := range tests {
		_, err := settings.Load(test.path, env(test.vars))
		require.Error(t, err, test.path)
		require.Equal(t, test.want, report.AsError(err).ErrorId, test.path)
	}
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	s := settings.Default()
	s.LogLevel = "info"
	logger := s.NewLogger(&out)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
	require.Contains(t, out.String(), "key=value")

	out.Reset()
	s.LogFormat = "json"
	s.NewLogger(&out).Warn("careful")
	require.True(t, strings.HasPrefix(out.String(), "{"))
	require.Contains(t, out.String(), `"msg":"careful"`)
}
