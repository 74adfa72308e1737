package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/text"
)

func TestSplitArgs(t *testing.T) {
	flags, positional := splitArgs([]string{"prog.compute", "-c", "--entry", "start", "x", "--", "-y"})
	require.Equal(t, []string{"-c", "--entry", "start"}, flags)
	require.Equal(t, []string{"prog.compute", "x", "-y"}, positional)
}

func TestVersionAndHelp(t *testing.T) {
	var out, errs bytes.Buffer
	require.Equal(t, 0, run([]string{"-v"}, &out, &errs, noEnv))
	require.Equal(t, "compute version "+text.VERSION+"\n", out.String())
	out.Reset()
	require.Equal(t, 0, run([]string{"--help"}, &out, &errs, noEnv))
	require.Equal(t, text.HELP, out.String())
	require.Equal(t, 2, run([]string{"--nonesuch"}, &out, &errs, noEnv))
}

func TestRunAndClearCache(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "prog.compute")
	require.NoError(t, os.WriteFile(prog, []byte("func start() {\n    print(\"started\");\n}\n"), 0644))
	cacheDir := filepath.Join(dir, "cache")
	var out, errs bytes.Buffer

	require.Equal(t, 0, run([]string{prog, "--entry", "start", "--cache-dir", cacheDir}, &out, &errs, noEnv), errs.String())
	require.Equal(t, "started\n", out.String())
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	out.Reset()
	require.Equal(t, 0, run([]string{"-c", "--cache-dir", cacheDir}, &out, &errs, noEnv))
	_, err = os.Stat(cacheDir)
	require.True(t, os.IsNotExist(err))

	require.Equal(t, 1, run([]string{prog, "--cache-dir", cacheDir}, &out, &errs, noEnv))
	require.Contains(t, errs.String(), "no 'main' function found")
}

func TestEnvironmentSettings(t *testing.T) {
	var out, errs bytes.Buffer
	env := func(key string) string {
		if key == "COMPUTE_MAX_DEPTH" {
			return "lots"
		}
		return ""
	}
	require.Equal(t, 1, run([]string{"x.compute"}, &out, &errs, env))
	require.Contains(t, errs.String(), "COMPUTE_MAX_DEPTH")
}

func noEnv(string) string { return "" }
