package compute_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/compute"
	"github.com/tim-hardcastle/compute/source/evaluator"
	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
)

func options(out, errs *bytes.Buffer, lines ...string) compute.Options {
	handler := evaluator.MakeTestIoHandler(out, lines...)
	return compute.Options{Settings: settings.Default(), IO: &handler, Stdout: out, Stderr: errs}
}

func TestRun(t *testing.T) {
	table, err := parser.ParseFunctions(`func main() { for i in range(3) { print(i * i); } }`)
	require.NoError(t, err)
	var out, errs bytes.Buffer
	require.Equal(t, 0, compute.Run(table, "main", options(&out, &errs)))
	require.Equal(t, "0\n1\n4\n", out.String())
	require.Empty(t, errs.String())
}

func TestRunFailure(t *testing.T) {
	table, err := parser.ParseFunctions(`func main() { print("before"); return half(1); } func half(n) { return n / 0; }`)
	require.NoError(t, err)
	var out, errs bytes.Buffer
	require.Equal(t, 1, compute.Run(table, "main", options(&out, &errs)))
	require.Equal(t, "before\n", out.String())
	require.Contains(t, errs.String(), "COMPUTE ERROR")
	require.Contains(t, errs.String(), "division by zero")
	require.Contains(t, errs.String(), "in half <- main")
}

func TestEntry(t *testing.T) {
	table, err := parser.ParseFunctions(`func start() { } func main(x) { }`)
	require.NoError(t, err)
	var out, errs bytes.Buffer
	err = compute.Execute(table, "main", options(&out, &errs))
	require.Equal(t, "run/entry", report.AsError(err).ErrorId)
	err = compute.Execute(table, "nosuch", options(&out, &errs))
	require.Equal(t, "run/entry", report.AsError(err).ErrorId)
	require.NoError(t, compute.Execute(table, "start", options(&out, &errs)))
}

func TestDepthLimit(t *testing.T) {
	table, err := parser.ParseFunctions(`func main() { return down(0); } func down(n) { return down(n + 1); }`)
	require.NoError(t, err)
	var out, errs bytes.Buffer
	opts := options(&out, &errs)
	opts.Settings.MaxDepth = 200
	err = compute.Execute(table, "main", opts)
	require.Equal(t, "eval/depth", report.AsError(err).ErrorId)
}

func TestDeepRecursion(t *testing.T) {
	table, err := parser.ParseFunctions(`func main() { return count(5000); } func count(n) { if n == 0 { return 0; } return 1 + count(n - 1); }`)
	require.NoError(t, err)
	var out, errs bytes.Buffer
	opts := options(&out, &errs)
	require.NoError(t, compute.Execute(table, "main", opts))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.compute"), []byte(
		"import greet\n\nfunc main() {\n    greet(input(\"name? \"));\n    print(os.args());\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.compute"), []byte(
		"// Greets people.\nfunc greet(name) {\n    print(\"Hello, \" + name + \"!\");\n}\n"), 0644))
	var out, errs bytes.Buffer
	opts := options(&out, &errs, "World")
	opts.Settings.CacheDir = filepath.Join(dir, ".compute")
	opts.Args = []string{"a", "b"}
	require.Equal(t, 0, compute.RunFile(filepath.Join(dir, "main.compute"), opts), errs.String())
	require.Equal(t, "Hello, World!\n[\"a\", \"b\"]\n", out.String())

	entries, err := os.ReadDir(opts.Settings.CacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRunFileMissing(t *testing.T) {
	var out, errs bytes.Buffer
	opts := options(&out, &errs)
	opts.Settings.CacheDir = filepath.Join(t.TempDir(), ".compute")
	require.Equal(t, 1, compute.RunFile(filepath.Join(t.TempDir(), "nowhere.compute"), opts))
	require.Contains(t, errs.String(), "couldn't read the source file")
}
