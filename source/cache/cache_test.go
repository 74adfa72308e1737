package cache_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/cache"
	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/report"
)

func TestKey(t *testing.T) {
	k := cache.Key("func main() { }")
	require.Len(t, k, 64)
	require.Equal(t, k, cache.Key("func main() { }"))
	require.NotEqual(t, k, cache.Key("func main() {  }"))
}

func TestStoreAndLoad(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	src := "func main() {\nlet x = [1, \"a\"][0];\nif x > 0 { return x; } else { return -x; }\n}\nfunc f(a, b) {\nfor c in a { print(c.uppercase()); }\n}"
	table, err := parser.ParseFunctions(src)
	require.NoError(t, err)
	key := cache.Key(src)

	_, hit, err := c.Load(key)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Store(key, table))
	loaded, hit, err := c.Load(key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, table, loaded)
}

func TestCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(dir)
	require.NoError(t, err)
	key := cache.Key("anything")
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+cache.SUFFIX), []byte("not zstd"), 0644))
	_, _, err = c.Load(key)
	require.Error(t, err)
	require.Equal(t, "cache/decode", report.AsError(err).ErrorId)
}

func TestClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := cache.Open(dir)
	require.NoError(t, err)
	table, err := parser.ParseFunctions("func main() { }")
	require.NoError(t, err)
	require.NoError(t, c.Store(cache.Key("x"), table))
	require.NoError(t, c.Clear())
	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))
	// The cache can still be written to afterwards.
	require.NoError(t, c.Store(cache.Key("x"), table))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestResolveImports(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.compute": "import helpers\nimport lib/maths\n\nfunc main() {\n    return add(1, double(2));\n}\n",
		"helpers.compute": "import lib/maths\n\nfunc add(a, b) {\n    return a + b;\n}\n",
		"lib/maths.compute": "replace TWO -> 2\n\nfunc double(x) {\n    return x * TWO;\n}\n",
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := cache.Open(filepath.Join(dir, ".compute"))
	require.NoError(t, err)

	table, err := cache.NewResolver(c, "main", logger).Resolve(filepath.Join(dir, "main.compute"))
	require.NoError(t, err)
	require.Equal(t, []string{"main", "add", "double", "double"}, table.Names())
	require.Contains(t, logs.String(), "cache miss")
	require.NotContains(t, logs.String(), "cache hit")

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	logs.Reset()
	again, err := cache.NewResolver(c, "main", logger).Resolve(filepath.Join(dir, "main.compute"))
	require.NoError(t, err)
	require.Equal(t, table, again)
	require.Contains(t, logs.String(), "cache hit")
	require.NotContains(t, logs.String(), "cache miss")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		files map[string]string
		want  string
	}{
		{map[string]string{"main.compute": "import a\nfunc main() { }\n", "a.compute": "import b\n", "b.compute": "import a\n"}, "cache/import/cycle"},
		{map[string]string{"main.compute": "import main\nfunc main() { }\n"}, "cache/import/cycle"},
		{map[string]string{"main.compute": "import nowhere\nfunc main() { }\n"}, "cache/import/missing"},
		{map[string]string{"main.compute": "func notmain() { }\n"}, "cache/main"},
		{map[string]string{"main.compute": "import a\nfunc notmain() { }\n", "a.compute": "func main() { }\n"}, "cache/main"},
		{map[string]string{"main.compute": "func main() {\nlet x = ;\n}\n"}, "parse/expected"},
		{map[string]string{"main.compute": "func main() {\nlet x = 1\n}\n"}, "prep/semicolon"},
	}
	for _, test := range tests {
		dir := writeFiles(t, test.files)
		c, err := cache.Open(filepath.Join(dir, ".compute"))
		require.NoError(t, err)
		_, err = cache.NewResolver(c, "main", nil).Resolve(filepath.Join(dir, "main.compute"))
		require.Error(t, err)
		require.Equal(t, test.want, report.AsError(err).ErrorId, err.Error())
	}
}

func TestEntryComesFromTopFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"top.compute": "import lib\nfunc helper() { }\n",
		"lib.compute": "func main() { }\n",
	})
	c, err := cache.Open(filepath.Join(dir, ".compute"))
	require.NoError(t, err)
	_, err = cache.NewResolver(c, "main", nil).Resolve(filepath.Join(dir, "top.compute"))
	require.Equal(t, "cache/main", report.AsError(err).ErrorId)

	dir = writeFiles(t, map[string]string{
		"top.compute": "import lib\nfunc main() { }\n",
		"lib.compute": "func main() { }\nfunc helper() { }\n",
	})
	table, err := cache.NewResolver(c, "main", nil).Resolve(filepath.Join(dir, "top.compute"))
	require.NoError(t, err)
	require.Len(t, table, 3)
}

func TestCycleMessage(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.compute": "import a\nfunc main() { }\n",
		"a.compute":    "import b\n",
		"b.compute":    "import a\n",
	})
	c, err := cache.Open(filepath.Join(dir, ".compute"))
	require.NoError(t, err)
	_, err = cache.NewResolver(c, "main", nil).Resolve(filepath.Join(dir, "main.compute"))
	require.Contains(t, err.Error(), "a -> b -> a")
}

func TestMissingSource(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), ".compute"))
	require.NoError(t, err)
	_, err = cache.NewResolver(c, "main", nil).Resolve("no/such/file.compute")
	require.Equal(t, "cache/source", report.AsError(err).ErrorId)
}
