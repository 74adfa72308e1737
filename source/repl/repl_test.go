package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/evaluator"
	"github.com/tim-hardcastle/compute/source/repl"
)

func session(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	r := repl.New(nil, evaluator.MakeTestIoHandler(&out), &out, nil)
	for _, line := range lines {
		require.False(t, r.Do(line), line)
	}
	return out.String()
}

func TestSessionKeepsBindings(t *testing.T) {
	got := session(t, "let x = 2", "x = x * 10;", "x + 1", `"a" + "b"`, "print(x)")
	require.Equal(t, "21\n\"ab\"\n20\n", got)
}

func TestDefineFunctions(t *testing.T) {
	got := session(t, "func sq(n) { return n * n; }", "sq(7)", "func sq(n) { return 0; }", "sq(7)")
	require.Equal(t, "  ▪ defined 'sq'\n49\n  ▪ defined 'sq'\n0\n", got)
}

func TestErrorsDontEndTheSession(t *testing.T) {
	got := session(t, "let x = 1", "y", "1 / 0", "x")
	require.Contains(t, got, "unknown variable 'y'")
	require.Contains(t, got, "division by zero")
	require.True(t, strings.HasSuffix(got, "1\n"))
}

func TestVarsAndQuit(t *testing.T) {
	var out bytes.Buffer
	r := repl.New(nil, evaluator.MakeTestIoHandler(&out), &out, nil)
	require.False(t, r.Do("let a = [1]"))
	require.False(t, r.Do("let b = \"s\""))
	require.False(t, r.Do("vars"))
	require.Equal(t, "  ▪ a = [1]\n  ▪ b = \"s\"\n", out.String())
	require.True(t, r.Do("quit"))
}
