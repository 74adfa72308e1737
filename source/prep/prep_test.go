package prep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/report"
)

func TestProcess(t *testing.T) {
	input := `import helpers
import lib/maths
replace LIMIT -> 10

// A comment on its own line.
func main() { // and one after code
    let s = "LIMIT // not a comment";
    return LIMIT + LIMITED;
}`
	got, imports, err := Process("test.compute", input)
	require.NoError(t, err)
	require.Equal(t, []string{"helpers", "lib/maths"}, imports)
	want := "\n\n\n\n\nfunc main() {\n" +
		"let s = \"LIMIT // not a comment\";\n" +
		"return 10 + LIMITED;\n" +
		"}"
	require.Equal(t, want, got)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
		line    int
	}{
		{"func main() {\n    let x = 1\n}", "prep/semicolon", 2},
		{"func main() {\n    if x > 1\n    {}\n}", "prep/brace", 2},
		{"import \"helpers\"", "prep/import", 1},
		{"replace X", "prep/replace", 1},
		{"func main() {\n    let x = (1;\n}", "prep/bracket", 2},
		{"func main() {\n    let x = 1;\n", "prep/bracket", 1},
	}
	for _, tt := range tests {
		_, _, err := Process("test.compute", tt.input)
		require.Error(t, err, tt.input)
		e := err.(*report.Error)
		require.Equal(t, tt.errorId, e.ErrorId, tt.input)
		require.Equal(t, tt.line, e.Token.Line, tt.input)
	}
}

func TestSemicolonMessage(t *testing.T) {
	_, _, err := Process("test.compute", "func main() {\n\n    print(1)\n}")
	require.EqualError(t, err, "Missing semicolon at line 3")
}

func TestStripComment(t *testing.T) {
	require.Equal(t, "x = 1; ", StripComment("x = 1; // set x"))
	require.Equal(t, `print("a//b");`, StripComment(`print("a//b");`))
	require.Equal(t, `print("a\"//b"); `, StripComment(`print("a\"//b"); // c`))
}
