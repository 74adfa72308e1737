package report_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/token"
)

func TestRender(t *testing.T) {
	color.NoColor = true
	tok := &token.Token{Type: token.INT, Literal: "0", Line: 2, ChStart: 5, Source: "x.compute"}
	e := report.CreateErr("eval/div/zero", tok)
	e.AddToTrace("half")
	e.AddToTrace("main")
	var out bytes.Buffer
	report.Render(&out, e)
	got := out.String()
	lines := strings.Split(got, "\n")
	require.Equal(t, "--------------", lines[0])
	require.Equal(t, "COMPUTE ERROR:", lines[1])
	require.Equal(t, " division by zero at line 2:5 of 'x.compute'", lines[2])
	require.Equal(t, " in half <- main", lines[3])
	require.Equal(t, "POSSIBLE SOLUTION:", lines[4])
	require.Contains(t, got, "non-zero")
	require.True(t, strings.HasSuffix(got, "--------------\n"))
}

func TestWrapErr(t *testing.T) {
	e := report.WrapErr("cache/clear", nil, fs.ErrPermission, ".compute")
	require.ErrorIs(t, e, fs.ErrPermission)
	require.Equal(t, []any{".compute", fs.ErrPermission}, e.Args)
	require.Contains(t, e.Error(), "'.compute'")

	wrapped := fmt.Errorf("while clearing: %w", e)
	require.Same(t, e, report.AsError(wrapped))
}

func TestAsErrorForeign(t *testing.T) {
	e := report.AsError(errors.New("something odd"))
	require.Equal(t, "internal", e.ErrorId)
	require.Contains(t, e.Message, "something odd")
}

func TestUnknownId(t *testing.T) {
	require.Panics(t, func() { report.CreateErr("no/such/error", nil) })
}
