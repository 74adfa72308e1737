package test_helper

import (
	"testing"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/text"
)

// Auxiliary types and functions for testing the parser and evaluator.

type TestItem struct {
	Input string
	Want  string
}

// Says whether the tests should say what is being tested, useful if one of them crashes and
// we don't know which.
var SHOW_TESTS = false

// RunTest applies F to the input of each test and compares the result with what is wanted.
// If F returns an error, the result is "error " followed by the error's id, so tables can
// check for failures as well as for values.
func RunTest(t *testing.T, tests []TestItem, F func(s string) (string, error)) {
	t.Helper()
	for _, test := range tests {
		if SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.Input))
		}
		got, e := F(test.Input)
		if e != nil {
			got = "error " + report.AsError(e).ErrorId
		}
		if !(test.Want == got) {
			if e != nil {
				t.Logf("%s", e.Error())
			}
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.Input, test.Want, got)
		}
	}
}
