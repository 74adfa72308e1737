package report

import (
	"fmt"
	"strings"

	"github.com/tim-hardcastle/compute/source/token"
)

// A map from error identifiers to functions that supply the corresponding error messages and
// possible solutions.
//
// Errors in the map are in alphabetical order of their identifers.
//
// Major categories are cache, eval, lex, parse, prep, run and settings.
//
// Two otherwise identical errors thrown in different places in the Go code must be assigned
// different identifiers, if only by suffixing /a, /b, etc to the identifier.

type ErrorCreator struct {
	Message  func(tok *token.Token, args ...any) string
	Solution func(tok *token.Token, args ...any) string
}

var ErrorCreatorMap = map[string]ErrorCreator{

	// TEMPLATE
	"": {
		Message: func(tok *token.Token, args ...any) string {
			return ""
		},
		Solution: func(tok *token.Token, args ...any) string {
			return ""
		},
	},

	"cache/clear": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't clear the cache directory " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the permissions on the directory, or delete it by hand."
		},
	},

	"cache/decode": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't deserialize the cache entry " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The cache entry is corrupt. Run again with the -c flag to clear the cache."
		},
	},

	"cache/encode": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't serialize the function table: " + goErr(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This is a bug in compute rather than in your code."
		},
	},

	"cache/import/cycle": {
		Message: func(tok *token.Token, args ...any) string {
			return "import cycle: " + args[0].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "A file can't import itself, directly or through other files. Move the " +
				"functions they share into a file that neither of them imports."
		},
	},

	"cache/import/missing": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't import " + emph(args[0]) + " from " + emph(args[1]) + ": " + goErr(args[2])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "An import names a file in the same directory as the file importing it, " +
				"without its '.compute' extension. Check the name is spelled correctly."
		},
	},

	"cache/main": {
		Message: func(tok *token.Token, args ...any) string {
			return "no " + emph(args[0]) + " function found in " + emph(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("Execution starts at the function %v, so the file you run must define it, e.g. 'func %v() { ... }'.",
				emph(args[0]), args[0])
		},
	},

	"cache/read": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't read the cache entry " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the permissions on the cache directory, or run again with the -c flag."
		},
	},

	"cache/source": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't read the source file " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check that the file exists and that you have permission to read it."
		},
	},

	"cache/write": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't write the cache entry " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the permissions on the cache directory, or point 'cache_dir' somewhere writable."
		},
	},

	"eval/break": {
		Message: func(tok *token.Token, args ...any) string {
			return "'break' outside of a loop"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "'break' can only be used in the body of a 'while' or 'for' loop."
		},
	},

	"eval/builtin/arity": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("the built-in function %v takes %v, but was given %v", emph(args[0]), args[1], plural(args[2].(int), "argument"))
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Call " + emph(args[0]) + " with the right number of arguments."
		},
	},

	"eval/builtin/type": {
		Message: func(tok *token.Token, args ...any) string {
			return "the built-in function " + emph(args[0]) + " can't be applied to " + args[1].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The built-in function " + emph(args[0]) + " expects " + args[2].(string) + "."
		},
	},

	"eval/convert": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't convert " + args[1].(string) + " to type " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "A string can only be converted to a number if it is the text of one, e.g. \"42\" or \"4.2\"."
		},
	},

	"eval/depth": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("function calls nested more than %v deep", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This is usually a recursive function with no base case. If the recursion is " +
				"intended, raise 'max_depth' (and if need be 'max_stack_mb') in the settings."
		},
	},

	"eval/div/zero": {
		Message: func(tok *token.Token, args ...any) string {
			return "division by zero"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check that the divisor is non-zero before dividing."
		},
	},

	"eval/empty": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected an expression, found nothing"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Something is missing: a value is needed where there is an empty expression."
		},
	},

	"eval/file": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't " + args[0].(string) + " file " + emph(args[1]) + ": " + goErr(args[2])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check that the path is right and that you have the necessary permissions."
		},
	},

	"eval/func/arity": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("function %v takes %v, but was given %v", emph(args[0]), plural(args[1].(int), "argument"), args[2])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Call " + emph(args[0]) + " with exactly as many arguments as it has parameters."
		},
	},

	"eval/func/unknown": {
		Message: func(tok *token.Token, args ...any) string {
			return "unknown function " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the spelling, and if the function is defined in another file, that the file is imported."
		},
	},

	"eval/guard": {
		Message: func(tok *token.Token, args ...any) string {
			return "the condition of " + emph(args[0]) + " evaluated to " + args[1].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "A condition must be a boolean, e.g. 'x > 0' rather than 'x'."
		},
	},

	"eval/hash": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't hash the value: " + goErr(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This is a bug in compute rather than in your code."
		},
	},

	"eval/index/count": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("an index must be a single value, but %v were given", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Index one dimension at a time, e.g. 'a[1][2]' rather than 'a[1, 2]'."
		},
	},

	"eval/index/range": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("index %v is out of range for a value of length %v", args[0], args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Indices start at 0 and must be less than the length of what is being indexed."
		},
	},

	"eval/index/target": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't index " + args[0].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Only arrays and strings can be indexed."
		},
	},

	"eval/index/type": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't use " + args[0].(string) + " as an index"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "An index must be an integer; use 'int' to convert a float or a string."
		},
	},

	"eval/input": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't read input: " + goErr(args[0])
		},
	},

	"eval/iterate": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't iterate over " + args[0].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "A 'for' loop can range over an array or a string; use 'range' to loop over numbers."
		},
	},

	"eval/logic/type": {
		Message: func(tok *token.Token, args ...any) string {
			return "the operator " + emph(args[0]) + " can't be applied to " + args[1].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Both sides of " + emph(args[0]) + " must be booleans."
		},
	},

	"eval/member/arg": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("the member %v of type %v can't take %v as an argument", emph(args[0]), emph(args[1]), args[2])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The member " + emph(args[0]) + " expects " + args[3].(string) + "."
		},
	},

	"eval/member/arity": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("the member %v of type %v takes %v, but was given %v", emph(args[0]), emph(args[1]), plural(args[2].(int), "argument"), args[3])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Call " + emph(args[0]) + " with the right number of arguments."
		},
	},

	"eval/member/empty": {
		Message: func(tok *token.Token, args ...any) string {
			return "the member " + emph(args[0]) + " can't be applied to an empty array"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the array has elements, e.g. with 'len', before calling " + emph(args[0]) + "."
		},
	},

	"eval/member/unknown": {
		Message: func(tok *token.Token, args ...any) string {
			return "type " + emph(args[1]) + " has no member " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the spelling of the member, and that the value is of the type you expect."
		},
	},

	"eval/mod/zero": {
		Message: func(tok *token.Token, args ...any) string {
			return "modulo by zero"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check that the right-hand side of '%' is non-zero."
		},
	},

	"eval/namespace/unknown": {
		Message: func(tok *token.Token, args ...any) string {
			return "namespace " + emph(args[0]) + " has no function " + emph(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the spelling of the function and of the namespace."
		},
	},

	"eval/operator/dangling": {
		Message: func(tok *token.Token, args ...any) string {
			return "the operator " + emph(args[0]) + " has nothing to apply to"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "An operator must come between two values."
		},
	},

	"eval/operator/missing": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected an operator before " + args[0].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Two values can't follow one another without an operator between them. Perhaps you missed out a '+' or a ','?"
		},
	},

	"eval/pow/negative": {
		Message: func(tok *token.Token, args ...any) string {
			return "an integer can't be raised to a negative power"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Convert the base to a float first, e.g. 'float(x) ^ -1.0'."
		},
	},

	"eval/range/step": {
		Message: func(tok *token.Token, args ...any) string {
			return "the step of 'range' can't be zero"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Use a positive step to count up or a negative one to count down."
		},
	},

	"eval/sql/arg": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't pass " + args[0].(string) + " as a query parameter"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Query parameters can be integers, floats, strings, booleans or Null."
		},
	},

	"eval/sql/driver": {
		Message: func(tok *token.Token, args ...any) string {
			return "unknown database driver " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The supported drivers are " + args[1].(string) + "."
		},
	},

	"eval/sql/exec": {
		Message: func(tok *token.Token, args ...any) string {
			return "database error: " + goErr(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the text of the query and the arguments passed to it."
		},
	},

	"eval/sql/handle": {
		Message: func(tok *token.Token, args ...any) string {
			return "no open database with handle " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Use the handle returned by 'sql.open', and don't use it after 'sql.close'."
		},
	},

	"eval/sql/open": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't open database with driver " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the connection string and that the database is reachable."
		},
	},

	"eval/statement": {
		Message: func(tok *token.Token, args ...any) string {
			return "found the statement " + emph(args[0]) + " where a value was expected"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Statements such as 'let', 'if' and 'while' can't be used as part of an expression."
		},
	},

	"eval/time/sleep": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("can't sleep for %v milliseconds", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The argument of 'time.sleep' must be a non-negative integer."
		},
	},

	"eval/type/op": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("the operator %v can't be applied to types %v and %v", emph(args[0]), emph(args[1]), emph(args[2]))
		},
		Solution: func(tok *token.Token, args ...any) string {
			if args[1] != args[2] {
				return "There are no implicit conversions: use 'int', 'float' or 'str' to make the types of the operands agree."
			}
			return "The operator " + emph(args[0]) + " isn't defined for type " + emph(args[1]) + "."
		},
	},

	"eval/var/undeclared": {
		Message: func(tok *token.Token, args ...any) string {
			return "assignment to undeclared variable " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Declare the variable first with 'let " + fmt.Sprint(args[0]) + " = ...;'."
		},
	},

	"eval/var/undefined": {
		Message: func(tok *token.Token, args ...any) string {
			return "unknown variable " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the spelling, and that the variable was declared with 'let' in this function before being used."
		},
	},

	"internal": {
		Message: func(tok *token.Token, args ...any) string {
			return "internal error: " + goErr(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This is a bug in compute rather than in your code."
		},
	},

	"lex/char": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected character " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This character has no meaning in compute outside of a string literal."
		},
	},

	"lex/escape": {
		Message: func(tok *token.Token, args ...any) string {
			return "unknown escape sequence " + emph("\\"+args[0].(string))
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The escape sequences in strings are \\n, \\t, \\\" and \\\\."
		},
	},

	"lex/number": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed number " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Numbers are written as e.g. '42' or '4.2'."
		},
	},

	"lex/quote": {
		Message: func(tok *token.Token, args ...any) string {
			return "string literal is not terminated"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Close the string with a '\"' on the same line."
		},
	},

	"parse/else": {
		Message: func(tok *token.Token, args ...any) string {
			return "'else' without an 'if'"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "'else' must follow directly after the closing brace of an 'if' block."
		},
	},

	"parse/empty": {
		Message: func(tok *token.Token, args ...any) string {
			return "empty expression in " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Put a value here or remove the brackets."
		},
	},

	"parse/eof": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected end of input, expected " + args[0].(string)
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Something is unfinished: check for a missing closing bracket or brace."
		},
	},

	"parse/expected": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected " + args[0].(string) + ", found " + emph(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the syntax around this point."
		},
	},

	"parse/func/dup": {
		Message: func(tok *token.Token, args ...any) string {
			return "function " + emph(args[0]) + " is defined twice"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Rename or remove one of the definitions."
		},
	},

	"parse/toplevel": {
		Message: func(tok *token.Token, args ...any) string {
			return "found " + emph(args[0]) + " outside of a function"
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Apart from 'import' and 'replace' lines, everything in a file must be inside a 'func' definition."
		},
	},

	"prep/bracket": {
		Message: func(tok *token.Token, args ...any) string {
			return "unmatched " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Every opening bracket or brace must have a matching closing one."
		},
	},

	"prep/brace": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("Missing bracket at line %v", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The body of an 'if', 'while' or 'for' must be opened with '{' on the same line."
		},
	},

	"prep/import": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed import " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "An import is written 'import name', where 'name.compute' is in the same directory."
		},
	},

	"prep/replace": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed replace directive " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "A replace directive is written 'replace NAME -> text'."
		},
	},

	"prep/semicolon": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("Missing semicolon at line %v", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Every statement must end with ';'."
		},
	},

	"run/entry": {
		Message: func(tok *token.Token, args ...any) string {
			return "no entry function " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Define " + emph(args[0]) + " with no parameters, or change 'entry' in the settings."
		},
	},

	"run/panic": {
		Message: func(tok *token.Token, args ...any) string {
			return fmt.Sprintf("the interpreter crashed: %v", args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "This is a bug in compute rather than in your code."
		},
	},

	"settings/env": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't use " + emph(args[1]) + " as the value of " + emph(args[0]) + ": " + goErr(args[2])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "Check the value of the environment variable " + emph(args[0]) + "."
		},
	},

	"settings/file": {
		Message: func(tok *token.Token, args ...any) string {
			return "couldn't read the settings file " + emph(args[0]) + ": " + goErr(args[1])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The settings file is YAML, with keys such as 'cache_dir' and 'max_depth'."
		},
	},

	"settings/value": {
		Message: func(tok *token.Token, args ...any) string {
			return "invalid value " + emph(args[1]) + " for setting " + emph(args[0])
		},
		Solution: func(tok *token.Token, args ...any) string {
			return "The setting " + emph(args[0]) + " must be " + args[2].(string) + "."
		},
	},
}

func emph(s any) string {
	if t, ok := s.(string); ok {
		s = strings.TrimSpace(t)
	}
	return fmt.Sprintf("'%v'", s)
}

func goErr(e any) string {
	if err, ok := e.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%v %vs", n, noun)
}
