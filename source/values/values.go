package values

// Everything the parser can produce and everything the evaluator can compute is a Value.
// The set of variants is closed: only the types in this file implement the interface, and
// the evaluator switches over them exhaustively. A Value is either fully evaluated (Null,
// Integer, Float, String, Bool, File, and an Array with neither flag set) or deferred, in
// which case it is the evaluator's job to reduce it.

type Value interface {
	isValue()
}

type Null struct{}

type Integer int64

type Float float64

type String string

type Bool bool

// An Array is in one of three states:
//   - IsParsed: a literal whose elements are still unevaluated expressions.
//   - IsSuite: a base expression followed by bracket groups, i.e. the indexing notation
//     base[i][j]. Elements[0] is the base, the rest are the (parsed) index arrays.
//   - neither: a terminal value.
//
// It is never the case that both flags are set.
type Array struct {
	Elements []Value
	IsParsed bool
	IsSuite  bool
}

// The operands of an Or or And are the tokens of the right-hand side, which are only
// evaluated if they can change the result.
type Or struct {
	Operands []Value
}

type And struct {
	Operands []Value
}

type Property struct {
	Name string
}

// Args is flattened: the arguments are separated by Separator tokens.
type PropertyFunction struct {
	Name string
	Args []Value
}

type VariableIdentifier struct {
	Name string
}

type FunctionCall struct {
	Name string
	Args []Value
}

type NamespaceFunctionCall struct {
	Namespace []string
	Name      string
	Args      []Value
}

type FunctionReturn struct {
	Expr []Value
}

type Priority struct {
	Expr []Value
}

type Operation struct {
	Op Operator
}

// Redeclare distinguishes 'x = 1' from 'let x = 1'.
type VariableDeclaration struct {
	Name      string
	Expr      []Value
	Redeclare bool
}

// An ElseBranch with an empty Guard is a plain 'else'.
type ElseBranch struct {
	Guard []Value
	Body  [][]Value
}

type Condition struct {
	Guard []Value
	Then  [][]Value
	Else  []ElseBranch
}

type While struct {
	Guard []Value
	Body  [][]Value
}

type Loop struct {
	Name     string
	Iterable []Value
	Body     [][]Value
}

// A Wrap keeps a whole multi-token expression or statement together as one token of a
// flat sequence, e.g. as an element of an array literal.
type Wrap struct {
	Inner []Value
}

type Separator struct{}

type Break struct{}

type File struct {
	Path string
}

func (Null) isValue()                  {}
func (Integer) isValue()               {}
func (Float) isValue()                 {}
func (String) isValue()                {}
func (Bool) isValue()                  {}
func (Array) isValue()                 {}
func (Or) isValue()                    {}
func (And) isValue()                   {}
func (Property) isValue()              {}
func (PropertyFunction) isValue()      {}
func (VariableIdentifier) isValue()    {}
func (FunctionCall) isValue()          {}
func (NamespaceFunctionCall) isValue() {}
func (FunctionReturn) isValue()        {}
func (Priority) isValue()              {}
func (Operation) isValue()             {}
func (VariableDeclaration) isValue()   {}
func (Condition) isValue()             {}
func (While) isValue()                 {}
func (Loop) isValue()                  {}
func (Wrap) isValue()                  {}
func (Separator) isValue()             {}
func (Break) isValue()                 {}
func (File) isValue()                  {}

var (
	NULL  Value = Null{}
	TRUE  Value = Bool(true)
	FALSE Value = Bool(false)
)

func MakeBool(b bool) Value {
	return Bool(b)
}

// NewArray makes a terminal array.
func NewArray(elements []Value) Array {
	if elements == nil {
		elements = []Value{}
	}
	return Array{Elements: elements}
}

// IsEvaluated says whether the value needs no further work from the evaluator.
func IsEvaluated(v Value) bool {
	switch v := v.(type) {
	case Null, Integer, Float, String, Bool, File:
		return true
	case Array:
		return !v.IsParsed && !v.IsSuite
	}
	return false
}

// SplitArgs cuts a flattened argument sequence at its Separator tokens.
func SplitArgs(args []Value) [][]Value {
	if len(args) == 0 {
		return nil
	}
	result := [][]Value{}
	current := []Value{}
	for _, tok := range args {
		if _, ok := tok.(Separator); ok {
			result = append(result, current)
			current = []Value{}
			continue
		}
		current = append(current, tok)
	}
	return append(result, current)
}

// JoinArgs is the inverse of SplitArgs.
func JoinArgs(args [][]Value) []Value {
	var result []Value
	for i, arg := range args {
		if i > 0 {
			result = append(result, Separator{})
		}
		result = append(result, arg...)
	}
	return result
}

// Clone makes a deep copy of an array's element slice, so that no two live arrays share
// backing storage.
func (a Array) Clone() Array {
	elements := make([]Value, len(a.Elements))
	for i, e := range a.Elements {
		if sub, ok := e.(Array); ok {
			e = sub.Clone()
		}
		elements[i] = e
	}
	return Array{Elements: elements, IsParsed: a.IsParsed, IsSuite: a.IsSuite}
}
