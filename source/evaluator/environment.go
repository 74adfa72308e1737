package evaluator

import (
	"sort"

	"src.elv.sh/pkg/persistent/vector"

	"github.com/tim-hardcastle/compute/source/values"
)

// An Environment is the list of variable bindings visible at a point in the execution of a
// function, innermost last. It is persistent, so taking a snapshot for a block is free and the
// block's declarations never disturb its parent. A block sees its parent's bindings at the
// same indices, which is what lets reassignments made in the block be written back by index.
type Environment struct {
	vars    vector.Vector // of Binding
	base    int           // bindings below this index belong to the environment the snapshot was taken from
	touched map[int]bool
}

type Binding struct {
	Index int
	Name  string
	Value values.Value
}

func NewEnvironment() *Environment {
	return &Environment{vars: vector.Empty, touched: map[int]bool{}}
}

func (env *Environment) Len() int {
	return env.vars.Len()
}

// Child returns a snapshot of the environment for a nested block to run in.
func (env *Environment) Child() *Environment {
	return &Environment{vars: env.vars, base: env.vars.Len(), touched: map[int]bool{}}
}

// Declare adds a binding, shadowing any earlier binding of the same name.
func (env *Environment) Declare(name string, v values.Value) {
	env.vars = env.vars.Conj(Binding{Index: env.vars.Len(), Name: name, Value: v})
}

// Lookup finds the innermost binding of the name.
func (env *Environment) Lookup(name string) (Binding, bool) {
	for i := env.vars.Len() - 1; i >= 0; i-- {
		if b := env.at(i); b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Assign replaces the value of the innermost binding of the name.
func (env *Environment) Assign(name string, v values.Value) bool {
	b, ok := env.Lookup(name)
	if !ok {
		return false
	}
	env.set(b.Index, v)
	return true
}

func (env *Environment) set(i int, v values.Value) {
	b := env.at(i)
	b.Value = v
	env.vars = env.vars.Assoc(i, b)
	if i < env.base {
		env.touched[i] = true
	}
}

func (env *Environment) at(i int) Binding {
	b, _ := env.vars.Index(i)
	return b.(Binding)
}

// Touched lists, in order, the bindings inherited from the parent which have been reassigned.
func (env *Environment) Touched() []Binding {
	if len(env.touched) == 0 {
		return nil
	}
	indices := make([]int, 0, len(env.touched))
	for i := range env.touched {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	result := make([]Binding, len(indices))
	for j, i := range indices {
		result[j] = env.at(i)
	}
	return result
}

// Merge writes back the reassignments made in a child. As the child's bindings may
// themselves be inherited from further out, they can become touched in turn.
func (env *Environment) Merge(touched []Binding) {
	for _, b := range touched {
		env.set(b.Index, b.Value)
	}
}

// Bindings lists the visible bindings, for the REPL.
func (env *Environment) Bindings() []Binding {
	result := []Binding{}
	seen := map[string]bool{}
	for i := env.vars.Len() - 1; i >= 0; i-- {
		b := env.at(i)
		if !seen[b.Name] {
			seen[b.Name] = true
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}
