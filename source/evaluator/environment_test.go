package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/values"
)

func TestEnvironmentShadowing(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x", values.Integer(1))
	env.Declare("x", values.Integer(2))
	b, ok := env.Lookup("x")
	require.True(t, ok)
	require.Equal(t, values.Integer(2), b.Value)
	require.Equal(t, 1, b.Index)
	require.False(t, env.Assign("y", values.NULL))
	require.Len(t, env.Bindings(), 1)
}

func TestChildMerge(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x", values.Integer(1))
	env.Declare("y", values.Integer(2))

	child := env.Child()
	child.Declare("z", values.Integer(3))
	require.True(t, child.Assign("y", values.Integer(20)))
	require.True(t, child.Assign("z", values.Integer(30)))

	// The parent is untouched until the merge.
	b, _ := env.Lookup("y")
	require.Equal(t, values.Integer(2), b.Value)

	touched := child.Touched()
	require.Equal(t, []Binding{{Index: 1, Name: "y", Value: values.Integer(20)}}, touched)
	env.Merge(touched)
	b, _ = env.Lookup("y")
	require.Equal(t, values.Integer(20), b.Value)
	_, ok := env.Lookup("z")
	require.False(t, ok)
	require.Nil(t, env.Touched())
}

func TestNestedChildrenPropagate(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x", values.Integer(1))
	middle := env.Child()
	middle.Declare("m", values.Integer(0))
	inner := middle.Child()
	inner.Assign("x", values.Integer(5))
	inner.Assign("m", values.Integer(6))

	middle.Merge(inner.Touched())
	require.Equal(t, []Binding{{Index: 0, Name: "x", Value: values.Integer(5)}}, middle.Touched())
	env.Merge(middle.Touched())
	b, _ := env.Lookup("x")
	require.Equal(t, values.Integer(5), b.Value)
}
