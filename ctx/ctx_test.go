package ctx

import (
	"testing"

	"github.com/anthropics/mathexpr/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarSetVarRoundTrip(t *testing.T) {
	c := New()
	c.SetVar("x", value.Results{value.Scalar(3)})
	r, ok := c.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Results{value.Scalar(3)}, r)
}

func TestVarUnboundIsNotFound(t *testing.T) {
	c := New()
	_, ok := c.Var("q")
	assert.False(t, ok)
}

func TestChildSeesParentButNotViceVersa(t *testing.T) {
	parent := New()
	parent.SetVar("x", value.Results{value.Scalar(1)})
	child := parent.Child()

	r, ok := child.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(1), r[0])

	child.SetVar("x", value.Results{value.Scalar(2)})
	r, ok = child.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(2), r[0])

	// The parent is untouched by the child's rebinding.
	r, ok = parent.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(1), r[0])
}

func TestChildShadowsParentFunc(t *testing.T) {
	parent := New()
	parent.SetFunc(&Function{Name: "f", Params: []string{"x"}})
	child := parent.Child()
	child.SetFunc(&Function{Name: "f", Params: []string{"x", "y"}})

	f, ok := child.Func("f")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, f.Params)

	f, ok = parent.Func("f")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, f.Params)
}

func TestFromVariablesAndFromFunctions(t *testing.T) {
	c := FromVariables(map[string]value.Value{"g": value.Scalar(9.8)})
	r, ok := c.Var("g")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(9.8), r[0])

	funcs := FromFunctions([]*Function{{Name: "inc", Params: []string{"x"}}})
	f, ok := funcs.Func("inc")
	require.True(t, ok)
	assert.Equal(t, "inc", f.Name)
}

func TestCombinePrefersSecondArgument(t *testing.T) {
	a := FromVariables(map[string]value.Value{"x": value.Scalar(1), "y": value.Scalar(2)})
	b := FromVariables(map[string]value.Value{"x": value.Scalar(10)})

	combined := Combine(a, b)
	r, ok := combined.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(10), r[0])

	r, ok = combined.Var("y")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(2), r[0])
}

func TestCombinePreservesFunctionsFromBoth(t *testing.T) {
	a := FromFunctions([]*Function{{Name: "f", Params: []string{"x"}}})
	b := FromFunctions([]*Function{{Name: "g", Params: []string{"y"}}})

	combined := Combine(a, b)
	_, ok := combined.Func("f")
	assert.True(t, ok)
	_, ok = combined.Func("g")
	assert.True(t, ok)
}

func TestSetVarOnZeroValueContext(t *testing.T) {
	var c Context
	c.SetVar("x", value.Results{value.Scalar(5)})
	r, ok := c.Var("x")
	require.True(t, ok)
	assert.Equal(t, value.Scalar(5), r[0])
}
