package ival

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextStartsWithGlobalScope(t *testing.T) {
	cx := NewContext(Options{})
	assert.Equal(t, 1, cx.Depth())
	assert.Equal(t, int64(0), cx.GetRes())

	opts := cx.Options()
	assert.Equal(t, CreateInnermost, opts.Create)
	assert.Equal(t, ArgsInCallee, opts.ArgScope)
	assert.Equal(t, DefaultMaxCallDepth, opts.MaxCallDepth)
}

func TestContextLookupInnermostFirst(t *testing.T) {
	cx := NewContext(Options{})
	cx.Define("x", 1)

	cx.AddScope()
	cx.Define("x", 2)

	val, ok := cx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), val)

	cx.LeaveScope()

	val, ok = cx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), val)
}

func TestContextRefWritesNearestBinding(t *testing.T) {
	cx := NewContext(Options{})
	cx.Define("x", 1)

	cx.AddScope()
	*cx.Ref("x") = 7
	cx.LeaveScope()

	assert.Equal(t, int64(7), cx.Get("x"))
}

func TestContextAutoCreate(t *testing.T) {
	t.Run("innermost", func(t *testing.T) {
		cx := NewContext(Options{})
		cx.AddScope()
		assert.Equal(t, int64(0), cx.Get("fresh"))
		_, ok := cx.Lookup("fresh")
		assert.True(t, ok)
		cx.LeaveScope()

		_, ok = cx.Lookup("fresh")
		assert.False(t, ok, "binding should have been dropped with its scope")
	})

	t.Run("outermost", func(t *testing.T) {
		cx := NewContext(Options{Create: CreateOutermost})
		cx.AddScope()
		*cx.Ref("fresh") = 3
		cx.LeaveScope()

		val, ok := cx.Lookup("fresh")
		require.True(t, ok)
		assert.Equal(t, int64(3), val)
	})
}

func TestContextLookupDoesNotCreate(t *testing.T) {
	cx := NewContext(Options{})
	_, ok := cx.Lookup("nope")
	assert.False(t, ok)
	_, ok = cx.Lookup("nope")
	assert.False(t, ok)
}

func TestContextResultSlotsPerScope(t *testing.T) {
	cx := NewContext(Options{})
	cx.SetRes(1)

	cx.AddScope()
	assert.Equal(t, int64(0), cx.GetRes())
	cx.SetRes(2)
	assert.Equal(t, int64(2), cx.GetRes())
	cx.LeaveScope()

	assert.Equal(t, int64(1), cx.GetRes())
}

func TestContextFunctions(t *testing.T) {
	cx := NewContext(Options{})

	_, err := cx.GetFunc("f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndefinedFunction))
	assert.EqualError(t, err, `undefined function "f"`)

	first := lit(1)
	second := lit(2)
	cx.AddFunc("f", first, Params("a"))
	cx.AddFunc("b", lit(0), nil)
	cx.AddFunc("f", second, Params("a", "b"))

	fn, err := cx.GetFunc("f")
	require.NoError(t, err)
	assert.Same(t, second, fn.Body)
	assert.Equal(t, 2, fn.Params.Len())

	assert.Equal(t, []string{"b", "f"}, cx.Functions())
}

func TestContextLeaveScopeUnderflowPanics(t *testing.T) {
	cx := NewContext(Options{})
	cx.LeaveScope()
	assert.Panics(t, cx.LeaveScope)
}

func TestContextCallDepth(t *testing.T) {
	cx := NewContext(Options{MaxCallDepth: 2})
	require.NoError(t, cx.enterCall("f"))
	require.NoError(t, cx.enterCall("f"))

	err := cx.enterCall("f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackExhausted))

	cx.leaveCall()
	assert.NoError(t, cx.enterCall("f"))
}
