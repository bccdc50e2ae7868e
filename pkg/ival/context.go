package ival

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Function is a declared function: its body and formal parameter names.
type Function struct {
	Body   Node
	Params *ArgList
}

// Context is the mutable runtime state threaded through evaluation: a stack
// of scopes, one result slot per scope, and the global function registry.
//
// A Context is not safe for concurrent use.
type Context struct {
	opts Options

	scopes  []map[string]*int64
	results []int64
	funcs   map[string]Function
	calls   int
}

// NewContext returns a Context holding a single global scope.
func NewContext(opts Options) *Context {
	cx := &Context{
		opts:  opts.withDefaults(),
		funcs: make(map[string]Function),
	}
	cx.AddScope()
	return cx
}

// Options returns the effective options, defaults applied.
func (cx *Context) Options() Options {
	return cx.opts
}

// Ref returns the location bound to name in the nearest scope, searching
// innermost to outermost. An unbound name is created as zero in the scope
// selected by Options.Create.
func (cx *Context) Ref(name string) *int64 {
	if ref, ok := cx.lookup(name); ok {
		return ref
	}
	scope := cx.scopes[len(cx.scopes)-1]
	if cx.opts.Create == CreateOutermost {
		scope = cx.scopes[0]
	}
	ref := new(int64)
	scope[name] = ref
	return ref
}

// Get reads name, creating it first if unbound.
func (cx *Context) Get(name string) int64 {
	return *cx.Ref(name)
}

// Lookup reads name without creating it.
func (cx *Context) Lookup(name string) (int64, bool) {
	ref, ok := cx.lookup(name)
	if !ok {
		return 0, false
	}
	return *ref, true
}

func (cx *Context) lookup(name string) (*int64, bool) {
	for i := len(cx.scopes) - 1; i >= 0; i-- {
		if ref, ok := cx.scopes[i][name]; ok {
			return ref, true
		}
	}
	return nil, false
}

// Define binds name in the innermost scope, shadowing any outer binding.
func (cx *Context) Define(name string, val int64) {
	cx.scopes[len(cx.scopes)-1][name] = &val
}

// AddScope pushes a scope and its result slot. Every call must be paired
// with LeaveScope, normally via defer.
func (cx *Context) AddScope() {
	cx.scopes = append(cx.scopes, make(map[string]*int64))
	cx.results = append(cx.results, 0)
}

// LeaveScope pops the innermost scope and its result slot.
func (cx *Context) LeaveScope() {
	if len(cx.scopes) == 0 {
		panic("ival: LeaveScope without matching AddScope")
	}
	cx.scopes = cx.scopes[:len(cx.scopes)-1]
	cx.results = cx.results[:len(cx.results)-1]
}

// Depth is the number of active scopes, including the global one.
func (cx *Context) Depth() int {
	return len(cx.scopes)
}

// AddFunc registers a function, replacing any previous one with that name.
func (cx *Context) AddFunc(name string, body Node, params *ArgList) {
	if _, exists := cx.funcs[name]; exists {
		slog.Debug("redeclaring function", "name", name)
	}
	cx.funcs[name] = Function{Body: body, Params: params}
}

// GetFunc returns the function registered under name.
func (cx *Context) GetFunc(name string) (Function, error) {
	fn, ok := cx.funcs[name]
	if !ok {
		return Function{}, &Fault{Kind: UndefinedFunction, Name: name}
	}
	return fn, nil
}

// Functions returns the declared function names in sorted order.
func (cx *Context) Functions() []string {
	return slices.Sorted(maps.Keys(cx.funcs))
}

// SetRes writes the innermost scope's result slot.
func (cx *Context) SetRes(val int64) {
	cx.results[len(cx.results)-1] = val
}

// GetRes reads the innermost scope's result slot.
func (cx *Context) GetRes() int64 {
	return cx.results[len(cx.results)-1]
}

// enterCall accounts for one more active function call.
func (cx *Context) enterCall(name string) error {
	if cx.calls >= cx.opts.MaxCallDepth {
		return &Fault{
			Kind:   StackExhausted,
			Name:   name,
			Detail: fmt.Sprintf("call depth exceeds %d", cx.opts.MaxCallDepth),
		}
	}
	cx.calls++
	return nil
}

func (cx *Context) leaveCall() {
	cx.calls--
}
