package ival

import (
	"context"
	"fmt"
	"log/slog"
)

// FunctionDecl registers a function when evaluated. Functions live in one
// global namespace and are only callable once their declaration has run.
type FunctionDecl struct {
	Name   string
	Params *ArgList
	Body   Node
}

func (f *FunctionDecl) isNode() {}

func (f *FunctionDecl) Walk(fn func(Node) bool) {
	if !fn(f) {
		return
	}
	if f.Params != nil {
		f.Params.Walk(fn)
	}
	f.Body.Walk(fn)
}

func (f *FunctionDecl) Eval(ctx context.Context, cx *Context) (int64, error) {
	slog.Debug("declaring function", "name", f.Name, "params", f.Params.Len())
	cx.AddFunc(f.Name, f.Body, f.Params)
	return 0, nil
}

// FunctionCall invokes a declared function. Arguments are matched to
// parameters by position and the body's value is the call's value.
type FunctionCall struct {
	Name string
	Args *ArgList
}

func (c *FunctionCall) isNode() {}

func (c *FunctionCall) Walk(fn func(Node) bool) {
	if !fn(c) {
		return
	}
	if c.Args != nil {
		c.Args.Walk(fn)
	}
}

func (c *FunctionCall) Eval(ctx context.Context, cx *Context) (int64, error) {
	fn, err := cx.GetFunc(c.Name)
	if err != nil {
		return 0, err
	}

	if err := cx.enterCall(c.Name); err != nil {
		return 0, err
	}
	defer cx.leaveCall()

	switch cx.opts.ArgScope {
	case ArgsInCaller:
		type binding struct {
			name string
			val  int64
		}
		var bindings []binding
		if err := c.bindArgs(ctx, cx, fn.Params, func(name string, val int64) {
			bindings = append(bindings, binding{name, val})
		}); err != nil {
			return 0, err
		}

		cx.AddScope()
		defer cx.LeaveScope()

		for _, b := range bindings {
			cx.Define(b.name, b.val)
		}
	default:
		cx.AddScope()
		defer cx.LeaveScope()

		if err := c.bindArgs(ctx, cx, fn.Params, cx.Define); err != nil {
			return 0, err
		}
	}

	return fn.Body.Eval(ctx, cx)
}

// bindArgs walks the call-site arguments and the formal parameters in
// lockstep, evaluating each argument in the current scope and handing it to
// bind. A leftover element on either side is an ArgumentCountMismatch.
func (c *FunctionCall) bindArgs(ctx context.Context, cx *Context, params *ArgList, bind func(string, int64)) error {
	arg, param := c.Args, params
	for arg != nil && param != nil {
		val, err := arg.Head.Eval(ctx, cx)
		if err != nil {
			return err
		}
		bind(paramName(param.Head), val)
		arg, param = arg.Tail, param.Tail
	}
	if arg != nil || param != nil {
		return &Fault{
			Kind:   ArgumentCountMismatch,
			Name:   c.Name,
			Detail: fmt.Sprintf("want %d arguments, got %d", params.Len(), c.Args.Len()),
		}
	}
	return nil
}

func paramName(node Node) string {
	switch n := node.(type) {
	case *Name:
		return n.Name
	case *VariableRef:
		return n.Name
	default:
		panic(fmt.Sprintf("ival: parameter must be a name, got %T", node))
	}
}
