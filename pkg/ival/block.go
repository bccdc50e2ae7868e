package ival

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Sequence evaluates statements in order and yields the last one's value,
// or zero when empty.
type Sequence struct {
	Stmts []Node
}

func (s *Sequence) isNode() {}

func (s *Sequence) Walk(fn func(Node) bool) {
	if !fn(s) {
		return
	}
	for _, stmt := range s.Stmts {
		stmt.Walk(fn)
	}
}

func (s *Sequence) Eval(ctx context.Context, cx *Context) (int64, error) {
	var last int64
	for _, stmt := range s.Stmts {
		val, err := stmt.Eval(ctx, cx)
		if err != nil {
			return 0, err
		}
		last = val
	}
	return last, nil
}

// ScopeBlock evaluates its body in a fresh scope and yields the value stored
// in that scope's result slot, i.e. the last Return executed directly in it.
type ScopeBlock struct {
	Body Node
}

func (s *ScopeBlock) isNode() {}

func (s *ScopeBlock) Walk(fn func(Node) bool) {
	if !fn(s) {
		return
	}
	s.Body.Walk(fn)
}

func (s *ScopeBlock) Eval(ctx context.Context, cx *Context) (int64, error) {
	cx.AddScope()
	defer cx.LeaveScope()

	if _, err := s.Body.Eval(ctx, cx); err != nil {
		return 0, err
	}
	return cx.GetRes(), nil
}

// Return stores its value in the current scope's result slot. It does not
// stop evaluation of the enclosing body: the last Return executed wins.
type Return struct {
	Value Node
}

func (r *Return) isNode() {}

func (r *Return) Walk(fn func(Node) bool) {
	if !fn(r) {
		return
	}
	r.Value.Walk(fn)
}

func (r *Return) Eval(ctx context.Context, cx *Context) (int64, error) {
	val, err := r.Value.Eval(ctx, cx)
	if err != nil {
		return 0, err
	}
	cx.SetRes(val)
	return val, nil
}

// Print writes its value as one decimal line to the context's stdout and
// yields it.
type Print struct {
	Value Node
}

func (p *Print) isNode() {}

func (p *Print) Walk(fn func(Node) bool) {
	if !fn(p) {
		return
	}
	p.Value.Walk(fn)
}

func (p *Print) Eval(ctx context.Context, cx *Context) (int64, error) {
	val, err := p.Value.Eval(ctx, cx)
	if err != nil {
		return 0, err
	}
	if _, err := fmt.Fprintln(Stdout(ctx), val); err != nil {
		return 0, fmt.Errorf("print: %w", err)
	}
	return val, nil
}

type stdoutKey struct{}

// WithStdout returns a context whose Print output goes to w.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

// Stdout returns the writer Print uses, os.Stdout unless overridden.
func Stdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}
	return os.Stdout
}
