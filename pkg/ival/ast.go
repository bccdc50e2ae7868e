package ival

import (
	"context"
)

// Node is one form of the syntax tree. The set of implementations is closed;
// every form lives in this package.
type Node interface {
	// Eval evaluates the node against cx and returns its value. Statement
	// forms still produce a value, even if it is conventionally ignored.
	Eval(ctx context.Context, cx *Context) (int64, error)

	// Walk recursively visits this node and all its children, calling fn for
	// each node. The callback returns true to continue walking into children,
	// false to skip children.
	Walk(fn func(Node) bool)

	isNode()
}

var _ Node = (*Literal)(nil)
var _ Node = (*VariableRef)(nil)
var _ Node = (*Name)(nil)
var _ Node = (*ArgList)(nil)
var _ Node = (*Assign)(nil)
var _ Node = (*BinaryOp)(nil)
var _ Node = (*Sequence)(nil)
var _ Node = (*ScopeBlock)(nil)
var _ Node = (*Return)(nil)
var _ Node = (*Print)(nil)
var _ Node = (*FunctionDecl)(nil)
var _ Node = (*FunctionCall)(nil)

// Literal is an integer constant.
type Literal struct {
	Value int64
}

func (l *Literal) isNode() {}

func (l *Literal) Walk(fn func(Node) bool) { fn(l) }

func (l *Literal) Eval(ctx context.Context, cx *Context) (int64, error) {
	return l.Value, nil
}

// VariableRef reads a variable.
type VariableRef struct {
	Name string
}

func (v *VariableRef) isNode() {}

func (v *VariableRef) Walk(fn func(Node) bool) { fn(v) }

func (v *VariableRef) Eval(ctx context.Context, cx *Context) (int64, error) {
	if cx.opts.Strict {
		val, ok := cx.Lookup(v.Name)
		if !ok {
			return 0, &Fault{Kind: UndefinedVariable, Name: v.Name}
		}
		return val, nil
	}
	return cx.Get(v.Name), nil
}

// Name holds an identifier, as used in formal parameter lists. It has no
// value of its own.
type Name struct {
	Name string
}

func (n *Name) isNode() {}

func (n *Name) Walk(fn func(Node) bool) { fn(n) }

func (n *Name) Eval(ctx context.Context, cx *Context) (int64, error) {
	return 0, nil
}

// ArgList is a singly linked sequence of nodes. It carries call-site argument
// expressions as well as formal parameter names. A nil *ArgList is the empty
// list.
type ArgList struct {
	Head Node
	Tail *ArgList
}

// NewArgList links nodes into an ArgList, returning nil for no nodes.
func NewArgList(nodes ...Node) *ArgList {
	var list *ArgList
	for i := len(nodes) - 1; i >= 0; i-- {
		list = &ArgList{Head: nodes[i], Tail: list}
	}
	return list
}

// Params builds a formal parameter list from names.
func Params(names ...string) *ArgList {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = &Name{Name: name}
	}
	return NewArgList(nodes...)
}

// Len is the number of linked elements.
func (a *ArgList) Len() int {
	n := 0
	for ; a != nil; a = a.Tail {
		n++
	}
	return n
}

// Nodes returns the elements in order.
func (a *ArgList) Nodes() []Node {
	var nodes []Node
	for ; a != nil; a = a.Tail {
		nodes = append(nodes, a.Head)
	}
	return nodes
}

func (a *ArgList) isNode() {}

func (a *ArgList) Walk(fn func(Node) bool) {
	if a == nil || !fn(a) {
		return
	}
	a.Head.Walk(fn)
	if a.Tail != nil {
		a.Tail.Walk(fn)
	}
}

// Eval evaluates only the head element.
func (a *ArgList) Eval(ctx context.Context, cx *Context) (int64, error) {
	if a == nil {
		return 0, nil
	}
	return a.Head.Eval(ctx, cx)
}

// Assign writes the value of an expression to a variable and yields it.
type Assign struct {
	Target *VariableRef
	Value  Node
}

func (a *Assign) isNode() {}

func (a *Assign) Walk(fn func(Node) bool) {
	if !fn(a) {
		return
	}
	a.Target.Walk(fn)
	a.Value.Walk(fn)
}

func (a *Assign) Eval(ctx context.Context, cx *Context) (int64, error) {
	val, err := a.Value.Eval(ctx, cx)
	if err != nil {
		return 0, err
	}
	*cx.Ref(a.Target.Name) = val
	return val, nil
}
