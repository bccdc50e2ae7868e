package ival

import (
	"context"
	"fmt"
)

// OperatorFunc applies a binary operator to two evaluated operands.
type OperatorFunc func(left, right int64) (int64, error)

// Operator is a binary integer operator. Arithmetic wraps around on
// overflow.
type Operator struct {
	Symbol string
	Name   string
	Apply  OperatorFunc
}

var (
	Add = Operator{Symbol: "+", Name: "add", Apply: addEval}
	Sub = Operator{Symbol: "-", Name: "sub", Apply: subEval}
	Mul = Operator{Symbol: "*", Name: "mul", Apply: mulEval}
	Div = Operator{Symbol: "/", Name: "div", Apply: divEval}
	Mod = Operator{Symbol: "%", Name: "mod", Apply: modEval}
)

// Operators lists the built-in operators.
var Operators = []Operator{Add, Sub, Mul, Div, Mod}

// LookupOperator finds a built-in operator by symbol or name.
func LookupOperator(key string) (Operator, bool) {
	for _, op := range Operators {
		if op.Symbol == key || op.Name == key {
			return op, true
		}
	}
	return Operator{}, false
}

func addEval(l, r int64) (int64, error) { return l + r, nil }
func subEval(l, r int64) (int64, error) { return l - r, nil }
func mulEval(l, r int64) (int64, error) { return l * r, nil }

func divEval(l, r int64) (int64, error) {
	if r == 0 {
		return 0, &Fault{Kind: DivisionByZero, Detail: fmt.Sprintf("%d / 0", l)}
	}
	// math.MinInt64 / -1 wraps to math.MinInt64 rather than trapping.
	return l / r, nil
}

func modEval(l, r int64) (int64, error) {
	if r == 0 {
		return 0, &Fault{Kind: DivisionByZero, Detail: fmt.Sprintf("%d %% 0", l)}
	}
	return l % r, nil
}

// BinaryOp applies Op to its operands. The left operand is fully evaluated
// before the right; there is no short-circuiting.
type BinaryOp struct {
	Op    Operator
	Left  Node
	Right Node
}

func NewBinaryOp(op Operator, left, right Node) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func (b *BinaryOp) isNode() {}

func (b *BinaryOp) Walk(fn func(Node) bool) {
	if !fn(b) {
		return
	}
	b.Left.Walk(fn)
	b.Right.Walk(fn)
}

func (b *BinaryOp) Eval(ctx context.Context, cx *Context) (int64, error) {
	left, err := b.Left.Eval(ctx, cx)
	if err != nil {
		return 0, err
	}
	right, err := b.Right.Eval(ctx, cx)
	if err != nil {
		return 0, err
	}
	return b.Op.Apply(left, right)
}
