package ival

import (
	"bytes"
	"context"
	"testing"
)

func lit(v int64) *Literal { return &Literal{Value: v} }
func ref(name string) *VariableRef { return &VariableRef{Name: name} }
func ret(v Node) *Return { return &Return{Value: v} }
func show(v Node) *Print { return &Print{Value: v} }
func seq(stmts ...Node) *Sequence { return &Sequence{Stmts: stmts} }
func block(stmts ...Node) *ScopeBlock { return &ScopeBlock{Body: seq(stmts...)} }

func assign(name string, val Node) *Assign {
	return &Assign{Target: ref(name), Value: val}
}

func binop(op Operator, l, r Node) *BinaryOp {
	return NewBinaryOp(op, l, r)
}

func decl(name string, params []string, body Node) *FunctionDecl {
	return &FunctionDecl{Name: name, Params: Params(params...), Body: body}
}

func call(name string, args ...Node) *FunctionCall {
	return &FunctionCall{Name: name, Args: NewArgList(args...)}
}

// evalIn evaluates root against cx, capturing Print output.
func evalIn(t *testing.T, cx *Context, root Node) (int64, string, error) {
	t.Helper()
	var stdout bytes.Buffer
	ctx := WithStdout(context.Background(), &stdout)
	val, err := root.Eval(ctx, cx)
	return val, stdout.String(), err
}

// runProgram runs root with opts, capturing Print output.
func runProgram(t *testing.T, root Node, opts Options) (int64, string, error) {
	t.Helper()
	var stdout bytes.Buffer
	ctx := WithStdout(context.Background(), &stdout)
	val, err := Run(ctx, root, opts)
	return val, stdout.String(), err
}
