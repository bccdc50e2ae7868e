package ival

import (
	"bytes"
	"fmt"
	"strconv"
)

const indentString = "\t"

// Formatter renders nodes as surface syntax.
type Formatter struct {
	buf    bytes.Buffer
	indent int
}

// Format renders a tree as indented source text, one statement per line.
func Format(node Node) string {
	f := &Formatter{}
	f.formatStmts(node)
	return f.buf.String()
}

func (f *Formatter) write(s string) {
	f.buf.WriteString(s)
}

func (f *Formatter) newline() {
	f.buf.WriteByte('\n')
	for range f.indent {
		f.buf.WriteString(indentString)
	}
}

// formatStmts writes node as a statement list, flattening sequences.
func (f *Formatter) formatStmts(node Node) {
	seq, ok := node.(*Sequence)
	if !ok {
		f.formatNode(node)
		return
	}
	for i, stmt := range seq.Stmts {
		if i > 0 {
			f.newline()
		}
		f.formatStmts(stmt)
	}
}

func (f *Formatter) formatNode(node Node) {
	switch n := node.(type) {
	case *Literal:
		f.write(strconv.FormatInt(n.Value, 10))
	case *VariableRef:
		f.write(n.Name)
	case *Name:
		f.write(n.Name)
	case *BinaryOp:
		f.formatOperand(n.Left)
		f.write(" " + n.Op.Symbol + " ")
		f.formatOperand(n.Right)
	case *Assign:
		f.write(n.Target.Name + " = ")
		f.formatNode(n.Value)
	case *Print:
		f.write("print ")
		f.formatNode(n.Value)
	case *Return:
		f.write("return ")
		f.formatNode(n.Value)
	case *ArgList:
		f.formatList(n)
	case *FunctionCall:
		f.write(n.Name)
		f.formatList(n.Args)
	case *FunctionDecl:
		f.write("func " + n.Name)
		f.formatList(n.Params)
		f.write(" ")
		if _, isBlock := n.Body.(*ScopeBlock); isBlock {
			f.formatNode(n.Body)
		} else {
			f.write("= ")
			f.formatNode(n.Body)
		}
	case *ScopeBlock:
		if seq, ok := n.Body.(*Sequence); ok && len(seq.Stmts) == 0 {
			f.write("{}")
			return
		}
		f.write("{")
		f.indent++
		f.newline()
		f.formatStmts(n.Body)
		f.indent--
		f.newline()
		f.write("}")
	case *Sequence:
		f.write("(")
		for i, stmt := range n.Stmts {
			if i > 0 {
				f.write("; ")
			}
			f.formatNode(stmt)
		}
		f.write(")")
	default:
		f.write(fmt.Sprintf("<%T>", node))
	}
}

func (f *Formatter) formatOperand(node Node) {
	if _, nested := node.(*BinaryOp); nested {
		f.write("(")
		f.formatNode(node)
		f.write(")")
		return
	}
	f.formatNode(node)
}

func (f *Formatter) formatList(list *ArgList) {
	f.write("(")
	for i, node := range list.Nodes() {
		if i > 0 {
			f.write(", ")
		}
		f.formatNode(node)
	}
	f.write(")")
}
