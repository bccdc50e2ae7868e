package ival

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// Tree documents are YAML (or JSON) renderings of a syntax tree:
//
//	integer             Literal
//	string              VariableRef
//	[a, b, ...]         Sequence
//	{kind: body}        any form, e.g.
//	                      {print: x}
//	                      {add: [1, 2]} or {"+": [1, 2]}
//	                      {assign: {target: x, value: 1}}
//	                      {scope: [stmt, ...]}
//	                      {func: {name: f, params: [a, b], body: ...}}
//	                      {call: {name: f, args: [1, 2]}}
//	                      {return: x}
//
// Kind names are case-insensitive about their word separators: FunctionCall,
// function-call and function_call are the same kind.

// DecodeFile reads and decodes a tree document.
func DecodeFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading tree document")
	}
	node, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return node, nil
}

// Decode decodes a tree document into a Node.
func Decode(data []byte) (Node, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing tree document")
	}
	if doc == nil {
		return nil, errors.New("empty tree document")
	}
	return decodeNode("$", doc)
}

func decodeNode(path string, doc any) (Node, error) {
	switch v := doc.(type) {
	case nil:
		return nil, errors.Errorf("%s: missing node", path)
	case string:
		if v == "" {
			return nil, errors.Errorf("%s: empty variable name", path)
		}
		return &VariableRef{Name: v}, nil
	case []any:
		stmts := make([]Node, len(v))
		for i, item := range v {
			stmt, err := decodeNode(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			stmts[i] = stmt
		}
		return &Sequence{Stmts: stmts}, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, errors.Errorf("%s: node must have exactly one kind, got %s", path, keyList(v))
		}
		for kind, body := range v {
			return decodeForm(path+"."+kind, kind, body)
		}
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = val
		}
		return decodeNode(path, m)
	}

	if i, ok, err := toInt64(path, doc); ok {
		if err != nil {
			return nil, err
		}
		return &Literal{Value: i}, nil
	}
	return nil, errors.Errorf("%s: unsupported node value %T", path, doc)
}

func decodeForm(path, kind string, body any) (Node, error) {
	normalized := strcase.ToSnake(kind)
	if op, ok := LookupOperator(kind); ok {
		return decodeBinary(path, op, body)
	}
	if op, ok := LookupOperator(normalized); ok {
		return decodeBinary(path, op, body)
	}

	switch normalized {
	case "literal", "lit", "int", "value":
		i, ok, err := toInt64(path, body)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("%s: literal must be an integer, got %T", path, body)
		}
		return &Literal{Value: i}, nil

	case "var", "variable", "variable_ref", "ref":
		name, err := decodeName(path, body)
		if err != nil {
			return nil, err
		}
		return &VariableRef{Name: name}, nil

	case "name":
		name, err := decodeName(path, body)
		if err != nil {
			return nil, err
		}
		return &Name{Name: name}, nil

	case "assign", "assignment":
		return decodeAssign(path, body)

	case "binary_op", "binop", "op":
		f, err := decodeFields(path, body, "op", "left", "right")
		if err != nil {
			return nil, err
		}
		sym, err := decodeName(path+".op", f["op"])
		if err != nil {
			return nil, err
		}
		op, ok := LookupOperator(sym)
		if !ok {
			return nil, errors.Errorf("%s.op: unknown operator %q", path, sym)
		}
		return decodeBinary(path, op, []any{f["left"], f["right"]})

	case "scope", "scope_block", "block":
		inner, err := decodeNode(path, body)
		if err != nil {
			return nil, err
		}
		return &ScopeBlock{Body: inner}, nil

	case "seq", "sequence", "stmts", "statements":
		items, ok := body.([]any)
		if !ok {
			return nil, errors.Errorf("%s: sequence must be a list, got %T", path, body)
		}
		return decodeNode(path, items)

	case "func", "fn", "function", "function_decl":
		return decodeFunction(path, body)

	case "call", "function_call":
		f, err := decodeFields(path, body, "name", "args")
		if err != nil {
			return nil, err
		}
		name, err := decodeName(path+".name", f["name"])
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(path+".args", f["args"])
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Name: name, Args: args}, nil

	case "args", "arg_list", "tuple":
		return decodeArgs(path, body)

	case "return":
		val, err := decodeNode(path, body)
		if err != nil {
			return nil, err
		}
		return &Return{Value: val}, nil

	case "print", "log":
		val, err := decodeNode(path, body)
		if err != nil {
			return nil, err
		}
		return &Print{Value: val}, nil
	}

	return nil, errors.Errorf("%s: unknown node kind %q", path, kind)
}

func decodeBinary(path string, op Operator, body any) (Node, error) {
	operands, ok := body.([]any)
	if !ok || len(operands) != 2 {
		return nil, errors.Errorf("%s: operator %q takes a list of two operands", path, op.Symbol)
	}
	left, err := decodeNode(path+"[0]", operands[0])
	if err != nil {
		return nil, err
	}
	right, err := decodeNode(path+"[1]", operands[1])
	if err != nil {
		return nil, err
	}
	return NewBinaryOp(op, left, right), nil
}

func decodeAssign(path string, body any) (Node, error) {
	var target, value any
	switch v := body.(type) {
	case []any:
		if len(v) != 2 {
			return nil, errors.Errorf("%s: assignment takes [target, value]", path)
		}
		target, value = v[0], v[1]
	default:
		f, err := decodeFields(path, body, "target", "value")
		if err != nil {
			return nil, err
		}
		target, value = f["target"], f["value"]
	}

	name, err := decodeName(path+".target", target)
	if err != nil {
		return nil, err
	}
	val, err := decodeNode(path+".value", value)
	if err != nil {
		return nil, err
	}
	return &Assign{Target: &VariableRef{Name: name}, Value: val}, nil
}

func decodeFunction(path string, body any) (Node, error) {
	f, err := decodeFields(path, body, "name", "params", "body")
	if err != nil {
		return nil, err
	}
	name, err := decodeName(path+".name", f["name"])
	if err != nil {
		return nil, err
	}

	var names []string
	if raw := f["params"]; raw != nil {
		items, ok := raw.([]any)
		if !ok {
			return nil, errors.Errorf("%s.params: parameters must be a list of names", path)
		}
		seen := map[string]bool{}
		for i, item := range items {
			param, err := decodeName(fmt.Sprintf("%s.params[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			if seen[param] {
				return nil, errors.Errorf("%s.params[%d]: duplicate parameter %q", path, i, param)
			}
			seen[param] = true
			names = append(names, param)
		}
	}

	fnBody, err := decodeNode(path+".body", f["body"])
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: name, Params: Params(names...), Body: fnBody}, nil
}

func decodeArgs(path string, body any) (*ArgList, error) {
	if body == nil {
		return nil, nil
	}
	items, ok := body.([]any)
	if !ok {
		return nil, errors.Errorf("%s: arguments must be a list", path)
	}
	nodes := make([]Node, len(items))
	for i, item := range items {
		node, err := decodeNode(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return NewArgList(nodes...), nil
}

// decodeFields checks that body is a mapping with only the allowed keys.
// Missing keys read as nil.
func decodeFields(path string, body any, allowed ...string) (map[string]any, error) {
	var fields map[string]any
	switch v := body.(type) {
	case map[string]any:
		fields = v
	case map[any]any:
		fields = make(map[string]any, len(v))
		for k, val := range v {
			fields[fmt.Sprint(k)] = val
		}
	default:
		return nil, errors.Errorf("%s: expected a mapping of %s, got %T", path, strings.Join(allowed, ", "), body)
	}
	for key := range fields {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return nil, errors.Errorf("%s: unknown field %q", path, key)
		}
	}
	return fields, nil
}

func decodeName(path string, doc any) (string, error) {
	name, ok := doc.(string)
	if !ok {
		return "", errors.Errorf("%s: expected a name, got %T", path, doc)
	}
	if name == "" {
		return "", errors.Errorf("%s: empty name", path)
	}
	return name, nil
}

// toInt64 reports whether doc is numeric, converting it when it fits.
func toInt64(path string, doc any) (int64, bool, error) {
	switch v := doc.(type) {
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, true, errors.Errorf("%s: integer %d out of range", path, v)
		}
		return int64(v), true, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, true, errors.Errorf("%s: %v is not an integer", path, v)
		}
		return int64(v), true, nil
	}
	return 0, false, nil
}

func keyList(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}
