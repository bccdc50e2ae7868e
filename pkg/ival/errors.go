package ival

import (
	"errors"
	"fmt"
	"strings"
)

// FaultKind enumerates the runtime faults that abort an evaluation.
type FaultKind int

const (
	UndefinedFunction FaultKind = iota + 1
	ArgumentCountMismatch
	UndefinedVariable
	DivisionByZero
	StackExhausted
)

func (k FaultKind) String() string {
	switch k {
	case UndefinedFunction:
		return "undefined function"
	case ArgumentCountMismatch:
		return "argument count mismatch"
	case UndefinedVariable:
		return "undefined variable"
	case DivisionByZero:
		return "division by zero"
	case StackExhausted:
		return "stack exhausted"
	default:
		return fmt.Sprintf("fault(%d)", int(k))
	}
}

// Fault is an unrecoverable runtime error. Faults are never caught by the
// evaluator; they travel back to the caller of Run unchanged.
type Fault struct {
	Kind FaultKind
	// Name is the function or variable the fault is about, if any.
	Name string
	// Detail is a human readable explanation, e.g. "want 2 arguments, got 1".
	Detail string
}

// Sentinel faults for use with errors.Is. Matching compares only the kind.
var (
	ErrUndefinedFunction     = &Fault{Kind: UndefinedFunction}
	ErrArgumentCountMismatch = &Fault{Kind: ArgumentCountMismatch}
	ErrUndefinedVariable     = &Fault{Kind: UndefinedVariable}
	ErrDivisionByZero        = &Fault{Kind: DivisionByZero}
	ErrStackExhausted        = &Fault{Kind: StackExhausted}
)

func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString(f.Kind.String())
	if f.Name != "" {
		fmt.Fprintf(&b, " %q", f.Name)
	}
	if f.Detail != "" {
		b.WriteString(": ")
		b.WriteString(f.Detail)
	}
	return b.String()
}

func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	return ok && t.Kind == f.Kind
}

// KindOf returns the kind of the first Fault in err's chain.
func KindOf(err error) (FaultKind, bool) {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Kind, true
	}
	return 0, false
}
