package ival

import "fmt"

// DefaultMaxCallDepth bounds nested function calls. Go aborts the whole
// process on a real stack overflow, so runaway recursion has to be caught
// well before that.
const DefaultMaxCallDepth = 10000

// MaxAllowedCallDepth caps Options.MaxCallDepth. A single call can stack
// several Eval frames, so the cap stays far below the depth at which the
// goroutine stack limit is reached.
const MaxAllowedCallDepth = 100000

// ScopePolicy decides where a binding is created when a name is referenced
// but not bound in any active scope.
type ScopePolicy string

const (
	CreateInnermost ScopePolicy = "innermost"
	CreateOutermost ScopePolicy = "outermost"
)

// ArgScope decides which scope call-site argument expressions are evaluated
// in.
type ArgScope string

const (
	// ArgsInCallee evaluates arguments after the callee's scope has been
	// pushed, so later arguments can see earlier parameters.
	ArgsInCallee ArgScope = "callee"
	// ArgsInCaller evaluates every argument before the callee's scope exists.
	ArgsInCaller ArgScope = "caller"
)

// Options tunes the runtime semantics of a single run. The zero value is
// usable and means the defaults.
type Options struct {
	// Strict makes reading an unbound variable fault with UndefinedVariable
	// instead of materializing it as zero.
	Strict bool

	// Create is where auto-created bindings live. Defaults to CreateInnermost.
	Create ScopePolicy

	// ArgScope defaults to ArgsInCallee.
	ArgScope ArgScope

	// MaxCallDepth defaults to DefaultMaxCallDepth.
	MaxCallDepth int
}

func (opts Options) withDefaults() Options {
	if opts.Create == "" {
		opts.Create = CreateInnermost
	}
	if opts.ArgScope == "" {
		opts.ArgScope = ArgsInCallee
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	return opts
}

// Validate reports unknown policy names and out of range call depths.
func (opts Options) Validate() error {
	switch opts.Create {
	case "", CreateInnermost, CreateOutermost:
	default:
		return fmt.Errorf("unknown create scope policy %q (want %q or %q)", opts.Create, CreateInnermost, CreateOutermost)
	}
	switch opts.ArgScope {
	case "", ArgsInCallee, ArgsInCaller:
	default:
		return fmt.Errorf("unknown argument scope %q (want %q or %q)", opts.ArgScope, ArgsInCallee, ArgsInCaller)
	}
	if opts.MaxCallDepth < 0 {
		return fmt.Errorf("max call depth must not be negative, got %d", opts.MaxCallDepth)
	}
	if opts.MaxCallDepth > MaxAllowedCallDepth {
		return fmt.Errorf("max call depth %d exceeds the limit of %d", opts.MaxCallDepth, MaxAllowedCallDepth)
	}
	return nil
}
