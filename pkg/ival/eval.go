package ival

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kr/pretty"
)

// Run evaluates root against a fresh Context and returns its value, which
// the driver uses as the program's exit code.
func Run(ctx context.Context, root Node, opts Options) (int64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	cx := NewContext(opts)

	result, err := root.Eval(ctx, cx)
	if err != nil {
		if kind, ok := KindOf(err); ok {
			slog.Debug("evaluation faulted", "kind", kind.String(), "error", err)
		}
		return 0, err
	}

	slog.Debug("evaluation completed", "result", result, "functions", cx.Functions())

	return result, nil
}

// RunFile decodes a tree document and runs it.
func RunFile(ctx context.Context, filePath string, opts Options, debug bool) (int64, error) {
	root, err := DecodeFile(filePath)
	if err != nil {
		return 0, err
	}

	if debug {
		_, _ = pretty.Fprintf(os.Stderr, "%# v\n", root)
	}

	slog.Debug("loaded program", "file", filePath, "nodes", CountNodes(root))

	result, err := Run(ctx, root, opts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filePath, err)
	}
	return result, nil
}

// CountNodes returns the number of nodes in the tree rooted at root.
func CountNodes(root Node) int {
	n := 0
	root.Walk(func(Node) bool {
		n++
		return true
	})
	return n
}
