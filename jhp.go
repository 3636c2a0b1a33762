// Package jhp implements a PHP-style hypertext preprocessor: it consumes a
// source document mixing markup with embedded executable script blocks and
// produces a single static markup document. Each source file may declare
// variables, define constants, include other files, capture regions of
// output into buffers, and gate regions of output by conditional
// directives. Script blocks execute in a shared per-document context so
// that declarations in one block are visible in subsequent blocks and in
// included files.
package jhp

import (
	"log/slog"

	"github.com/caboodle-tech/jhp-go/markup"
)

// Hook is a pure side-effecting tree transformer invoked before (pre-hook)
// or after (post-hook) script evaluation for one document.
type Hook func(ctx *HookContext)

// HookContext is the argument passed to a Hook.
type HookContext struct {
	Cwd     string
	Tree    *markup.Node
	RelPath string
}

// Engine holds constructor-level configuration shared across calls to
// Process. An Engine is safe to reuse across many Process calls but a
// single Process call owns its document state exclusively; see the
// concurrency note on Process.
type Engine struct {
	// InitialConstants seeds the constants table at the start of every
	// Process call.
	InitialConstants map[string]any

	// TagNames is the ordered set of tag names that mark script blocks.
	// DefaultTagNames is used when nil.
	TagNames []string

	// PreHooks and PostHooks run, in order, before and after script
	// evaluation respectively, for every Process call, in addition to any
	// per-call hooks.
	PreHooks  []Hook
	PostHooks []Hook

	// RootDirectory overrides the document's root-relative resolution
	// anchor. If empty, each Process call uses its own Cwd.
	RootDirectory string

	// RegisterBuiltinHooks toggles loading of the engine's built-in hooks
	// (currently a URL-rewrite post-hook).
	RegisterBuiltinHooks bool

	// HideComments suppresses comment nodes (both HTML and script-style)
	// from the final serialized output. Comments are visible by default
	// (§4.1 serialize).
	HideComments bool

	// Logger receives structured diagnostics. A discarding logger is used
	// when nil.
	Logger *slog.Logger

	// ReadFile reads the bytes of a resolved include path. Required to use
	// Include; Process's top-level input may be supplied as inline source
	// instead, bypassing file reads entirely.
	ReadFile func(path string) ([]byte, error)
}

// DefaultTagNames is the implementation-defined default set of tag names
// recognized as script blocks.
var DefaultTagNames = []string{"jhp", "s_", "script"}

// ProcessOptions configures a single Process call.
type ProcessOptions struct {
	// Context seeds per-call variable context (in addition to the
	// engine's InitialConstants, which seed constants).
	Context map[string]any

	// Cwd is the starting working directory for include resolution.
	Cwd string

	// RelPath is passed to URL-rewriting hooks.
	RelPath string

	// PreHooks, PostHooks run for this call only, after the engine's own
	// hooks, then are discarded.
	PreHooks  []Hook
	PostHooks []Hook
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

func (e *Engine) tagNames() []string {
	if len(e.TagNames) > 0 {
		return e.TagNames
	}
	return DefaultTagNames
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Process parses input (a file path or inline source text, discriminated
// per §4.7), runs it through the template driver, and returns the final
// serialized document text. Process is not reentrant for a single call's
// document state, but independent calls (even concurrent ones on separate
// goroutines) against the same Engine are safe since each owns a fresh
// Document.
func (e *Engine) Process(input string, opts ProcessOptions) string {
	d := newDocument(e, opts)
	return d.run(input)
}
