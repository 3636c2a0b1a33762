package jhp

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caboodle-tech/jhp-go/markup"
)

// Document holds the mutable state exclusively owned by one Process call:
// the shared script context, the constants table, the output-buffer stack,
// the current working directory, the root directory, the conditional
// state machine, and the buffer script blocks and literal markup write
// into. It is reset at the start of every Process call (SPEC_FULL.md §3).
type Document struct {
	engine *Engine

	constants map[string]any
	context   map[string]any

	tagSet markup.ScriptTags

	cwd     string
	root    string
	relPath string

	// buf is the current document buffer. It is swapped out for the
	// duration of a capture-mode include (§4.5 include).
	buf *strings.Builder

	obOpen bool
	obBuf  *strings.Builder

	cond *conditionalScope

	// extensions holds the source text of every $.extend-registered
	// method, keyed by name. Each script block evaluates in a fresh
	// goja.Runtime (§5), so a goja.Value from one block's VM cannot be
	// reused directly in the next; persisting the function's own source
	// text (via Value.String(), which goja renders as the original JS
	// source for script-defined functions) and re-evaluating it against
	// the new VM is how extend() registrations survive across blocks, the
	// same way plain variables survive via the context/constants prelude.
	extensions map[string]string

	preHooks  []Hook
	postHooks []Hook

	hideComments bool
}

func newDocument(e *Engine, opts ProcessOptions) *Document {
	root := e.RootDirectory
	if root == "" {
		root = opts.Cwd
	}

	constants := make(map[string]any, len(e.InitialConstants))
	for k, v := range e.InitialConstants {
		constants[k] = v
	}

	context := make(map[string]any, len(opts.Context))
	for k, v := range opts.Context {
		context[k] = v
	}

	pre := make([]Hook, 0, len(e.PreHooks)+len(opts.PreHooks))
	pre = append(pre, e.PreHooks...)
	pre = append(pre, opts.PreHooks...)

	post := make([]Hook, 0, len(e.PostHooks)+len(opts.PostHooks)+1)
	if e.RegisterBuiltinHooks {
		post = append(post, urlRewriteHook)
	}
	post = append(post, e.PostHooks...)
	post = append(post, opts.PostHooks...)

	return &Document{
		engine:       e,
		constants:    constants,
		context:      context,
		tagSet:       e.tagSetValue(),
		cwd:          opts.Cwd,
		root:         root,
		relPath:      opts.RelPath,
		buf:          &strings.Builder{},
		obBuf:        &strings.Builder{},
		cond:         newConditionalScope(),
		extensions:   make(map[string]string),
		preHooks:     pre,
		postHooks:    post,
		hideComments: e.HideComments,
	}
}

func (d *Document) logger() *slog.Logger { return d.engine.logger() }

// appendOutput writes content to the currently-active buffer, but only if
// the conditional scope is showing (§4.5 echo: "If scope's show() is
// false, no-op"). The driver's literal-markup interleaving uses this same
// gating, since it is specified in the same terms as echo.
func (d *Document) appendOutput(s string) {
	if !d.cond.showing() {
		return
	}
	d.writeRaw(s)
}

// writeRaw writes content to the currently-active buffer unconditionally.
// Recoverable errors use this: a caller debugging a false conditional
// branch should still see why an include or constant redeclaration failed.
func (d *Document) writeRaw(s string) {
	if d.obOpen {
		d.obBuf.WriteString(s)
		return
	}
	d.buf.WriteString(s)
}

func (d *Document) readFile(path string) ([]byte, error) {
	if d.engine.ReadFile == nil {
		return nil, &FileReadError{Path: path, Err: errNoReadFile}
	}
	return d.engine.ReadFile(path)
}

// include implements §4.5 include's resolve/process/restore behavior. The
// caller (the runtime's Include method) has already checked show().
func (d *Document) include(ref string, capture bool) any {
	res, ok := resolveInclude(ref, d.cwd, d.root, d.readFile)
	if !ok {
		err := &IncludeNotFoundError{Reference: ref}
		envelope := errorEnvelope(err)
		d.writeRaw(envelope)
		return envelope
	}

	savedCwd := d.cwd
	d.cwd = filepath.Dir(res.path)
	defer func() { d.cwd = savedCwd }()

	if capture {
		savedBuf := d.buf
		d.buf = &strings.Builder{}
		d.processScriptRegions(string(res.data))
		captured := d.buf.String()
		d.buf = savedBuf
		return captured
	}

	d.processScriptRegions(string(res.data))
	return nil
}

func (e *Engine) tagSetValue() markup.ScriptTags {
	names := e.tagNames()
	tags := make(markup.ScriptTags, len(names))
	for _, n := range names {
		tags[strings.ToLower(n)] = true
	}
	return tags
}
