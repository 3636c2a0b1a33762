package jhp

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/caboodle-tech/jhp-go/rewrite"
	"github.com/caboodle-tech/jhp-go/value"
)

// serializeValue is the fallback used by equalValues/stringifyValue for
// value kinds beyond the common scalars: arrays, objects, and anything
// else the value serializer already knows how to render canonically.
func serializeValue(v any) string { return value.Serialize(v) }

// dollar implements the methods of the `$` runtime object (§4.5). One
// instance is created per script-block evaluation; its methods are
// closures over the Document they were built for.
type dollar struct {
	doc *Document
}

// buildDollarObject wires a dollar instance's methods onto a goja object
// under the exact lowercase names the rewriter emits ($.echo, $.context,
// ...), plus the conditionalScope property the rewriter threads through
// if/elseif/else/end/echo/include calls. extend() is wired last since it
// closes over the object it extends.
func buildDollarObject(vm *goja.Runtime, d *Document) *goja.Object {
	r := &dollar{doc: d}
	obj := vm.NewObject()

	must := func(name string, value any) {
		if err := obj.Set(name, value); err != nil {
			panic(err)
		}
	}

	must("context", r.Context)
	must("define", r.Define)
	must("echo", r.Echo)
	must("include", r.Include)
	must("obOpen", r.ObOpen)
	must("obClose", r.ObClose)
	must("obStatus", r.ObStatus)
	must("if", r.If)
	must("elseif", r.Elseif)
	must("else", r.Else)
	must("end", r.End)
	must("version", r.Version)
	must("conditionalScope", &conditionalBridge{scope: d.cond})

	reserved := rewrite.ReservedMethodNames()

	// Rehydrate methods registered by $.extend in an earlier script block
	// of this same document: each block runs in its own goja.Runtime, so
	// the prior block's goja.Value is unusable here, but its source text
	// re-evaluates cleanly against this VM.
	for name, src := range d.extensions {
		if reserved[name] {
			continue
		}
		if v, err := vm.RunString("(" + src + ")"); err == nil {
			must(name, v)
		}
	}

	must("extend", func(name string, value goja.Value) {
		if reserved[name] {
			panic(vm.NewTypeError("cannot override reserved $ method '" + name + "'"))
		}
		if err := obj.Set(name, value); err != nil {
			panic(err)
		}
		d.extensions[name] = value.String()
	})

	return obj
}

// Context implements $.context(name, value) (§4.5): unconditionally sets
// the named variable.
func (r *dollar) Context(name string, value any) {
	r.doc.context[name] = value
}

// Define implements $.define(name, value) (§4.5).
func (r *dollar) Define(name string, value any) {
	d := r.doc
	if _, isVar := d.context[name]; isVar {
		d.writeRaw(errorEnvelope(&VariableThenConstantError{Name: name}))
		return
	}
	if existing, isConst := d.constants[name]; isConst {
		if equalValues(existing, value) {
			return
		}
		d.writeRaw(errorEnvelope(&ConstantRedeclarationError{Name: name}))
		return
	}
	d.constants[name] = value
}

// Echo implements $.echo(content, scope) (§4.5).
func (r *dollar) Echo(content any, scope *conditionalBridge) {
	if scope != nil && !scope.scope.showing() {
		return
	}
	r.doc.appendOutput(stringifyValue(content))
}

// Include implements $.include(ref, scope, capture?) (§4.5). capture is
// variadic because the rewriter only appends the trailing `true` argument
// for assignment-position calls (Phase D); a bare statement call omits it.
func (r *dollar) Include(ref string, scope *conditionalBridge, capture ...bool) any {
	if scope != nil && !scope.scope.showing() {
		return nil
	}
	doCapture := len(capture) > 0 && capture[0]
	return r.doc.include(ref, doCapture)
}

// ObOpen implements $.obOpen() (§4.5, Open Question Q1: a second obOpen
// without an intervening obClose is treated as an error).
func (r *dollar) ObOpen() {
	d := r.doc
	if d.obOpen {
		d.writeRaw(errorEnvelope(&OutputBufferAlreadyOpenError{}))
		return
	}
	d.obOpen = true
	d.obBuf.Reset()
}

// ObClose implements $.obClose() (§4.5).
func (r *dollar) ObClose() string {
	d := r.doc
	if !d.obOpen {
		return ""
	}
	d.obOpen = false
	return strings.TrimSpace(d.obBuf.String())
}

// ObStatus implements $.obStatus() (§4.5).
func (r *dollar) ObStatus() bool { return r.doc.obOpen }

// If implements $.if(result, scope) (§4.5, §4.6).
func (r *dollar) If(result any, scope *conditionalBridge) { scope.scope.block(result) }

// Elseif implements $.elseif(result, scope) (§4.5, §4.6).
func (r *dollar) Elseif(result any, scope *conditionalBridge) { scope.scope.block(result) }

// Else implements $.else(scope): behaves as if(true) at the state-machine
// level (§4.5).
func (r *dollar) Else(scope *conditionalBridge) { scope.scope.block(true) }

// End implements $.end(scope) (§4.5, §4.6).
func (r *dollar) End(scope *conditionalBridge) { scope.scope.block(endSentinel) }

// Version implements $.version(): an opaque implementation version string.
func (r *dollar) Version() string { return "jhp-go/1" }

// equalValues compares two host values for $.define's "constant redefined
// with the same value is a silent success" rule. Values originate from the
// evaluator's export of JS values: float64/string/bool/nil are compared
// directly, and anything else (including the int64 that goja exports for
// integral numbers) is compared by its value-serializer rendering, which is
// already the canonical "same value" representation this engine uses.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		return serializeValue(a) == serializeValue(b)
	}
}

// stringifyValue renders a host value as echo() would coerce it for
// output, not with Go's %v: nil prints as "", not "<nil>", and other
// non-scalar values print as their value-serializer rendering.
func stringifyValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return serializeValue(v)
	}
}
