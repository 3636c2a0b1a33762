// Package rewrite implements the script preprocessor: a source-to-source
// rewriter that turns the raw text of one script block into a
// self-contained fragment ready for evaluation against a single `$`
// runtime parameter.
//
// The work is organized into the five phases the engine is specified
// against: sugar expansion (A), a line-level scan that traps declarations,
// reassignments, and conditional-directive sugar (B), prelude injection of
// constants and context (C), a token-level walk that strips comments,
// loosens lexical declarations, rewrites capture-mode includes, and stubs
// undefined identifiers (D), and a conflict pass that resolves a
// declaration shadowing an already-bound context variable (E, folded into
// D's walk since both operate over the same declarator bookkeeping).
package rewrite

// Rewrite produces executable source for one script block's raw body.
// constants and context are the document's current constant and variable
// tables; both are read-only here. On any scan failure, the original body
// is returned unmodified, matching the spec's best-effort fallback.
func Rewrite(body string, constants, context map[string]any) string {
	sugared := expandSugar(body)
	trapped := rewriteLines(sugared, constants)
	prelude := buildPrelude(constants, context)
	assembled := prelude + trapped

	result, err := applyASTPass(assembled, context, constants)
	if err != nil {
		return body
	}
	return result
}

// ReservedMethodNames returns the set of `$`-method names that `extend`
// must refuse to overwrite.
func ReservedMethodNames() map[string]bool {
	out := make(map[string]bool, len(dollarMethods))
	for k, v := range dollarMethods {
		out[k] = v
	}
	return out
}
