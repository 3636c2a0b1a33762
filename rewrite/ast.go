package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caboodle-tech/jhp-go/value"
)

// builtinGlobals is the fixed allow-list of identifiers that never count as
// "undefined" during Phase D's used-but-undeclared pass: standard globals
// the evaluator is expected to provide regardless of prelude bindings.
var builtinGlobals = map[string]bool{
	"Array": true, "Object": true, "String": true, "Number": true,
	"Boolean": true, "Date": true, "RegExp": true, "Math": true,
	"JSON": true, "console": true, "Symbol": true, "Map": true, "Set": true,
	"Promise": true, "Error": true, "TypeError": true, "RangeError": true,
	"parseInt": true, "parseFloat": true, "isNaN": true, "isFinite": true,
	"encodeURIComponent": true, "decodeURIComponent": true,
	"Infinity": true, "NaN": true, "globalThis": true, "this": true,
	"eval": true, "arguments": true, "$": true,
}

type edit struct {
	start int
	end   int
	text  string
}

// applyASTPass implements Phase D: it deletes comments, rewrites lexical
// declaration keywords to a rebindable form, turns assignment-position
// `$.include(...)` calls into capture-mode calls, and stubs identifiers
// that are used but neither declared, built in, nor present in context or
// constants. Returns an error (triggering fallback to unmodified text) if
// the fragment cannot be scanned.
func applyASTPass(src string, context, constants map[string]any) (string, error) {
	toks, err := scan(src)
	if err != nil {
		return "", err
	}

	declared := map[string]bool{}
	used := map[string]bool{}
	var edits []edit

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.kind == tokComment:
			edits = append(edits, edit{t.start, t.end, ""})
			i++
		case t.kind == tokIdent && (t.text == "const" || t.text == "let"):
			if isDeclarationPosition(toks, i) {
				names, end := declaratorNamesInRange(toks, i+1)
				for _, n := range names {
					declared[n] = true
				}
				replacement := "var"
				if lexicalDeclConflictsWithContext(names, context) {
					replacement = ""
				}
				edits = append(edits, edit{t.start, t.end, replacement})
				i = end
				continue
			}
			i++
		case t.kind == tokIdent && t.text == "var":
			names, end := declaratorNamesInRange(toks, i+1)
			for _, n := range names {
				declared[n] = true
			}
			i = end
			continue
		case t.kind == tokIdent && t.text == "function":
			name, paramEnd := collectFunctionHeader(toks, i+1, declared)
			_ = name
			i = paramEnd
			continue
		case t.kind == tokIdent:
			classifyIdentUse(toks, i, declared, used)
			i++
		default:
			i++
		}
	}

	rewriteIncludeCaptureCalls(toks, &edits)

	result := applyEdits(src, edits)

	var stubs []string
	for name := range used {
		if declared[name] || builtinGlobals[name] || jsKeywords[name] {
			continue
		}
		if _, ok := context[name]; ok {
			continue
		}
		if _, ok := constants[name]; ok {
			continue
		}
		sentinel := fmt.Sprintf("<< Undefined: %s >>", name)
		stubs = append(stubs, fmt.Sprintf("let %s = %s;", name, value.Serialize(sentinel)))
	}
	sort.Strings(stubs)
	if len(stubs) > 0 {
		result = strings.Join(stubs, "\n") + "\n" + result
	}
	return result, nil
}

// isDeclarationPosition reports whether the const/let token at toks[i] sits
// at a statement boundary (as opposed to being used, implausibly, as a
// plain identifier -- const/let are reserved words so this is nearly
// always true, but the check keeps the rewrite conservative).
func isDeclarationPosition(toks []token, i int) bool {
	if i == 0 {
		return true
	}
	prev := toks[i-1]
	if prev.kind == tokPunct {
		switch prev.text {
		case ";", "{", "}", "(":
			return true
		}
		return false
	}
	if prev.kind == tokIdent {
		switch prev.text {
		case "for", "of", "in":
			return true
		}
	}
	return true
}

// collectFunctionHeader reads a function name and its parameter list,
// marking both as declared, and returns the function name plus the index
// just past the header's closing paren.
func collectFunctionHeader(toks []token, start int, declared map[string]bool) (string, int) {
	i := start
	name := ""
	if i < len(toks) && toks[i].kind == tokIdent {
		name = toks[i].text
		declared[name] = true
		i++
	}
	if i >= len(toks) || toks[i].kind != tokPunct || toks[i].text != "(" {
		return name, i
	}
	depth := 0
	for i < len(toks) {
		t := toks[i]
		if t.kind == tokPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				depth--
				i++
				if depth == 0 {
					return name, i
				}
				continue
			}
		} else if t.kind == tokIdent && depth == 1 {
			declared[t.text] = true
		}
		i++
	}
	return name, i
}

// classifyIdentUse records a non-keyword identifier as "used" unless it is
// a property-access member (preceded by '.') or an object-literal /
// labeled-statement key (followed by ':').
func classifyIdentUse(toks []token, i int, declared, used map[string]bool) {
	t := toks[i]
	if jsKeywords[t.text] {
		return
	}
	if i > 0 {
		prev := toks[i-1]
		if prev.kind == tokPunct && prev.text == "." {
			return
		}
	}
	if i+1 < len(toks) {
		next := toks[i+1]
		if next.kind == tokPunct && next.text == ":" {
			return
		}
	}
	used[t.text] = true
}

// rewriteIncludeCaptureCalls finds `$.include(...)` calls that appear as
// the initializer of a declarator or the right-hand side of an assignment,
// and inserts a trailing `, true` argument (capture mode).
func rewriteIncludeCaptureCalls(toks []token, edits *[]edit) {
	for i := 0; i+3 < len(toks); i++ {
		if !(toks[i].kind == tokIdent && toks[i].text == "$" &&
			toks[i+1].kind == tokPunct && toks[i+1].text == "." &&
			toks[i+2].kind == tokIdent && toks[i+2].text == "include" &&
			toks[i+3].kind == tokPunct && toks[i+3].text == "(") {
			continue
		}
		if !precededByAssignment(toks, i) {
			continue
		}
		closeIdx, ok := matchingParenToken(toks, i+3)
		if !ok {
			continue
		}
		pos := toks[closeIdx].start
		*edits = append(*edits, edit{pos, pos, ", true"})
	}
}

// precededByAssignment reports whether the `$` identifier at toks[i] is
// immediately preceded (skipping nothing, tokens already exclude
// whitespace) by a declarator `=` or assignment `=` -- i.e. this include
// call is the initializer/RHS, not a bare statement.
func precededByAssignment(toks []token, i int) bool {
	if i == 0 {
		return false
	}
	prev := toks[i-1]
	return prev.kind == tokPunct && prev.text == "="
}

// matchingParenToken returns the index of the token holding the ')' that
// matches the '(' token at openIdx.
func matchingParenToken(toks []token, openIdx int) (int, bool) {
	depth := 0
	for i := openIdx; i < len(toks); i++ {
		if toks[i].kind != tokPunct {
			continue
		}
		switch toks[i].text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// applyEdits splices edits into src, applied in descending start-offset
// order so earlier positions remain valid as later (by position) edits are
// applied first.
func applyEdits(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start > edits[j].start
		}
		return edits[i].end > edits[j].end
	})
	b := []byte(src)
	for _, e := range edits {
		tail := append([]byte{}, b[e.end:]...)
		b = append(b[:e.start], append([]byte(e.text), tail...)...)
	}
	return string(b)
}
