package rewrite

import (
	"fmt"
	"strings"

	"github.com/caboodle-tech/jhp-go/value"
)

// rewriteLines implements Phase B: a line-level scan over sugar-expanded
// source (Phase A output) that (1) tracks function declarations so their
// names are persisted into context once their body closes, (2) rewrites
// conditional-sugar calls to carry the per-block conditional scope, and
// (3) traps top-level declarations and bare reassignments so they persist
// into context (or, for constants, are rejected with an error envelope).
func rewriteLines(src string, constants map[string]any) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))

	var trackingName string
	var trackingDepth int
	var trackingActive bool

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")

		if trackingActive {
			trackingDepth += braceDelta(line)
			if trackingDepth <= 0 {
				line = line + "\n$.context('" + trackingName + "', " + trackingName + ");"
				trackingActive = false
			}
			out = append(out, line)
			continue
		}

		if name, ok := detectFunctionStart(trimmed); ok {
			depth := braceDelta(line)
			if depth <= 0 {
				line = line + "\n$.context('" + name + "', " + name + ");"
			} else {
				trackingName = name
				trackingDepth = depth
				trackingActive = true
			}
			out = append(out, line)
			continue
		}

		if rewritten, ok := rewriteSoleArgConditional(trimmed, line); ok {
			out = append(out, rewritten)
			continue
		}

		line = rewriteConditionalSugarCalls(line)
		if !strings.HasPrefix(trimmed, "$") {
			line = trapDeclarationsAndReassignments(line, constants)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// detectFunctionStart recognizes a named function declaration
// ("function name(...) ...") or a parenthesized-arrow assignment
// ("name = (...) => ...", optionally preceded by const/let/var) at the
// start of a trimmed line, returning the tracked name.
func detectFunctionStart(trimmed string) (string, bool) {
	if rest, ok := stripPrefixWord(trimmed, "function"); ok {
		rest = strings.TrimLeft(rest, " \t")
		name, after, ok := takeIdent(rest)
		if !ok {
			return "", false
		}
		after = strings.TrimLeft(after, " \t")
		if !strings.HasPrefix(after, "(") {
			return "", false
		}
		return name, true
	}

	s := trimmed
	for _, kw := range []string{"const", "let", "var"} {
		if rest, ok := stripPrefixWord(s, kw); ok {
			s = strings.TrimLeft(rest, " \t")
			break
		}
	}
	name, after, ok := takeIdent(s)
	if !ok {
		return "", false
	}
	after = strings.TrimLeft(after, " \t")
	if !strings.HasPrefix(after, "=") || strings.HasPrefix(after, "==") {
		return "", false
	}
	after = strings.TrimLeft(after[1:], " \t")
	if !strings.HasPrefix(after, "(") {
		return "", false
	}
	closeIdx, ok := findMatchingParen(after, 0)
	if !ok {
		return "", false
	}
	rest2 := strings.TrimLeft(after[closeIdx+1:], " \t")
	if !strings.HasPrefix(rest2, "=>") {
		return "", false
	}
	return name, true
}

func stripPrefixWord(s, word string) (string, bool) {
	if !strings.HasPrefix(s, word) {
		return "", false
	}
	if len(s) > len(word) && isIdentPart(s[len(word)]) {
		return "", false
	}
	return s[len(word):], true
}

func takeIdent(s string) (name string, rest string, ok bool) {
	if s == "" || !isIdentStart(s[0]) {
		return "", s, false
	}
	j := 1
	for j < len(s) && isIdentPart(s[j]) {
		j++
	}
	return s[:j], s[j:], true
}

// braceDelta counts net brace depth change on a single line, skipping the
// contents of quoted strings and line comments.
func braceDelta(line string) int {
	depth := 0
	i := 0
	n := len(line)
	for i < n {
		c := line[i]
		switch {
		case c == '/' && i+1 < n && line[i+1] == '/':
			i = n
		case c == '"' || c == '\'' || c == '`':
			end, err := scanQuoted(line, i, c)
			if err != nil {
				i = n
				break
			}
			i = end
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
		default:
			i++
		}
	}
	return depth
}

// findMatchingParen finds the index (within s) of the ')' matching the '('
// at openIdx, skipping quoted strings.
func findMatchingParen(s string, openIdx int) (int, bool) {
	depth := 0
	i := openIdx
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			end, err := scanQuoted(s, i, c)
			if err != nil {
				return 0, false
			}
			i = end
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return 0, false
}

var conditionalSoleArg = map[string]bool{"$.else": true, "$.end": true}
var conditionalExtraArg = map[string]bool{"$.if": true, "$.elseif": true, "$.echo": true, "$.include": true}

// rewriteSoleArgConditional rewrites a line beginning (after indentation)
// with $.else(...) or $.end(...) to pass $.conditionalScope as its sole
// argument. These are always standalone statements, so the match is
// anchored to the start of the line and trap processing is skipped
// entirely for it.
func rewriteSoleArgConditional(trimmed, original string) (string, bool) {
	indent := original[:len(original)-len(trimmed)]
	for name := range conditionalSoleArg {
		if strings.HasPrefix(trimmed, name+"(") {
			openIdx := len(name)
			closeIdx, ok := findMatchingParen(trimmed, openIdx)
			if !ok {
				return "", false
			}
			rewritten := trimmed[:openIdx+1] + "$.conditionalScope" + trimmed[closeIdx:]
			return indent + rewritten, true
		}
	}
	return "", false
}

// rewriteConditionalSugarCalls appends ", $.conditionalScope" before the
// closing paren of every $.if/$.elseif/$.echo/$.include call anywhere in
// the line (including one nested in another such call's arguments), not
// just ones that begin it: a call can appear as the second
// statement on a line that also traps a declaration (e.g.
// "let content = $.obClose(); $.echo(content);"). Unlike
// rewriteSoleArgConditional this never consumes the whole line; it
// returns the line unchanged if no such call is present.
func rewriteConditionalSugarCalls(line string) string {
	searchFrom := 0
	for {
		bestIdx := -1
		bestLen := 0
		for name := range conditionalExtraArg {
			pat := name + "("
			idx := strings.Index(line[searchFrom:], pat)
			if idx < 0 {
				continue
			}
			idx += searchFrom
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
				bestLen = len(pat)
			}
		}
		if bestIdx < 0 {
			return line
		}
		openIdx := bestIdx + bestLen - 1
		closeIdx, ok := findMatchingParen(line, openIdx)
		if !ok {
			searchFrom = bestIdx + bestLen
			continue
		}
		insertion := ", $.conditionalScope"
		line = line[:closeIdx] + insertion + line[closeIdx:]
		searchFrom = openIdx + 1
	}
}

// splitTopLevel splits s on sep bytes that are not nested inside
// parens/brackets/braces or quoted strings.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			end, err := scanQuoted(s, i, c)
			if err != nil {
				i = n
				continue
			}
			i = end
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// trapDeclarationsAndReassignments implements Phase B.3: declaration and
// bare-reassignment trapping for lines that don't begin with "$".
func trapDeclarationsAndReassignments(line string, constants map[string]any) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	body := strings.TrimRight(trimmed, " \t;")
	hasSemicolon := strings.HasSuffix(strings.TrimRight(trimmed, " \t"), ";")

	for _, kw := range []string{"const", "let", "var"} {
		rest, ok := stripPrefixWord(body, kw)
		if !ok {
			continue
		}
		declList := strings.TrimLeft(rest, " \t")
		if declList == "" {
			continue
		}
		// The declaration ends at the first top-level ';'. Statements after
		// it on the same line are emitted after the context calls below, so
		// they already see the persisted bindings.
		stmts := splitTopLevel(declList, ';')
		declList = stmts[0]
		restStmts := strings.TrimSpace(strings.Join(stmts[1:], ";"))
		chunks := splitTopLevel(declList, ',')
		var declarators []string
		var trailing []string
		for _, chunk := range chunks {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			name, after, ok := takeIdent(chunk)
			if !ok {
				// Destructuring or other complex pattern: pass through
				// unrewritten.
				declarators = append(declarators, chunk)
				continue
			}
			after = strings.TrimLeft(after, " \t")
			if orig, isConst := constants[name]; isConst {
				expr := name
				if strings.HasPrefix(after, "=") {
					expr = strings.TrimSpace(after[1:])
				}
				trailing = append(trailing, fmt.Sprintf("$.define(%s, %s); %s = %s;", quoteJS(name), expr, name, value.Serialize(orig)))
				continue
			}
			declarators = append(declarators, chunk)
			if kw != "var" {
				trailing = append(trailing, fmt.Sprintf("$.context(%s, %s);", quoteJS(name), name))
			}
		}
		var result string
		if len(declarators) > 0 {
			result = indent + kw + " " + strings.Join(declarators, ", ")
			if hasSemicolon || len(trailing) > 0 || restStmts != "" {
				result += ";"
			}
		}
		if len(trailing) > 0 {
			if result != "" {
				result += "\n"
			}
			result += indent + strings.Join(trailing, "\n"+indent)
		}
		if restStmts != "" {
			if result != "" {
				result += "\n"
			}
			result += indent + restStmts
			if hasSemicolon {
				result += ";"
			}
		}
		if result == "" {
			return line
		}
		return result
	}

	name, after, ok := takeIdent(body)
	if !ok {
		return line
	}
	after = strings.TrimLeft(after, " \t")
	if !strings.HasPrefix(after, "=") || strings.HasPrefix(after, "==") {
		return line
	}
	if strings.Contains(line, "$") {
		return line
	}
	expr := strings.TrimSpace(after[1:])
	if orig, isConst := constants[name]; isConst {
		return fmt.Sprintf("%s$.define(%s, %s); %s = %s;", indent, quoteJS(name), expr, name, value.Serialize(orig))
	}
	return fmt.Sprintf("%s%s = %s;\n%s$.context(%s, %s);", indent, name, expr, indent, quoteJS(name), name)
}

func quoteJS(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}
