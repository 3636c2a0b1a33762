package rewrite

import (
	"fmt"
	"strings"
)

// tokenKind classifies one lexical unit of a best-effort JavaScript-like
// scan. The scanner is deliberately permissive: it exists only to locate
// comments, string/template/regex literals (so their contents are never
// mistaken for code), and bare identifiers/punctuation, not to build a full
// grammar tree. This stands in for the "permissive parser with source
// offsets and a comment callback" the rewrite phases are specified against.
type tokenKind int

const (
	tokComment tokenKind = iota
	tokString
	tokTemplate
	tokRegex
	tokIdent
	tokNumber
	tokPunct
)

type token struct {
	kind  tokenKind
	start int
	end   int
	text  string
}

// scan tokenizes src. It returns an error if a string, template literal, or
// block comment is left unterminated -- callers treat that as parser
// failure and fall back to the unmodified source, matching the spec's
// "on parser failure the unmodified text is returned" rule.
func scan(src string) ([]token, error) {
	var toks []token
	i := 0
	n := len(src)
	// prevSignificant tracks the last non-trivial token emitted, used to
	// decide whether a leading '/' opens a regex literal (after an
	// operator/punctuation/keyword) or is division (after an identifier,
	// number, or closing bracket).
	var prevSignificant *token

	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			j := strings.IndexByte(src[i:], '\n')
			end := n
			if j >= 0 {
				end = i + j
			}
			toks = append(toks, token{tokComment, i, end, src[i:end]})
			i = end
		case c == '/' && i+1 < n && src[i+1] == '*':
			j := strings.Index(src[i+2:], "*/")
			if j < 0 {
				return nil, fmt.Errorf("unterminated block comment at %d", i)
			}
			end := i + 2 + j + 2
			toks = append(toks, token{tokComment, i, end, src[i:end]})
			i = end
		case c == '"' || c == '\'':
			end, err := scanQuoted(src, i, c)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, i, end, src[i:end]})
			i = end
		case c == '`':
			end, err := scanTemplate(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokTemplate, i, end, src[i:end]})
			i = end
		case c == '/' && regexAllowed(prevSignificant):
			end, ok := scanRegex(src, i)
			if ok {
				toks = append(toks, token{tokRegex, i, end, src[i:end]})
				i = end
				continue
			}
			toks = append(toks, token{tokPunct, i, i + 1, "/"})
			i++
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, i, j, src[i:j]})
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < n && (isIdentPart(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, i, j, src[i:j]})
			i = j
		default:
			toks = append(toks, token{tokPunct, i, i + 1, string(c)})
			i++
		}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			if last.kind != tokComment {
				prevSignificant = &toks[len(toks)-1]
			}
		}
	}
	return toks, nil
}

// regexAllowed decides whether a '/' at the scan head opens a regex literal
// based on the previous significant token, using the conventional JS
// heuristic: a regex cannot directly follow an identifier, number, string,
// template, or a closing bracket/paren (those contexts mean division).
func regexAllowed(prev *token) bool {
	if prev == nil {
		return true
	}
	switch prev.kind {
	case tokIdent:
		return isKeyword(prev.text) && prev.text != "this"
	case tokNumber, tokString, tokTemplate, tokRegex:
		return false
	case tokPunct:
		switch prev.text {
		case ")", "]", "}":
			return false
		}
		return true
	}
	return true
}

func scanQuoted(src string, start int, quote byte) (int, error) {
	i := start + 1
	n := len(src)
	for i < n {
		c := src[i]
		if c == '\\' && i+1 < n {
			i += 2
			continue
		}
		if c == quote {
			return i + 1, nil
		}
		if c == '\n' {
			return 0, fmt.Errorf("unterminated string literal at %d", start)
		}
		i++
	}
	return 0, fmt.Errorf("unterminated string literal at %d", start)
}

// scanTemplate scans a backtick template literal, skipping over ${...}
// interpolation spans (which may themselves contain nested templates,
// strings, and braces) without interpreting their contents further.
func scanTemplate(src string, start int) (int, error) {
	i := start + 1
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '\\' && i+1 < n:
			i += 2
		case c == '`':
			return i + 1, nil
		case c == '$' && i+1 < n && src[i+1] == '{':
			depth := 1
			i += 2
			for i < n && depth > 0 {
				switch src[i] {
				case '{':
					depth++
					i++
				case '}':
					depth--
					i++
				case '`':
					end, err := scanTemplate(src, i)
					if err != nil {
						return 0, err
					}
					i = end
				case '"', '\'':
					end, err := scanQuoted(src, i, src[i])
					if err != nil {
						return 0, err
					}
					i = end
				default:
					i++
				}
			}
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated template literal at %d", start)
}

func scanRegex(src string, start int) (int, bool) {
	i := start + 1
	n := len(src)
	inClass := false
	for i < n {
		c := src[i]
		switch {
		case c == '\\' && i+1 < n:
			i += 2
		case c == '\n':
			return 0, false
		case c == '[':
			inClass = true
			i++
		case c == ']':
			inClass = false
			i++
		case c == '/' && !inClass:
			i++
			for i < n && isIdentPart(src[i]) {
				i++
			}
			return i, true
		default:
			i++
		}
	}
	return 0, false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

var jsKeywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "let": true, "new": true, "return": true, "super": true,
	"switch": true, "throw": true, "try": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true, "await": true,
	"async": true, "of": true, "static": true, "true": true, "false": true,
	"null": true, "undefined": true,
}

func isKeyword(s string) bool { return jsKeywords[s] }
