package markup

import "strings"

// ScriptTags configures which tag names (case-insensitive, no attributes
// expected) mark a script block. The zero value recognizes nothing; use
// DefaultScriptTags for the engine's default set.
type ScriptTags map[string]bool

// DefaultScriptTags returns the implementation-defined default set of
// script tag names.
func DefaultScriptTags() ScriptTags {
	return ScriptTags{"jhp": true, "s_": true, "script": true}
}

func (s ScriptTags) has(name string) bool {
	return s[strings.ToLower(name)]
}

// Parse tokenizes src into a tree rooted at a synthetic Root node, using
// tags to decide which elements are script blocks.
func Parse(src string, tags ScriptTags) *Node {
	t := &tokenizer{src: src, tags: tags, root: NewRoot()}
	t.insertionPoint = t.root
	t.run()
	return t.root
}

type tokenizer struct {
	src  string
	pos  int
	tags ScriptTags

	root           *Node
	insertionPoint *Node
	// openStack is the ancestor chain of open (non-script) TagOpen nodes,
	// from outermost to innermost. insertionPoint is always either root or
	// the last element of openStack.
	openStack []*Node
}

func (t *tokenizer) run() {
	for t.pos < len(t.src) {
		switch {
		case strings.HasPrefix(t.src[t.pos:], "<!--"):
			t.scanHTMLComment()
		case t.src[t.pos] == '<' && t.pos+1 < len(t.src) && t.src[t.pos+1] == '/':
			t.scanCloseTag()
		case t.src[t.pos] == '<' && t.hasTagNameAt(t.pos+1):
			t.scanOpenTag()
		default:
			t.scanText()
		}
	}
}

// hasTagNameAt reports whether a tag name could start at pos: only an ASCII
// letter qualifies. This keeps a bare '<' not followed by a letter (including
// the "<!" of a doctype) from being treated as a tag start; scanText then
// emits that '<' as one byte of text.
func (t *tokenizer) hasTagNameAt(pos int) bool {
	if pos >= len(t.src) {
		return false
	}
	c := t.src[pos]
	return isLetter(c)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':'
}

// scanHTMLComment consumes a <!-- ... --> sequence. If unterminated, per
// §4.1 it is best-effort: advance one byte and let the caller retry.
func (t *tokenizer) scanHTMLComment() {
	start := t.pos
	end := strings.Index(t.src[start+4:], "-->")
	if end < 0 {
		t.pos++
		return
	}
	closeAt := start + 4 + end + 3
	body := t.src[start+4 : start+4+end]
	n := &Node{Kind: Comment, CommentFlavor: HTMLComment, CommentText: body}
	t.insertionPoint.AppendChild(n)
	t.pos = closeAt
}

// scanText consumes a literal run up to the next '<' (or EOF).
func (t *tokenizer) scanText() {
	start := t.pos
	idx := strings.IndexByte(t.src[start:], '<')
	var end int
	if idx < 0 {
		end = len(t.src)
	} else {
		end = start + idx
	}
	t.pos = end
	if end == start {
		// A '<' that didn't qualify as a comment/tag start (e.g. "<" at
		// EOF-1, or "< " with no name char next): emit it as one byte of
		// text and move on so the scan always makes progress.
		t.pos++
		n := &Node{Kind: Text, Text: t.src[start:t.pos]}
		t.insertionPoint.AppendChild(n)
		return
	}
	n := &Node{Kind: Text, Text: t.src[start:end]}
	t.insertionPoint.AppendChild(n)
}

// scanOpenTag parses "<name attrs...>" and, if name is a script tag, the
// whole script body up to and including its matching close tag.
func (t *tokenizer) scanOpenTag() {
	start := t.pos
	t.pos++ // consume '<'
	nameStart := t.pos
	for t.pos < len(t.src) && isNameByte(t.src[t.pos]) {
		t.pos++
	}
	name := t.src[nameStart:t.pos]

	gt := findUnquotedByte(t.src, t.pos, '>')
	if gt < 0 {
		// Unterminated tag: best-effort, treat the '<' as text and retry.
		t.pos = start + 1
		n := &Node{Kind: Text, Text: t.src[start:t.pos]}
		t.insertionPoint.AppendChild(n)
		return
	}
	attrText := t.src[t.pos:gt]
	attrs := parseAttributes(attrText)
	t.pos = gt + 1

	node := &Node{Kind: TagOpen, Name: name, Attrs: attrs}
	t.insertionPoint.AppendChild(node)

	if t.tags.has(name) {
		node.ScriptBlock = true
		t.scanScriptBody(node, name)
		closeNode := &Node{Kind: TagClose, Name: name}
		t.insertionPoint.AppendChild(closeNode)
		return
	}

	t.openStack = append(t.openStack, node)
	t.insertionPoint = node
}

// scanCloseTag parses "</name>" and walks the ancestor chain for a
// matching opener; see §4.1 bullet 3.
func (t *tokenizer) scanCloseTag() {
	start := t.pos
	t.pos += 2 // consume '</'
	nameStart := t.pos
	for t.pos < len(t.src) && isNameByte(t.src[t.pos]) {
		t.pos++
	}
	name := t.src[nameStart:t.pos]
	gt := strings.IndexByte(t.src[t.pos:], '>')
	if gt < 0 {
		t.pos = start + 1
		n := &Node{Kind: Text, Text: t.src[start:t.pos]}
		t.insertionPoint.AppendChild(n)
		return
	}
	t.pos += gt + 1

	for i := len(t.openStack) - 1; i >= 0; i-- {
		if strings.EqualFold(t.openStack[i].Name, name) {
			opener := t.openStack[i]
			parent := opener.Parent
			closeNode := &Node{Kind: TagClose, Name: name}
			parent.AppendChild(closeNode)
			t.openStack = t.openStack[:i]
			t.insertionPoint = parent
			return
		}
	}
	// No matching opener: attach as a child of the current insertion point.
	closeNode := &Node{Kind: TagClose, Name: name}
	t.insertionPoint.AppendChild(closeNode)
}

// scanScriptBody scans the raw content of a script block: a mixed sequence
// of text runs and script comments, stopping right before the matching
// "</name>". It respects quoted strings so that "//", "/*" and "</name>"
// occurring inside a string literal don't terminate anything early.
func (t *tokenizer) scanScriptBody(parent *Node, name string) {
	textStart := t.pos
	flushText := func(end int) {
		if end > textStart {
			parent.AppendChild(&Node{Kind: Text, Text: t.src[textStart:end]})
		}
	}

	closeTag := "</" + strings.ToLower(name)

	for t.pos < len(t.src) {
		if lowerHasPrefixAt(t.src, t.pos, closeTag) {
			after := t.pos + len(closeTag)
			// allow optional whitespace before '>'
			j := after
			for j < len(t.src) && isSpace(t.src[j]) {
				j++
			}
			if j < len(t.src) && t.src[j] == '>' {
				flushText(t.pos)
				t.pos = j + 1
				return
			}
		}

		c := t.src[t.pos]
		switch c {
		case '\'', '"', '`':
			t.skipQuoted(c)
			continue
		case '/':
			if t.pos+1 < len(t.src) && t.src[t.pos+1] == '/' {
				flushText(t.pos)
				start := t.pos
				t.pos += 2
				for t.pos < len(t.src) && t.src[t.pos] != '\n' {
					t.pos++
				}
				parent.AppendChild(&Node{Kind: Comment, CommentFlavor: ScriptSingleLine, CommentText: t.src[start+2 : t.pos]})
				textStart = t.pos
				continue
			}
			if t.pos+1 < len(t.src) && t.src[t.pos+1] == '*' {
				flushText(t.pos)
				start := t.pos
				end := strings.Index(t.src[t.pos+2:], "*/")
				if end < 0 {
					t.pos = len(t.src)
					parent.AppendChild(&Node{Kind: Comment, CommentFlavor: ScriptMultiLine, CommentText: t.src[start+2:]})
					textStart = t.pos
					continue
				}
				t.pos = t.pos + 2 + end + 2
				parent.AppendChild(&Node{Kind: Comment, CommentFlavor: ScriptMultiLine, CommentText: t.src[start+2 : t.pos-2]})
				textStart = t.pos
				continue
			}
			t.pos++
		default:
			t.pos++
		}
	}
	// EOF without a closing tag: flush whatever text remains (best-effort).
	flushText(t.pos)
}

// skipQuoted advances past a quoted string starting at the current quote
// byte, honoring backslash escapes.
func (t *tokenizer) skipQuoted(quote byte) {
	t.pos++ // opening quote
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c == '\\' && t.pos+1 < len(t.src) {
			t.pos += 2
			continue
		}
		t.pos++
		if c == quote {
			return
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func lowerHasPrefixAt(s string, pos int, lowerPrefix string) bool {
	if pos+len(lowerPrefix) > len(s) {
		return false
	}
	return strings.EqualFold(s[pos:pos+len(lowerPrefix)], lowerPrefix)
}

// findUnquotedByte returns the index of the first occurrence of b at or
// after pos that is not inside a single- or double-quoted span.
func findUnquotedByte(s string, pos int, b byte) int {
	i := pos
	for i < len(s) {
		c := s[i]
		if c == '\'' || c == '"' {
			q := c
			i++
			for i < len(s) && s[i] != q {
				i++
			}
			if i < len(s) {
				i++
			}
			continue
		}
		if c == b {
			return i
		}
		i++
	}
	return -1
}

// parseAttributes scans the raw attribute text of a tag, recognizing
// `name`, `name=value`, `name="value"`, and `name='value'`.
func parseAttributes(s string) []Attribute {
	var attrs []Attribute
	i := 0
	n := len(s)
	skipSpace := func() {
		for i < n && isSpace(s[i]) {
			i++
		}
	}
	for {
		skipSpace()
		if i >= n {
			break
		}
		nameStart := i
		for i < n && !isSpace(s[i]) && s[i] != '=' {
			i++
		}
		name := s[nameStart:i]
		if name == "" {
			i++
			continue
		}
		skipSpace()
		if i < n && s[i] == '=' {
			i++
			skipSpace()
			if i < n && (s[i] == '"' || s[i] == '\'') {
				q := s[i]
				i++
				valStart := i
				for i < n && s[i] != q {
					i++
				}
				val := s[valStart:i]
				if i < n {
					i++
				}
				attrs = append(attrs, ValueAttrQuoted(name, val, q))
			} else {
				valStart := i
				for i < n && !isSpace(s[i]) {
					i++
				}
				attrs = append(attrs, ValueAttrQuoted(name, s[valStart:i], 0))
			}
		} else {
			attrs = append(attrs, BareAttr(name))
		}
	}
	return attrs
}
