// Package markup implements the markup/script splitter: a small
// HTML-flavoured tokenizer that walks a source document and classifies
// regions as literal markup, script block, or comment, with correct
// handling of quoted strings and nested script-style tags.
//
// It is deliberately not a conforming HTML5 parser (see jhp/SPEC_FULL.md
// §1 Non-goals). It produces a tree close to the source, exposes an
// iterator and a small CSS-like selector language, and serializes the
// tree back to text.
package markup

// Kind identifies the variant of a Node.
type Kind int

const (
	// Root is the synthetic node at the top of every parsed tree.
	Root Kind = iota
	// Text holds a literal run of markup text.
	Text
	// Comment holds an HTML or script-style comment.
	Comment
	// TagOpen is an opening tag, possibly marked as a script block.
	TagOpen
	// TagClose is a closing tag, always a sibling of its opener, never
	// its child.
	TagClose
)

// CommentFlavor distinguishes the delimiter style a Comment was written in.
type CommentFlavor int

const (
	// HTMLComment is a <!-- ... --> comment.
	HTMLComment CommentFlavor = iota
	// ScriptSingleLine is a // ... end-of-line comment inside a script block.
	ScriptSingleLine
	// ScriptMultiLine is a /* ... */ comment inside a script block.
	ScriptMultiLine
)

// Attribute is one name/value pair on a TagOpen node. Value is nil for a
// bare attribute (no `=`); it is non-nil but possibly pointing at an empty
// string for `name=""`. The nil sentinel is what lets the serializer tell
// the two cases apart.
//
// Quote records which delimiter the source used for a valued attribute, so
// that Parse followed by Serialize reproduces the source byte-for-byte
// instead of normalizing every attribute to double quotes:
//   - '"' and '\'' mean the value was delimited by that quote character.
//   - 0 means the value was written unquoted (name=value).
// Quote is meaningless when Value is nil.
type Attribute struct {
	Name  string
	Value *string
	Quote byte
}

// HasValue reports whether the attribute was written with a value at all.
func (a Attribute) HasValue() bool {
	return a.Value != nil
}

// StringValue returns the attribute's value, or "" for a bare attribute.
func (a Attribute) StringValue() string {
	if a.Value == nil {
		return ""
	}
	return *a.Value
}

// BareAttr returns an Attribute with no value (renders as a bare attribute).
func BareAttr(name string) Attribute {
	return Attribute{Name: name}
}

// ValueAttr returns an Attribute carrying an explicit (possibly empty) value,
// quoted with double quotes. Use ValueAttrQuoted to control the delimiter,
// e.g. when rewriting a value in place and preserving the source's own
// quote character.
func ValueAttr(name, value string) Attribute {
	return ValueAttrQuoted(name, value, '"')
}

// ValueAttrQuoted returns an Attribute carrying an explicit value, delimited
// per quote ('"', '\'', or 0 for unquoted).
func ValueAttrQuoted(name, value string, quote byte) Attribute {
	v := value
	return Attribute{Name: name, Value: &v, Quote: quote}
}

// Node is one element of the parsed tree. Every non-root node has exactly
// one Parent; Children is an ordered, observable sequence. Closing tags are
// kept as siblings of their opener, never nested inside it.
type Node struct {
	Kind     Kind
	Parent   *Node
	Children []*Node

	// Name is set for TagOpen and TagClose.
	Name string

	// Attrs is set for TagOpen, in source order.
	Attrs []Attribute

	// ScriptBlock marks a TagOpen whose Name matched a configured script
	// tag name; its Children are a flat sequence of Text/Comment nodes.
	ScriptBlock bool

	// Text holds the content of a Text node.
	Text string

	// CommentFlavor and CommentText are set for Comment nodes.
	CommentFlavor CommentFlavor
	CommentText   string
}

// NewRoot returns a fresh, empty root node.
func NewRoot() *Node {
	return &Node{Kind: Root}
}

// AppendChild appends c to n's children and sets its Parent. It panics if c
// is already attached somewhere.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil {
		panic("markup: AppendChild called on an already-attached Node")
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

// indexInParent returns the index of n within n.Parent.Children, or -1 if n
// is detached or not actually present (defensive; should not happen).
func (n *Node) indexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Remove detaches n from its parent. If n is a TagOpen with an adjacent
// sibling TagClose of the same name, that TagClose is removed too, so the
// caller never has to track the pair itself.
func Remove(n *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	i := n.indexInParent()
	if i < 0 {
		return
	}
	p.Children = append(p.Children[:i], p.Children[i+1:]...)
	n.Parent = nil

	if n.Kind == TagOpen && i < len(p.Children) {
		if next := p.Children[i]; next.Kind == TagClose && next.Name == n.Name {
			Remove(next)
		}
	}
}

// IsWhitespace reports whether a Text node's content is entirely
// whitespace (used by callers deciding whether to skip it structurally).
func (n *Node) IsWhitespace() bool {
	if n.Kind != Text {
		return false
	}
	for _, r := range n.Text {
		switch r {
		case ' ', '\t', '\r', '\n', '\f':
		default:
			return false
		}
	}
	return true
}
