package markup

import "strings"

// Serialize renders n (depth-first) back to text. When showComments is
// false, Comment nodes render as the empty string instead of their
// delimited form.
func Serialize(n *Node, showComments bool) string {
	var b strings.Builder
	serializeInto(&b, n, showComments)
	return b.String()
}

func serializeInto(b *strings.Builder, n *Node, showComments bool) {
	switch n.Kind {
	case Root:
		for _, c := range n.Children {
			serializeInto(b, c, showComments)
		}
	case Text:
		b.WriteString(n.Text)
	case Comment:
		if !showComments {
			return
		}
		switch n.CommentFlavor {
		case ScriptSingleLine:
			b.WriteString("//")
			b.WriteString(n.CommentText)
		case ScriptMultiLine:
			b.WriteString("/*")
			b.WriteString(n.CommentText)
			b.WriteString("*/")
		default:
			b.WriteString("<!--")
			b.WriteString(n.CommentText)
			b.WriteString("-->")
		}
	case TagOpen:
		b.WriteByte('<')
		b.WriteString(n.Name)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			if a.HasValue() {
				b.WriteByte('=')
				switch a.Quote {
				case '\'':
					b.WriteByte('\'')
					b.WriteString(a.StringValue())
					b.WriteByte('\'')
				case 0:
					b.WriteString(a.StringValue())
				default:
					b.WriteByte('"')
					b.WriteString(a.StringValue())
					b.WriteByte('"')
				}
			}
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			serializeInto(b, c, showComments)
		}
	case TagClose:
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	}
}
