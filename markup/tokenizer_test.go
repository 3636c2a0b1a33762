package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"plain text", "hello world"},
		{"simple tag", "<div>hi</div>"},
		{"nested tags", "<div><p>a</p><p>b</p></div>"},
		{"attrs", `<img src="a.png" alt='b' disabled>`},
		{"html comment", "before<!-- hi -->after"},
		{"script block", "<jhp>let x = 1;</jhp>"},
		{"script with line comment", "<jhp>let x = 1; // note\n</jhp>"},
		{"script with block comment", "<jhp>/* note */let x = 1;</jhp>"},
	}
	tags := DefaultScriptTags()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Parse(tt.src, tags)
			got := Serialize(root, true)
			assert.Equal(t, tt.src, got)
		})
	}
}

func TestScriptBlockQuotedStringNotClosedEarly(t *testing.T) {
	src := "<jhp>let s = \"</jhp>\"; echo(s);</jhp>"
	root := Parse(src, DefaultScriptTags())
	tags := FindByTag(root, "jhp")
	require.Len(t, tags, 1)
	assert.True(t, tags[0].ScriptBlock)
	got := Serialize(root, true)
	assert.Equal(t, src, got)
}

func TestMismatchedCloseTagAttachesAsChild(t *testing.T) {
	root := Parse("<div>a</span>b</div>", DefaultScriptTags())
	div := FindByTag(root, "div")
	require.Len(t, div, 1)
	// The unmatched </span> should not have closed out of <div>: it and "b"
	// stay children of <div>, while the real </div> becomes its sibling.
	var texts []string
	Walk(div[0], func(n *Node) bool {
		if n.Kind == Text {
			texts = append(texts, n.Text)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b"}, texts)
}

func TestRemoveTagOpenRemovesAdjacentClose(t *testing.T) {
	root := Parse("<div>x</div>tail", DefaultScriptTags())
	div := FindByTag(root, "div")
	require.Len(t, div, 1)
	Remove(div[0])
	assert.Equal(t, "tail", Serialize(root, true))
}

func TestIteratorSkipChildren(t *testing.T) {
	root := Parse("<div><p>a</p></div><span>b</span>", DefaultScriptTags())
	var visited []string
	it := NewIterator(root)
	for {
		n, ok := it.Next()
		if !ok {
			break
		}
		if n.Kind == TagOpen {
			visited = append(visited, n.Name)
			if n.Name == "div" {
				it.SkipChildren()
			}
		}
	}
	assert.Equal(t, []string{"div", "span"}, visited)
}

func TestIteratorSurvivesRemoval(t *testing.T) {
	root := Parse("<a></a><b></b><c></c>", ScriptTags{})
	var names []string
	it := NewIterator(root)
	for {
		n, ok := it.Next()
		if !ok {
			break
		}
		if n.Kind != TagOpen {
			continue
		}
		names = append(names, n.Name)
		if n.Name == "a" {
			Remove(n)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestUnterminatedHTMLCommentIsBestEffort(t *testing.T) {
	root := Parse("<!-- never closed", ScriptTags{})
	// Should not hang and should produce some text content rather than a
	// comment node.
	var sawComment bool
	Walk(root, func(n *Node) bool {
		if n.Kind == Comment {
			sawComment = true
		}
		return true
	})
	assert.False(t, sawComment)
}
