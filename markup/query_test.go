package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByTagAndAttribute(t *testing.T) {
	root := Parse(`<div id="a"><span class="x">1</span></div><span data-y>2</span>`, ScriptTags{})
	spans := FindByTag(root, "SPAN")
	assert.Len(t, spans, 2)

	withY := FindByAttribute(root, "data-y")
	assert.Len(t, withY, 1)
}

func TestQueryAllSelectors(t *testing.T) {
	src := `<div id="main"><p class="a b">1</p><p class="b">2</p></div><p>3</p>`
	root := Parse(src, ScriptTags{})

	tag := QueryAll(root, "p")
	assert.Len(t, tag, 3)

	byClass := QueryAll(root, ".a")
	assert.Len(t, byClass, 1)

	descendant := QueryAll(root, "#main p")
	assert.Len(t, descendant, 2)

	union := QueryAll(root, "#main, p")
	// document order, deduplicated: <div id=main>, and all 3 <p>
	assert.Len(t, union, 4)

	not := QueryAll(root, "p:not(.b)")
	assert.Len(t, not, 1)

	first := QueryFirst(root, "p")
	assert.NotNil(t, first)
}

func TestQueryAllNoDuplicates(t *testing.T) {
	src := `<div class="x" id="y"><p>a</p></div>`
	root := Parse(src, ScriptTags{})
	res := QueryAll(root, "div, .x, #y")
	assert.Len(t, res, 1)
}
