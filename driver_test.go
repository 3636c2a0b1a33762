package jhp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caboodle-tech/jhp-go/markup"
)

func TestClassifyInputSourceMarkers(t *testing.T) {
	assert.False(t, classifyInput("<div>hi</div>"))
	assert.False(t, classifyInput("{a: 1}"))
	assert.False(t, classifyInput("a; b;"))
}

func TestClassifyInputPathMarkers(t *testing.T) {
	assert.True(t, classifyInput("./pages/index.jhp"))
	assert.True(t, classifyInput("../shared/header.jhp"))
	assert.True(t, classifyInput("/var/www/index.jhp"))
	assert.True(t, classifyInput(`C:\sites\index.jhp`))
	assert.True(t, classifyInput("pages/index.jhp"))
}

func TestClassifyInputAmbiguousIsSource(t *testing.T) {
	assert.False(t, classifyInput("index"))
	assert.False(t, classifyInput("plain text with no markers"))
}

func TestFindScriptBlocksOrdersAcrossTagNames(t *testing.T) {
	tags := markup.ScriptTags{"jhp": true, "script": true}
	text := "a<jhp>one</jhp>b<script>two</script>c"
	blocks := findScriptBlocks(text, tags)
	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "one", blocks[0].body)
		assert.Equal(t, "two", blocks[1].body)
		assert.Less(t, blocks[0].start, blocks[1].start)
	}
}

func TestFindScriptBlocksEmptyWhenNoMatch(t *testing.T) {
	tags := markup.ScriptTags{"jhp": true}
	assert.Empty(t, findScriptBlocks("plain markup, no blocks", tags))
}
