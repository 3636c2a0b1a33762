package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Node's Parent back-pointer makes it cyclic, so testify's assert.Equal
// (which falls back to ObjectsAreEqual/reflect.DeepEqual) cannot compare two
// trees built independently without infinite-looping through Parent; go-cmp
// with an IgnoreFields option is the tool built for exactly this shape.
func TestParseBuildsExpectedTreeShape(t *testing.T) {
	got := Parse(`<div class="a"><p>hi</p></div>`, DefaultScriptTags())

	div := &Node{Kind: TagOpen, Name: "div", Attrs: []Attribute{ValueAttr("class", "a")}}
	p := &Node{Kind: TagOpen, Name: "p"}
	text := &Node{Kind: Text, Text: "hi"}
	pClose := &Node{Kind: TagClose, Name: "p"}
	divClose := &Node{Kind: TagClose, Name: "div"}

	p.Children = []*Node{text}
	div.Children = []*Node{p, pClose}
	want := &Node{Kind: Root, Children: []*Node{div, divClose}}

	opt := cmpopts.IgnoreFields(Node{}, "Parent")
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Errorf("tree shape mismatch (-want +got):\n%s", diff)
	}
}
