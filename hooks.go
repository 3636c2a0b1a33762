package jhp

import (
	"strings"

	"github.com/caboodle-tech/jhp-go/markup"
)

// urlRewriteHook is the built-in post-hook registered when
// Engine.RegisterBuiltinHooks is set (§6, §12). It rewrites root-relative
// href/src attribute values by prefixing them with the document's
// rel-path, adapted from the teacher's asset URL-prefixing concept
// (asset.go) but operating over markup.Node instead of a DOM tree, and
// without the asset-hashing machinery that serves an HTTP asset server
// (out of this spec's scope).
func urlRewriteHook(ctx *HookContext) {
	if ctx.RelPath == "" || ctx.Tree == nil {
		return
	}
	prefix := strings.TrimSuffix(ctx.RelPath, "/")

	for _, attrName := range [...]string{"href", "src"} {
		for _, n := range markup.FindByAttribute(ctx.Tree, attrName) {
			idx := attrIndex(n, attrName)
			if idx < 0 {
				continue
			}
			a := n.Attrs[idx]
			if !a.HasValue() {
				continue
			}
			v := a.StringValue()
			if !strings.HasPrefix(v, "/") || strings.HasPrefix(v, "//") {
				continue
			}
			n.Attrs[idx] = markup.ValueAttrQuoted(attrName, prefix+v, a.Quote)
		}
	}
}

func attrIndex(n *markup.Node, name string) int {
	for i := range n.Attrs {
		if strings.EqualFold(n.Attrs[i].Name, name) {
			return i
		}
	}
	return -1
}
