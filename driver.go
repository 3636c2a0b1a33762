package jhp

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/caboodle-tech/jhp-go/markup"
	"github.com/caboodle-tech/jhp-go/rewrite"
)

// run implements the template driver (§4.7) for the outermost call on a
// freshly-reset Document.
func (d *Document) run(input string) string {
	var raw string
	if classifyInput(input) {
		data, err := d.readFile(input)
		if err != nil {
			d.writeRaw(errorEnvelope(&FileReadError{Path: input, Err: err}))
			return d.finish()
		}
		raw = string(data)
	} else {
		raw = input
	}

	tree := markup.Parse(raw, d.tagSet)
	d.runHooks(d.preHooks, tree)
	text := markup.Serialize(tree, true)

	d.processScriptRegions(text)

	if d.cond.open {
		d.writeRaw(errorEnvelope(&UnclosedConditionalError{}))
	}

	return d.finish()
}

// finish re-parses the accumulated buffer, runs post-hooks over the
// resulting tree, and serializes it as the Process return value (§4.7
// steps 5-6). It is also the fallback path when the top-level input could
// not be read at all.
func (d *Document) finish() string {
	finalText := d.buf.String()
	finalTree := markup.Parse(finalText, d.tagSet)
	d.runHooks(d.postHooks, finalTree)
	return markup.Serialize(finalTree, !d.hideComments)
}

func (d *Document) runHooks(hooks []Hook, tree *markup.Node) {
	ctx := &HookContext{Cwd: d.cwd, Tree: tree, RelPath: d.relPath}
	for _, h := range hooks {
		d.logger().Debug("running hook", "cwd", d.cwd, "relPath", d.relPath)
		h(ctx)
	}
}

// processScriptRegions implements §4.7 steps 4-5: scan text for
// well-formed script-tag pairs, interleave the intervening markup with
// rewritten-and-evaluated script bodies, then append the trailing markup.
// It is also what $.include's "process the file" calls directly against an
// included file's raw bytes, skipping the tokenize/hook step (hooks run
// once, over the fully-assembled top-level document; see DESIGN.md).
func (d *Document) processScriptRegions(text string) {
	blocks := findScriptBlocks(text, d.tagSet)
	pos := 0
	for _, b := range blocks {
		if b.start > pos {
			d.appendOutput(text[pos:b.start])
		}
		d.evalBlock(b.body)
		pos = b.end
	}
	if pos < len(text) {
		d.appendOutput(text[pos:])
	}
}

// evalBlock rewrites and evaluates one script block's raw body (§4.4,
// §4.5), catching and enveloping any evaluation error (§7: "caught per
// script block; rendered as << Error: message. >>; driver continues").
func (d *Document) evalBlock(body string) {
	script := rewrite.Rewrite(body, d.constants, d.context)

	vm := goja.New()
	if err := vm.Set("$", buildDollarObject(vm, d)); err != nil {
		d.logger().Debug("script evaluation failed to bind $", "error", err)
		d.writeRaw(errorEnvelope(&EvaluationError{Err: err}))
		return
	}

	if _, err := vm.RunString(script); err != nil {
		d.logger().Debug("script block evaluation failed", "error", err)
		d.writeRaw(errorEnvelope(&EvaluationError{Err: err}))
	}
}

// scriptBlock is one regex match of a well-formed <tag>...</tag> pair in
// the serialized document text.
type scriptBlock struct {
	start, end int
	body       string
}

var tagPatternCache sync.Map // string -> *regexp.Regexp

// scriptTagPattern returns (and caches) the non-backreference regex for one
// tag name: Go's RE2 engine has no backreferences, so a single pattern
// covering "any configured tag name, opened and closed with the same name"
// isn't expressible directly -- instead one pattern per configured name is
// compiled and their matches are merged in document order (§4.7 step 4).
// The cache is a sync.Map since distinct Documents (even concurrent ones,
// per §5) share it across Engines.
func scriptTagPattern(tag string) *regexp.Regexp {
	if re, ok := tagPatternCache.Load(tag); ok {
		return re.(*regexp.Regexp)
	}
	q := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?is)<` + q + `(?:\s[^>]*)?>(.*?)</` + q + `>`)
	actual, _ := tagPatternCache.LoadOrStore(tag, re)
	return actual.(*regexp.Regexp)
}

// findScriptBlocks returns every well-formed script-tag pair in text, in
// document order, across all configured tag names.
func findScriptBlocks(text string, tags markup.ScriptTags) []scriptBlock {
	var blocks []scriptBlock
	for tag := range tags {
		re := scriptTagPattern(tag)
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			blocks = append(blocks, scriptBlock{start: m[0], end: m[1], body: text[m[2]:m[3]]})
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })
	return blocks
}

// classifyInput implements the path/source discriminator (§4.7 step 2):
// reports true if input should be treated as a file path.
func classifyInput(input string) bool {
	if strings.ContainsAny(input, "{}<>;") {
		return false
	}
	if looksLikePath(input) {
		return true
	}
	return false
}

func looksLikePath(input string) bool {
	switch {
	case strings.HasPrefix(input, "./"), strings.HasPrefix(input, "../"):
		return true
	case strings.HasPrefix(input, "/"):
		return true
	case strings.HasPrefix(input, `\\`):
		return true
	case len(input) >= 3 && isDriveLetter(input[0]) && input[1] == ':' && (input[2] == '\\' || input[2] == '/'):
		return true
	}
	if strings.ContainsAny(input, `/\`) && strings.Contains(filepath.Ext(input), ".") {
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
