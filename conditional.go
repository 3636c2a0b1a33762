package jhp

// endSentinel is the value the runtime's End method feeds into block() to
// signal "$.end()" as opposed to an if/elseif/else truthiness result.
const endSentinel = "__END__"

// conditionalScope is the per-document conditional state machine driven by
// $.if/$.elseif/$.else/$.end (SPEC_FULL.md §4.6). It is intentionally flat:
// nested conditionals are not a goal of this spec (Open Question Q2).
type conditionalScope struct {
	show    bool
	matched bool
	open    bool
}

func newConditionalScope() *conditionalScope {
	return &conditionalScope{show: true}
}

// block advances the state machine given the outcome of one if/elseif/else
// branch, or endSentinel for $.end().
func (c *conditionalScope) block(result any) {
	if s, ok := result.(string); ok && s == endSentinel {
		c.show, c.matched, c.open = true, false, false
		return
	}
	// A conditional block is "open" as soon as any branch runs, whether or
	// not it ends up showing; only $.end() closes it.
	c.open = true
	switch {
	case c.matched:
		c.show = false
	case !truthy(result):
		c.show = false
	default:
		c.show, c.matched = true, true
	}
}

func (c *conditionalScope) showing() bool { return c.show }

// truthy applies JavaScript-style truthiness to a value exported from the
// embedded evaluator: false for nil/undefined, false, 0, NaN, and "";
// true otherwise.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && x == x // x == x excludes NaN
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// conditionalBridge is the value exposed to evaluated script text as
// `$.conditionalScope`. The rewriter passes it by reference into every
// if/elseif/else/end/echo/include call it rewrites; the runtime's methods
// read it directly rather than exposing block()/show() as JS-callable
// methods (scripts never call them themselves, per §4.5).
type conditionalBridge struct {
	scope *conditionalScope
}
