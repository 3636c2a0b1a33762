package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSugarKnownMethod(t *testing.T) {
	assert.Equal(t, "$.echo(x);", expandSugar("$echo(x);"))
	assert.Equal(t, "$.include('a');", expandSugar("$include('a');"))
}

func TestExpandSugarLeavesUnknownAndLiterals(t *testing.T) {
	assert.Equal(t, "$total + 1;", expandSugar("$total + 1;"))
	assert.Equal(t, "`$echo(x)`;", expandSugar("`$echo(x)`;"))
	assert.Equal(t, "// $echo(x)", expandSugar("// $echo(x)"))
}

func TestRewriteLinesConditionalSugar(t *testing.T) {
	got := rewriteLines("$.if(a === 1);", nil)
	assert.Equal(t, "$.if(a === 1, $.conditionalScope);", got)

	got = rewriteLines("$.else();", nil)
	assert.Equal(t, "$.else($.conditionalScope);", got)

	got = rewriteLines("$.end();", nil)
	assert.Equal(t, "$.end($.conditionalScope);", got)
}

func TestRewriteLinesConditionalSugarMidLineAlongsideDeclaration(t *testing.T) {
	// $.echo need not begin the line: a declarator's initializer can close
	// over an earlier $.obClose() call on the same line, e.g.
	// "let content = $.obClose(); $.echo(content);". The echo call must
	// still receive $.conditionalScope even though it's the line's second
	// statement, not its first.
	got := rewriteLines("let content = $.obClose(); $.echo(content);", map[string]any{})
	assert.Contains(t, got, "$.echo(content, $.conditionalScope);")
	assert.Contains(t, got, "$.context('content', content);")
}

func TestRewriteLinesDeclarationPersists(t *testing.T) {
	got := rewriteLines("let x = 1;", map[string]any{})
	assert.Equal(t, "let x = 1;\n$.context('x', x);", got)
}

func TestRewriteLinesVarDoesNotPersist(t *testing.T) {
	got := rewriteLines("var x = 1;", map[string]any{})
	assert.Equal(t, "var x = 1;", got)
}

func TestRewriteLinesConstantRedeclare(t *testing.T) {
	got := rewriteLines("K = 2;", map[string]any{"K": 1.0})
	assert.Equal(t, "$.define('K', 2); K = 1;", got)
}

func TestRewriteLinesBareReassignmentPersists(t *testing.T) {
	got := rewriteLines("count = count + 1;", map[string]any{})
	assert.Equal(t, "count = count + 1;\n$.context('count', count);", got)
}

func TestRewriteLinesFunctionTrackerSingleLine(t *testing.T) {
	got := rewriteLines("function greet(name) { return name; }", map[string]any{})
	assert.Equal(t, "function greet(name) { return name; }\n$.context('greet', greet);", got)
}

func TestRewriteLinesFunctionTrackerMultiLine(t *testing.T) {
	src := "function greet(name) {\n  return name;\n}"
	got := rewriteLines(src, map[string]any{})
	assert.Equal(t, src+"\n$.context('greet', greet);", got)
}

func TestBuildPreludeOrdersConstantsThenContext(t *testing.T) {
	got := buildPrelude(map[string]any{"K": 1.0}, map[string]any{"x": "hi"})
	assert.Equal(t, "const K = 1;\nlet x = `hi`;\n", got)
}

func TestApplyASTPassStripsCommentsAndRebindsLexicalDecl(t *testing.T) {
	src := "let x = 1; // note\nlet y = 2;"
	got, err := applyASTPass(src, map[string]any{}, map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "var x = 1; \nvar y = 2;", got)
}

func TestApplyASTPassStubsUndefinedIdentifier(t *testing.T) {
	got, err := applyASTPass("$.echo(missing, $.conditionalScope);", map[string]any{}, map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "let missing = `<< Undefined: missing >>`;\n$.echo(missing, $.conditionalScope);", got)
}

func TestApplyASTPassConflictStripsKeyword(t *testing.T) {
	got, err := applyASTPass("let x = 2;", map[string]any{"x": 1.0}, map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, " x = 2;", got)
}

func TestApplyASTPassCaptureModeInclude(t *testing.T) {
	got, err := applyASTPass("var p = $.include('partial');", map[string]any{}, map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, "var p = $.include('partial', true);", got)
}

func TestRewriteUndefinedIdentifierEndToEnd(t *testing.T) {
	got := Rewrite("$echo(missing);", map[string]any{}, map[string]any{})
	assert.Equal(t, "let missing = `<< Undefined: missing >>`;\n$.echo(missing, $.conditionalScope);", got)
}

func TestRewriteCaptureModeIncludeEndToEnd(t *testing.T) {
	got := Rewrite("let p = $include('partial');", map[string]any{}, map[string]any{})
	assert.Equal(t, "var p = $.include('partial', $.conditionalScope, true);\n$.context('p', p);", got)
}

func TestRewriteFallsBackOnUnterminatedString(t *testing.T) {
	body := "let s = \"unterminated;"
	got := Rewrite(body, map[string]any{}, map[string]any{})
	assert.Equal(t, body, got)
}

func TestReservedMethodNamesIncludesCoreMethods(t *testing.T) {
	names := ReservedMethodNames()
	for _, n := range []string{"echo", "context", "define", "include", "obOpen", "obClose", "obStatus", "if", "elseif", "else", "end", "version", "extend"} {
		assert.True(t, names[n], n)
	}
}
