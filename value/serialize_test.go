package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil is null", nil, "null"},
		{"undefined", Undefined{}, "undefined"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"whole float has no trailing zero", 2.0, "2"},
		{"string", "hi", "`hi`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(tt.in))
		})
	}
}

func TestSerializeStringEscaping(t *testing.T) {
	assert.Equal(t, "`a\\`b`", Serialize("a`b"))
	assert.Equal(t, "`a\\${b}`", Serialize("a${b}"))
	assert.Equal(t, "`a\\\\b`", Serialize(`a\b`))
}

func TestSerializeArray(t *testing.T) {
	got := Serialize([]any{1, "x", true, nil})
	assert.Equal(t, "[1, `x`, true, null]", got)
}

func TestSerializeObjectSortsKeys(t *testing.T) {
	got := Serialize(map[string]any{"b": 1, "a": 2})
	assert.Equal(t, `{"a": 2, "b": 1}`, got)
}

func TestSerializeDate(t *testing.T) {
	assert.Equal(t, "new Date(1000)", Serialize(Date{EpochMillis: 1000}))
}

func TestSerializeRegex(t *testing.T) {
	assert.Equal(t, "/a+b/gi", Serialize(Regex{Pattern: "a+b", Flags: "gi"}))
}

func TestSerializeFunctionUsesSource(t *testing.T) {
	got := Serialize(Function{Source: "function () { return 1; }"})
	assert.Equal(t, "function () { return 1; }", got)
}

func TestSerializeSymbol(t *testing.T) {
	assert.Equal(t, "Symbol(id)", Serialize(Symbol{Description: "Symbol(id)"}))
}

func TestSerializeUnsupportedFallsBackToUndefined(t *testing.T) {
	type custom struct{}
	assert.Equal(t, "undefined", Serialize(custom{}))
}

func TestSerializeNestedStructures(t *testing.T) {
	got := Serialize(map[string]any{
		"items": []any{1, 2, Undefined{}},
	})
	assert.Equal(t, `{"items": [1, 2, undefined]}`, got)
}
