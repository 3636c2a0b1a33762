// Package value implements the value serializer (jhp SPEC_FULL.md §4.3):
// rendering an arbitrary host value as a literal source fragment that
// reconstructs the same value when re-parsed by the embedded evaluator.
//
// The package works over a small set of sentinel wrapper types (Undefined,
// Function, Date, Regex, Symbol) plus ordinary Go scalars, slices, and
// maps, so that callers bridging from a specific evaluator (this repo
// bridges from goja) only need to normalize its values into these shapes
// once, in one place, rather than teaching every caller the evaluator's
// API.
package value

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Undefined represents JavaScript's distinct "absent" value, as opposed to
// Go nil / JS null.
type Undefined struct{}

// Function wraps a callable's retrievable source text.
type Function struct {
	Source string
}

// Date wraps an epoch-millisecond timestamp.
type Date struct {
	EpochMillis int64
}

// Regex wraps a regular expression literal's pattern and flags.
type Regex struct {
	Pattern string
	Flags   string
}

// Symbol wraps a symbol's textual description.
type Symbol struct {
	Description string
}

// Serialize renders v as a literal source fragment. Unsupported types
// render as the literal "undefined", matching the spec's fallback rule.
func Serialize(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case Undefined:
		return "undefined"
	case string:
		return serializeString(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return serializeFloat(float64(x))
	case float64:
		return serializeFloat(x)
	case *big.Int:
		return x.String()
	case Function:
		return x.Source
	case Date:
		return fmt.Sprintf("new Date(%d)", x.EpochMillis)
	case Regex:
		return "/" + x.Pattern + "/" + x.Flags
	case Symbol:
		return x.Description
	case []any:
		return serializeArray(x)
	case map[string]any:
		return serializeObject(x)
	default:
		return "undefined"
	}
}

func serializeFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// serializeString renders a backtick-delimited string literal, escaping
// backticks and any "${" sequence so the result round-trips as the exact
// same string when re-parsed as a template literal.
func serializeString(s string) string {
	var b strings.Builder
	b.WriteByte('`')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '`':
			b.WriteString("\\`")
		case c == '\\':
			b.WriteString("\\\\")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString("\\${")
			i++
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('`')
	return b.String()
}

func serializeArray(a []any) string {
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = Serialize(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// serializeObject renders a map as an object literal. Keys are JSON-encoded
// (guaranteeing identifier-vs-string disambiguation inside the literal) and
// sorted for deterministic output.
func serializeObject(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		keyJSON, _ := json.Marshal(k)
		parts[i] = string(keyJSON) + ": " + Serialize(m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
