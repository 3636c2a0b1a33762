package jhp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalScopeInitialState(t *testing.T) {
	c := newConditionalScope()
	assert.True(t, c.showing())
	assert.False(t, c.matched)
	assert.False(t, c.open)
}

func TestConditionalScopeExclusiveSelection(t *testing.T) {
	// if(false); ...A... elseif(true); ...B... else(); ...C... end(); D
	c := newConditionalScope()

	c.block(false)
	assert.False(t, c.showing(), "A should not show")

	c.block(true)
	assert.True(t, c.showing(), "B should show")

	c.block(true) // else() behaves as if(true) at the state-machine level
	assert.False(t, c.showing(), "C should not show: B already matched")

	c.block(endSentinel)
	assert.True(t, c.showing(), "D (after end) should show")
	assert.False(t, c.open)
}

func TestConditionalScopeFirstTruthyWinsLeftToRight(t *testing.T) {
	c := newConditionalScope()
	c.block(true)
	assert.True(t, c.showing())
	c.block(true) // a later truthy branch must not also show
	assert.False(t, c.showing())
}

func TestConditionalScopeOpenFlagTracksUnclosedBlock(t *testing.T) {
	c := newConditionalScope()
	assert.False(t, c.open)
	c.block(true)
	assert.True(t, c.open)
	c.block(endSentinel)
	assert.False(t, c.open)
}

func TestConditionalScopeOpenFlagSetEvenWhenBranchDoesNotShow(t *testing.T) {
	// A falsy $if() branch still opens the conditional: $.end() is required
	// to close it regardless of which branch (if any) actually showed.
	c := newConditionalScope()
	c.block(false)
	assert.True(t, c.open, "block must be marked open even on a falsy branch")
	assert.False(t, c.showing())
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"x", true},
		{0.0, false},
		{1.0, true},
		{[]any{}, true},
		{map[string]any{}, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, truthy(c.v), "%#v", c.v)
	}
}
