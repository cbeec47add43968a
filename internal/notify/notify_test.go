package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyAndExpire(t *testing.T) {
	c := New(0, LatestWins)
	x := c.Notify("Unable to add a todo")

	assert.Equal(t, DefaultTimeout, x.After)
	assert.Equal(t, "Unable to add a todo", c.Message())

	assert.True(t, c.Expire(x))
	assert.Empty(t, c.Message())
	assert.False(t, c.Expire(x), "second expiry is a no-op")
}

func TestLatestWinsIgnoresStaleExpiry(t *testing.T) {
	c := New(time.Second, LatestWins)
	first := c.Notify("Unable to update a todo")
	second := c.Notify("Unable to delete a todo")

	assert.False(t, c.Expire(first))
	assert.Equal(t, "Unable to delete a todo", c.Message())

	assert.True(t, c.Expire(second))
	assert.False(t, c.Visible())
}

func TestLegacyStaleExpiryClipsNewerMessage(t *testing.T) {
	c := New(time.Second, Legacy)
	first := c.Notify("Unable to update a todo")
	_ = c.Notify("Unable to delete a todo")

	assert.True(t, c.Expire(first))
	assert.Empty(t, c.Message())
}

func TestDismissLeavesTimersHarmless(t *testing.T) {
	for _, p := range []Policy{LatestWins, Legacy} {
		c := New(time.Second, p)
		x := c.Notify("Title should not be empty")
		c.Dismiss()
		assert.False(t, c.Visible())
		assert.False(t, c.Expire(x))
	}
}
