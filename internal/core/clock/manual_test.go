package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvanceFiresDueCallbacksInOrder(t *testing.T) {
	t.Parallel()

	clk := NewManual(time.Unix(0, 0))
	var fired []string
	clk.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })
	clk.AfterFunc(time.Second, func() { fired = append(fired, "one") })
	clk.AfterFunc(5*time.Second, func() { fired = append(fired, "five") })

	clk.Advance(time.Second)
	assert.Equal(t, []string{"one"}, fired)
	assert.Equal(t, 2, clk.Pending())

	clk.Advance(2 * time.Second)
	assert.Equal(t, []string{"one", "two"}, fired)
	assert.Equal(t, time.Unix(3, 0), clk.Now())
}

func TestManualStop(t *testing.T) {
	t.Parallel()

	clk := NewManual(time.Unix(0, 0))
	called := false
	timer := clk.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.Zero(t, clk.Pending())

	clk.Advance(time.Minute)
	assert.False(t, called)
}

func TestManualStopAfterFire(t *testing.T) {
	t.Parallel()

	clk := NewManual(time.Unix(0, 0))
	timer := clk.AfterFunc(time.Second, func() {})
	clk.Advance(time.Second)

	assert.False(t, timer.Stop())
}
