package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// wait blocks for exactly one tick and returns its time.
func wait(s Source) time.Time {
	return <-s.C()
}

func TestManualAdvanceDeliversTicks(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start, 100*time.Millisecond)

	got := make(chan time.Time, 3)
	go func() {
		for i := 0; i < 3; i++ {
			got <- wait(m)
		}
	}()

	m.Advance(3)

	var ticks []time.Time
	for i := 0; i < 3; i++ {
		select {
		case ts := <-got:
			ticks = append(ticks, ts)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	require.Len(t, ticks, 3)
	assert.Equal(t, start.Add(100*time.Millisecond), ticks[0])
	assert.Equal(t, start.Add(200*time.Millisecond), ticks[1])
	assert.Equal(t, start.Add(300*time.Millisecond), ticks[2])
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Now(), time.Second)
	assert.False(t, m.stopped)

	m.Stop()
	assert.True(t, m.stopped)
}

func TestTickerWaitAdvancesTime(t *testing.T) {
	src := NewTicker(10 * time.Millisecond)
	defer src.Stop()

	first := wait(src)
	second := wait(src)

	assert.True(t, second.After(first), "ticks must be monotonic")
	assert.GreaterOrEqual(t, second.Sub(first), 5*time.Millisecond)
}
