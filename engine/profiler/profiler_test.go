package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestProfiler(clock *time.Time) *Profiler {
	p := NewProfiler(false)
	p.lastTime = *clock
	p.now = func() time.Time { return *clock }
	return p
}

func TestTickReportsFPSAfterInterval(t *testing.T) {
	clock := time.Unix(0, 0)
	p := newTestProfiler(&clock)

	for i := 0; i < 59; i++ {
		clock = clock.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Zero(t, p.FPS())

	clock = time.Unix(2, 0)
	assert.True(t, p.Tick())
	assert.InDelta(t, 30.0, p.FPS(), 1e-9)
}

func TestTickResetsFrameCount(t *testing.T) {
	clock := time.Unix(0, 0)
	p := newTestProfiler(&clock)

	clock = clock.Add(time.Second)
	assert.True(t, p.Tick())
	assert.InDelta(t, 1.0, p.FPS(), 1e-9)

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 2.0, p.FPS(), 1e-9)
}
