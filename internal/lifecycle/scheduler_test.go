package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"servenet/internal/lifecycle"
	"servenet/internal/lifecycle/lifecycletest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSchedulerFiresOncePerKey(t *testing.T) {
	timers := lifecycletest.New()
	s := lifecycle.NewScheduler(5*time.Second, timers.AfterFunc)

	var calls int
	s.Schedule("a", func() { calls++ })
	require.Equal(t, 1, s.Pending())

	assert.Equal(t, 0, timers.Advance(4*time.Second))
	assert.Equal(t, 0, calls)

	assert.Equal(t, 1, timers.Advance(time.Second))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Pending())

	assert.Equal(t, 0, timers.Advance(time.Hour))
	assert.Equal(t, 1, calls)
}

func TestSchedulerRescheduleReplaces(t *testing.T) {
	timers := lifecycletest.New()
	s := lifecycle.NewScheduler(time.Second, timers.AfterFunc)

	var first, second int
	s.Schedule("a", func() { first++ })
	s.Schedule("a", func() { second++ })

	timers.Advance(time.Second)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestSchedulerCancel(t *testing.T) {
	timers := lifecycletest.New()
	s := lifecycle.NewScheduler(time.Second, timers.AfterFunc)

	var calls int
	s.Schedule("a", func() { calls++ })
	s.Schedule("b", func() { calls++ })
	s.Schedule("c", func() { calls++ })

	assert.True(t, s.Cancel("a"))
	assert.False(t, s.Cancel("a"))
	assert.Equal(t, 2, s.CancelAll())
	assert.Equal(t, 0, timers.Armed())

	timers.Advance(time.Minute)
	assert.Equal(t, 0, calls)
}

func TestSchedulerRealTimers(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := lifecycle.NewScheduler(10*time.Millisecond, nil)

	var fired atomic.Int32
	s.Schedule("a", func() { fired.Add(1) })
	s.Schedule("b", func() { fired.Add(1) })
	require.True(t, s.Cancel("b"))

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}
