package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_EveryAndStop(t *testing.T) {
	p := NewPoller()
	p.Start()
	defer p.Stop()

	var calls atomic.Int32
	h := p.Every(time.Second, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	h.Stop()
	h.Stop()
	after := calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestPoller_RecoversPanics(t *testing.T) {
	p := NewPoller()
	p.Start()
	defer p.Stop()

	var calls atomic.Int32
	h := p.Every(time.Second, func() {
		calls.Add(1)
		panic("boom")
	})
	defer h.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 4*time.Second, 20*time.Millisecond)
}

func TestHandle_NilStop(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, h.Stop)
}
