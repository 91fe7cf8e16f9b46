package core

import (
	"time"

	"github.com/spaghettifunk/lumen/engine/containers"
)

const avgCount = 30

// Metrics keeps a rolling frame-time average over the last avgCount frames
// and a once-per-second FPS sample.
type Metrics struct {
	window        *containers.RingQueue[float64]
	windowSum     float64
	frames        int
	accumulatedMS float64
	fps           float64
}

func NewMetrics() *Metrics {
	return &Metrics{window: containers.NewRingQueue[float64](avgCount)}
}

func (m *Metrics) Update(frameElapsed time.Duration) {
	frameMS := float64(frameElapsed) / float64(time.Millisecond)

	if m.window.IsFull() {
		oldest, _ := m.window.Dequeue()
		m.windowSum -= oldest
	}
	_ = m.window.Enqueue(frameMS)
	m.windowSum += frameMS

	m.accumulatedMS += frameMS
	if m.accumulatedMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedMS -= 1000
		m.frames = 0
	}
	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the window.
func (m *Metrics) FrameTime() float64 {
	if m.window.IsEmpty() {
		return 0
	}
	return m.windowSum / float64(m.window.Len())
}
