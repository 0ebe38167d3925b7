package media

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LevelSampler exposes frequency-domain samples of a live stream's audio.
// Each call returns the current frequency bins, one byte per bin (0-255).
type LevelSampler interface {
	Sample() []byte
}

const (
	// Sampled once per display frame, not on a coarse timer.
	levelFrameInterval = 16 * time.Millisecond
	// Rolling smoothing keeps the meter from jittering frame to frame.
	levelSmoothing = 0.8
)

// LevelMonitor drives a 0-100 loudness value for a UI meter. It is
// independent of recording state and must be stopped when the stream
// changes, or its per-frame loop keeps sampling a stale stream forever.
type LevelMonitor struct {
	sampler  LevelSampler
	logger   zerolog.Logger
	interval time.Duration

	mu    sync.Mutex
	level float64

	done     chan struct{}
	stopOnce sync.Once
}

func NewLevelMonitor(sampler LevelSampler, logger zerolog.Logger) *LevelMonitor {
	return &LevelMonitor{
		sampler:  sampler,
		logger:   logger.With().Str("component", "level_monitor").Logger(),
		interval: levelFrameInterval,
		done:     make(chan struct{}),
	}
}

// Start launches the per-frame sampling loop.
func (m *LevelMonitor) Start() {
	go m.run()
}

func (m *LevelMonitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			raw := computeLevel(m.sampler.Sample())
			m.mu.Lock()
			m.level = m.level*levelSmoothing + raw*(1-levelSmoothing)
			m.mu.Unlock()
		}
	}
}

// Level returns the current smoothed loudness in [0, 100].
func (m *LevelMonitor) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Stop cancels the sampling loop and detaches the sampler. Safe to call
// more than once.
func (m *LevelMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// computeLevel normalizes frequency bins to a 0-100 loudness value: the
// mean bin magnitude scaled by 1.5 and clamped.
func computeLevel(bins []byte) float64 {
	if len(bins) == 0 {
		return 0
	}
	sum := 0
	for _, b := range bins {
		sum += int(b)
	}
	level := float64(sum) / float64(len(bins)) * 1.5
	if level > 100 {
		return 100
	}
	if level < 0 {
		return 0
	}
	return level
}
