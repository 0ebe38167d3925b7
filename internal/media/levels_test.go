package media_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/hirevision/interview-service/internal/media"
	"github.com/hirevision/interview-service/internal/media/mediatest"
)

func TestComputeLevel(t *testing.T) {
	// Empty input yields silence
	assert.Zero(t, media.ComputeLevel(nil))
	assert.Zero(t, media.ComputeLevel([]byte{}))

	// Mean magnitude scaled by 1.5
	assert.InDelta(t, 30.0, media.ComputeLevel([]byte{20, 20, 20}), 0.001)
	assert.InDelta(t, 15.0, media.ComputeLevel([]byte{10, 10}), 0.001)

	// Loud input clamps at 100
	assert.Equal(t, 100.0, media.ComputeLevel([]byte{255, 255, 255, 255}))
}

func TestChunkSamplerKeepsLatestChunk(t *testing.T) {
	s := &media.ChunkSampler{}
	assert.Empty(t, s.Sample())

	s.Push([]byte{1, 2, 3})
	s.Push(nil) // ignored
	assert.Equal(t, []byte{1, 2, 3}, s.Sample())

	s.Push([]byte{9})
	assert.Equal(t, []byte{9}, s.Sample())
}

func TestLevelMonitorSmoothsTowardInput(t *testing.T) {
	sampler := &mediatest.ScriptedSampler{Frames: [][]byte{{40, 40, 40, 40}}}
	m := media.NewLevelMonitor(sampler, zerolog.Nop())
	m.SetInterval(time.Millisecond)
	m.Start()
	defer m.Stop()

	// Raw level is 60; the smoothed value converges toward it
	assert.Eventually(t, func() bool {
		return m.Level() > 50
	}, time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, m.Level(), 60.0)
}

func TestLevelMonitorStopIsIdempotent(t *testing.T) {
	sampler := &mediatest.ScriptedSampler{Frames: [][]byte{{10}}}
	m := media.NewLevelMonitor(sampler, zerolog.Nop())
	m.Start()

	m.Stop()
	m.Stop()

	// Let any in-flight tick drain, then verify the level is frozen
	time.Sleep(30 * time.Millisecond)
	level := m.Level()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, level, m.Level())
}
