package media

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyRecording rejects a second Start without an intervening
	// Stop. The first recording's chunks stay untouched.
	ErrAlreadyRecording = errors.New("recorder is already recording")
	// ErrNotRecording is returned by Stop when no recording is in
	// progress.
	ErrNotRecording = errors.New("not currently recording")
)

// Recorder buffers binary chunks from a borrowed live stream and assembles
// them into a single blob on Stop. It never stops the stream's tracks;
// the owning capture session does that.
//
// The chunk buffer is cleared at the start of the next Start, not at Stop:
// the just-stopped blob's chunks stay addressable so a playback preview
// can still reach them.
type Recorder struct {
	logger zerolog.Logger

	mu        sync.Mutex
	stream    Stream
	recording bool
	chunks    [][]byte
	startedAt time.Time
}

func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{
		logger: logger.With().Str("component", "recorder").Logger(),
	}
}

// Start begins buffering chunks from the given stream. Starting without a
// live stream is a logged no-op — never a crash. Starting while already
// recording is rejected and leaves the in-flight recording intact.
func (r *Recorder) Start(stream Stream) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stream == nil {
		r.logger.Warn().Msg("start requested without an initialized stream, ignoring")
		return nil
	}
	if r.recording {
		return ErrAlreadyRecording
	}

	r.stream = stream
	r.recording = true
	r.chunks = r.chunks[:0]
	r.startedAt = time.Now()
	return nil
}

// Push appends one chunk to the buffer. Chunks arriving while not
// recording are dropped; empty chunks are ignored. The chunking interval
// is up to the producer — the assembled blob reconstructs the full
// recording either way.
func (r *Recorder) Push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}

	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	r.chunks = append(r.chunks, buf)
}

// Stop flushes the buffer into a single blob containing every chunk
// collected since Start. Calling Stop when not recording returns
// ErrNotRecording without mutating the buffer, so an idempotent teardown
// can never corrupt the next recording.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, ErrNotRecording
	}

	r.recording = false
	r.stream = nil

	blob := bytes.Join(r.chunks, nil)
	r.logger.Debug().
		Int("chunks", len(r.chunks)).
		Int("bytes", len(blob)).
		Dur("duration", time.Since(r.startedAt)).
		Msg("recording stopped")
	return blob, nil
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Elapsed returns how long the current recording has been running, or zero
// when idle.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0
	}
	return time.Since(r.startedAt)
}
