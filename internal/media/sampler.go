package media

import "sync"

// ChunkSampler adapts ingested recording chunks into level samples. Only
// the most recent chunk is kept; the monitor reads it once per frame, so
// the meter tracks whatever audio the client sent last.
type ChunkSampler struct {
	mu    sync.Mutex
	chunk []byte
}

// Push replaces the current sample window with the latest chunk.
func (s *ChunkSampler) Push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunk = append(s.chunk[:0], chunk...)
}

func (s *ChunkSampler) Sample() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.chunk))
	copy(out, s.chunk)
	return out
}
