// Package mediatest provides in-memory fakes for the media device layer,
// used by tests across the repository.
package mediatest

import (
	"context"
	"sync"

	"github.com/hirevision/interview-service/internal/media"
)

// FakeTrack records whether Stop was called.
type FakeTrack struct {
	TrackKind media.TrackKind

	mu      sync.Mutex
	stopped bool
}

func (t *FakeTrack) Kind() media.TrackKind { return t.TrackKind }

func (t *FakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *FakeTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// FakeStream bundles fake tracks.
type FakeStream struct {
	TrackList []media.Track
}

// NewFakeStream returns a stream with one video and one audio track.
func NewFakeStream() *FakeStream {
	return &FakeStream{TrackList: []media.Track{
		&FakeTrack{TrackKind: media.TrackKindVideo},
		&FakeTrack{TrackKind: media.TrackKindAudio},
	}}
}

// NewVideoOnlyStream returns a stream without any audio track.
func NewVideoOnlyStream() *FakeStream {
	return &FakeStream{TrackList: []media.Track{
		&FakeTrack{TrackKind: media.TrackKindVideo},
	}}
}

func (s *FakeStream) Tracks() []media.Track { return s.TrackList }

func (s *FakeStream) AudioTracks() []media.Track { return s.tracksOf(media.TrackKindAudio) }

func (s *FakeStream) VideoTracks() []media.Track { return s.tracksOf(media.TrackKindVideo) }

func (s *FakeStream) tracksOf(kind media.TrackKind) []media.Track {
	var out []media.Track
	for _, t := range s.TrackList {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

// AllStopped reports whether every track of the stream was stopped.
func (s *FakeStream) AllStopped() bool {
	for _, t := range s.TrackList {
		if !t.Stopped() {
			return false
		}
	}
	return true
}

// FakeProvider is a scriptable media.DeviceProvider.
type FakeProvider struct {
	mu sync.Mutex

	DeviceErr  error
	DeviceList []media.Device

	// OpenErr fails the next OpenStream calls when set.
	OpenErr error
	// NextStream overrides the stream returned by OpenStream; when nil a
	// fresh FakeStream is handed out.
	NextStream media.Stream

	Opened   []*FakeStream
	OpenCall int

	changeFns []func()
}

func (p *FakeProvider) EnumerateDevices(ctx context.Context) ([]media.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.DeviceErr != nil {
		return nil, p.DeviceErr
	}
	return p.DeviceList, nil
}

func (p *FakeProvider) OpenStream(ctx context.Context, videoDeviceID, audioDeviceID string) (media.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OpenCall++
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	if p.NextStream != nil {
		stream := p.NextStream
		p.NextStream = nil
		if fs, ok := stream.(*FakeStream); ok {
			p.Opened = append(p.Opened, fs)
		}
		return stream, nil
	}
	stream := NewFakeStream()
	p.Opened = append(p.Opened, stream)
	return stream, nil
}

func (p *FakeProvider) OnDeviceChange(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changeFns = append(p.changeFns, fn)
	return func() {}
}

// FireDeviceChange simulates a hot-plug event.
func (p *FakeProvider) FireDeviceChange() {
	p.mu.Lock()
	fns := make([]func(), len(p.changeFns))
	copy(fns, p.changeFns)
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ScriptedSampler replays a fixed sequence of frequency-bin frames.
type ScriptedSampler struct {
	mu     sync.Mutex
	Frames [][]byte
	pos    int
}

func (s *ScriptedSampler) Sample() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Frames) == 0 {
		return nil
	}
	frame := s.Frames[s.pos]
	if s.pos < len(s.Frames)-1 {
		s.pos++
	}
	return frame
}
