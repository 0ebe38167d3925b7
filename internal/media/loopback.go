package media

import (
	"context"
	"fmt"
	"sync"
)

// LoopbackProvider is the server-side stand-in for the candidate's media
// layer. Capture happens on the client; the server only tracks which logical
// devices the client reported and hands out logical track handles so the
// session state machine can enforce single-stream and track-release rules.
type LoopbackProvider struct {
	mu        sync.Mutex
	devices   []Device
	listeners []func()
}

// NewLoopbackProvider starts with a default camera and microphone. The
// client replaces the list via SetDevices as it reports real hardware.
func NewLoopbackProvider() *LoopbackProvider {
	return &LoopbackProvider{
		devices: []Device{
			{ID: "default-video", Label: "Default Camera", Kind: DeviceKindVideoInput},
			{ID: "default-audio", Label: "Default Microphone", Kind: DeviceKindAudioInput},
		},
	}
}

// SetDevices replaces the known device list and fires hot-plug callbacks.
func (p *LoopbackProvider) SetDevices(devices []Device) {
	p.mu.Lock()
	p.devices = make([]Device, len(devices))
	copy(p.devices, devices)
	listeners := make([]func(), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (p *LoopbackProvider) EnumerateDevices(ctx context.Context) ([]Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Device, len(p.devices))
	copy(out, p.devices)
	return out, nil
}

// OpenStream hands out a logical stream with one track per known input
// kind. The actual frames travel over the websocket as recorded chunks.
// Unknown device IDs fail, and a device list without a microphone yields a
// stream without an audio track, exactly as a real acquisition would.
func (p *LoopbackProvider) OpenStream(ctx context.Context, videoDeviceID, audioDeviceID string) (Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if videoDeviceID != "" && !p.hasDeviceLocked(videoDeviceID, DeviceKindVideoInput) {
		return nil, fmt.Errorf("unknown video device %q", videoDeviceID)
	}
	if audioDeviceID != "" && !p.hasDeviceLocked(audioDeviceID, DeviceKindAudioInput) {
		return nil, fmt.Errorf("unknown audio device %q", audioDeviceID)
	}

	var tracks []Track
	if p.hasKindLocked(DeviceKindVideoInput) {
		tracks = append(tracks, &loopbackTrack{kind: TrackKindVideo})
	}
	if p.hasKindLocked(DeviceKindAudioInput) {
		tracks = append(tracks, &loopbackTrack{kind: TrackKindAudio})
	}
	return &loopbackStream{tracks: tracks}, nil
}

func (p *LoopbackProvider) hasDeviceLocked(id string, kind DeviceKind) bool {
	for _, d := range p.devices {
		if d.ID == id && d.Kind == kind {
			return true
		}
	}
	return false
}

func (p *LoopbackProvider) hasKindLocked(kind DeviceKind) bool {
	for _, d := range p.devices {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func (p *LoopbackProvider) OnDeviceChange(fn func()) (unsubscribe func()) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	index := len(p.listeners) - 1
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if index < len(p.listeners) {
			p.listeners[index] = func() {}
		}
	}
}

type loopbackStream struct {
	tracks []Track
}

func (s *loopbackStream) Tracks() []Track { return s.tracks }

func (s *loopbackStream) AudioTracks() []Track { return s.filter(TrackKindAudio) }

func (s *loopbackStream) VideoTracks() []Track { return s.filter(TrackKindVideo) }

func (s *loopbackStream) filter(kind TrackKind) []Track {
	var out []Track
	for _, t := range s.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

type loopbackTrack struct {
	kind TrackKind

	mu      sync.Mutex
	stopped bool
}

func (t *loopbackTrack) Kind() TrackKind { return t.kind }

func (t *loopbackTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *loopbackTrack) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
