package media

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type DeviceKind string

const (
	DeviceKindVideoInput DeviceKind = "videoinput"
	DeviceKindAudioInput DeviceKind = "audioinput"
)

// Device describes one capture device as reported by the platform. Entries
// are ephemeral; hot-plug events invalidate any previously returned list.
type Device struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Kind  DeviceKind `json:"kind"`
}

type TrackKind string

const (
	TrackKindAudio TrackKind = "audio"
	TrackKindVideo TrackKind = "video"
)

// Track is one live capture track. Stop releases the underlying hardware;
// only the owning capture session may call it.
type Track interface {
	Kind() TrackKind
	Stop()
	Stopped() bool
}

// Stream is a live bundle of capture tracks.
type Stream interface {
	Tracks() []Track
	AudioTracks() []Track
	VideoTracks() []Track
}

// DeviceProvider abstracts the platform media layer. Enumeration without a
// permission grant yields empty or unlabeled entries, not an error.
type DeviceProvider interface {
	EnumerateDevices(ctx context.Context) ([]Device, error)
	// OpenStream acquires exclusive access to the given devices. Empty IDs
	// select the platform defaults.
	OpenStream(ctx context.Context, videoDeviceID, audioDeviceID string) (Stream, error)
	// OnDeviceChange registers a hot-plug callback and returns an
	// unsubscribe func.
	OnDeviceChange(fn func()) (unsubscribe func())
}

// DeviceList is the enumerator's view, split by input kind.
type DeviceList struct {
	VideoInputs []Device `json:"video_inputs"`
	AudioInputs []Device `json:"audio_inputs"`
}

// Enumerator lists selectable devices and re-lists on hot-plug events.
type Enumerator struct {
	provider DeviceProvider
	logger   zerolog.Logger

	mu          sync.Mutex
	watchers    []func(DeviceList)
	unsubscribe func()
}

func NewEnumerator(provider DeviceProvider, logger zerolog.Logger) *Enumerator {
	e := &Enumerator{
		provider: provider,
		logger:   logger.With().Str("component", "device_enumerator").Logger(),
	}
	e.unsubscribe = provider.OnDeviceChange(e.republish)
	return e
}

// List enumerates devices. A permission failure is terminal for this
// attempt and surfaces as an inert empty list, never as an error.
func (e *Enumerator) List(ctx context.Context) DeviceList {
	devices, err := e.provider.EnumerateDevices(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("device enumeration failed")
		return DeviceList{}
	}

	var list DeviceList
	for _, d := range devices {
		switch d.Kind {
		case DeviceKindVideoInput:
			list.VideoInputs = append(list.VideoInputs, d)
		case DeviceKindAudioInput:
			list.AudioInputs = append(list.AudioInputs, d)
		}
	}
	return list
}

// Watch registers a callback invoked with a fresh list on every hot-plug
// event.
func (e *Enumerator) Watch(fn func(DeviceList)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watchers = append(e.watchers, fn)
}

// Close detaches the hot-plug subscription.
func (e *Enumerator) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
}

func (e *Enumerator) republish() {
	list := e.List(context.Background())

	e.mu.Lock()
	watchers := make([]func(DeviceList), len(e.watchers))
	copy(watchers, e.watchers)
	e.mu.Unlock()

	for _, fn := range watchers {
		fn(list)
	}
}
