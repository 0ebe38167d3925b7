package media_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirevision/interview-service/internal/media"
	"github.com/hirevision/interview-service/internal/media/mediatest"
)

func TestEnumeratorSplitsDevicesByKind(t *testing.T) {
	provider := &mediatest.FakeProvider{DeviceList: []media.Device{
		{ID: "cam-1", Label: "Front Camera", Kind: media.DeviceKindVideoInput},
		{ID: "mic-1", Label: "Headset", Kind: media.DeviceKindAudioInput},
		{ID: "cam-2", Label: "USB Camera", Kind: media.DeviceKindVideoInput},
		{ID: "spk-1", Label: "Speakers", Kind: "audiooutput"},
	}}
	e := media.NewEnumerator(provider, zerolog.Nop())
	defer e.Close()

	list := e.List(context.Background())
	require.Len(t, list.VideoInputs, 2)
	require.Len(t, list.AudioInputs, 1)
	assert.Equal(t, "cam-1", list.VideoInputs[0].ID)
	assert.Equal(t, "mic-1", list.AudioInputs[0].ID)
}

func TestEnumeratorFailureYieldsEmptyList(t *testing.T) {
	provider := &mediatest.FakeProvider{DeviceErr: errors.New("permission denied")}
	e := media.NewEnumerator(provider, zerolog.Nop())
	defer e.Close()

	list := e.List(context.Background())
	assert.Empty(t, list.VideoInputs)
	assert.Empty(t, list.AudioInputs)
}

func TestEnumeratorRepublishesOnHotPlug(t *testing.T) {
	provider := &mediatest.FakeProvider{DeviceList: []media.Device{
		{ID: "mic-1", Kind: media.DeviceKindAudioInput},
	}}
	e := media.NewEnumerator(provider, zerolog.Nop())
	defer e.Close()

	var published []media.DeviceList
	e.Watch(func(list media.DeviceList) {
		published = append(published, list)
	})

	provider.FireDeviceChange()
	require.Len(t, published, 1)
	assert.Len(t, published[0].AudioInputs, 1)
}

func TestLoopbackProviderDefaults(t *testing.T) {
	p := media.NewLoopbackProvider()

	devices, err := p.EnumerateDevices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	stream, err := p.OpenStream(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, stream.AudioTracks(), 1)
	assert.Len(t, stream.VideoTracks(), 1)
}

func TestLoopbackProviderRejectsUnknownDevices(t *testing.T) {
	p := media.NewLoopbackProvider()

	_, err := p.OpenStream(context.Background(), "ghost-cam", "")
	assert.Error(t, err)

	_, err = p.OpenStream(context.Background(), "", "ghost-mic")
	assert.Error(t, err)

	// Known IDs still work
	_, err = p.OpenStream(context.Background(), "default-video", "default-audio")
	assert.NoError(t, err)
}

func TestLoopbackProviderWithoutMicrophoneTripsAudioGuard(t *testing.T) {
	p := media.NewLoopbackProvider()
	p.SetDevices([]media.Device{{ID: "cam-1", Kind: media.DeviceKindVideoInput}})

	s := media.NewCaptureSession(p, zerolog.Nop())
	err := s.Initialize(context.Background(), "cam-1", "")
	assert.ErrorIs(t, err, media.ErrNoAudioTrack)
}

func TestLoopbackProviderSetDevicesFiresChange(t *testing.T) {
	p := media.NewLoopbackProvider()

	fired := 0
	unsubscribe := p.OnDeviceChange(func() { fired++ })

	p.SetDevices([]media.Device{{ID: "cam-9", Kind: media.DeviceKindVideoInput}})
	assert.Equal(t, 1, fired)

	unsubscribe()
	p.SetDevices(nil)
	assert.Equal(t, 1, fired)
}
