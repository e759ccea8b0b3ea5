package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Atrium/internal/core"
)

func TestRegistryReusesElementPerKey(t *testing.T) {
	r := NewRegistry()
	a := r.NewSink("user-1")
	b := r.NewSink("user-1")
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Count())
}

func TestElementVolumeClamped(t *testing.T) {
	r := NewRegistry()
	e := r.NewSink("user-1").(*Element)

	e.SetVolume(1.7)
	assert.Equal(t, 1.0, e.Volume())
	e.SetVolume(-0.2)
	assert.Zero(t, e.Volume())
	e.SetVolume(0.4)
	assert.Equal(t, 0.4, e.Volume())
}

func TestElementCloseRemovesAndRejectsPlay(t *testing.T) {
	r := NewRegistry()
	e := r.NewSink("user-1")
	require.NoError(t, e.Play(core.RemoteTrack{ID: "a1", Kind: core.TrackAudio}))

	e.Close()
	assert.Zero(t, r.Count())
	assert.ErrorIs(t, e.Play(core.RemoteTrack{ID: "a2", Kind: core.TrackAudio}), core.ErrSinkClosed)

	// Close is idempotent and a fresh NewSink under the same key is a new element.
	e.Close()
	fresh := r.NewSink("user-1")
	assert.NotSame(t, e, fresh)
	require.NoError(t, fresh.Play(core.RemoteTrack{ID: "a3", Kind: core.TrackAudio}))
}
