package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Atrium/internal/core"
)

func collect(t *testing.T) (*Binder, *[]core.Event) {
	t.Helper()
	var got []core.Event
	b := NewBinder(func(ev core.Event) { got = append(got, ev) })
	return b, &got
}

func TestHandleLocalTrackStarted(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{Action: "track-started", Local: true, TrackID: "t1", TrackKind: "audio"})

	require.Len(t, *got, 1)
	ev, ok := (*got)[0].(core.LocalTrackStarted)
	require.True(t, ok)
	assert.Equal(t, "t1", ev.Track.ID)
	assert.Equal(t, core.TrackAudio, ev.Track.Kind)
}

func TestHandleRemoteTrackStarted(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{Action: "track-started", SessionID: "sid-1", TrackID: "t2", TrackKind: "screenVideo"})

	require.Len(t, *got, 1)
	ev, ok := (*got)[0].(core.RemoteTrackStarted)
	require.True(t, ok)
	assert.EqualValues(t, "sid-1", ev.Session)
	assert.Equal(t, core.TrackScreen, ev.Track.Kind)
}

func TestHandleTrackStopped(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{Action: "track-stopped", Local: true, TrackID: "t1", TrackKind: "video"})
	b.Handle(Payload{Action: "track-stopped", SessionID: "sid-1", TrackID: "t2", TrackKind: "audio"})

	require.Len(t, *got, 2)
	local, ok := (*got)[0].(core.LocalTrackStopped)
	require.True(t, ok)
	assert.Equal(t, core.TrackVideo, local.Kind)
	assert.Equal(t, "t1", local.TrackID)

	remote, ok := (*got)[1].(core.RemoteTrackStopped)
	require.True(t, ok)
	assert.EqualValues(t, "sid-1", remote.Session)
	assert.Equal(t, core.TrackAudio, remote.Kind)
}

func TestHandleParticipantLifecycle(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{
		Action:       "participant-joined",
		SessionID:    "sid-1",
		ProviderID:   "prov-1",
		UserName:     "Ann|user-1",
		Metadata:     "user-1",
		AudioEnabled: true,
	})
	b.Handle(Payload{Action: "participant-updated", SessionID: "sid-1", VideoEnabled: true})
	b.Handle(Payload{Action: "participant-left", SessionID: "sid-1"})

	require.Len(t, *got, 3)
	joined, ok := (*got)[0].(core.ParticipantJoined)
	require.True(t, ok)
	assert.EqualValues(t, "sid-1", joined.Info.Session)
	assert.EqualValues(t, "prov-1", joined.Info.Provider)
	assert.Equal(t, "Ann|user-1", joined.Info.UserName)
	assert.Equal(t, "user-1", joined.Info.Metadata)
	assert.True(t, joined.Info.AudioEnabled)

	updated, ok := (*got)[1].(core.ParticipantUpdated)
	require.True(t, ok)
	assert.True(t, updated.Info.VideoEnabled)

	left, ok := (*got)[2].(core.ParticipantLeft)
	require.True(t, ok)
	assert.EqualValues(t, "sid-1", left.Session)
}

func TestHandleErrorPayload(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{Action: "error", Message: "connection refused"})

	require.Len(t, *got, 1)
	ev, ok := (*got)[0].(core.SessionError)
	require.True(t, ok)
	assert.EqualError(t, ev.Err, "connection refused")
}

func TestHandleUnknownActionDropped(t *testing.T) {
	b, got := collect(t)
	b.Handle(Payload{Action: "recording-started"})
	assert.Empty(t, *got)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, core.TrackAudio, ParseKind("audio"))
	assert.Equal(t, core.TrackAudio, ParseKind("screenAudio"))
	assert.Equal(t, core.TrackScreen, ParseKind("screenVideo"))
	assert.Equal(t, core.TrackScreen, ParseKind("screen"))
	assert.Equal(t, core.TrackVideo, ParseKind("video"))
	assert.Equal(t, core.TrackVideo, ParseKind(""))
}
