package core

import "github.com/pion/webrtc/v4"

type TrackKind string

const (
	TrackAudio  TrackKind = "audio"
	TrackVideo  TrackKind = "video"
	TrackScreen TrackKind = "screen"
)

// LocalTrack is a handle to one locally captured track. RTP is the underlying
// provider track; it is nil in tests.
type LocalTrack struct {
	ID    string
	Kind  TrackKind
	Ended bool
	RTP   webrtc.TrackLocal
}

// RemoteTrack is a handle to one track received from a remote participant.
type RemoteTrack struct {
	ID   string
	Kind TrackKind
	RTP  *webrtc.TrackRemote
}

// Stream groups the currently-live local tracks, one per kind, into the
// assembled outgoing stream consumers render from.
type Stream struct {
	ID     string
	Tracks []LocalTrack
}

// Kinds lists the kinds present in the stream.
func (s Stream) Kinds() []TrackKind {
	out := make([]TrackKind, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		out = append(out, t.Kind)
	}
	return out
}
