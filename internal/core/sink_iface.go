package core

import "errors"

// ErrSinkClosed is returned when a track is routed to an already-released sink.
var ErrSinkClosed = errors.New("audio sink closed")

// AudioSink plays one participant's audio. Created on the first audio track,
// reused for replacements, closed when the participant leaves.
type AudioSink interface {
	Play(t RemoteTrack) error
	// SetVolume applies spatial volume in [0,1]. Local operation, no network.
	SetVolume(v float64)
	Close()
}

// SinkFactory creates sinks keyed by the participant's stable key.
type SinkFactory interface {
	NewSink(key string) AudioSink
}
