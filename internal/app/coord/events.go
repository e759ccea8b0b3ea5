package coord

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/app/identity"
	"github.com/dkeye/Atrium/internal/core"
)

// onEvent is the single dispatch point for provider events. It feeds the
// identity resolver, the track reconciliation engine and the error holder;
// nothing else reacts to the provider directly.
func (c *Controller) onEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.LocalTrackStarted:
		c.local.Started(e.Track)
	case core.LocalTrackStopped:
		c.local.Stopped(e.Kind, e.TrackID)
	case core.RemoteTrackStarted:
		c.remote.TrackStarted(e.Session, e.Track)
	case core.RemoteTrackStopped:
		c.remote.TrackStopped(e.Session, e.Kind, e.TrackID)
	case core.ParticipantJoined:
		c.ids.Observe(e.Info)
		c.remote.Upsert(e.Info, identity.DisplayName(e.Info))
	case core.ParticipantUpdated:
		// Late binding: metadata can arrive after the join event, so an
		// update retries resolution for pending participants.
		c.ids.Observe(e.Info)
		c.remote.Upsert(e.Info, identity.DisplayName(e.Info))
	case core.ParticipantLeft:
		c.remote.Drop(e.Session)
		c.prox.Forget(e.Session)
		c.ids.Purge(e.Session)
	case core.SessionError:
		c.errs.Set(e.Err)
	default:
		log.Warn().Str("module", "coord").Msgf("unhandled event %T", ev)
	}
}
