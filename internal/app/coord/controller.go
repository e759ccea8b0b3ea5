// Package coord owns the single shared media session for the local user:
// it creates and joins the session when media is needed, leaves when it is
// not, switches rooms as one guarded transition, and tears everything down
// on unmount. All mutable maps live as fields of one Controller instance,
// so "exactly one session" is an ownership fact, not a convention.
package coord

import (
	"context"
	"errors"
	"sync"
	"time"

	fbcore "github.com/frostbyte73/core"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Atrium/internal/app/callerr"
	"github.com/dkeye/Atrium/internal/app/identity"
	"github.com/dkeye/Atrium/internal/app/proximity"
	"github.com/dkeye/Atrium/internal/app/rooms"
	"github.com/dkeye/Atrium/internal/app/tracks"
	"github.com/dkeye/Atrium/internal/config"
	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

var (
	// ErrDisabled is returned when no provider domain is configured;
	// the coordinator then never creates a session.
	ErrDisabled = errors.New("media coordinator disabled: provider domain not configured")
	// ErrTornDown is returned for triggers arriving after Teardown.
	ErrTornDown = errors.New("media coordinator torn down")
)

const teardownLeaveTimeout = 5 * time.Second

type Controller struct {
	cfg     *config.Config
	user    domain.User
	factory core.SessionFactory

	resolver *rooms.Resolver
	ids      *identity.Resolver
	local    *tracks.LocalSet
	remote   *tracks.RemoteSet
	poller   *tracks.Poller
	prox     *proximity.Engine
	errs     *callerr.Current

	// base lifetime for the proximity tick and track poll; canceled on
	// teardown so no timer can outlive the controller.
	ctx    context.Context
	cancel context.CancelFunc
	done   fbcore.Fuse

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	session   core.ProviderSession
	roomKey   domain.RoomKey
	joinedURL string
	// joining serializes join/leave/switch transitions: set synchronously
	// before any blocking work, so re-entrant triggers observe "already in
	// progress" and only record flags. Released in settle, under the same
	// lock hold that verifies convergence; cond wakes Teardown waiters.
	joining     bool
	pendingRoom *domain.RoomKey
	wantMic     bool
	wantCam     bool
}

// New wires the coordinator. presence and localState are read-only
// collaborator inputs; sinks creates per-participant audio playback sinks.
func New(
	cfg *config.Config,
	user domain.User,
	factory core.SessionFactory,
	endpoint core.RoomEndpoint,
	presence core.PresenceSource,
	sinks core.SinkFactory,
	localState proximity.LocalState,
) (*Controller, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:     cfg,
		user:    user,
		factory: factory,
		ids:     identity.NewResolver(),
		errs:    callerr.NewCurrent(),
		ctx:     ctx,
		cancel:  cancel,
		done:    fbcore.NewFuse(),
	}
	c.cond = sync.NewCond(&c.mu)
	c.resolver = rooms.NewResolver(endpoint, cfg.RoomCacheTTL)
	c.local = tracks.NewLocalSet(nil)
	c.remote = tracks.NewRemoteSet(sinks, c.ids.StableKey)
	c.poller = tracks.NewPoller(cfg.TrackPollInterval, cfg.TrackPollAttempts)
	c.prox = proximity.NewEngine(proximity.Config{
		VideoRange:           cfg.VideoRange,
		AudioRangeMultiplier: cfg.AudioRangeMultiplier,
		DifferentRoomDamping: cfg.DifferentRoomDamping,
		Tick:                 cfg.ProximityTick,
	}, presence, c.ids, c.remote, localState)

	log.Info().Str("module", "coord").Str("user", string(user.ID)).Msg("coordinator created")
	return c, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetMediaNeeded records the user's mic/camera toggles and drives the state
// machine toward them. Rapid re-entrant calls while a transition is in
// flight only update the wanted flags; the in-flight transition re-reads
// them before finishing, so the final state always matches the final toggle.
func (c *Controller) SetMediaNeeded(ctx context.Context, mic, cam bool) error {
	if c.done.IsBroken() {
		return ErrTornDown
	}
	c.mu.Lock()
	c.wantMic, c.wantCam = mic, cam
	if c.joining {
		c.mu.Unlock()
		log.Debug().Str("module", "coord").Msg("transition in flight, toggle recorded")
		return nil
	}
	c.joining = true
	c.mu.Unlock()
	return c.settle(ctx)
}

// SwitchRoom moves the session to another room. While joined this is one
// guarded leave+join transition, never two independent ones and never joined
// to two rooms at once. A switch arriving mid-transition supersedes any
// earlier pending target.
func (c *Controller) SwitchRoom(ctx context.Context, key domain.RoomKey) error {
	if c.done.IsBroken() {
		return ErrTornDown
	}
	c.mu.Lock()
	if key == c.roomKey && c.pendingRoom == nil {
		c.mu.Unlock()
		return nil
	}
	if c.joining {
		k := key
		c.pendingRoom = &k
		c.mu.Unlock()
		log.Debug().Str("module", "coord").Str("room", string(key.DeriveName())).Msg("room switch queued behind in-flight transition")
		return nil
	}
	if c.state != StateJoined {
		// Not in a call: just remember the target for the next join.
		c.roomKey = key
		c.mu.Unlock()
		return nil
	}
	k := key
	c.pendingRoom = &k
	c.joining = true
	c.mu.Unlock()
	return c.settle(ctx)
}

// settle runs transitions until the machine matches the wanted flags, then
// releases the guard. The convergence check and the release share one lock
// hold: a toggle or room switch recorded while a transition was finishing is
// picked up here instead of being dropped with the guard.
func (c *Controller) settle(ctx context.Context) error {
	for {
		if err := c.converge(ctx); err != nil {
			c.releaseGuard()
			return err
		}
		c.mu.Lock()
		if c.convergedLocked() {
			c.joining = false
			c.cond.Broadcast()
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
	}
}

func (c *Controller) releaseGuard() {
	c.mu.Lock()
	c.joining = false
	c.cond.Broadcast()
	c.mu.Unlock()
}

// convergedLocked reports whether the current state matches the wanted flags
// with no room switch pending.
func (c *Controller) convergedLocked() bool {
	if c.pendingRoom != nil {
		return false
	}
	if c.wantMic || c.wantCam {
		return c.state == StateJoined
	}
	return c.state == StateIdle
}

// converge runs transitions until the session state matches the wanted
// state. Called only with the guard held.
func (c *Controller) converge(ctx context.Context) error {
	for {
		if c.done.IsBroken() {
			return ErrTornDown
		}
		c.mu.Lock()
		needed := c.wantMic || c.wantCam
		state := c.state
		pending := c.pendingRoom
		c.pendingRoom = nil
		c.mu.Unlock()

		switch {
		case pending != nil:
			if state == StateJoined {
				c.leave(ctx)
			}
			c.mu.Lock()
			c.roomKey = *pending
			c.mu.Unlock()
		case needed && state == StateIdle:
			if err := c.join(ctx); err != nil {
				// No automatic retry: the next toggle or room switch
				// drives the retry.
				return err
			}
		case !needed && state == StateJoined:
			c.leave(ctx)
		default:
			return nil
		}
	}
}

// ensureSession lazily creates the provider session and registers the event
// handler. This happens exactly once per session object.
func (c *Controller) ensureSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return nil
	}
	s, err := c.factory.NewSession(c.cfg.ProviderDomain, c.onEvent)
	if err != nil {
		return err
	}
	c.session = s
	log.Info().Str("module", "coord").Msg("provider session created")
	return nil
}

func (c *Controller) join(ctx context.Context) error {
	c.setState(StateCreating)
	if err := c.ensureSession(); err != nil {
		return c.failJoin(err)
	}

	c.mu.Lock()
	key := c.roomKey
	session := c.session
	c.mu.Unlock()

	name := key.DeriveName()
	url, err := c.resolver.Resolve(ctx, name)
	if err != nil {
		return c.failJoin(err)
	}

	c.setState(StateJoining)
	req := core.JoinRequest{
		URL:      url,
		UserName: domain.EncodeUserName(c.user.Name, c.user.ID),
		Metadata: string(c.user.ID),
	}
	if err := session.Join(ctx, req); err != nil {
		return c.failJoin(err)
	}
	if c.done.IsBroken() {
		// Teardown fired while the join was on the wire; it is waiting on
		// the guard and will leave and destroy once we return.
		return ErrTornDown
	}

	c.mu.Lock()
	c.joinedURL = url
	c.mu.Unlock()
	c.setState(StateJoined)

	c.prox.Start(c.ctx, session)
	c.poller.Start(c.ctx, session, c.local, c.expectedKinds)
	log.Info().Str("module", "coord").Str("room", string(name)).Str("url", url).Msg("joined")
	return nil
}

// failJoin returns the state machine to Idle and publishes the classified
// error; it never leaves the machine stuck in Joining.
func (c *Controller) failJoin(err error) error {
	c.setState(StateIdle)
	c.errs.Set(err)
	return callerr.Classify(err)
}

// leave is best-effort: the user-visible goal is "stop using media", so
// local state is cleared even when the provider call fails.
func (c *Controller) leave(ctx context.Context) {
	c.setState(StateLeaving)
	c.prox.Stop()
	c.poller.Stop()

	c.mu.Lock()
	session := c.session
	c.joinedURL = ""
	c.mu.Unlock()

	if session != nil {
		if err := session.Leave(ctx); err != nil {
			log.Warn().Err(err).Str("module", "coord").Msg("leave failed, clearing local state anyway")
		}
	}
	c.local.Clear()
	c.remote.Clear()
	c.ids.Reset()
	c.setState(StateIdle)
	log.Info().Str("module", "coord").Msg("left")
}

// Teardown force-leaves and destroys the session unconditionally, clearing
// every map and sink. Safe to call from any state, exactly once.
func (c *Controller) Teardown() {
	c.done.Once(func() {
		ctx, cancel := context.WithTimeout(context.Background(), teardownLeaveTimeout)
		defer cancel()

		// Wait out any in-flight transition and take the guard: teardown
		// must never overlap a join or leave already on the wire. The fuse
		// is broken at this point, so the holder exits its next converge
		// check and no new transition can start.
		c.mu.Lock()
		for c.joining {
			c.cond.Wait()
		}
		c.joining = true
		session := c.session
		c.session = nil
		c.joinedURL = ""
		c.pendingRoom = nil
		c.mu.Unlock()

		c.prox.Stop()
		c.poller.Stop()

		if session != nil {
			if err := session.Leave(ctx); err != nil {
				log.Warn().Err(err).Str("module", "coord").Msg("teardown leave failed")
			}
			session.Destroy()
		}
		c.local.Clear()
		c.remote.Clear()
		c.ids.Reset()
		c.errs.Clear()
		c.cancel()
		c.setState(StateIdle)
		c.releaseGuard()
		log.Info().Str("module", "coord").Msg("torn down")
	})
}

// expectedKinds reports which local track kinds the user's current toggle
// state demands; re-read by the poller every attempt.
func (c *Controller) expectedKinds() []core.TrackKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []core.TrackKind
	if c.wantMic {
		out = append(out, core.TrackAudio)
	}
	if c.wantCam {
		out = append(out, core.TrackVideo)
	}
	return out
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	old := c.state
	c.state = s
	c.mu.Unlock()
	if old != s {
		log.Info().Str("module", "coord").Str("from", old.String()).Str("to", s.String()).Msg("state transition")
	}
}
