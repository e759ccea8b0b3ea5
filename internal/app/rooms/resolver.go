// Package rooms resolves deterministic room names to joinable URLs, caching
// results with a TTL so repeated joins inside the window skip the network.
package rooms

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dkeye/Atrium/internal/app/callerr"
	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

const cacheSize = 64

type Resolver struct {
	endpoint core.RoomEndpoint
	cache    *expirable.LRU[domain.RoomName, string]
	group    singleflight.Group
}

func NewResolver(endpoint core.RoomEndpoint, ttl time.Duration) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		cache:    expirable.NewLRU[domain.RoomName, string](cacheSize, nil, ttl),
	}
}

// Resolve returns the joinable URL for name. A non-expired cache entry is
// returned with no network call; otherwise the room-creation endpoint is
// called once even under concurrent resolves for the same name. Failures are
// classified and never cached.
func (r *Resolver) Resolve(ctx context.Context, name domain.RoomName) (string, error) {
	if url, ok := r.cache.Get(name); ok {
		log.Debug().Str("module", "rooms").Str("room", string(name)).Msg("cache hit")
		return url, nil
	}

	v, err, _ := r.group.Do(string(name), func() (any, error) {
		info, err := r.endpoint.CreateRoom(ctx, name)
		if err != nil {
			return nil, callerr.Classify(err)
		}
		r.cache.Add(name, info.URL)
		log.Info().Str("module", "rooms").Str("room", string(name)).Bool("created", info.Created).Msg("room resolved")
		return info.URL, nil
	})
	if err != nil {
		log.Error().Err(err).Str("module", "rooms").Str("room", string(name)).Msg("resolve failed")
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops a cached entry, forcing the next resolve to hit the
// endpoint.
func (r *Resolver) Invalidate(name domain.RoomName) {
	r.cache.Remove(name)
}
