package rooms

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Atrium/internal/app/callerr"
	"github.com/dkeye/Atrium/internal/core"
	"github.com/dkeye/Atrium/internal/domain"
)

type fakeEndpoint struct {
	calls atomic.Int32
	err   error
}

func (f *fakeEndpoint) CreateRoom(_ context.Context, name domain.RoomName) (core.RoomInfo, error) {
	f.calls.Add(1)
	if f.err != nil {
		return core.RoomInfo{}, f.err
	}
	return core.RoomInfo{URL: "https://office.example/" + string(name), Name: string(name), Created: true}, nil
}

func TestResolveCachesWithinTTL(t *testing.T) {
	ep := &fakeEndpoint{}
	r := NewResolver(ep, time.Minute)

	url1, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	url2, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)

	assert.Equal(t, url1, url2)
	assert.Equal(t, int32(1), ep.calls.Load())
}

func TestResolveReissuesAfterTTL(t *testing.T) {
	ep := &fakeEndpoint{}
	r := NewResolver(ep, 20*time.Millisecond)

	_, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	assert.Equal(t, int32(2), ep.calls.Load())
}

func TestResolveDistinctRoomsCoexist(t *testing.T) {
	ep := &fakeEndpoint{}
	r := NewResolver(ep, time.Minute)

	lobby, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	desk, err := r.Resolve(context.Background(), "co-space-desk1")
	require.NoError(t, err)

	assert.NotEqual(t, lobby, desk)
	assert.Equal(t, int32(2), ep.calls.Load())
}

func TestResolveFailureNotCached(t *testing.T) {
	ep := &fakeEndpoint{err: errors.New("network unreachable")}
	r := NewResolver(ep, time.Minute)

	_, err := r.Resolve(context.Background(), "co-space-lobby")
	require.Error(t, err)
	var ce *callerr.Classified
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, callerr.NetworkUnreachable, ce.Class)

	ep.err = nil
	url, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, int32(2), ep.calls.Load())
}

func TestInvalidateForcesReresolve(t *testing.T) {
	ep := &fakeEndpoint{}
	r := NewResolver(ep, time.Minute)

	_, err := r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	r.Invalidate("co-space-lobby")
	_, err = r.Resolve(context.Background(), "co-space-lobby")
	require.NoError(t, err)
	assert.Equal(t, int32(2), ep.calls.Load())
}
