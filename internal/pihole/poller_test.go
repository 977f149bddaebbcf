package pihole_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/pihole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAll(t *testing.T) {
	_, srv := newFake(t, "secret")
	c := pihole.NewClient(srv.URL+"/api", "secret")

	s, err := c.Fetch(context.Background(), nil, 10)
	require.NoError(t, err)

	assert.Equal(t, 12345, s.Summary.Total)
	assert.Equal(t, pihole.BlockingEnabled, s.Summary.Blocking)
	assert.Len(t, s.History, 2)
	assert.Len(t, s.TopBlocked, 2)
	assert.Len(t, s.TopClients, 3)
	assert.False(t, s.Stale)
	assert.Empty(t, s.Err)
	assert.WithinDuration(t, time.Now(), s.FetchedAt, time.Minute)
}

func TestFetchPartialFailureKeepsPrevious(t *testing.T) {
	f, srv := newFake(t, "")
	c := pihole.NewClient(srv.URL+"/api", "")

	first, err := c.Fetch(context.Background(), nil, 10)
	require.NoError(t, err)

	f.setFail("/api/stats/top_clients", http.StatusBadGateway)
	f.setFail("/api/dns/blocking", http.StatusBadGateway)
	second, err := c.Fetch(context.Background(), first, 10)
	require.NoError(t, err)

	assert.True(t, second.Stale)
	assert.NotEmpty(t, second.Err)
	assert.Equal(t, first.TopClients, second.TopClients)
	assert.Equal(t, pihole.BlockingEnabled, second.Summary.Blocking)
	assert.False(t, first.Stale, "previous snapshot is untouched")
}

func TestFetchBlockingUnknownWithoutHistory(t *testing.T) {
	f, srv := newFake(t, "")
	f.setFail("/api/dns/blocking", http.StatusInternalServerError)
	c := pihole.NewClient(srv.URL+"/api", "")

	s, err := c.Fetch(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, pihole.BlockingUnknown, s.Summary.Blocking)
	assert.True(t, s.Summary.Enabled())
}

func TestFetchAllFailed(t *testing.T) {
	f, srv := newFake(t, "")
	for _, p := range []string{
		"/api/stats/summary", "/api/dns/blocking", "/api/history",
		"/api/stats/top_domains", "/api/stats/top_clients",
	} {
		f.setFail(p, http.StatusServiceUnavailable)
	}
	c := pihole.NewClient(srv.URL+"/api", "")

	s, err := c.Fetch(context.Background(), nil, 10)
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, pihole.ErrUnreachable))
}

func TestSourceMarksStale(t *testing.T) {
	f, srv := newFake(t, "")
	src := pihole.NewSource(pihole.NewClient(srv.URL+"/api", ""), 0)

	src.Refresh(context.Background(), time.Now())
	src.Wait()
	require.NotNil(t, src.Latest())
	assert.False(t, src.Latest().Stale)

	srv.CloseClientConnections()
	for _, p := range []string{
		"/api/stats/summary", "/api/dns/blocking", "/api/history",
		"/api/stats/top_domains", "/api/stats/top_clients",
	} {
		f.setFail(p, http.StatusServiceUnavailable)
	}
	src.Refresh(context.Background(), time.Now())
	src.Wait()

	require.NotNil(t, src.Latest())
	assert.True(t, src.Latest().Stale)
	assert.Equal(t, 12345, src.Latest().Summary.Total)
	assert.Error(t, src.Err())
}

func TestMarkStaleNil(t *testing.T) {
	assert.Nil(t, pihole.MarkStale(nil, errors.New().New(errors.ErrUnavailable)))
}
