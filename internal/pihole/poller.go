package pihole

import (
	"context"
	"time"

	"codeberg.org/mutker/cutiepi/internal/errors"
	"codeberg.org/mutker/cutiepi/internal/poll"
	"golang.org/x/sync/errgroup"
)

// Source is the polled Pi-hole snapshot.
type Source = poll.Source[Snapshot]

// NewSource returns a poller that fetches every endpoint concurrently.
func NewSource(c *Client, topCount int) *Source {
	if topCount <= 0 {
		topCount = DefaultTopCount
	}

	return poll.New("pihole", func(ctx context.Context, prev *Snapshot) (*Snapshot, error) {
		return c.Fetch(ctx, prev, topCount)
	}, poll.WithTimeout[Snapshot](2*DefaultTimeout), poll.WithFailure[Snapshot](MarkStale))
}

// Fetch gathers a snapshot. Parts that fail keep their value from prev;
// an error is returned only when every request failed.
func (c *Client) Fetch(ctx context.Context, prev *Snapshot, topCount int) (*Snapshot, error) {
	next := &Snapshot{}
	if prev != nil {
		*next = *prev
	}

	var (
		g        errgroup.Group
		summary  Summary
		blocking string
		hist     = next.History
		blocked  = next.TopBlocked
		clients  = next.TopClients
		errs     [5]error
	)

	g.Go(func() error {
		summary, errs[0] = c.Summary(ctx)
		return nil
	})
	g.Go(func() error {
		blocking, errs[1] = c.Blocking(ctx)
		return nil
	})
	g.Go(func() error {
		h, err := c.History(ctx)
		if errs[2] = err; err == nil {
			hist = h
		}
		return nil
	})
	g.Go(func() error {
		b, err := c.TopBlocked(ctx, topCount)
		if errs[3] = err; err == nil {
			blocked = b
		}
		return nil
	})
	g.Go(func() error {
		cl, err := c.TopClients(ctx, topCount)
		if errs[4] = err; err == nil {
			clients = cl
		}
		return nil
	})
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(errs) {
		return nil, errFactory.Wrap(ErrUnreachable, errors.Join(errs[:]...))
	}

	if errs[0] == nil {
		keep := next.Summary.Blocking
		next.Summary = summary
		next.Summary.Blocking = keep
	}
	if errs[1] == nil {
		next.Summary.Blocking = blocking
	} else if next.Summary.Blocking == "" {
		next.Summary.Blocking = BlockingUnknown
	}
	next.History = hist
	next.TopBlocked = blocked
	next.TopClients = clients
	next.FetchedAt = time.Now()
	next.Stale = failed > 0
	next.Err = ""
	if failed > 0 {
		next.Err = errors.Join(errs[:]...).Error()
	}

	return next, nil
}

// MarkStale returns a copy of prev flagged as stale, or nil when there is
// nothing to keep showing.
func MarkStale(prev *Snapshot, err error) *Snapshot {
	if prev == nil {
		return nil
	}
	cp := *prev
	cp.Stale = true
	if err != nil {
		cp.Err = err.Error()
	}

	return &cp
}
