// Package pihole talks to the Pi-hole v6 REST API.
package pihole

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/cutiepi/internal/history"
	"codeberg.org/mutker/cutiepi/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultTopCount = 10
	sidHeader       = "sid"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is safe for concurrent use; the session id is shared.
type Client struct {
	base     string
	password string
	http     *http.Client

	mu     sync.Mutex
	sid    string
	authMu sync.Mutex
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g. http://pi.hole/api.
// An empty password skips authentication.
func NewClient(baseURL, password string, opts ...Option) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		password: password,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Summary returns today's counters. Blocking is left empty; see Blocking.
func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var r summaryResponse
	if err := c.get(ctx, "/stats/summary", &r); err != nil {
		return Summary{}, err
	}

	return Summary{
		Total:          r.Queries.Total,
		Blocked:        r.Queries.Blocked,
		PercentBlocked: r.Queries.PercentBlocked,
		ActiveClients:  r.Clients.Active,
		Blocklist:      r.Gravity.DomainsBeingBlocked,
	}, nil
}

// Blocking returns the DNS blocking state.
func (c *Client) Blocking(ctx context.Context) (string, error) {
	var r blockingResponse
	if err := c.get(ctx, "/dns/blocking", &r); err != nil {
		return BlockingUnknown, err
	}
	if r.Blocking == "" {
		return BlockingUnknown, nil
	}

	return r.Blocking, nil
}

// History returns the query history buckets, oldest first.
func (c *Client) History(ctx context.Context) ([]history.Sample, error) {
	var r historyResponse
	if err := c.get(ctx, "/history", &r); err != nil {
		return nil, err
	}

	out := make([]history.Sample, 0, len(r.History))
	for _, h := range r.History {
		sec, frac := math.Modf(h.Timestamp)
		out = append(out, history.Sample{
			Time:    time.Unix(int64(sec), int64(frac*1e9)),
			Total:   h.Total,
			Blocked: h.Blocked,
		})
	}

	return out, nil
}

// TopBlocked returns the most blocked domains in server order.
func (c *Client) TopBlocked(ctx context.Context, n int) ([]Entry, error) {
	var r topDomainsResponse
	q := url.Values{"blocked": {"true"}, "count": {fmt.Sprint(n)}}
	if err := c.get(ctx, "/stats/top_domains?"+q.Encode(), &r); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(r.Domains))
	for _, d := range r.Domains {
		name := d.Domain
		if name == "" {
			name = "unknown"
		}
		out = append(out, Entry{Name: name, Count: d.Count})
	}

	return out, nil
}

// TopClients returns the busiest clients in server order, by name when known.
func (c *Client) TopClients(ctx context.Context, n int) ([]Entry, error) {
	var r topClientsResponse
	q := url.Values{"count": {fmt.Sprint(n)}}
	if err := c.get(ctx, "/stats/top_clients?"+q.Encode(), &r); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(r.Clients))
	for _, cl := range r.Clients {
		name := cl.Name
		if name == "" {
			name = cl.IP
		}
		if name == "" {
			name = "unknown"
		}
		out = append(out, Entry{Name: name, Count: cl.Count})
	}

	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if c.password != "" && c.session() == "" {
		if err := c.ensureSession(ctx, ""); err != nil {
			return err
		}
	}

	sid := c.session()
	status, body, err := c.do(ctx, path, sid)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized && c.password != "" {
		logger.Debug().Str("path", path).Msg("session expired, re-authenticating")
		if err := c.ensureSession(ctx, sid); err != nil {
			return err
		}
		if status, body, err = c.do(ctx, path, c.session()); err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return errFactory.WithData(ErrStatus, fmt.Sprintf("%s: %d", path, status))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errFactory.Wrap(ErrDecode, err).WithData(path)
	}

	return nil
}

func (c *Client) do(ctx context.Context, path, sid string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrRequest, err).WithData(path)
	}
	req.Header.Set("Accept", "application/json")
	if sid != "" {
		req.Header.Set(sidHeader, sid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrUnreachable, err).WithData(path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errFactory.Wrap(ErrRequest, err).WithData(path)
	}

	return resp.StatusCode, body, nil
}

// ensureSession authenticates unless another caller already replaced the
// session that was rejected.
func (c *Client) ensureSession(ctx context.Context, rejected string) error {
	c.authMu.Lock()
	defer c.authMu.Unlock()

	if cur := c.session(); cur != "" && cur != rejected {
		return nil
	}

	return c.authenticate(ctx)
}

func (c *Client) authenticate(ctx context.Context) error {
	payload, err := json.Marshal(authRequest{Password: c.password})
	if err != nil {
		return errFactory.Wrap(ErrAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth", bytes.NewReader(payload))
	if err != nil {
		return errFactory.Wrap(ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrUnreachable, err).WithData("/auth")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setSession("")
		return errFactory.WithData(ErrAuth, resp.StatusCode)
	}

	var r authResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return errFactory.Wrap(ErrDecode, err).WithData("/auth")
	}
	if r.Session.SID == "" {
		return errFactory.WithData(ErrAuth, "no session id")
	}
	c.setSession(r.Session.SID)
	logger.Debug().Msg("authenticated with Pi-hole")

	return nil
}

func (c *Client) session() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sid
}

func (c *Client) setSession(sid string) {
	c.mu.Lock()
	c.sid = sid
	c.mu.Unlock()
}
