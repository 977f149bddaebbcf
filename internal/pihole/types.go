package pihole

import (
	"time"

	"codeberg.org/mutker/cutiepi/internal/history"
)

// Blocking states reported by /dns/blocking.
const (
	BlockingEnabled  = "enabled"
	BlockingDisabled = "disabled"
	BlockingUnknown  = "unknown"
)

// Summary is the headline counters for the current day.
type Summary struct {
	Total          int
	Blocked        int
	PercentBlocked float64
	ActiveClients  int
	Blocklist      int
	Blocking       string
}

// Entry is one row of a top list.
type Entry struct {
	Name  string
	Count int
}

// Snapshot is everything the dashboard shows from Pi-hole. Published
// snapshots are never modified.
type Snapshot struct {
	Summary    Summary
	History    []history.Sample
	TopBlocked []Entry
	TopClients []Entry
	FetchedAt  time.Time
	Stale      bool
	Err        string
}

// Enabled reports whether blocking is on; unknown counts as on.
func (s Summary) Enabled() bool {
	return s.Blocking != BlockingDisabled
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Session struct {
		Valid bool   `json:"valid"`
		SID   string `json:"sid"`
	} `json:"session"`
}

type summaryResponse struct {
	Queries struct {
		Total          int     `json:"total"`
		Blocked        int     `json:"blocked"`
		PercentBlocked float64 `json:"percent_blocked"`
	} `json:"queries"`
	Clients struct {
		Active int `json:"active"`
	} `json:"clients"`
	Gravity struct {
		DomainsBeingBlocked int `json:"domains_being_blocked"`
	} `json:"gravity"`
}

type blockingResponse struct {
	Blocking string `json:"blocking"`
}

type historyResponse struct {
	History []struct {
		Timestamp float64 `json:"timestamp"`
		Total     int     `json:"total"`
		Blocked   int     `json:"blocked"`
	} `json:"history"`
}

type topDomainsResponse struct {
	Domains []struct {
		Domain string `json:"domain"`
		Count  int    `json:"count"`
	} `json:"domains"`
}

type topClientsResponse struct {
	Clients []struct {
		Name  string `json:"name"`
		IP    string `json:"ip"`
		Count int    `json:"count"`
	} `json:"clients"`
}
