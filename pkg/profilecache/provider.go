// Package profilecache implements the client-side user profile cache used by
// UI shells: once the ambient session becomes authenticated with a known
// email, the provider fetches the backend user profile exactly once per
// session change and exposes it, plus loading and error state, to
// subscribers.
package profilecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"participant_portal_backend/platform/logger"
)

// ErrFetchFailed is set on the snapshot when the profile request fails for
// any reason other than the profile simply not existing.
var ErrFetchFailed = errors.New("failed to fetch user profile")

// SessionStatus mirrors the ambient session lifecycle.
type SessionStatus int

const (
	// SessionLoading means the session itself is still resolving; the
	// provider neither fetches nor resets.
	SessionLoading SessionStatus = iota
	// SessionAuthenticated means a session with a known email exists.
	SessionAuthenticated
	// SessionUnauthenticated means no session exists.
	SessionUnauthenticated
)

// Session is the ambient session reference the provider reacts to.
type Session struct {
	Status SessionStatus
	Email  string
}

// Organization is the nested tenant on a profile.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the backend profile record.
type User struct {
	ID           string        `json:"id"`
	Name         *string       `json:"name"`
	Email        string        `json:"email"`
	Role         *string       `json:"role"`
	Organization *Organization `json:"organization,omitempty"`
}

// Snapshot is the state exposed to descendant UI.
type Snapshot struct {
	User      *User
	IsLoading bool
	Err       error
}

// Provider caches the current user's profile across a session.
//
// A generation counter guards against a stale response racing a newer
// session change: each SetSession bumps the generation, and a fetch result
// is discarded unless its generation is still current.
type Provider struct {
	baseURL string
	client  *http.Client
	token   func() string
	log     *logger.Logger

	mu   sync.Mutex
	gen  uint64
	snap Snapshot
	subs map[chan Snapshot]struct{}
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithTokenSource supplies the bearer token attached to profile requests.
func WithTokenSource(token func() string) Option {
	return func(p *Provider) { p.token = token }
}

// New creates a provider pointed at the backend base URL. The initial
// snapshot is loading with no user, matching a UI that has not yet resolved
// its session.
func New(baseURL string, log *logger.Logger, opts ...Option) *Provider {
	p := &Provider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
		snap:    Snapshot{IsLoading: true},
		subs:    make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the current state.
func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Subscribe returns a channel receiving every snapshot change and a cancel
// function. Slow subscribers miss intermediate snapshots rather than
// blocking the provider.
func (p *Provider) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		delete(p.subs, ch)
		p.mu.Unlock()
	}
	return ch, cancel
}

// SetSession reacts to a session reference change.
//
// Authenticated with an email: start a fetch for that email.
// Unauthenticated: reset to empty state immediately, independent of any
// in-flight fetch.
// Loading: leave state untouched until the session resolves.
func (p *Provider) SetSession(session Session) {
	p.mu.Lock()

	switch {
	case session.Status == SessionAuthenticated && session.Email != "":
		p.gen++
		gen := p.gen
		p.applyLocked(Snapshot{User: nil, IsLoading: true, Err: nil})
		p.mu.Unlock()
		go p.fetch(gen, session.Email)

	case session.Status == SessionUnauthenticated:
		p.gen++
		p.applyLocked(Snapshot{User: nil, IsLoading: false, Err: nil})
		p.mu.Unlock()

	default:
		p.mu.Unlock()
	}
}

func (p *Provider) fetch(gen uint64, email string) {
	snap := p.fetchSnapshot(email)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// A newer session change superseded this fetch.
		return
	}
	p.applyLocked(snap)
}

func (p *Provider) fetchSnapshot(email string) Snapshot {
	endpoint := fmt.Sprintf("%s/api/users?email=%s", p.baseURL, url.QueryEscape(email))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return Snapshot{Err: ErrFetchFailed}
	}
	if p.token != nil {
		if t := p.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("profile fetch failed", "email", email, "error", err)
		return Snapshot{Err: ErrFetchFailed}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Authenticated but unregistered is a legitimate state, not an error.
		p.log.Info("user not found in database, but authenticated", "email", email)
		return Snapshot{}

	case resp.StatusCode != http.StatusOK:
		p.log.Error("profile fetch returned error status", "email", email, "status", resp.StatusCode)
		return Snapshot{Err: ErrFetchFailed}
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		p.log.Error("profile decode failed", "email", email, "error", err)
		return Snapshot{Err: ErrFetchFailed}
	}

	if user.Organization == nil {
		p.log.Warn("organization data is missing for user", "email", user.Email)
	}

	return Snapshot{User: &user}
}

// applyLocked stores the snapshot and notifies subscribers. Callers hold mu.
func (p *Provider) applyLocked(snap Snapshot) {
	p.snap = snap
	for ch := range p.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale value so the latest always fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
