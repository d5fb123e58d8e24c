package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"servenet/pkg/types"
)

type RegistryOptions struct {
	// IdleTimeout drops sessions that have not been opened for this long.
	// Zero keeps every session until Close.
	IdleTimeout time.Duration
	Now         func() time.Time
}

type session struct {
	store    *SubmissionStore
	lastSeen time.Time
}

// Registry owns one SubmissionStore per connected wallet.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*session
	factory     func(wallet string) *SubmissionStore
	idleTimeout time.Duration
	now         func() time.Time
}

func NewRegistry(factory func(wallet string) *SubmissionStore, opts RegistryOptions) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Registry{
		sessions:    make(map[string]*session),
		factory:     factory,
		idleTimeout: opts.IdleTimeout,
		now:         opts.Now,
	}
}

func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

// Open returns the wallet's store, creating it on first use. Every call
// refreshes the session and sweeps out sessions idle past the timeout.
func (r *Registry) Open(wallet string) *SubmissionStore {
	wallet = NormalizeWallet(wallet)
	now := r.now()

	r.mu.Lock()
	evicted := r.sweepLocked(now)

	sess, ok := r.sessions[wallet]
	if !ok {
		sess = &session{store: r.factory(wallet)}
		r.sessions[wallet] = sess
	}
	sess.lastSeen = now
	r.mu.Unlock()

	for _, s := range evicted {
		s.Reset()
	}
	return sess.store
}

func (r *Registry) sweepLocked(now time.Time) []*SubmissionStore {
	if r.idleTimeout <= 0 {
		return nil
	}

	var evicted []*SubmissionStore
	for wallet, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.idleTimeout {
			evicted = append(evicted, sess.store)
			delete(r.sessions, wallet)
		}
	}
	return evicted
}

func (r *Registry) Lookup(wallet string) (*SubmissionStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[NormalizeWallet(wallet)]
	if !ok {
		return nil, false
	}
	return sess.store, true
}

// Close resets the wallet's store, cancelling its timers, and forgets it.
// It returns ErrSessionNotFound when the wallet has no open session.
func (r *Registry) Close(wallet string) error {
	wallet = NormalizeWallet(wallet)

	r.mu.Lock()
	sess, ok := r.sessions[wallet]
	delete(r.sessions, wallet)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", wallet, types.ErrSessionNotFound)
	}

	sess.store.Reset()
	return nil
}

func (r *Registry) CloseAll() int {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.store.Reset()
	}
	return len(sessions)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
