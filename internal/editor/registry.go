// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle editor session survives before
// eviction. The undo log dies with the session; only committed presents
// are persisted.
const DefaultSessionTTL = 2 * time.Hour

// Registry tracks open editor sessions by id. All methods are safe for
// concurrent use. It runs a background goroutine that evicts idle
// sessions; call Stop on shutdown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewRegistry creates a session registry with the given idle TTL
// (DefaultSessionTTL when zero) and starts the eviction loop.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.evictIdle()
			case <-r.stopCh:
				return
			}
		}
	}()

	return r
}

// Stop terminates the background eviction goroutine.
func (r *Registry) Stop() {
	close(r.stopCh)
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns the session with the given id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove closes a session. In-flight async results for a removed session
// are simply inert.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// evictIdle drops sessions idle past the TTL.
func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
