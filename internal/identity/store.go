// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity persists the local user identity and fans writes
// out to subscribers.
//
// The store is a single shared observable value: read from disk at
// startup, mutated by Save/Clear, observed by every component that
// scopes a chat to a user. It is injected into consumers rather than
// exposed as a process-wide global. Without an identity, chat sending
// is unavailable.
package identity

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/donnalabs/donna-tui/internal/util"
)

// Identity is the local record identifying the current user to the
// backend. Cleared only by explicit logout.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Store holds the current identity and its subscribers.
type Store struct {
	mu      sync.Mutex
	path    string
	current *Identity
	nextSub int
	subs    map[int]func(*Identity)
}

// NewStore loads the identity record from the default location
// (~/.donna/identity.json). A missing or corrupt record reads as "no
// identity"; corruption is logged, never fatal.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithPath(filepath.Join(homeDir, ".donna", "identity.json")), nil
}

// NewStoreWithPath loads the identity record from a custom path.
func NewStoreWithPath(path string) *Store {
	s := &Store{
		path: path,
		subs: make(map[int]func(*Identity)),
	}
	s.current = readIdentity(path)
	return s
}

// Current returns the active identity, or nil when none is stored.
func (s *Store) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// Save persists a new identity and notifies all subscribers.
func (s *Store) Save(id Identity) error {
	data, err := json.MarshalIndent(&id, "", "  ")
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = &id
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, &id)
	return nil
}

// Clear removes the identity record (logout) and notifies all
// subscribers with nil.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	s.mu.Lock()
	s.current = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, nil)
	return nil
}

// Subscribe registers fn to run on every identity change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs copies the subscriber list; callbacks run outside the
// lock.
func (s *Store) snapshotSubs() []func(*Identity) {
	out := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(*Identity), id *Identity) {
	for _, fn := range subs {
		var copied *Identity
		if id != nil {
			c := *id
			copied = &c
		}
		fn(copied)
	}
}

func readIdentity(path string) *Identity {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		log.Printf("identity record corrupt, ignoring: %v", err)
		return nil
	}
	if id.UserID == "" {
		return nil
	}
	return &id
}
