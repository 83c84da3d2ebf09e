package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"
)

// RelayInfo describes a relay visible in the client's server browser.
type RelayInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type relayRecord struct {
	RelayInfo
	LastSeen time.Time
}

// Registry is an in-memory directory of relays. Entries that miss
// heartbeats for longer than the TTL are expired.
type Registry struct {
	mu     sync.RWMutex
	relays map[string]*relayRecord
	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		relays: make(map[string]*relayRecord),
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
}

// Run expires stale relays every interval until Stop.
func (r *Registry) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

func (r *Registry) Register(info RelayInfo) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	id := fmt.Sprintf("%x", b)

	info.ID = id

	r.mu.Lock()
	r.relays[id] = &relayRecord{
		RelayInfo: info,
		LastSeen:  r.now(),
	}
	r.mu.Unlock()

	return id
}

var (
	errUnknownRelay = errors.New("unknown relay")
	errOverCapacity = errors.New("players exceed relay capacity")
)

// Heartbeat refreshes a relay and records its seated players. A count above
// the capacity the relay registered with is refused and does not refresh it.
func (r *Registry) Heartbeat(id string, players int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.relays[id]
	if !ok {
		return errUnknownRelay
	}
	if rec.MaxPlayers > 0 && players > rec.MaxPlayers {
		return errOverCapacity
	}
	rec.LastSeen = r.now()
	rec.Players = players
	return nil
}

// Deregister removes a relay and reports whether it was listed.
func (r *Registry) Deregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.relays[id]; !ok {
		return false
	}
	delete(r.relays, id)
	return true
}

// List returns the live relays, filtered by version when one is given,
// ordered by name.
func (r *Registry) List(version string) []RelayInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]RelayInfo, 0, len(r.relays))
	for _, rec := range r.relays {
		if version != "" && rec.Version != "" && rec.Version != version {
			continue
		}
		result = append(result, rec.RelayInfo)
	}
	slices.SortFunc(result, func(a, b RelayInfo) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Expire drops relays not seen within the TTL and returns how many.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, rec := range r.relays {
		if now.Sub(rec.LastSeen) >= r.ttl {
			log.Printf("[master] expired relay %q (id=%s, last seen %s ago)",
				rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.relays, id)
			n++
		}
	}
	return n
}
