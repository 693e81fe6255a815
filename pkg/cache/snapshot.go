package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
)

const snapshotKey = "claimedTickets"

// Snapshot is a time-boxed memoization of the last claimed-tickets fetch.
// A snapshot is only ever replaced wholesale or dropped; there are no
// partial updates.
type Snapshot struct {
	store *gocache.Cache
}

// NewSnapshot creates a snapshot cache whose entries expire after ttl.
func NewSnapshot(ttl time.Duration) *Snapshot {
	return &Snapshot{
		store: gocache.New(ttl, ttl),
	}
}

// Get returns the cached claim list, or false when the snapshot is absent
// or has aged past the freshness window.
func (s *Snapshot) Get() ([]models.TicketClaim, bool) {
	value, ok := s.store.Get(snapshotKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.([]models.TicketClaim)
	return claims, ok
}

// Put replaces the snapshot and restarts its freshness window.
func (s *Snapshot) Put(claims []models.TicketClaim) {
	s.store.Set(snapshotKey, claims, gocache.DefaultExpiration)
}

// Invalidate drops the snapshot so the next read forces a remote fetch.
func (s *Snapshot) Invalidate() {
	s.store.Delete(snapshotKey)
}
