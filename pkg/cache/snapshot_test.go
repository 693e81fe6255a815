package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
)

func TestSnapshotLifecycle(t *testing.T) {
	rq := require.New(t)
	snapshot := NewSnapshot(time.Minute)

	_, ok := snapshot.Get()
	rq.False(ok, "empty cache must miss")

	claims := []models.TicketClaim{{Number: 3, Name: "Ana"}}
	snapshot.Put(claims)

	got, ok := snapshot.Get()
	rq.True(ok)
	rq.Equal(claims, got)

	snapshot.Invalidate()
	_, ok = snapshot.Get()
	rq.False(ok, "invalidated cache must miss")
}

func TestSnapshotExpiresAfterWindow(t *testing.T) {
	rq := require.New(t)
	snapshot := NewSnapshot(30 * time.Millisecond)

	snapshot.Put([]models.TicketClaim{{Number: 3}})
	_, ok := snapshot.Get()
	rq.True(ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = snapshot.Get()
	rq.False(ok, "snapshot past the freshness window must miss")
}

func TestSnapshotReplacedWholesale(t *testing.T) {
	rq := require.New(t)
	snapshot := NewSnapshot(time.Minute)

	snapshot.Put([]models.TicketClaim{{Number: 3}, {Number: 47}})
	snapshot.Put([]models.TicketClaim{{Number: 12}})

	got, ok := snapshot.Get()
	rq.True(ok)
	rq.Len(got, 1)
	rq.Equal(12, got[0].Number)
}
