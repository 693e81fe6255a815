package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := LoadConfig()
	rq.NoError(err)

	rq.Equal(50, cfg.TicketPrice)
	rq.Equal(100, cfg.TotalTickets)
	rq.Equal(5*time.Second, cfg.CacheTTL)
	rq.Equal(5, cfg.ReserveBatchSize)
	rq.Equal("overwrite", cfg.ClaimPolicy)
	rq.Equal("tickets", cfg.PocketBaseCollection)
}

func TestLoadConfigOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("TICKET_PRICE", "75")
	t.Setenv("CLAIM_POLICY", "reject")
	t.Setenv("CACHE_TTL", "10s")

	cfg, err := LoadConfig()
	rq.NoError(err)

	rq.Equal(75, cfg.TicketPrice)
	rq.Equal("reject", cfg.ClaimPolicy)
	rq.Equal(10*time.Second, cfg.CacheTTL)
}
