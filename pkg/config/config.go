package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration values
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	PocketBaseURL        string `env:"POCKETBASE_URL" envDefault:"https://rifas-frigo.pockethost.io"`
	PocketBaseCollection string `env:"POCKETBASE_COLLECTION" envDefault:"tickets"`

	WhatsAppPhone string `env:"WHATSAPP_PHONE" envDefault:"8442818979"`

	TicketPrice  int `env:"TICKET_PRICE" envDefault:"50"`
	TotalTickets int `env:"TOTAL_TICKETS" envDefault:"100"`

	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5s"`
	ReserveBatchSize int           `env:"RESERVE_BATCH_SIZE" envDefault:"5"`

	// "overwrite" reassigns an already-claimed number to the new claimant,
	// "reject" skips it and reports the conflict back to the caller.
	ClaimPolicy string `env:"CLAIM_POLICY" envDefault:"overwrite"`

	SelectionStorePath string `env:"SELECTION_STORE_PATH" envDefault:"selected_numbers.json"`
}

// LoadConfig reads configuration from the environment, with .env support
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}
