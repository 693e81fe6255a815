package models

import (
	"fmt"
	"time"
)

// TicketClaim represents one reserved number as stored in the remote ledger.
// ID is assigned by the ledger on creation and is empty until persisted.
type TicketClaim struct {
	ID     string    `json:"id,omitempty"`
	Number int       `json:"number"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Date   time.Time `json:"date,omitempty"`
}

// Claimant holds the participant data attached to a reservation.
type Claimant struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,len=10,number"`
}

// ReservationRequest is the payload coming from the ticket grid form.
type ReservationRequest struct {
	Numbers  []int    `json:"numbers" validate:"required,min=1"`
	Claimant Claimant `json:"claimant"`
}

// TicketOutcome records the result of a single create-or-update call
// inside a reservation batch.
type TicketOutcome struct {
	Number  int    `json:"number"`
	Saved   bool   `json:"saved"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReservationResult reports persistence and notification independently:
// the WhatsApp message is dispatched even when some ticket writes failed,
// so callers need both outcomes.
type ReservationResult struct {
	Tickets      []TicketOutcome `json:"tickets"`
	SavedCount   int             `json:"saved_count"`
	FailedCount  int             `json:"failed_count"`
	SkippedCount int             `json:"skipped_count,omitempty"`
	TotalPrice   int             `json:"total_price"`
	WhatsAppURL  string          `json:"whatsapp_url"`
}

// AvailabilitySummary mirrors the grid footer: how many tickets are
// claimed, how many remain, and the unit price.
type AvailabilitySummary struct {
	TotalTickets int           `json:"total_tickets"`
	Claimed      int           `json:"claimed"`
	Available    int           `json:"available"`
	UnitPrice    int           `json:"unit_price"`
	Tickets      []TicketClaim `json:"tickets"`
}

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
