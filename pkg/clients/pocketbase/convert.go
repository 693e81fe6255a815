package pocketbase

import (
	"time"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
)

// PocketBase stores timestamps as "2006-01-02 15:04:05.000Z"; records written
// by older clients carry RFC 3339 strings instead.
var fechaLayouts = []string{time.RFC3339, "2006-01-02 15:04:05.000Z"}

// ToClaim converts a wire record into a domain ticket claim.
func ToClaim(rec Record) models.TicketClaim {
	claim := models.TicketClaim{
		ID:     rec.ID,
		Number: rec.NumBoleto,
		Name:   rec.Nombre,
		Phone:  rec.Telefono,
	}
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, rec.Fecha); err == nil {
			claim.Date = t
			break
		}
	}
	return claim
}

// FromClaimant builds the record payload for a create-or-update write.
// Vendido is always true: the ledger only ever stores claimed tickets.
func FromClaimant(number int, claimant models.Claimant, now time.Time) Record {
	return Record{
		NumBoleto: number,
		Nombre:    claimant.Name,
		Telefono:  claimant.Phone,
		Vendido:   true,
		Fecha:     now.UTC().Format(time.RFC3339),
	}
}
