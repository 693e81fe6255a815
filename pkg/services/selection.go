package services

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/config"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/storage"
)

const selectedNumbersKey = "selectedNumbers"

// ErrNumberUnavailable is returned when toggling a number that is already
// claimed in the ledger or already carries a quantity selection.
var ErrNumberUnavailable = errors.New("number is not available for selection")

// SelectionService tracks the participant's in-progress choices before a
// reservation is submitted. Selections are intent, not claims: they live
// on this device only and never conflict with the ledger's uniqueness
// invariant.
type SelectionService struct {
	store  *storage.LocalStore
	logger *slog.Logger

	maxNumber int
	unitPrice int

	mu         sync.Mutex
	quantities map[int]int
	pending    map[int]struct{}
}

// NewSelectionService creates the selection store, restoring any
// quantities persisted from a previous session.
func NewSelectionService(store *storage.LocalStore, logger *slog.Logger, cfg *config.Config) *SelectionService {
	s := &SelectionService{
		store:      store,
		logger:     logger,
		maxNumber:  cfg.TotalTickets,
		unitPrice:  cfg.TicketPrice,
		quantities: map[int]int{},
		pending:    map[int]struct{}{},
	}

	if _, err := store.Load(selectedNumbersKey, &s.quantities); err != nil {
		// A corrupt local file should not block the page; start empty.
		logger.Error("error restoring selected numbers", "error", err)
		s.quantities = map[int]int{}
	}

	return s
}

// Select sets the quantity for a number. Quantity 0 removes the entry.
func (s *SelectionService) Select(number, quantity int) error {
	if number < 1 || number > s.maxNumber {
		return &models.ValidationError{
			Field:  "number",
			Reason: fmt.Sprintf("%d is outside [1,%d]", number, s.maxNumber),
		}
	}
	if quantity < 0 {
		return &models.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity == 0 {
		delete(s.quantities, number)
	} else {
		s.quantities[number] = quantity
	}

	return s.persist()
}

// ToggleForSeparation adds or removes a number from the pending-submission
// set. Numbers already claimed in the ledger or already carrying a
// quantity selection cannot be toggled.
func (s *SelectionService) ToggleForSeparation(number int, claimed []models.TicketClaim) error {
	if number < 1 || number > s.maxNumber {
		return &models.ValidationError{
			Field:  "number",
			Reason: fmt.Sprintf("%d is outside [1,%d]", number, s.maxNumber),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[number]; ok {
		delete(s.pending, number)
		return nil
	}

	if s.quantities[number] > 0 {
		return ErrNumberUnavailable
	}
	if lo.SomeBy(claimed, func(c models.TicketClaim) bool { return c.Number == number }) {
		return ErrNumberUnavailable
	}

	s.pending[number] = struct{}{}
	return nil
}

// Pending returns the numbers toggled for separation, ascending.
func (s *SelectionService) Pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers := lo.Keys(s.pending)
	slices.Sort(numbers)
	return numbers
}

// Quantities returns a copy of the quantity selections.
func (s *SelectionService) Quantities() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Assign(map[int]int{}, s.quantities)
}

// Totals reports the working ticket count and its price: quantity
// selections plus pending toggles, at the unit price.
func (s *SelectionService) Totals() (tickets, price int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets = lo.Sum(lo.Values(s.quantities)) + len(s.pending)
	return tickets, tickets * s.unitPrice
}

// Clear wipes both the quantity selections and the pending set. Called
// after a reservation is submitted or cancelled.
func (s *SelectionService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quantities = map[int]int{}
	s.pending = map[int]struct{}{}

	if err := s.store.Delete(selectedNumbersKey); err != nil {
		return fmt.Errorf("clearing selections: %w", err)
	}
	return nil
}

func (s *SelectionService) persist() error {
	if err := s.store.Save(selectedNumbersKey, s.quantities); err != nil {
		return fmt.Errorf("persisting selections: %w", err)
	}
	return nil
}
