package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/cache"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/clients/pocketbase"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/config"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/utils"
)

// ErrSaveInProgress is returned when a reservation is requested while a
// previous one is still writing to the ledger. The new request is dropped,
// not queued.
var ErrSaveInProgress = errors.New("a reservation is already in progress")

// ClaimPolicy decides what happens when a requested number already has a
// live claim in the ledger.
type ClaimPolicy string

const (
	// PolicyOverwrite reassigns the number to the new claimant, matching
	// the historical behavior of the raffle page.
	PolicyOverwrite ClaimPolicy = "overwrite"
	// PolicyReject skips the number and reports it back as taken.
	PolicyReject ClaimPolicy = "reject"
)

// TicketLedger is the slice of the PocketBase client the coordinator needs.
type TicketLedger interface {
	ListClaimed(ctx context.Context) ([]pocketbase.Record, error)
	FirstByNumber(ctx context.Context, number int) (*pocketbase.Record, error)
	Create(ctx context.Context, rec pocketbase.Record) (*pocketbase.Record, error)
	Update(ctx context.Context, id string, rec pocketbase.Record) error
	Delete(ctx context.Context, id string) error
}

// Notifier builds the outbound payment-summary link for a reservation.
type Notifier interface {
	ReservationLink(numbers []int, claimant models.Claimant, unitPrice int) string
}

// ReservationService turns batches of requested numbers into durable
// ledger claims and keeps the read cache coherent with its own writes.
type ReservationService struct {
	ledger   TicketLedger
	notifier Notifier
	snapshot *cache.Snapshot
	logger   *slog.Logger
	validate *validator.Validate

	unitPrice int
	maxNumber int
	batchSize int
	policy    ClaimPolicy

	// saving serializes reservation batches from this client. It is a
	// drop flag, not a queue: losers of the race get ErrSaveInProgress.
	saving atomic.Bool

	// lastKnown outlives the snapshot's freshness window so reads can
	// degrade to stale data when the ledger is unreachable.
	mu          sync.Mutex
	lastKnown   []models.TicketClaim
	lastReadErr error
}

// NewReservationService creates the reservation coordinator
func NewReservationService(
	ledger TicketLedger,
	notifier Notifier,
	snapshot *cache.Snapshot,
	logger *slog.Logger,
	cfg *config.Config,
) *ReservationService {
	policy := ClaimPolicy(cfg.ClaimPolicy)
	if policy != PolicyReject {
		policy = PolicyOverwrite
	}

	batchSize := cfg.ReserveBatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	return &ReservationService{
		ledger:    ledger,
		notifier:  notifier,
		snapshot:  snapshot,
		logger:    logger,
		validate:  validator.New(),
		unitPrice: cfg.TicketPrice,
		maxNumber: cfg.TotalTickets,
		batchSize: batchSize,
		policy:    policy,
	}
}

// Reserve validates the request, builds the WhatsApp summary link, then
// persists each number as an independent create-or-update against the
// ledger. Ticket writes are best effort: a failed write is logged and
// reported in the result without rolling back its siblings, and the
// notification link is returned regardless.
func (s *ReservationService) Reserve(ctx context.Context, req models.ReservationRequest) (*models.ReservationResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if !s.saving.CompareAndSwap(false, true) {
		s.logger.Warn("reservation already in progress, dropping request",
			"claimant", utils.HashPhone(req.Claimant.Phone))
		return nil, ErrSaveInProgress
	}
	defer s.saving.Store(false)

	numbers := lo.Uniq(req.Numbers)
	slices.Sort(numbers)

	// The notification is built before persistence on purpose: the page
	// hands the participant over to WhatsApp immediately and lets the
	// ledger writes finish in the background.
	link := s.notifier.ReservationLink(numbers, req.Claimant, s.unitPrice)

	outcomes := make([]models.TicketOutcome, len(numbers))
	now := time.Now()

	var group errgroup.Group
	group.SetLimit(s.batchSize)
	for i, number := range numbers {
		i, number := i, number
		group.Go(func() error {
			outcomes[i] = s.saveTicket(ctx, number, req.Claimant, now)
			return nil
		})
	}
	_ = group.Wait()

	// The next read must reflect ledger truth even after partial failure.
	s.snapshot.Invalidate()

	result := &models.ReservationResult{
		Tickets:     outcomes,
		TotalPrice:  len(numbers) * s.unitPrice,
		WhatsAppURL: link,
	}
	for _, outcome := range outcomes {
		switch {
		case outcome.Saved:
			result.SavedCount++
		case outcome.Skipped:
			result.SkippedCount++
		default:
			result.FailedCount++
		}
	}

	s.logger.Info("reservation processed",
		"requested", len(numbers),
		"saved", result.SavedCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
		"claimant", utils.HashPhone(req.Claimant.Phone))

	return result, nil
}

func (s *ReservationService) saveTicket(ctx context.Context, number int, claimant models.Claimant, now time.Time) models.TicketOutcome {
	outcome := models.TicketOutcome{Number: number}

	existing, err := s.ledger.FirstByNumber(ctx, number)
	if err != nil && !errors.Is(err, pocketbase.ErrNotFound) {
		s.logger.Error("error looking up ticket", "number", number, "error", err)
		outcome.Error = err.Error()
		return outcome
	}

	rec := pocketbase.FromClaimant(number, claimant, now)

	switch {
	case existing == nil:
		if _, err := s.ledger.Create(ctx, rec); err != nil {
			s.logger.Error("error creating ticket", "number", number, "error", err)
			outcome.Error = err.Error()
			return outcome
		}
	case s.policy == PolicyReject:
		s.logger.Info("ticket already claimed, skipping", "number", number)
		outcome.Skipped = true
		return outcome
	default:
		if err := s.ledger.Update(ctx, existing.ID, rec); err != nil {
			s.logger.Error("error updating ticket", "number", number, "error", err)
			outcome.Error = err.Error()
			return outcome
		}
	}

	outcome.Saved = true
	return outcome
}

// ListClaimed returns the claimed tickets, cache-first. A fresh fetch
// replaces the snapshot wholesale; a failed fetch degrades to the last
// successful result (or an empty list) instead of surfacing the error.
func (s *ReservationService) ListClaimed(ctx context.Context, forceRefresh bool) []models.TicketClaim {
	if !forceRefresh {
		if claims, ok := s.snapshot.Get(); ok {
			return claims
		}
	}

	records, err := s.ledger.ListClaimed(ctx)
	if err != nil {
		s.logger.Error("error fetching claimed tickets, serving stale data", "error", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastReadErr = err
		if s.lastKnown == nil {
			return []models.TicketClaim{}
		}
		return s.lastKnown
	}

	claims := lo.Map(records, func(rec pocketbase.Record, _ int) models.TicketClaim {
		return pocketbase.ToClaim(rec)
	})
	slices.SortFunc(claims, func(a, b models.TicketClaim) int {
		return a.Number - b.Number
	})

	s.snapshot.Put(claims)

	s.mu.Lock()
	s.lastKnown = claims
	s.lastReadErr = nil
	s.mu.Unlock()

	return claims
}

// LastReadError reports the error recorded by the most recent degraded
// read, or nil after a successful fetch.
func (s *ReservationService) LastReadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReadErr
}

// Summary combines the claimed list with the grid footer counters.
func (s *ReservationService) Summary(ctx context.Context, forceRefresh bool) models.AvailabilitySummary {
	claims := s.ListClaimed(ctx, forceRefresh)
	return models.AvailabilitySummary{
		TotalTickets: s.maxNumber,
		Claimed:      len(claims),
		Available:    s.maxNumber - len(claims),
		UnitPrice:    s.unitPrice,
		Tickets:      claims,
	}
}

// UpdateClaim rewrites the claimant fields of an existing claim. Unlike
// the reservation path this is an administrative operation: remote errors
// propagate to the caller.
func (s *ReservationService) UpdateClaim(ctx context.Context, id string, claimant models.Claimant) error {
	if err := s.validateClaimant(claimant); err != nil {
		return err
	}
	if id == "" {
		return &models.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	rec := pocketbase.Record{
		Nombre:   claimant.Name,
		Telefono: claimant.Phone,
		Vendido:  true,
		Fecha:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.ledger.Update(ctx, id, rec); err != nil {
		return fmt.Errorf("updating claim %s: %w", id, err)
	}

	s.snapshot.Invalidate()
	s.logger.Info("claim updated", "id", id)
	return nil
}

// DeleteClaim removes a claim by its ledger-assigned ID. Remote errors
// propagate to the caller; the cache is invalidated on success.
func (s *ReservationService) DeleteClaim(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	if err := s.ledger.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting claim %s: %w", id, err)
	}

	s.snapshot.Invalidate()
	s.logger.Info("claim deleted", "id", id)
	return nil
}

func (s *ReservationService) validateRequest(req models.ReservationRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return asValidationError(err)
	}
	for _, number := range req.Numbers {
		if number < 1 || number > s.maxNumber {
			return &models.ValidationError{
				Field:  "numbers",
				Reason: fmt.Sprintf("%d is outside [1,%d]", number, s.maxNumber),
			}
		}
	}
	return nil
}

func (s *ReservationService) validateClaimant(claimant models.Claimant) error {
	if err := s.validate.Struct(claimant); err != nil {
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fieldErr := fieldErrs[0]
	field := fieldNames[fieldErr.Field()]
	if field == "" {
		field = fieldErr.Field()
	}

	reason := "is required"
	switch fieldErr.Tag() {
	case "len", "number":
		reason = "must be exactly 10 numeric digits"
	case "min":
		reason = "must not be empty"
	}

	return &models.ValidationError{Field: field, Reason: reason}
}

var fieldNames = map[string]string{
	"Numbers": "numbers",
	"Name":    "claimant.name",
	"Phone":   "claimant.phone",
}
