package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/services"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	reservations *services.ReservationService
	selections   *services.SelectionService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(reservations *services.ReservationService, selections *services.SelectionService) *Handlers {
	return &Handlers{
		reservations: reservations,
		selections:   selections,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// CreateReservation handles a participant submitting their selected
// numbers. Validation failures block the submission; remote write
// failures do not, matching the optimistic design of the page.
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	result, err := h.reservations.Reserve(c.Request.Context(), req)
	if err != nil {
		h.writeReserveError(c, err)
		return
	}

	// The working selection is spent once a reservation goes through.
	if err := h.selections.Clear(); err != nil {
		c.JSON(http.StatusOK, gin.H{"result": result, "warning": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListTickets returns the claimed tickets plus availability counters.
// Pass ?refresh=1 to bypass the read cache.
func (h *Handlers) ListTickets(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "1"
	summary := h.reservations.Summary(c.Request.Context(), forceRefresh)

	response := gin.H{"summary": summary}
	if err := h.reservations.LastReadError(); err != nil {
		response["stale"] = true
	}

	c.JSON(http.StatusOK, response)
}

type addClaimRequest struct {
	Number   int             `json:"number"`
	Claimant models.Claimant `json:"claimant"`
}

// AddClaim records a single claim directly, used by the admin panel to
// register tickets sold off-platform.
func (h *Handlers) AddClaim(c *gin.Context) {
	var req addClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	result, err := h.reservations.Reserve(c.Request.Context(), models.ReservationRequest{
		Numbers:  []int{req.Number},
		Claimant: req.Claimant,
	})
	if err != nil {
		h.writeReserveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// UpdateClaim rewrites the claimant fields of an existing claim.
func (h *Handlers) UpdateClaim(c *gin.Context) {
	var claimant models.Claimant
	if err := c.ShouldBindJSON(&claimant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	if err := h.reservations.UpdateClaim(c.Request.Context(), c.Param("id"), claimant); err != nil {
		h.writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteClaim removes a claim, freeing its number.
func (h *Handlers) DeleteClaim(c *gin.Context) {
	if err := h.reservations.DeleteClaim(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type selectRequest struct {
	Number   int `json:"number"`
	Quantity int `json:"quantity"`
}

// SelectNumber sets the quantity for one number in the local selection.
func (h *Handlers) SelectNumber(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	if err := h.selections.Select(req.Number, req.Quantity); err != nil {
		h.writeSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type toggleRequest struct {
	Number int `json:"number"`
}

// ToggleNumber adds or removes a number from the pending-submission set.
func (h *Handlers) ToggleNumber(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	claimed := h.reservations.ListClaimed(c.Request.Context(), false)
	if err := h.selections.ToggleForSeparation(req.Number, claimed); err != nil {
		h.writeSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": h.selections.Pending()})
}

// GetSelection returns the current working selection and its totals.
func (h *Handlers) GetSelection(c *gin.Context) {
	tickets, price := h.selections.Totals()
	c.JSON(http.StatusOK, gin.H{
		"quantities":    h.selections.Quantities(),
		"pending":       h.selections.Pending(),
		"total_tickets": tickets,
		"total_price":   price,
	})
}

// ClearSelection cancels the working selection.
func (h *Handlers) ClearSelection(c *gin.Context) {
	if err := h.selections.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handlers) writeReserveError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, services.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handlers) writeAdminError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func (h *Handlers) writeSelectionError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, services.ErrNumberUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
