// Repair HTTP handlers.
//
// This file exposes the REST endpoints for repair records:
//   - GET    /management/repair             (list, full set, ETag support)
//   - GET    /management/repair/{id}        (fetch one)
//   - POST   /management/repair             (create)
//   - PUT    /management/repair/{id}        (full-field update)
//   - PATCH  /management/repair/{id}/status (validated status transition)
//   - DELETE /management/repair/{id}        (terminal delete)
//
// Handlers are transport-thin: they validate input, call the repair service,
// and translate results into HTTP responses. Unexpected failures collapse
// into fixed per-operation messages so internal details never reach clients.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-repair-backend/internal/domain"
	"github.com/tbourn/go-repair-backend/internal/http/middleware"
	"github.com/tbourn/go-repair-backend/internal/repo"
	"github.com/tbourn/go-repair-backend/internal/services"
)

//
// Service contract (context-aware)
//

// RepairService defines the repair lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RepairService interface {
	// List returns every record, newest first, or nothing on failure.
	List(ctx context.Context) ([]domain.Repair, error)
	// Get returns one record by id.
	Get(ctx context.Context, id string) (*domain.Repair, error)
	// Create inserts a record, defaulting a blank status to active.
	Create(ctx context.Context, in services.CreateRepairInput) (*domain.Repair, error)
	// Update replaces the mutable fields of a record (legacy/bulk path).
	Update(ctx context.Context, id string, in services.UpdateRepairInput) (*domain.Repair, error)
	// Transition changes the status through the validated path.
	Transition(ctx context.Context, id, status string) (*domain.Repair, error)
	// Delete removes a record; a second call for the same id is Not-Found.
	Delete(ctx context.Context, id string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for repair management. It depends on an
// abstract service interface to keep transport concerns separate from
// business logic.
type Handlers struct {
	repairSvc RepairService

	// IdempotencyTTL bounds how long a stored mutation result can be
	// replayed. Zero falls back to 24h.
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given service.
func New(repairSvc RepairService) *Handlers {
	return &Handlers{repairSvc: repairSvc}
}

// userID resolves the caller identity: authentication context first, then the
// X-User-ID header, then a development-friendly fallback.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
		return h
	}
	return "demo-user"
}

// idempotencyKey returns the key stashed by the validator middleware, reading
// the header directly when the route is mounted without it.
func idempotencyKey(c *gin.Context) string {
	if k, ok := middleware.GetIdempotencyKey(c); ok {
		return k
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

// recordIdempotency persists the (user, repair, key) tuple after a successful
// mutation so a retried request with the same key is detected as a replay.
// Best effort: a storage failure never fails the request that already
// succeeded.
func (h *Handlers) recordIdempotency(c *gin.Context, status int) {
	key := idempotencyKey(c)
	if key == "" {
		return
	}
	svc, isConcrete := h.repairSvc.(*services.RepairService)
	if !isConcrete || svc.DB == nil {
		return
	}
	ttl := h.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, _ = repo.CreateIdempotency(c.Request.Context(), svc.DB, userID(c), c.Param("id"), key, status, ttl)
}

//
// DTOs
//

// CreateRepairRequest is the JSON payload for creating a repair record.
// All fields are optional; a missing or blank status defaults to "active".
type CreateRepairRequest struct {
	UserID       *string `json:"user_id" example:"7f68c1ea-0b6a-4f0e-a053-3f3b5f04f1cd"`
	MachineID    *string `json:"machine_id" example:"MC-102"`
	RepairStatus string  `json:"repair_status" example:"active"`
}

// UpdateRepairRequest is the JSON payload for a full-field update. The
// three mutable fields are replaced wholesale; omitted reference ids are
// written as NULL.
type UpdateRepairRequest struct {
	UserID       *string `json:"user_id" example:"7f68c1ea-0b6a-4f0e-a053-3f3b5f04f1cd"`
	MachineID    *string `json:"machine_id" example:"MC-102"`
	RepairStatus string  `json:"repair_status" binding:"required" example:"postponed"`
}

// TransitionRequest is the JSON payload for the status-transition endpoint.
type TransitionRequest struct {
	// Status must be one of: active, cancelled, postponed.
	Status string `json:"status" binding:"required" example:"cancelled"`
}

// ListRepairsResponse wraps the complete record set.
type ListRepairsResponse struct {
	OK      bool            `json:"ok" example:"true"`
	Repairs []domain.Repair `json:"repairs"`
}

// RepairResponse wraps a single record.
type RepairResponse struct {
	OK     bool           `json:"ok" example:"true"`
	Repair *domain.Repair `json:"repair"`
}

// DeleteResponse confirms a completed delete.
type DeleteResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Message string `json:"message" example:"repair deleted successfully"`
}

//
// Handlers
//

// ListRepairs godoc
// @ID          listRepairs
// @Summary     List repair records
// @Description Returns every repair record ordered by creation date descending. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Repairs
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListRepairsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair [get]
func (h *Handlers) ListRepairs(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.repairSvc.(*services.RepairService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.RepairsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"repairs:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	repairs, err := h.repairSvc.List(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch repair list")
		return
	}
	if repairs == nil {
		repairs = []domain.Repair{}
	}
	ok(c, http.StatusOK, ListRepairsResponse{OK: true, Repairs: repairs})
}

// GetRepair godoc
// @ID          getRepair
// @Summary     Fetch one repair record
// @Tags        Repairs
// @Produce     json
//
// @Param       id  path  string  true  "Repair ID"  example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {object} handlers.RepairResponse
// @Failure     404  {object} handlers.ErrorResponse "Repair not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair/{id} [get]
func (h *Handlers) GetRepair(c *gin.Context) {
	r, err := h.repairSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch err {
		case services.ErrRepairNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "repair not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to fetch repair")
		}
		return
	}
	ok(c, http.StatusOK, RepairResponse{OK: true, Repair: r})
}

// CreateRepair godoc
// @ID          createRepair
// @Summary     Create a repair record
// @Description Creates a repair record. Status defaults to "active" when absent or blank.
// @Tags        Repairs
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateRepairRequest  true  "Create repair payload"
//
// @Success     201  {object} handlers.RepairResponse
// @Failure     400  {object} handlers.ErrorResponse "Malformed JSON body"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair [post]
func (h *Handlers) CreateRepair(c *gin.Context) {
	var req CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	r, err := h.repairSvc.Create(c.Request.Context(), services.CreateRepairInput{
		UserID:       req.UserID,
		MachineID:    req.MachineID,
		RepairStatus: req.RepairStatus,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to create repair")
		return
	}
	ok(c, http.StatusCreated, RepairResponse{OK: true, Repair: r})
}

// UpdateRepair godoc
// @ID          updateRepair
// @Summary     Update a repair record (full replacement)
// @Description Replaces user_id, machine_id, and repair_status wholesale. The status is not checked against the enum here; PATCH /status is the validated transition path.
// @Tags        Repairs
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                        true  "Repair ID"
// @Param       body  body  handlers.UpdateRepairRequest  true  "Replacement field values"
//
// @Success     200  {object} handlers.RepairResponse
// @Failure     400  {object} handlers.ErrorResponse "Malformed JSON body"
// @Failure     404  {object} handlers.ErrorResponse "Repair not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair/{id} [put]
func (h *Handlers) UpdateRepair(c *gin.Context) {
	var req UpdateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	r, err := h.repairSvc.Update(c.Request.Context(), c.Param("id"), services.UpdateRepairInput{
		UserID:       req.UserID,
		MachineID:    req.MachineID,
		RepairStatus: req.RepairStatus,
	})
	if err != nil {
		switch err {
		case services.ErrRepairNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "repair not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to update repair")
		}
		return
	}
	if middleware.IsReplay(c) {
		c.Header("Idempotency-Replayed", "true")
	}
	h.recordIdempotency(c, http.StatusOK)
	ok(c, http.StatusOK, RepairResponse{OK: true, Repair: r})
}

// TransitionRepair godoc
// @ID          transitionRepair
// @Summary     Change a repair's status
// @Description The canonical status-transition endpoint. The status must be one of active, cancelled, postponed; all transitions among the three are legal.
// @Tags        Repairs
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                     true  "Repair ID"
// @Param       body  body  handlers.TransitionRequest true  "Target status"
//
// @Success     200  {object} handlers.RepairResponse
// @Failure     400  {object} handlers.ErrorResponse "Status outside the allowed set"
// @Failure     404  {object} handlers.ErrorResponse "Repair not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair/{id}/status [patch]
func (h *Handlers) TransitionRepair(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "invalid status value")
		return
	}

	r, err := h.repairSvc.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch err {
		case services.ErrInvalidStatus:
			fail(c, http.StatusBadRequest, ErrCodeInvalidStatus, "invalid status value")
		case services.ErrRepairNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "repair not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to update repair status")
		}
		return
	}
	if middleware.IsReplay(c) {
		c.Header("Idempotency-Replayed", "true")
	}
	h.recordIdempotency(c, http.StatusOK)
	ok(c, http.StatusOK, RepairResponse{OK: true, Repair: r})
}

// DeleteRepair godoc
// @ID          deleteRepair
// @Summary     Delete a repair record
// @Description Removes the record regardless of its current status. Deletion is terminal; repeating the call yields 404 unless the retry carries the same Idempotency-Key, which replays the prior 200.
// @Tags        Repairs
// @Produce     json
//
// @Param       id  path  string  true  "Repair ID"
//
// @Success     200  {object} handlers.DeleteResponse
// @Failure     404  {object} handlers.ErrorResponse "Repair not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /management/repair/{id} [delete]
func (h *Handlers) DeleteRepair(c *gin.Context) {
	// A replayed delete already removed the row; re-executing would surface
	// the terminal 404 to a retry of a call that succeeded.
	if middleware.IsReplay(c) {
		c.Header("Idempotency-Replayed", "true")
		ok(c, http.StatusOK, DeleteResponse{OK: true, Message: "repair deleted successfully"})
		return
	}

	if err := h.repairSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch err {
		case services.ErrRepairNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "repair not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to delete repair")
		}
		return
	}
	h.recordIdempotency(c, http.StatusOK)
	ok(c, http.StatusOK, DeleteResponse{OK: true, Message: "repair deleted successfully"})
}
