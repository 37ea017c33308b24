// Package services – RepairService
//
// This file implements the RepairService, which manages the lifecycle of
// repair records: creation with status defaulting, listing, full-field
// updates, validated status transitions, and terminal deletion. It wraps the
// repository layer and owns the business rules; persistence stays in repo.
//
// Service-level errors (e.g., ErrRepairNotFound, ErrInvalidStatus) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently. Any other error is an unexpected storage failure and is
// propagated raw for the handler layer to collapse into a generic response.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-repair-backend/internal/domain"
	"github.com/tbourn/go-repair-backend/internal/repo"
)

// RepairRepo defines the repository contract required by RepairService.
// Implementations are responsible for persistence of repair records.
type RepairRepo interface {
	// CreateRepair inserts a new repair row with a generated id.
	CreateRepair(ctx context.Context, db *gorm.DB, userID, machineID *string, status string) (*domain.Repair, error)

	// ListRepairs returns the full record set, newest first.
	ListRepairs(ctx context.Context, db *gorm.DB) ([]domain.Repair, error)

	// GetRepair fetches a repair by id.
	GetRepair(ctx context.Context, db *gorm.DB, id string) (*domain.Repair, error)

	// UpdateRepair applies a structured field set to an existing row.
	UpdateRepair(ctx context.Context, db *gorm.DB, id string, set *repo.UpdateSet) (*domain.Repair, error)

	// UpdateRepairStatus persists a new status and returns the updated row.
	UpdateRepairStatus(ctx context.Context, db *gorm.DB, id, status string) (*domain.Repair, error)

	// DeleteRepair removes a row; zero rows affected means not found.
	DeleteRepair(ctx context.Context, db *gorm.DB, id string) error
}

// CreateRepairInput carries the optional fields accepted at creation time.
// Nil pointers persist as NULL; the status string may be blank.
type CreateRepairInput struct {
	UserID       *string
	MachineID    *string
	RepairStatus string
}

// UpdateRepairInput carries the full replacement values for an update.
// All three mutable fields are written; nil pointers overwrite with NULL.
type UpdateRepairInput struct {
	UserID       *string
	MachineID    *string
	RepairStatus string
}

// RepairService provides repair-record lifecycle operations. It is stateless
// apart from its injected dependencies and safe for concurrent use.
type RepairService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the repair repository used by this service.
	Repo RepairRepo
}

// NewRepairService constructs a RepairService bound to db and r.
func NewRepairService(db *gorm.DB, r RepairRepo) *RepairService {
	return &RepairService{DB: db, Repo: r}
}

// List returns every repair record ordered by creation time descending.
// The result is never partial: any storage failure returns an error and no
// records.
func (s *RepairService) List(ctx context.Context) ([]domain.Repair, error) {
	return s.Repo.ListRepairs(ctx, s.DB)
}

// Get returns one repair by id, or ErrRepairNotFound when no row matches.
func (s *RepairService) Get(ctx context.Context, id string) (*domain.Repair, error) {
	r, err := s.Repo.GetRepair(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRepairNotFound
		}
		return nil, err
	}
	return r, nil
}

// Create inserts a new repair record. A blank or whitespace-only status
// falls back to "active" (whitespace is never stored verbatim); any other
// status is stored exactly as supplied, without an enum check. The
// transition endpoint is the only validated status path.
func (s *RepairService) Create(ctx context.Context, in CreateRepairInput) (*domain.Repair, error) {
	status := strings.TrimSpace(in.RepairStatus)
	if status == "" {
		status = domain.StatusActive
	}
	return s.Repo.CreateRepair(ctx, s.DB, in.UserID, in.MachineID, status)
}

// Update performs a full replacement of user_id, machine_id, and
// repair_status for the given id. It does not validate the status against
// the enum: this is the legacy/bulk edit path, and Transition remains the
// authoritative entry point for status changes. Missing rows yield
// ErrRepairNotFound.
func (s *RepairService) Update(ctx context.Context, id string, in UpdateRepairInput) (*domain.Repair, error) {
	set := new(repo.UpdateSet).
		Set("user_id", in.UserID).
		Set("machine_id", in.MachineID).
		Set("repair_status", in.RepairStatus)

	r, err := s.Repo.UpdateRepair(ctx, s.DB, id, set)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRepairNotFound
		}
		return nil, err
	}
	return r, nil
}

// Transition changes a record's status to one of the three legal values.
// It is the sole validated status-changing path: an out-of-enum status
// yields ErrInvalidStatus before anything reaches storage, and a missing
// row yields ErrRepairNotFound. On success the full updated record is
// returned. No transition is rejected based on the prior status; the three
// states are mutually reachable.
func (s *RepairService) Transition(ctx context.Context, id, status string) (*domain.Repair, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	r, err := s.Repo.UpdateRepairStatus(ctx, s.DB, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRepairNotFound
		}
		return nil, err
	}
	return r, nil
}

// Delete removes the record unconditionally regardless of its current
// status. Deletion is terminal: there is no soft delete, and repeating the
// call for the same id yields ErrRepairNotFound.
func (s *RepairService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteRepair(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRepairNotFound
		}
		return err
	}
	return nil
}
