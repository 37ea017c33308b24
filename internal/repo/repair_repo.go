// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Repair model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a repair is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience). A row that was
//     already deleted is indistinguishable from one that never existed:
//     zero rows affected always surfaces as ErrNotFound.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.RepairService) which enforces business rules such as
// status validation and default fallbacks.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRepair inserts a new repair row. The repair ID is a randomly
// generated UUID (string) assigned here, and DateCreated is set to UTC.
// The status is stored exactly as given; defaulting and validation are
// service-layer concerns.
//
// On success, it returns the persisted Repair. On failure, it returns a DB error.
func CreateRepair(ctx context.Context, db *gorm.DB, userID, machineID *string, status string) (*domain.Repair, error) {
	r := &domain.Repair{
		RepairID:     uuid.NewString(),
		UserID:       userID,
		MachineID:    machineID,
		RepairStatus: status,
		DateCreated:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRepairs returns every repair record ordered by creation time
// descending (most recent first). There is no filtering or pagination at
// this layer; the admin view holds the full snapshot and derives its own
// windows. It returns an empty slice when the table is empty.
func ListRepairs(ctx context.Context, db *gorm.DB) ([]domain.Repair, error) {
	var out []domain.Repair
	err := db.WithContext(ctx).
		Order("date_created desc").
		Find(&out).Error
	return out, err
}

// GetRepair fetches a single repair by its ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetRepair(ctx context.Context, db *gorm.DB, id string) (*domain.Repair, error) {
	var r domain.Repair
	err := db.WithContext(ctx).
		Where("repair_id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRepair applies the given UpdateSet to the repair identified by id
// in one atomic UPDATE and returns the re-read row. If no rows are
// affected the repair is missing and ErrNotFound is returned; an empty
// set yields ErrEmptyUpdate. On DB error, the raw error is returned.
func UpdateRepair(ctx context.Context, db *gorm.DB, id string, set *UpdateSet) (*domain.Repair, error) {
	affected, err := set.apply(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return GetRepair(ctx, db, id)
}

// UpdateRepairStatus persists a new status for the repair identified by id
// and returns the updated row. The status value is written as-is; callers
// are expected to validate it first. Missing rows yield ErrNotFound.
func UpdateRepairStatus(ctx context.Context, db *gorm.DB, id, status string) (*domain.Repair, error) {
	set := new(UpdateSet).Set("repair_status", status)
	return UpdateRepair(ctx, db, id, set)
}

// DeleteRepair removes the repair row unconditionally, regardless of its
// current status. If no rows are affected (already deleted or never
// existed), it returns ErrNotFound: a second delete of the same id always
// reports Not-Found rather than silently succeeding.
func DeleteRepair(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("repair_id = ?", id).
		Delete(&domain.Repair{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
