// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// RepairsStats returns aggregate metadata for the repair table: the total
// number of rows and the maximum DateCreated timestamp among those rows.
//
// Because repairs are only ever inserted or hard-deleted (status updates
// do not move DateCreated), the (count, newest-creation) pair changes
// whenever the list membership changes, which is enough for a weak ETag
// on the list endpoint. When the table is empty, the returned count is 0
// and maxCreated is nil.
//
// Return values:
//   - count:      total repair rows
//   - maxCreated: pointer to the greatest DateCreated, or nil if no rows
//   - err:        database error, if any
func RepairsStats(ctx context.Context, db *gorm.DB) (count int64, maxCreated *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Repair{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest date_created (avoid MAX() -> TEXT in SQLite)
	var row struct {
		DateCreated time.Time
	}
	if err = q.Select("date_created").Order("date_created DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.DateCreated, nil
}
