// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides UpdateSet, a small structured builder
// for partial or full row updates.
//
// Instead of concatenating SET clauses by hand, callers declare an explicit
// list of (column, value) pairs for exactly the fields they intend to write.
// The set is applied in a single atomic UPDATE; an empty set is rejected so
// a request carrying no recognized fields can never degenerate into a no-op
// write that still reports success.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// ErrEmptyUpdate is returned when an UpdateSet with no fields is applied.
var ErrEmptyUpdate = errors.New("no fields to update")

// UpdateSet accumulates column assignments for one repair row.
// The zero value is ready to use.
type UpdateSet struct {
	cols []string
	vals map[string]any
}

// Set records an assignment for column. Setting the same column twice keeps
// the last value. Nil pointer values are stored as-is and persist as NULL.
func (u *UpdateSet) Set(column string, value any) *UpdateSet {
	if u.vals == nil {
		u.vals = make(map[string]any)
	}
	if _, seen := u.vals[column]; !seen {
		u.cols = append(u.cols, column)
	}
	u.vals[column] = value
	return u
}

// Len returns the number of distinct columns in the set.
func (u *UpdateSet) Len() int { return len(u.cols) }

// Empty reports whether the set contains no assignments.
func (u *UpdateSet) Empty() bool { return len(u.cols) == 0 }

// apply issues one UPDATE against the repair row identified by id and
// returns the number of rows affected. An empty set yields ErrEmptyUpdate
// without touching the database.
func (u *UpdateSet) apply(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	if u.Empty() {
		return 0, ErrEmptyUpdate
	}
	res := db.WithContext(ctx).
		Model(&domain.Repair{}).
		Where("repair_id = ?", id).
		Updates(u.vals)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
