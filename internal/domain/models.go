// Package domain defines the persistence models for repair records.
// These types are mapped with GORM and form the core data layer of the
// repair management backend.
package domain

import "time"

// Repair status values. A record is always in exactly one of these three
// states, all mutually reachable through the status-transition endpoint.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPostponed = "postponed"
)

// ValidStatus reports whether s is a legal repair status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

// Repair represents one repair request raised against a physical machine
// and its current disposition.
//
// Fields:
//   - RepairID: stable UUID primary key, assigned by the store at insert
//     and never reused after deletion.
//   - UserID: optional reference to the requesting user; nullable because
//     records may be created without an owning user.
//   - MachineID: optional reference to the physical unit; no referential
//     integrity is enforced here.
//   - FirstName / LastName: denormalized snapshot of the requester's name
//     at creation time; not kept in sync with later profile changes and
//     never written through the management API.
//   - RepairStatus: one of active, cancelled, postponed.
//   - DateCreated: server-assigned creation timestamp, immutable.
//
// There is no soft-delete column: deleting a repair is terminal.
type Repair struct {
	RepairID     string    `json:"repair_id"            gorm:"type:char(36);primaryKey;column:repair_id"`
	UserID       *string   `json:"user_id"              gorm:"type:varchar(64);index;column:user_id"`
	MachineID    *string   `json:"machine_id"           gorm:"type:varchar(64);index;column:machine_id"`
	FirstName    *string   `json:"first_name,omitempty" gorm:"type:varchar(100);column:first_name"`
	LastName     *string   `json:"last_name,omitempty"  gorm:"type:varchar(100);column:last_name"`
	RepairStatus string    `json:"repair_status"        gorm:"type:varchar(16);not null;default:'active';column:repair_status"`
	DateCreated  time.Time `json:"date_created"         gorm:"column:date_created;index"`
}

// TableName returns the database table name for Repair.
func (Repair) TableName() string { return "repair" }
