package listview

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// ActionKind identifies which state-changing operation a pending action
// will perform once confirmed.
type ActionKind string

const (
	// ActionTransition changes a record's status via the validated path.
	ActionTransition ActionKind = "transition"
	// ActionDelete removes a record permanently.
	ActionDelete ActionKind = "delete"
)

// Action describes one proposed mutation: the operation, the target record,
// and, for status transitions, the target status. Proposing an action has
// no side effect; only a confirmed commit reaches the network.
type Action struct {
	Kind     ActionKind
	RepairID string
	Status   string // target status, transitions only
}

// Prompt carries the confirmation dialog content for a proposed action. It
// is consumed by an external dialog component parameterized by
// {mode, title, description}.
type Prompt struct {
	Mode        string
	Title       string
	Description string
}

// Prompt derives the confirmation dialog content for the action.
func (a Action) Prompt() Prompt {
	switch a.Kind {
	case ActionDelete:
		return Prompt{
			Mode:        "delete",
			Title:       "Delete repair",
			Description: fmt.Sprintf("Permanently delete repair %s? This cannot be undone.", a.RepairID),
		}
	default:
		return Prompt{
			Mode:        string(a.Kind),
			Title:       "Update repair status",
			Description: fmt.Sprintf("Mark repair %s as %s?", a.RepairID, a.Status),
		}
	}
}

// Gate errors.
var (
	// ErrPromptOpen is returned when an action is proposed while another
	// confirmation prompt is still open. The open prompt must be confirmed
	// or cancelled first.
	ErrPromptOpen = errors.New("a confirmation prompt is already open")

	// ErrNothingPending is returned when Commit is called with no proposed
	// action in the slot.
	ErrNothingPending = errors.New("no pending action to commit")
)

// Client is the repair-service surface the controller depends on. It is
// satisfied by client.Client; tests substitute fakes.
type Client interface {
	// List fetches the complete record set, newest first.
	List(ctx context.Context) ([]domain.Repair, error)
	// Transition changes one record's status and returns the updated row.
	Transition(ctx context.Context, id, status string) (*domain.Repair, error)
	// Delete removes one record.
	Delete(ctx context.Context, id string) error
}

// Controller owns the three pieces of the admin list view: the snapshot
// cache (a disposable read-only copy of the server's record set), the view
// state, and the single pending-action slot of the mutation gate.
//
// The controller models a single logical thread of interaction and is NOT
// safe for concurrent use: the surrounding UI issues one operation at a
// time, and the single pending-action slot keeps mutations serial.
type Controller struct {
	client   Client
	snapshot []domain.Repair
	pending  *Action

	// View is the serializable presentation state (term, page, size).
	View View
}

// NewController returns a controller with an empty snapshot and default
// view state. Call Refresh to populate the snapshot.
func NewController(c Client) *Controller {
	return &Controller{client: c, View: NewView()}
}

// Refresh fetches the complete record set and replaces the snapshot
// wholesale; there is no incremental merge. On failure the current
// snapshot and view state are left untouched and the error is returned.
func (ctl *Controller) Refresh(ctx context.Context) error {
	repairs, err := ctl.client.List(ctx)
	if err != nil {
		return err
	}
	ctl.snapshot = repairs
	return nil
}

// Snapshot returns the cached record set as of the last successful Refresh.
func (ctl *Controller) Snapshot() []domain.Repair { return ctl.snapshot }

// SetTerm updates the search term, resetting the page to 1.
func (ctl *Controller) SetTerm(term string) { ctl.View.SetTerm(term) }

// SetPageSize updates the page size, resetting the page to 1.
func (ctl *Controller) SetPageSize(size int) { ctl.View.SetSize(size) }

// Filtered returns the records matching the current search term, in
// snapshot order.
func (ctl *Controller) Filtered() []domain.Repair {
	return Filter(ctl.snapshot, ctl.View.Term)
}

// Rows returns the records visible on the current page.
func (ctl *Controller) Rows() []domain.Repair {
	return Window(ctl.Filtered(), ctl.View.Page, ctl.View.Size)
}

// TotalPages returns the page count for the current filtered set (always
// at least 1).
func (ctl *Controller) TotalPages() int {
	return TotalPages(len(ctl.Filtered()), ctl.View.Size)
}

// Propose places an action in the pending slot and returns its
// confirmation prompt. No network call happens here. At most one action
// can be pending: proposing while a prompt is open fails with
// ErrPromptOpen.
func (ctl *Controller) Propose(a Action) (Prompt, error) {
	if ctl.pending != nil {
		return Prompt{}, ErrPromptOpen
	}
	ctl.pending = &a
	return a.Prompt(), nil
}

// Pending returns a copy of the currently proposed action, if any.
func (ctl *Controller) Pending() (Action, bool) {
	if ctl.pending == nil {
		return Action{}, false
	}
	return *ctl.pending, true
}

// Cancel clears the pending slot without any network call.
func (ctl *Controller) Cancel() { ctl.pending = nil }

// Commit performs the pending action: it dispatches exactly one call to
// the repair service, clears the slot, and then refetches the full
// snapshot regardless of the action's outcome. The mutation error, if any,
// takes precedence over a refetch error; either way the view keeps
// rendering the snapshot it had until a refetch succeeds.
func (ctl *Controller) Commit(ctx context.Context) error {
	if ctl.pending == nil {
		return ErrNothingPending
	}
	a := *ctl.pending
	ctl.pending = nil

	var mutErr error
	switch a.Kind {
	case ActionTransition:
		_, mutErr = ctl.client.Transition(ctx, a.RepairID, a.Status)
	case ActionDelete:
		mutErr = ctl.client.Delete(ctx, a.RepairID)
	default:
		mutErr = fmt.Errorf("unknown action kind %q", a.Kind)
	}

	refErr := ctl.Refresh(ctx)
	if mutErr != nil {
		return mutErr
	}
	return refErr
}
