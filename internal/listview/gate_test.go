package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// ----- Fake client -----

type fakeClient struct {
	listCalls int
	listItems []domain.Repair
	listErr   error

	transitionCalls int
	transitionID    string
	transitionVal   string
	transitionErr   error

	deleteCalls int
	deleteID    string
	deleteErr   error
}

func (f *fakeClient) List(ctx context.Context) ([]domain.Repair, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listItems, nil
}

func (f *fakeClient) Transition(ctx context.Context, id, status string) (*domain.Repair, error) {
	f.transitionCalls++
	f.transitionID, f.transitionVal = id, status
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	return &domain.Repair{RepairID: id, RepairStatus: status}, nil
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	f.deleteID = id
	return f.deleteErr
}

// ----- Snapshot / refresh -----

func TestRefresh_WholesaleReplace(t *testing.T) {
	fc := &fakeClient{listItems: []domain.Repair{{RepairID: "a"}, {RepairID: "b"}}}
	ctl := NewController(fc)

	if err := ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(ctl.Snapshot()) != 2 {
		t.Fatalf("snapshot not replaced: %+v", ctl.Snapshot())
	}

	// The next refresh replaces everything; there is no merge.
	fc.listItems = []domain.Repair{{RepairID: "c"}}
	if err := ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := ctl.Snapshot()
	if len(snap) != 1 || snap[0].RepairID != "c" {
		t.Fatalf("expected wholesale replacement, got %+v", snap)
	}
}

func TestRefresh_FailureKeepsOldSnapshot(t *testing.T) {
	fc := &fakeClient{listItems: []domain.Repair{{RepairID: "a"}}}
	ctl := NewController(fc)
	if err := ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fc.listErr = errors.New("network down")
	if err := ctl.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	// View keeps rendering the stale snapshot.
	if len(ctl.Snapshot()) != 1 || ctl.Snapshot()[0].RepairID != "a" {
		t.Fatalf("failed refresh must leave snapshot untouched: %+v", ctl.Snapshot())
	}
}

// ----- Derived view -----

func TestController_DerivedRowsAndPaging(t *testing.T) {
	items := make([]domain.Repair, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, domain.Repair{
			RepairID:     fmt.Sprintf("id-%02d", i),
			MachineID:    sp(fmt.Sprintf("MC-%d", 100+i)),
			RepairStatus: domain.StatusActive,
		})
	}
	fc := &fakeClient{listItems: items}
	ctl := NewController(fc)
	if err := ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if ctl.TotalPages() != 2 || len(ctl.Rows()) != 10 {
		t.Fatalf("12 records at size 10: pages=%d rows=%d", ctl.TotalPages(), len(ctl.Rows()))
	}
	ctl.View.NextPage(ctl.TotalPages())
	if len(ctl.Rows()) != 2 {
		t.Fatalf("second page should hold the remainder, got %d", len(ctl.Rows()))
	}

	// Changing the term resets to page 1 and re-derives.
	ctl.SetTerm("mc-10")
	if ctl.View.Page != 1 {
		t.Fatalf("term change should reset page, got %d", ctl.View.Page)
	}
	// "mc-10" folds into MC-100..MC-109: 10 matches.
	if got := len(ctl.Filtered()); got != 10 {
		t.Fatalf("expected 10 matches, got %d", got)
	}

	// Changing the size also resets the page.
	ctl.View.Page = 2
	ctl.SetPageSize(25)
	if ctl.View.Page != 1 || ctl.View.Size != 25 {
		t.Fatalf("size change should reset page: %+v", ctl.View)
	}
}

// ----- Mutation gate -----

func TestPropose_SingleSlot(t *testing.T) {
	ctl := NewController(&fakeClient{})

	p, err := ctl.Propose(Action{Kind: ActionDelete, RepairID: "r1"})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if p.Mode != "delete" || !strings.Contains(p.Description, "r1") {
		t.Fatalf("unexpected prompt: %+v", p)
	}
	if pending, okPending := ctl.Pending(); !okPending || pending.RepairID != "r1" {
		t.Fatalf("pending action missing: %+v", pending)
	}

	// A second proposal while the prompt is open is rejected.
	if _, err := ctl.Propose(Action{Kind: ActionTransition, RepairID: "r2", Status: domain.StatusCancelled}); !errors.Is(err, ErrPromptOpen) {
		t.Fatalf("expected ErrPromptOpen, got %v", err)
	}

	// Cancel frees the slot with no network call.
	ctl.Cancel()
	if _, okPending := ctl.Pending(); okPending {
		t.Fatalf("cancel should clear the slot")
	}
	if _, err := ctl.Propose(Action{Kind: ActionTransition, RepairID: "r2", Status: domain.StatusCancelled}); err != nil {
		t.Fatalf("Propose after cancel: %v", err)
	}
}

func TestActionPrompt_TransitionContent(t *testing.T) {
	p := Action{Kind: ActionTransition, RepairID: "r9", Status: domain.StatusPostponed}.Prompt()
	if p.Mode != "transition" || !strings.Contains(p.Description, "r9") || !strings.Contains(p.Description, "postponed") {
		t.Fatalf("unexpected prompt: %+v", p)
	}
}

func TestCommit_TransitionDispatchesOnceAndRefetches(t *testing.T) {
	fc := &fakeClient{}
	ctl := NewController(fc)

	if _, err := ctl.Propose(Action{Kind: ActionTransition, RepairID: "r1", Status: domain.StatusCancelled}); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if err := ctl.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if fc.transitionCalls != 1 || fc.deleteCalls != 0 {
		t.Fatalf("expected exactly one transition call, got t=%d d=%d", fc.transitionCalls, fc.deleteCalls)
	}
	if fc.transitionID != "r1" || fc.transitionVal != domain.StatusCancelled {
		t.Fatalf("wrong dispatch args: %s %s", fc.transitionID, fc.transitionVal)
	}
	// Commit always refetches the snapshot afterwards.
	if fc.listCalls != 1 {
		t.Fatalf("expected one refetch, got %d", fc.listCalls)
	}
	// Slot cleared.
	if _, okPending := ctl.Pending(); okPending {
		t.Fatalf("slot should be clear after commit")
	}
}

func TestCommit_DeleteDispatch(t *testing.T) {
	fc := &fakeClient{}
	ctl := NewController(fc)

	if _, err := ctl.Propose(Action{Kind: ActionDelete, RepairID: "r2"}); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if err := ctl.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if fc.deleteCalls != 1 || fc.deleteID != "r2" || fc.transitionCalls != 0 {
		t.Fatalf("expected exactly one delete call for r2: %+v", fc)
	}
}

func TestCommit_MutationErrorStillRefetches(t *testing.T) {
	boom := errors.New("boom")
	fc := &fakeClient{transitionErr: boom}
	ctl := NewController(fc)

	if _, err := ctl.Propose(Action{Kind: ActionTransition, RepairID: "r1", Status: domain.StatusActive}); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	err := ctl.Commit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error surfaced, got %v", err)
	}
	// Refetch still happened so the view converges on server state.
	if fc.listCalls != 1 {
		t.Fatalf("expected refetch after failed mutation, got %d", fc.listCalls)
	}
	// Slot cleared even on failure: the prompt is gone either way.
	if _, okPending := ctl.Pending(); okPending {
		t.Fatalf("slot should be clear after failed commit")
	}
}

func TestCommit_MutationErrorWinsOverRefetchError(t *testing.T) {
	boom := errors.New("boom")
	fc := &fakeClient{transitionErr: boom, listErr: errors.New("refetch failed")}
	ctl := NewController(fc)

	if _, err := ctl.Propose(Action{Kind: ActionTransition, RepairID: "r1", Status: domain.StatusActive}); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if err := ctl.Commit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("mutation error should take precedence, got %v", err)
	}
}

func TestCommit_NothingPending(t *testing.T) {
	ctl := NewController(&fakeClient{})
	if err := ctl.Commit(context.Background()); !errors.Is(err, ErrNothingPending) {
		t.Fatalf("expected ErrNothingPending, got %v", err)
	}
}
