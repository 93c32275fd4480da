package todo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pocketlist/pocket-todo/internal/models"
)

func TestState_Prepend(t *testing.T) {
	t.Parallel()

	existing := newRecord("old", false)
	state := NewState([]*models.Todo{existing})

	created := newRecord("new", false)
	next := state.Prepend(created)

	if len(next.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(next.Records))
	}
	if next.Records[0] != created || next.Records[1] != existing {
		t.Errorf("created record was not prepended: %v", titles(next.Records))
	}
	if len(state.Records) != 1 {
		t.Errorf("previous state was mutated: %d records", len(state.Records))
	}
}

func TestState_Replace(t *testing.T) {
	t.Parallel()

	a := newRecord("a", false)
	b := newRecord("b", false)
	c := newRecord("c", false)
	state := NewState([]*models.Todo{a, b, c})

	updated := &models.Todo{ID: b.ID, UserID: b.UserID, Title: "b updated", Category: b.Category}
	next := state.Replace(updated)

	if next.Records[0] != a || next.Records[2] != c {
		t.Errorf("replace disturbed unrelated records: %v", titles(next.Records))
	}
	if next.Records[1] != updated {
		t.Errorf("record %s was not replaced", b.ID)
	}
	if state.Records[1] != b {
		t.Error("previous state was mutated by replace")
	}
}

func TestState_Replace_MissingIDLeavesSetUnchanged(t *testing.T) {
	t.Parallel()

	a := newRecord("a", false)
	state := NewState([]*models.Todo{a})

	stray := newRecord("stray", false)
	next := state.Replace(stray)

	if len(next.Records) != 1 || next.Records[0] != a {
		t.Errorf("replace of unknown id changed the set: %v", titles(next.Records))
	}
}

func TestState_Remove(t *testing.T) {
	t.Parallel()

	a := newRecord("a", false)
	b := newRecord("b", false)
	state := NewState([]*models.Todo{a, b})

	next := state.Remove(a.ID)
	if len(next.Records) != 1 || next.Records[0] != b {
		t.Errorf("remove left wrong records: %v", titles(next.Records))
	}

	// A second reconciliation of the same delete is a no-op, not an error.
	again := next.Remove(a.ID)
	if len(again.Records) != 1 || again.Records[0] != b {
		t.Errorf("duplicate remove changed the set: %v", titles(again.Records))
	}

	unknown := next.Remove(uuid.New())
	if len(unknown.Records) != 1 {
		t.Errorf("remove of unknown id changed the set: %v", titles(unknown.Records))
	}
}

func TestState_FailedMutationLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	a := newRecord("a", false)
	b := newRecord("b", true)
	state := NewState([]*models.Todo{a, b})

	// A failed store call produces no transition at all; the caller keeps
	// the prior value. Verify transitions never alias the input slice so
	// that holding the old value really is enough.
	_ = state.Prepend(newRecord("speculative", false))
	_ = state.Replace(&models.Todo{ID: a.ID, Title: "speculative"})
	_ = state.Remove(b.ID)

	if len(state.Records) != 2 || state.Records[0] != a || state.Records[1] != b {
		t.Errorf("prior state changed after discarded transitions: %v", titles(state.Records))
	}
	if state.Records[0].Title != "a" {
		t.Errorf("record mutated in place: %q", state.Records[0].Title)
	}
}

func TestState_WithSearchKeepsRecords(t *testing.T) {
	t.Parallel()

	a := newRecord("a", false)
	state := NewState([]*models.Todo{a}).WithSearch("groceries")

	if state.Search != "groceries" {
		t.Errorf("search = %q", state.Search)
	}
	if len(state.Records) != 1 {
		t.Errorf("records lost on search change")
	}
}
