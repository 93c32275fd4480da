package todo

import (
	"time"

	"github.com/google/uuid"
	"github.com/pocketlist/pocket-todo/internal/models"
)

// State is the in-memory record set for one user, plus the current search
// text. It is a value: every transition builds a fresh slice from the
// previous one and one confirmed store delta, so a failed mutation simply
// never produces a transition and the prior state stays visible unchanged.
type State struct {
	Records []*models.Todo
	Search  string
}

// NewState wraps a freshly listed record set.
func NewState(records []*models.Todo) State {
	return State{Records: cloneRecords(records)}
}

// WithSearch returns the state with the search text replaced.
func (s State) WithSearch(query string) State {
	return State{Records: s.Records, Search: query}
}

// Prepend applies a confirmed create: the returned record goes first,
// preserving newest-first ordering.
func (s State) Prepend(t *models.Todo) State {
	records := make([]*models.Todo, 0, len(s.Records)+1)
	records = append(records, t)
	records = append(records, s.Records...)
	return State{Records: records, Search: s.Search}
}

// Replace applies a confirmed update: the element with a matching id is
// swapped for the returned record; everything else keeps its position.
func (s State) Replace(t *models.Todo) State {
	records := cloneRecords(s.Records)
	for i, r := range records {
		if r.ID == t.ID {
			records[i] = t
			break
		}
	}
	return State{Records: records, Search: s.Search}
}

// Remove applies a confirmed delete. A missing id is a no-op, which keeps
// duplicate reconciliation calls idempotent.
func (s State) Remove(id uuid.UUID) State {
	records := make([]*models.Todo, 0, len(s.Records))
	for _, r := range s.Records {
		if r.ID != id {
			records = append(records, r)
		}
	}
	return State{Records: records, Search: s.Search}
}

// View projects the state for display.
func (s State) View(now time.Time) View {
	return Project(s.Records, s.Search, now)
}

func cloneRecords(records []*models.Todo) []*models.Todo {
	out := make([]*models.Todo, len(records))
	copy(out, records)
	return out
}
