package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/todo"
)

func record(title string) *models.Todo {
	return &models.Todo{
		ID:        uuid.New(),
		UserID:    "user_1",
		Title:     title,
		Category:  models.CategoryPersonal,
		CreatedAt: time.Now(),
	}
}

func TestCache_ApplyReconcilesLoadedSnapshot(t *testing.T) {
	t.Parallel()

	c := NewCache()
	a := record("a")
	c.Put("user_1", todo.NewState([]*models.Todo{a}))

	created := record("b")
	c.Apply("user_1", func(s todo.State) todo.State {
		return s.Prepend(created)
	})

	s, ok := c.Get("user_1")
	if !ok {
		t.Fatal("snapshot missing after apply")
	}
	if len(s.Records) != 2 || s.Records[0] != created {
		t.Errorf("prepend not applied, records: %d", len(s.Records))
	}
}

func TestCache_ApplyWithoutSnapshotIsNoop(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.Apply("user_1", func(s todo.State) todo.State {
		return s.Prepend(record("x"))
	})

	if _, ok := c.Get("user_1"); ok {
		t.Error("apply created a snapshot out of nothing")
	}
}

func TestCache_SnapshotsAreIsolatedPerUser(t *testing.T) {
	t.Parallel()

	c := NewCache()
	c.Put("user_1", todo.NewState([]*models.Todo{record("mine")}))
	c.Put("user_2", todo.NewState([]*models.Todo{record("theirs"), record("also theirs")}))

	one, _ := c.Get("user_1")
	two, _ := c.Get("user_2")
	if len(one.Records) != 1 || len(two.Records) != 2 {
		t.Errorf("snapshots bled across users: %d and %d", len(one.Records), len(two.Records))
	}

	c.Drop("user_1")
	if _, ok := c.Get("user_1"); ok {
		t.Error("dropped snapshot still present")
	}
	if _, ok := c.Get("user_2"); !ok {
		t.Error("drop removed the wrong user")
	}
}
