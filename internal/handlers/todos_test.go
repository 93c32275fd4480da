package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/request"
	"github.com/pocketlist/pocket-todo/internal/session"
	"github.com/pocketlist/pocket-todo/internal/todo"
	"go.uber.org/zap"
)

// fakeStore is an in-memory todo.Store for handler tests. Failure flags
// simulate remote rejection without tearing down the fixture.
type fakeStore struct {
	mu         sync.Mutex
	records    []*models.Todo
	failCreate bool
	failUpdate bool
}

var _ todo.Store = (*fakeStore)(nil)

func (f *fakeStore) List(_ context.Context, userID string) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Todo, 0, len(f.records))
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, userID string, id uuid.UUID) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, todo.NewNotFoundError("get")
}

func (f *fakeStore) Create(_ context.Context, t *models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return todo.NewStoreError("create", "insert failed", nil)
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	copied := *t
	f.records = append([]*models.Todo{&copied}, f.records...)
	return nil
}

func (f *fakeStore) Update(_ context.Context, t *models.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return todo.NewStoreError("update", "update failed", nil)
	}
	for i, r := range f.records {
		if r.ID == t.ID && r.UserID == t.UserID {
			copied := *t
			f.records[i] = &copied
			return nil
		}
	}
	return todo.NewNotFoundError("update")
}

func (f *fakeStore) SetCompleted(_ context.Context, userID string, id uuid.UUID, completed bool) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id && r.UserID == userID {
			copied := *r
			copied.Completed = completed
			f.records[i] = &copied
			result := copied
			return &result, nil
		}
	}
	return nil, todo.NewNotFoundError("set_completed")
}

func (f *fakeStore) Delete(_ context.Context, userID string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id && r.UserID == userID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return todo.NewNotFoundError("delete")
}

func (f *fakeStore) seed(t *models.Todo) *models.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.records = append([]*models.Todo{t}, f.records...)
	return t
}

const testUserID = "user_2abc"

func newTestRouter(store todo.Store, sessions *session.Cache) *mux.Router {
	h := NewTodoHandler(store, sessions, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/todos").Subrouter())
	return r
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(request.WithUser(req.Context(), &models.User{ID: testUserID, Email: "test@example.com"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("Expected success envelope, got body %s", w.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("Failed to decode response data: %v", err)
	}
}

func TestCreateTodo(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState(nil))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "POST", "/todos", `{"title":"  Buy milk  ","category":"shopping"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Todo
	decodeData(t, w, &created)

	if created.Title != "Buy milk" {
		t.Errorf("Expected trimmed title 'Buy milk', got %q", created.Title)
	}
	if created.ID == uuid.Nil {
		t.Error("Expected store-assigned id, got nil uuid")
	}
	if created.Completed {
		t.Error("Expected new todo to start incomplete")
	}

	state, ok := sessions.Get(testUserID)
	if !ok {
		t.Fatal("Expected session snapshot to exist")
	}
	if len(state.Records) != 1 || state.Records[0].ID != created.ID {
		t.Errorf("Expected created record prepended to snapshot, got %d records", len(state.Records))
	}
}

func TestCreateTodo_BlankTitleRejected(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState(nil))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "POST", "/todos", `{"title":"   "}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if len(store.records) != 0 {
		t.Error("Expected no store call for a blank title")
	}

	state, _ := sessions.Get(testUserID)
	if len(state.Records) != 0 {
		t.Error("Expected session snapshot unchanged after rejected create")
	}
}

func TestCreateTodo_StoreFailureLeavesSnapshotUntouched(t *testing.T) {
	t.Parallel()

	store := &fakeStore{failCreate: true}
	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState(nil))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "POST", "/todos", `{"title":"Buy milk"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	state, _ := sessions.Get(testUserID)
	if len(state.Records) != 0 {
		t.Error("Expected failed create to leave the snapshot empty")
	}
}

func TestUpdateTodo(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	due := "2026-09-01"
	at := "09:30"
	existing := store.seed(&models.Todo{
		UserID:   testUserID,
		Title:    "Old title",
		DueDate:  &due,
		DueTime:  &at,
		Category: models.CategoryPersonal,
	})

	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState([]*models.Todo{existing}))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "PATCH", "/todos/"+existing.ID.String(), `{"title":"New title","due_time":""}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Todo
	decodeData(t, w, &updated)

	if updated.Title != "New title" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}
	if updated.DueTime != nil {
		t.Error("Expected blank due_time to clear the stored value")
	}
	if updated.DueDate == nil || *updated.DueDate != due {
		t.Error("Expected untouched due_date to survive the patch")
	}

	state, _ := sessions.Get(testUserID)
	if len(state.Records) != 1 || state.Records[0].Title != "New title" {
		t.Error("Expected snapshot record replaced with the confirmed row")
	}
}

func TestUpdateTodo_FailureLeavesSnapshotUntouched(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	existing := store.seed(&models.Todo{
		UserID:   testUserID,
		Title:    "Old title",
		Category: models.CategoryWork,
	})
	store.failUpdate = true

	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState([]*models.Todo{existing}))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "PATCH", "/todos/"+existing.ID.String(), `{"title":"New title"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	state, _ := sessions.Get(testUserID)
	if state.Records[0].Title != "Old title" {
		t.Error("Expected snapshot to keep the pre-failure record")
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sessions := session.NewCache()
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "PATCH", "/todos/"+uuid.NewString(), `{"title":"New title"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
}

func TestToggleTodo(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	existing := store.seed(&models.Todo{
		UserID:   testUserID,
		Title:    "Finish report",
		Category: models.CategoryWork,
	})

	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState([]*models.Todo{existing}))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "POST", "/todos/"+existing.ID.String()+"/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var toggled models.Todo
	decodeData(t, w, &toggled)
	if !toggled.Completed {
		t.Error("Expected first toggle to complete the todo")
	}

	state, _ := sessions.Get(testUserID)
	if !state.Records[0].Completed {
		t.Error("Expected snapshot reconciled with the completed row")
	}

	// Toggling again flips it back.
	w = doRequest(t, router, "POST", "/todos/"+existing.ID.String()+"/toggle", "")
	decodeData(t, w, &toggled)
	if toggled.Completed {
		t.Error("Expected second toggle to reopen the todo")
	}
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	existing := store.seed(&models.Todo{
		UserID:   testUserID,
		Title:    "Old chore",
		Category: models.CategoryPersonal,
	})

	sessions := session.NewCache()
	sessions.Put(testUserID, todo.NewState([]*models.Todo{existing}))
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "DELETE", "/todos/"+existing.ID.String(), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}

	state, _ := sessions.Get(testUserID)
	if len(state.Records) != 0 {
		t.Error("Expected snapshot record removed after confirmed delete")
	}

	// A second delete of the same id is a not-found.
	w = doRequest(t, router, "DELETE", "/todos/"+existing.ID.String(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404 on duplicate delete, got %d", w.Code)
	}
}

func TestListTodos_ReloadsSnapshot(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.seed(&models.Todo{UserID: testUserID, Title: "First", Category: models.CategoryPersonal})
	store.seed(&models.Todo{UserID: "someone_else", Title: "Other user", Category: models.CategoryPersonal})

	sessions := session.NewCache()
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "GET", "/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var listed []*models.Todo
	decodeData(t, w, &listed)
	if len(listed) != 1 {
		t.Fatalf("Expected only the user's own record, got %d", len(listed))
	}

	if _, ok := sessions.Get(testUserID); !ok {
		t.Error("Expected list to seed the session snapshot")
	}
}

func TestGetView(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	store.seed(&models.Todo{UserID: testUserID, Title: "Buy milk", Category: models.CategoryShopping})
	done := store.seed(&models.Todo{UserID: testUserID, Title: "Write report", Category: models.CategoryWork})
	done.Completed = true

	sessions := session.NewCache()
	router := newTestRouter(store, sessions)

	w := doRequest(t, router, "GET", "/todos/view?search=milk", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var view todo.View
	decodeData(t, w, &view)

	if view.Matched != 1 {
		t.Errorf("Expected 1 matched record, got %d", view.Matched)
	}
	if view.Total != 2 {
		t.Errorf("Expected total 2, got %d", view.Total)
	}
	if view.ProgressPercent != 50 {
		t.Errorf("Expected progress computed over the full set (50), got %d", view.ProgressPercent)
	}
	if len(view.Pending) != 1 || view.Pending[0].Todo.Title != "Buy milk" {
		t.Error("Expected the matching pending record in the view")
	}
	if view.Pending[0].Category.Icon != "🛒" {
		t.Errorf("Expected shopping icon, got %q", view.Pending[0].Category.Icon)
	}
	if view.Pending[0].Urgency != todo.NoDueLabel {
		t.Errorf("Expected %q for a record without due fields, got %q", todo.NoDueLabel, view.Pending[0].Urgency)
	}
}

func TestTodos_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeStore{}, session.NewCache())

	req := httptest.NewRequest("GET", "/todos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401 without a user in context, got %d", w.Code)
	}
}

func TestTodos_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeStore{}, session.NewCache())

	w := doRequest(t, router, "PATCH", "/todos/not-a-uuid", `{"title":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for malformed id, got %d", w.Code)
	}
}
