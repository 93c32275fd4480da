package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pocketlist/pocket-todo/internal/request"
	"github.com/pocketlist/pocket-todo/internal/session"
	"github.com/pocketlist/pocket-todo/internal/todo"
	"github.com/pocketlist/pocket-todo/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles todo-related requests. Mutations go to the store
// first; only a confirmed response is reconciled into the session cache,
// so a rejected or failed call leaves the cached snapshot untouched.
type TodoHandler struct {
	store    todo.Store
	sessions *session.Cache
	logger   *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(store todo.Store, sessions *session.Cache, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{store: store, sessions: sessions, logger: logger}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/view", h.GetView).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.ToggleTodo).Methods("POST")
}

// ListTodos lists the authenticated user's todos, newest first, and
// reloads the session snapshot from the authoritative rows.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	records, err := h.store.List(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed_to_list_todos", zap.Error(err))
		respondTodoError(w, err)
		return
	}

	h.sessions.Put(user.ID, todo.NewState(records))

	respondJSON(w, http.StatusOK, records)
}

// GetView returns the display projection: search-filtered records split
// into pending and completed, each with urgency and category metadata,
// plus the progress percentage over the full set.
func (h *TodoHandler) GetView(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	state, ok := h.sessions.Get(user.ID)
	if !ok {
		records, err := h.store.List(r.Context(), user.ID)
		if err != nil {
			h.logger.Error("failed_to_list_todos", zap.Error(err))
			respondTodoError(w, err)
			return
		}
		state = todo.NewState(records)
	}

	state = state.WithSearch(r.URL.Query().Get("search"))
	h.sessions.Put(user.ID, state)

	respondJSON(w, http.StatusOK, state.View(time.Now()))
}

// CreateTodo validates the draft, inserts it, and prepends the stored
// record (with its store-assigned id) to the session snapshot.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var draft todo.Draft
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&draft); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(draft); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	if err := draft.Normalize(); err != nil {
		respondTodoError(w, err)
		return
	}

	record := draft.Record(user.ID)
	if err := h.store.Create(r.Context(), record); err != nil {
		h.logger.Error("failed_to_create_todo", zap.Error(err))
		respondTodoError(w, err)
		return
	}

	h.sessions.Apply(user.ID, func(s todo.State) todo.State {
		return s.Prepend(record)
	})

	respondJSON(w, http.StatusCreated, record)
}

// UpdateTodo applies a partial update. Nil fields are left alone; blank
// due_date or due_time clears the stored value.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	var patch todo.Patch
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&patch); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := patch.Normalize(); err != nil {
		respondTodoError(w, err)
		return
	}

	ctx := r.Context()
	record, err := h.store.GetByID(ctx, user.ID, id)
	if err != nil {
		respondTodoError(w, err)
		return
	}

	patch.ApplyTo(record)

	if err := h.store.Update(ctx, record); err != nil {
		h.logger.Error("failed_to_update_todo", zap.Error(err))
		respondTodoError(w, err)
		return
	}

	h.sessions.Apply(user.ID, func(s todo.State) todo.State {
		return s.Replace(record)
	})

	respondJSON(w, http.StatusOK, record)
}

// ToggleTodo flips the completed flag. The flag is the only field the
// store touches here, so a concurrent title edit cannot be clobbered.
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	ctx := r.Context()
	current, err := h.store.GetByID(ctx, user.ID, id)
	if err != nil {
		respondTodoError(w, err)
		return
	}

	record, err := h.store.SetCompleted(ctx, user.ID, id, !current.Completed)
	if err != nil {
		h.logger.Error("failed_to_toggle_todo", zap.Error(err))
		respondTodoError(w, err)
		return
	}

	h.sessions.Apply(user.ID, func(s todo.State) todo.State {
		return s.Replace(record)
	})

	respondJSON(w, http.StatusOK, record)
}

// DeleteTodo removes a todo and drops it from the session snapshot.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	if err := h.store.Delete(r.Context(), user.ID, id); err != nil {
		h.logger.Error("failed_to_delete_todo", zap.Error(err))
		respondTodoError(w, err)
		return
	}

	h.sessions.Apply(user.ID, func(s todo.State) todo.State {
		return s.Remove(id)
	})

	w.WriteHeader(http.StatusNoContent)
}
