package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pocketlist/pocket-todo/internal/todo"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	sanitized := message
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	return sanitized
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	sanitizedMessage := sanitizeErrorMessage(message)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizedMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondTodoError maps domain errors onto HTTP statuses: validation
// failures are 400 with the field message, missing records are 404, and
// everything else is a 500 with the store detail stripped.
func respondTodoError(w http.ResponseWriter, err error) {
	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", ve.Error())
		return
	}
	if todo.IsNotFound(err) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Store operation failed")
}
