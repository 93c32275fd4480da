package handlers

import (
	"net/http"

	"github.com/pocketlist/pocket-todo/internal/request"
	"github.com/pocketlist/pocket-todo/internal/services/identity"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	provider *identity.Provider
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(provider *identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// GetLogin returns the identity provider configuration a client needs to
// start the login flow. Routed individually in main so the login config
// can stay public while /me sits behind the auth middleware.
func (h *AuthHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.provider.GetLoginConfig())
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
