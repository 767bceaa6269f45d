package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/momotired/servo-msg-demo/internal/model"
)

// Moderator abstracts the admin-only message operations for handlers.
type Moderator interface {
	ListAllMessages(ctx context.Context) ([]model.Message, error)
	SetMessageVisibility(ctx context.Context, id int64, visible bool) error
}

// Authorizer checks a supplied admin secret.
type Authorizer interface {
	Authorize(supplied string) bool
}

// AdminHandler provides the moderation endpoints.
type AdminHandler struct {
	svc    Moderator
	logger *log.Logger
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(svc Moderator, logger *log.Logger) *AdminHandler {
	if logger == nil {
		logger = log.New(os.Stdout, "http ", log.LstdFlags)
	}
	return &AdminHandler{svc: svc, logger: logger}
}

// ListAll handles GET /admin/messages. Hidden messages are included.
func (h *AdminHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.ListAllMessages(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "list all messages", err)
		return
	}

	writeJSON(w, http.StatusOK, messagesResponse{Messages: emptyIfNil(messages)})
}

type visibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
}

// SetVisibility handles PUT /admin/messages/{id}/visibility.
func (h *AdminHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "message not found"})
		return
	}

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsVisible == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "is_visible must be a boolean"})
		return
	}

	if err := h.svc.SetMessageVisibility(r.Context(), id, *req.IsVisible); err != nil {
		writeServiceError(w, h.logger, "set visibility", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "ok",
		"id":         id,
		"is_visible": *req.IsVisible,
	})
}

// RequireAdmin gates a route subtree behind the shared admin secret,
// read from the given request header.
func RequireAdmin(gate Authorizer, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Authorize(r.Header.Get(header)) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
