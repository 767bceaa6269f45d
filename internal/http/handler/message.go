package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/momotired/servo-msg-demo/internal/model"
	"github.com/momotired/servo-msg-demo/internal/service"
)

// MessageBoard abstracts the public message operations for handlers.
type MessageBoard interface {
	PostMessage(ctx context.Context, user, content string, visible *bool) (int64, error)
	ListVisibleMessages(ctx context.Context) ([]model.Message, error)
}

// MessageHandler provides the public HTTP endpoints for messages.
type MessageHandler struct {
	svc    MessageBoard
	logger *log.Logger
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(svc MessageBoard, logger *log.Logger) *MessageHandler {
	if logger == nil {
		logger = log.New(os.Stdout, "http ", log.LstdFlags)
	}
	return &MessageHandler{svc: svc, logger: logger}
}

// List handles GET /messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.ListVisibleMessages(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "list messages", err)
		return
	}

	writeJSON(w, http.StatusOK, messagesResponse{Messages: emptyIfNil(messages)})
}

type createRequest struct {
	User      string `json:"user"`
	Content   string `json:"content"`
	IsVisible *bool  `json:"is_visible"`
}

// Create handles POST /messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}

	id, err := h.svc.PostMessage(r.Context(), req.User, req.Content, req.IsVisible)
	if err != nil {
		writeServiceError(w, h.logger, "create message", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": "ok", "id": id})
}

type messagesResponse struct {
	Messages []model.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func emptyIfNil(messages []model.Message) []model.Message {
	if messages == nil {
		return []model.Message{}
	}
	return messages
}

// writeServiceError maps service errors onto HTTP responses. Storage
// failure detail goes to the log, never into the response body.
func writeServiceError(w http.ResponseWriter, logger *log.Logger, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "message not found"})
	case errors.Is(err, service.ErrStorageNotReady):
		logger.Printf("%s rejected: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage not ready"})
	default:
		logger.Printf("%s failed: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failure"})
	}
}
