package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/target/tgchat/internal/domain/model"
	apperrors "github.com/target/tgchat/internal/errors"
)

// ChatActions is the data surface the chat handlers and pages drive.
type ChatActions interface {
	GetProfile(ctx context.Context, token string) (model.Profile, error)
	ListDialogs(ctx context.Context, token string, limit int) ([]model.Dialog, error)
	ListMessages(ctx context.Context, token, chatID string, limit int) ([]model.Message, error)
	SendMessage(ctx context.Context, token, chatID, text string) (model.Message, error)
	MessageUsers(ctx context.Context, token, text string, usernames []string) ([]model.DeliveryResult, error)
}

// ChatHandlers provides JSON handlers for profile, dialog and message actions.
type ChatHandlers struct {
	Svc ChatActions
}

type sendRequest struct {
	Text string `json:"text"`
}

type broadcastRequest struct {
	Text      string   `json:"text"`
	Usernames []string `json:"usernames"`
}

// Me returns the signed-in profile.
// GET /api/me.
func (h *ChatHandlers) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetProfile(r.Context(), sessionToken(r))
	writeData(w, p, err)
}

// Dialogs lists conversations.
// GET /api/dialogs?limit=<n>.
func (h *ChatHandlers) Dialogs(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeDataError(w, err)
		return
	}
	dialogs, err := h.Svc.ListDialogs(r.Context(), sessionToken(r), limit)
	writeData(w, dialogs, err)
}

// Messages lists a chat's history, newest first.
// GET /api/chats/{id}/messages?limit=<n>.
func (h *ChatHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeDataError(w, err)
		return
	}
	msgs, err := h.Svc.ListMessages(r.Context(), sessionToken(r), r.PathValue("id"), limit)
	writeData(w, msgs, err)
}

// Send posts a text message to a chat.
// POST /api/chats/{id}/messages.
func (h *ChatHandlers) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	msg, err := h.Svc.SendMessage(r.Context(), sessionToken(r), r.PathValue("id"), req.Text)
	writeData(w, msg, err)
}

// Broadcast sends one text to many usernames; per-recipient failures are
// reported inside the data.
// POST /api/messages/broadcast.
func (h *ChatHandlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	results, err := h.Svc.MessageUsers(r.Context(), sessionToken(r), req.Text, req.Usernames)
	writeData(w, results, err)
}

func writeData(w http.ResponseWriter, data any, err error) {
	if err != nil {
		writeDataError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, DataResult{Data: data})
}

// parseLimit reads the optional limit query parameter. Absent means zero,
// which the services replace with their default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField("limit", "limit must be an integer")
	}
	return n, nil
}
