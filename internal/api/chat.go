package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"chatbot/internal/conversation"
	"chatbot/internal/credential"
	"chatbot/internal/gemini"
	"chatbot/internal/sidebar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConversationIDHeader identifies the transcript a chat request belongs to.
const ConversationIDHeader = "X-Conversation-ID"

// DefaultMaxBodyBytes is used when ChatAPI.MaxBodyBytes is not set.
const DefaultMaxBodyBytes int64 = 20 << 20

// ConversationStore persists completed exchanges.
type ConversationStore interface {
	Append(ctx context.Context, conversationID string, turns ...conversation.Turn) error
	History(ctx context.Context, conversationID string) ([]conversation.Turn, error)
	Clear(ctx context.Context, conversationID string) error
}

// ChatAPI holds the HTTP handlers of the chat backend.
type ChatAPI struct {
	Adapter *gemini.Adapter
	Catalog *gemini.Catalog
	Rotator *credential.Rotator
	Panel   *sidebar.Panel
	// Store is nil when transcript storage is disabled.
	Store ConversationStore
	Log   *logrus.Logger
	// MaxBodyBytes caps the size of a chat request body.
	MaxBodyBytes int64
}

// NewChatAPI creates a new ChatAPI instance.
func NewChatAPI(adapter *gemini.Adapter, catalog *gemini.Catalog, rotator *credential.Rotator, store ConversationStore, logger *logrus.Logger) *ChatAPI {
	return &ChatAPI{
		Adapter: adapter,
		Catalog: catalog,
		Rotator: rotator,
		Panel:   sidebar.NewPanel(nil),
		Store:   store,
		Log:     logger,

		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

type textPayload struct {
	Text string `json:"text"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// ChatHandler handles POST /api/chat. The reply is streamed as server-sent
// events: one data event per chunk carrying the accumulated text, then a
// "done" event with the final text or an "error" event.
func (api *ChatAPI) ChatHandler(w http.ResponseWriter, r *http.Request) {
	limit := api.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var wire conversation.WireRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Log.Warnf("Rejected chat request over %d bytes", tooLarge.Limit)
			writeJSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		api.Log.Errorf("Failed to unmarshal request body: %v", err)
		writeJSONError(w, "Failed to parse request body", http.StatusBadRequest)
		return
	}

	req, err := wire.Request()
	if err != nil {
		api.Log.Warnf("Rejected chat request: %v", err)
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Credential = api.Rotator.Resolve(req.Credential)

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Log.Error("Response writer does not support flushing")
		writeJSONError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	conversationID := r.Header.Get(ConversationIDHeader)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(ConversationIDHeader, conversationID)
	w.WriteHeader(http.StatusOK)

	for ev := range api.Adapter.Stream(r.Context(), req) {
		switch {
		case ev.Err != nil:
			api.writeEvent(w, "error", errorPayload{Error: ev.Err.Error()})
		case ev.Done:
			api.record(r.Context(), conversationID, req.Message, ev.Text)
			api.writeEvent(w, "done", textPayload{Text: ev.Text})
		default:
			api.writeEvent(w, "", textPayload{Text: ev.Text})
		}
		flusher.Flush()
	}
}

func (api *ChatAPI) record(ctx context.Context, conversationID string, message conversation.Turn, reply string) {
	if api.Store == nil || message == nil {
		return
	}
	err := api.Store.Append(ctx, conversationID,
		message,
		conversation.TextTurn{From: conversation.RoleModel, Content: reply},
	)
	if err != nil {
		api.Log.WithField("conversation_id", conversationID).Errorf("Failed to store exchange: %v", err)
	}
}

func (api *ChatAPI) writeEvent(w http.ResponseWriter, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		api.Log.Errorf("Failed to marshal event: %v", err)
		return
	}
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// SidebarHandler handles GET /api/sidebar.
func (api *ChatAPI) SidebarHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"field": api.Panel.Field(),
		"links": api.Panel.Links(),
	})
}

// ConversationHandler handles GET and DELETE /api/conversations/{id}.
func (api *ChatAPI) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	if api.Store == nil {
		writeJSONError(w, "conversation storage is disabled", http.StatusNotFound)
		return
	}
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		turns, err := api.Store.History(r.Context(), id)
		if err != nil {
			api.Log.Errorf("Failed to load conversation %s: %v", id, err)
			writeJSONError(w, "Failed to load conversation", http.StatusInternalServerError)
			return
		}
		messages := make([]conversation.WireTurn, 0, len(turns))
		for _, turn := range turns {
			messages = append(messages, conversation.ToWire(turn))
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "messages": messages})
	case http.MethodDelete:
		if err := api.Store.Clear(r.Context(), id); err != nil {
			api.Log.Errorf("Failed to clear conversation %s: %v", id, err)
			writeJSONError(w, "Failed to clear conversation", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorPayload{Error: msg})
}
