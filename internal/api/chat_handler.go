package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/common/telemetry"
	"github.com/shala-studio/shala/internal/llm"
	"github.com/shala-studio/shala/internal/sqlite"
	"github.com/shala-studio/shala/internal/validate"
)

func (s *Server) handleListChat(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("studentId is required"))
		return
	}
	messages, err := s.store.ListChat(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// handleChatTurn runs one chat turn: validate, gather the student
// snapshot, dispatch to the selected provider, and only after a
// successful reply persist both the user message and the assistant
// answer. A failed provider call discards the turn entirely.
func (s *Server) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()

	var draft sqlite.ChatDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.ChatMessage(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}

	student, err := s.store.GetStudent(ctx, draft.StudentID)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("student not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	snapshot, err := s.builder.Build(ctx, student)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	prior, err := s.store.ListChat(ctx, draft.StudentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	history := make([]llm.Message, 0, len(prior)+1)
	for _, msg := range prior {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	history = append(history, llm.Message{Role: sqlite.RoleUser, Content: draft.Content})

	provider, err := s.resolver(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("api: chat turn started", "student", draft.StudentID, "provider", provider.Name(), "history", len(history))
	start := time.Now()
	reply, err := provider.Chat(ctx, history, snapshot)
	if err != nil {
		telemetry.RecordChatFailure()
		logger.Error("api: provider call failed", "provider", provider.Name(), "error", err)
		writeError(w, http.StatusBadGateway, fmt.Errorf("AI provider error: %s", err))
		return
	}
	telemetry.RecordChatTurn(provider.Name(), time.Since(start))

	// The reply exists; persist both turns even if the caller has
	// already disconnected, so the append never half-happens on a
	// dropped connection.
	appendCtx := context.WithoutCancel(ctx)
	if err := s.store.AppendTurn(appendCtx, draft.StudentID, draft.Content, reply); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	messages, err := s.store.ListChat(appendCtx, draft.StudentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
