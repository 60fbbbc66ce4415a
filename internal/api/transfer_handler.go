package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/sqlite"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	filename := fmt.Sprintf("shala-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var snap sqlite.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if snap.Version == 0 || snap.Students == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid export file format"))
		return
	}
	if err := s.store.Import(r.Context(), &snap); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: import complete",
		"students", len(snap.Students),
		"plans", len(snap.ClassPlans),
		"entries", len(snap.TimelineEntries),
		"messages", len(snap.ChatMessages))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
