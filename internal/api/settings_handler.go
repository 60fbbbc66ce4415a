package api

import (
	"encoding/json"
	"net/http"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/llm"
	"github.com/shala-studio/shala/internal/sqlite"
	"github.com/shala-studio/shala/internal/validate"
)

const settingMask = "••••"

// handleGetSettings returns the stored settings with the credential
// masked: only the trailing four characters are ever echoed back. There
// is no surface that returns the stored credential unmasked.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.AllSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = maskSetting(row.Key, row.Value)
	}
	writeJSON(w, http.StatusOK, out)
}

func maskSetting(key, value string) string {
	if key != llm.CredentialSettingKey {
		return value
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return value
	}
	return settingMask + string(runes[len(runes)-4:])
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var draft sqlite.SettingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.Setting(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	if err := s.store.UpsertSetting(r.Context(), draft.Key, draft.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: setting updated", "key", draft.Key)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
