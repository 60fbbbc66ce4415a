package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/sqlite"
	"github.com/shala-studio/shala/internal/validate"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var draft sqlite.PlanDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.ClassPlan(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	plan, err := s.store.InsertPlan(r.Context(), draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: plan created", "id", plan.ID, "items", len(plan.Items))
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := s.store.GetPlan(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("plan not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var draft sqlite.PlanDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.ClassPlan(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	plan, err := s.store.ReplacePlan(r.Context(), id, draft)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("plan not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = s.store.DeletePlan(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("plan not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: plan deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
