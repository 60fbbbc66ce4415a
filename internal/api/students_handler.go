package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shala-studio/shala/internal/common"
	"github.com/shala-studio/shala/internal/sqlite"
	"github.com/shala-studio/shala/internal/validate"
)

const avatarURLFormat = "https://api.dicebear.com/9.x/thumbs/svg?seed=%s"

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var draft sqlite.StudentDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.Student(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	seed := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	student, err := s.store.InsertStudent(r.Context(), draft, fmt.Sprintf(avatarURLFormat, seed))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: student created", "id", student.ID)
	writeJSON(w, http.StatusCreated, student)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	student, err := s.store.GetStudent(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("student not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var draft sqlite.StudentDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.Student(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	student, err := s.store.UpdateStudent(r.Context(), id, draft)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("student not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = s.store.DeleteStudent(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("student not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: student deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
