package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/shala-studio/shala/internal/common/telemetry"
	"github.com/shala-studio/shala/internal/sqlite"
	"github.com/shala-studio/shala/internal/validate"
)

const enrichConcurrency = 4

// enrichedEntry is a timeline entry with denormalized plan data attached
// at read time. Entries whose referenced plan no longer exists carry no
// plan fields.
type enrichedEntry struct {
	sqlite.TimelineEntry
	PlanTitle *string        `json:"planTitle,omitempty"`
	PlanItems []planItemView `json:"planItems,omitempty"`
}

type planItemView struct {
	PoseName   string  `json:"poseName"`
	Duration   *string `json:"duration"`
	Notes      *string `json:"notes"`
	OrderIndex int64   `json:"orderIndex"`
}

func (s *Server) handleListTimeline(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("studentId is required"))
		return
	}
	entries, err := s.store.ListTimeline(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	enriched, err := s.enrichTimeline(r.Context(), entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, enriched)
}

// enrichTimeline attaches plan titles and items to class entries that
// reference a plan. Lookups are independent and run concurrently;
// results are written by index so the input ordering is preserved.
func (s *Server) enrichTimeline(ctx context.Context, entries []sqlite.TimelineEntry) ([]enrichedEntry, error) {
	enriched := make([]enrichedEntry, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, entry := range entries {
		enriched[i] = enrichedEntry{TimelineEntry: entry}
		if entry.Type != sqlite.EntryClass || entry.ClassPlanID == nil {
			continue
		}
		i, planID := i, *entry.ClassPlanID
		g.Go(func() error {
			plan, err := s.store.GetPlan(ctx, planID)
			if errors.Is(err, sqlite.ErrNotFound) {
				// Weak reference: the plan was deleted, the entry
				// stays unenriched.
				telemetry.RecordEnrichmentLookup(false)
				return nil
			}
			if err != nil {
				return err
			}
			telemetry.RecordEnrichmentLookup(true)
			items := make([]planItemView, 0, len(plan.Items))
			for _, item := range plan.Items {
				items = append(items, planItemView{
					PoseName:   item.PoseName,
					Duration:   item.Duration,
					Notes:      item.Notes,
					OrderIndex: item.OrderIndex,
				})
			}
			enriched[i].PlanTitle = &plan.Title
			enriched[i].PlanItems = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func (s *Server) handleCreateTimelineEntry(w http.ResponseWriter, r *http.Request) {
	var draft sqlite.TimelineDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.TimelineEntry(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	entry, err := s.store.InsertTimelineEntry(r.Context(), draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateTimelineEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var draft sqlite.TimelineDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if fields := validate.TimelineEntry(draft); !fields.OK() {
		writeFieldErrors(w, fields)
		return
	}
	entry, err := s.store.UpdateTimelineEntry(r.Context(), id, draft)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("entry not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteTimelineEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err = s.store.DeleteTimelineEntry(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("entry not found"))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
