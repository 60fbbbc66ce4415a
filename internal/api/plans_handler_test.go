package api

import (
	"net/http"
	"testing"

	"github.com/shala-studio/shala/internal/sqlite"
)

func TestPlanLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/v1/plans", map[string]any{
		"title":       "Morning Flow",
		"description": "gentle start",
		"items": []map[string]any{
			{"poseName": "Mountain", "orderIndex": 0, "duration": "2 min"},
			{"poseName": "Downward Dog", "orderIndex": 1},
			{"poseName": "Savasana", "orderIndex": 2},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var plan sqlite.ClassPlan
	decodeBody(t, rec, &plan)
	if plan.ID == 0 || len(plan.Items) != 3 {
		t.Fatalf("created plan = %+v", plan)
	}

	// PUT replaces the item list wholesale.
	rec = doRequest(t, srv, http.MethodPut, "/v1/plans/1", map[string]any{
		"title": "Morning Flow v2",
		"items": []map[string]any{
			{"poseName": "Child's Pose", "orderIndex": 0},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &plan)
	if plan.Title != "Morning Flow v2" || len(plan.Items) != 1 || plan.Items[0].PoseName != "Child's Pose" {
		t.Fatalf("replaced plan = %+v", plan)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/plans/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	decodeBody(t, rec, &plan)
	if len(plan.Items) != 1 {
		t.Fatalf("fetched plan items = %d, want 1", len(plan.Items))
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/plans/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/plans/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestPlanValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodPost, "/v1/plans", map[string]any{
		"items": []map[string]any{{"poseName": "", "orderIndex": 0}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create = %d, want 400", rec.Code)
	}
	var body struct {
		Error map[string][]string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if len(body.Error["title"]) == 0 || len(body.Error["items[0].poseName"]) == 0 {
		t.Fatalf("field errors = %v", body.Error)
	}
}

func TestPlanUpdateMissing(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodPut, "/v1/plans/42", map[string]any{"title": "Ghost"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update = %d, want 404", rec.Code)
	}
}
