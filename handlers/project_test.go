package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/sitecheck/sitecheckbackend/models"
)

func TestCreateProjectEqualDatesAllowed(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{
		"name":       "一日工程",
		"location":   "台北市",
		"contractor": "大同營造",
		"start_date": "2026-06-01",
		"end_date":   "2026-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for equal dates, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProjectEndBeforeStartRejected(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{
		"name":       "倒退工程",
		"location":   "台北市",
		"contractor": "大同營造",
		"start_date": "2026-06-02",
		"end_date":   "2026-06-01",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "end_date") {
		t.Errorf("expected an end_date message, got %q", msg)
	}

	// nothing was written
	listRec := env.doJSON(t, http.MethodGet, "/api/projects", nil)
	var projects []models.Project
	decodeBody(t, listRec, &projects)
	if len(projects) != 0 {
		t.Errorf("expected no projects persisted, got %d", len(projects))
	}
}

func TestCreateProjectMissingFields(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{
		"name":       "",
		"location":   "台北市",
		"contractor": "大同營造",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateProjectMalformedDate(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{
		"name":       "甲工程",
		"location":   "台北市",
		"contractor": "大同營造",
		"start_date": "01/06/2026",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestUpdateProject(t *testing.T) {
	env := setupTestEnv(t)
	project := env.seedProject(t, "甲工程")

	rec := env.doJSON(t, http.MethodPut, "/api/projects/1", map[string]string{
		"name":       "甲工程(修訂)",
		"location":   "新北市板橋區",
		"contractor": "大陸工程",
		"start_date": project.StartDate,
		"end_date":   project.EndDate,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated models.Project
	decodeBody(t, rec, &updated)
	if updated.Name != "甲工程(修訂)" || updated.Contractor != "大陸工程" {
		t.Errorf("unexpected updated project: %+v", updated)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/api/projects/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteProjectRequiresConfirm(t *testing.T) {
	env := setupTestEnv(t)
	project := env.seedProject(t, "甲工程")
	env.seedInspection(t, project.ID, "鋼筋抽查表")

	rec := env.doJSON(t, http.MethodDelete, "/api/projects/1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); !strings.Contains(msg, "confirm=true") {
		t.Errorf("expected a confirm warning, got %q", msg)
	}

	// the project survived the unconfirmed request
	getRec := env.doJSON(t, http.MethodGet, "/api/projects/1", nil)
	if getRec.Code != http.StatusOK {
		t.Errorf("expected the project untouched, got %d", getRec.Code)
	}
}

func TestDeleteProjectConfirmedCascades(t *testing.T) {
	env := setupTestEnv(t)
	project := env.seedProject(t, "甲工程")
	inspection := env.seedInspection(t, project.ID, "鋼筋抽查表")
	env.seedPhoto(t, inspection.ID, "主筋間距")

	rec := env.doJSON(t, http.MethodDelete, "/api/projects/1?confirm=true", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	if env.doJSON(t, http.MethodGet, "/api/projects/1", nil).Code != http.StatusNotFound {
		t.Error("expected the project gone")
	}
	if env.doJSON(t, http.MethodGet, "/api/inspections/1", nil).Code != http.StatusNotFound {
		t.Error("expected the inspection gone")
	}
	if env.doJSON(t, http.MethodGet, "/api/photos/1", nil).Code != http.StatusNotFound {
		t.Error("expected the photo gone")
	}
}
