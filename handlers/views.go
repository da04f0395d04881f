package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/sitecheck/sitecheckbackend/repository"
	"github.com/sitecheck/sitecheckbackend/views"
)

// ViewHandler serves the joined, filterable tables the browse screens
// render. All joins and filters run in memory over full list queries.
type ViewHandler struct {
	Projects    *repository.ProjectRepository
	Inspections *repository.InspectionRepository
	Photos      *repository.PhotoRepository
}

const (
	noInspectionsMessage = "目前尚無抽查紀錄"
	noPhotosMessage      = "目前尚無照片"
)

// InspectionTable answers GET /api/views/inspections. Query selectors:
// project (name or 全部專案), form (name or 全部抽查表), count (第N次 or
// 全部次數). An empty inspection table returns empty rows plus a message.
func (vh *ViewHandler) InspectionTable(w http.ResponseWriter, r *http.Request) {
	inspections, err := vh.Inspections.ListFiltered(nil)
	if err != nil {
		log.Printf("Error listing inspections for view: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve inspections")
		return
	}

	if len(inspections) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"rows":          []views.InspectionRow{},
			"project_names": []string{views.AllProjects},
			"message":       noInspectionsMessage,
		})
		return
	}

	projects, err := vh.Projects.ListAll()
	if err != nil {
		log.Printf("Error listing projects for view: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	rows := views.JoinInspections(inspections, projects)

	filter := views.Filter{
		ProjectName: r.URL.Query().Get("project"),
		FormName:    r.URL.Query().Get("form"),
		CountLabel:  r.URL.Query().Get("count"),
	}
	filtered := views.FilterInspections(rows, filter)

	projectNames := []string{views.AllProjects}
	for _, p := range projects {
		projectNames = append(projectNames, p.Name)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          filtered,
		"project_names": projectNames,
	})
}

// PhotoTable answers GET /api/views/photos. Query selectors: form, count,
// inspection_id. An empty photo table returns empty rows plus a message.
func (vh *ViewHandler) PhotoTable(w http.ResponseWriter, r *http.Request) {
	photos, err := vh.Photos.ListFiltered(nil, nil, nil)
	if err != nil {
		log.Printf("Error listing photos for view: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve photos")
		return
	}

	if len(photos) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"rows":    []views.PhotoRow{},
			"message": noPhotosMessage,
		})
		return
	}

	inspections, err := vh.Inspections.ListFiltered(nil)
	if err != nil {
		log.Printf("Error listing inspections for photo view: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve inspections")
		return
	}

	rows := views.JoinPhotos(photos, inspections)

	filter := views.Filter{
		FormName:   r.URL.Query().Get("form"),
		CountLabel: r.URL.Query().Get("count"),
	}
	if raw := r.URL.Query().Get("inspection_id"); raw != "" {
		parsed, convErr := strconv.ParseUint(raw, 10, 64)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid inspection_id filter")
			return
		}
		filter.InspectionID = uint(parsed)
	}
	filtered := views.FilterPhotos(rows, filter)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": filtered,
	})
}

// PhotoOptions answers GET /api/views/photos/options: the form-name
// selector values and, for ?form=, the count selector values valid under
// that form. The two lists drive the cascading dropdown pair.
func (vh *ViewHandler) PhotoOptions(w http.ResponseWriter, r *http.Request) {
	inspections, err := vh.Inspections.ListFiltered(nil)
	if err != nil {
		log.Printf("Error listing inspections for options: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve inspections")
		return
	}

	rows := views.JoinInspections(inspections, nil)

	formName := r.URL.Query().Get("form")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"form_names": views.FormNameOptions(rows),
		"counts":     views.CountOptions(rows, formName),
	})
}
