package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
	"github.com/sitecheck/sitecheckbackend/repository"
)

type ProjectHandler struct {
	Repo  *repository.ProjectRepository
	Store media.Store
}

type projectRequest struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Contractor string `json:"contractor"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// validate runs the client-side checks of the original form: required
// fields, well-formed dates, end date not before start date. Equal dates
// are allowed. Nothing is written when validation fails.
func (req *projectRequest) validate() string {
	if req.Name == "" || req.Location == "" || req.Contractor == "" {
		return "Missing required fields: name, location, and contractor"
	}
	if !models.IsValidDate(req.StartDate) || !models.IsValidDate(req.EndDate) {
		return "Dates must use the YYYY-MM-DD format"
	}
	// ISO dates compare correctly as strings
	if req.EndDate < req.StartDate {
		return "end_date must not be earlier than start_date"
	}
	return ""
}

func (ph *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	project := models.Project{
		Name:       req.Name,
		Location:   req.Location,
		Contractor: req.Contractor,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := ph.Repo.Create(&project); err != nil {
		log.Printf("Error creating project '%s': %v", req.Name, err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (ph *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := ph.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (ph *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	project, err := ph.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
		} else {
			log.Printf("Error getting project %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve project")
		}
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (ph *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	err = ph.Repo.Update(id, req.Name, req.Location, req.Contractor, req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
		} else {
			log.Printf("Error updating project %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to update project")
		}
		return
	}

	updated, err := ph.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated project %d: %v", id, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Project updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProject removes a project and cascades to its inspections and
// photos. The cascade is irreversible, so it requires confirm=true; without
// it the handler performs nothing and returns the warning instead.
func (ph *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "Deleting a project also deletes all dependent inspections and photos and cannot be undone; repeat the request with confirm=true")
		return
	}

	cascade, err := ph.Repo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
		} else {
			log.Printf("Error deleting project %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete project")
		}
		return
	}

	removeCascadeFiles(ph.Store, cascade)
	writeJSON(w, http.StatusNoContent, nil)
}

// removeCascadeFiles best-effort deletes the files a cascading delete
// orphaned; the database rows are already gone.
func removeCascadeFiles(store media.Store, cascade repository.CascadeResult) {
	for _, path := range cascade.PhotoPaths {
		if err := store.Delete(path); err != nil {
			log.Printf("Error deleting orphaned photo file %s: %v", path, err)
		}
	}
	for _, path := range cascade.PDFPaths {
		if err := store.Delete(path); err != nil {
			log.Printf("Error deleting orphaned form PDF %s: %v", path, err)
		}
	}
}
