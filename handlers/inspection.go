package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/config"
	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
	"github.com/sitecheck/sitecheckbackend/report"
	"github.com/sitecheck/sitecheckbackend/repository"
)

const maxFormPDFUploadSize = 32 << 20 // 32 MiB

type InspectionHandler struct {
	Repo      *repository.InspectionRepository
	Projects  *repository.ProjectRepository
	Processor *media.Processor
	Store     media.Store
	Cfg       config.Config
}

type createInspectionRequest struct {
	ProjectID          uint   `json:"project_id"`
	SubprojectName     string `json:"subproject_name"`
	InspectionFormName string `json:"inspection_form_name"`
	InspectionDate     string `json:"inspection_date"`
	Location           string `json:"location"`
	Timing             string `json:"timing"`
	Result             string `json:"result"`
	Remark             string `json:"remark"`
}

func (ih *InspectionHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	var req createInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ProjectID == 0 || req.SubprojectName == "" || req.InspectionFormName == "" ||
		req.InspectionDate == "" || req.Location == "" || req.Timing == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: project_id, subproject_name, inspection_form_name, inspection_date, location, and timing")
		return
	}
	if !models.IsValidDate(req.InspectionDate) {
		writeError(w, http.StatusBadRequest, "inspection_date must use the YYYY-MM-DD format")
		return
	}
	if !models.IsValidTiming(req.Timing) {
		writeError(w, http.StatusBadRequest, "Invalid timing value: "+req.Timing)
		return
	}
	if req.Result != "" && !models.IsValidResult(req.Result) {
		writeError(w, http.StatusBadRequest, "Invalid result value: "+req.Result)
		return
	}

	// every inspection must reference a live project
	if _, err := ih.Projects.GetByID(req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Project %d does not exist", req.ProjectID))
		} else {
			log.Printf("Error verifying project %d: %v", req.ProjectID, err)
			writeError(w, http.StatusInternalServerError, "Failed to verify project")
		}
		return
	}

	inspection := models.Inspection{
		ProjectID:          req.ProjectID,
		SubprojectName:     req.SubprojectName,
		InspectionFormName: req.InspectionFormName,
		InspectionDate:     req.InspectionDate,
		Location:           req.Location,
		Timing:             req.Timing,
	}
	if req.Result != "" {
		inspection.Result = &req.Result
	}
	if req.Remark != "" {
		inspection.Remark = &req.Remark
	}

	if err := ih.Repo.Create(&inspection); err != nil {
		log.Printf("Error creating inspection for project %d: %v", req.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create inspection")
		return
	}

	writeJSON(w, http.StatusCreated, inspection)
}

func (ih *InspectionHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	var projectID *uint
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid project_id filter")
			return
		}
		id := uint(parsed)
		projectID = &id
	}

	inspections, err := ih.Repo.ListFiltered(projectID)
	if err != nil {
		log.Printf("Error listing inspections: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve inspections")
		return
	}
	if inspections == nil {
		inspections = []models.Inspection{}
	}
	writeJSON(w, http.StatusOK, inspections)
}

func (ih *InspectionHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "inspection_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inspection id")
		return
	}

	inspection, err := ih.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Inspection not found")
		} else {
			log.Printf("Error getting inspection %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve inspection")
		}
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

// UpdateInspection mutates the editable fields only: result and remark.
func (ih *InspectionHandler) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "inspection_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inspection id")
		return
	}

	var req struct {
		Result *string `json:"result"`
		Remark *string `json:"remark"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Result == nil && req.Remark == nil {
		writeError(w, http.StatusBadRequest, "No fields provided for update")
		return
	}
	if req.Result != nil && !models.IsValidResult(*req.Result) {
		writeError(w, http.StatusBadRequest, "Invalid result value: "+*req.Result)
		return
	}

	if err := ih.Repo.Update(id, req.Result, req.Remark); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Inspection not found")
		} else {
			log.Printf("Error updating inspection %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to update inspection")
		}
		return
	}

	updated, err := ih.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated inspection %d: %v", id, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Inspection updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteInspection removes an inspection and its photos. Like project
// deletion, the cascade requires confirm=true.
func (ih *InspectionHandler) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "inspection_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inspection id")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "Deleting an inspection also deletes all its photos and cannot be undone; repeat the request with confirm=true")
		return
	}

	cascade, err := ih.Repo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Inspection not found")
		} else {
			log.Printf("Error deleting inspection %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete inspection")
		}
		return
	}

	removeCascadeFiles(ih.Store, cascade)
	writeJSON(w, http.StatusNoContent, nil)
}

// UploadInspectionPDF stores an uploaded inspection form PDF and binds it
// to the inspection, replacing any previous form file.
func (ih *InspectionHandler) UploadInspectionPDF(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "inspection_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inspection id")
		return
	}

	inspection, err := ih.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Inspection not found")
		} else {
			log.Printf("Error getting inspection %d for PDF upload: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve inspection")
		}
		return
	}

	if err := r.ParseMultipartForm(maxFormPDFUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing uploaded file")
		return
	}
	defer file.Close()

	savedPath, err := ih.Processor.SaveFormPDF(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to store PDF: "+err.Error())
		return
	}

	if err := ih.Repo.SetPDFPath(id, savedPath); err != nil {
		log.Printf("Error binding PDF to inspection %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update inspection")
		return
	}

	if inspection.PDFPath != nil && *inspection.PDFPath != "" {
		if err := ih.Store.Delete(*inspection.PDFPath); err != nil {
			log.Printf("Error deleting replaced form PDF %s: %v", *inspection.PDFPath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"pdf_path": savedPath})
}

// GenerateReport renders the inspection photo report and streams it back as
// a downloadable PDF. ?slots=N selects the fixed-slot preview template.
func (ih *InspectionHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "inspection_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inspection id")
		return
	}

	inspection, err := ih.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Inspection not found")
		} else {
			log.Printf("Error getting inspection %d for report: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve inspection")
		}
		return
	}

	var fetcher media.Fetcher = &media.StoreFetcher{Store: ih.Store}
	if ih.Cfg.PublicBaseURL != "" {
		fetcher = &media.HTTPFetcher{BaseURL: ih.Cfg.PublicBaseURL}
	}
	generator := report.NewGenerator(fetcher, ih.Cfg.ReportFontPath)

	var pdfBytes []byte
	if raw := r.URL.Query().Get("slots"); raw != "" {
		slots, convErr := strconv.Atoi(raw)
		if convErr != nil || slots <= 0 {
			writeError(w, http.StatusBadRequest, "slots must be a positive integer")
			return
		}
		pdfBytes, err = generator.GeneratePreview(inspection, inspection.Photos, slots)
	} else {
		pdfBytes, err = generator.Generate(inspection, inspection.Photos)
	}
	if err != nil {
		log.Printf("Error generating report for inspection %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	filename := report.Filename(id)
	w.Header().Set("Content-Type", "application/pdf")
	// RFC 5987 encoding for the non-ASCII filename
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="report_%d.pdf"; filename*=UTF-8''%s`, id, url.PathEscape(filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		log.Printf("Error streaming report for inspection %d: %v", id, err)
	}
}
