package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/config"
	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
	"github.com/sitecheck/sitecheckbackend/repository"
	"github.com/sitecheck/sitecheckbackend/session"
)

// DraftHandler exposes the staged-inspection workflow: photos and a form
// PDF accumulate on a per-session draft, then one submit call creates the
// inspection and attaches everything. The draft survives a failed submit so
// nothing staged is lost.
type DraftHandler struct {
	Drafts      *session.DraftStore
	Inspections *repository.InspectionRepository
	Projects    *repository.ProjectRepository
	Photos      *repository.PhotoRepository
	Processor   *media.Processor
	Store       media.Store
	Cfg         config.Config
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "session_id")
}

// GetDraft answers GET /api/drafts/{session_id} with the staged state.
// Binary payloads stay server-side; the response carries counts and names.
func (dh *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft := dh.Drafts.Get(sessionID(r))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos":   draft.Photos,
		"has_pdf":  len(draft.PDF) > 0,
		"pdf_name": draft.PDFName,
		"page":     draft.Page,
	})
}

// StagePhoto answers POST /api/drafts/{session_id}/photos. The file is
// validated here but normalized only on submit, so removing a staged photo
// costs nothing.
func (dh *DraftHandler) StagePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	captureDate := r.FormValue("capture_date")
	if captureDate != "" && !models.IsValidDate(captureDate) {
		writeError(w, http.StatusBadRequest, "capture_date must use the YYYY-MM-DD format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing uploaded file")
		return
	}
	defer file.Close()

	if !media.IsRasterImage(header.Filename) {
		writeError(w, http.StatusBadRequest, "Unsupported file type: "+header.Filename)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	index := dh.Drafts.AddPhoto(sessionID(r), session.PendingPhoto{
		Data:        data,
		Caption:     r.FormValue("caption"),
		CaptureDate: captureDate,
	})
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

// UnstagePhoto answers DELETE /api/drafts/{session_id}/photos/{index}.
func (dh *DraftHandler) UnstagePhoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid photo index")
		return
	}
	if err := dh.Drafts.RemovePhoto(sessionID(r), index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// StagePDF answers PUT /api/drafts/{session_id}/pdf, replacing any
// previously staged form PDF and resetting the preview page.
func (dh *DraftHandler) StagePDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormPDFUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		writeError(w, http.StatusBadRequest, "Uploaded file is not a PDF")
		return
	}

	dh.Drafts.SetPDF(sessionID(r), header.Filename, data)
	writeJSON(w, http.StatusOK, map[string]string{"pdf_name": header.Filename})
}

// SetPage answers PUT /api/drafts/{session_id}/page, moving the PDF
// preview pagination cursor.
func (dh *DraftHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Page < 0 {
		writeError(w, http.StatusBadRequest, "page must not be negative")
		return
	}
	dh.Drafts.SetPage(sessionID(r), req.Page)
	writeJSON(w, http.StatusOK, map[string]int{"page": req.Page})
}

// ClearDraft answers DELETE /api/drafts/{session_id}, discarding everything
// staged. Mirrors the user navigating away without submitting.
func (dh *DraftHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	dh.Drafts.Clear(sessionID(r))
	writeJSON(w, http.StatusNoContent, nil)
}

// SubmitDraft answers POST /api/drafts/{session_id}/submit. The inspection
// record is created first; the staged PDF and photos then attach
// best-effort, each failure becoming a warning rather than aborting the
// whole save. The draft is cleared only when everything succeeded, so a
// partial failure leaves the staged material intact for a retry.
func (dh *DraftHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	draft := dh.Drafts.Get(sid)

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
	if _, err := dh.Projects.GetByID(req.ProjectID); err != nil {
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

	if err := dh.Inspections.Create(&inspection); err != nil {
		log.Printf("Error creating inspection for project %d: %v", req.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create inspection")
		return
	}

	warnings := []string{}

	if len(draft.PDF) > 0 {
		savedPath, err := dh.Processor.SaveFormPDF(bytes.NewReader(draft.PDF))
		if err == nil {
			err = dh.Inspections.SetPDFPath(inspection.ID, savedPath)
		}
		if err != nil {
			log.Printf("Error attaching staged PDF to inspection %d: %v", inspection.ID, err)
			warnings = append(warnings, "Failed to attach the staged form PDF: "+err.Error())
		}
	}

	for i, pending := range draft.Photos {
		if err := dh.saveStagedPhoto(inspection.ID, pending); err != nil {
			log.Printf("Error saving staged photo %d for inspection %d: %v", i, inspection.ID, err)
			warnings = append(warnings, fmt.Sprintf("Failed to save staged photo %d: %v", i, err))
		}
	}

	if len(warnings) == 0 {
		dh.Drafts.Clear(sid)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"inspection_id": inspection.ID,
		"warnings":      warnings,
	})
}

func (dh *DraftHandler) saveStagedPhoto(inspectionID uint, pending session.PendingPhoto) error {
	encoded, _, _, err := dh.Processor.NormalizePhoto(bytes.NewReader(pending.Data), dh.Cfg.PhotoMaxDimension, dh.Cfg.PhotoJpegQuality)
	if err != nil {
		return err
	}

	captureDate := pending.CaptureDate
	if captureDate == "" {
		if exifDate, ok := media.CaptureDateFromEXIF(pending.Data); ok {
			captureDate = exifDate
		} else {
			captureDate = time.Now().Format(models.DateLayout)
		}
	}

	savedPath, err := dh.Processor.SavePhoto(encoded)
	if err != nil {
		return err
	}

	photo := models.Photo{
		InspectionID: inspectionID,
		PhotoPath:    savedPath,
		CaptureDate:  captureDate,
	}
	if pending.Caption != "" {
		photo.Caption = &pending.Caption
	}
	if err := dh.Photos.Create(&photo); err != nil {
		if delErr := dh.Store.Delete(savedPath); delErr != nil {
			log.Printf("Error removing photo file after failed create: %v", delErr)
		}
		return err
	}
	return nil
}
