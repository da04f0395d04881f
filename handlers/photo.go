package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/config"
	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
	"github.com/sitecheck/sitecheckbackend/repository"
)

const maxPhotoUploadSize = 32 << 20 // 32 MiB

type PhotoHandler struct {
	Repo        *repository.PhotoRepository
	Inspections *repository.InspectionRepository
	Processor   *media.Processor
	Store       media.Store
	Cfg         config.Config
}

// UploadPhoto binds a new photo to an inspection. The image is normalized
// (downsampled and re-encoded) before storage. A missing capture_date falls
// back to the photo's EXIF date, then to today.
func (ph *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	rawID := r.FormValue("inspection_id")
	inspectionID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || inspectionID == 0 {
		writeError(w, http.StatusBadRequest, "Missing or invalid inspection_id")
		return
	}

	if _, err := ph.Inspections.GetByID(uint(inspectionID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusBadRequest, "Inspection does not exist")
		} else {
			log.Printf("Error verifying inspection %d: %v", inspectionID, err)
			writeError(w, http.StatusInternalServerError, "Failed to verify inspection")
		}
		return
	}

	captureDate := r.FormValue("capture_date")
	if captureDate != "" && !models.IsValidDate(captureDate) {
		writeError(w, http.StatusBadRequest, "capture_date must use the YYYY-MM-DD format")
		return
	}
	caption := r.FormValue("caption")

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

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	encoded, _, _, err := ph.Processor.NormalizePhoto(bytes.NewReader(raw), ph.Cfg.PhotoMaxDimension, ph.Cfg.PhotoJpegQuality)
	if err != nil {
		var decodeErr *media.DecodeError
		if errors.As(err, &decodeErr) {
			writeError(w, http.StatusBadRequest, "Uploaded file is not a supported image: "+decodeErr.Error())
		} else {
			log.Printf("Error normalizing photo upload: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to process photo")
		}
		return
	}

	if captureDate == "" {
		if exifDate, ok := media.CaptureDateFromEXIF(raw); ok {
			captureDate = exifDate
		} else {
			captureDate = time.Now().Format(models.DateLayout)
		}
	}

	savedPath, err := ph.Processor.SavePhoto(encoded)
	if err != nil {
		log.Printf("Error saving photo: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	photo := models.Photo{
		InspectionID: uint(inspectionID),
		PhotoPath:    savedPath,
		CaptureDate:  captureDate,
	}
	if caption != "" {
		photo.Caption = &caption
	}

	if err := ph.Repo.Create(&photo); err != nil {
		log.Printf("Error creating photo record: %v", err)
		if delErr := ph.Store.Delete(savedPath); delErr != nil {
			log.Printf("Error removing photo file after failed create: %v", delErr)
		}
		writeError(w, http.StatusInternalServerError, "Failed to create photo record")
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

func (ph *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	var inspectionID *uint
	if raw := r.URL.Query().Get("inspection_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid inspection_id filter")
			return
		}
		id := uint(parsed)
		inspectionID = &id
	}

	photos, err := ph.Repo.ListFiltered(inspectionID, nil, nil)
	if err != nil {
		log.Printf("Error listing photos: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve photos")
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	writeJSON(w, http.StatusOK, photos)
}

func (ph *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	photo, err := ph.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
		} else {
			log.Printf("Error getting photo %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve photo")
		}
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// UpdatePhoto mutates the caption, the only editable field after upload.
func (ph *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	var req struct {
		Caption *string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Caption == nil {
		writeError(w, http.StatusBadRequest, "No fields provided for update")
		return
	}

	if err := ph.Repo.UpdateCaption(id, *req.Caption); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
		} else {
			log.Printf("Error updating photo %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to update photo")
		}
		return
	}

	updated, err := ph.Repo.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated photo %d: %v", id, err)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Photo updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePhoto removes one photo; deletion is terminal and non-cascading.
func (ph *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid photo id")
		return
	}

	path, err := ph.Repo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
		} else {
			log.Printf("Error deleting photo %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete photo")
		}
		return
	}

	if err := ph.Store.Delete(path); err != nil {
		log.Printf("Error deleting photo file %s: %v", path, err)
	}
	writeJSON(w, http.StatusNoContent, nil)
}
