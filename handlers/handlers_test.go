package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sitecheck/sitecheckbackend/config"
	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
	"github.com/sitecheck/sitecheckbackend/repository"
	"github.com/sitecheck/sitecheckbackend/session"
)

// testEnv wires the full handler stack against an in-memory database and a
// temp-dir media store, mirroring the router wiring in main.go.
type testEnv struct {
	router      chi.Router
	db          *gorm.DB
	projects    *repository.ProjectRepository
	inspections *repository.InspectionRepository
	photos      *repository.PhotoRepository
	store       media.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.Inspection{}, &models.Photo{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypePhoto: "photos",
		media.AssetTypeForm:  "inspection_forms",
	})
	if err != nil {
		t.Fatalf("failed to create media store: %v", err)
	}
	processor := media.NewProcessor(store)

	cfg := config.Config{
		PhotoMaxDimension: 1600,
		PhotoJpegQuality:  85,
	}

	projectRepo := repository.NewProjectRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	draftStore := session.NewDraftStore()

	projectHandler := &ProjectHandler{Repo: projectRepo, Store: store}
	inspectionHandler := &InspectionHandler{
		Repo: inspectionRepo, Projects: projectRepo,
		Processor: processor, Store: store, Cfg: cfg,
	}
	photoHandler := &PhotoHandler{
		Repo: photoRepo, Inspections: inspectionRepo,
		Processor: processor, Store: store, Cfg: cfg,
	}
	viewHandler := &ViewHandler{Projects: projectRepo, Inspections: inspectionRepo, Photos: photoRepo}
	draftHandler := &DraftHandler{
		Drafts: draftStore, Inspections: inspectionRepo, Projects: projectRepo,
		Photos: photoRepo, Processor: processor, Store: store, Cfg: cfg,
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.CreateProject)
			r.Get("/", projectHandler.ListProjects)
			r.Route("/{project_id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
			})
		})
		r.Route("/inspections", func(r chi.Router) {
			r.Post("/", inspectionHandler.CreateInspection)
			r.Get("/", inspectionHandler.ListInspections)
			r.Route("/{inspection_id}", func(r chi.Router) {
				r.Get("/", inspectionHandler.GetInspection)
				r.Put("/", inspectionHandler.UpdateInspection)
				r.Delete("/", inspectionHandler.DeleteInspection)
				r.Put("/pdf", inspectionHandler.UploadInspectionPDF)
				r.Get("/report", inspectionHandler.GenerateReport)
			})
		})
		r.Route("/photos", func(r chi.Router) {
			r.Post("/", photoHandler.UploadPhoto)
			r.Get("/", photoHandler.ListPhotos)
			r.Route("/{photo_id}", func(r chi.Router) {
				r.Get("/", photoHandler.GetPhoto)
				r.Put("/", photoHandler.UpdatePhoto)
				r.Delete("/", photoHandler.DeletePhoto)
			})
		})
		r.Route("/views", func(r chi.Router) {
			r.Get("/inspections", viewHandler.InspectionTable)
			r.Get("/photos", viewHandler.PhotoTable)
			r.Get("/photos/options", viewHandler.PhotoOptions)
		})
		r.Route("/drafts/{session_id}", func(r chi.Router) {
			r.Get("/", draftHandler.GetDraft)
			r.Delete("/", draftHandler.ClearDraft)
			r.Post("/photos", draftHandler.StagePhoto)
			r.Delete("/photos/{index}", draftHandler.UnstagePhoto)
			r.Put("/pdf", draftHandler.StagePDF)
			r.Put("/page", draftHandler.SetPage)
			r.Post("/submit", draftHandler.SubmitDraft)
		})
	})

	return &testEnv{
		router:      r,
		db:          db,
		projects:    projectRepo,
		inspections: inspectionRepo,
		photos:      photoRepo,
		store:       store,
	}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, fileField, filename string, fileData []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write multipart field: %v", err)
		}
	}
	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		t.Fatalf("failed to create multipart file: %v", err)
	}
	if _, err := part.Write(fileData); err != nil {
		t.Fatalf("failed to write multipart file data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

func testJPEGBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 90, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func (env *testEnv) seedProject(t *testing.T, name string) models.Project {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/api/projects", map[string]string{
		"name":       name,
		"location":   "台北市信義區",
		"contractor": "大同營造",
		"start_date": "2026-01-01",
		"end_date":   "2026-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to seed project: %d %s", rec.Code, rec.Body.String())
	}
	var project models.Project
	decodeBody(t, rec, &project)
	return project
}

func (env *testEnv) seedInspection(t *testing.T, projectID uint, formName string) models.Inspection {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/api/inspections", map[string]interface{}{
		"project_id":           projectID,
		"subproject_name":      "基礎工程",
		"inspection_form_name": formName,
		"inspection_date":      "2026-03-01",
		"location":             "B1 柱牆",
		"timing":               models.TimingHoldPoint,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to seed inspection: %d %s", rec.Code, rec.Body.String())
	}
	var inspection models.Inspection
	decodeBody(t, rec, &inspection)
	return inspection
}

func (env *testEnv) seedPhoto(t *testing.T, inspectionID uint, caption string) models.Photo {
	t.Helper()
	rec := env.doMultipart(t, http.MethodPost, "/api/photos", map[string]string{
		"inspection_id": fmt.Sprintf("%d", inspectionID),
		"caption":       caption,
		"capture_date":  "2026-03-01",
	}, "file", "site.jpg", testJPEGBytes(t, 120, 80))
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to seed photo: %d %s", rec.Code, rec.Body.String())
	}
	var photo models.Photo
	decodeBody(t, rec, &photo)
	return photo
}
