package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/sitecheck/sitecheckbackend/config"
	"github.com/sitecheck/sitecheckbackend/database"
	"github.com/sitecheck/sitecheckbackend/handlers"
	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/repository"
	"github.com/sitecheck/sitecheckbackend/session"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PhotosPath, cfg.FormsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to run migrations: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePhoto: filepath.Base(cfg.PhotosPath),
		media.AssetTypeForm:  filepath.Base(cfg.FormsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	projectRepo := repository.NewProjectRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	draftStore := session.NewDraftStore()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing photos in: %s", cfg.PhotosPath)
	log.Printf("Storing form PDFs in: %s", cfg.FormsPath)
	log.Printf("Photo max size (longest side): %dpx", cfg.PhotoMaxDimension)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	projectHandler := &handlers.ProjectHandler{Repo: projectRepo, Store: mediaStore}
	inspectionHandler := &handlers.InspectionHandler{
		Repo:      inspectionRepo,
		Projects:  projectRepo,
		Processor: mediaProcessor,
		Store:     mediaStore,
		Cfg:       cfg,
	}
	photoHandler := &handlers.PhotoHandler{
		Repo:        photoRepo,
		Inspections: inspectionRepo,
		Processor:   mediaProcessor,
		Store:       mediaStore,
		Cfg:         cfg,
	}
	viewHandler := &handlers.ViewHandler{
		Projects:    projectRepo,
		Inspections: inspectionRepo,
		Photos:      photoRepo,
	}
	draftHandler := &handlers.DraftHandler{
		Drafts:      draftStore,
		Inspections: inspectionRepo,
		Projects:    projectRepo,
		Photos:      photoRepo,
		Processor:   mediaProcessor,
		Store:       mediaStore,
		Cfg:         cfg,
	}

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

		photosSubDir := filepath.Base(cfg.PhotosPath)
		r.Get(fmt.Sprintf("/media/%s/*", photosSubDir), handlers.AssetServer(cfg.MediaStoragePath, photosSubDir))
		log.Printf("Registered photo server at /api/media/%s/*", photosSubDir)

		formsSubDir := filepath.Base(cfg.FormsPath)
		r.Get(fmt.Sprintf("/media/%s/*", formsSubDir), handlers.AssetServer(cfg.MediaStoragePath, formsSubDir))
		log.Printf("Registered form PDF server at /api/media/%s/*", formsSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
