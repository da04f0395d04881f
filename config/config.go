package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPhotosSubDir = "photos"
	DefaultFormsSubDir  = "inspection_forms"
)

const (
	defaultPhotoMaxDimension = 1600
	defaultPhotoJpegQuality  = 85
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for uploaded assets (photos, form PDFs)
	PhotosPath       string // full-calculated path for inspection photos
	FormsPath        string // full-calculated path for uploaded inspection form PDFs

	// photo normalization settings
	PhotoMaxDimension int
	PhotoJpegQuality  int

	// report generation settings
	ReportFontPath string // TTF with CJK coverage; empty or missing falls back to a core font
	PublicBaseURL  string // base URL used when fetching photo references over HTTP
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "sitecheck.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	absPhotosPath := filepath.Join(absMediaStorage, photosSubDir)

	formsSubDir := getEnvOrDefault("FORMS_SUBDIR", DefaultFormsSubDir)
	absFormsPath := filepath.Join(absMediaStorage, formsSubDir)

	maxDim := getEnvIntOrDefault("PHOTO_MAX_DIMENSION", defaultPhotoMaxDimension)
	quality := getEnvIntOrDefault("PHOTO_JPEG_QUALITY", defaultPhotoJpegQuality)

	fontPath := getEnvOrDefault("REPORT_FONT_PATH", filepath.Join(".", "fonts", "NotoSansTC-Regular.ttf"))
	baseURL := getEnvOrDefault("PUBLIC_BASE_URL", "")

	cfg := Config{
		DatabasePath:      dbPath,
		MediaStoragePath:  absMediaStorage,
		PhotosPath:        absPhotosPath,
		FormsPath:         absFormsPath,
		PhotoMaxDimension: maxDim,
		PhotoJpegQuality:  quality,
		ReportFontPath:    fontPath,
		PublicBaseURL:     baseURL,
	}

	return cfg, nil
}
