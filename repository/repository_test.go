package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sitecheck/sitecheckbackend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createTestProject(t *testing.T, repo *ProjectRepository, name string) *models.Project {
	t.Helper()
	project := &models.Project{
		Name:       name,
		Location:   "台北市信義區",
		Contractor: "大同營造",
		StartDate:  "2026-01-01",
		EndDate:    "2026-12-31",
	}
	if err := repo.Create(project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func createTestInspection(t *testing.T, repo *InspectionRepository, projectID uint, formName string) *models.Inspection {
	t.Helper()
	inspection := &models.Inspection{
		ProjectID:          projectID,
		SubprojectName:     "基礎工程",
		InspectionFormName: formName,
		InspectionDate:     "2026-03-01",
		Location:           "B1 柱牆",
		Timing:             models.TimingHoldPoint,
	}
	if err := repo.Create(inspection); err != nil {
		t.Fatalf("failed to create inspection: %v", err)
	}
	return inspection
}

func createTestPhoto(t *testing.T, repo *PhotoRepository, inspectionID uint, path string) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		InspectionID: inspectionID,
		PhotoPath:    path,
		CaptureDate:  "2026-03-01",
	}
	if err := repo.Create(photo); err != nil {
		t.Fatalf("failed to create photo: %v", err)
	}
	return photo
}
