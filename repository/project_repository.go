package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/models"
)

// ProjectRepository handles database operations for Project entities
type ProjectRepository struct {
	DB *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// CascadeResult reports what a cascading delete removed, so callers can
// clean up the orphaned files in media storage.
type CascadeResult struct {
	InspectionIDs []uint
	PhotoPaths    []string
	PDFPaths      []string
}

// Create creates a new project record in the database
func (r *ProjectRepository) Create(project *models.Project) error {
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	if project.UpdatedAt == 0 {
		project.UpdatedAt = now
	}

	err := r.DB.Create(project).Error
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", project.Name, err)
	}
	return nil
}

// ListAll retrieves all projects in insertion order
func (r *ProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.Order("id ASC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.DB.First(&project, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by ID %d: %w", id, err)
	}
	return &project, nil
}

// Update replaces the mutable fields of a project. All fields are assumed
// validated by the caller (dates well-formed, end >= start).
func (r *ProjectRepository) Update(projectID uint, name, location, contractor, startDate, endDate string) error {
	updates := map[string]interface{}{
		"name":       name,
		"location":   location,
		"contractor": contractor,
		"start_date": startDate,
		"end_date":   endDate,
		"updated_at": time.Now().Unix(),
	}

	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a project and every inspection and photo under it in one
// transaction. The returned CascadeResult lists the storage paths of the
// removed photo and PDF files; file cleanup is the caller's job.
func (r *ProjectRepository) Delete(id uint) (CascadeResult, error) {
	var cascade CascadeResult

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		var inspections []models.Inspection
		if err := tx.Where("project_id = ?", id).Find(&inspections).Error; err != nil {
			return fmt.Errorf("failed to load inspections for project ID %d: %w", id, err)
		}
		for _, insp := range inspections {
			cascade.InspectionIDs = append(cascade.InspectionIDs, insp.ID)
			if insp.PDFPath != nil && *insp.PDFPath != "" {
				cascade.PDFPaths = append(cascade.PDFPaths, *insp.PDFPath)
			}
		}

		if len(cascade.InspectionIDs) > 0 {
			var photos []models.Photo
			if err := tx.Where("inspection_id IN ?", cascade.InspectionIDs).Find(&photos).Error; err != nil {
				return fmt.Errorf("failed to load photos for project ID %d: %w", id, err)
			}
			for _, p := range photos {
				cascade.PhotoPaths = append(cascade.PhotoPaths, p.PhotoPath)
			}

			if err := tx.Where("inspection_id IN ?", cascade.InspectionIDs).Delete(&models.Photo{}).Error; err != nil {
				return fmt.Errorf("failed to delete photos for project ID %d: %w", id, err)
			}
			if err := tx.Where("project_id = ?", id).Delete(&models.Inspection{}).Error; err != nil {
				return fmt.Errorf("failed to delete inspections for project ID %d: %w", id, err)
			}
		}

		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete project ID %d: %w", id, err)
		}
		return nil
	})

	if err != nil {
		return CascadeResult{}, err
	}
	return cascade, nil
}
