package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/models"
)

// builder for the hand-written list queries; SQLite wants ? placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// InspectionRepository handles database operations for Inspection entities
type InspectionRepository struct {
	DB *gorm.DB
}

// NewInspectionRepository creates a new instance of InspectionRepository
func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{DB: db}
}

// Create inserts a new inspection, assigning its inspection_count as the
// next sequence number for the same form name. The count assignment and the
// insert run in one transaction so concurrent creates cannot share a number.
func (r *InspectionRepository) Create(inspection *models.Inspection) error {
	now := time.Now().Unix()
	if inspection.CreatedAt == 0 {
		inspection.CreatedAt = now
	}
	if inspection.UpdatedAt == 0 {
		inspection.UpdatedAt = now
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var maxCount int
		err := tx.Model(&models.Inspection{}).
			Where("inspection_form_name = ?", inspection.InspectionFormName).
			Select("COALESCE(MAX(inspection_count), 0)").
			Scan(&maxCount).Error
		if err != nil {
			return fmt.Errorf("failed to compute inspection count for form %s: %w", inspection.InspectionFormName, err)
		}
		inspection.InspectionCount = maxCount + 1
		return tx.Create(inspection).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create inspection for project ID %d: %w", inspection.ProjectID, err)
	}
	return nil
}

// GetByID retrieves an inspection with its photos preloaded
func (r *InspectionRepository) GetByID(id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	err := r.DB.Preload("Photos").First(&inspection, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get inspection by ID %d: %w", id, err)
	}
	return &inspection, nil
}

// ListFiltered retrieves inspections, optionally narrowed to one project.
// Rows come back in insertion order.
func (r *InspectionRepository) ListFiltered(projectID *uint) ([]models.Inspection, error) {
	queryBuilder := psql.Select(
		"id", "project_id", "subproject_name", "inspection_form_name",
		"inspection_date", "location", "timing", "inspection_count",
		"result", "remark", "pdf_path", "created_at", "updated_at",
	).From("inspections").OrderBy("id ASC")

	if projectID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"project_id": *projectID})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for ListFiltered: %w", err)
	}

	var inspections []models.Inspection
	if err := r.DB.Raw(sqlStr, args...).Scan(&inspections).Error; err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return inspections, nil
}

// Update mutates the post-creation editable fields: result and remark.
// Everything else is fixed once the inspection is recorded.
func (r *InspectionRepository) Update(inspectionID uint, result *string, remark *string) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if result != nil {
		updates["result"] = *result
	}
	if remark != nil {
		updates["remark"] = *remark
	}

	if len(updates) == 1 {
		return nil
	}

	res := r.DB.Model(&models.Inspection{}).Where("id = ?", inspectionID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update inspection ID %d: %w", inspectionID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Inspection{}).Where("id = ?", inspectionID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// SetPDFPath records the storage path of an uploaded inspection form PDF
func (r *InspectionRepository) SetPDFPath(inspectionID uint, pdfPath string) error {
	res := r.DB.Model(&models.Inspection{}).Where("id = ?", inspectionID).Updates(map[string]interface{}{
		"pdf_path":   pdfPath,
		"updated_at": time.Now().Unix(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set pdf path for inspection ID %d: %w", inspectionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an inspection and its photos in one transaction, reporting
// removed file paths for storage cleanup.
func (r *InspectionRepository) Delete(id uint) (CascadeResult, error) {
	var cascade CascadeResult

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var inspection models.Inspection
		if err := tx.First(&inspection, id).Error; err != nil {
			return err
		}
		cascade.InspectionIDs = append(cascade.InspectionIDs, inspection.ID)
		if inspection.PDFPath != nil && *inspection.PDFPath != "" {
			cascade.PDFPaths = append(cascade.PDFPaths, *inspection.PDFPath)
		}

		var photos []models.Photo
		if err := tx.Where("inspection_id = ?", id).Find(&photos).Error; err != nil {
			return fmt.Errorf("failed to load photos for inspection ID %d: %w", id, err)
		}
		for _, p := range photos {
			cascade.PhotoPaths = append(cascade.PhotoPaths, p.PhotoPath)
		}

		if err := tx.Where("inspection_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to delete photos for inspection ID %d: %w", id, err)
		}
		if err := tx.Delete(&models.Inspection{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete inspection ID %d: %w", id, err)
		}
		return nil
	})

	if err != nil {
		return CascadeResult{}, err
	}
	return cascade, nil
}
