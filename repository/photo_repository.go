package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/sitecheck/sitecheckbackend/models"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Create creates a new photo record in the database
func (r *PhotoRepository) Create(photo *models.Photo) error {
	if photo.UploadedAt == 0 {
		photo.UploadedAt = time.Now().Unix()
	}
	err := r.DB.Create(photo).Error
	if err != nil {
		return fmt.Errorf("failed to create photo for inspection ID %d: %w", photo.InspectionID, err)
	}
	return nil
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// ListFiltered retrieves photos, optionally narrowed by owning inspection,
// by the inspection's form name, or by its inspection count. The form
// filters join through inspections; upload order is preserved.
func (r *PhotoRepository) ListFiltered(inspectionID *uint, formName *string, count *int) ([]models.Photo, error) {
	queryBuilder := psql.Select(
		"photos.id", "photos.inspection_id", "photos.photo_path",
		"photos.caption", "photos.capture_date", "photos.uploaded_at",
	).From("photos").OrderBy("photos.id ASC")

	if formName != nil || count != nil {
		queryBuilder = queryBuilder.LeftJoin("inspections ON inspections.id = photos.inspection_id")
	}
	if inspectionID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"photos.inspection_id": *inspectionID})
	}
	if formName != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"inspections.inspection_form_name": *formName})
	}
	if count != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"inspections.inspection_count": *count})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for ListFiltered: %w", err)
	}

	var photos []models.Photo
	if err := r.DB.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// UpdateCaption updates a photo's caption; the caption is the only mutable
// field after upload.
func (r *PhotoRepository) UpdateCaption(photoID uint, caption string) error {
	res := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Update("caption", caption)
	if res.Error != nil {
		return fmt.Errorf("failed to update photo ID %d: %w", photoID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a photo record, returning the storage path of its file so
// the caller can remove it. Photo deletion is terminal and non-cascading.
func (r *PhotoRepository) Delete(id uint) (string, error) {
	var photo models.Photo
	if err := r.DB.First(&photo, id).Error; err != nil {
		return "", err
	}
	if err := r.DB.Delete(&models.Photo{}, id).Error; err != nil {
		return "", fmt.Errorf("failed to delete photo ID %d: %w", id, err)
	}
	return photo.PhotoPath, nil
}
