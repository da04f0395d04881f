package models

// Photo represents an uploaded inspection photograph. It corresponds to the
// 'photos' table. PhotoPath is the storage-relative path of the normalized
// JPEG, resolved against the asset routes for retrieval.
type Photo struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	InspectionID uint    `gorm:"not null;index" json:"inspection_id"`
	PhotoPath    string  `gorm:"not null" json:"photo_path"`
	Caption      *string `gorm:"" json:"caption,omitempty"` // Nullable
	CaptureDate  string  `gorm:"not null" json:"capture_date"`
	UploadedAt   int64   `gorm:"not null" json:"uploaded_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
