package models

// Inspection timing values. 其他 exists for ad-hoc checks outside the two
// scheduled kinds.
const (
	TimingHoldPoint   = "檢驗停留點"
	TimingRandomCheck = "隨機抽查"
	TimingOther       = "其他"
)

// Inspection result values. An unset result means the inspection has not
// been judged yet.
const (
	ResultPass = "合格"
	ResultFail = "不合格"
)

// IsValidTiming reports whether s is a recognized inspection timing.
func IsValidTiming(s string) bool {
	switch s {
	case TimingHoldPoint, TimingRandomCheck, TimingOther:
		return true
	}
	return false
}

// IsValidResult reports whether s is a recognized inspection result.
func IsValidResult(s string) bool {
	return s == ResultPass || s == ResultFail
}

// Inspection represents one sampled inspection record against a project.
// It corresponds to the 'inspections' table. InspectionCount is a sequence
// number per form name, used for grouping repeats of the same form.
type Inspection struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID          uint    `gorm:"not null;index" json:"project_id"`
	SubprojectName     string  `gorm:"not null" json:"subproject_name"`
	InspectionFormName string  `gorm:"not null;index" json:"inspection_form_name"`
	InspectionDate     string  `gorm:"not null" json:"inspection_date"`
	Location           string  `gorm:"not null" json:"location"`
	Timing             string  `gorm:"not null" json:"timing"`
	InspectionCount    int     `gorm:"not null" json:"inspection_count"`
	Result             *string `gorm:"" json:"result,omitempty"` // Nullable
	Remark             *string `gorm:"" json:"remark,omitempty"` // Nullable
	PDFPath            *string `gorm:"" json:"pdf_path,omitempty"`
	CreatedAt          int64   `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt          int64   `gorm:"not null" json:"updated_at"` // Unix timestamp

	// Photos is populated on single-inspection fetches
	Photos []Photo `gorm:"foreignKey:InspectionID" json:"photos,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Inspection) TableName() string {
	return "inspections"
}
