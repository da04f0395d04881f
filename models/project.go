package models

import "time"

// DateLayout is the calendar date format used across the API (and the
// database) for project and inspection dates.
const DateLayout = "2006-01-02"

// IsValidDate reports whether s is a calendar date in DateLayout form.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Project represents a construction project in the database using GORM.
// It corresponds to the 'projects' table. Dates are stored as YYYY-MM-DD
// strings, matching the API contract; end_date >= start_date is enforced
// at the handler boundary before any write.
type Project struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	Location   string `gorm:"not null" json:"location"`
	Contractor string `gorm:"not null" json:"contractor"`
	StartDate  string `gorm:"not null" json:"start_date"`
	EndDate    string `gorm:"not null" json:"end_date"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt  int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}
