// Package views materializes the joined, filterable tables the UI renders:
// inspections with their project names, and photos with their owning
// inspection's form name, count and location. Everything here is a pure
// transformation over API list responses; no database access.
package views

import "fmt"

// Sentinel selector values. Selecting one disables that filter dimension.
const (
	AllProjects = "全部專案"
	AllForms    = "全部抽查表"
	AllCounts   = "全部次數"
)

// CountLabel renders an inspection count the way the option lists show it,
// e.g. 3 -> 第3次.
func CountLabel(n int) string {
	return fmt.Sprintf("第%d次", n)
}

// ParseCountLabel recovers the numeric count from a 第N次 label. The second
// return is false for the 全部次數 sentinel or anything malformed.
func ParseCountLabel(label string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(label, "第%d次", &n); err != nil {
		return 0, false
	}
	return n, true
}

// InspectionRow is one row of the joined inspection table. ProjectName is
// empty when the referenced project no longer exists; the row itself is
// always preserved.
type InspectionRow struct {
	InspectionID    uint   `json:"inspection_id"`
	ProjectID       uint   `json:"project_id"`
	ProjectName     string `json:"project_name"`
	SubprojectName  string `json:"subproject_name"`
	FormName        string `json:"inspection_form_name"`
	InspectionCount int    `json:"inspection_count"`
	Location        string `json:"location"`
	Timing          string `json:"timing"`
	InspectionDate  string `json:"inspection_date"`
	Result          string `json:"result"`
}

// PhotoRow is one row of the joined photo table, carrying through the
// owning inspection's form name, count and location for grouping.
type PhotoRow struct {
	PhotoID         uint   `json:"photo_id"`
	InspectionID    uint   `json:"inspection_id"`
	PhotoPath       string `json:"photo_path"`
	Caption         string `json:"caption"`
	CaptureDate     string `json:"capture_date"`
	UploadedAt      int64  `json:"uploaded_at"`
	Location        string `json:"location"`
	FormName        string `json:"inspection_form_name"`
	InspectionCount int    `json:"inspection_count"`
}
