package views

// Filter holds the active selector values. A zero value (or the matching
// sentinel) disables a dimension; active dimensions combine conjunctively.
type Filter struct {
	ProjectName  string // "" or 全部專案 disables
	FormName     string // "" or 全部抽查表 disables
	CountLabel   string // "" or 全部次數 disables; otherwise 第N次
	InspectionID uint   // 0 disables
}

func (f Filter) projectActive() bool {
	return f.ProjectName != "" && f.ProjectName != AllProjects
}

func (f Filter) formActive() bool {
	return f.FormName != "" && f.FormName != AllForms
}

func (f Filter) countActive() (int, bool) {
	if f.CountLabel == "" || f.CountLabel == AllCounts {
		return 0, false
	}
	return ParseCountLabel(f.CountLabel)
}

// FilterInspections returns the inspection rows matching every active
// selector, preserving input order. With no active selector the input comes
// back unchanged.
func FilterInspections(rows []InspectionRow, f Filter) []InspectionRow {
	count, countOn := f.countActive()

	out := make([]InspectionRow, 0, len(rows))
	for _, row := range rows {
		if f.projectActive() && row.ProjectName != f.ProjectName {
			continue
		}
		if f.formActive() && row.FormName != f.FormName {
			continue
		}
		if countOn && row.InspectionCount != count {
			continue
		}
		if f.InspectionID != 0 && row.InspectionID != f.InspectionID {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FilterPhotos returns the photo rows matching every active selector,
// preserving input order. ProjectName does not apply to photo rows and is
// ignored.
func FilterPhotos(rows []PhotoRow, f Filter) []PhotoRow {
	count, countOn := f.countActive()

	out := make([]PhotoRow, 0, len(rows))
	for _, row := range rows {
		if f.formActive() && row.FormName != f.FormName {
			continue
		}
		if countOn && row.InspectionCount != count {
			continue
		}
		if f.InspectionID != 0 && row.InspectionID != f.InspectionID {
			continue
		}
		out = append(out, row)
	}
	return out
}
