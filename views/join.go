package views

import "github.com/sitecheck/sitecheckbackend/models"

// JoinInspections left-joins inspections to projects on project id. Every
// inspection row survives; a missing project resolves to an empty name.
// An empty inspection list yields an empty (non-nil) result.
func JoinInspections(inspections []models.Inspection, projects []models.Project) []InspectionRow {
	names := make(map[uint]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	rows := make([]InspectionRow, 0, len(inspections))
	for _, insp := range inspections {
		result := ""
		if insp.Result != nil {
			result = *insp.Result
		}
		rows = append(rows, InspectionRow{
			InspectionID:    insp.ID,
			ProjectID:       insp.ProjectID,
			ProjectName:     names[insp.ProjectID],
			SubprojectName:  insp.SubprojectName,
			FormName:        insp.InspectionFormName,
			InspectionCount: insp.InspectionCount,
			Location:        insp.Location,
			Timing:          insp.Timing,
			InspectionDate:  insp.InspectionDate,
			Result:          result,
		})
	}
	return rows
}

// JoinPhotos left-joins photos to inspections on inspection id, carrying
// through form name, count and location. Photo rows with a missing
// inspection keep zero values for the joined columns and stay in the result.
func JoinPhotos(photos []models.Photo, inspections []models.Inspection) []PhotoRow {
	byID := make(map[uint]models.Inspection, len(inspections))
	for _, insp := range inspections {
		byID[insp.ID] = insp
	}

	rows := make([]PhotoRow, 0, len(photos))
	for _, photo := range photos {
		caption := ""
		if photo.Caption != nil {
			caption = *photo.Caption
		}
		row := PhotoRow{
			PhotoID:      photo.ID,
			InspectionID: photo.InspectionID,
			PhotoPath:    photo.PhotoPath,
			Caption:      caption,
			CaptureDate:  photo.CaptureDate,
			UploadedAt:   photo.UploadedAt,
		}
		if insp, ok := byID[photo.InspectionID]; ok {
			row.Location = insp.Location
			row.FormName = insp.InspectionFormName
			row.InspectionCount = insp.InspectionCount
		}
		rows = append(rows, row)
	}
	return rows
}
