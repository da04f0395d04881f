package views

import "testing"

func sampleInspectionRows() []InspectionRow {
	return []InspectionRow{
		{InspectionID: 1, ProjectName: "市政大樓新建工程", FormName: "鋼筋抽查表", InspectionCount: 1},
		{InspectionID: 2, ProjectName: "市政大樓新建工程", FormName: "鋼筋抽查表", InspectionCount: 2},
		{InspectionID: 3, ProjectName: "第二標橋梁工程", FormName: "模板抽查表", InspectionCount: 1},
	}
}

func TestFilterInspectionsNoSelectors(t *testing.T) {
	rows := sampleInspectionRows()
	out := FilterInspections(rows, Filter{})
	if len(out) != len(rows) {
		t.Fatalf("expected all %d rows back, got %d", len(rows), len(out))
	}
}

func TestFilterInspectionsSentinelsDisable(t *testing.T) {
	rows := sampleInspectionRows()
	out := FilterInspections(rows, Filter{
		ProjectName: AllProjects,
		FormName:    AllForms,
		CountLabel:  AllCounts,
	})
	if len(out) != len(rows) {
		t.Fatalf("expected sentinels to disable all dimensions, got %d rows", len(out))
	}
}

func TestFilterInspectionsConjunctive(t *testing.T) {
	rows := sampleInspectionRows()
	out := FilterInspections(rows, Filter{
		ProjectName: "市政大樓新建工程",
		FormName:    "鋼筋抽查表",
		CountLabel:  CountLabel(2),
	})
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].InspectionID != 2 {
		t.Errorf("expected inspection 2, got %d", out[0].InspectionID)
	}
}

func TestFilterInspectionsPreservesOrder(t *testing.T) {
	rows := sampleInspectionRows()
	out := FilterInspections(rows, Filter{FormName: "鋼筋抽查表"})
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].InspectionID != 1 || out[1].InspectionID != 2 {
		t.Errorf("expected input order preserved, got %d then %d", out[0].InspectionID, out[1].InspectionID)
	}
}

func TestFilterPhotosIgnoresProjectName(t *testing.T) {
	rows := []PhotoRow{
		{PhotoID: 1, InspectionID: 1, FormName: "鋼筋抽查表", InspectionCount: 1},
		{PhotoID: 2, InspectionID: 2, FormName: "模板抽查表", InspectionCount: 1},
	}
	out := FilterPhotos(rows, Filter{ProjectName: "無關的專案"})
	if len(out) != 2 {
		t.Fatalf("expected project selector to be ignored for photos, got %d rows", len(out))
	}
}

func TestFilterPhotosByInspectionID(t *testing.T) {
	rows := []PhotoRow{
		{PhotoID: 1, InspectionID: 1},
		{PhotoID: 2, InspectionID: 2},
		{PhotoID: 3, InspectionID: 1},
	}
	out := FilterPhotos(rows, Filter{InspectionID: 1})
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	for _, row := range out {
		if row.InspectionID != 1 {
			t.Errorf("unexpected inspection %d in result", row.InspectionID)
		}
	}
}

func TestCountLabelRoundTrip(t *testing.T) {
	for _, n := range []int{1, 3, 12} {
		label := CountLabel(n)
		got, ok := ParseCountLabel(label)
		if !ok || got != n {
			t.Errorf("round trip failed for %d: label %q parsed to (%d, %v)", n, label, got, ok)
		}
	}
	if _, ok := ParseCountLabel(AllCounts); ok {
		t.Error("expected the sentinel not to parse as a count")
	}
	if _, ok := ParseCountLabel("garbage"); ok {
		t.Error("expected malformed label not to parse")
	}
}
