package views

import (
	"sort"

	"github.com/facette/natsort"
)

// FormNameOptions lists the distinct form names present in rows, naturally
// sorted, prefixed with the 全部抽查表 sentinel.
func FormNameOptions(rows []InspectionRow) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		if row.FormName == "" || seen[row.FormName] {
			continue
		}
		seen[row.FormName] = true
		names = append(names, row.FormName)
	}
	natsort.Sort(names)
	return append([]string{AllForms}, names...)
}

// CountOptions lists the count selector values valid for the given form
// name: the distinct counts of that form's rows, ascending, rendered as
// 第N次 and prefixed with the 全部次數 sentinel. The sentinel form name (or
// a form with no rows) yields only the sentinel option.
func CountOptions(rows []InspectionRow, formName string) []string {
	options := []string{AllCounts}
	if formName == "" || formName == AllForms {
		return options
	}

	seen := make(map[int]bool)
	var counts []int
	for _, row := range rows {
		if row.FormName != formName || seen[row.InspectionCount] {
			continue
		}
		seen[row.InspectionCount] = true
		counts = append(counts, row.InspectionCount)
	}
	sort.Ints(counts)

	for _, c := range counts {
		options = append(options, CountLabel(c))
	}
	return options
}
