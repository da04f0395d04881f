// Package report renders the inspection photo report: a fixed A4 layout
// with one record block per attached photo, paginated by an explicit
// vertical cursor. The geometry here is pure and unit-tested; the PDF
// emission lives in generator.go.
package report

// Page geometry in millimetres, matching the original report template:
// A4 with 1cm margins, a 3cm label column, a 12cm value column, 1cm label
// rows and a 9x9cm image cell.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 10.0

	LabelColWidth   = 30.0
	ValueColWidth   = 120.0
	LabelRowHeight  = 10.0
	ImageCellHeight = 90.0
	ImageBoxSize    = 90.0
)

// ContentWidth is the usable width between the side margins.
func ContentWidth() float64 {
	return PageWidth - 2*Margin
}

// BlockHeight is the total height of one record block: two label rows plus
// the image cell.
func BlockHeight() float64 {
	return 2*LabelRowHeight + ImageCellHeight
}

// FitRect scales an image of intrinsic size imgW x imgH to fit inside a
// boxW x boxH bounding box, preserving aspect ratio. The result is tight:
// at least one dimension equals its bound. Degenerate input collapses to
// the full box.
func FitRect(imgW, imgH, boxW, boxH float64) (float64, float64) {
	if imgW <= 0 || imgH <= 0 {
		return boxW, boxH
	}

	r := imgW / imgH
	if r > 1 {
		// landscape
		w := boxH * r
		if w > boxW {
			w = boxW
		}
		return w, w / r
	}
	// portrait or square
	h := boxW / r
	if h > boxH {
		h = boxH
	}
	return h * r, h
}

// CenterInBox returns the offsets that center a w x h rectangle inside a
// boxW x boxH box on both axes.
func CenterInBox(w, h, boxW, boxH float64) (float64, float64) {
	return (boxW - w) / 2, (boxH - h) / 2
}

// FitsOnPage reports whether a block of the given height starting at
// cursorY stays above the bottom margin.
func FitsOnPage(cursorY, blockHeight float64) bool {
	return cursorY+blockHeight <= PageHeight-Margin
}
