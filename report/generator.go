package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/sitecheck/sitecheckbackend/media"
	"github.com/sitecheck/sitecheckbackend/models"
)

const (
	titleText        = "抽查紀錄表照片"
	labelCaptureDate = "拍攝日期"
	labelCaption     = "說明"
	labelImage       = "圖片"

	placeholderMissing = "查無圖片"

	reportFontFamily = "NotoSansTC"
)

// Filename returns the download filename for an inspection's report.
func Filename(inspectionID uint) string {
	return fmt.Sprintf("抽查報告_%d.pdf", inspectionID)
}

// Generator renders inspection photo reports. Photo references are resolved
// through the Fetcher; a missing or undecodable photo degrades to an inline
// placeholder and never aborts the rest of the document.
type Generator struct {
	Fetcher  media.Fetcher
	FontPath string // TTF with CJK coverage; missing falls back to Helvetica
}

func NewGenerator(fetcher media.Fetcher, fontPath string) *Generator {
	return &Generator{Fetcher: fetcher, FontPath: fontPath}
}

// recordBlock is one laid-out photo slot of the report.
type recordBlock struct {
	CaptureDate string
	Caption     string
	Ref         string // photo reference; empty means a placeholder-only slot
	Placeholder string // rendered in the image cell instead of an image
}

// buildBlocks turns an inspection's photos into record blocks. slots == 0
// emits one block per photo. slots > 0 forces a fixed-slot template: photos
// beyond the cap are dropped and empty trailing slots render an <<附件-N>>
// placeholder carrying the 1-based slot number.
func buildBlocks(photos []models.Photo, slots int) []recordBlock {
	n := len(photos)
	if slots > 0 && n > slots {
		n = slots
	}

	var blocks []recordBlock
	for i := 0; i < n; i++ {
		caption := ""
		if photos[i].Caption != nil {
			caption = *photos[i].Caption
		}
		block := recordBlock{
			CaptureDate: photos[i].CaptureDate,
			Caption:     caption,
			Ref:         photos[i].PhotoPath,
		}
		if block.Ref == "" {
			block.Placeholder = placeholderMissing
		}
		blocks = append(blocks, block)
	}

	for slot := n + 1; slot <= slots; slot++ {
		blocks = append(blocks, recordBlock{
			Placeholder: fmt.Sprintf("<<附件-%d>>", slot),
		})
	}
	return blocks
}

// Generate renders the full report for one inspection: a record block for
// every attached photo. Returns the PDF as an in-memory byte buffer.
func (g *Generator) Generate(inspection *models.Inspection, photos []models.Photo) ([]byte, error) {
	return g.render(buildBlocks(photos, 0))
}

// GeneratePreview renders the fixed-slot preview form: at most slots
// photos, with <<附件-N>> placeholders filling the remaining slots.
func (g *Generator) GeneratePreview(inspection *models.Inspection, photos []models.Photo, slots int) ([]byte, error) {
	return g.render(buildBlocks(photos, slots))
}

func (g *Generator) render(blocks []recordBlock) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)

	family := "Helvetica"
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			pdf.AddUTF8Font(reportFontFamily, "", g.FontPath)
			family = reportFontFamily
		}
	}

	pdf.AddPage()

	// title, first page only
	pdf.SetFont(family, "", 20)
	pdf.CellFormat(ContentWidth(), 12, titleText, "", 1, "C", false, 0, "")
	pdf.SetY(pdf.GetY() + 4)

	pdf.SetFont(family, "", 12)
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetFillColor(211, 211, 211)
	pdf.SetLineWidth(0.18)

	for i, block := range blocks {
		if !FitsOnPage(pdf.GetY(), BlockHeight()) {
			pdf.AddPage()
		}
		g.renderBlock(pdf, family, block, i)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build report PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) renderBlock(pdf *fpdf.Fpdf, family string, block recordBlock, idx int) {
	drawLabelRow(pdf, labelCaptureDate, block.CaptureDate)
	drawLabelRow(pdf, labelCaption, block.Caption)

	// image cell: bordered label and value cells, with the image (or a
	// placeholder string) overlaid inside the value cell afterwards
	cellY := pdf.GetY()
	pdf.CellFormat(LabelColWidth, ImageCellHeight, labelImage, "1", 0, "C", true, 0, "")
	pdf.CellFormat(ValueColWidth, ImageCellHeight, "", "1", 1, "C", false, 0, "")

	placeholder := block.Placeholder
	if placeholder == "" {
		placeholder = g.placeImage(pdf, block.Ref, cellY, idx)
	}
	if placeholder != "" {
		pdf.SetXY(Margin+LabelColWidth, cellY+ImageCellHeight/2-LabelRowHeight/2)
		pdf.CellFormat(ValueColWidth, LabelRowHeight, placeholder, "", 0, "C", false, 0, "")
	}

	pdf.SetY(cellY + ImageCellHeight)
}

// placeImage fetches, measures and places one photo inside the image cell's
// bounding box. On any failure it returns the placeholder string to render
// instead; the rest of the document is unaffected.
func (g *Generator) placeImage(pdf *fpdf.Fpdf, ref string, cellY float64, idx int) string {
	data, err := g.Fetcher.Fetch(ref)
	if err != nil {
		return fmt.Sprintf("圖片載入失敗: %v", err)
	}

	cfg, format, err := media.DecodeImageConfig(ref, data)
	if err != nil {
		return fmt.Sprintf("圖片無法解碼: %v", err)
	}

	imageType := ""
	switch format {
	case "jpeg":
		imageType = "JPG"
	case "png":
		imageType = "PNG"
	case "gif":
		imageType = "GIF"
	default:
		return fmt.Sprintf("圖片無法解碼: unsupported format %q", format)
	}

	w, h := FitRect(float64(cfg.Width), float64(cfg.Height), ImageBoxSize, ImageBoxSize)
	boxX := Margin + LabelColWidth + (ValueColWidth-ImageBoxSize)/2
	dx, dy := CenterInBox(w, h, ImageBoxSize, ImageCellHeight)

	opts := fpdf.ImageOptions{ImageType: imageType}
	name := fmt.Sprintf("report-photo-%d", idx)
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, boxX+dx, cellY+dy, w, h, false, opts, 0, "")
	return ""
}

func drawLabelRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(LabelColWidth, LabelRowHeight, label, "1", 0, "C", true, 0, "")
	pdf.CellFormat(ValueColWidth, LabelRowHeight, value, "1", 1, "C", false, 0, "")
}
