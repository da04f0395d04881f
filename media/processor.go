package media

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	PhotoFileExtension = ".jpg"
	FormFileExtension  = ".pdf"
)

// Processor normalizes uploaded photos and hands the results to a Store.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// NormalizePhoto decodes an uploaded image, downsamples it so neither
// dimension exceeds maxDimension (never upscaling), and re-encodes it as
// JPEG at the given quality. Returns the encoded bytes and final dimensions.
// Undecodable input yields a DecodeError.
func (p *Processor) NormalizePhoto(data io.Reader, maxDimension, quality int) ([]byte, int, int, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, 0, 0, &DecodeError{Err: err}
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()
	if origWidth <= 0 || origHeight <= 0 {
		return nil, 0, 0, &DecodeError{Err: fmt.Errorf("invalid image dimensions: %dx%d", origWidth, origHeight)}
	}

	var newWidth, newHeight int
	if origWidth > origHeight {
		if origWidth <= maxDimension {
			newWidth, newHeight = origWidth, origHeight
		} else {
			newWidth = maxDimension
			newHeight = int(math.Round(float64(origHeight) * (float64(maxDimension) / float64(origWidth))))
		}
	} else {
		if origHeight <= maxDimension {
			newWidth, newHeight = origWidth, origHeight
		} else {
			newHeight = maxDimension
			newWidth = int(math.Round(float64(origWidth) * (float64(maxDimension) / float64(origHeight))))
		}
	}
	newWidth = maxInt(1, newWidth)
	newHeight = maxInt(1, newHeight)

	if newWidth != origWidth || newHeight != origHeight {
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, 0, 0, fmt.Errorf("photo encoding failed: %w", err)
	}

	return buf.Bytes(), newWidth, newHeight, nil
}

// SavePhoto stores normalized photo bytes under a generated UUID filename.
// returns the storage-relative path.
func (p *Processor) SavePhoto(encoded []byte) (string, error) {
	photoUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for photo: %w", err)
	}
	targetFilename := photoUUID.String() + PhotoFileExtension

	savedRelPath, err := p.store.Save(AssetTypePhoto, targetFilename, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to save photo via store: %w", err)
	}

	log.Printf("processor: Saved normalized photo at %s", savedRelPath)
	return savedRelPath, nil
}

// SaveFormPDF stores an uploaded inspection form PDF under a generated UUID
// filename after checking the PDF magic bytes. returns the storage-relative
// path.
func (p *Processor) SaveFormPDF(data io.Reader) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded PDF: %w", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		return "", fmt.Errorf("uploaded file is not a PDF document")
	}

	formUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for form PDF: %w", err)
	}
	targetFilename := formUUID.String() + FormFileExtension

	savedRelPath, err := p.store.Save(AssetTypeForm, targetFilename, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to save form PDF via store: %w", err)
	}

	log.Printf("processor: Saved inspection form PDF at %s", savedRelPath)
	return savedRelPath, nil
}
