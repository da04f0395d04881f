package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 140, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypePhoto: "photos",
		AssetTypeForm:  "inspection_forms",
	})
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

func TestNormalizePhotoDownsamples(t *testing.T) {
	p := NewProcessor(newTestStorage(t))
	src := encodeTestJPEG(t, 400, 200)

	_, w, h, err := p.NormalizePhoto(bytes.NewReader(src), 100, 85)
	if err != nil {
		t.Fatalf("NormalizePhoto failed: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("expected 100x50, got %dx%d", w, h)
	}
}

func TestNormalizePhotoNeverUpscales(t *testing.T) {
	p := NewProcessor(newTestStorage(t))
	src := encodeTestJPEG(t, 80, 60)

	_, w, h, err := p.NormalizePhoto(bytes.NewReader(src), 1600, 85)
	if err != nil {
		t.Fatalf("NormalizePhoto failed: %v", err)
	}
	if w != 80 || h != 60 {
		t.Errorf("expected original 80x60 preserved, got %dx%d", w, h)
	}
}

func TestNormalizePhotoPortrait(t *testing.T) {
	p := NewProcessor(newTestStorage(t))
	src := encodeTestJPEG(t, 200, 400)

	_, w, h, err := p.NormalizePhoto(bytes.NewReader(src), 100, 85)
	if err != nil {
		t.Fatalf("NormalizePhoto failed: %v", err)
	}
	if w != 50 || h != 100 {
		t.Errorf("expected 50x100, got %dx%d", w, h)
	}
}

func TestNormalizePhotoOutputIsJPEG(t *testing.T) {
	p := NewProcessor(newTestStorage(t))
	src := encodeTestJPEG(t, 400, 200)

	encoded, _, _, err := p.NormalizePhoto(bytes.NewReader(src), 100, 85)
	if err != nil {
		t.Fatalf("NormalizePhoto failed: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("output is not decodable: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %q", format)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("expected 100x50 output, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizePhotoRejectsGarbage(t *testing.T) {
	p := NewProcessor(newTestStorage(t))

	_, _, _, err := p.NormalizePhoto(strings.NewReader("not an image"), 100, 85)
	if err == nil {
		t.Fatal("expected an error for undecodable input")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected a DecodeError, got %T: %v", err, err)
	}
}

func TestSavePhotoUsesUUIDName(t *testing.T) {
	store := newTestStorage(t)
	p := NewProcessor(store)

	path, err := p.SavePhoto(encodeTestJPEG(t, 10, 10))
	if err != nil {
		t.Fatalf("SavePhoto failed: %v", err)
	}
	if !strings.HasPrefix(path, "photos/") || !strings.HasSuffix(path, PhotoFileExtension) {
		t.Errorf("unexpected storage path %q", path)
	}

	rc, _, err := store.Get(path)
	if err != nil {
		t.Fatalf("saved photo is not retrievable: %v", err)
	}
	rc.Close()
}

func TestSaveFormPDFChecksMagicBytes(t *testing.T) {
	p := NewProcessor(newTestStorage(t))

	if _, err := p.SaveFormPDF(strings.NewReader("not a pdf")); err == nil {
		t.Fatal("expected an error for a non-PDF upload")
	}

	path, err := p.SaveFormPDF(strings.NewReader("%PDF-1.4 minimal"))
	if err != nil {
		t.Fatalf("SaveFormPDF failed: %v", err)
	}
	if !strings.HasPrefix(path, "inspection_forms/") || !strings.HasSuffix(path, FormFileExtension) {
		t.Errorf("unexpected storage path %q", path)
	}
}
