package media

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStoreFetcherRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	path, err := store.Save(AssetTypePhoto, "fetch-me.jpg", bytes.NewReader(encodeTestJPEG(t, 20, 20)))
	if err != nil {
		t.Fatalf("failed to seed storage: %v", err)
	}

	fetcher := &StoreFetcher{Store: store}
	data, err := fetcher.Fetch(path)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected photo bytes back")
	}
}

func TestStoreFetcherMissingFile(t *testing.T) {
	fetcher := &StoreFetcher{Store: newTestStorage(t)}

	_, err := fetcher.Fetch("photos/no-such-file.jpg")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected a FetchError, got %T: %v", err, err)
	}
}

func TestHTTPFetcherRelativeRef(t *testing.T) {
	payload := encodeTestJPEG(t, 30, 30)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/media/photos/a.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{BaseURL: server.URL}
	data, err := fetcher.Fetch("api/media/photos/a.jpg")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("fetched bytes differ from the served payload")
	}
}

func TestHTTPFetcherNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{BaseURL: server.URL}
	_, err := fetcher.Fetch("api/media/photos/missing.jpg")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404 recorded, got %d", fetchErr.Status)
	}
}

func TestDecodeImageConfig(t *testing.T) {
	cfg, format, err := DecodeImageConfig("test.jpg", encodeTestJPEG(t, 64, 48))
	if err != nil {
		t.Fatalf("DecodeImageConfig failed: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %q", format)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDecodeImageConfigGarbage(t *testing.T) {
	_, _, err := DecodeImageConfig("bad.bin", []byte("definitely not an image"))
	if err == nil {
		t.Fatal("expected an error for undecodable bytes")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected a DecodeError, got %T: %v", err, err)
	}
}
