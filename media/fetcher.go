package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// FetchError indicates a photo reference could not be retrieved: the file
// is gone, the URL is unreachable, or the response status was not success.
type FetchError struct {
	Ref    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Ref, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError indicates retrieved bytes are not a supported image format.
type DecodeError struct {
	Ref string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("decode %s: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Fetcher retrieves the raw bytes behind a photo reference. References are
// storage-relative paths; implementations decide how to resolve them.
type Fetcher interface {
	Fetch(ref string) ([]byte, error)
}

// StoreFetcher resolves references directly against a local Store.
type StoreFetcher struct {
	Store Store
}

func (f *StoreFetcher) Fetch(ref string) ([]byte, error) {
	rc, _, err := f.Store.Get(ref)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	return data, nil
}

// HTTPFetcher resolves relative references against a base URL, the way the
// API exposes file paths to clients. A non-2xx response is a FetchError.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f *HTTPFetcher) Fetch(ref string) ([]byte, error) {
	target := ref
	if !strings.Contains(ref, "://") {
		joined, err := url.JoinPath(f.BaseURL, ref)
		if err != nil {
			return nil, &FetchError{Ref: ref, Err: err}
		}
		target = joined
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(target)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Ref: ref, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	return data, nil
}

// DecodeImageConfig reads the intrinsic dimensions and format name of
// encoded image bytes without a full decode. Unsupported formats yield a
// DecodeError.
func DecodeImageConfig(ref string, data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", &DecodeError{Ref: ref, Err: err}
	}
	return cfg, format, nil
}
