// Package client is a typed Go client for the inspection backend API. It
// caches list responses per table and invalidates a table's cache only
// after a mutation the server confirmed, so a failed request never clears
// still-valid data.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sitecheck/sitecheckbackend/models"
)

// RequestError is an error the server reported deliberately, carrying the
// message from the response's error field. Transport failures and
// unclassifiable responses surface as ordinary errors instead.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// cache table keys
const (
	tableProjects    = "projects"
	tableInspections = "inspections"
	tablePhotos      = "photos"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.Mutex
	cache map[string][]byte // raw list bodies keyed by table
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		cache:      make(map[string][]byte),
	}
}

func (c *Client) cachedList(table string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.cache[table]
	return body, ok
}

func (c *Client) storeList(table string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[table] = body
}

// invalidate drops one table's cached list. Called only after a confirmed
// successful mutation.
func (c *Client) invalidate(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, table)
}

// do executes a request and decodes the outcome. Non-2xx responses with a
// JSON error field become *RequestError; out is decoded from the body when
// non-nil.
func (c *Client) do(method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response for %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			return &RequestError{Status: resp.StatusCode, Message: errBody.Error}
		}
		return fmt.Errorf("unexpected status %d for %s %s", resp.StatusCode, method, path)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) doJSON(method, path string, payload, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request for %s %s: %w", method, path, err)
	}
	return c.do(method, path, "application/json", bytes.NewReader(encoded), out)
}

// getList serves a list request from the table cache when warm, fetching
// and filling it otherwise.
func (c *Client) getList(table, path string, out interface{}) error {
	if body, ok := c.cachedList(table); ok {
		return json.Unmarshal(body, out)
	}

	var raw json.RawMessage
	if err := c.do(http.MethodGet, path, "", nil, &raw); err != nil {
		return err
	}
	c.storeList(table, raw)
	return json.Unmarshal(raw, out)
}

// ProjectInput carries the writable project fields.
type ProjectInput struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Contractor string `json:"contractor"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (c *Client) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := c.getList(tableProjects, "/api/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(input ProjectInput) (*models.Project, error) {
	var created models.Project
	if err := c.doJSON(http.MethodPost, "/api/projects", input, &created); err != nil {
		return nil, err
	}
	c.invalidate(tableProjects)
	return &created, nil
}

func (c *Client) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", id), "", nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(id uint, input ProjectInput) (*models.Project, error) {
	var updated models.Project
	if err := c.doJSON(http.MethodPut, fmt.Sprintf("/api/projects/%d", id), input, &updated); err != nil {
		return nil, err
	}
	c.invalidate(tableProjects)
	return &updated, nil
}

// DeleteProject cascades to the project's inspections and photos, so it
// invalidates all three table caches on success.
func (c *Client) DeleteProject(id uint) error {
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d?confirm=true", id), "", nil, nil)
	if err != nil {
		return err
	}
	c.invalidate(tableProjects)
	c.invalidate(tableInspections)
	c.invalidate(tablePhotos)
	return nil
}

// InspectionInput carries the fields accepted when creating an inspection.
type InspectionInput struct {
	ProjectID          uint   `json:"project_id"`
	SubprojectName     string `json:"subproject_name"`
	InspectionFormName string `json:"inspection_form_name"`
	InspectionDate     string `json:"inspection_date"`
	Location           string `json:"location"`
	Timing             string `json:"timing"`
	Result             string `json:"result,omitempty"`
	Remark             string `json:"remark,omitempty"`
}

func (c *Client) ListInspections() ([]models.Inspection, error) {
	var inspections []models.Inspection
	if err := c.getList(tableInspections, "/api/inspections", &inspections); err != nil {
		return nil, err
	}
	return inspections, nil
}

func (c *Client) CreateInspection(input InspectionInput) (*models.Inspection, error) {
	var created models.Inspection
	if err := c.doJSON(http.MethodPost, "/api/inspections", input, &created); err != nil {
		return nil, err
	}
	c.invalidate(tableInspections)
	return &created, nil
}

func (c *Client) GetInspection(id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/inspections/%d", id), "", nil, &inspection); err != nil {
		return nil, err
	}
	return &inspection, nil
}

// UpdateInspection edits the two mutable fields. A nil pointer leaves that
// field untouched.
func (c *Client) UpdateInspection(id uint, result, remark *string) (*models.Inspection, error) {
	payload := map[string]*string{}
	if result != nil {
		payload["result"] = result
	}
	if remark != nil {
		payload["remark"] = remark
	}
	var updated models.Inspection
	if err := c.doJSON(http.MethodPut, fmt.Sprintf("/api/inspections/%d", id), payload, &updated); err != nil {
		return nil, err
	}
	c.invalidate(tableInspections)
	return &updated, nil
}

// DeleteInspection cascades to the inspection's photos.
func (c *Client) DeleteInspection(id uint) error {
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/inspections/%d?confirm=true", id), "", nil, nil)
	if err != nil {
		return err
	}
	c.invalidate(tableInspections)
	c.invalidate(tablePhotos)
	return nil
}

// UploadInspectionPDF attaches an inspection form PDF.
func (c *Client) UploadInspectionPDF(id uint, filename string, pdf io.Reader) error {
	contentType, body, err := multipartFile("file", filename, pdf, nil)
	if err != nil {
		return err
	}
	err = c.do(http.MethodPut, fmt.Sprintf("/api/inspections/%d/pdf", id), contentType, body, nil)
	if err != nil {
		return err
	}
	c.invalidate(tableInspections)
	return nil
}

// DownloadReport fetches the rendered photo report PDF for an inspection.
func (c *Client) DownloadReport(id uint) ([]byte, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + fmt.Sprintf("/api/inspections/%d/report", id))
	if err != nil {
		return nil, fmt.Errorf("fetching report for inspection %d: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report for inspection %d: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			return nil, &RequestError{Status: resp.StatusCode, Message: errBody.Error}
		}
		return nil, fmt.Errorf("unexpected status %d fetching report for inspection %d", resp.StatusCode, id)
	}
	return data, nil
}

// PhotoUpload carries the fields of a photo upload.
type PhotoUpload struct {
	InspectionID uint
	Filename     string
	Data         io.Reader
	Caption      string
	CaptureDate  string
}

func (c *Client) ListPhotos() ([]models.Photo, error) {
	var photos []models.Photo
	if err := c.getList(tablePhotos, "/api/photos", &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *Client) UploadPhoto(upload PhotoUpload) (*models.Photo, error) {
	fields := url.Values{}
	fields.Set("inspection_id", strconv.FormatUint(uint64(upload.InspectionID), 10))
	if upload.Caption != "" {
		fields.Set("caption", upload.Caption)
	}
	if upload.CaptureDate != "" {
		fields.Set("capture_date", upload.CaptureDate)
	}

	contentType, body, err := multipartFile("file", upload.Filename, upload.Data, fields)
	if err != nil {
		return nil, err
	}

	var created models.Photo
	if err := c.do(http.MethodPost, "/api/photos", contentType, body, &created); err != nil {
		return nil, err
	}
	c.invalidate(tablePhotos)
	return &created, nil
}

func (c *Client) UpdatePhotoCaption(id uint, caption string) (*models.Photo, error) {
	var updated models.Photo
	payload := map[string]string{"caption": caption}
	if err := c.doJSON(http.MethodPut, fmt.Sprintf("/api/photos/%d", id), payload, &updated); err != nil {
		return nil, err
	}
	c.invalidate(tablePhotos)
	return &updated, nil
}

func (c *Client) DeletePhoto(id uint) error {
	err := c.do(http.MethodDelete, fmt.Sprintf("/api/photos/%d", id), "", nil, nil)
	if err != nil {
		return err
	}
	c.invalidate(tablePhotos)
	return nil
}

// multipartFile builds a multipart body with one file part plus optional
// plain fields, returning the content type and the encoded body.
func multipartFile(fieldName, filename string, data io.Reader, fields url.Values) (string, io.Reader, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return "", nil, fmt.Errorf("writing multipart field %s: %w", key, err)
			}
		}
	}

	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return "", nil, fmt.Errorf("creating multipart file part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", nil, fmt.Errorf("writing multipart file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	return writer.FormDataContentType(), &buf, nil
}
