// Package storage uploads avatar images to an external blob host and
// returns their public URL. Relationship logic never touches it.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ErrNotImage rejects payloads whose content type is not image/*.
var ErrNotImage = errors.New("invalid image")

// Uploader stores an image payload and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// HTTPUploader posts images as multipart form data to an upload endpoint.
type HTTPUploader struct {
	endpoint string
	client   *http.Client
}

// NewHTTPUploader reads the endpoint from BLOB_UPLOAD_URL unless one is given.
func NewHTTPUploader(endpoint string) *HTTPUploader {
	if endpoint == "" {
		endpoint = os.Getenv("BLOB_UPLOAD_URL")
	}
	return &HTTPUploader{endpoint: endpoint, client: http.DefaultClient}
}

func (u *HTTPUploader) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	name, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	b := &bytes.Buffer{}
	mw := multipart.NewWriter(b)
	fw, err := mw.CreateFormFile("image", name.String())
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(fw, r); err != nil {
		return "", err
	}
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var body struct {
		Status int    `json:"status"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.URL, nil
}
