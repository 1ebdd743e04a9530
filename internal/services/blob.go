package services

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"hunstagram/internal/apperr"

	"github.com/google/uuid"
)

// ImageUpload carries one uploaded file from the handler into a service.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// BlobStore is the object storage the services write images to. Naming and
// collision strategy live behind this interface, not in the callers.
type BlobStore interface {
	Upload(data []byte, contentType string) (string, error)
	Delete(url string) error
}

// HTTPBlobStore talks to an S3-compatible bucket host over plain HTTP:
// PUT <endpoint>/<key> to store, DELETE <url> to remove.
type HTTPBlobStore struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPBlobStore reads BLOB_ENDPOINT and BLOB_TOKEN from the environment.
func NewHTTPBlobStore() *HTTPBlobStore {
	return &HTTPBlobStore{
		endpoint: os.Getenv("BLOB_ENDPOINT"),
		token:    os.Getenv("BLOB_TOKEN"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores the bytes under a fresh key and returns the public URL.
func (s *HTTPBlobStore) Upload(data []byte, contentType string) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("BLOB_ENDPOINT not configured")
	}

	key := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], extForContentType(contentType))
	url := s.endpoint + "/" + key

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}
	return url, nil
}

// Delete removes a previously uploaded object.
func (s *HTTPBlobStore) Delete(url string) error {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return apperr.Wrap(apperr.ImageDeleteFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.ImageDeleteFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apperr.Wrap(apperr.ImageDeleteFailed, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
