// Package ocr reads receipt text from images and guesses vendor, amount and date from it.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
)

const DefaultTimeout = 20 * time.Second

// Extractor turns an image into text.
type Extractor interface {
	ExtractText(ctx context.Context, filename string, image []byte) (string, error)
}

// HTTPExtractor posts the image as multipart field "file" to an OCR service
// that answers {"text": "..."}.
type HTTPExtractor struct {
	endpoint string
	http     *http.Client
}

var _ Extractor = (*HTTPExtractor)(nil)

func NewHTTPExtractor(endpoint string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPExtractor{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

type extractResponse struct {
	Text *string `json:"text"`
}

// ExtractText fails with an error wrapping apperrors.ErrCollaboratorUnavailable on any service problem.
func (e *HTTPExtractor) ExtractText(ctx context.Context, filename string, image []byte) (string, error) {
	if e.endpoint == "" {
		return "", fmt.Errorf("ocr endpoint not configured: %w", apperrors.ErrCollaboratorUnavailable)
	}
	if filename == "" {
		filename = "receipt"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w: %w", apperrors.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return "", fmt.Errorf("ocr service returned %s: %s: %w", resp.Status, snippet, apperrors.ErrCollaboratorUnavailable)
	}

	var decoded extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w: %w", apperrors.ErrCollaboratorUnavailable, err)
	}
	if decoded.Text == nil {
		return "", fmt.Errorf("ocr response has no text: %w", apperrors.ErrCollaboratorUnavailable)
	}
	return *decoded.Text, nil
}
