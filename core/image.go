package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ImageSize represents supported image dimensions.
type ImageSize string

const (
	ImageSize1024x1024 ImageSize = "1024x1024"
	ImageSize1536x1024 ImageSize = "1536x1024"
	ImageSize1024x1536 ImageSize = "1024x1536"
	ImageSizeAuto      ImageSize = "auto"
)

// IsValid reports whether the image size is a recognized value.
func (s ImageSize) IsValid() bool {
	switch s {
	case ImageSize1024x1024, ImageSize1536x1024, ImageSize1024x1536, ImageSizeAuto:
		return true
	default:
		return false
	}
}

// ImageEditRequest represents a request to edit an image with a prompt.
type ImageEditRequest struct {
	Model  ModelID
	Prompt string
	Image  ImageInput

	Size ImageSize // optional output dimensions

	// ResponseFormat requests "url" or "b64_json" delivery. Providers may
	// ignore it; the response is normalized either way.
	ResponseFormat string
}

// ImageInput represents the source image for an edit call.
// Exactly one of Data or Base64 should be set.
type ImageInput struct {
	Data     []byte // raw image bytes
	Base64   string // base64-encoded image, with or without a data-URI prefix
	Filename string // optional filename hint for multipart upload
}

// Bytes returns the image data as raw bytes, stripping any data-URI prefix
// from base64 input first.
func (i ImageInput) Bytes() ([]byte, error) {
	if len(i.Data) > 0 {
		return i.Data, nil
	}
	if i.Base64 != "" {
		return base64.StdEncoding.DecodeString(StripDataURI(i.Base64))
	}
	return nil, nil
}

// StripDataURI removes a "data:<mime>;base64," prefix, if present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ImageRef is a normalized reference to a generated image: either a remote
// URL or inline bytes. It is produced by normalizing the several response
// shapes an edit endpoint may return.
type ImageRef struct {
	URL  string // remote location, empty for inline results
	Data []byte // inline bytes, nil for URL results
	MIME string // content type when known, e.g. "image/png"
}

// Inline reports whether the reference carries the image bytes directly.
func (r *ImageRef) Inline() bool {
	return len(r.Data) > 0
}

// Fetch resolves the reference to raw image bytes, downloading URL
// references through the given HTTP client. A nil client uses
// http.DefaultClient.
func (r *ImageRef) Fetch(ctx context.Context, client *http.Client) ([]byte, error) {
	if r.Inline() {
		return r.Data, nil
	}
	if r.URL == "" {
		return nil, ErrNoSourceImage
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching image: status %d", ErrServer, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ErrShapeUnrecognized marks an image response that matched none of the
// known shapes. Use errors.As with *ShapeError to inspect the raw payload.
var ErrShapeUnrecognized = errors.New("image response shape unrecognized")

// ShapeError reports an image response that matched no known shape.
// It retains the raw payload for diagnosis.
type ShapeError struct {
	Provider    string
	ContentType string
	Payload     []byte
}

// Error implements the error interface, including a truncated payload
// sample for diagnosis.
func (e *ShapeError) Error() string {
	sample := e.Payload
	if len(sample) > 256 {
		sample = sample[:256]
	}
	return fmt.Sprintf("%s: image response shape unrecognized (content-type=%s): %s",
		e.Provider, e.ContentType, sample)
}

// Unwrap returns ErrShapeUnrecognized for errors.Is matching.
func (e *ShapeError) Unwrap() error {
	return ErrShapeUnrecognized
}
