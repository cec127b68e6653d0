package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/glazeworks/glaze/core"
)

// imageEditsPath is the API endpoint for image edits.
const imageEditsPath = "/images/edits"

// EditImage submits the source image plus prompt to the edit endpoint and
// normalizes the response into an ImageRef.
func (p *OpenAI) EditImage(ctx context.Context, req *core.ImageEditRequest) (*core.ImageRef, error) {
	data, err := req.Image.Bytes()
	if err != nil {
		return nil, newDecodeError(err)
	}
	if len(data) == 0 {
		return nil, core.ErrNoSourceImage
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"model":  string(req.Model),
		"prompt": req.Prompt,
	}
	if req.Size != "" {
		fields["size"] = string(req.Size)
	}
	if req.ResponseFormat != "" {
		fields["response_format"] = req.ResponseFormat
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	filename := req.Image.Filename
	if filename == "" {
		filename = "image.png"
	}
	part, err := createFormFileWithMIME(w, "image", filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := p.config.BaseURL + imageEditsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, newNetworkError(err)
	}

	// Set headers, but override Content-Type for multipart.
	for key, values := range p.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	p.captureRateLimit(resp.Header)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		return nil, normalizeError(resp.StatusCode, respBody, resp.Header)
	}

	return normalizeImageResponse(resp.Header.Get("Content-Type"), respBody)
}

// shapeMatcher attempts to recognize one image response shape.
// Matchers are tried in a fixed priority order; the first match wins.
type shapeMatcher func(contentType string, body []byte) (*core.ImageRef, bool)

// imageShapes is the ordered list of recognized response shapes:
// binary body, direct URL, nested data[0].url, inline base64.
var imageShapes = []shapeMatcher{
	matchBinaryImage,
	matchDirectURL,
	matchNestedURL,
	matchInlineBase64,
}

// normalizeImageResponse reduces the several possible response shapes to a
// single ImageRef. An unrecognized shape fails with a ShapeError carrying
// the raw payload.
func normalizeImageResponse(contentType string, body []byte) (*core.ImageRef, error) {
	for _, match := range imageShapes {
		if ref, ok := match(contentType, body); ok {
			return ref, nil
		}
	}
	return nil, &core.ShapeError{
		Provider:    "openai",
		ContentType: contentType,
		Payload:     body,
	}
}

// matchBinaryImage recognizes a raw image body with an image content type.
func matchBinaryImage(contentType string, body []byte) (*core.ImageRef, bool) {
	if !strings.HasPrefix(contentType, "image/") || len(body) == 0 {
		return nil, false
	}
	return &core.ImageRef{Data: body, MIME: contentType}, true
}

// matchDirectURL recognizes {"url": "..."}.
func matchDirectURL(_ string, body []byte) (*core.ImageRef, bool) {
	var shape struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || shape.URL == "" {
		return nil, false
	}
	return &core.ImageRef{URL: shape.URL}, true
}

// matchNestedURL recognizes {"data":[{"url":"..."}]}.
func matchNestedURL(_ string, body []byte) (*core.ImageRef, bool) {
	var shape struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, false
	}
	if len(shape.Data) == 0 || shape.Data[0].URL == "" {
		return nil, false
	}
	return &core.ImageRef{URL: shape.Data[0].URL}, true
}

// matchInlineBase64 recognizes {"data":[{"b64_json":"..."}]} and the
// top-level {"b64_json":"..."} variant.
func matchInlineBase64(_ string, body []byte) (*core.ImageRef, bool) {
	var shape struct {
		B64JSON string `json:"b64_json"`
		Data    []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, false
	}

	encoded := shape.B64JSON
	if encoded == "" && len(shape.Data) > 0 {
		encoded = shape.Data[0].B64JSON
	}
	if encoded == "" {
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(core.StripDataURI(encoded))
	if err != nil {
		return nil, false
	}
	return &core.ImageRef{Data: data, MIME: "image/png"}, true
}

// createFormFileWithMIME creates a form file part with the correct MIME type.
func createFormFileWithMIME(w *multipart.Writer, fieldName, filename string, data []byte) (io.Writer, error) {
	mimeType := detectImageMIME(filename, data)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, filename))
	h.Set("Content-Type", mimeType)
	return w.CreatePart(h)
}

// detectImageMIME detects the MIME type from the filename extension or
// magic bytes.
func detectImageMIME(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}

	if len(data) >= 8 {
		// PNG: 89 50 4E 47 0D 0A 1A 0A
		if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
			return "image/png"
		}
		// JPEG: FF D8 FF
		if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
			return "image/jpeg"
		}
		// WebP: RIFF....WEBP
		if data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
			len(data) >= 12 && data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
			return "image/webp"
		}
	}

	return "image/png"
}
