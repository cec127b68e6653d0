package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glazeworks/glaze/core"
)

// Smallest valid PNG header, enough for MIME sniffing.
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func editRequest() *core.ImageEditRequest {
	return &core.ImageEditRequest{
		Model:  ModelGPTImage1,
		Prompt: "make it shiny",
		Image:  core.ImageInput{Data: pngMagic, Filename: "in.png"},
	}
}

func TestEditImageSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/edits" {
			t.Errorf("path = %q, want /images/edits", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "gpt-image-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("prompt"); got != "make it shiny" {
			t.Errorf("prompt = %q", got)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "in.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("image content type = %q, want image/png", ct)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"url":"https://img.example/out.png"}]}`))
	}))
	defer server.Close()

	provider := New("test-key", WithBaseURL(server.URL))

	ref, err := provider.EditImage(context.Background(), editRequest())
	if err != nil {
		t.Fatalf("EditImage() error = %v", err)
	}
	if ref.URL != "https://img.example/out.png" {
		t.Errorf("URL = %q", ref.URL)
	}
}

func TestEditImageResponseShapes(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47, 1, 2, 3}
	b64 := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantURL     string
		wantInline  bool
	}{
		{
			name:        "binary image body",
			contentType: "image/png",
			body:        string(payload),
			wantInline:  true,
		},
		{
			name:        "direct url",
			contentType: "application/json",
			body:        `{"url":"https://img.example/a.png"}`,
			wantURL:     "https://img.example/a.png",
		},
		{
			name:        "nested data url",
			contentType: "application/json",
			body:        `{"created":1,"data":[{"url":"https://img.example/b.png"}]}`,
			wantURL:     "https://img.example/b.png",
		},
		{
			name:        "inline base64",
			contentType: "application/json",
			body:        `{"data":[{"b64_json":"` + b64 + `"}]}`,
			wantInline:  true,
		},
		{
			name:        "top-level base64",
			contentType: "application/json",
			body:        `{"b64_json":"` + b64 + `"}`,
			wantInline:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := normalizeImageResponse(tt.contentType, []byte(tt.body))
			if err != nil {
				t.Fatalf("normalizeImageResponse() error = %v", err)
			}
			if tt.wantURL != "" && ref.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", ref.URL, tt.wantURL)
			}
			if ref.Inline() != tt.wantInline {
				t.Errorf("Inline() = %v, want %v", ref.Inline(), tt.wantInline)
			}
		})
	}
}

func TestEditImageUnrecognizedShape(t *testing.T) {
	body := `{"surprise":{"nested":"thing"}}`
	_, err := normalizeImageResponse("application/json", []byte(body))
	if !errors.Is(err, core.ErrShapeUnrecognized) {
		t.Fatalf("error = %v, want ErrShapeUnrecognized", err)
	}

	var se *core.ShapeError
	if !errors.As(err, &se) {
		t.Fatal("error is not a ShapeError")
	}
	if string(se.Payload) != body {
		t.Errorf("Payload = %q, want raw body retained", se.Payload)
	}
	if !strings.Contains(se.Error(), "surprise") {
		t.Errorf("Error() = %q, want payload sample included", se.Error())
	}
}

func TestEditImageStripsDataURI(t *testing.T) {
	var gotLen int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part missing: %v", err)
		}
		defer file.Close()
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotLen = n

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://img.example/out.png"}`))
	}))
	defer server.Close()

	provider := New("test-key", WithBaseURL(server.URL))

	req := &core.ImageEditRequest{
		Model:  ModelGPTImage1,
		Prompt: "p",
		Image: core.ImageInput{
			Base64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngMagic),
		},
	}
	if _, err := provider.EditImage(context.Background(), req); err != nil {
		t.Fatalf("EditImage() error = %v", err)
	}
	if gotLen != len(pngMagic) {
		t.Errorf("uploaded %d bytes, want %d raw bytes after prefix strip", gotLen, len(pngMagic))
	}
}

func TestEditImageNoSource(t *testing.T) {
	provider := New("test-key")

	_, err := provider.EditImage(context.Background(), &core.ImageEditRequest{
		Model:  ModelGPTImage1,
		Prompt: "p",
	})
	if !errors.Is(err, core.ErrNoSourceImage) {
		t.Fatalf("EditImage() error = %v, want ErrNoSourceImage", err)
	}
}

func TestEditImageErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid size"}}`))
	}))
	defer server.Close()

	provider := New("test-key", WithBaseURL(server.URL))

	_, err := provider.EditImage(context.Background(), editRequest())
	if !errors.Is(err, core.ErrBadRequest) {
		t.Fatalf("EditImage() error = %v, want ErrBadRequest", err)
	}
}

func TestDetectImageMIME(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"png extension", "a.png", nil, "image/png"},
		{"jpeg extension", "a.JPG", nil, "image/jpeg"},
		{"webp extension", "a.webp", nil, "image/webp"},
		{"png magic", "noext", pngMagic, "image/png"},
		{"jpeg magic", "noext", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"unknown defaults to png", "noext", []byte("plain text"), "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectImageMIME(tt.filename, tt.data); got != tt.want {
				t.Errorf("detectImageMIME(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
