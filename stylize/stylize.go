// Package stylize turns a source photo into a stylized composite card.
//
// A Session drives the pipeline: the source image is sent to an
// image-editing model, the result is fetched and drawn onto a canvas
// together with a caption and a bordered thumbnail of the original, and
// the canvas is exported as PNG bytes or a data URL.
//
//	session := stylize.NewSession(editor,
//	    stylize.WithCaption("Studio Glaze"),
//	)
//	result, err := session.Generate(ctx, photo)
package stylize

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"sync"

	"github.com/glazeworks/glaze/core"

	// Register decoders for the formats edit endpoints return.
	_ "image/jpeg"
	_ "image/png"
)

// DefaultPrompt is the edit instruction used when none is configured.
const DefaultPrompt = "Transform this photo into a glossy ceramic-glaze " +
	"illustration with soft studio lighting, keeping the subject recognizable."

// DefaultModel is the image model used when none is configured.
const DefaultModel = core.ModelID("gpt-image-1")

const (
	defaultCanvasWidth  = 1024
	defaultCanvasHeight = 1024
)

// Session holds the configuration for stylized image generation.
// A Session may be reused across calls; concurrent Generate calls are safe
// because the session is read-only after construction.
type Session struct {
	editor     core.ImageEditor
	httpClient *http.Client
	model      core.ModelID
	prompt     string
	caption    string
	thumbnail  bool
	canvasW    int
	canvasH    int
}

// Option configures a Session.
type Option func(*Session)

// WithModel sets the image model to use.
func WithModel(model core.ModelID) Option {
	return func(s *Session) { s.model = model }
}

// WithPrompt sets the edit instruction sent with each source image.
func WithPrompt(prompt string) Option {
	return func(s *Session) { s.prompt = prompt }
}

// WithCaption sets the caption drawn onto the composite. An empty caption
// leaves the canvas untitled.
func WithCaption(caption string) Option {
	return func(s *Session) { s.caption = caption }
}

// WithThumbnail controls whether a bordered thumbnail of the original is
// drawn in the corner of the composite. Enabled by default.
func WithThumbnail(enabled bool) Option {
	return func(s *Session) { s.thumbnail = enabled }
}

// WithCanvasSize sets the output canvas dimensions in pixels.
func WithCanvasSize(width, height int) Option {
	return func(s *Session) {
		if width > 0 {
			s.canvasW = width
		}
		if height > 0 {
			s.canvasH = height
		}
	}
}

// WithHTTPClient sets the client used to download URL-referenced results.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) { s.httpClient = client }
}

// NewSession creates a Session backed by the given image editor.
func NewSession(editor core.ImageEditor, opts ...Option) *Session {
	s := &Session{
		editor:    editor,
		model:     DefaultModel,
		prompt:    DefaultPrompt,
		thumbnail: true,
		canvasW:   defaultCanvasWidth,
		canvasH:   defaultCanvasHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is a finished composite.
type Result struct {
	Image *image.RGBA // the composed canvas
	PNG   []byte      // the canvas encoded as PNG
}

// DataURL returns the PNG as a base64 data URL, suitable for embedding.
func (r *Result) DataURL() string {
	return EncodeDataURL(r.PNG)
}

// Generate runs the full pipeline for one source image: edit, fetch,
// compose, encode.
func (s *Session) Generate(ctx context.Context, src []byte) (*Result, error) {
	if len(src) == 0 {
		return nil, core.ErrNoSourceImage
	}

	ref, err := s.editor.EditImage(ctx, &core.ImageEditRequest{
		Model:  s.model,
		Prompt: s.prompt,
		Image:  core.ImageInput{Data: src},
	})
	if err != nil {
		return nil, err
	}

	edited, err := ref.Fetch(ctx, s.httpClient)
	if err != nil {
		return nil, err
	}

	styled, _, err := image.Decode(bytes.NewReader(edited))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding edited image: %v", core.ErrDecode, err)
	}

	var original image.Image
	if s.thumbnail {
		original, _, err = image.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding source image: %v", core.ErrDecode, err)
		}
	}

	canvas := compose(styled, original, s.caption, s.canvasW, s.canvasH)

	png, err := EncodePNG(canvas)
	if err != nil {
		return nil, err
	}

	return &Result{Image: canvas, PNG: png}, nil
}

// GenerateFromDataURL is Generate for a base64 or data-URL encoded source.
func (s *Session) GenerateFromDataURL(ctx context.Context, dataURL string) (*Result, error) {
	src, err := base64.StdEncoding.DecodeString(core.StripDataURI(dataURL))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding source data URL: %v", core.ErrDecode, err)
	}
	return s.Generate(ctx, src)
}

// GenerateAll runs Generate concurrently for each source image. Results and
// errors are returned in source order: results[i] and errs[i] belong to
// sources[i], and exactly one of them is set per index.
func (s *Session) GenerateAll(ctx context.Context, sources [][]byte) ([]*Result, []error) {
	results := make([]*Result, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src []byte) {
			defer wg.Done()
			results[i], errs[i] = s.Generate(ctx, src)
		}(i, src)
	}
	wg.Wait()

	return results, errs
}
