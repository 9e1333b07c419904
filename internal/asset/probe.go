package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotImageRef = errors.New("not an image reference")
	ErrBadDataURI  = errors.New("malformed data URI")
	ErrNoBase      = errors.New("root-relative reference without a base url")
)

// Size is an image's natural pixel size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aspect returns width/height, or 0 when unknown.
func (s Size) Aspect() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Prober reads the natural size of an image reference without decoding
// the pixels.
type Prober struct {
	Client *http.Client
	// Base resolves root-relative URLs such as /assets/x.png.
	Base string
}

// NewProber returns a prober using http.DefaultClient.
func NewProber(base string) *Prober {
	return &Prober{Client: http.DefaultClient, Base: base}
}

// Probe resolves ref and decodes its image header.
func (p *Prober) Probe(ctx context.Context, ref string) (Size, error) {
	switch {
	case strings.HasPrefix(ref, "data:image"):
		data, err := decodeDataURI(ref)
		if err != nil {
			return Size{}, err
		}
		return decodeSize(bytes.NewReader(data))
	case strings.HasPrefix(ref, "/") && p.Base != "":
		base, err := url.Parse(p.Base)
		if err != nil {
			return Size{}, fmt.Errorf("parse base url: %w", err)
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return Size{}, fmt.Errorf("parse ref: %w", err)
		}
		return p.fetch(ctx, base.ResolveReference(rel).String())
	case strings.HasPrefix(ref, "/"):
		return Size{}, ErrNoBase
	case IsImageRef(ref):
		return p.fetch(ctx, ref)
	}
	return Size{}, ErrNotImageRef
}

func (p *Prober) fetch(ctx context.Context, ref string) (Size, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Size{}, fmt.Errorf("build request: %w", err)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Size{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Size{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return decodeSize(io.LimitReader(resp.Body, maxUploadSize))
}

func decodeSize(r io.Reader) (Size, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return Size{}, fmt.Errorf("decode image config: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// decodeDataURI returns the payload of data:[<mime>][;base64],<data>.
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, ErrBadDataURI
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return []byte(text), nil
}
