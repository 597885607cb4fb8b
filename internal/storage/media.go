// Package storage persists generated media on local disk and builds the
// public URLs the posts embed.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	coverMaxSize = 1024
	webpQuality  = 75
)

// Cover describes a stored cover image. A smaller WebP variant for list
// views is written alongside the canonical PNG and served at the same path
// with the .webp extension.
type Cover struct {
	URL string
}

// CoverStore saves post cover images.
type CoverStore interface {
	SaveCover(ctx context.Context, postID uint, data []byte) (*Cover, error)
}

// DiskStore writes media under root and serves it from baseURL + "/media".
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore. baseURL is the site's public URL without
// a trailing slash.
func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: baseURL}
}

// SaveCover writes the image as posts/{id}/cover.png together with a resized
// WebP variant next to it.
func (s *DiskStore) SaveCover(_ context.Context, postID uint, data []byte) (*Cover, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding cover image: %w", err)
	}

	rel := filepath.Join("posts", fmt.Sprintf("%d", postID))
	pngRel := filepath.ToSlash(filepath.Join(rel, "cover.png"))
	webpRel := filepath.ToSlash(filepath.Join(rel, "cover.webp"))

	pngBytes, err := encodePNG(decoded)
	if err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	if err := writeBytesToFile(filepath.Join(s.root, pngRel), pngBytes); err != nil {
		return nil, err
	}

	variant := resizeToFit(decoded, coverMaxSize, coverMaxSize)
	webpBytes, err := encodeWebP(variant, webpQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding webp: %w", err)
	}
	if err := writeBytesToFile(filepath.Join(s.root, webpRel), webpBytes); err != nil {
		return nil, err
	}

	return &Cover{URL: fmt.Sprintf("%s/media/%s", s.baseURL, pngRel)}, nil
}

// Root returns the on-disk media root, for static file serving.
func (s *DiskStore) Root() string {
	return s.root
}

// Download fetches image bytes from a provider-hosted URL.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("downloading image: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	encoder := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
