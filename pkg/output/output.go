// Package output writes rendered images to files, thumbnails and object storage.
package output

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Save writes img to path, choosing the encoder from the file extension
// (.png, .jpg, .gif, .bmp, .tif). Missing parent directories are created.
func Save(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG returns img encoded as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img to the given width, preserving the aspect ratio
func Thumbnail(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// ThumbnailPath derives the thumbnail file name for an output path,
// e.g. "out/render.png" -> "out/render_thumb.png"
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "_thumb" + ext
}

// SceneSlug turns a scene ID or scene file path into a name safe for paths
// and object keys, e.g. "file:sunset-row" -> "sunset-row"
func SceneSlug(sceneName string) string {
	name := strings.TrimPrefix(sceneName, "file:")
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// RenderKey returns the object key for a render, <scene>/render_<timestamp>.png
func RenderKey(sceneName string, now time.Time) string {
	return SceneSlug(sceneName) + "/render_" + now.Format("20060102_150405") + ".png"
}
