package render

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ImageResolver turns an image path into the URI embedded in the page.
// Returning an empty string leaves a broken-image placeholder instead of
// failing the whole render.
type ImageResolver func(path string) string

// InlineImages embeds image bytes as base64 data URIs. The media type
// comes from the file extension, defaulting to jpeg.
func InlineImages() ImageResolver {
	return func(path string) string {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		suffix := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if suffix == "" {
			suffix = "jpeg"
		}
		return "data:image/" + suffix + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
}

// FileImages references images by absolute file URI. Used for the export
// artifact so the document stays small.
func FileImages() ImageResolver {
	return func(path string) string {
		abs, err := filepath.Abs(path)
		if err != nil {
			return ""
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		return u.String()
	}
}
