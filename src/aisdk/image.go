package aisdk

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// mimeByExtension maps image file extensions to their MIME types.
// Only formats the vision models accept are listed.
var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// EncodeImageDataURI encodes raw image bytes as a data URI suitable for an
// image_url content part.
func EncodeImageDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// LoadImageDataURI reads an image file and returns it as a data URI. The MIME
// type is derived from the file extension.
func LoadImageDataURI(fs afero.Fs, path string) (string, error) {
	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return EncodeImageDataURI(mimeType, data), nil
}
