package service

import (
	"path/filepath"
	"strings"

	"github.com/sevasetu/backend/internal/common"
)

// maxImageUploadBytes caps member photos and gallery uploads (10MB)
const maxImageUploadBytes = 10 * 1024 * 1024

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// validateImageUpload checks the extension allow-list and the size cap
// before anything is written to storage.
func validateImageUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return common.NewValidationError("unsupported image format %q", ext)
	}
	if size > maxImageUploadBytes {
		return common.NewValidationError("image exceeds the 10MB limit")
	}
	return nil
}
