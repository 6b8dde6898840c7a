package attachments

import (
	"mime/multipart"
	"regexp"
	"strings"

	"pocketprc/internal/util/api_errors"
)

const (
	MaxFiles    = 20
	MaxFileSize = 10 * 1024 * 1024
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func ValidateFiles(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return api_errors.Validation("No files uploaded")
	}

	if len(files) > MaxFiles {
		return api_errors.Validation("Too many files (max 20)")
	}

	for _, file := range files {
		if file.Size > MaxFileSize {
			return api_errors.Validation("File too large (max 10MB)")
		}

		if !allowedMimeTypes[mimeTypeOf(file)] {
			return api_errors.Validation("Only images and PDFs are allowed")
		}
	}

	return nil
}

func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func mimeTypeOf(file *multipart.FileHeader) string {
	contentType := file.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	return strings.ToLower(strings.TrimSpace(contentType))
}
