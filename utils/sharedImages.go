package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Directory names under the public root. The cleanup sweep pairs an image
// with its preview page by base name.
const (
	UploadsDirName     = "uploads"
	SharedImageDirName = "shared-images"
	SharedPageDirName  = "shared-pages"
)

var fileNameSanitizer = regexp.MustCompile(`[^a-z0-9-_]`)

// ResolveImageExtension maps an image mime type to a stored file extension.
func ResolveImageExtension(mimeType string) string {
	if mimeType == "image/jpeg" || mimeType == "image/jpg" {
		return ".jpg"
	}
	return ".png"
}

// CreateSharedImageFileName builds a collision-free stored name from a
// caller-supplied base name.
func CreateSharedImageFileName(baseName, extension string) string {
	sanitized := fileNameSanitizer.ReplaceAllString(strings.ToLower(baseName), "")
	if sanitized == "" {
		sanitized = "shared-image"
	}
	return fmt.Sprintf("%s-%s%s", sanitized, uuid.New().String(), extension)
}

// CreateUploadFileName builds the stored name for an order attachment,
// classified by coarse kind so the file listing stays readable.
func CreateUploadFileName(mimeType, originalName string) string {
	kind := "pdf"
	if strings.HasPrefix(mimeType, "image") {
		kind = "image"
	}
	return fmt.Sprintf("%s-%d-%s%s", kind, time.Now().UnixMilli(), uuid.New().String()[:8], filepath.Ext(originalName))
}

// AllowedUploadType reports whether an uploaded attachment is an accepted
// image or PDF, judged by both extension and mime type.
func AllowedUploadType(mimeType, originalName string) bool {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpeg", ".jpg", ".png", ".gif", ".pdf":
	default:
		return false
	}
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// SharedPageName returns the preview page file paired with a stored image.
func SharedPageName(imageFileName string) string {
	base := strings.TrimSuffix(imageFileName, filepath.Ext(imageFileName))
	return base + ".html"
}
