package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImageExtension(t *testing.T) {
	assert.Equal(t, ".jpg", ResolveImageExtension("image/jpeg"))
	assert.Equal(t, ".jpg", ResolveImageExtension("image/jpg"))
	assert.Equal(t, ".png", ResolveImageExtension("image/png"))
	assert.Equal(t, ".png", ResolveImageExtension("image/webp"))
}

func TestCreateSharedImageFileName(t *testing.T) {
	name := CreateSharedImageFileName("Order ORD-241005-001!", ".png")
	assert.True(t, strings.HasPrefix(name, "orderord-241005-001-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// Hostile base names collapse to a safe default.
	name = CreateSharedImageFileName("../../etc/passwd", ".png")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "..")

	// Two calls never collide.
	assert.NotEqual(t,
		CreateSharedImageFileName("same", ".png"),
		CreateSharedImageFileName("same", ".png"),
	)
}

func TestSharedPageName(t *testing.T) {
	assert.Equal(t, "order-abc.html", SharedPageName("order-abc.png"))
	assert.Equal(t, "order-abc.html", SharedPageName("order-abc.jpg"))
}

func TestAllowedUploadType(t *testing.T) {
	assert.True(t, AllowedUploadType("image/png", "scan.png"))
	assert.True(t, AllowedUploadType("image/jpeg", "photo.JPG"))
	assert.True(t, AllowedUploadType("application/pdf", "report.pdf"))

	assert.False(t, AllowedUploadType("application/x-msdownload", "virus.exe"))
	assert.False(t, AllowedUploadType("text/html", "page.html"))
	// Extension and mime type must agree.
	assert.False(t, AllowedUploadType("text/plain", "notes.png"))
}

func TestCreateUploadFileName(t *testing.T) {
	name := CreateUploadFileName("image/png", "scan.png")
	assert.True(t, strings.HasPrefix(name, "image-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	name = CreateUploadFileName("application/pdf", "report.pdf")
	assert.True(t, strings.HasPrefix(name, "pdf-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}
