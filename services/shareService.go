package services

import (
	"ChemoOrder/models"
	"ChemoOrder/utils"
	"encoding/base64"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ShareTTLDays is how long a shared image stays published before the
// cleanup sweep removes it.
const ShareTTLDays = 15

// SharedImageResult describes a freshly published image.
type SharedImageResult struct {
	ImageURL       string    `json:"imageUrl"`
	DirectImageURL string    `json:"directImageUrl"`
	ShareURL       string    `json:"shareUrl"`
	FileName       string    `json:"fileName"`
	ExpiresAt      time.Time `json:"expiresAt"`
	TTLDays        int       `json:"ttlDays"`
}

// ShareService publishes order snapshots as static images with a paired
// preview page carrying Open Graph tags, so pasted links unfurl in chat
// clients.
type ShareService struct {
	publicDir string
	now       func() time.Time
}

func NewShareService(publicDir string) *ShareService {
	return &ShareService{publicDir: publicDir, now: time.Now}
}

// SaveSharedImage decodes a data-URI image, writes it with its preview page
// under the public directory, and returns the public URLs.
func (s *ShareService) SaveSharedImage(imageBase64, fileName, baseURL string) (*SharedImageResult, error) {
	mimeType, base64Data, err := utils.ValidateSharedImage(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 image data", models.ErrValidation)
	}

	storedName := utils.CreateSharedImageFileName(fileName, utils.ResolveImageExtension(mimeType))

	imageDir := filepath.Join(s.publicDir, utils.SharedImageDirName)
	pageDir := filepath.Join(s.publicDir, utils.SharedPageDirName)
	for _, dir := range []string{imageDir, pageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create share directory: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(imageDir, storedName), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write shared image: %w", err)
	}

	base := strings.TrimSuffix(baseURL, "/")
	imageURL := fmt.Sprintf("%s/public/%s/%s", base, utils.SharedImageDirName, storedName)
	pageName := utils.SharedPageName(storedName)
	shareURL := fmt.Sprintf("%s/public/%s/%s", base, utils.SharedPageDirName, pageName)

	page := sharedPageHTML(fileName, imageURL)
	if err := os.WriteFile(filepath.Join(pageDir, pageName), []byte(page), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write share page: %w", err)
	}

	return &SharedImageResult{
		ImageURL:       imageURL,
		DirectImageURL: imageURL,
		ShareURL:       shareURL,
		FileName:       storedName,
		ExpiresAt:      s.now().Add(ShareTTLDays * 24 * time.Hour),
		TTLDays:        ShareTTLDays,
	}, nil
}

// CleanupExpired removes shared images older than the TTL together with
// their preview pages. It returns how many images were removed.
func (s *ShareService) CleanupExpired() (int, error) {
	imageDir := filepath.Join(s.publicDir, utils.SharedImageDirName)
	pageDir := filepath.Join(s.publicDir, utils.SharedPageDirName)

	entries, err := os.ReadDir(imageDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read shared image directory: %w", err)
	}

	cutoff := s.now().Add(-ShareTTLDays * 24 * time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(imageDir, entry.Name())); err != nil {
			log.Printf("Failed to remove expired shared image %s: %v", entry.Name(), err)
			continue
		}
		if err := os.Remove(filepath.Join(pageDir, utils.SharedPageName(entry.Name()))); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove share page for %s: %v", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func sharedPageHTML(title, imageURL string) string {
	safeTitle := html.EscapeString(title)
	if safeTitle == "" {
		safeTitle = "Shared Order"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>%[1]s</title>
	<meta property="og:title" content="%[1]s">
	<meta property="og:type" content="website">
	<meta property="og:image" content="%[2]s">
	<meta name="twitter:card" content="summary_large_image">
	<meta name="twitter:image" content="%[2]s">
	<style>
		body { margin: 0; background: #1a1a2e; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
		img { max-width: 100%%; height: auto; }
	</style>
</head>
<body>
	<img src="%[2]s" alt="%[1]s">
</body>
</html>
`, safeTitle, imageURL)
}
