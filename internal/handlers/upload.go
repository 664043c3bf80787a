package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
)

const maxPhotoSize = 2 * 1024 * 1024

var photoTypes = []struct {
	mime, ext string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
}

// PhotoUploads stores profile photos under Dir/photos, served from /uploads.
type PhotoUploads struct {
	Dir           string
	PublicBaseURL string
}

// Save stores the multipart field if present and returns its public URL.
// A request without the field returns "".
func (p PhotoUploads) Save(c *fiber.Ctx, field string) (string, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return "", nil
	}
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	if file.Size > maxPhotoSize {
		return "", apperr.Field(field, "Photo max size is 2MB")
	}

	// trust the bytes, not the filename
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	mt, err := mimetype.DetectReader(f)
	f.Close()
	if err != nil {
		return "", err
	}
	ext := ""
	for _, t := range photoTypes {
		if mt.Is(t.mime) {
			ext = t.ext
			break
		}
	}
	if ext == "" {
		return "", apperr.Field(field, "Photo must be jpg, png or webp")
	}

	dir := filepath.Join(p.Dir, "photos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	filename := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}

	publicURL := "/uploads/photos/" + filename
	if base := strings.TrimRight(p.PublicBaseURL, "/"); base != "" {
		publicURL = base + publicURL
	}
	return publicURL, nil
}

// Discard removes a photo stored by Save. Used when the request that
// uploaded it fails afterwards, so no file is left without an owner.
func (p PhotoUploads) Discard(publicURL string) {
	if publicURL == "" {
		return
	}
	path := filepath.Join(p.Dir, "photos", filepath.Base(publicURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[upload] discard %s: %v", path, err)
	}
}
