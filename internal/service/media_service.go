package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/google/uuid"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// vehicleImageDir is the sub-directory of the upload dir holding listing photos.
const vehicleImageDir = "autos"

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores vehicle photos on local disk.
type MediaService struct {
	uploadDir string
	maxBytes  int64
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{uploadDir: cfg.UploadDir, maxBytes: cfg.MaxUploadBytes}
}

// Validate checks the declared type and size of an upload without touching disk.
func (s *MediaService) Validate(header *multipart.FileHeader) error {
	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if header.Size > s.maxBytes {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxBytes)
	}
	return nil
}

// SaveVehicleImage saves an uploaded photo with a UUID filename and returns its URL path.
func (s *MediaService) SaveVehicleImage(header *multipart.FileHeader) (string, error) {
	if err := s.Validate(header); err != nil {
		return "", err
	}
	ext := allowedMIMETypes[header.Header.Get("Content-Type")]

	dir := filepath.Join(s.uploadDir, vehicleImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/uploads/" + vehicleImageDir + "/" + filename, nil
}

// Remove deletes a file previously returned by SaveVehicleImage.
// URLs outside the vehicle image directory are ignored.
func (s *MediaService) Remove(url string) error {
	prefix := "/uploads/" + vehicleImageDir + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	if name == "." || name == "/" || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir, vehicleImageDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
