package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base URL for serving files
	baseURL = "/uploads"
	// Subdirectory holding per-advertisement image folders
	advertisementSubDir = "advertisements"
)

// ImageStore persists uploaded listing images on local disk, namespaced by
// advertisement identifier, and serves them under /uploads.
type ImageStore struct {
	BaseDir string
}

// NewImageStore creates an image store rooted at UPLOAD_DIR (default "uploads").
func NewImageStore() *ImageStore {
	baseDir := os.Getenv("UPLOAD_DIR")
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &ImageStore{BaseDir: baseDir}
}

// Initialize creates the directories the store writes into.
func (s *ImageStore) Initialize() error {
	dir := filepath.Join(s.BaseDir, advertisementSubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory %s: %v", dir, err)
	}
	return nil
}

// advertisementDir is the on-disk folder for one advertisement's images.
func (s *ImageStore) advertisementDir(adID string) string {
	return filepath.Join(s.BaseDir, advertisementSubDir, adID)
}

// SaveAdvertisementImage writes an uploaded file under the advertisement's
// folder with a freshly generated name, keeping only the original extension.
// It returns the public path the file is served at.
func (s *ImageStore) SaveAdvertisementImage(adID string, file *multipart.FileHeader) (string, error) {
	// The generated name drops the client-supplied filename entirely, which
	// rules out collisions and path traversal.
	filename := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))

	dir := s.advertisementDir(adID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	targetPath := filepath.Join(dir, filename)
	dst, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %v", targetPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file %s: %v", targetPath, err)
	}

	return fmt.Sprintf("%s/%s/%s/%s", baseURL, advertisementSubDir, adID, filename), nil
}

// RemoveAdvertisementFiles deletes every stored file of an advertisement.
func (s *ImageStore) RemoveAdvertisementFiles(adID string) error {
	return os.RemoveAll(s.advertisementDir(adID))
}
