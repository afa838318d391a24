package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"DuoChat/models"
	"DuoChat/pkg/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ArtifactStore holds the bytes behind File records. Locators are
// slash-separated and relative to the store root.
type ArtifactStore interface {
	Save(ownerID uint, filename string, r io.Reader) (locator string, size int64, err error)
	Exists(locator string) bool
	Path(locator string) (string, error)
	Remove(locator string) error
	// MediaType returns declared when it is specific, otherwise a type
	// detected from the stored bytes.
	MediaType(locator, declared string) string
}

var errBadLocator = errors.New("locator escapes storage root")

// DiskStorage keeps artifacts under basePath/<owner id>/.
type DiskStorage struct {
	basePath string
}

func NewDiskStorage(basePath string) (*DiskStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{basePath: abs}, nil
}

// Save streams r to a fresh file. Anything beyond models.MaxFileSize is
// rejected and the partial file removed.
func (s *DiskStorage) Save(ownerID uint, filename string, r io.Reader) (string, int64, error) {
	owner := strconv.FormatUint(uint64(ownerID), 10)
	userDir := filepath.Join(s.basePath, owner)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create owner dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	fullPath := filepath.Join(userDir, name)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(r, models.MaxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}
	if n > models.MaxFileSize {
		_ = os.Remove(fullPath)
		return "", 0, apperr.Newf(apperr.Validation, "file too large, maximum size is %d bytes", models.MaxFileSize)
	}
	return path.Join(owner, name), n, nil
}

// Path resolves a locator to an absolute path inside the store.
func (s *DiskStorage) Path(locator string) (string, error) {
	if locator == "" {
		return "", errBadLocator
	}
	full := filepath.Join(s.basePath, filepath.FromSlash(locator))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errBadLocator
	}
	return full, nil
}

func (s *DiskStorage) Exists(locator string) bool {
	p, err := s.Path(locator)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func (s *DiskStorage) Remove(locator string) error {
	p, err := s.Path(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStorage) MediaType(locator, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	p, err := s.Path(locator)
	if err != nil {
		return "application/octet-stream"
	}
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
