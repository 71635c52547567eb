package util

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidUploadName = errors.New("invalid upload name")
	ErrUploadTooLarge    = errors.New("upload exceeds size limit")
)

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// UploadStore keeps intake attachments in one local directory. Files are
// stored under generated names; the client filename only contributes its extension.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates dir if needed.
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &UploadStore{dir: abs, maxBytes: maxBytes}, nil
}

// Dir returns the absolute upload directory.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file and returns its stored name and content.
func (s *UploadStore) Save(fh *multipart.FileHeader) (string, []byte, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", nil, ErrUploadTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	var r io.Reader = src
	if s.maxBytes > 0 {
		r = io.LimitReader(src, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", nil, ErrUploadTooLarge
	}

	name, err := s.SaveBytes(fh.Filename, data)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

// SaveBytes stores data under a fresh name keeping a sanitized extension of originalName.
func (s *UploadStore) SaveBytes(originalName string, data []byte) (string, error) {
	name := uuid.NewString() + uploadExt(originalName)

	tmpFile, err := os.CreateTemp(s.dir, "upload-*.tmp")
	if err != nil {
		return "", err
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}
	if err := os.Rename(tmpFile.Name(), filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", err
	}
	return name, nil
}

// Path resolves a stored name to its file. Only bare names of existing
// regular files inside the upload directory resolve.
func (s *UploadStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name ||
		strings.HasPrefix(name, ".") {
		return "", ErrInvalidUploadName
	}
	full := filepath.Join(s.dir, name)
	if filepath.Dir(full) != s.dir {
		return "", ErrInvalidUploadName
	}
	info, err := os.Lstat(full)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrInvalidUploadName
	}
	return full, nil
}

// Remove deletes a stored upload. Names that do not resolve are ignored.
func (s *UploadStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return nil
	}
	return os.Remove(path)
}

func uploadExt(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	if !safeExt.MatchString(ext) {
		return ""
	}
	return ext
}
