package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errors "github.com/campushr/claims-management/internal"
	"github.com/google/uuid"
)

// LocalStore keeps documentation files on local disk under a single base
// directory. References handed back to callers are bare file names, never
// paths, so a reference can not escape the base directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Store writes the file under a fresh uuid-prefixed name and returns that
// name as the reference. A partial write is removed before the error is
// reported, so a failed store leaves nothing behind.
func (s *LocalStore) Store(data []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ref := uuid.NewString() + ext

	path := filepath.Join(s.baseDir, ref)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		os.Remove(path)
		return "", errors.NewStorageError("failed to store documentation file", err)
	}
	return ref, nil
}

// Delete removes a stored file. A reference that no longer exists is not
// an error; the file being gone is the desired end state.
func (s *LocalStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	// refs are bare file names; anything path-like is rejected
	if filepath.Base(ref) != ref {
		return fmt.Errorf("invalid file reference: %s", ref)
	}

	err := os.Remove(filepath.Join(s.baseDir, ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
