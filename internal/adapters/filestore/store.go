// Package filestore keeps uploaded documents on local disk, addressed by the
// SHA-1 of their content so identical uploads land on the same path.
package filestore

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bookparse/internal/domain"
)

type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save streams r to disk and returns the content-addressed location. The file
// is written to a temp path first and renamed into place so readers never see
// a partial document.
func (s *Store) Save(name string, r io.Reader) (domain.StoredFile, error) {
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha1.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("write upload: %w", err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	dir := filepath.Join(s.root, sum[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StoredFile{}, fmt.Errorf("create shard dir: %w", err)
	}
	dst := filepath.Join(dir, sum+ext(name))
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return domain.StoredFile{}, fmt.Errorf("place upload: %w", err)
	}
	return domain.StoredFile{Path: dst, SHA1: sum, SizeBytes: size}, nil
}

func ext(name string) string {
	e := strings.ToLower(filepath.Ext(name))
	if e == "" {
		return ".pdf"
	}
	return e
}
