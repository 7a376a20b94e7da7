package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes uploads under a root directory on the local
// filesystem.  References are root-relative paths of the form
// /uploads/<folder>/<name> so they can be served directly as static
// files.
type LocalStore struct {
	root string
}

// NewLocalStore creates the backing directory if absent and returns
// the store.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Store writes data to <root>/<folder>/<nanos>-<filename> and returns
// the /uploads/... reference.  The unix-nano prefix keeps names
// collision-resistant; O_EXCL refuses to overwrite should a collision
// happen anyway.
func (s *LocalStore) Store(_ context.Context, data []byte, _ string, filename, folder string) (string, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(filename))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	log.Printf("storage: file stored at %s", path)
	return "/uploads/" + folder + "/" + name, nil
}

// Remove inverts Store's addressing: it strips the /uploads/ prefix
// and deletes the file under the root.  A missing file is treated as
// already removed.
func (s *LocalStore) Remove(_ context.Context, reference string) error {
	rel, ok := strings.CutPrefix(reference, "/uploads/")
	if !ok {
		return fmt.Errorf("reference %q was not issued by the local store", reference)
	}
	path := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}
	log.Printf("storage: file removed at %s", path)
	return nil
}

// sanitizeFilename keeps only the base name and replaces path
// separators so a crafted filename cannot escape the folder.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
