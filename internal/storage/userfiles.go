package storage

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/notedeck/notedeck-be/internal/models"
)

// UserFileStore performs raw file I/O under a per-namespace root directory.
// It trusts its callers to have validated relative paths with ValidatePath;
// the Document Manager is the component that enforces that guard.
type UserFileStore struct {
	root string
}

// NewUserFileStore creates a UserFileStore rooted at the userFiles directory.
func NewUserFileStore(root string) *UserFileStore {
	return &UserFileStore{root: root}
}

// RootFor returns the absolute directory of a namespace's tree.
func (s *UserFileStore) RootFor(ns models.Namespace) string {
	return filepath.Join(s.root, ns.Dir())
}

// EnsureRoot creates the namespace's directory if it does not exist yet.
func (s *UserFileStore) EnsureRoot(ns models.Namespace) error {
	if err := os.MkdirAll(s.RootFor(ns), 0o755); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not create namespace directory", err)
	}
	return nil
}

// Namespaces lists the directory names present under the userFiles root.
func (s *UserFileStore) Namespaces() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewFileOperationError(http.StatusInternalServerError, "could not list namespaces", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *UserFileStore) resolve(ns models.Namespace, rel string) string {
	return filepath.Join(s.RootFor(ns), filepath.FromSlash(rel))
}

// Save writes content to a file, creating intermediate directories as needed.
// Existing content is overwritten.
func (s *UserFileStore) Save(ns models.Namespace, rel string, content []byte) error {
	full := s.resolve(ns, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not create document directory", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not save document", err)
	}
	return nil
}

// Read returns a file's content, or a 404-coded error when the path does not
// exist or names a directory rather than a document.
func (s *UserFileStore) Read(ns models.Namespace, rel string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(ns, rel))
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.EISDIR) {
			return nil, NewFileOperationError(http.StatusNotFound, "document not found", err)
		}
		return nil, NewFileOperationError(http.StatusInternalServerError, "could not read document", err)
	}
	return data, nil
}

// List enumerates the entries of a directory inside the namespace. File names
// have their trailing extension split off into the Suffix field; directories
// keep their full name.
func (s *UserFileStore) List(ns models.Namespace, sub string) ([]models.FileItem, error) {
	dir := s.resolve(ns, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewFileOperationError(http.StatusNotFound, "directory not found", err)
		}
		return nil, NewFileOperationError(http.StatusInternalServerError, "could not list directory", err)
	}

	items := make([]models.FileItem, 0, len(entries))
	for _, entry := range entries {
		item := models.FileItem{
			Name: entry.Name(),
			Type: "file",
			Path: path.Join(filepath.ToSlash(sub), entry.Name()),
		}
		if entry.IsDir() {
			item.Type = "directory"
		} else {
			item.Name, item.Suffix = splitSuffix(entry.Name())
		}
		if info, err := entry.Info(); err == nil {
			// Birth time is not portably available; ModTime stands in for both.
			item.CreatedAt = info.ModTime()
			item.ModifiedAt = info.ModTime()
		}
		items = append(items, item)
	}
	return items, nil
}

// Stat returns metadata for a single document or directory.
func (s *UserFileStore) Stat(ns models.Namespace, rel string) (models.DocumentInfo, error) {
	info, err := os.Stat(s.resolve(ns, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return models.DocumentInfo{}, NewFileOperationError(http.StatusNotFound, "document not found", err)
		}
		return models.DocumentInfo{}, NewFileOperationError(http.StatusInternalServerError, "could not stat document", err)
	}
	return models.DocumentInfo{
		Name:       info.Name(),
		Path:       filepath.ToSlash(rel),
		Size:       info.Size(),
		IsDir:      info.IsDir(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Rename moves a file or directory within the namespace, creating the
// destination's parent directories first. Existence preflight is the caller's
// job; a vanished source still surfaces as 404.
func (s *UserFileStore) Rename(ns models.Namespace, oldRel, newRel string) error {
	newFull := s.resolve(ns, newRel)
	if err := os.MkdirAll(filepath.Dir(newFull), 0o755); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not create destination directory", err)
	}
	if err := os.Rename(s.resolve(ns, oldRel), newFull); err != nil {
		if os.IsNotExist(err) {
			return NewFileOperationError(http.StatusNotFound, "source document not found", err)
		}
		return NewFileOperationError(http.StatusInternalServerError, "could not rename document", err)
	}
	return nil
}

// Delete removes a file, or a directory recursively.
func (s *UserFileStore) Delete(ns models.Namespace, rel string) error {
	full := s.resolve(ns, rel)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return NewFileOperationError(http.StatusNotFound, "document not found", err)
		}
		return NewFileOperationError(http.StatusInternalServerError, "could not stat document", err)
	}
	if err := os.RemoveAll(full); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not delete document", err)
	}
	return nil
}

// MkDir creates a directory (and any missing parents) inside the namespace.
func (s *UserFileStore) MkDir(ns models.Namespace, rel string) error {
	if err := os.MkdirAll(s.resolve(ns, rel), 0o755); err != nil {
		return NewFileOperationError(http.StatusInternalServerError, "could not create directory", err)
	}
	return nil
}

func splitSuffix(name string) (base, suffix string) {
	ext := path.Ext(name)
	// Dotfiles and extensionless names keep their full name.
	if ext == "" || ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), strings.TrimPrefix(ext, ".")
}
