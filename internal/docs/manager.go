package docs

import (
	"errors"
	"net/http"

	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/storage"
)

// Manager is the per-namespace facade over the user file store. It is
// constructed with an already-resolved namespace (identity resolution happens
// in the auth layer), validates every caller-supplied path before touching the
// filesystem, and translates all failures into *storage.FileOperationError so
// handlers can map results to responses 1:1.
type Manager struct {
	ns    models.Namespace
	store *storage.UserFileStore
}

// NewManager creates a Manager bound to one resolved namespace.
func NewManager(ns models.Namespace, store *storage.UserFileStore) *Manager {
	return &Manager{ns: ns, store: store}
}

// Namespace returns the namespace this manager operates in.
func (m *Manager) Namespace() models.Namespace {
	return m.ns
}

func errInvalidPath() error {
	return storage.NewFileOperationError(http.StatusBadRequest, "invalid file path", nil)
}

// ReadDocument returns a document's content.
func (m *Manager) ReadDocument(path string) (string, error) {
	if !storage.ValidatePath(path) {
		return "", errInvalidPath()
	}
	data, err := m.store.Read(m.ns, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveDocument writes content to a document, overwriting any previous
// version. Rejection of empty content is the handler's contract, not this
// method's.
func (m *Manager) SaveDocument(path, content string) error {
	if !storage.ValidatePath(path) {
		return errInvalidPath()
	}
	return m.store.Save(m.ns, path, []byte(content))
}

// ListDocuments enumerates a directory inside the namespace. An empty subPath
// lists the namespace root.
func (m *Manager) ListDocuments(subPath string) ([]models.FileItem, error) {
	if !storage.ValidatePath(subPath) {
		return nil, errInvalidPath()
	}
	return m.store.List(m.ns, subPath)
}

// RenameDocument moves a document. The source must exist (404) and the
// destination must not (409); it never silently overwrites. The exists-check
// and the rename are separate filesystem operations, so two concurrent
// renames to the same destination are not serialized.
func (m *Manager) RenameDocument(oldPath, newPath string) error {
	if !storage.ValidatePath(oldPath) || !storage.ValidatePath(newPath) {
		return errInvalidPath()
	}

	if _, err := m.store.Stat(m.ns, oldPath); err != nil {
		var fileErr *storage.FileOperationError
		if errors.As(err, &fileErr) && fileErr.Status == http.StatusNotFound {
			return storage.NewFileOperationError(http.StatusNotFound, "source document does not exist", nil)
		}
		return err
	}

	if _, err := m.store.Stat(m.ns, newPath); err == nil {
		return storage.NewFileOperationError(http.StatusConflict, "destination document already exists", nil)
	} else if storage.StatusOf(err) != http.StatusNotFound {
		return err
	}

	return m.store.Rename(m.ns, oldPath, newPath)
}

// GetDocumentInfo returns stat metadata for a document or directory.
func (m *Manager) GetDocumentInfo(path string) (models.DocumentInfo, error) {
	if !storage.ValidatePath(path) {
		return models.DocumentInfo{}, errInvalidPath()
	}
	return m.store.Stat(m.ns, path)
}

// CreateDirectory creates a directory inside the namespace.
func (m *Manager) CreateDirectory(path string) error {
	if !storage.ValidatePath(path) {
		return errInvalidPath()
	}
	return m.store.MkDir(m.ns, path)
}

// DeleteDocument removes a document; directories are removed recursively.
func (m *Manager) DeleteDocument(path string) error {
	if !storage.ValidatePath(path) {
		return errInvalidPath()
	}
	return m.store.Delete(m.ns, path)
}
