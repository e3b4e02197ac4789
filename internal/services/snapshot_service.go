package services

import (
	"archive/zip"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/storage"
)

// SnapshotServiceProvider defines the interface for snapshot services.
type SnapshotServiceProvider interface {
	CreateSnapshot(ns models.Namespace, name string) (models.Snapshot, error)
	GetSnapshots(ns models.Namespace) ([]models.Snapshot, error)
	GetSnapshotByID(id string) (models.Snapshot, error)
	DeleteSnapshot(ns models.Namespace, id string) error
	RestoreSnapshot(ns models.Namespace, id string) error
}

// SnapshotService archives and restores whole namespace trees as zip files,
// keeping an index of the archives in the database.
type SnapshotService struct {
	db           *sql.DB
	store        *storage.UserFileStore
	eventService EventServiceProvider
	snapshotDir  string
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *sql.DB, store *storage.UserFileStore, eventService EventServiceProvider, snapshotDir string) *SnapshotService {
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		fmt.Printf("Failed to create base snapshot directory: %v\n", err)
	}
	return &SnapshotService{
		db:           db,
		store:        store,
		eventService: eventService,
		snapshotDir:  snapshotDir,
	}
}

// CreateSnapshot zips the namespace's entire document tree into a new
// archive and records it in the index.
func (s *SnapshotService) CreateSnapshot(ns models.Namespace, name string) (models.Snapshot, error) {
	root := s.store.RootFor(ns)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, storage.NewFileOperationError(http.StatusNotFound, "namespace has no documents", err)
		}
		return models.Snapshot{}, err
	}

	snapshot := models.Snapshot{
		ID:        uuid.New().String(),
		Namespace: ns.Dir(),
		Name:      name,
	}

	fileName := fmt.Sprintf("%s_%s.zip", ns.Dir(), time.Now().Format("20060102150405"))
	snapshot.Path = filepath.Join(s.snapshotDir, fileName)

	archive, err := os.Create(snapshot.Path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("could not create snapshot file: %w", err)
	}
	defer archive.Close()

	zipWriter := zip.NewWriter(archive)
	defer zipWriter.Close()

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if info.IsDir() {
			_, err = zipWriter.Create(filepath.ToSlash(relPath) + "/")
			return err
		}
		writer, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}
		fileToZip, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fileToZip.Close()
		_, err = io.Copy(writer, fileToZip)
		return err
	})

	if err != nil {
		os.Remove(snapshot.Path) // Clean up partial file
		return models.Snapshot{}, fmt.Errorf("failed to zip namespace tree: %w", err)
	}

	zipWriter.Close()
	archive.Close()

	fi, err := os.Stat(snapshot.Path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("could not get snapshot file info: %w", err)
	}
	snapshot.Size = fi.Size()

	stmt, err := s.db.Prepare("INSERT INTO snapshots (id, namespace, name, path, size, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Snapshot{}, err
	}
	defer stmt.Close()

	snapshot.CreatedAt = time.Now()
	if _, err = stmt.Exec(snapshot.ID, snapshot.Namespace, snapshot.Name, snapshot.Path, snapshot.Size, snapshot.CreatedAt); err != nil {
		os.Remove(snapshot.Path)
		return models.Snapshot{}, err
	}

	nsName := ns.Dir()
	s.eventService.CreateEvent("snapshot.create", "info", fmt.Sprintf("Snapshot '%s' created for namespace '%s'.", snapshot.Name, nsName), &nsName)

	return snapshot, nil
}

// GetSnapshots retrieves all snapshots of a namespace, newest first.
func (s *SnapshotService) GetSnapshots(ns models.Namespace) ([]models.Snapshot, error) {
	rows, err := s.db.Query("SELECT id, namespace, name, path, size, created_at FROM snapshots WHERE namespace = ? ORDER BY created_at DESC", ns.Dir())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snapshot models.Snapshot
		if err := rows.Scan(&snapshot.ID, &snapshot.Namespace, &snapshot.Name, &snapshot.Path, &snapshot.Size, &snapshot.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// GetSnapshotByID retrieves a single snapshot by its ID.
func (s *SnapshotService) GetSnapshotByID(id string) (models.Snapshot, error) {
	var snapshot models.Snapshot
	row := s.db.QueryRow("SELECT id, namespace, name, path, size, created_at FROM snapshots WHERE id = ?", id)
	err := row.Scan(&snapshot.ID, &snapshot.Namespace, &snapshot.Name, &snapshot.Path, &snapshot.Size, &snapshot.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Snapshot{}, storage.NewFileOperationError(http.StatusNotFound, "snapshot not found", nil)
		}
		return models.Snapshot{}, err
	}
	return snapshot, nil
}

// DeleteSnapshot removes a snapshot archive and its index row. The snapshot
// must belong to the given namespace.
func (s *SnapshotService) DeleteSnapshot(ns models.Namespace, id string) error {
	snapshot, err := s.GetSnapshotByID(id)
	if err != nil {
		return err
	}
	if snapshot.Namespace != ns.Dir() {
		return storage.NewFileOperationError(http.StatusNotFound, "snapshot not found", nil)
	}

	if err := os.Remove(snapshot.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete snapshot file: %w", err)
	}

	_, err = s.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err == nil {
		nsName := ns.Dir()
		s.eventService.CreateEvent("snapshot.delete", "warn", fmt.Sprintf("Snapshot '%s' for namespace '%s' was deleted.", snapshot.Name, nsName), &nsName)
	}
	return err
}

// RestoreSnapshot replaces the namespace's document tree with the archive's
// contents. The restore is destructive: current documents are removed first.
func (s *SnapshotService) RestoreSnapshot(ns models.Namespace, id string) error {
	snapshot, err := s.GetSnapshotByID(id)
	if err != nil {
		return err
	}
	if snapshot.Namespace != ns.Dir() {
		return storage.NewFileOperationError(http.StatusNotFound, "snapshot not found", nil)
	}

	root := s.store.RootFor(ns)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("could not create namespace directory: %w", err)
	}

	// Clean out the namespace's current tree
	dir, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read namespace directory: %w", err)
	}
	for _, d := range dir {
		os.RemoveAll(filepath.Join(root, d.Name()))
	}

	zipReader, err := zip.OpenReader(snapshot.Path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot archive: %w", err)
	}
	defer zipReader.Close()

	for _, f := range zipReader.File {
		fpath := filepath.Join(root, f.Name)

		// Prevent ZipSlip vulnerability
		if !strings.HasPrefix(fpath, filepath.Clean(root)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid file path in zip: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	nsName := ns.Dir()
	s.eventService.CreateEvent("snapshot.restore", "warn", fmt.Sprintf("Namespace '%s' restored from snapshot '%s'.", nsName, snapshot.Name), &nsName)

	return nil
}
