package storage

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/notedeck/notedeck-be/internal/models"
)

func newTestStore(t *testing.T) *UserFileStore {
	t.Helper()
	return NewUserFileStore(t.TempDir())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
	return StatusOf(err)
}

func TestSaveAndRead_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.Save(ns, "notes/todo.md", []byte("# Todo")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := store.Read(ns, "notes/todo.md")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "# Todo" {
		t.Fatalf("content mismatch: got %q want %q", data, "# Todo")
	}
}

func TestSave_Overwrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.Save(ns, "a.md", []byte("one")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ns, "a.md", []byte("two")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := store.Read(ns, "a.md")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("content mismatch: got %q want %q", data, "two")
	}
}

func TestRead_Missing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Read(models.ForUser("u1"), "nope.md")
	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestRead_DirectoryIsNotADocument(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.MkDir(ns, "notes"); err != nil {
		t.Fatalf("MkDir error: %v", err)
	}

	_, err := store.Read(ns, "notes")
	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestList_SplitsSuffixes(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.PublicNamespace

	if err := store.Save(ns, "notes/todo.md", []byte("# Todo")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.MkDir(ns, "notes/archive"); err != nil {
		t.Fatalf("MkDir error: %v", err)
	}
	if err := store.Save(ns, "notes/README", []byte("plain")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	items, err := store.List(ns, "notes")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	byPath := make(map[string]models.FileItem, len(items))
	for _, item := range items {
		byPath[item.Path] = item
	}

	todo, ok := byPath["notes/todo.md"]
	if !ok {
		t.Fatalf("missing item for notes/todo.md: %+v", items)
	}
	if todo.Name != "todo" || todo.Suffix != "md" || todo.Type != "file" {
		t.Fatalf("todo item = %+v, want name=todo suffix=md type=file", todo)
	}
	if todo.ModifiedAt.IsZero() {
		t.Fatalf("expected a modification time")
	}

	archive, ok := byPath["notes/archive"]
	if !ok || archive.Type != "directory" || archive.Name != "archive" || archive.Suffix != "" {
		t.Fatalf("archive item = %+v, want a directory named archive with empty suffix", archive)
	}

	readme, ok := byPath["notes/README"]
	if !ok || readme.Name != "README" || readme.Suffix != "" {
		t.Fatalf("readme item = %+v, want full name and empty suffix", readme)
	}
}

func TestList_EmptySubPathListsNamespaceRoot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.Save(ns, "root.md", []byte("x")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	items, err := store.List(ns, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].Path != "root.md" {
		t.Fatalf("items = %+v, want exactly root.md", items)
	}
}

func TestList_MissingDirectory(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.List(models.ForUser("u1"), "ghost")
	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.Save(models.ForUser("u1"), "secret.md", []byte("mine")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if _, err := store.Read(models.ForUser("u2"), "secret.md"); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected u2 to see 404, got %v", err)
	}
	if _, err := store.Read(models.PublicNamespace, "secret.md"); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected public to see 404, got %v", err)
	}
}

func TestDelete_Recursive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.Save(ns, "dir/a.md", []byte("a")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save(ns, "dir/sub/b.md", []byte("b")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := store.Delete(ns, "dir"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.RootFor(ns), "dir")); !os.IsNotExist(err) {
		t.Fatalf("directory still present after delete: %v", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	err := store.Delete(models.ForUser("u1"), "nope.md")
	if got := statusOf(t, err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestRename_CreatesDestinationParents(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ns := models.ForUser("u1")

	if err := store.Save(ns, "a.md", []byte("x")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Rename(ns, "a.md", "deep/nested/b.md"); err != nil {
		t.Fatalf("Rename error: %v", err)
	}

	data, err := store.Read(ns, "deep/nested/b.md")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "x" {
		t.Fatalf("content mismatch after rename: got %q", data)
	}
}
