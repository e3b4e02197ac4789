package monitoring

import (
	"testing"

	"github.com/notedeck/notedeck-be/internal/storage"
)

func TestNewSnapshotScheduler_EmptyExpressionDisables(t *testing.T) {
	t.Parallel()

	s, err := NewSnapshotScheduler(nil, storage.NewUserFileStore(t.TempDir()), nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatalf("expected a nil scheduler for an empty expression")
	}
}

func TestNewSnapshotScheduler_InvalidExpression(t *testing.T) {
	t.Parallel()

	_, err := NewSnapshotScheduler(nil, storage.NewUserFileStore(t.TempDir()), nil, "not a cron line")
	if err == nil {
		t.Fatalf("expected an error for an invalid cron expression")
	}
}

func TestNewSnapshotScheduler_ValidExpression(t *testing.T) {
	t.Parallel()

	s, err := NewSnapshotScheduler(nil, storage.NewUserFileStore(t.TempDir()), nil, "0 3 * * *")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.nextRun.IsZero() {
		t.Fatalf("expected a scheduler with a computed next run")
	}
}
