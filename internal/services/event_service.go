package services

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/notedeck/notedeck-be/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, namespace *string) error
	GetRecentEvents(limit int, namespaces ...string) ([]models.Event, error)
}

// EventService records the activity log: document operations, auth activity
// and system alerts.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event. The namespace is nil for system-wide events.
func (s *EventService) CreateEvent(eventType, level, message string, namespace *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		Namespace: namespace,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, namespace) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.Namespace)
	return err
}

// GetRecentEvents retrieves the most recent events scoped to the given
// namespaces. System-wide events (no namespace) are always included; events
// of other namespaces never are.
func (s *EventService) GetRecentEvents(limit int, namespaces ...string) ([]models.Event, error) {
	query := "SELECT id, type, level, message, namespace, created_at FROM events WHERE namespace IS NULL"
	args := make([]interface{}, 0, len(namespaces)+1)
	if len(namespaces) > 0 {
		query += " OR namespace IN (?" + strings.Repeat(", ?", len(namespaces)-1) + ")"
		for _, ns := range namespaces {
			args = append(args, ns)
		}
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.Namespace, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
