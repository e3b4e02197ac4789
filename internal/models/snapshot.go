package models

import "time"

// Snapshot is a point-in-time zip archive of one namespace's document tree.
type Snapshot struct {
	ID        string    `json:"id"`
	Namespace string    `json:"namespace"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
