package models

import "time"

// PublicID is the reserved user-id segment that selects the shared document tree.
const PublicID = "public"

// Namespace identifies which document tree an operation targets: the shared
// public tree or the private tree of exactly one user. Handlers resolve a
// request to a Namespace once; the raw "public" string never travels further.
type Namespace struct {
	userID string
}

// PublicNamespace is the shared tree, readable and writable without a token.
var PublicNamespace = Namespace{}

// ForUser returns the private namespace owned by the given user id.
func ForUser(userID string) Namespace {
	return Namespace{userID: userID}
}

// NamespaceFromDir maps a directory name under the userFiles root back to a
// Namespace. The reserved "public" name maps to the shared tree.
func NamespaceFromDir(dir string) Namespace {
	if dir == PublicID {
		return PublicNamespace
	}
	return Namespace{userID: dir}
}

// IsPublic reports whether the namespace is the shared public tree.
func (n Namespace) IsPublic() bool {
	return n.userID == ""
}

// Dir returns the directory name of the namespace under the userFiles root.
func (n Namespace) Dir() string {
	if n.userID == "" {
		return PublicID
	}
	return n.userID
}

func (n Namespace) String() string {
	return n.Dir()
}

// FileItem describes one directory entry in a namespace, derived entirely
// from readdir/stat. For files the trailing extension is split off into
// Suffix; directories keep their full name and an empty Suffix.
type FileItem struct {
	Name       string    `json:"name"`
	Suffix     string    `json:"suffix"`
	Type       string    `json:"type"` // "file" or "directory"
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// DocumentInfo is the stat view of a single document or directory.
type DocumentInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	IsDir      bool      `json:"isDir"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
