package storage

import "testing"

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"empty means namespace root", "", true},
		{"dot", ".", true},
		{"plain file", "todo.md", true},
		{"nested file", "notes/todo.md", true},
		{"trailing slash", "notes/", true},
		{"internal dotdot that stays inside", "notes/../todo.md", true},
		{"redundant segments", "./notes//todo.md", true},
		{"parent escape", "..", false},
		{"leading parent", "../todo.md", false},
		{"escape after normalize", "notes/../../todo.md", false},
		{"deep escape", "a/b/../../../c", false},
		{"absolute path", "/etc/passwd", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidatePath(tt.path); got != tt.want {
				t.Fatalf("ValidatePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
