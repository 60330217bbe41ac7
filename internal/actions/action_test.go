package actions

import "testing"

func TestNewGeneratesIDWhenEmpty(t *testing.T) {
	a := New("", "Run Script")
	b := New("", "Run Script")

	if a.ID == "" {
		t.Fatal("New(\"\", ...) left ID empty")
	}
	if a.ID == b.ID {
		t.Errorf("generated IDs collide: %q", a.ID)
	}
}

func TestNewKeepsProvidedID(t *testing.T) {
	a := New("run", "Run Script")
	if a.ID != "run" {
		t.Errorf("ID = %q, want %q", a.ID, "run")
	}
}

func TestNewAppliesOptions(t *testing.T) {
	a := New("copy-path", "Copy Path",
		WithDescription("Copy the full path"),
		WithShortcut("cmd+shift+c"),
		WithSection("Clipboard"),
	)

	if a.Description != "Copy the full path" {
		t.Errorf("Description = %q", a.Description)
	}
	if a.Shortcut != "cmd+shift+c" {
		t.Errorf("Shortcut = %q", a.Shortcut)
	}
	if a.Section != "Clipboard" {
		t.Errorf("Section = %q", a.Section)
	}
}

func TestActionScore(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		query  string
		want   int
	}{
		{
			name:   "prefix match",
			action: New("run", "Run Script"),
			query:  "run",
			want:   100,
		},
		{
			name:   "substring match",
			action: New("edit", "Edit Script"),
			query:  "script",
			want:   50,
		},
		{
			name:   "subsequence match",
			action: New("reveal", "Reveal in Finder"),
			query:  "rlfnd",
			want:   25,
		},
		{
			name:   "no match",
			action: New("quit", "Quit"),
			query:  "xyz",
			want:   0,
		},
		{
			name:   "query case folded",
			action: New("run", "Run Script"),
			query:  "RUN",
			want:   100,
		},
		{
			name:   "description bonus",
			action: New("copy", "Copy Path", WithDescription("copy the full path")),
			query:  "path",
			want:   65,
		},
		{
			name:   "shortcut bonus",
			action: New("edit", "Edit Script", WithShortcut("cmd+e")),
			query:  "e",
			want:   110,
		},
		{
			name:   "no bonus without base match",
			action: New("copy", "Copy Path", WithDescription("send to clipboard")),
			query:  "clipboard",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.Score(tt.query); got != tt.want {
				t.Errorf("Score(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}
