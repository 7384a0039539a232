package main

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	if cmd.Use != "watch" {
		t.Errorf("Use = %q, want 'watch'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, name := range []string{"debounce", "format", "output"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func TestWatchDebounceDefault(t *testing.T) {
	cmd := newWatchCmd()
	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("debounce flag not found")
	}

	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestWatchTargets(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "rdstls.yaml")
	envFile := filepath.Join(dir, ".env")
	other := filepath.Join(dir, "sub", "other.env")

	targets, dirs, err := watchTargets(settings, "", envFile, other)
	if err != nil {
		t.Fatalf("watchTargets: %v", err)
	}

	if len(targets) != 3 {
		t.Errorf("got %d targets, want 3", len(targets))
	}
	if len(dirs) != 2 || dirs[0] != dir || dirs[1] != filepath.Join(dir, "sub") {
		t.Errorf("dirs = %v, want [%s %s]", dirs, dir, filepath.Join(dir, "sub"))
	}

	if _, _, err := watchTargets("", ""); err == nil {
		t.Error("expected an error with nothing to watch")
	}
}

func TestIsWatchedEvent(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "rdstls.yaml")
	targets, _, err := watchTargets(settings)
	if err != nil {
		t.Fatalf("watchTargets: %v", err)
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: settings, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: settings, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: settings, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: settings, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWatchedEvent(tt.event, targets); got != tt.want {
				t.Errorf("isWatchedEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}
