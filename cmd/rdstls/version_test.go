package main

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	version := getVersion()

	if version == "" {
		t.Error("getVersion() returned empty string")
	}

	// Test binaries are not installed at a version.
	if !strings.HasPrefix(version, "dev") && !strings.HasPrefix(version, "v") {
		t.Errorf("getVersion() = %q, want 'dev...' or 'vX.Y.Z'", version)
	}
}

func TestGetVersion_Ldflags(t *testing.T) {
	old := version
	version = "v1.2.3"
	defer func() { version = old }()

	if got := getVersion(); got != "v1.2.3" {
		t.Errorf("getVersion() = %q, want 'v1.2.3'", got)
	}
}

func TestDevVersion(t *testing.T) {
	tests := []struct {
		name     string
		settings []debug.BuildSetting
		want     string
	}{
		{"no vcs", nil, "dev"},
		{
			"clean checkout",
			[]debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef0123"}, {Key: "vcs.modified", Value: "false"}},
			"dev+0123456789ab",
		},
		{
			"modified checkout",
			[]debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "true"}},
			"dev+abc123-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := devVersion(tt.settings); got != tt.want {
				t.Errorf("devVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
