package main

import (
	"testing"
)

func TestNewOptimizeCmd(t *testing.T) {
	cmd := newOptimizeCmd()

	if cmd.Use != "optimize [template]" {
		t.Errorf("Use = %q, want 'optimize [template]'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Flags().Lookup("format") == nil {
		t.Error("missing --format flag")
	}

	if cmd.Flags().Lookup("category") == nil {
		t.Error("missing --category flag")
	}
}

func TestOptimizeCategories(t *testing.T) {
	expected := []string{"all", "security", "cost", "reliability"}

	for _, cat := range expected {
		if !isValidCategory(cat) {
			t.Errorf("category %q should be valid", cat)
		}
	}

	if isValidCategory("performance") {
		t.Error("'performance' should not be a valid category")
	}
}
