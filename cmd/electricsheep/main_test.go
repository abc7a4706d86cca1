package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chosenoffset.com/electricsheep/internal/render"
)

func TestLimitFrames(t *testing.T) {
	n := 0
	frame := limitFrames(func() error { n++; return nil }, 3)
	for i := 0; i < 3; i++ {
		if err := frame(); err != nil {
			t.Fatalf("Frame %d failed: %v", i, err)
		}
	}
	if err := frame(); !errors.Is(err, render.ErrStop) {
		t.Errorf("Expected ErrStop after 3 frames, got %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 frames to run, got %d", n)
	}
}

func TestScenePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barn.scene.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	got, err := scenePath(dir, "barn")
	if err != nil || got != path {
		t.Errorf("Expected %s, got %s (%v)", path, got, err)
	}
	if got, err := scenePath("unused", path); err != nil || got != path {
		t.Errorf("Expected direct path %s, got %s (%v)", path, got, err)
	}
	if _, err := scenePath(dir, "missing"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}
