package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptionLanguage(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("caption_language = \"de\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var warn bytes.Buffer
	if got := captionLanguage(path, &warn); got != "de" {
		t.Errorf("expected de, got %q", got)
	}
	if warn.Len() != 0 {
		t.Errorf("expected no warning for a valid config, got %q", warn.String())
	}
}

func TestCaptionLanguageMissingConfig(t *testing.T) {
	var warn bytes.Buffer
	if got := captionLanguage(filepath.Join(t.TempDir(), "missing.toml"), &warn); got != "en" {
		t.Errorf("expected fallback en, got %q", got)
	}
	if warn.Len() != 0 {
		t.Errorf("an absent config file must not warn, got %q", warn.String())
	}
}

func TestCaptionLanguageBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("caption_language = [broken\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var warn bytes.Buffer
	if got := captionLanguage(path, &warn); got != "en" {
		t.Errorf("expected fallback en, got %q", got)
	}
	if !strings.Contains(warn.String(), "Warning") {
		t.Errorf("a broken config must warn, got %q", warn.String())
	}
}
