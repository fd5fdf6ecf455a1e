package util

import (
	"strings"
	"testing"
)

func TestRenderTemplate_Basic(t *testing.T) {
	tmpl := "Hello {{.Name}}, you are {{.Age}} years old."
	data := map[string]interface{}{
		"Name": "Alice",
		"Age":  30,
	}

	result, err := RenderTemplate(tmpl, data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Hello Alice, you are 30 years old."
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestRenderTemplate_TranscriptData(t *testing.T) {
	tmpl := "Classify the following transcript:\n{{.Transcript}}"
	data := map[string]interface{}{
		"Transcript": "[00:00] Hello world",
	}

	result, err := RenderTemplate(tmpl, data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "[00:00] Hello world") {
		t.Errorf("Result should contain the transcript line: %s", result)
	}
}

func TestRenderTemplate_InvalidTemplate(t *testing.T) {
	tmpl := "Hello {{.Name" // Missing closing braces
	data := map[string]interface{}{
		"Name": "Alice",
	}

	_, err := RenderTemplate(tmpl, data)
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}
}

func TestRenderTemplate_ForbiddenDirective(t *testing.T) {
	tmpl := `{{template "other"}}`
	_, err := RenderTemplate(tmpl, map[string]interface{}{})
	if err == nil {
		t.Error("Expected error for forbidden directive, got nil")
	}
}

func TestRenderTemplate_EmptyTemplate(t *testing.T) {
	result, err := RenderTemplate("", map[string]interface{}{"Name": "Alice"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result != "" {
		t.Errorf("Expected empty result, got '%s'", result)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello", 10); got != "hello" {
		t.Errorf("Expected 'hello', got '%s'", got)
	}
	if got := TruncateString("hello world", 5); got != "hello..." {
		t.Errorf("Expected 'hello...', got '%s'", got)
	}
}
