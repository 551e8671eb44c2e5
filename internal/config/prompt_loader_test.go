package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	screenFile := writePromptFile(t, dir, "screen.txt", "Rate this resume:\n%s")

	cfg := validTestConfig()
	cfg.AI.Screen.Prompt.TemplateFile = screenFile

	if err := cfg.validatePromptFiles(); err != nil {
		t.Fatalf("validatePromptFiles() error = %v", err)
	}
	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles() error = %v", err)
	}

	got, ok := cfg.PromptOverride(OperationScreen)
	if !ok {
		t.Fatal("expected a prompt override for screen operation")
	}
	if got != "Rate this resume:\n%s" {
		t.Errorf("PromptOverride() = %q, want file content", got)
	}
}

func TestValidatePromptFilesMissingFile(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.Analyze.Prompt.TemplateFile = filepath.Join(t.TempDir(), "does-not-exist.txt")

	if err := cfg.validatePromptFiles(); err == nil {
		t.Error("expected validation error for missing prompt file")
	}
}

func TestLoadPromptsFromFilesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	emptyFile := writePromptFile(t, dir, "empty.txt", "   \n  ")

	cfg := validTestConfig()
	cfg.AI.Summary.Prompt.TemplateFile = emptyFile

	if err := cfg.loadPromptsFromFiles(); err == nil {
		t.Error("expected error for empty prompt template file")
	}
}

func TestPromptOverrideInlineTemplate(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.Questions.Prompt.Template = "  Generate questions for %s  "

	got, ok := cfg.PromptOverride(OperationQuestions)
	if !ok {
		t.Fatal("expected inline template override")
	}
	if got != "Generate questions for %s" {
		t.Errorf("PromptOverride() = %q, want trimmed inline template", got)
	}
}

func TestPromptOverrideAbsent(t *testing.T) {
	cfg := validTestConfig()
	if _, ok := cfg.PromptOverride(OperationAnalyze); ok {
		t.Error("expected no override when neither template nor file is set")
	}
}

func TestReloadPromptFile(t *testing.T) {
	dir := t.TempDir()
	file := writePromptFile(t, dir, "interview.txt", "first version %s")

	cfg := validTestConfig()
	cfg.AI.Interview.Prompt.TemplateFile = file

	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles() error = %v", err)
	}

	writePromptFile(t, dir, "interview.txt", "second version %s")
	if err := ReloadPromptFile(file); err != nil {
		t.Fatalf("ReloadPromptFile() error = %v", err)
	}

	got, ok := cfg.PromptOverride(OperationInterview)
	if !ok || got != "second version %s" {
		t.Errorf("PromptOverride() after reload = %q, %v; want updated content", got, ok)
	}
}

func TestReloadPromptFileUnregistered(t *testing.T) {
	if err := ReloadPromptFile(filepath.Join(t.TempDir(), "stray.txt")); err == nil {
		t.Error("expected error reloading an unregistered prompt file")
	}
}
