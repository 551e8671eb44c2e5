package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// promptStore holds prompt template content loaded from external files,
// keyed by operation name. A mutex guards the maps so the file watcher
// can swap content while the server is running.
type promptStore struct {
	mu        sync.RWMutex
	templates map[string]string // operation -> template content
	files     map[string]string // absolute file path -> operation
}

var loadedPrompts = promptStore{
	templates: make(map[string]string),
	files:     make(map[string]string),
}

func (ps *promptStore) set(operation, content string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.templates[operation] = content
}

func (ps *promptStore) get(operation string) (string, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	content, ok := ps.templates[operation]
	return content, ok
}

func (ps *promptStore) registerFile(path, operation string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.files[path] = operation
}

func (ps *promptStore) operationForFile(path string) (string, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	operation, ok := ps.files[path]
	return operation, ok
}

// WatchedPromptFiles returns the absolute paths of all prompt template
// files loaded from disk, for use by the file watcher.
func WatchedPromptFiles() []string {
	loadedPrompts.mu.RLock()
	defer loadedPrompts.mu.RUnlock()
	paths := make([]string, 0, len(loadedPrompts.files))
	for path := range loadedPrompts.files {
		paths = append(paths, path)
	}
	return paths
}

// operationPrompts maps operation names to their prompt configuration.
func (c *Config) operationPrompts() map[string]*PromptConfig {
	return map[string]*PromptConfig{
		OperationAnalyze:   &c.AI.Analyze.Prompt,
		OperationScreen:    &c.AI.Screen.Prompt,
		OperationInterview: &c.AI.Interview.Prompt,
		OperationSummary:   &c.AI.Summary.Prompt,
		OperationQuestions: &c.AI.Questions.Prompt,
	}
}

// validatePromptFiles validates that prompt template files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for operation, prompt := range c.operationPrompts() {
		if prompt.TemplateFile == "" {
			continue
		}

		absPath, err := filepath.Abs(prompt.TemplateFile)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt template: %s", operation, prompt.TemplateFile))
			continue
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt template file not found: %s", operation, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// loadPromptsFromFiles loads prompt template overrides from external files
// if file paths are specified.
func (c *Config) loadPromptsFromFiles() error {
	for operation, prompt := range c.operationPrompts() {
		if prompt.TemplateFile == "" {
			continue
		}

		absPath, content, err := readPromptFile(prompt.TemplateFile, operation)
		if err != nil {
			return err
		}

		loadedPrompts.set(operation, content)
		loadedPrompts.registerFile(absPath, operation)
	}

	return nil
}

// ReloadPromptFile re-reads a previously loaded prompt template file and
// swaps its content into the store. Used by the prompt file watcher.
func ReloadPromptFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve prompt file path %q: %w", path, err)
	}

	operation, ok := loadedPrompts.operationForFile(absPath)
	if !ok {
		return fmt.Errorf("prompt file %s is not registered for any operation", absPath)
	}

	_, content, err := readPromptFile(absPath, operation)
	if err != nil {
		return err
	}

	loadedPrompts.set(operation, content)
	return nil
}

// readPromptFile reads and validates a prompt template file
func readPromptFile(filePath, operation string) (string, string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve absolute path for %s prompt template %q: %w", operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s prompt template file %q: %w", operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", "", fmt.Errorf("%s prompt template file %q is empty", operation, absPath)
	}

	return absPath, trimmed, nil
}

// PromptOverride returns the prompt template override for an operation,
// if one is configured. File content wins over the inline template.
func (c *Config) PromptOverride(operationType string) (string, bool) {
	if content, ok := loadedPrompts.get(operationType); ok && content != "" {
		return content, true
	}

	prompts := c.operationPrompts()
	if prompt, ok := prompts[operationType]; ok && strings.TrimSpace(prompt.Template) != "" {
		return strings.TrimSpace(prompt.Template), true
	}

	return "", false
}
