package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZabraveniGeroi/blogc/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "serve.addr").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if !cfg.Engine.IsValid() {
		result.add("engine", cfg.Engine,
			fmt.Sprintf("invalid engine %q; must be one of: dialect, commonmark", cfg.Engine))
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.add("flavor", cfg.Flavor,
			fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor))
	}
	if cfg.Flavor != "" && cfg.Engine == config.EngineDialect && cfg.Flavor != config.FlavorCommonMark {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: "flavor only applies to the commonmark engine; it will be ignored",
		})
	}

	if strings.TrimSpace(cfg.ContentDir) == "" {
		result.add("content_dir", cfg.ContentDir, "content_dir must not be empty")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		result.add("output_dir", cfg.OutputDir, "output_dir must not be empty")
	}
	if cfg.ContentDir != "" && filepath.Clean(cfg.ContentDir) == filepath.Clean(cfg.OutputDir) {
		result.add("output_dir", cfg.OutputDir, "output_dir must differ from content_dir")
	}

	if cfg.Jobs < 0 {
		result.add("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.MaxDepth < 1 {
		result.add("max_depth", cfg.MaxDepth, "max_depth must be >= 1")
	}

	if cfg.Watch.Debounce < 0 {
		result.add("watch.debounce", cfg.Watch.Debounce, "watch.debounce must not be negative")
	}

	if len(cfg.Extensions) == 0 {
		result.add("extensions", cfg.Extensions, "at least one source extension is required")
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.add(fmt.Sprintf("extensions[%d]", i), ext,
				fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

func (r *ValidationResult) add(field string, value any, msg string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: msg})
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.add(fmt.Sprintf("ignore[%d]", i), pattern,
				fmt.Sprintf("invalid glob pattern: %v", err))
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
