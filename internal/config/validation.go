package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.path",
				Message: "required when storage.type is sqlite",
			})
		}
	case "memory":
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.type",
			Message: fmt.Sprintf("must be sqlite or memory, got %q", c.Storage.Type),
		})
	}

	if c.Profile.DecayFactor <= 0 || c.Profile.DecayFactor > 1 {
		errs = append(errs, ValidationError{
			Field:   "profile.decay_factor",
			Message: fmt.Sprintf("must be in (0, 1], got %v", c.Profile.DecayFactor),
		})
	}
	if c.Profile.DriftThreshold < 0 {
		errs = append(errs, ValidationError{
			Field:   "profile.drift_threshold",
			Message: fmt.Sprintf("must be non-negative, got %v", c.Profile.DriftThreshold),
		})
	}

	if c.Window.Size <= 0 {
		errs = append(errs, ValidationError{
			Field:   "window.size",
			Message: fmt.Sprintf("must be positive, got %d", c.Window.Size),
		})
	}
	if c.Window.Step <= 0 {
		errs = append(errs, ValidationError{
			Field:   "window.step",
			Message: fmt.Sprintf("must be positive, got %d", c.Window.Step),
		})
	}

	if c.Verifier.Iterations <= 0 {
		errs = append(errs, ValidationError{
			Field:   "verifier.iterations",
			Message: fmt.Sprintf("must be positive, got %d", c.Verifier.Iterations),
		})
	}
	if c.Verifier.SubsetSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "verifier.subset_size",
			Message: fmt.Sprintf("must be positive, got %d", c.Verifier.SubsetSize),
		})
	}

	if c.Lexicon.MinDocFrequency < 0 {
		errs = append(errs, ValidationError{
			Field:   "lexicon.min_doc_frequency",
			Message: fmt.Sprintf("must be non-negative, got %d", c.Lexicon.MinDocFrequency),
		})
	}
	if c.Lexicon.TopN <= 0 {
		errs = append(errs, ValidationError{
			Field:   "lexicon.top_n",
			Message: fmt.Sprintf("must be positive, got %d", c.Lexicon.TopN),
		})
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be debug, info, warn, or error, got %q", c.Logging.Level),
		})
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be text or json, got %q", c.Logging.Format),
		})
	}
	switch c.Logging.Output {
	case "stdout", "stderr", "file", "both":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("must be stdout, stderr, file, or both, got %q", c.Logging.Output),
		})
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when logging.output includes file",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
