package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZabraveniGeroi/blogc/pkg/config"
)

// envVarPrefix is the prefix for all blogc environment variables.
const envVarPrefix = "BLOGC_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
	envTypeDuration
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"CONTENT_DIR":      {field: "content_dir", typ: envTypeString},
	"OUTPUT_DIR":       {field: "output_dir", typ: envTypeString},
	"ENGINE":           {field: "engine", typ: envTypeString},
	"FLAVOR":           {field: "flavor", typ: envTypeString},
	"STYLESHEET":       {field: "stylesheet", typ: envTypeString},
	"JOBS":             {field: "jobs", typ: envTypeInt},
	"IGNORE":           {field: "ignore", typ: envTypeSlice},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice},
	"DETECT_LANGUAGES": {field: "detect_languages", typ: envTypeBool},
	"MAX_DEPTH":        {field: "max_depth", typ: envTypeInt},
	"SERVE_ADDR":       {field: "serve.addr", typ: envTypeString},
	"WATCH_DEBOUNCE":   {field: "watch.debounce", typ: envTypeDuration},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with BLOGC_ (e.g., BLOGC_ENGINE).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

// loadFromLookup applies overrides read through lookup.
func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", envVar, value)
		}
		return setDurationField(cfg, mapping.field, d)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "content_dir":
		cfg.ContentDir = value
	case "output_dir":
		cfg.OutputDir = value
	case "engine":
		cfg.Engine = config.Engine(value)
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "stylesheet":
		cfg.Stylesheet = value
	case "serve.addr":
		cfg.Serve.Addr = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "detect_languages":
		cfg.DetectLanguages = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "max_depth":
		cfg.MaxDepth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// setDurationField sets a duration field on the config by field path.
func setDurationField(cfg *config.Config, field string, value time.Duration) error {
	switch field {
	case "watch.debounce":
		cfg.Watch.Debounce = value
	default:
		return fmt.Errorf("unknown duration field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"BLOGC_CONTENT_DIR":      "Source root directory",
		"BLOGC_OUTPUT_DIR":       "Generated html root directory",
		"BLOGC_ENGINE":           "Source language: dialect or commonmark",
		"BLOGC_FLAVOR":           "Markdown flavor for the commonmark engine: commonmark or gfm",
		"BLOGC_STYLESHEET":       "Stylesheet URL linked from every page",
		"BLOGC_JOBS":             "Number of parallel workers (0 = auto)",
		"BLOGC_IGNORE":           "Comma-separated list of ignore patterns",
		"BLOGC_EXTENSIONS":       "Comma-separated list of source extensions",
		"BLOGC_DETECT_LANGUAGES": "Add language classes to code blocks: true or false",
		"BLOGC_MAX_DEPTH":        "Nesting ceiling for the dialect",
		"BLOGC_SERVE_ADDR":       "Listen address for blogc serve",
		"BLOGC_WATCH_DEBOUNCE":   "Watcher debounce, e.g. 250ms",
	}
}
