package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// MetadataPrefix starts a metadata line in source text.
const MetadataPrefix = "-attr:"

// ErrMalformedMetadata is wrapped by every MetadataError.
var ErrMalformedMetadata = errors.New("malformed metadata line")

var (
	errSeparator = errors.New("expected exactly one '='")
	errEmptyKey  = errors.New("empty key")
)

// MetadataError reports an attribute line that is not a single key = value pair.
type MetadataError struct {
	Line   string
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedMetadata, e.Line, e.Reason)
}

func (e *MetadataError) Unwrap() error {
	return ErrMalformedMetadata
}

// metadataParts is the number of '='-separated fields in a metadata line.
const metadataParts = 2

// SplitMetadata splits "key = value" into its trimmed halves. The text must
// hold exactly one '=' and a non-empty key.
func SplitMetadata(text string) (string, string, error) {
	parts := strings.Split(text, "=")
	if len(parts) != metadataParts {
		return "", "", errSeparator
	}

	key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", errEmptyKey
	}

	return key, value, nil
}

// ParseMetadataLine parses one source line. ok is false when the line is
// not a metadata line; err is non-nil when it is one but malformed.
func ParseMetadataLine(line string) (key, value string, ok bool, err error) {
	rest, found := strings.CutPrefix(line, MetadataPrefix)
	if !found {
		return "", "", false, nil
	}

	key, value, err = SplitMetadata(rest)
	if err != nil {
		return "", "", true, &MetadataError{Line: strings.TrimSpace(rest), Reason: err.Error()}
	}

	return key, value, true, nil
}
