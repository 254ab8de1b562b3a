package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
)

// ScanMetadata reads metadata lines without building a document. Values are
// returned as written, without rendering inline markup. Malformed lines are
// reported alongside the result and skipped.
func ScanMetadata(r io.Reader) (map[string]string, []error, error) {
	meta := make(map[string]string)
	var problems []error

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok, err := grammar.ParseMetadataLine(strings.TrimRight(scanner.Text(), "\r"))
		switch {
		case !ok:
			continue
		case err != nil:
			problems = append(problems, err)
		default:
			meta[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return meta, problems, fmt.Errorf("scan metadata: %w", err)
	}

	return meta, problems, nil
}
