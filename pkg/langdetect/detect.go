// Package langdetect guesses the language of fenced code blocks so the
// compiler can tag them with a language class. It combines shebang lookup,
// a few highly indicative patterns and the go-enry classifier.
package langdetect

import (
	"path"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as they appear in "language-X" classes.
const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langBash       = "bash"
)

// minYAMLKeys is how many "key: value" lines make a block YAML.
const minYAMLKeys = 2

// DefaultCandidates is the classifier's candidate set.
//
//nolint:gochecknoglobals // Read-only lookup table.
var DefaultCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detector guesses languages. The zero value is not usable; use New.
type Detector struct {
	candidates []string
}

// Option configures a Detector.
type Option func(*Detector)

// WithCandidates restricts the classifier to the given go-enry language names.
func WithCandidates(names ...string) Option {
	return func(d *Detector) {
		if len(names) > 0 {
			d.candidates = names
		}
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{candidates: DefaultCandidates}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the language of code, or "" when no strategy is confident.
func (d *Detector) Detect(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}

	content := []byte(code)

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(code); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, d.candidates); safe && lang != "" {
		return normalize(lang)
	}

	return ""
}

// Resolve maps an info-string hint such as "py", "golang" or "main.go" to a
// language name. Unknown hints are returned lowercased.
func (d *Detector) Resolve(hint string) string {
	if lang, ok := enry.GetLanguageByAlias(hint); ok {
		return normalize(lang)
	}
	if ext := path.Ext(hint); ext != "" && ext != hint {
		if lang, safe := enry.GetLanguageByExtension(hint); safe {
			return normalize(lang)
		}
	}
	return strings.ToLower(hint)
}

// Detect uses a Detector with the default candidates.
func Detect(code string) string {
	return New().Detect(code)
}

// detectByPattern checks patterns that are highly indicative, most specific first.
func detectByPattern(code string) string {
	trimmed := strings.TrimSpace(code)

	for _, detect := range []func(code, trimmed string) string{
		detectGo,
		detectPython,
		detectHTML,
		detectJSON,
		detectDockerfile,
		detectSQL,
		detectRust,
		detectJavaScript,
		detectYAML,
	} {
		if lang := detect(code, trimmed); lang != "" {
			return lang
		}
	}

	return ""
}

func detectGo(_, trimmed string) string {
	if strings.HasPrefix(trimmed, "package ") {
		return langGo
	}
	return ""
}

func detectPython(code, trimmed string) string {
	if strings.Contains(code, "def ") && strings.Contains(code, "):") {
		return langPython
	}
	// Go imports use "import (".
	if strings.Contains(code, "import ") && !strings.Contains(code, "import (") {
		if strings.Contains(code, "from ") || strings.HasPrefix(trimmed, "import ") {
			return langPython
		}
	}
	if strings.Contains(code, "__name__") || strings.Contains(code, "__main__") {
		return langPython
	}
	return ""
}

func detectHTML(_, trimmed string) string {
	lower := strings.ToLower(trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if strings.Contains(lower, marker) {
			return langHTML
		}
	}
	return ""
}

func detectJSON(_, trimmed string) string {
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
		strings.Contains(trimmed, `"`) {
		return langJSON
	}
	return ""
}

func detectDockerfile(code, trimmed string) string {
	if strings.HasPrefix(trimmed, "FROM ") ||
		(strings.Contains(code, "\nFROM ") && strings.Contains(code, "\nRUN ")) ||
		(strings.Contains(code, "WORKDIR ") && strings.Contains(code, "COPY ")) {
		return langDockerfile
	}
	return ""
}

func detectSQL(_, trimmed string) string {
	upper := strings.ToUpper(trimmed)
	for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, verb) {
			return langSQL
		}
	}
	return ""
}

func detectRust(code, _ string) string {
	if strings.Contains(code, "fn main()") ||
		strings.Contains(code, "println!") ||
		strings.Contains(code, "let mut ") {
		return langRust
	}
	return ""
}

func detectJavaScript(code, _ string) string {
	if strings.Contains(code, "=>") ||
		strings.Contains(code, "const ") ||
		strings.Contains(code, "let ") ||
		strings.Contains(code, "console.log") {
		return langJavaScript
	}
	return ""
}

// detectYAML counts "key: value" lines, skipping lines that look like code.
func detectYAML(code, _ string) string {
	keys := 0
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") &&
			!strings.ContainsAny(line, "({") &&
			!strings.HasPrefix(line, `"`) {
			keys++
		}
		if strings.HasPrefix(line, "- ") {
			keys++
		}
	}

	if keys >= minYAMLKeys {
		return langYAML
	}
	return ""
}

// normalize converts go-enry language names to class names.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
}
