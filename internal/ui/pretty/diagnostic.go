package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

const contextIndent = "        "

// FormatDiagnostic formats a single compile diagnostic for terminal output.
// Malformed metadata lines are echoed below the message.
func (s *Styles) FormatDiagnostic(path string, diag error) string {
	var builder strings.Builder

	var metaErr *grammar.MetadataError
	if errors.As(diag, &metaErr) {
		builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(path),
			s.Warning.Render("warning"),
			s.Message.Render(metaErr.Reason),
		))
		builder.WriteString(s.FormatSourceContext(grammar.MetadataPrefix + " " + metaErr.Line))
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Warning.Render("warning"),
		s.Message.Render(diag.Error()),
	))
	return builder.String()
}

// FormatFileError formats a source that could not be built.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n",
		s.FilePath.Render(path),
		s.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}

// FormatBrokenLink formats an internal link with no target.
func (s *Styles) FormatBrokenLink(link runner.BrokenLink) string {
	return fmt.Sprintf("  %s  %s  %s %s\n",
		s.FilePath.Render(link.Page),
		s.Warning.Render("warning"),
		s.Message.Render(fmt.Sprintf("broken %s %s=%q", link.Link.Tag, link.Link.Attribute, link.Link.URL)),
		s.Location.Render("("+link.Target+")"),
	)
}

// FormatSourceContext formats an offending source line.
func (s *Styles) FormatSourceContext(line string) string {
	return contextIndent + s.Dim.Render(line) + "\n"
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
