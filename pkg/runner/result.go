package runner

import (
	"time"

	"github.com/ZabraveniGeroi/blogc/pkg/fsutil"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

// FileOutcome describes what happened to one source.
type FileOutcome struct {
	// Source is the absolute source path.
	Source string

	// Output is the absolute path of the generated page.
	Output string

	// SitePath is the URL path of the generated page, e.g. "/posts/a.html".
	SitePath string

	// Info fingerprints the source as it was compiled.
	Info *fsutil.FileInfo

	// Written is true when the page on disk was created or replaced.
	Written bool

	// Diagnostics are the non-fatal problems reported while compiling.
	Diagnostics []error

	// Headings is the number of headings recorded in the page.
	Headings int

	// Links are the internal links of the page, collected when link
	// checking is enabled.
	Links []site.Link

	// Duration is the compile time of this source.
	Duration time.Duration

	// Error is set if the source could not be built.
	Error error
}

// BrokenLink is an internal link whose target does not exist in the output.
type BrokenLink struct {
	// Page is the site path of the page containing the link.
	Page string
	Link site.Link
	// Target is the site path the link resolves to.
	Target string
}

// Stats captures aggregate information about a build.
type Stats struct {
	// FilesDiscovered is the total number of sources found during discovery.
	FilesDiscovered int

	// FilesBuilt is the number of sources compiled without error.
	FilesBuilt int

	// FilesWritten is the number of pages created or replaced.
	FilesWritten int

	// FilesUnchanged is the number of pages whose content was already up to date.
	FilesUnchanged int

	// FilesErrored is the number of sources that could not be built.
	FilesErrored int

	// Diagnostics is the total number of diagnostics across all sources.
	Diagnostics int

	// BrokenLinks is the number of unresolved internal links.
	BrokenLinks int
}

// Result is the overall build result.
type Result struct {
	// Files contains the outcome for each source, ordered by source path.
	Files []FileOutcome

	// BrokenLinks lists unresolved internal links, ordered by page.
	BrokenLinks []BrokenLink

	// Stats contains aggregate statistics for the build.
	Stats Stats

	// Duration is the wall time of the build.
	Duration time.Duration
}

// HasFailures reports whether any source could not be built.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasWarnings reports whether diagnostics or broken links were found.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.Diagnostics > 0 || r.Stats.BrokenLinks > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesBuilt++
	if outcome.Written {
		r.Stats.FilesWritten++
	} else {
		r.Stats.FilesUnchanged++
	}
	r.Stats.Diagnostics += len(outcome.Diagnostics)
}
