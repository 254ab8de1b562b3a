// Package runner builds a site: it discovers sources under the content
// directory, compiles them in a worker pool and writes the assembled pages
// into the output directory.
package runner

import (
	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/config"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

// Options controls one build.
type Options struct {
	// ContentDir is the source root. Relative paths resolve against the
	// process working directory.
	ContentDir string

	// OutputDir receives one .html file per source, mirroring the layout
	// of ContentDir.
	OutputDir string

	// Paths restricts the build to these files or directories. Relative
	// entries resolve against ContentDir. Empty means the whole ContentDir.
	Paths []string

	// Extensions is the set of source file extensions (with leading dot).
	// Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns, relative to ContentDir, used to skip
	// files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Force writes every page even when its content is unchanged.
	Force bool

	// CheckLinks verifies that internal links in generated pages resolve
	// to files in OutputDir.
	CheckLinks bool
}

// DefaultExtensions returns the default set of source file extensions.
func DefaultExtensions() []string {
	return []string{config.DefaultExtension}
}

// OptionsFromConfig maps the build section of cfg onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ContentDir:   cfg.ContentDir,
		OutputDir:    cfg.OutputDir,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Force:        cfg.Force,
	}
}

// CompilerFromConfig builds the compiler cfg describes.
func CompilerFromConfig(cfg *config.Config) *compiler.Compiler {
	return compiler.New(
		compiler.WithEngine(compiler.Engine(cfg.Engine)),
		compiler.WithFlavor(string(cfg.Flavor)),
		compiler.WithMaxDepth(cfg.MaxDepth),
		compiler.WithLanguageDetection(cfg.LanguageDetection()),
	)
}

// TemplateFromConfig returns the page template cfg describes.
func TemplateFromConfig(cfg *config.Config) site.Template {
	tmpl := site.DefaultTemplate()
	if cfg.Stylesheet != "" {
		tmpl.Stylesheet = cfg.Stylesheet
	}
	return tmpl
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}
