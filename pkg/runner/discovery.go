package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutsideContent is returned for a source that does not live under the
// content directory and so has no place in the output tree.
var ErrOutsideContent = errors.New("source is outside the content directory")

// layout holds the absolute roots of a build.
type layout struct {
	content string
	output  string
}

func resolveLayout(opts Options) (layout, error) {
	content, err := filepath.Abs(opts.ContentDir)
	if err != nil {
		return layout{}, fmt.Errorf("resolve content directory: %w", err)
	}
	output, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return layout{}, fmt.Errorf("resolve output directory: %w", err)
	}
	return layout{content: content, output: output}, nil
}

// rel returns source relative to the content root.
func (l layout) rel(source string) (string, error) {
	rel, err := filepath.Rel(l.content, source)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideContent, source)
	}
	return rel, nil
}

// Discover finds the sources opts selects. It returns a deterministically
// sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	lay, err := resolveLayout(opts)
	if err != nil {
		return nil, err
	}

	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{lay.content}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(f string) {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}

	for _, inputPath := range roots {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(lay.content, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			discovered, err := walkDirectory(ctx, absPath, lay, opts)
			if err != nil {
				return nil, err
			}
			for _, f := range discovered {
				add(f)
			}
		} else if matchesFile(absPath, lay, opts) {
			add(absPath)
		}
	}

	sort.Strings(files)

	return files, nil
}

// IsSource reports whether path would be selected by a build with opts.
// The watcher uses it to filter events, including events for files that no
// longer exist.
func IsSource(opts Options, path string) bool {
	lay, err := resolveLayout(opts)
	if err != nil {
		return false
	}
	if _, err := lay.rel(path); err != nil {
		return false
	}
	if hasHiddenComponent(lay, path) {
		return false
	}
	return matchesFile(path, lay, opts)
}

// OutputPath returns where the page for source is written:
// <output>/<rel without extension>.html.
func OutputPath(opts Options, source string) (string, error) {
	lay, err := resolveLayout(opts)
	if err != nil {
		return "", err
	}
	return lay.outputPath(source)
}

func (l layout) outputPath(source string) (string, error) {
	rel, err := l.rel(source)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.output, strings.TrimSuffix(rel, filepath.Ext(rel))+".html"), nil
}

// sitePath is the URL path a page is served under.
func (l layout) sitePath(output string) string {
	rel, err := filepath.Rel(l.output, output)
	if err != nil {
		return ""
	}
	return "/" + filepath.ToSlash(rel)
}

// walkDirectory recursively walks a directory and returns matching sources.
func walkDirectory(ctx context.Context, root string, lay layout, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath, relErr := filepath.Rel(lay.content, path)
		if relErr != nil {
			relPath = path
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			// An output tree nested inside the content tree is never a source.
			if path == lay.output {
				return filepath.SkipDir
			}
			if matchesExcludePattern(relPath, opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				// Walk the target, not the link, so WalkDir's Lstat of the root
				// cannot recurse forever.
				subFiles, err := walkDirectory(ctx, realPath, lay, opts)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if matchesFile(path, lay, opts) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// matchesFile checks if a file path matches the inclusion criteria.
func matchesFile(path string, lay layout, opts Options) bool {
	relPath, err := filepath.Rel(lay.content, path)
	if err != nil {
		relPath = path
	}

	if !hasMatchingExtension(path, opts.effectiveExtensions()) {
		return false
	}

	return !matchesExcludePattern(relPath, opts.ExcludeGlobs)
}

// hasHiddenComponent reports whether any element of path below the content
// root starts with a dot.
func hasHiddenComponent(lay layout, path string) bool {
	rel, err := filepath.Rel(lay.content, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// matchesExcludePattern checks if the path matches any exclude pattern.
func matchesExcludePattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern.
// It supports patterns like "*.md", "drafts/**" and "**/private".
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchDoubleStarPattern(path, pattern)
	}

	matched, matchErr := filepath.Match(pattern, path)
	if matchErr != nil {
		return false
	}
	if matched {
		return true
	}

	// Also try matching against just the filename.
	matched, matchErr = filepath.Match(pattern, filepath.Base(path))
	if matchErr != nil {
		return false
	}
	return matched
}

// matchDoubleStarPattern handles ** glob patterns:
// "**/foo" matches foo anywhere, "foo/**" anything under foo.
func matchDoubleStarPattern(path, pattern string) bool {
	parts := strings.Split(pattern, "**")

	if parts[0] == "" && len(parts) == 2 {
		suffix := strings.TrimPrefix(parts[1], "/")
		if suffix == "" {
			return true
		}
		if strings.HasSuffix(path, suffix) {
			return true
		}
		for _, part := range strings.Split(path, "/") {
			matched, matchErr := filepath.Match(suffix, part)
			if matchErr == nil && matched {
				return true
			}
		}
		return false
	}

	if parts[1] == "" || parts[1] == "/" {
		prefix := strings.TrimSuffix(parts[0], "/")
		if prefix == "" {
			return true
		}
		return strings.HasPrefix(path, prefix+"/") || path == prefix
	}

	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" && !strings.HasPrefix(path, prefix) {
		return false
	}

	if suffix != "" && !strings.HasSuffix(path, suffix) {
		matched, matchErr := filepath.Match(suffix, filepath.Base(path))
		if matchErr != nil || !matched {
			return false
		}
	}

	return true
}
