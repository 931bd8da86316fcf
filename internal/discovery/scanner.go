package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// Scanner expands file patterns into the canonical set of test files
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a new Scanner
func NewScanner(logger *zap.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// DefaultPatterns are the globs used when no files are given on the command line
func DefaultPatterns(projectRoot string) []string {
	return []string{
		filepath.Join(projectRoot, "tests", "*.elm"),
		filepath.Join(projectRoot, "tests", "**", "*.elm"),
	}
}

// IsPattern reports whether arg contains glob metacharacters
func IsPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// Collect splits command-line arguments into glob patterns and explicit
// files and returns the union of both. With no arguments the default test
// globs of the project are used.
func (s *Scanner) Collect(projectRoot string, args []string) ([]domain.TestFile, error) {
	if len(args) == 0 {
		return s.Scan(DefaultPatterns(projectRoot))
	}

	var patterns, explicit []string
	for _, arg := range args {
		if IsPattern(arg) {
			patterns = append(patterns, arg)
		} else {
			explicit = append(explicit, arg)
		}
	}

	globbed, err := s.Scan(patterns)
	if err != nil {
		return nil, err
	}
	listed, err := s.Resolve(explicit)
	if err != nil {
		return nil, err
	}
	return union(globbed, listed), nil
}

// Scan expands every pattern ("**" is supported) and returns the
// deduplicated, sorted set of canonical paths. Matches that cannot be
// canonicalized are dropped.
func (s *Scanner) Scan(patterns []string) ([]domain.TestFile, error) {
	seen := make(map[domain.TestFile]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to read glob pattern %s: %w", pattern, err)
		}
		s.logger.Debug("Expanded glob", zap.String("pattern", pattern), zap.Int("matches", len(matches)))

		for _, match := range matches {
			file, err := canonicalize(match)
			if err != nil {
				s.logger.Debug("Dropping unresolvable match", zap.String("path", match), zap.Error(err))
				continue
			}
			if info, err := os.Stat(string(file)); err != nil || info.IsDir() {
				continue
			}
			seen[file] = true
		}
	}

	return sortedFiles(seen), nil
}

// Resolve canonicalizes an explicit list of files. Every file must exist.
func (s *Scanner) Resolve(paths []string) ([]domain.TestFile, error) {
	seen := make(map[domain.TestFile]bool)
	for _, path := range paths {
		file, err := canonicalize(path)
		if err != nil {
			return nil, fmt.Errorf("error in canonicalize of %s: %w", path, err)
		}
		seen[file] = true
	}
	return sortedFiles(seen), nil
}

func canonicalize(path string) (domain.TestFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return domain.TestFile(resolved), nil
}

func union(a, b []domain.TestFile) []domain.TestFile {
	seen := make(map[domain.TestFile]bool, len(a)+len(b))
	for _, f := range a {
		seen[f] = true
	}
	for _, f := range b {
		seen[f] = true
	}
	return sortedFiles(seen)
}

func sortedFiles(set map[domain.TestFile]bool) []domain.TestFile {
	files := make([]domain.TestFile, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
	return files
}
