package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jjant/elm-test-rs/internal/domain"
)

var (
	// ErrNoSourceDirectory means a test file lies outside every source directory
	ErrNoSourceDirectory = errors.New("file matches no source directory")
	// ErrAmbiguousSourceDirectory means a test file lies under 2+ source directories
	ErrAmbiguousSourceDirectory = errors.New("file matches 2+ source directories")
	// ErrInvalidModuleName means a path segment is not a valid Elm module segment
	ErrInvalidModuleName = errors.New("invalid module name")
)

var upperName = regexp.MustCompile(`^\p{Lu}[_\d\p{L}]*$`)

// ResolveModuleName derives the dotted module name of file from the single
// source directory containing it. Both roots and file must be canonical.
// By deriving the name from the path the module can be imported even if it
// does not compile, so the compiler reports what is wrong with it.
func ResolveModuleName(roots []string, file domain.TestFile) (domain.Module, error) {
	var matching []string
	for _, root := range roots {
		if isWithin(root, string(file)) {
			matching = append(matching, root)
		}
	}

	switch len(matching) {
	case 0:
		return "", fmt.Errorf("%w: %s (imports won't work then)", ErrNoSourceDirectory, file)
	case 1:
	default:
		return "", fmt.Errorf("%w: %s is under %s", ErrAmbiguousSourceDirectory, file, strings.Join(matching, ", "))
	}

	rel, err := filepath.Rel(matching[0], string(file))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoSourceDirectory, file)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".elm")

	for _, part := range parts {
		if !upperName.MatchString(part) {
			return "", fmt.Errorf("%w: segment %q of %s", ErrInvalidModuleName, part, file)
		}
	}
	return domain.Module(strings.Join(parts, ".")), nil
}

// isWithin reports whether path is a strict descendant of dir, comparing
// whole path components.
func isWithin(dir, path string) bool {
	dir = filepath.Clean(dir)
	path = filepath.Clean(path)
	if dir == path {
		return false
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
