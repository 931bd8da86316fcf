package generate

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// ErrTemplateMismatch means the template placeholders and the supplied
// replacement keys are not the same set.
var ErrTemplateMismatch = errors.New("the template does not match with the replacement keys")

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Placeholders returns the distinct placeholder names of a template, sorted
func Placeholders(template string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// Render substitutes every {{ name }} in template. Every placeholder needs a
// replacement and every replacement must be used, otherwise nothing is
// rendered.
func Render(template string, replacements map[string]string) (string, error) {
	names := Placeholders(template)

	var missing, unused []string
	for _, name := range names {
		if _, ok := replacements[name]; !ok {
			missing = append(missing, name)
		}
	}
	used := make(map[string]bool, len(names))
	for _, name := range names {
		used[name] = true
	}
	for key := range replacements {
		if !used[key] {
			unused = append(unused, key)
		}
	}
	if len(missing) > 0 || len(unused) > 0 {
		sort.Strings(unused)
		return "", fmt.Errorf("%w: missing [%s], unused [%s]",
			ErrTemplateMismatch, strings.Join(missing, ", "), strings.Join(unused, ", "))
	}

	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return replacements[name]
	}), nil
}

// RenderFile renders the template file into output, overwriting it
func RenderFile(templatePath, output string, replacements map[string]string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("template missing: %w", err)
	}
	content, err := Render(string(data), replacements)
	if err != nil {
		return fmt.Errorf("%s: %w", templatePath, err)
	}
	if err := os.WriteFile(output, []byte(content), 0644); err != nil {
		return fmt.Errorf("unable to write generated file %s: %w", output, err)
	}
	return nil
}
