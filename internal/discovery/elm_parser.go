package discovery

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elm"
)

// TestParser extracts the names of the potential tests exposed by a module
type TestParser interface {
	ExposedTests(ctx context.Context, content []byte) ([]string, error)
}

// ElmParser finds exposed top-level values that may be tests.
// It uses Tree-sitter so that layout and comments are handled correctly.
//
// A value is a potential test when it is exposed, takes no arguments and,
// if annotated, is annotated as Test. The generated runner checks the
// remaining candidates at runtime.
type ElmParser struct {
	parser *sitter.Parser
}

// NewElmParser creates a new ElmParser
func NewElmParser() *ElmParser {
	parser := sitter.NewParser()
	parser.SetLanguage(elm.GetLanguage())
	return &ElmParser{parser: parser}
}

// ExposedTests returns potential test names in declaration order
func (p *ElmParser) ExposedTests(ctx context.Context, content []byte) ([]string, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	exposeAll, exposed := true, map[string]bool{}
	annotations := map[string]string{}
	var declared []string

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "module_declaration":
			exposeAll, exposed = exposing(child, content)
		case "type_annotation":
			name, typ := splitAnnotation(child.Content(content))
			if name != "" {
				annotations[name] = typ
			}
		case "value_declaration":
			if name, ok := constantName(child, content); ok {
				declared = append(declared, name)
			}
		}
	}

	seen := map[string]bool{}
	var tests []string
	for _, name := range declared {
		if seen[name] || (!exposeAll && !exposed[name]) {
			continue
		}
		if typ, ok := annotations[name]; ok && typ != "Test" && typ != "Test.Test" {
			continue
		}
		seen[name] = true
		tests = append(tests, name)
	}
	return tests, nil
}

// exposing reads the exposing list of the module declaration
func exposing(module *sitter.Node, content []byte) (bool, map[string]bool) {
	exposed := map[string]bool{}
	var list *sitter.Node
	for i := 0; i < int(module.NamedChildCount()); i++ {
		if c := module.NamedChild(i); c.Type() == "exposing_list" {
			list = c
			break
		}
	}
	if list == nil {
		return true, exposed
	}

	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch c.Type() {
		case "double_dot":
			return true, exposed
		case "exposed_value":
			exposed[strings.TrimSpace(c.Content(content))] = true
		}
	}
	return false, exposed
}

// constantName returns the declared name if the declaration has no arguments
func constantName(decl *sitter.Node, content []byte) (string, bool) {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		c := decl.NamedChild(i)
		if c.Type() != "function_declaration_left" {
			continue
		}
		fields := strings.Fields(c.Content(content))
		if len(fields) != 1 || !isLowerName(fields[0]) {
			return "", false
		}
		return fields[0], true
	}
	return "", false
}

func splitAnnotation(text string) (string, string) {
	name, typ, ok := strings.Cut(text, ":")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(name), strings.Join(strings.Fields(typ), " ")
}

func isLowerName(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLower(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}
