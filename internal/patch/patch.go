// Package patch retrofits a nominal identity check onto compiled Elm output.
//
// Elm gives the generated runner no way to tell a real Test value from an
// unrelated record of the same shape. The patch tags every value built by
// the test library's internal Test constructors with a Symbol and replaces
// the runner's placeholder `check` function with one that accepts only
// tagged values.
//
// The patterns follow the compiler's JS output and must be revisited when
// the elm-explorations/test constructors or the compiler's code generation
// change. A pattern that matches nothing is an error.
package patch

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrPatternNotFound means the compiled output no longer has the expected shape
var ErrPatternNotFound = errors.New("patch pattern not found in compiled output")

// Older elm-explorations/test versions need every variant of the internal
// Test type listed; newer ones prefix all variants with ElmTestVariant__.
var testVariantDefinition = regexp.MustCompile(`(?m)^var\s+\$elm_explorations\$test\$Test\$Internal\$(?:ElmTestVariant__\w+|UnitTest|FuzzTest|Labeled|Skipped|Only|Batch)\s*=\s*(?:\w+\(\s*)?function\s*\([\w, ]*\)\s*\{\s*return\s*\{`)

var checkDefinition = regexp.MustCompile(`(?m)^(var\s+\$author\$project\$Runner\$check)\s*=\s*\$author\$project\$Runner\$checkHelperReplaceMe___;?$`)

// Token names the unforgeable value used to tag genuine tests
type Token struct {
	// Ident is the JS binding holding the Symbol
	Ident string
	// Description is the Symbol's description
	Description string
}

// NewToken returns the token used by the generated runner
func NewToken() Token {
	return Token{Ident: "__elmTestSymbol", Description: "elmTestSymbol"}
}

// Allocation is the JS statement creating the token
func (t Token) Allocation() string {
	return fmt.Sprintf("const %s = Symbol('%s');", t.Ident, t.Description)
}

// Result describes what a patch changed
type Result struct {
	Output         string
	Variants       int
	CheckMatches   int
	AlreadyPatched bool
}

// Patcher rewrites compiled runner output with a given token
type Patcher struct {
	token Token
}

// New creates a Patcher for token
func New(token Token) *Patcher {
	return &Patcher{token: token}
}

// Patch tags every test variant constructor, replaces the first `check`
// placeholder and prepends the token allocation. Output that already
// starts with the allocation is returned unchanged.
func (p *Patcher) Patch(js string) (Result, error) {
	allocation := p.token.Allocation()
	if strings.HasPrefix(js, allocation+"\n") {
		return Result{Output: js, AlreadyPatched: true}, nil
	}

	tagged, variants := p.tagVariants(js)
	if variants == 0 {
		return Result{}, fmt.Errorf("%w: no Test variant constructor definitions", ErrPatternNotFound)
	}

	checks := checkDefinition.FindAllStringSubmatchIndex(tagged, -1)
	if len(checks) == 0 {
		return Result{}, fmt.Errorf("%w: no Runner.check placeholder definition", ErrPatternNotFound)
	}
	m := checks[0]
	ident := p.token.Ident
	replacement := tagged[m[2]:m[3]] + " = value => value && value." + ident + " === " + ident +
		" ? $elm$core$Maybe$Just(value) : $elm$core$Maybe$Nothing;"
	patched := tagged[:m[0]] + replacement + tagged[m[1]:]

	return Result{
		Output:       allocation + "\n" + patched,
		Variants:     variants,
		CheckMatches: len(checks),
	}, nil
}

// tagVariants adds the hidden token field to each constructor's returned
// record, skipping records that already carry it.
func (p *Patcher) tagVariants(js string) (string, int) {
	field := " " + p.token.Ident + ": " + p.token.Ident + ","
	matches := testVariantDefinition.FindAllStringIndex(js, -1)

	var b strings.Builder
	b.Grow(len(js) + len(matches)*len(field))
	last, count := 0, 0
	for _, m := range matches {
		b.WriteString(js[last:m[1]])
		last = m[1]
		count++
		if strings.HasPrefix(strings.TrimLeft(js[m[1]:], " \t\r\n"), p.token.Ident+":") {
			continue
		}
		b.WriteString(field)
	}
	b.WriteString(js[last:])
	return b.String(), count
}

// PatchFile patches the compiled file in place
func (p *Patcher) PatchFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("cannot read compiled file: %w", err)
	}
	res, err := p.Patch(string(data))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if res.AlreadyPatched {
		return res, nil
	}
	if err := os.WriteFile(path, []byte(res.Output), 0644); err != nil {
		return Result{}, fmt.Errorf("cannot write patched file: %w", err)
	}
	return res, nil
}
