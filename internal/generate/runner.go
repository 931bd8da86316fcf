package generate

import (
	"fmt"
	"strings"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// Runner.elm placeholders
const (
	KeyUserImports = "user_imports"
	KeyTests       = "tests"
)

// RunnerReplacements renders the imports and the list of module test
// groups of Runner.elm. Each exposed value is wrapped in `check`, which
// keeps only genuine tests at runtime.
func RunnerReplacements(modules []domain.ModuleTests) map[string]string {
	imports := make([]string, 0, len(modules))
	groups := make([]string, 0, len(modules))

	for _, m := range modules {
		imports = append(imports, "import "+string(m.Module))

		checks := make([]string, 0, len(m.Tests))
		for _, entry := range m.Entries() {
			checks = append(checks, "check "+entry.Qualified())
		}
		groups = append(groups, fmt.Sprintf(`{ module_ = "%s"
      , maybeTests =
            [ %s
            ]
      }`, m.Module, strings.Join(checks, "\n            , ")))
	}

	return map[string]string{
		KeyUserImports: strings.Join(imports, "\n"),
		KeyTests:       strings.Join(groups, "\n    , "),
	}
}
