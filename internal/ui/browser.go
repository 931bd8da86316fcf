package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jjant/elm-test-rs/internal/domain"
)

// Browser lets the user pick one of the discovered test modules
type Browser interface {
	Browse(modules []domain.ModuleTests) (*domain.ModuleTests, error)
}

// ModuleBrowser displays test modules and their tests in an interactive TUI
type ModuleBrowser struct {
	formatter *Formatter
}

// NewModuleBrowser creates a new ModuleBrowser
func NewModuleBrowser(formatter *Formatter) *ModuleBrowser {
	return &ModuleBrowser{formatter: formatter}
}

// Browse shows the modules and returns the one selected with Enter, or nil
// when the user quits.
func (b *ModuleBrowser) Browse(modules []domain.ModuleTests) (*domain.ModuleTests, error) {
	if len(modules) == 0 {
		return nil, nil
	}

	app := tview.NewApplication()
	var selected *domain.ModuleTests

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range modules {
		list.AddItem(moduleItemText(modules[i], i+1), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 2, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Test Modules (%d modules, %d tests) | ↑↓ to navigate, [yellow]Enter[white] to run module, → to view tests, Esc/q to exit ",
			len(modules), domain.CountTests(modules)))

	updateDetails := func(index int) {
		if index < 0 || index >= len(modules) {
			return
		}
		statsView.SetText(b.moduleStats(modules[index]))
		detailsView.SetText(moduleDetails(modules[index]))
	}

	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		updateDetails(index)
	})
	list.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		selected = &modules[index]
		app.Stop()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyEsc, tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	updateDetails(0)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return nil, fmt.Errorf("failed to run TUI: %w", err)
	}
	return selected, nil
}

func moduleItemText(m domain.ModuleTests, number int) string {
	if len(m.Tests) == 0 {
		return fmt.Sprintf("[yellow]%d.[gray] %s[white]", number, m.Module)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", number, m.Module)
}

func (b *ModuleBrowser) moduleStats(m domain.ModuleTests) string {
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]\n", b.formatter.Relative(string(m.Path)))
}

// moduleDetails lists the qualified tests of a module using tview color tags
func moduleDetails(m domain.ModuleTests) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[cyan]Module: %s[white]\n\n", m.Module)
	if len(m.Tests) == 0 {
		builder.WriteString("[red]No exposed tests[white]\n")
		return builder.String()
	}
	fmt.Fprintf(&builder, "[yellow]Tests (%d):[white]\n", len(m.Tests))
	for _, entry := range m.Entries() {
		fmt.Fprintf(&builder, "  %s\n", entry.Qualified())
	}
	return builder.String()
}
