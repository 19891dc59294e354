// internal/tui/app.go
//
// The module board TUI. Built on bubbletea's Elm-style loop: the App model
// holds all state, Update reacts to messages, View renders the board. Each
// row is one compliance module with its presence dot, record count, and
// integration status; keys trigger export and derive without leaving the
// board.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules"
	"github.com/kingrea/ismsforge/internal/resolver"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// moduleItem is one board row.
type moduleItem struct {
	id       string
	name     string
	desc     string
	present  bool
	records  int
	siblings resolver.Presence
	derives  bool
}

func (i moduleItem) Title() string {
	dot := dimStyle.Render("○")
	if i.present {
		dot = okStyle.Render("●")
	}
	return fmt.Sprintf("%s %s", dot, i.name)
}

func (i moduleItem) Description() string {
	parts := []string{i.desc, fmt.Sprintf("%d records", i.records)}
	if len(i.siblings) > 0 {
		ready := 0
		for _, ok := range i.siblings {
			if ok {
				ready++
			}
		}
		parts = append(parts, fmt.Sprintf("%d/%d upstream ready", ready, len(i.siblings)))
	}
	if i.derives {
		parts = append(parts, "derivable")
	}
	return strings.Join(parts, " · ")
}

func (i moduleItem) FilterValue() string { return i.name }

type refreshMsg struct {
	items []list.Item
	err   error
}

type exportDoneMsg struct {
	moduleID string
	path     string
	err      error
}

type deriveDoneMsg struct {
	moduleID string
	added    []string
	err      error
}

// DataChanged reports that a storage key was rewritten outside this event
// loop: a sibling process posted a data-updated event to the bridge, or the
// state-directory watcher saw the file change. The board re-reads module
// state in response. Sent into the program via tea.Program.Send.
type DataChanged struct {
	Key string
}

// App is the board model.
type App struct {
	ctx      *module.Context
	registry *module.Registry

	board     list.Model
	statusMsg string
	showLog   bool
	logLines  []string
	width     int
	height    int
}

// NewApp builds the board over the built-in registry.
func NewApp(ctx *module.Context) *App {
	board := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	board.Title = "ismsforge — ISMS module board"
	board.SetShowStatusBar(false)
	board.SetFilteringEnabled(false)
	return &App{
		ctx:      ctx,
		registry: modules.Registry(),
		board:    board,
	}
}

// Init starts the first board refresh.
func (a *App) Init() tea.Cmd {
	return a.refreshCmd()
}

func (a *App) refreshCmd() tea.Cmd {
	ctx := a.ctx
	registry := a.registry
	return func() tea.Msg {
		var items []list.Item
		for _, id := range modules.Order() {
			mod, err := registry.Resolve(id)
			if err != nil {
				return refreshMsg{err: err}
			}
			summary := mod.Summary(ctx)
			_, derives := mod.(module.Deriver)
			items = append(items, moduleItem{
				id:       id,
				name:     mod.Info().Name,
				desc:     mod.Info().Description,
				present:  summary.Present,
				records:  summary.Records,
				siblings: resolver.Probe(ctx.Workspace, mod.Siblings()),
				derives:  derives,
			})
		}
		return refreshMsg{items: items}
	}
}

func (a *App) exportCmd(id string) tea.Cmd {
	ctx := a.ctx
	registry := a.registry
	return func() tea.Msg {
		mod, err := registry.Resolve(id)
		if err != nil {
			return exportDoneMsg{moduleID: id, err: err}
		}
		path, err := mod.Export(ctx)
		return exportDoneMsg{moduleID: id, path: path, err: err}
	}
}

func (a *App) deriveCmd(id string) tea.Cmd {
	ctx := a.ctx
	registry := a.registry
	return func() tea.Msg {
		mod, err := registry.Resolve(id)
		if err != nil {
			return deriveDoneMsg{moduleID: id, err: err}
		}
		deriver, ok := mod.(module.Deriver)
		if !ok {
			return deriveDoneMsg{moduleID: id, err: fmt.Errorf("tui: %s has no derivation", id)}
		}
		outcome, err := deriver.Derive(ctx)
		return deriveDoneMsg{moduleID: id, added: outcome.Added, err: err}
	}
}

// Update is the bubbletea message handler.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.board.SetSize(msg.Width-2, msg.Height-6)
		return a, nil

	case DataChanged:
		a.statusMsg = dimStyle.Render(fmt.Sprintf("%s changed on disk", msg.Key))
		return a, a.refreshCmd()

	case refreshMsg:
		if msg.err != nil {
			a.statusMsg = errorStyle.Render(msg.err.Error())
			return a, nil
		}
		a.board.SetItems(msg.items)
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.statusMsg = errorStyle.Render(fmt.Sprintf("export %s: %v", msg.moduleID, msg.err))
		} else {
			a.statusMsg = statusStyle.Render(fmt.Sprintf("exported %s → %s", msg.moduleID, msg.path))
		}
		return a, a.refreshCmd()

	case deriveDoneMsg:
		if msg.err != nil {
			a.statusMsg = errorStyle.Render(fmt.Sprintf("derive %s: %v", msg.moduleID, msg.err))
		} else if len(msg.added) == 0 {
			a.statusMsg = dimStyle.Render(fmt.Sprintf("derive %s: nothing new", msg.moduleID))
		} else {
			a.statusMsg = statusStyle.Render(fmt.Sprintf("derive %s: added %s", msg.moduleID, strings.Join(msg.added, ", ")))
		}
		return a, a.refreshCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "r":
			a.statusMsg = dimStyle.Render("refreshing…")
			return a, a.refreshCmd()
		case "l":
			a.showLog = !a.showLog
			if a.showLog {
				a.logLines = a.ctx.Logbook.Tail(8)
			}
			return a, nil
		case "enter", "e":
			if item, ok := a.board.SelectedItem().(moduleItem); ok {
				a.statusMsg = dimStyle.Render(fmt.Sprintf("exporting %s…", item.id))
				return a, a.exportCmd(item.id)
			}
			return a, nil
		case "d":
			if item, ok := a.board.SelectedItem().(moduleItem); ok {
				if !item.derives {
					a.statusMsg = warnStyle.Render(fmt.Sprintf("%s has no derivation", item.id))
					return a, nil
				}
				a.statusMsg = dimStyle.Render(fmt.Sprintf("deriving %s…", item.id))
				return a, a.deriveCmd(item.id)
			}
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.board, cmd = a.board.Update(msg)
	return a, cmd
}

// View renders the board.
func (a *App) View() string {
	var sb strings.Builder
	sb.WriteString(a.board.View())
	sb.WriteByte('\n')
	if a.statusMsg != "" {
		sb.WriteString(a.statusMsg)
		sb.WriteByte('\n')
	}
	if a.showLog {
		sb.WriteString(titleStyle.Render("activity"))
		sb.WriteByte('\n')
		for _, line := range a.logLines {
			sb.WriteString(dimStyle.Render(line))
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(dimStyle.Render("enter/e export · d derive · l log · r refresh · q quit"))
	return sb.String()
}
