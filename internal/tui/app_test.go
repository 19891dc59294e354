package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules"
	"github.com/kingrea/ismsforge/internal/workspace"
)

func testContext(t *testing.T) *module.Context {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatal(err)
	}
	lb, err := logbook.New(ws.LogbookPath())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.New(ws.ProjectDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := module.NewContext(cfg, ws, lb)
	return ctx.WithClock(func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	})
}

func TestRefreshListsEveryModule(t *testing.T) {
	app := NewApp(testContext(t))
	msg := app.Init()()
	refresh, ok := msg.(refreshMsg)
	if !ok {
		t.Fatalf("Init produced %T, want refreshMsg", msg)
	}
	if refresh.err != nil {
		t.Fatal(refresh.err)
	}
	if len(refresh.items) != len(modules.Order()) {
		t.Fatalf("items = %d, want %d", len(refresh.items), len(modules.Order()))
	}
	model, _ := app.Update(refresh)
	updated := model.(*App)
	if len(updated.board.Items()) != len(modules.Order()) {
		t.Fatalf("board items = %d", len(updated.board.Items()))
	}
	first, ok := updated.board.Items()[0].(moduleItem)
	if !ok {
		t.Fatalf("board item type %T", updated.board.Items()[0])
	}
	if first.id != modules.Order()[0] {
		t.Fatalf("first row = %s, want %s", first.id, modules.Order()[0])
	}
}

func TestQuitKey(t *testing.T) {
	app := NewApp(testContext(t))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestDeriveKeyRefusesNonDeriver(t *testing.T) {
	app := NewApp(testContext(t))
	refresh := app.Init()().(refreshMsg)
	model, _ := app.Update(refresh)
	app = model.(*App)

	// scope is first in the board order and has no derivation.
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	app = model.(*App)
	if cmd != nil {
		t.Fatal("derive on a non-deriver must not dispatch")
	}
	if app.statusMsg == "" {
		t.Fatal("expected an explanatory status line")
	}
}

func TestExportKeyProducesArtifact(t *testing.T) {
	ctx := testContext(t)
	app := NewApp(ctx)
	refresh := app.Init()().(refreshMsg)
	model, _ := app.Update(refresh)
	app = model.(*App)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("enter should dispatch an export")
	}
	result := cmd()
	done, ok := result.(exportDoneMsg)
	if !ok {
		t.Fatalf("export command produced %T", result)
	}
	if done.err != nil {
		t.Fatal(done.err)
	}
	if done.path == "" {
		t.Fatal("export should report the artifact path")
	}
	model, next := app.Update(done)
	app = model.(*App)
	if app.statusMsg == "" {
		t.Fatal("export result should surface on the status line")
	}
	if next == nil {
		t.Fatal("export completion should trigger a board refresh")
	}
}

func TestExternalChangeTriggersBoardRefresh(t *testing.T) {
	ctx := testContext(t)
	app := NewApp(ctx)
	refresh := app.Init()().(refreshMsg)
	model, _ := app.Update(refresh)
	app = model.(*App)

	model, cmd := app.Update(DataChanged{Key: workspace.KeyScope})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("an external change must schedule a board refresh")
	}
	if app.statusMsg == "" {
		t.Fatal("an external change should surface on the status line")
	}
	next, ok := cmd().(refreshMsg)
	if !ok {
		t.Fatalf("scheduled command produced %T, want refreshMsg", cmd())
	}
	if next.err != nil {
		t.Fatal(next.err)
	}
	if len(next.items) != len(modules.Order()) {
		t.Fatalf("refresh items = %d, want %d", len(next.items), len(modules.Order()))
	}
}

func TestWindowSizeResizesBoard(t *testing.T) {
	app := NewApp(testContext(t))
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(*App)
	if app.width != 100 || app.height != 40 {
		t.Fatalf("size = %dx%d", app.width, app.height)
	}
}
