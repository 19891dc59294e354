// cmd/ismsforge/main.go
//
// Entry point for the ismsforge CLI. Running `ismsforge` from a project
// directory initializes the .ismsforge workspace and opens the module board
// TUI. Headless flags run a single operation and exit, which is what CI and
// scripted document generation use:
//
//	ismsforge -list
//	ismsforge -export statement-of-applicability
//	ismsforge -derive security-objectives
//	ismsforge -draft-scope

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/ismsforge/extensions"
	"github.com/kingrea/ismsforge/internal/bridge"
	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/draft"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/logging"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules"
	"github.com/kingrea/ismsforge/internal/modules/scope"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/tui"
	"github.com/kingrea/ismsforge/internal/workspace"
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	exportID := flag.String("export", "", "export one module's document and exit (module id, or 'all')")
	deriveID := flag.String("derive", "", "run one module's derivation and exit (module id, or 'all')")
	draftScope := flag.Bool("draft-scope", false, "draft the scope narrative via the configured LLM and exit")
	listModules := flag.Bool("list", false, "list modules with their storage state and exit")
	flag.Parse()

	project := strings.TrimSpace(*projectDir)
	if project == "" {
		cwd, err := os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
		project = cwd
	}
	project, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}

	ws := workspace.New(project)
	if err := ws.Init(); err != nil {
		die("init %s: %v", workspace.ForgeDir, err)
	}
	if err := config.EnsureDefaultFile(ws); err != nil {
		die("write default config: %v", err)
	}
	cfg, err := config.New(project)
	if err != nil {
		die("load config: %v", err)
	}

	logger, err := logging.New(ws.LogsDir())
	if err != nil {
		die("open log: %v", err)
	}
	defer logger.Close()

	lb, err := logbook.New(ws.LogbookPath())
	if err != nil {
		die("open logbook: %v", err)
	}

	ctx := module.NewContext(cfg, ws, lb)
	ctx.Logger = logger

	bundle, files, problems := extensions.Discover(ws.ExtensionsDir())
	for _, problem := range problems {
		logger.Printf("extensions: %v", problem)
		fmt.Fprintf(os.Stderr, "warning: %v\n", problem)
	}
	if applied := extensions.Apply(bundle); applied.Total() > 0 {
		logger.Printf("extensions: loaded %d definitions (%d catalog entries, %d rules)",
			len(files), applied.Total()-applied.Rules, applied.Rules)
	}

	headless := *exportID != "" || *deriveID != "" || *draftScope || *listModules
	registry := modules.Registry()

	if headless {
		runHeadless(ctx, registry, *exportID, *deriveID, *draftScope, *listModules)
		return
	}

	// Interactive run. The program handle is created first so the bridge
	// processor and the state watcher can push re-read triggers into the
	// event loop; the board refreshes itself when a sibling process writes.
	program := tea.NewProgram(tui.NewApp(ctx), tea.WithAltScreen())

	settings := bridge.SettingsFromConfig(cfg)
	if settings.Enabled {
		server := bridge.NewServer(settings,
			bridge.WithLogger(logger),
			bridge.WithProcessor(bridge.EventProcessorFunc(func(evt bridge.Event) error {
				program.Send(tui.DataChanged{Key: evt.StorageKey})
				return nil
			})),
		)
		if err := server.Start(context.Background()); err != nil {
			// Another ismsforge process may already hold the port; we still
			// publish to it.
			logger.Printf("bridge: %v", err)
		} else {
			defer server.Shutdown(context.Background())
		}
		publisher := bridge.NewPublisher(settings.URL(), bridge.PublisherWithLogger(logger))
		ctx.Notify = publisher.DataUpdated
	}

	watcher, err := store.Watch(ws.StateDir())
	if err != nil {
		logger.Printf("watch state dir: %v", err)
	} else {
		defer watcher.Close()
		go func() {
			for change := range watcher.Changes() {
				program.Send(tui.DataChanged{Key: change.Key})
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		die("tui: %v", err)
	}
}

func runHeadless(ctx *module.Context, registry *module.Registry, exportID, deriveID string, draftScope, listModules bool) {
	if listModules {
		for _, id := range modules.Order() {
			mod, err := registry.Resolve(id)
			if err != nil {
				die("resolve %s: %v", id, err)
			}
			summary := mod.Summary(ctx)
			state := "empty"
			if summary.Present {
				state = fmt.Sprintf("%d records, updated %s", summary.Records, summary.LastUpdated.Format("2006-01-02"))
			}
			fmt.Printf("%-28s %s\n", id, state)
		}
		return
	}

	if deriveID != "" {
		for _, id := range expandIDs(deriveID) {
			mod, err := registry.Resolve(id)
			if err != nil {
				die("resolve %s: %v", id, err)
			}
			deriver, ok := mod.(module.Deriver)
			if !ok {
				if deriveID == "all" {
					continue
				}
				die("%s has no derivation", id)
			}
			outcome, err := deriver.Derive(ctx)
			if err != nil {
				die("derive %s: %v", id, err)
			}
			if len(outcome.Added) == 0 {
				fmt.Printf("%s: nothing new to select\n", id)
			} else {
				fmt.Printf("%s: added %s\n", id, strings.Join(outcome.Added, ", "))
			}
		}
	}

	if exportID != "" {
		for _, id := range expandIDs(exportID) {
			mod, err := registry.Resolve(id)
			if err != nil {
				die("resolve %s: %v", id, err)
			}
			path, err := mod.Export(ctx)
			if err != nil {
				die("export %s: %v", id, err)
			}
			fmt.Printf("%s: wrote %s\n", id, path)
		}
	}

	if draftScope {
		if err := runDraftScope(ctx); err != nil {
			die("draft scope: %v", err)
		}
	}
}

// expandIDs turns "all" into the full presentation order.
func expandIDs(id string) []string {
	if id == "all" {
		return modules.Order()
	}
	return []string{id}
}

func runDraftScope(ctx *module.Context) error {
	client := draft.NewClient(ctx.Config.Project.LLM)
	data := scope.Store(ctx).Load().Data
	narrative, err := draft.DraftScope(context.Background(), client, data)
	if err != nil {
		return err
	}
	err = scope.Store(ctx).Mutate(func(doc *store.Doc[scope.Data]) error {
		doc.Data.Narrative = narrative
		return nil
	})
	if err != nil {
		return fmt.Errorf("store narrative: %w", err)
	}
	ctx.Logbook.Record(workspace.KeyScope, "drafted scope narrative (%d characters)", len(narrative))
	fmt.Println(narrative)
	return nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
