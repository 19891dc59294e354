package scope

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for the ISMS scope.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "ISMS Scope",
		Description: "Organization context, issues, interested parties, interfaces, exclusions, and the scope statement.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyScope
}

// Siblings is empty: scope is the root module and reads nothing upstream.
func (m *Module) Siblings() []string {
	return nil
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	records := len(doc.Data.InternalIssues) + len(doc.Data.ExternalIssues) +
		len(doc.Data.Parties) + len(doc.Data.Interfaces) + len(doc.Data.Exclusions)
	return module.Summary{
		Present:     doc.Exists,
		Records:     records,
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export renders the scope document to Markdown and writes it to the exports
// directory, returning the artifact path.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	artifact := BuildDocument(doc.Data)

	now := ctx.Now()
	rendered, err := export.RenderMarkdown(artifact, &export.Provenance{
		Document:     artifact.Title,
		Module:       ID,
		Version:      m.Info().Version,
		Organization: doc.Data.Organization,
		Created:      now,
	})
	if err != nil {
		return "", fmt.Errorf("scope: render export: %w", err)
	}
	name := export.Filename("ISMS_Scope_Document", doc.Data.Organization, "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyScope, "exported scope document to %s", name)
	return path, nil
}

// BuildDocument assembles the structured scope document from current state.
// Pure: output depends only on the payload.
func BuildDocument(data Data) *export.Document {
	org := data.Organization
	if org == "" {
		org = "Your Organization"
	}
	doc := &export.Document{Title: "ISMS Scope Document"}
	doc.Para(fmt.Sprintf("**Organization:** %s", org))
	doc.Divider()

	doc.Heading(2, "Internal Issues")
	for _, issue := range data.InternalIssues {
		doc.Bullet(issue)
	}
	doc.Heading(2, "External Issues")
	for _, issue := range data.ExternalIssues {
		doc.Bullet(issue)
	}

	if len(data.Parties) > 0 {
		doc.Heading(2, "Interested Parties")
		rows := [][]string{{"Party", "Requirements", "Influence"}}
		for _, p := range data.Parties {
			rows = append(rows, []string{p.Party, p.Requirements, p.Influence})
		}
		doc.Table(rows...)
	}

	if len(data.Interfaces) > 0 {
		doc.Heading(2, "Interfaces and Dependencies")
		rows := [][]string{{"System", "Dependency", "Impact"}}
		for _, in := range data.Interfaces {
			rows = append(rows, []string{in.System, in.Dependency, in.Impact})
		}
		doc.Table(rows...)
	}

	if len(data.Exclusions) > 0 {
		doc.Heading(2, "Exclusions")
		rows := [][]string{{"Item", "Justification"}}
		for _, ex := range data.Exclusions {
			rows = append(rows, []string{ex.Item, ex.Justification})
		}
		doc.Table(rows...)
	}

	doc.Heading(2, "Scope Statement")
	if len(data.Statement.Processes) > 0 {
		doc.Heading(3, "Processes")
		for _, v := range data.Statement.Processes {
			doc.Bullet(v)
		}
	}
	if len(data.Statement.Departments) > 0 {
		doc.Heading(3, "Departments")
		for _, v := range data.Statement.Departments {
			doc.Bullet(v)
		}
	}
	if len(data.Statement.Locations) > 0 {
		doc.Heading(3, "Locations")
		for _, v := range data.Statement.Locations {
			doc.Bullet(v)
		}
	}
	if data.Statement.Notes != "" {
		doc.Para(data.Statement.Notes)
	}

	if data.Narrative != "" {
		doc.Heading(2, "Scope Narrative")
		doc.Blocks = append(doc.Blocks, export.ParseMarkdown(data.Narrative).Blocks...)
	}
	return doc
}
