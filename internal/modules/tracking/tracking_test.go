package tracking

import (
	"testing"
	"time"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/treatmentplan"
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

func seedPlanWithMilestones(t *testing.T, ctx *module.Context) []treatmentplan.Milestone {
	t.Helper()
	st := treatmentplan.Store(ctx)
	doc := st.Load()
	if _, err := doc.Data.Save(treatmentplan.Plan{
		ControlID: "A.8.8",
		Phase:     treatmentplan.PhaseOne,
		Status:    treatmentplan.StatusInProgress,
		Priority:  treatmentplan.PriorityHigh,
	}); err != nil {
		t.Fatal(err)
	}
	first, err := treatmentplan.AddMilestone(&doc, "A.8.8", "Deploy scanner", "2026-09-30")
	if err != nil {
		t.Fatal(err)
	}
	second, err := treatmentplan.AddMilestone(&doc, "A.8.8", "Define patch SLAs", "2026-10-31")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}
	return []treatmentplan.Milestone{first, second}
}

func TestSyncCreatesOneTaskPerMilestone(t *testing.T) {
	ctx := testContext(t)
	seedPlanWithMilestones(t, ctx)

	added, err := Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 2 {
		t.Fatalf("added = %v, want two tasks", added)
	}

	again, err := Sync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Fatalf("second sync added %v, want nothing", again)
	}
	data := Store(ctx).Load().Data
	if len(data.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(data.Tasks))
	}
}

func TestSyncMarksCompletedMilestonesDone(t *testing.T) {
	ctx := testContext(t)
	milestones := seedPlanWithMilestones(t, ctx)
	if _, err := Sync(ctx); err != nil {
		t.Fatal(err)
	}

	st := treatmentplan.Store(ctx)
	doc := st.Load()
	at := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if err := treatmentplan.CompleteMilestone(&doc, "A.8.8", milestones[0].ID, at); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	if _, err := Sync(ctx); err != nil {
		t.Fatal(err)
	}
	data := Store(ctx).Load().Data
	i, ok := data.taskForMilestone("A.8.8", milestones[0].ID)
	if !ok || data.Tasks[i].Status != StatusDone {
		t.Fatalf("completed milestone's task not done: %+v", data.Tasks)
	}
	j, ok := data.taskForMilestone("A.8.8", milestones[1].ID)
	if !ok || data.Tasks[j].Status != StatusPending {
		t.Fatalf("open milestone's task changed: %+v", data.Tasks)
	}
}

func TestManualTasksSurviveSync(t *testing.T) {
	ctx := testContext(t)
	st := Store(ctx)
	doc := st.Load()
	task := AddTask(&doc, "Draft awareness newsletter", "2026-09-01")
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}
	seedPlanWithMilestones(t, ctx)
	if _, err := Sync(ctx); err != nil {
		t.Fatal(err)
	}
	data := Store(ctx).Load().Data
	if len(data.Tasks) != 3 {
		t.Fatalf("tasks = %d, want manual task plus two derived", len(data.Tasks))
	}
	found := false
	for _, got := range data.Tasks {
		if got.ID == task.ID && got.Description == task.Description {
			found = true
		}
	}
	if !found {
		t.Fatalf("manual task lost: %+v", data.Tasks)
	}
}

func TestSetStatusValidates(t *testing.T) {
	var data Data
	data.Tasks = []Task{{ID: "TSK-001", Status: StatusPending}}
	if err := data.SetStatus("TSK-001", "blocked"); err == nil {
		t.Fatal("unknown status must be rejected")
	}
	if err := data.SetStatus("TSK-001", StatusDone); err != nil {
		t.Fatal(err)
	}
	if err := data.SetStatus("TSK-999", StatusDone); err == nil {
		t.Fatal("unknown task must be rejected")
	}
}
