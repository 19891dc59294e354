// Package tracking implements the implementation tracking module: a task
// board derived from the treatment plans' milestones. Derivation reads the
// plan module's state but only ever writes its own storage key.
package tracking

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/treatmentplan"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "implementation-tracking"

// Task statuses. Any status may be set from any other.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Task is one tracked implementation step. Tasks derived from milestones
// carry the source control and milestone ids; manually added tasks leave them
// empty.
type Task struct {
	ID          string `json:"id"`
	ControlID   string `json:"controlId,omitempty"`
	MilestoneID string `json:"milestoneId,omitempty"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status"`
}

// Data is the tracking module's persisted payload.
type Data struct {
	Tasks []Task `json:"tasks"`
}

// Defaults returns an empty task board.
func Defaults() Data {
	return Data{}
}

// Store opens the tracking module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyTracking, ctx.Workspace.KeyPath(workspace.KeyTracking), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// AddTask appends a manually created task with an id from the monotonic
// counter.
func AddTask(doc *store.Doc[Data], description, dueDate string) Task {
	syncSeq(doc)
	task := Task{
		ID:          fmt.Sprintf("TSK-%03d", doc.NextSeq()),
		Description: description,
		DueDate:     dueDate,
		Status:      StatusPending,
	}
	doc.Data.Tasks = append(doc.Data.Tasks, task)
	return task
}

// SetStatus updates a task's status; no transition graph is enforced.
func (d *Data) SetStatus(taskID, status string) error {
	switch status {
	case StatusPending, StatusInProgress, StatusDone:
	default:
		return fmt.Errorf("tracking: unknown status %q", status)
	}
	for i, task := range d.Tasks {
		if task.ID == taskID {
			d.Tasks[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("tracking: no task %s", taskID)
}

// taskForMilestone finds the derived task for a plan milestone.
func (d Data) taskForMilestone(controlID, milestoneID string) (int, bool) {
	for i, task := range d.Tasks {
		if task.ControlID == controlID && task.MilestoneID == milestoneID {
			return i, true
		}
	}
	return 0, false
}

// syncSeq advances the counter past existing task ids.
func syncSeq(doc *store.Doc[Data]) {
	for _, task := range doc.Data.Tasks {
		var n int64
		if _, err := fmt.Sscanf(task.ID, "TSK-%d", &n); err == nil && n > doc.Meta.NextSeq {
			doc.Meta.NextSeq = n
		}
	}
}

// Sync derives tasks from the treatment plans: every milestone gets exactly
// one task, completed milestones mark their task done. Idempotent, add-only
// for new milestones; tasks for deleted milestones stay so manual work is
// never thrown away.
func Sync(ctx *module.Context) ([]string, error) {
	plans := treatmentplan.Store(ctx).Load().Data

	var added []string
	err := Store(ctx).Mutate(func(doc *store.Doc[Data]) error {
		for _, plan := range plans.Plans {
			for _, ms := range plan.Milestones {
				if i, ok := doc.Data.taskForMilestone(plan.ControlID, ms.ID); ok {
					if ms.Completed {
						doc.Data.Tasks[i].Status = StatusDone
					}
					continue
				}
				syncSeq(doc)
				task := Task{
					ID:          fmt.Sprintf("TSK-%03d", doc.NextSeq()),
					ControlID:   plan.ControlID,
					MilestoneID: ms.ID,
					Description: fmt.Sprintf("%s: %s", plan.ControlID, ms.Description),
					DueDate:     ms.TargetDate,
					Status:      StatusPending,
				}
				if ms.Completed {
					task.Status = StatusDone
				}
				doc.Data.Tasks = append(doc.Data.Tasks, task)
				added = append(added, task.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tracking: sync: %w", err)
	}
	return added, nil
}
