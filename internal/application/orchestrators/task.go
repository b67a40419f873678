package orchestrators

import (
	"context"
	"strings"
	"time"

	"coachsite/internal/domain/task"
)

// TaskStoreForOrchestrator defines the store interface needed by task orchestrators.
type TaskStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (task.Task, error)
	Save(ctx context.Context, t task.Task) error
	Delete(ctx context.Context, id string) error
}

// --- Create Task ---

// CreateTaskInput carries input for a new task.
type CreateTaskInput struct {
	MemberID    string
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD or empty
}

// TaskDeps holds dependencies for task orchestrators.
type TaskDeps struct {
	TaskStore   TaskStoreForOrchestrator
	MemberStore MemberGetter
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateTask adds a todo task to a member's board.
// PRE: MemberID exists; Title non-empty
// POST: task persisted with status todo
func ExecuteCreateTask(ctx context.Context, input CreateTaskInput, deps TaskDeps) (task.Task, error) {
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return task.Task{}, err
	}
	now := deps.Now()
	t := task.Task{
		ID:          deps.GenerateID(),
		MemberID:    input.MemberID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      task.StatusTodo,
		DueDate:     strings.TrimSpace(input.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return task.Task{}, invalid(err)
	}
	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// --- Update Task ---

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	TaskID      string
	Status      *string
	Title       *string
	Description *string
	DueDate     *string // "" clears the due date
}

// ExecuteUpdateTask moves a task between columns and edits its details.
// PRE: TaskID exists
// POST: changed fields and UpdatedAt persisted
func ExecuteUpdateTask(ctx context.Context, input UpdateTaskInput, deps TaskDeps) (task.Task, error) {
	t, err := deps.TaskStore.GetByID(ctx, input.TaskID)
	if err != nil {
		return task.Task{}, err
	}
	now := deps.Now()
	if input.Status != nil {
		if err := t.SetStatus(*input.Status, now); err != nil {
			return task.Task{}, invalid(err)
		}
	}
	if input.Title != nil {
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		t.Description = strings.TrimSpace(*input.Description)
	}
	if input.DueDate != nil {
		t.DueDate = strings.TrimSpace(*input.DueDate)
	}
	t.UpdatedAt = now
	if err := t.Validate(); err != nil {
		return task.Task{}, invalid(err)
	}
	if err := deps.TaskStore.Save(ctx, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// ExecuteDeleteTask removes a task.
// PRE: id exists
// POST: returns an error wrapping sql.ErrNoRows when the task does not exist
func ExecuteDeleteTask(ctx context.Context, id string, store TaskStoreForOrchestrator) error {
	if _, err := store.GetByID(ctx, id); err != nil {
		return err
	}
	return store.Delete(ctx, id)
}
