package task

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for DueDate.
const DateLayout = "2006-01-02"

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Status constants for the task board columns.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Statuses lists every task status in board order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// Domain errors
var (
	ErrEmptyMemberID      = errors.New("task must belong to a member")
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("task description cannot exceed 2000 characters")
	ErrInvalidStatus      = errors.New("status must be one of: todo, in_progress, done")
	ErrInvalidDueDate     = errors.New("due date must be YYYY-MM-DD")
)

// Task is an action item on a member's task board.
type Task struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate,omitempty"` // YYYY-MM-DD, empty when undated
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks if the Task has valid data.
// PRE: Task struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Task) Validate() error {
	if t.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !IsValidStatus(t.Status) {
		return ErrInvalidStatus
	}
	if t.DueDate != "" {
		if _, err := time.Parse(DateLayout, t.DueDate); err != nil {
			return ErrInvalidDueDate
		}
	}
	return nil
}

// IsOpen reports whether the task still needs work.
// INVARIANT: Task fields are not mutated
func (t *Task) IsOpen() bool {
	return t.Status != StatusDone
}

// IsDueOn reports whether an open task is due on the given day.
// PRE: day is formatted with DateLayout
func (t *Task) IsDueOn(day string) bool {
	return t.IsOpen() && t.DueDate != "" && t.DueDate == day
}

// IsOverdue reports whether an open task's due date is before today.
// PRE: today is formatted with DateLayout
// INVARIANT: lexical comparison is valid because DateLayout is zero-padded
func (t *Task) IsOverdue(today string) bool {
	return t.IsOpen() && t.DueDate != "" && t.DueDate < today
}

// SetStatus moves the task to another column.
// POST: Status and UpdatedAt are set
func (t *Task) SetStatus(status string, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// IsValidStatus reports whether s is a known task status.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
