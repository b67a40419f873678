package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	taskStore "coachsite/internal/adapters/storage/task"
	"coachsite/internal/domain/member"
	"coachsite/internal/domain/sessionnote"
	"coachsite/internal/domain/task"
)

// MemberStoreForOrchestrator defines the store interface needed by member orchestrators.
type MemberStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	GetByEmail(ctx context.Context, email string) (member.Member, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
}

// --- Create Member ---

// CreateMemberInput carries input for a manually added member.
type CreateMemberInput struct {
	Name                 string
	Email                string
	Phone                string
	PreferredContactTime string
	LineID               string
	Tags                 []string
	Source               string // defaults to manual
	Status               string // defaults to new
	ProgressNote         string
}

// CreateMemberDeps holds dependencies for CreateMember.
type CreateMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateMember adds a member to the CRM.
// PRE: Name non-empty, Email contains '@'
// POST: member persisted with normalised tags
// INVARIANT: at most one member per email (case-insensitive)
func ExecuteCreateMember(ctx context.Context, input CreateMemberInput, deps CreateMemberDeps) (member.Member, error) {
	now := deps.Now()
	m := member.Member{
		ID:                   deps.GenerateID(),
		Name:                 strings.TrimSpace(input.Name),
		Email:                strings.TrimSpace(input.Email),
		Phone:                strings.TrimSpace(input.Phone),
		PreferredContactTime: strings.TrimSpace(input.PreferredContactTime),
		LineID:               strings.TrimSpace(input.LineID),
		Tags:                 member.NormalizeTags(input.Tags),
		Source:               input.Source,
		Status:               input.Status,
		ProgressNote:         input.ProgressNote,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if m.Source == "" {
		m.Source = member.SourceManual
	}
	if m.Status == "" {
		m.Status = member.StatusNew
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err)
	}
	if existing, err := deps.MemberStore.GetByEmail(ctx, m.Email); err == nil {
		return existing, ErrAlreadyMember
	} else if !errors.Is(err, sql.ErrNoRows) {
		return member.Member{}, err
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	slog.Info("member_created", "member_id", m.ID, "source", m.Source)
	return m, nil
}

// --- Update Member ---

// UpdateMemberInput carries a partial update. Nil fields are left untouched.
type UpdateMemberInput struct {
	MemberID     string
	Name         *string
	Email        *string
	Status       *string
	ProgressNote *string
	Tags         *[]string
	Contact      member.ContactUpdate
	Line         member.LineProfile
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	Now         func() time.Time
}

// ExecuteUpdateMember applies a partial update to a member.
// PRE: MemberID exists
// POST: changed fields and UpdatedAt persisted; the member still validates
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return member.Member{}, err
	}
	now := deps.Now()
	if input.Name != nil {
		m.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if member.NormalizeEmail(email) != member.NormalizeEmail(m.Email) {
			if other, err := deps.MemberStore.GetByEmail(ctx, email); err == nil && other.ID != m.ID {
				return member.Member{}, ErrAlreadyMember
			}
		}
		m.Email = email
	}
	if input.Status != nil {
		if err := m.SetStatus(*input.Status, now); err != nil {
			return member.Member{}, invalid(err)
		}
	}
	if input.ProgressNote != nil {
		if err := m.SetProgressNote(*input.ProgressNote, now); err != nil {
			return member.Member{}, invalid(err)
		}
	}
	if input.Tags != nil {
		if err := m.SetTags(*input.Tags, now); err != nil {
			return member.Member{}, invalid(err)
		}
	}
	m.ApplyContact(input.Contact, now)
	m.ApplyLineProfile(input.Line, now)
	if err := m.Validate(); err != nil {
		return member.Member{}, invalid(err)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	return m, nil
}

// --- Upsert LINE Member ---

// UpsertLineMemberInput carries a LINE follower's profile.
type UpsertLineMemberInput struct {
	LineUserID  string
	DisplayName string
	PictureURL  string
	Email       string // optional; members need one, so a placeholder is derived when empty
}

// ExecuteUpsertLineMember links a LINE follower to the CRM: an existing member
// with the same LINE user id gets a refreshed profile, otherwise a new member
// with source=line is created.
// PRE: LineUserID non-empty
// POST: exactly one member carries LineUserID
func ExecuteUpsertLineMember(ctx context.Context, input UpsertLineMemberInput, deps CreateMemberDeps) (member.Member, error) {
	userID := strings.TrimSpace(input.LineUserID)
	if userID == "" {
		return member.Member{}, invalid(errors.New("LINE user id is required"))
	}
	profile := member.LineProfile{UserID: &userID, DisplayName: &input.DisplayName, PictureURL: &input.PictureURL}

	existing, err := deps.MemberStore.GetByLineUserID(ctx, userID)
	switch {
	case err == nil:
		existing.ApplyLineProfile(profile, deps.Now())
		if err := deps.MemberStore.Save(ctx, existing); err != nil {
			return member.Member{}, err
		}
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return member.Member{}, err
	}

	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		name = "LINE " + userID
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = fmt.Sprintf("%s@line.invalid", strings.ToLower(userID))
	}
	m, err := ExecuteCreateMember(ctx, CreateMemberInput{Name: name, Email: email, Source: member.SourceLine}, deps)
	if errors.Is(err, ErrAlreadyMember) {
		m.ApplyLineProfile(profile, deps.Now())
		if err := deps.MemberStore.Save(ctx, m); err != nil {
			return member.Member{}, err
		}
		return m, nil
	}
	if err != nil {
		return member.Member{}, err
	}
	m.ApplyLineProfile(profile, m.CreatedAt)
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}
	return m, nil
}

// --- Delete Member ---

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	TaskStore   interface {
		List(ctx context.Context, filter taskStore.ListFilter) ([]task.Task, error)
		Delete(ctx context.Context, id string) error
	}
	SessionNoteStore interface {
		ListByMember(ctx context.Context, memberID string) ([]sessionnote.Note, error)
		Delete(ctx context.Context, id string) error
	}
}

// ExecuteDeleteMember removes a member, then sweeps their tasks and session notes.
// The member goes first. A repeated call on a missing member finishes an
// interrupted sweep before reporting sql.ErrNoRows.
// PRE: memberID exists
// POST: no task or note references memberID; the member is gone
func ExecuteDeleteMember(ctx context.Context, memberID string, deps DeleteMemberDeps) error {
	_, err := deps.MemberStore.GetByID(ctx, memberID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, _, sweepErr := sweepMemberHistory(ctx, memberID, deps); sweepErr != nil {
			return sweepErr
		}
		return err
	case err != nil:
		return err
	}
	if err := deps.MemberStore.Delete(ctx, memberID); err != nil {
		return err
	}
	tasks, notes, err := sweepMemberHistory(ctx, memberID, deps)
	if err != nil {
		slog.Warn("member_sweep_incomplete", "member_id", memberID, "error", err.Error())
		return err
	}
	slog.Info("member_deleted", "member_id", memberID, "tasks", tasks, "notes", notes)
	return nil
}

// sweepMemberHistory deletes every task and session note of memberID.
func sweepMemberHistory(ctx context.Context, memberID string, deps DeleteMemberDeps) (int, int, error) {
	tasks, err := deps.TaskStore.List(ctx, taskStore.ListFilter{MemberID: memberID})
	if err != nil {
		return 0, 0, fmt.Errorf("list member tasks: %w", err)
	}
	for _, t := range tasks {
		if err := deps.TaskStore.Delete(ctx, t.ID); err != nil {
			return 0, 0, fmt.Errorf("delete task %s: %w", t.ID, err)
		}
	}
	notes, err := deps.SessionNoteStore.ListByMember(ctx, memberID)
	if err != nil {
		return len(tasks), 0, fmt.Errorf("list member notes: %w", err)
	}
	for _, n := range notes {
		if err := deps.SessionNoteStore.Delete(ctx, n.ID); err != nil {
			return len(tasks), 0, fmt.Errorf("delete note %s: %w", n.ID, err)
		}
	}
	return len(tasks), len(notes), nil
}
