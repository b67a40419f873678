package orchestrators

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachsite/internal/adapters/broker"
	emailAdapter "coachsite/internal/adapters/email"
	"coachsite/internal/domain/member"
	domainOutbox "coachsite/internal/domain/outbox"
	"coachsite/internal/domain/push"
)

type pushFixture struct {
	s         stores
	deps      PushDeps
	publisher *broker.NoopPublisher
	sender    *emailAdapter.NoopSender
	clock     time.Time
}

func newPushFixture(t *testing.T) *pushFixture {
	t.Helper()
	f := &pushFixture{
		s:         newStores(t),
		publisher: broker.NewNoopPublisher(),
		sender:    emailAdapter.NewNoopSender(),
		clock:     fixedTime,
	}
	ids := sequentialIDs()
	now := func() time.Time { return f.clock }
	f.deps = PushDeps{
		PushStore:   f.s.push,
		MemberStore: f.s.members,
		Publisher:   f.publisher,
		Email:       EmailDeps{Sender: f.sender, OutboxStore: f.s.outbox, GenerateID: ids, Now: now},
		GenerateID:  ids,
		Now:         now,
	}
	return f
}

func (f *pushFixture) addMember(t *testing.T, name, status, lineUserID string) member.Member {
	t.Helper()
	m, err := ExecuteCreateMember(context.Background(), CreateMemberInput{
		Name: name, Email: name + "@example.com", Status: status,
	}, CreateMemberDeps{MemberStore: f.s.members, GenerateID: f.deps.GenerateID, Now: f.deps.Now})
	require.NoError(t, err)
	if lineUserID != "" {
		m, err = ExecuteUpdateMember(context.Background(), UpdateMemberInput{
			MemberID: m.ID, Line: member.LineProfile{UserID: &lineUserID},
		}, UpdateMemberDeps{MemberStore: f.s.members, Now: f.deps.Now})
		require.NoError(t, err)
	}
	return m
}

// TestExecuteSendPush_ReachesAudience verifies the audience filter, the broker
// dispatch and email for members without LINE.
func TestExecuteSendPush_ReachesAudience(t *testing.T) {
	ctx := context.Background()
	f := newPushFixture(t)
	f.addMember(t, "amy", member.StatusFollowing, "U-amy")
	f.addMember(t, "bob", member.StatusInProgress, "")
	f.addMember(t, "cat", member.StatusPaused, "")

	m, err := ExecuteCreatePush(ctx, PushInput{Title: "本週提醒", Body: "記得喝水", Audience: push.AudienceActive}, f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.StatusDraft, m.Status)

	sent, err := ExecuteSendPush(ctx, m.ID, f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.StatusSent, sent.Status)
	assert.Equal(t, 2, sent.RecipientCount)
	assert.True(t, sent.SentAt.Equal(fixedTime))

	published := f.publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, m.ID, published[0].MessageID)
	assert.Len(t, published[0].Recipients, 2)

	emails := f.sender.Sent()
	require.Len(t, emails, 1)
	assert.Equal(t, []string{"bob@example.com"}, emails[0].To)
	assert.Equal(t, "本週提醒", emails[0].Subject)

	_, err = ExecuteSendPush(ctx, m.ID, f.deps)
	assert.ErrorIs(t, err, push.ErrAlreadySent)
	_, err = ExecuteUpdatePush(ctx, m.ID, PushInput{Title: "x", Body: "y"}, f.deps)
	assert.ErrorIs(t, err, push.ErrAlreadySent)
	assert.ErrorIs(t, ExecuteDeletePush(ctx, m.ID, f.deps), push.ErrAlreadySent)
}

// TestExecuteSendPush_ParksFailures verifies broker and email failures go to the outbox.
func TestExecuteSendPush_ParksFailures(t *testing.T) {
	ctx := context.Background()
	f := newPushFixture(t)
	f.deps.Publisher = failingPublisher{}
	f.deps.Email.Sender = failingSender{}
	f.addMember(t, "amy", member.StatusNew, "")
	f.addMember(t, "bob", member.StatusNew, "")

	m, err := ExecuteCreatePush(ctx, PushInput{Title: "t", Body: "b"}, f.deps)
	require.NoError(t, err)
	sent, err := ExecuteSendPush(ctx, m.ID, f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.StatusSent, sent.Status)

	pending, err := f.s.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, e := range pending {
		counts[e.ActionType]++
	}
	assert.Equal(t, map[string]int{domainOutbox.ActionTypePushDelivery: 1, domainOutbox.ActionTypeEmail: 2}, counts)
}

// TestExecuteSchedulePush covers scheduling, unscheduling and the past guard.
func TestExecuteSchedulePush(t *testing.T) {
	ctx := context.Background()
	f := newPushFixture(t)
	m, err := ExecuteCreatePush(ctx, PushInput{Title: "t", Body: "b"}, f.deps)
	require.NoError(t, err)

	_, err = ExecuteSchedulePush(ctx, m.ID, fixedTime.Add(-time.Minute), f.deps)
	assert.ErrorIs(t, err, push.ErrScheduleInPast)
	assert.ErrorIs(t, err, ErrValidation)

	scheduled, err := ExecuteSchedulePush(ctx, m.ID, fixedTime.Add(time.Hour), f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.StatusScheduled, scheduled.Status)

	draft, err := ExecuteSchedulePush(ctx, m.ID, time.Time{}, f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.StatusDraft, draft.Status)
	assert.True(t, draft.ScheduledAt.IsZero())

	_, err = ExecuteSchedulePush(ctx, m.ID, time.Time{}, f.deps)
	assert.ErrorIs(t, err, push.ErrNotScheduled)
}

// TestExecuteSendDuePushes verifies only messages whose time has come are sent.
func TestExecuteSendDuePushes(t *testing.T) {
	ctx := context.Background()
	f := newPushFixture(t)
	f.addMember(t, "amy", member.StatusNew, "U-amy")

	soon, err := ExecuteCreatePush(ctx, PushInput{Title: "soon", Body: "b"}, f.deps)
	require.NoError(t, err)
	later, err := ExecuteCreatePush(ctx, PushInput{Title: "later", Body: "b"}, f.deps)
	require.NoError(t, err)
	_, err = ExecuteSchedulePush(ctx, soon.ID, fixedTime.Add(time.Hour), f.deps)
	require.NoError(t, err)
	_, err = ExecuteSchedulePush(ctx, later.ID, fixedTime.Add(24*time.Hour), f.deps)
	require.NoError(t, err)

	f.clock = fixedTime.Add(2 * time.Hour)
	n, err := ExecuteSendDuePushes(ctx, f.deps)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.s.push.GetByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, push.StatusSent, got.Status)
	got, err = f.s.push.GetByID(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, push.StatusScheduled, got.Status)
}

// TestPushDraftEditing covers create validation, edit and delete of drafts.
func TestPushDraftEditing(t *testing.T) {
	ctx := context.Background()
	f := newPushFixture(t)

	_, err := ExecuteCreatePush(ctx, PushInput{Title: "t", Body: "b", Audience: "vip"}, f.deps)
	assert.ErrorIs(t, err, ErrValidation)

	m, err := ExecuteCreatePush(ctx, PushInput{Title: "t", Body: "b"}, f.deps)
	require.NoError(t, err)
	assert.Equal(t, push.AudienceAll, m.AudienceFilter)

	edited, err := ExecuteUpdatePush(ctx, m.ID, PushInput{Title: "新標題", Body: "新內容", Audience: push.AudienceNew}, f.deps)
	require.NoError(t, err)
	assert.Equal(t, "新標題", edited.Title)
	assert.Equal(t, push.AudienceNew, edited.AudienceFilter)

	_, err = ExecuteUpdatePush(ctx, m.ID, PushInput{Title: "", Body: "x"}, f.deps)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, ExecuteDeletePush(ctx, m.ID, f.deps))
	_, err = f.s.push.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
