package projections

import (
	"context"

	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/task"
	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
	domainNote "coachsite/internal/domain/sessionnote"
	domainTask "coachsite/internal/domain/task"
)

// GetMemberDetailDeps holds dependencies for the member detail projection.
type GetMemberDetailDeps struct {
	MemberStore      MemberStore
	TaskStore        TaskStore
	SessionNoteStore SessionNoteStore
	BookingStore     BookingStore
}

// MemberDetailResult is one member with everything hanging off them.
type MemberDetailResult struct {
	Member   domainMember.Member     `json:"member"`
	Notes    []domainNote.Note       `json:"notes"`
	Tasks    []domainTask.Task       `json:"tasks"`
	Bookings []domainBooking.Booking `json:"bookings"` // bookings sharing the member's email
}

// QueryGetMemberDetail loads a member with their notes, tasks and bookings.
// PRE: memberID is non-empty
// POST: Returns an error wrapping sql.ErrNoRows when the member does not exist
func QueryGetMemberDetail(ctx context.Context, memberID string, deps GetMemberDetailDeps) (MemberDetailResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return MemberDetailResult{}, err
	}
	notes, err := deps.SessionNoteStore.ListByMember(ctx, memberID)
	if err != nil {
		return MemberDetailResult{}, err
	}
	tasks, err := deps.TaskStore.List(ctx, task.ListFilter{MemberID: memberID})
	if err != nil {
		return MemberDetailResult{}, err
	}
	all, err := deps.BookingStore.List(ctx, booking.ListFilter{})
	if err != nil {
		return MemberDetailResult{}, err
	}

	result := MemberDetailResult{
		Member:   m,
		Notes:    nonNilSlice(notes),
		Tasks:    nonNilSlice(tasks),
		Bookings: []domainBooking.Booking{},
	}
	key := domainMember.NormalizeEmail(m.Email)
	for _, b := range all {
		if domainMember.NormalizeEmail(b.Email) == key {
			result.Bookings = append(result.Bookings, b)
		}
	}
	return result, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
