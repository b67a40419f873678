package projections

import (
	"context"

	"coachsite/internal/adapters/storage/booking"
	"coachsite/internal/adapters/storage/member"
	"coachsite/internal/application/listutil"
	domainBooking "coachsite/internal/domain/booking"
	domainMember "coachsite/internal/domain/member"
)

// GetBookingListQuery carries filters for the bookings table.
type GetBookingListQuery struct {
	Filter booking.ListFilter // Limit and Offset are overwritten from Page
	Page   listutil.PageParams
}

// BookingListResult is one page of bookings.
type BookingListResult struct {
	Bookings []domainBooking.Booking `json:"bookings"`
	Page     listutil.PageInfo       `json:"page"`
	Stats    StatusCounts            `json:"stats"` // over every booking, ignoring filters
}

// QueryGetBookingList returns a filtered, sorted page of bookings.
// POST: len(Bookings) <= Page.PerPage
func QueryGetBookingList(ctx context.Context, query GetBookingListQuery, store BookingStore) (BookingListResult, error) {
	total, err := store.Count(ctx, query.Filter)
	if err != nil {
		return BookingListResult{}, err
	}
	info := listutil.NewPageInfo(query.Page, total)
	filter := query.Filter
	filter.Limit, filter.Offset = info.PerPage, info.Offset()
	rows, err := store.List(ctx, filter)
	if err != nil {
		return BookingListResult{}, err
	}
	all, err := store.List(ctx, booking.ListFilter{})
	if err != nil {
		return BookingListResult{}, err
	}
	return BookingListResult{Bookings: nonNilSlice(rows), Page: info, Stats: BookingStats(all)}, nil
}

// GetMemberListQuery carries filters for the CRM table.
type GetMemberListQuery struct {
	Filter member.ListFilter // Limit and Offset are overwritten from Page
	Page   listutil.PageParams
}

// MemberListResult is one page of members.
type MemberListResult struct {
	Members []domainMember.Member `json:"members"`
	Page    listutil.PageInfo     `json:"page"`
}

// QueryGetMemberList returns a filtered page of members, most recently updated first.
// POST: len(Members) <= Page.PerPage
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, store MemberStore) (MemberListResult, error) {
	total, err := store.Count(ctx, query.Filter)
	if err != nil {
		return MemberListResult{}, err
	}
	info := listutil.NewPageInfo(query.Page, total)
	filter := query.Filter
	filter.Limit, filter.Offset = info.PerPage, info.Offset()
	rows, err := store.List(ctx, filter)
	if err != nil {
		return MemberListResult{}, err
	}
	return MemberListResult{Members: nonNilSlice(rows), Page: info}, nil
}
