package booking

import (
	"context"
	"time"

	domain "coachsite/internal/domain/booking"
)

// Sort orders accepted by List.
const (
	SortDateDesc = "date_desc"
	SortDateAsc  = "date_asc"
	SortStatus   = "status"
)

// Store persists Booking state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero values mean "no filter"; Sort defaults to SortDateDesc.
type ListFilter struct {
	Limit        int
	Offset       int
	Status       string
	CreatedSince time.Time
	Sort         string
}
