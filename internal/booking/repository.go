package booking

import (
	"context"
	"time"

	"hotel-pms-backend/internal/model"
)

// Repository is the persistence port consumed by the scheduler core. The
// store package provides the GORM implementation.
//
// InTransaction hands the callback a repository scoped to a single
// transaction; the lifecycle manager wraps every check-then-commit sequence
// in it so a conflict check and the write it guards cannot be interleaved
// with another writer's commit.
type Repository interface {
	// ActiveReservationsForRoom returns reservations on the room whose
	// status holds it (confirmed or checked_in), excluding excludeID when
	// non-zero. Terminal and pending reservations are never returned.
	ActiveReservationsForRoom(ctx context.Context, roomNumber string, excludeID int64) ([]model.Reservation, error)

	ReservationByID(ctx context.Context, id int64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, res *model.Reservation) error
	UpdateReservation(ctx context.Context, res *model.Reservation) error

	RoomByNumber(ctx context.Context, number string) (*model.Room, error)
	Rooms(ctx context.Context) ([]model.Room, error)

	InTransaction(ctx context.Context, fn func(Repository) error) error
}

// Clock abstracts "today" so lifecycle preconditions and availability
// derivation are testable with a fixed date.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
