package booking

import (
	"context"
	"fmt"

	"hotel-pms-backend/internal/model"
)

// AvailabilityStatus is a derived display state for a room over a query
// window. It is never persisted; the stored reservation status is the only
// source of truth and display states are recomputed here on every query.
type AvailabilityStatus string

const (
	// StatusAvailable: no active reservation overlaps the window and the
	// room is physically in service.
	StatusAvailable AvailabilityStatus = "available"
	// StatusOccupied: an overlapping active reservation contains today.
	StatusOccupied AvailabilityStatus = "occupied"
	// StatusPrebooked: the room is free today but an active reservation
	// overlaps the window later on.
	StatusPrebooked AvailabilityStatus = "prebooked"
	// StatusBlocked: the room is out of service for physical reasons
	// (maintenance, cleaning), regardless of reservations.
	StatusBlocked AvailabilityStatus = "blocked"
)

// RoomAvailability pairs a room with its derived status for a window, plus
// the blocking reservations when there are any.
type RoomAvailability struct {
	Room      model.Room
	Status    AvailabilityStatus
	Conflicts []model.Reservation
}

// Resolver derives room availability for query windows. It is read-only and
// safe to call concurrently; dashboards may hit it repeatedly without
// touching scheduling state.
type Resolver struct {
	repo     Repository
	detector *Detector
	clock    Clock
}

// NewResolver creates an availability resolver.
func NewResolver(repo Repository, clock Clock) *Resolver {
	return &Resolver{repo: repo, detector: NewDetector(repo), clock: clock}
}

// ResolveStatus derives the display state of one room for the query window.
func (r *Resolver) ResolveStatus(ctx context.Context, roomNumber string, window Interval) (AvailabilityStatus, []model.Reservation, error) {
	if err := window.Validate(); err != nil {
		return "", nil, err
	}

	room, err := r.repo.RoomByNumber(ctx, roomNumber)
	if err != nil {
		return "", nil, err
	}
	if room == nil {
		return "", nil, &NotFoundError{Kind: "room", Ref: roomNumber}
	}

	return r.resolve(ctx, *room, window)
}

// ResolveAll derives the display state of every room for the query window.
// Used by the dashboard's batch view.
func (r *Resolver) ResolveAll(ctx context.Context, window Interval) ([]RoomAvailability, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	rooms, err := r.repo.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}

	out := make([]RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		status, conflicts, err := r.resolve(ctx, room, window)
		if err != nil {
			return nil, err
		}
		out = append(out, RoomAvailability{Room: room, Status: status, Conflicts: conflicts})
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, room model.Room, window Interval) (AvailabilityStatus, []model.Reservation, error) {
	if room.Condition != model.ConditionAvailable {
		return StatusBlocked, nil, nil
	}

	conflicts, err := r.detector.FindConflicts(ctx, room.Number, window, 0)
	if err != nil {
		return "", nil, err
	}
	if len(conflicts) == 0 {
		return StatusAvailable, nil, nil
	}

	today := Day(r.clock.Now())
	for _, res := range conflicts {
		if NewInterval(res.CheckIn, res.CheckOut).Contains(today) {
			return StatusOccupied, conflicts, nil
		}
	}
	return StatusPrebooked, conflicts, nil
}
