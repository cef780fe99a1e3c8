package booking

import (
	"fmt"
	"strings"

	"hotel-pms-backend/internal/model"
)

// ValidationError reports a malformed request (bad interval, missing room or
// guest reference). It is raised before the repository is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ConflictError reports an interval-exclusivity violation. It carries the
// full list of blocking reservations so callers can render a precise message
// naming the conflicting guest and dates.
type ConflictError struct {
	RoomNumber string
	Interval   Interval
	Conflicts  []model.Reservation
}

func (e *ConflictError) Error() string {
	refs := make([]string, len(e.Conflicts))
	for i, r := range e.Conflicts {
		refs[i] = fmt.Sprintf("%s (%s, %s to %s)",
			r.Reference, r.GuestRef,
			r.CheckIn.Format(dateLayout), r.CheckOut.Format(dateLayout))
	}
	return fmt.Sprintf("room %s is not free for %s: blocked by %s",
		e.RoomNumber, e.Interval, strings.Join(refs, ", "))
}

// InvalidStateError reports a lifecycle transition that is not legal from the
// reservation's current status.
type InvalidStateError struct {
	ReservationID int64
	Status        model.ReservationStatus
	Requested     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("reservation %d: cannot %s from status %q",
		e.ReservationID, e.Requested, e.Status)
}

// NotFoundError reports a missing reservation or room.
type NotFoundError struct {
	Kind string // "reservation" or "room"
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}
