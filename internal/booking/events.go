package booking

import (
	"time"

	"github.com/google/uuid"

	"hotel-pms-backend/internal/model"
)

// EventType identifies a lifecycle notification.
type EventType string

const (
	EventReservationCreated   EventType = "reservation_created"
	EventStatusChanged        EventType = "status_changed"
	EventReservationExtended  EventType = "reservation_extended"
	EventReservationCancelled EventType = "reservation_cancelled"
	// EventRoomFreed fires when a room stops being held (check-out or
	// cancellation of an active reservation).
	EventRoomFreed EventType = "room_freed"
)

// Event is a lifecycle notification carrying a snapshot of the reservation
// after the transition committed.
type Event struct {
	ID          string
	Type        EventType
	RoomNumber  string
	Reservation model.Reservation
	PrevStatus  model.ReservationStatus
	OccurredAt  time.Time
}

// Sink receives lifecycle events. Publication is fire-and-forget: a sink
// failure must never roll back the reservation transaction, so Publish
// returns nothing and implementations log their own errors.
type Sink interface {
	Publish(event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Publish(Event) {}

func newEvent(t EventType, res model.Reservation, prev model.ReservationStatus, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		RoomNumber:  res.RoomNumber,
		Reservation: res,
		PrevStatus:  prev,
		OccurredAt:  now,
	}
}
