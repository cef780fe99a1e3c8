package model

import "time"

// ReservationStatus is the persisted lifecycle status of a reservation.
// Display states such as "prebooked" are always derived, never stored.
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
)

// Active reports whether the status holds the room against conflicting
// reservations.
func (s ReservationStatus) Active() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// Terminal reports whether the status is final. Terminal reservations are
// retained for history but never block other bookings.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// Reservation represents a room assignment over a half-open date interval
// [CheckIn, CheckOut). CheckIn and CheckOut are date-granular (UTC midnight);
// the checkout day itself is reusable by another booking.
type Reservation struct {
	ID         int64     `gorm:"primaryKey"`
	Reference  string    `gorm:"uniqueIndex;size:36;not null"`
	RoomNumber string    `gorm:"index;size:32;not null"`
	GuestRef   string    `gorm:"size:128;not null"`
	CheckIn    time.Time `gorm:"not null;index"`
	CheckOut   time.Time `gorm:"not null;index"`
	Adults     int       `gorm:"not null;default:1"`
	Children   int       `gorm:"not null;default:0"`

	// Clock times are display-only metadata; exclusivity is date-granular.
	ArrivalTime   string `gorm:"size:8"`
	DepartureTime string `gorm:"size:8"`

	Status    ReservationStatus `gorm:"size:32;not null;index"`
	CreatedAt time.Time         `gorm:"not null"`
	UpdatedAt time.Time         `gorm:"not null"`
}
