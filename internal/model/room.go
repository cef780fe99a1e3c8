package model

import "time"

// RoomCondition is the physical state of a room as reported by housekeeping.
// It is maintained by the facilities sync and never encodes occupancy;
// occupancy is always derived from reservations.
type RoomCondition string

const (
	ConditionAvailable    RoomCondition = "available"
	ConditionMaintenance  RoomCondition = "maintenance"
	ConditionCleaning     RoomCondition = "cleaning"
	ConditionOutOfService RoomCondition = "out_of_service"
)

// RoomType represents a bookable category of rooms.
type RoomType struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	Capacity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Rooms []Room `gorm:"foreignKey:RoomTypeID"`
}

// Room represents a physical room.
type Room struct {
	ID         int64         `gorm:"primaryKey"`
	Number     string        `gorm:"uniqueIndex;size:32;not null"`
	RoomTypeID int64         `gorm:"index"`
	Wing       string        `gorm:"size:32"`
	Floor      int
	Seq        int
	Condition  RoomCondition `gorm:"size:32;not null;default:available"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	RoomType RoomType `gorm:"constraint:OnDelete:SET NULL"`
}
