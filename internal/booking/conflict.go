package booking

import (
	"context"
	"fmt"

	"hotel-pms-backend/internal/model"
)

// Detector finds reservations that block a candidate interval on a room.
// It is a pure read over the repository's active reservation set.
type Detector struct {
	repo Repository
}

// NewDetector creates a conflict detector backed by the given repository.
func NewDetector(repo Repository) *Detector {
	return &Detector{repo: repo}
}

// FindConflicts returns the active reservations on roomNumber whose interval
// overlaps the candidate. excludeID, when non-zero, skips that reservation so
// an extension can be validated against everything but itself. An empty
// result means the candidate is admissible.
//
// The candidate interval must already be well-formed; FindConflicts does not
// re-validate it.
func (d *Detector) FindConflicts(ctx context.Context, roomNumber string, candidate Interval, excludeID int64) ([]model.Reservation, error) {
	active, err := d.repo.ActiveReservationsForRoom(ctx, roomNumber, excludeID)
	if err != nil {
		return nil, fmt.Errorf("loading active reservations for room %s: %w", roomNumber, err)
	}

	var conflicts []model.Reservation
	for _, res := range active {
		if candidate.Overlaps(NewInterval(res.CheckIn, res.CheckOut)) {
			conflicts = append(conflicts, res)
		}
	}
	return conflicts, nil
}
