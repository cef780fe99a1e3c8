package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-pms-backend/internal/model"
)

func TestDetectorFindConflicts(t *testing.T) {
	repo := newMemRepo(model.Room{Number: "101", Condition: model.ConditionAvailable})

	confirmed := repo.seed(model.Reservation{
		RoomNumber: "101", GuestRef: "guest-a", Status: model.StatusConfirmed,
		CheckIn: date(2025, 12, 1), CheckOut: date(2025, 12, 3),
	})
	repo.seed(model.Reservation{
		RoomNumber: "101", GuestRef: "guest-b", Status: model.StatusCheckedIn,
		CheckIn: date(2025, 12, 5), CheckOut: date(2025, 12, 8),
	})
	// None of these hold the room, whatever their dates.
	repo.seed(model.Reservation{
		RoomNumber: "101", GuestRef: "guest-c", Status: model.StatusPending,
		CheckIn: date(2025, 12, 1), CheckOut: date(2025, 12, 3),
	})
	repo.seed(model.Reservation{
		RoomNumber: "101", GuestRef: "guest-d", Status: model.StatusCancelled,
		CheckIn: date(2025, 12, 1), CheckOut: date(2025, 12, 3),
	})
	repo.seed(model.Reservation{
		RoomNumber: "101", GuestRef: "guest-e", Status: model.StatusCheckedOut,
		CheckIn: date(2025, 12, 1), CheckOut: date(2025, 12, 3),
	})
	// Other room, same dates.
	repo.seed(model.Reservation{
		RoomNumber: "102", GuestRef: "guest-f", Status: model.StatusConfirmed,
		CheckIn: date(2025, 12, 1), CheckOut: date(2025, 12, 3),
	})

	detector := NewDetector(repo)

	t.Run("only active reservations on the room block", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "101",
			NewInterval(date(2025, 12, 2), date(2025, 12, 4)), 0)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "guest-a", conflicts[0].GuestRef)
	})

	t.Run("terminal and pending statuses never appear", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "101",
			NewInterval(date(2025, 12, 1), date(2025, 12, 3)), 0)
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, model.StatusConfirmed, conflicts[0].Status)
	})

	t.Run("window spanning both active stays returns both", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "101",
			NewInterval(date(2025, 12, 2), date(2025, 12, 6)), 0)
		require.NoError(t, err)
		assert.Len(t, conflicts, 2)
	})

	t.Run("excluding a reservation skips it", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "101",
			NewInterval(date(2025, 12, 1), date(2025, 12, 3)), confirmed.ID)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("turnover day is reusable", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "101",
			NewInterval(date(2025, 12, 3), date(2025, 12, 5)), 0)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("empty room is admissible", func(t *testing.T) {
		conflicts, err := detector.FindConflicts(context.Background(), "301",
			NewInterval(date(2025, 8, 16), date(2025, 8, 17)), 0)
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})
}
