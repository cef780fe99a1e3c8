package booking

import (
	"context"
	"sync"
	"time"

	"hotel-pms-backend/internal/model"
)

// memRepo is an in-memory Repository for exercising the scheduler core
// without a database. Loads return copies so a failed transition cannot leak
// partial mutations into the stored state.
type memRepo struct {
	mu           sync.Mutex
	rooms        map[string]model.Room
	reservations map[int64]model.Reservation
	nextID       int64
}

func newMemRepo(rooms ...model.Room) *memRepo {
	r := &memRepo{
		rooms:        make(map[string]model.Room),
		reservations: make(map[int64]model.Reservation),
	}
	for _, room := range rooms {
		r.rooms[room.Number] = room
	}
	return r
}

func (r *memRepo) ActiveReservationsForRoom(_ context.Context, roomNumber string, excludeID int64) ([]model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Reservation
	for _, res := range r.reservations {
		if res.RoomNumber == roomNumber && res.Status.Active() && res.ID != excludeID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memRepo) ReservationByID(_ context.Context, id int64) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *memRepo) CreateReservation(_ context.Context, res *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	r.reservations[res.ID] = *res
	return nil
}

func (r *memRepo) UpdateReservation(_ context.Context, res *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reservations[res.ID] = *res
	return nil
}

func (r *memRepo) RoomByNumber(_ context.Context, number string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[number]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r *memRepo) Rooms(_ context.Context) ([]model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *memRepo) InTransaction(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}

// seed inserts a reservation directly, bypassing the lifecycle manager.
func (r *memRepo) seed(res model.Reservation) model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	if res.Reference == "" {
		res.Reference = "seeded"
	}
	r.reservations[res.ID] = res
	return res
}

// fixedClock pins "today" for deterministic lifecycle and availability tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// recordingSink captures published events in order.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
