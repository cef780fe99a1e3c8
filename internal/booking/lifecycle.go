package booking

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotel-pms-backend/internal/model"
)

// Manager is the reservation lifecycle state machine and the sole mutation
// point for reservation data. Every transition re-runs the conflict detector
// inside a repository transaction while holding the room's lock, so two
// racing bookings for the same room and window can never both pass the check.
type Manager struct {
	repo  Repository
	sink  Sink
	clock Clock

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

// NewManager creates a lifecycle manager. Pass NopSink{} when no event
// consumer is wired.
func NewManager(repo Repository, sink Sink, clock Clock) *Manager {
	return &Manager{
		repo:      repo,
		sink:      sink,
		clock:     clock,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex guarding check-then-commit sequences for a room.
func (m *Manager) roomLock(roomNumber string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.roomLocks[roomNumber]
	if !ok {
		lock = &sync.Mutex{}
		m.roomLocks[roomNumber] = lock
	}
	return lock
}

// lockRooms acquires the locks for the given rooms in a stable order so two
// operations touching the same pair cannot deadlock.
func (m *Manager) lockRooms(roomNumbers ...string) func() {
	uniq := make([]string, 0, len(roomNumbers))
	seen := make(map[string]bool, len(roomNumbers))
	for _, n := range roomNumbers {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Strings(uniq)

	locks := make([]*sync.Mutex, len(uniq))
	for i, n := range uniq {
		locks[i] = m.roomLock(n)
		locks[i].Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// CreateParams are the inputs for a new reservation.
type CreateParams struct {
	RoomNumber    string
	GuestRef      string
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	ArrivalTime   string
	DepartureTime string
	// InitialStatus must be pending or confirmed. Pending reservations are
	// provisional holds: they are not conflict-checked at creation and do
	// not block other bookings until confirmed.
	InitialStatus model.ReservationStatus
}

// Create validates and persists a new reservation. A confirmed creation is
// conflict-checked; a pending one is not (it will be re-checked at Confirm).
func (m *Manager) Create(ctx context.Context, p CreateParams) (*model.Reservation, error) {
	if p.RoomNumber == "" {
		return nil, &ValidationError{Reason: "room number is required"}
	}
	if p.GuestRef == "" {
		return nil, &ValidationError{Reason: "guest reference is required"}
	}
	if p.InitialStatus != model.StatusPending && p.InitialStatus != model.StatusConfirmed {
		return nil, &ValidationError{Reason: "initial status must be pending or confirmed"}
	}
	interval := NewInterval(p.CheckIn, p.CheckOut)
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	adults := p.Adults
	if adults <= 0 {
		adults = 1
	}

	unlock := m.lockRooms(p.RoomNumber)
	defer unlock()

	var created *model.Reservation
	err := m.repo.InTransaction(ctx, func(tx Repository) error {
		room, err := tx.RoomByNumber(ctx, p.RoomNumber)
		if err != nil {
			return err
		}
		if room == nil {
			return &NotFoundError{Kind: "room", Ref: p.RoomNumber}
		}

		if p.InitialStatus == model.StatusConfirmed {
			if err := m.ensureNoConflicts(ctx, tx, p.RoomNumber, interval, 0); err != nil {
				return err
			}
		}

		now := m.clock.Now()
		res := &model.Reservation{
			Reference:     uuid.NewString(),
			RoomNumber:    p.RoomNumber,
			GuestRef:      p.GuestRef,
			CheckIn:       interval.CheckIn,
			CheckOut:      interval.CheckOut,
			Adults:        adults,
			Children:      p.Children,
			ArrivalTime:   p.ArrivalTime,
			DepartureTime: p.DepartureTime,
			Status:        p.InitialStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateReservation(ctx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.publish(newEvent(EventReservationCreated, *created, "", m.clock.Now()))
	return created, nil
}

// Confirm moves a pending reservation to confirmed, re-running the conflict
// check at the moment the reservation starts holding the room. On conflict
// the status is left unchanged.
func (m *Manager) Confirm(ctx context.Context, id int64) (*model.Reservation, error) {
	return m.transition(ctx, id, "confirm", func(tx Repository, res *model.Reservation) error {
		if res.Status != model.StatusPending {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "confirm"}
		}
		interval := NewInterval(res.CheckIn, res.CheckOut)
		if err := m.ensureNoConflicts(ctx, tx, res.RoomNumber, interval, res.ID); err != nil {
			return err
		}
		res.Status = model.StatusConfirmed
		return nil
	}, EventStatusChanged)
}

// CheckIn marks the guest as physically present. Requires a confirmed
// reservation and today within its interval.
func (m *Manager) CheckIn(ctx context.Context, id int64) (*model.Reservation, error) {
	return m.transition(ctx, id, "check in", func(tx Repository, res *model.Reservation) error {
		if res.Status != model.StatusConfirmed {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "check in"}
		}
		interval := NewInterval(res.CheckIn, res.CheckOut)
		if !interval.Contains(m.clock.Now()) {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "check in outside the booked window"}
		}
		res.Status = model.StatusCheckedIn
		return nil
	}, EventStatusChanged)
}

// CheckOut ends the stay. The room is free as of now regardless of the booked
// checkout date: the stored interval is not edited, it simply stops blocking
// because the status is terminal.
func (m *Manager) CheckOut(ctx context.Context, id int64) (*model.Reservation, error) {
	return m.transition(ctx, id, "check out", func(tx Repository, res *model.Reservation) error {
		if res.Status != model.StatusCheckedIn {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "check out"}
		}
		res.Status = model.StatusCheckedOut
		return nil
	}, EventStatusChanged)
}

// Cancel voids a pending or confirmed reservation. A checked-in guest must
// check out instead.
func (m *Manager) Cancel(ctx context.Context, id int64) (*model.Reservation, error) {
	return m.transition(ctx, id, "cancel", func(tx Repository, res *model.Reservation) error {
		if res.Status != model.StatusPending && res.Status != model.StatusConfirmed {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "cancel"}
		}
		res.Status = model.StatusCancelled
		return nil
	}, EventReservationCancelled)
}

// Extend moves the checkout date later, re-validating the full candidate
// interval against every other active reservation on the room. On conflict
// nothing is written and the stored checkout stays unchanged.
func (m *Manager) Extend(ctx context.Context, id int64, newCheckOut time.Time) (*model.Reservation, error) {
	newCheckOut = Day(newCheckOut)
	return m.transition(ctx, id, "extend", func(tx Repository, res *model.Reservation) error {
		if res.Status != model.StatusConfirmed && res.Status != model.StatusCheckedIn {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "extend"}
		}
		// Equality is a no-op: the interval is unchanged, so it trivially
		// still fits and the call succeeds. Only shortening is rejected.
		if newCheckOut.Before(Day(res.CheckOut)) {
			return &ValidationError{Reason: "new check-out must not be before the current check-out"}
		}
		candidate := Interval{CheckIn: Day(res.CheckIn), CheckOut: newCheckOut}
		if err := m.ensureNoConflicts(ctx, tx, res.RoomNumber, candidate, res.ID); err != nil {
			return err
		}
		res.CheckOut = newCheckOut
		return nil
	}, EventReservationExtended)
}

// ReassignRoom moves a pending or confirmed reservation to another room,
// keeping its interval, after checking the target room is free for it.
func (m *Manager) ReassignRoom(ctx context.Context, id int64, newRoomNumber string) (*model.Reservation, error) {
	if newRoomNumber == "" {
		return nil, &ValidationError{Reason: "room number is required"}
	}

	// The target room is unknown until the reservation is loaded, so lock a
	// superset: the reservation's current room and the target. The current
	// room comes from a peek, so it is re-validated inside the transaction
	// the same way transition does.
	peek, err := m.repo.ReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, &NotFoundError{Kind: "reservation", Ref: idRef(id)}
	}

	sourceRoom := peek.RoomNumber
	for {
		updated, prev, current, err := m.runReassign(ctx, id, sourceRoom, newRoomNumber)
		if errors.Is(err, errStaleRoomLock) {
			sourceRoom = current
			continue
		}
		if err != nil {
			return nil, err
		}

		m.publish(newEvent(EventStatusChanged, *updated, prev, m.clock.Now()))
		return updated, nil
	}
}

func (m *Manager) runReassign(ctx context.Context, id int64, sourceRoom, newRoomNumber string) (*model.Reservation, model.ReservationStatus, string, error) {
	unlock := m.lockRooms(sourceRoom, newRoomNumber)
	defer unlock()

	var updated *model.Reservation
	var prev model.ReservationStatus
	var current string
	err := m.repo.InTransaction(ctx, func(tx Repository) error {
		res, err := tx.ReservationByID(ctx, id)
		if err != nil {
			return err
		}
		if res == nil {
			return &NotFoundError{Kind: "reservation", Ref: idRef(id)}
		}
		if res.RoomNumber != sourceRoom && res.RoomNumber != newRoomNumber {
			current = res.RoomNumber
			return errStaleRoomLock
		}
		if res.Status != model.StatusPending && res.Status != model.StatusConfirmed {
			return &InvalidStateError{ReservationID: res.ID, Status: res.Status, Requested: "reassign"}
		}

		room, err := tx.RoomByNumber(ctx, newRoomNumber)
		if err != nil {
			return err
		}
		if room == nil {
			return &NotFoundError{Kind: "room", Ref: newRoomNumber}
		}

		// Pending reservations hold nothing, but a reassignment that lands
		// on an occupied room would only fail later at Confirm; check both
		// cases up front so the caller learns immediately.
		interval := NewInterval(res.CheckIn, res.CheckOut)
		if err := m.ensureNoConflicts(ctx, tx, newRoomNumber, interval, res.ID); err != nil {
			return err
		}

		prev = res.Status
		res.RoomNumber = newRoomNumber
		res.UpdatedAt = m.clock.Now()
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	return updated, prev, current, err
}

// errStaleRoomLock signals that the reservation moved to another room
// between the lock peek and the transactional reload, so the held lock
// guards the wrong room.
var errStaleRoomLock = errors.New("room lock is stale")

// transition runs one load-mutate-save cycle for the reservation under its
// room lock and a repository transaction, then publishes the event.
//
// The room to lock is learned from a peek outside the transaction, so a
// concurrent reassign can move the reservation before the lock is taken.
// The transactional reload re-validates the lock key and retries against
// the current room until it is stable.
func (m *Manager) transition(ctx context.Context, id int64, name string, mutate func(Repository, *model.Reservation) error, eventType EventType) (*model.Reservation, error) {
	peek, err := m.repo.ReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, &NotFoundError{Kind: "reservation", Ref: idRef(id)}
	}

	roomNumber := peek.RoomNumber
	for {
		updated, prev, current, err := m.runTransition(ctx, id, roomNumber, mutate)
		if errors.Is(err, errStaleRoomLock) {
			roomNumber = current
			continue
		}
		if err != nil {
			return nil, err
		}

		m.publish(newEvent(eventType, *updated, prev, m.clock.Now()))
		return updated, nil
	}
}

// runTransition performs one locked attempt of a transition. When the
// reservation is no longer on the locked room it reports errStaleRoomLock
// together with the room it is on now.
func (m *Manager) runTransition(ctx context.Context, id int64, roomNumber string, mutate func(Repository, *model.Reservation) error) (*model.Reservation, model.ReservationStatus, string, error) {
	unlock := m.lockRooms(roomNumber)
	defer unlock()

	var updated *model.Reservation
	var prev model.ReservationStatus
	var current string
	err := m.repo.InTransaction(ctx, func(tx Repository) error {
		res, err := tx.ReservationByID(ctx, id)
		if err != nil {
			return err
		}
		if res == nil {
			return &NotFoundError{Kind: "reservation", Ref: idRef(id)}
		}
		if res.RoomNumber != roomNumber {
			current = res.RoomNumber
			return errStaleRoomLock
		}
		prev = res.Status
		if err := mutate(tx, res); err != nil {
			return err
		}
		res.UpdatedAt = m.clock.Now()
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	return updated, prev, current, err
}

func (m *Manager) ensureNoConflicts(ctx context.Context, tx Repository, roomNumber string, candidate Interval, excludeID int64) error {
	conflicts, err := NewDetector(tx).FindConflicts(ctx, roomNumber, candidate, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{RoomNumber: roomNumber, Interval: candidate, Conflicts: conflicts}
	}
	return nil
}

func (m *Manager) publish(event Event) {
	if m.sink == nil {
		return
	}
	m.sink.Publish(event)
	// A check-out or a cancellation of a holding reservation frees the room.
	if event.Type == EventStatusChanged && event.Reservation.Status == model.StatusCheckedOut ||
		event.Type == EventReservationCancelled && event.PrevStatus.Active() {
		freed := event
		freed.ID = uuid.NewString()
		freed.Type = EventRoomFreed
		m.sink.Publish(freed)
	}
}

func idRef(id int64) string {
	return "#" + strconv.FormatInt(id, 10)
}
