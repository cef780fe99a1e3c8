package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-pms-backend/internal/booking"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/parse"
)

// Store is the database layer. It implements the scheduler's repository port
// plus the room-inventory operations used by the housekeeping sync.
type Store interface {
	booking.Repository

	// UpsertRooms reconciles the room inventory and physical conditions
	// from a facilities feed. classify maps raw condition codes to a
	// RoomCondition.
	UpsertRooms(ctx context.Context, items []FacilityItem, classify func(int) model.RoomCondition) error

	// DB exposes the underlying handle for read-mostly handlers
	// (subscriptions, room listings) that do not touch scheduling state.
	DB() *gorm.DB
}

// gormStore implements Store using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// activeStatuses are the statuses that hold a room against conflicts.
var activeStatuses = []model.ReservationStatus{model.StatusConfirmed, model.StatusCheckedIn}

func (s *gormStore) ActiveReservationsForRoom(ctx context.Context, roomNumber string, excludeID int64) ([]model.Reservation, error) {
	q := s.db.WithContext(ctx).
		Where("room_number = ? AND status IN ?", roomNumber, activeStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var reservations []model.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("loading active reservations for room %s: %w", roomNumber, err)
	}
	return reservations, nil
}

func (s *gormStore) ReservationByID(ctx context.Context, id int64) (*model.Reservation, error) {
	var res model.Reservation
	err := s.db.WithContext(ctx).First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading reservation %d: %w", id, err)
	}
	return &res, nil
}

func (s *gormStore) CreateReservation(ctx context.Context, res *model.Reservation) error {
	if err := s.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("creating reservation for room %s: %w", res.RoomNumber, err)
	}
	return nil
}

func (s *gormStore) UpdateReservation(ctx context.Context, res *model.Reservation) error {
	if err := s.db.WithContext(ctx).Save(res).Error; err != nil {
		return fmt.Errorf("updating reservation %d: %w", res.ID, err)
	}
	return nil
}

func (s *gormStore) RoomByNumber(ctx context.Context, number string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("number = ?", number).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading room %s: %w", number, err)
	}
	return &room, nil
}

func (s *gormStore) Rooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}
	return rooms, nil
}

// InTransaction runs fn against a transaction-scoped repository. The
// lifecycle manager wraps every check-then-commit sequence in it so the
// conflict check and the write it guards commit atomically.
func (s *gormStore) InTransaction(ctx context.Context, fn func(booking.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// UpsertRooms reconciles room types, rooms, and physical conditions from the
// facilities feed in one transaction.
func (s *gormStore) UpsertRooms(ctx context.Context, items []FacilityItem, classify func(int) model.RoomCondition) error {
	typeMap, err := s.processAndSaveRoomTypes(ctx, items)
	if err != nil {
		return fmt.Errorf("failed to process room types: %w", err)
	}

	var roomsToUpsert []model.Room
	for _, item := range items {
		parsed, err := parse.ParseRoomNumber(item.Name, item.FloorCode)
		if err != nil {
			log.Printf("Error parsing room number for item %d (%s): %v", item.ID, item.Name, err)
			continue
		}

		room := model.Room{
			Number:    parsed.Number,
			Wing:      parsed.Wing,
			Floor:     parsed.Floor,
			Seq:       parsed.Seq,
			Condition: classify(item.ConditionCode),
		}
		if rt, ok := typeMap[item.RoomType]; ok {
			room.RoomTypeID = rt.ID
		}
		roomsToUpsert = append(roomsToUpsert, room)
	}

	if len(roomsToUpsert) == 0 {
		return nil
	}

	log.Printf("Batch upserting %d rooms...", len(roomsToUpsert))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoUpdates: clause.AssignmentColumns([]string{"room_type_id", "wing", "floor", "seq", "condition", "updated_at"}),
		}).Create(&roomsToUpsert).Error
	})
}

func (s *gormStore) processAndSaveRoomTypes(ctx context.Context, items []FacilityItem) (map[string]model.RoomType, error) {
	typesToUpsert := make(map[string]model.RoomType)
	for _, item := range items {
		if item.RoomType == "" {
			continue
		}
		if _, exists := typesToUpsert[item.RoomType]; !exists {
			typesToUpsert[item.RoomType] = model.RoomType{Name: item.RoomType, Capacity: item.Capacity}
		}
	}

	if len(typesToUpsert) == 0 {
		return make(map[string]model.RoomType), nil
	}

	var typeList []model.RoomType
	for _, rt := range typesToUpsert {
		typeList = append(typeList, rt)
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"capacity"}),
	}).Create(&typeList).Error; err != nil {
		return nil, fmt.Errorf("batch upsert room types failed: %w", err)
	}

	var allTypes []model.RoomType
	if err := s.db.WithContext(ctx).Find(&allTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve room types after upsert: %w", err)
	}

	typeMap := make(map[string]model.RoomType, len(allTypes))
	for _, rt := range allTypes {
		typeMap[rt.Name] = rt
	}
	return typeMap, nil
}
