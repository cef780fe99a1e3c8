package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hotel-pms-backend/internal/booking"
	"hotel-pms-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans room-freed notifications out to subscribed front-desk
// clients. It implements booking.Sink so the lifecycle manager can publish
// to it directly; only room_freed events trigger pushes, the rest are
// logged for the audit trail.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Publish implements booking.Sink. It must never block the lifecycle
// manager for long or fail the reservation transaction.
func (wp *WorkerPool) Publish(event booking.Event) {
	log.Printf("event %s: %s reservation %s room %s", event.ID, event.Type, event.Reservation.Reference, event.RoomNumber)
	if event.Type == booking.EventRoomFreed {
		wp.Dispatch(event.RoomNumber)
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case roomNumber := <-wp.jobs:
			log.Printf("Worker %d processing room %s", id, roomNumber)
			wp.sendNotificationsForRoom(ctx, roomNumber)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a room for notification fan-out. The send never blocks:
// Publish runs while the lifecycle manager still holds the room lock, so a
// webpush backlog must drop the job rather than stall bookings.
func (wp *WorkerPool) Dispatch(roomNumber string) {
	select {
	case wp.jobs <- roomNumber:
	default:
		log.Printf("Notification queue full, dropping job for room %s", roomNumber)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// sendNotificationsForRoom fetches subscriptions watching the room and sends
// a push to each.
func (wp *WorkerPool) sendNotificationsForRoom(ctx context.Context, roomNumber string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_room_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Joins("JOIN rooms ON rooms.id = srm.room_id").
		Where("rooms.number = ?", roomNumber).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for room %s: %v", roomNumber, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for room %s", len(subscriptions), roomNumber)

	message := fmt.Sprintf("Room %s is now free", roomNumber)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
