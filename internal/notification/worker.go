package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"roomtrack-backend/internal/model"
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

// SubscriptionStore is the slice of the store the workers need.
type SubscriptionStore interface {
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	SubscriptionsForRoom(ctx context.Context, roomID string) ([]model.PushSubscription, error)
	DeleteSubscriptionRecord(ctx context.Context, sub *model.PushSubscription) error
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan string
	store   SubscriptionStore
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, st SubscriptionStore, webpushOptions *webpush.Options) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*16),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case roomID := <-wp.jobs:
			log.Printf("Worker %d processing room %s", id, roomID)
			wp.sendNotificationsForRoom(ctx, roomID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification job for roomID. When the queue is full the
// job is dropped so callers holding store locks never block.
func (wp *WorkerPool) Dispatch(roomID string) {
	select {
	case wp.jobs <- roomID:
	default:
		log.Printf("Notification queue full, dropping job for room %s", roomID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

func (wp *WorkerPool) sendNotificationsForRoom(ctx context.Context, roomID string) {
	subscriptions, err := wp.store.SubscriptionsForRoom(ctx, roomID)
	if err != nil {
		log.Printf("Error fetching subscriptions for room %s: %v", roomID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for room %s", len(subscriptions), roomID)

	label := roomID
	if room, err := wp.store.GetRoom(ctx, roomID); err != nil {
		log.Printf("Error fetching room %s: %v", roomID, err)
	} else if room.RoomNumber != "" {
		label = room.RoomNumber
	}

	message := fmt.Sprintf("Room %s is now available", label)
	for i := range subscriptions {
		wp.sendNotification(ctx, &subscriptions[i], []byte(message))
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub *model.PushSubscription, payload []byte) {
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

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscriptionRecord(ctx, sub); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
