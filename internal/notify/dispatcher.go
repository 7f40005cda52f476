package notify

import (
	"context"
	"log"
	"time"

	"github.com/nekogravitycat/book-rental-backend/internal/notification"
)

// Dispatcher is a Notifier that persists messages through the notification
// service on a single worker goroutine. Enqueueing never blocks: when the
// buffer is full the message is dropped and logged. A lost notification is
// acceptable; a rental mutation failed by its notification is not.
type Dispatcher struct {
	svc     notification.Service
	queue   chan Message
	done    chan struct{}
	timeout time.Duration
}

// NewDispatcher starts the delivery worker. bufferSize bounds the number of
// undelivered messages held in memory.
func NewDispatcher(svc notification.Service, bufferSize int) *Dispatcher {
	if bufferSize < 1 {
		bufferSize = 64
	}

	d := &Dispatcher{
		svc:     svc,
		queue:   make(chan Message, bufferSize),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}

	go d.run()
	return d
}

// Notify enqueues a message for delivery. It never blocks and never fails
// from the caller's point of view.
func (d *Dispatcher) Notify(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Printf("notification queue full, dropping message for user %s: %s", msg.UserID, msg.Title)
	}
}

// Close stops accepting messages and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)

		var link *string
		if msg.Link != "" {
			l := msg.Link
			link = &l
		}

		_, err := d.svc.Create(ctx, notification.CreateRequest{
			UserID:  msg.UserID,
			Title:   msg.Title,
			Message: msg.Body,
			Type:    notification.Type(msg.Kind),
			Link:    link,
		})
		cancel()

		if err != nil {
			log.Printf("failed to deliver notification to user %s: %v", msg.UserID, err)
		}
	}
}
