// Package notify delivers side effects (emails, Redis pub/sub pushes) off the
// request path. Producers enqueue and return; a single worker drains the queue.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

// Notification is one outbound side effect. Email is sent when Email is set,
// a push is published when UserID is set.
type Notification struct {
	Kind    models.NotificationKind
	UserID  uuid.UUID
	Email   string
	Subject string
	Body    string
	Data    map[string]interface{}
}

// Notifier never blocks the caller.
type Notifier interface {
	Notify(n Notification)
}

type Dispatcher struct {
	queue     chan Notification
	done      chan struct{}
	mailer    Mailer
	publisher Publisher
	store     stores.NotificationStore

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher wires the delivery channels. publisher and store may be nil.
func NewDispatcher(size int, mailer Mailer, publisher Publisher, store stores.NotificationStore) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Dispatcher{
		queue:     make(chan Notification, size),
		done:      make(chan struct{}),
		mailer:    mailer,
		publisher: publisher,
		store:     store,
	}
}

func (d *Dispatcher) Notify(n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Printf("[notify] dispatcher closed, dropping %s", n.Kind)
		return
	}
	select {
	case d.queue <- n:
	default:
		// full: drop rather than block the request
		log.Printf("[notify] queue full, dropping %s for %s", n.Kind, n.UserID)
	}
}

// Run drains the queue until Close is called or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case n, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ctx, n)
		case <-ctx.Done():
			return
		}
	}
}

// Close stops accepting notifications and waits until Run has delivered
// everything already queued. Run must have been started.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) {
	var failures []string

	if n.Email != "" {
		if err := d.mailer.Send(n.Email, n.Subject, n.Body); err != nil {
			log.Printf("[notify] mail %s to %s failed: %v", n.Kind, n.Email, err)
			failures = append(failures, "mail: "+err.Error())
		}
	}

	if n.UserID != uuid.Nil && d.publisher != nil {
		if err := d.publisher.Publish(ctx, n.UserID, n.Kind, n.Data); err != nil {
			log.Printf("[notify] publish %s to %s failed: %v", n.Kind, n.UserID, err)
			failures = append(failures, "publish: "+err.Error())
		}
	}

	d.record(ctx, n, failures)
}

func (d *Dispatcher) record(ctx context.Context, n Notification, failures []string) {
	if d.store == nil {
		return
	}

	row := &models.Notification{
		Kind:   n.Kind,
		Email:  n.Email,
		Status: models.NotificationSent,
	}
	if n.UserID != uuid.Nil {
		uid := n.UserID
		row.UserID = &uid
	}
	if n.Data != nil {
		if b, err := json.Marshal(n.Data); err == nil {
			row.Payload = datatypes.JSON(b)
		}
	}
	if len(failures) > 0 {
		row.Status = models.NotificationFailed
		row.Error = strings.Join(failures, "; ")
	}

	if err := d.store.Record(ctx, row); err != nil {
		log.Printf("[notify] record %s failed: %v", n.Kind, err)
	}
}
