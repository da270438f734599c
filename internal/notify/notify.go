package notify

import (
	"time"

	"github.com/viney-shih/goroutines"

	"bid-engine/utils"
)

// OutbidEvent tells a bidder they lost the lead on an auction.
type OutbidEvent struct {
	AuctionID  string    `json:"auction_id"`
	UserID     string    `json:"user_id"`
	NewPrice   float64   `json:"new_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier is the fire-and-forget dispatch contract the engine depends
// on. Enqueue must never block adjudication and never surfaces errors
// to the bidder whose bid succeeded.
type Notifier interface {
	Enqueue(userID string, event OutbidEvent)
}

// Publisher delivers a single event to the outside world (message
// broker, log, ...). Failures are the dispatcher's problem to log.
type Publisher interface {
	Publish(userID string, event OutbidEvent) error
}

// Dispatcher fans events out on a bounded worker pool. Publish failures
// are logged and dropped; there is no synchronous retry.
type Dispatcher struct {
	pool *goroutines.Pool
	pub  Publisher
}

const scheduleTimeout = 3 * time.Second

// NewDispatcher creates a dispatcher backed by a pool of the given size.
func NewDispatcher(pub Publisher, poolSize int) *Dispatcher {
	if poolSize <= 0 {
		poolSize = 32
	}
	return &Dispatcher{
		pool: goroutines.NewPool(poolSize, goroutines.WithTaskQueueLength(1024)),
		pub:  pub,
	}
}

// Enqueue schedules one event for delivery and returns immediately.
func (d *Dispatcher) Enqueue(userID string, event OutbidEvent) {
	err := d.pool.ScheduleWithTimeout(scheduleTimeout, func() {
		if err := d.pub.Publish(userID, event); err != nil {
			utils.Error("notify: publish failed", map[string]any{
				"user_id":    userID,
				"auction_id": event.AuctionID,
				"error":      err.Error(),
			})
		}
	})
	if err != nil {
		utils.Error("notify: schedule failed, event dropped", map[string]any{
			"user_id":    userID,
			"auction_id": event.AuctionID,
			"error":      err.Error(),
		})
	}
}

// Close releases the worker pool, waiting for scheduled tasks to drain.
func (d *Dispatcher) Close() {
	d.pool.Release()
}
