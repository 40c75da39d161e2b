// Package notify fans out table change notifications to whoever is watching a table
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many notifications a slow subscriber can fall behind before it misses some
const subscriberBuffer = 32

// Notifier publishes and subscribes to table changes
type Notifier interface {
	TableChanged(ctx context.Context, tableID string)

	// Subscribe returns a channel of changed table IDs and a function that ends the subscription
	Subscribe() (<-chan string, func())
}

// Local delivers notifications to subscribers in this process
type Local struct {
	logger logrus.FieldLogger

	mu   sync.RWMutex
	subs map[int]chan string
	next int
}

var _ Notifier = (*Local)(nil)

// NewLocal returns an in-process notifier
func NewLocal(logger logrus.FieldLogger) *Local {
	return &Local{
		logger: logger,
		subs:   make(map[int]chan string),
	}
}

// TableChanged implements Notifier
// Subscribers that are full miss the notification instead of blocking the caller
func (l *Local) TableChanged(_ context.Context, tableID string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for id, ch := range l.subs {
		select {
		case ch <- tableID:
		default:
			l.logger.WithFields(logrus.Fields{
				"subscriber": id,
				"table":      tableID,
			}).Warn("subscriber is full, dropping notification")
		}
	}
}

// Subscribe implements Notifier
func (l *Local) Subscribe() (<-chan string, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.next
	l.next++

	ch := make(chan string, subscriberBuffer)
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()

			delete(l.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscriptions
func (l *Local) Subscribers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}
