// Package broadcast fans committed transactions out to live subscribers.
//
// The Broadcaster is a process-wide multicast channel: every subscriber
// receives every transaction published after its subscription, nothing is
// replayed, and nothing is retained when no subscriber is attached. Slow
// subscribers never block publishers; each subscriber has a bounded buffer
// with a configurable overflow policy.
package broadcast

import (
	"log/slog"
	"sync"

	"github.com/bankx/transactions/pkg/dto"
)

// OverflowPolicy decides what happens when a subscriber's buffer is full.
type OverflowPolicy string

const (
	// DropOldest evicts the oldest buffered transaction to make room for
	// the new one.
	DropOldest OverflowPolicy = "drop_oldest"
	// RejectNew drops the new transaction and keeps the buffer as is.
	RejectNew OverflowPolicy = "reject_new"
)

// ParseOverflowPolicy maps a config string to a policy, falling back to
// DropOldest for unknown values.
func ParseOverflowPolicy(raw string) OverflowPolicy {
	if OverflowPolicy(raw) == RejectNew {
		return RejectNew
	}
	return DropOldest
}

// Broadcaster multicasts transactions to zero or more subscribers. It is
// created once at startup, owned by the application, and safe for concurrent
// use; it alone mutates the subscriber list.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[uint64]chan dto.TransactionRead
	nextID  uint64
	bufSize int
	policy  OverflowPolicy
	logger  *slog.Logger
}

// New creates a Broadcaster whose subscribers each buffer up to bufSize
// transactions before policy applies.
func New(bufSize int, policy OverflowPolicy, logger *slog.Logger) *Broadcaster {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &Broadcaster{
		subs:    make(map[uint64]chan dto.TransactionRead),
		bufSize: bufSize,
		policy:  policy,
		logger:  logger,
	}
}

// Subscribe registers a new subscriber and returns its live channel together
// with an unsubscribe function. The channel starts empty: only transactions
// published after this call are delivered. Unsubscribing closes the channel.
func (b *Broadcaster) Subscribe() (<-chan dto.TransactionRead, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan dto.TransactionRead, b.bufSize)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers tx to every current subscriber. It never blocks and never
// fails the publishing transaction; with zero subscribers the transaction is
// simply dropped.
func (b *Broadcaster) Publish(tx dto.TransactionRead) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- tx:
			continue
		default:
		}
		// Buffer full. Overflow handling still must not block: the
		// subscriber may drain concurrently, so every channel op stays
		// non-blocking.
		switch b.policy {
		case RejectNew:
			b.logger.Warn("subscriber buffer full, rejecting new transaction",
				"subscriber", id, "tx", tx.ID)
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- tx:
			default:
				b.logger.Warn("subscriber buffer full, dropping transaction",
					"subscriber", id, "tx", tx.ID)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
