package events

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/streamcart/product-catalog/internal/domain"
	"github.com/streamcart/product-catalog/internal/ports"
)

// MemoryPublisher records publish attempts in submission order. Used by tests
// and broker-less wiring checks.
type MemoryPublisher struct {
	mu        sync.Mutex
	published []ports.EventEnvelope
	attempts  int
	failErr   error
	nowFn     func() time.Time
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{nowFn: func() time.Time { return time.Now().UTC() }}
}

// FailWith makes every subsequent publish attempt fail with err. Pass nil to
// restore normal behavior.
func (p *MemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failErr = err
}

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload domain.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.failErr != nil {
		return p.failErr
	}
	p.published = append(p.published, ports.EventEnvelope{
		Type:      eventType,
		Payload:   payload,
		Timestamp: p.nowFn(),
	})
	return nil
}

func (p *MemoryPublisher) Published() []ports.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.EventEnvelope(nil), p.published...)
}

// Attempts counts every publish call, including failed ones.
func (p *MemoryPublisher) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// MemorySource feeds a subscriber from a seeded buffer. Once closed and
// drained, Fetch reports io.EOF, which the subscriber treats as a clean stop.
type MemorySource struct {
	mu     sync.Mutex
	ch     chan Message
	closed bool
}

func NewMemorySource(buffer int) *MemorySource {
	if buffer <= 0 {
		buffer = 128
	}
	return &MemorySource{ch: make(chan Message, buffer)}
}

// Seed never blocks: the lock is held during the sends, so a blocking send
// would deadlock a concurrent Close. A full buffer is an error instead.
func (s *MemorySource) Seed(messages ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memory source is closed")
	}
	for i, msg := range messages {
		select {
		case s.ch <- msg:
		default:
			return fmt.Errorf("memory source buffer full after %d of %d messages", i, len(messages))
		}
	}
	return nil
}

func (s *MemorySource) Fetch(ctx context.Context) (Message, error) {
	select {
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case msg, ok := <-s.ch:
		if !ok {
			return Message{}, io.EOF
		}
		return msg, nil
	}
}

func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}
