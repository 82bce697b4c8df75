package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/streamcart/product-catalog/internal/ports"
)

type SubscriberState int32

const (
	StateStopped SubscriberState = iota
	StateConnecting
	StateSubscribed
	StateRunning
	StateFailed
)

func (s SubscriberState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Subscriber owns the receive loop: it fetches raw messages from its source,
// decodes envelopes, and hands each to the handler. A malformed message is
// logged and skipped. A handler error is logged and never retried. A source
// failure is terminal: the subscriber lands in StateFailed and stays there
// until an external supervisor restarts it.
type Subscriber struct {
	logger  *slog.Logger
	source  MessageSource
	handler ports.EventHandler

	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSubscriber(logger *slog.Logger, source MessageSource, handler ports.EventHandler) *Subscriber {
	return &Subscriber{logger: logger, source: source, handler: handler}
}

func (s *Subscriber) State() SubscriberState {
	return SubscriberState(s.state.Load())
}

// Start launches the receive loop. A subscriber is single-use: the loop
// releases the source on every exit path, so once it has run — whether it
// stopped cleanly or failed — a later Start is rejected and resuming
// consumption requires a new instance.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return fmt.Errorf("subscriber already used in state %s, create a new instance", s.State())
	}
	s.state.Store(int32(StateConnecting))
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(runCtx)
	return nil
}

// Stop cancels the loop and waits for it to drain. The in-flight handler call,
// if any, is allowed to finish. The source is released exactly once, by the
// loop itself, on every exit path.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("closing message source failed",
				"module", "events.subscriber",
				"layer", "adapter",
				"operation", "close",
				"outcome", "failure",
				"error", err,
			)
		}
	}()

	// The group join happens inside the source on first fetch; from the
	// subscriber's point of view the subscription is established once the
	// loop is about to fetch.
	s.state.Store(int32(StateSubscribed))
	s.state.Store(int32(StateRunning))

	for {
		msg, err := s.source.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				s.state.Store(int32(StateStopped))
				return
			}
			s.state.Store(int32(StateFailed))
			s.logger.ErrorContext(ctx, "subscriber connection lost",
				"module", "events.subscriber",
				"layer", "adapter",
				"operation", "fetch",
				"outcome", "failure",
				"error", err,
			)
			return
		}

		envelope, err := DecodeEnvelope(msg.Value)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed message",
				"module", "events.subscriber",
				"layer", "adapter",
				"operation", "decode",
				"outcome", "skipped",
				"key", string(msg.Key),
				"error", err,
			)
			continue
		}

		if err := s.handler(ctx, envelope); err != nil {
			s.logger.WarnContext(ctx, "event handler failed",
				"module", "events.subscriber",
				"layer", "adapter",
				"operation", "handle",
				"outcome", "failure",
				"event_type", envelope.Type,
				"error", err,
			)
		}
	}
}
