package sink

import (
	"context"
	"direct-chat/domain"
	"fmt"
	"log/slog"
	"sync"
)

var ErrConnectionClosed = fmt.Errorf("connection closed")

// GrpcSink is the live handle of one streaming connection.
// The dispatcher and the fan-out worker push into its buffer; the stream
// handler owning the connection drains it with Pump.
type GrpcSink struct {
	log    *slog.Logger
	userID string
	frames chan domain.Delivery
	closed chan struct{}
	once   sync.Once
}

func NewGrpcSink(log *slog.Logger, userID string, bufferSize int) *GrpcSink {
	return &GrpcSink{
		log:    log,
		userID: userID,
		frames: make(chan domain.Delivery, bufferSize),
		closed: make(chan struct{}),
	}
}

// Consume queues a delivery for the connection. It waits for buffer space
// at most until ctx ends; callers bound ctx with the delivery timeout.
func (s *GrpcSink) Consume(ctx context.Context, delivery domain.Delivery) error {
	select {
	case <-s.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case s.frames <- delivery:
		return nil
	case <-s.closed:
		return ErrConnectionClosed
	case <-ctx.Done():
		s.log.Warn("Connection buffer full, delivery dropped",
			"user_id", s.userID, "message_id", delivery.ID)
		return ctx.Err()
	}
}

// Pump writes queued deliveries with send until ctx ends or send fails.
func (s *GrpcSink) Pump(ctx context.Context, send func(domain.Delivery) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.closed:
			return nil
		case delivery := <-s.frames:
			if err := send(delivery); err != nil {
				return err
			}
		}
	}
}

// Close makes later Consume calls fail fast. Safe to call twice.
func (s *GrpcSink) Close() {
	s.once.Do(func() { close(s.closed) })
}

func (s *GrpcSink) UserID() string { return s.userID }
