package workers

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"log/slog"
	"sync"
	"time"
)

// EventFanout drains the broadcast queue into the topic listeners of the
// registry and into the permanent sinks (search index, metrics).
//
// It is best-effort: no retry, no durability. Every sink gets its own
// goroutine bounded by sinkTimeout so one slow listener cannot hold the
// others back.
type EventFanout struct {
	log            *slog.Logger
	deliveries     <-chan domain.Delivery
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
}

func NewEventFanout(
	log *slog.Logger,
	deliveries <-chan domain.Delivery,
	registry contract.IRegistry,
	sinkTimeout time.Duration,
	permanentSinks ...contract.EventSink,
) *EventFanout {
	return &EventFanout{
		log:            log,
		deliveries:     deliveries,
		registry:       registry,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case delivery, ok := <-w.deliveries:
			if !ok {
				w.log.Debug("Broadcast queue closed")
				return nil
			}
			w.Fanout(ctx, delivery)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping broadcast fan-out")
			return nil
		}
	}
}

// Fanout One sink for each delivery
func (w *EventFanout) Fanout(ctx context.Context, delivery domain.Delivery) {
	sinks := append(w.registry.Listeners(), w.permanentSinks...)

	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(s contract.EventSink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := s.Consume(sinkCtx, delivery); err != nil {
				w.log.Debug("Broadcast sink failed", "message_id", delivery.ID, "error", err)
			}
		}(sink)
	}
	wg.Wait()
}
