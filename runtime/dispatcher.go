package runtime

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/observability"
	"direct-chat/repositories"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultDeliveryTimeout = 2 * time.Second

type DispatcherConfig struct {
	MaxMessageLength int
	DeliveryTimeout  time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

func WithIDGenerator(newID func() string) DispatcherOption {
	return func(d *Dispatcher) { d.newID = newID }
}

// WithTextFilter rewrites the text after validation and before it is stored.
func WithTextFilter(filter func(string) string) DispatcherOption {
	return func(d *Dispatcher) { d.filter = filter }
}

// Dispatcher turns a send event into a stored message, then pushes it to
// the receiver's live connections and onto the broadcast queue.
// A message is never pushed before it is stored.
type Dispatcher struct {
	log              *slog.Logger
	users            repositories.IUserRepository
	messages         repositories.IMessageRepository
	registry         contract.IRegistry
	broadcast        chan<- domain.Delivery
	metrics          *observability.Metrics
	maxMessageLength int
	deliveryTimeout  time.Duration
	now              func() time.Time
	newID            func() string
	filter           func(string) string
}

func NewDispatcher(
	log *slog.Logger,
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	registry contract.IRegistry,
	broadcast chan<- domain.Delivery,
	metrics *observability.Metrics,
	cfg DispatcherConfig,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		log:              log,
		users:            users,
		messages:         messages,
		registry:         registry,
		broadcast:        broadcast,
		metrics:          metrics,
		maxMessageLength: cfg.MaxMessageLength,
		deliveryTimeout:  cfg.DeliveryTimeout,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	if d.deliveryTimeout <= 0 {
		d.deliveryTimeout = DefaultDeliveryTimeout
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendMessage validates, resolves, persists, pushes and broadcasts.
// Only validation, resolution and persistence failures are returned:
// once the message is stored, delivery problems are logged and counted.
func (d *Dispatcher) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Delivery, error) {
	if err := cmd.Validate(d.maxMessageLength); err != nil {
		return domain.Delivery{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	sender, err := d.resolve(cmd.SenderID)
	if err != nil {
		return domain.Delivery{}, err
	}
	receiver, err := d.resolve(cmd.ReceiverID)
	if err != nil {
		return domain.Delivery{}, err
	}

	text := cmd.Text
	if d.filter != nil {
		text = d.filter(text)
	}
	message := domain.Message{
		ID:         d.newID(),
		Text:       text,
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		SentAt:     d.now().UTC(),
		Status:     domain.StatusSent,
	}
	if err := d.messages.SaveMessage(message); err != nil {
		return domain.Delivery{}, persistenceError(err)
	}
	d.metrics.MessagePersisted()

	delivery := message.Delivery()
	d.push(ctx, receiver.ID, delivery)
	d.publish(delivery)
	return delivery, nil
}

func (d *Dispatcher) resolve(userID string) (domain.User, error) {
	user, err := d.users.FindUserByID(userID)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, errors.ErrUserNotFound):
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUnknownUser, userID)
	default:
		return domain.User{}, persistenceError(err)
	}
}

// push delivers to every live handle of the receiver concurrently, each
// bounded by the delivery timeout. The pushes outlive a sender that
// disconnects mid-send.
func (d *Dispatcher) push(ctx context.Context, receiverID string, delivery domain.Delivery) {
	handles := d.registry.Lookup(receiverID)
	if len(handles) == 0 {
		d.log.Debug("Receiver offline, stored only", "receiver_id", receiverID, "message_id", delivery.ID)
		return
	}

	base := context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h contract.EventSink) {
			defer wg.Done()
			pushCtx, cancel := context.WithTimeout(base, d.deliveryTimeout)
			defer cancel()
			if err := h.Consume(pushCtx, delivery); err != nil {
				d.metrics.DeliveryFailed()
				d.log.Warn("Delivery to live connection failed",
					"receiver_id", receiverID, "message_id", delivery.ID, "error", err)
				return
			}
			d.metrics.DeliveryPushed()
		}(h)
	}
	wg.Wait()
}

// publish never blocks the sender: a full broadcast queue drops the frame.
func (d *Dispatcher) publish(delivery domain.Delivery) {
	select {
	case d.broadcast <- delivery:
	default:
		d.metrics.BroadcastDropped()
		d.log.Warn("Broadcast queue full, delivery dropped", "message_id", delivery.ID)
	}
}

// MarkSeen lets the receiver acknowledge a message. Marking an already
// seen message again is a no-op.
func (d *Dispatcher) MarkSeen(_ context.Context, messageID, readerID string) (domain.Message, error) {
	message, err := d.messages.FindMessageByID(messageID)
	if err != nil {
		if errors.Is(err, errors.ErrMessageNotFound) {
			return domain.Message{}, err
		}
		return domain.Message{}, persistenceError(err)
	}
	if message.ReceiverID != readerID {
		return domain.Message{}, fmt.Errorf("%w: only the receiver can mark message %s as seen", errors.ErrForbidden, messageID)
	}
	if message.Status == domain.StatusSeen {
		return message, nil
	}
	if !message.Status.CanTransitionTo(domain.StatusSeen) {
		return domain.Message{}, fmt.Errorf("%w: %s -> %s", errors.ErrInvalidStatusTransition, message.Status, domain.StatusSeen)
	}
	message.Status = domain.StatusSeen
	if err := d.messages.SaveMessage(message); err != nil {
		return domain.Message{}, persistenceError(err)
	}
	return message, nil
}

func persistenceError(err error) error {
	if errors.Is(err, errors.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
}
