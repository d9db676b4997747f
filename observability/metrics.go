package observability

import (
	"context"
	"direct-chat/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "direct_chat"

// Metrics holds the delivery counters. A nil *Metrics is valid and records
// nothing, which keeps unit tests free of a registry.
type Metrics struct {
	messagesPersisted   prometheus.Counter
	deliveriesPushed    prometheus.Counter
	deliveryFailures    prometheus.Counter
	broadcastsDropped   prometheus.Counter
	broadcastsFannedOut prometheus.Counter
	handshakeRejections *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. connections feeds the
// active connections gauge.
func NewMetrics(reg prometheus.Registerer, connections func() int) *Metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Live streaming connections registered",
	}, func() float64 { return float64(connections()) })

	return &Metrics{
		messagesPersisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_persisted_total",
			Help:      "Messages durably stored",
		}),
		deliveriesPushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_pushed_total",
			Help:      "Delivery frames accepted by a live connection",
		}),
		deliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Delivery frames a live connection did not accept in time",
		}),
		broadcastsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_dropped_total",
			Help:      "Deliveries not broadcast because the queue was full",
		}),
		broadcastsFannedOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Deliveries fanned out on the broadcast topic",
		}),
		handshakeRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshake_rejections_total",
			Help:      "Streaming connections refused at handshake",
		}, []string{"reason"}),
	}
}

func (m *Metrics) MessagePersisted() {
	if m != nil {
		m.messagesPersisted.Inc()
	}
}

func (m *Metrics) DeliveryPushed() {
	if m != nil {
		m.deliveriesPushed.Inc()
	}
}

func (m *Metrics) DeliveryFailed() {
	if m != nil {
		m.deliveryFailures.Inc()
	}
}

func (m *Metrics) BroadcastDropped() {
	if m != nil {
		m.broadcastsDropped.Inc()
	}
}

func (m *Metrics) HandshakeRejected(reason string) {
	if m != nil {
		m.handshakeRejections.WithLabelValues(reason).Inc()
	}
}

// Consume counts broadcast deliveries, as a permanent fan-out sink.
func (m *Metrics) Consume(context.Context, domain.Delivery) error {
	if m != nil {
		m.broadcastsFannedOut.Inc()
	}
	return nil
}
