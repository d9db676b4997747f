//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"direct-chat/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used in supervision logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives delivery projections. Live connection handles,
// broadcast listeners and permanent sinks (search index, metrics) all
// implement it. Implementations registered in the registry must be
// comparable, in practice pointers.
type EventSink interface {
	Consume(ctx context.Context, delivery domain.Delivery) error
}

// IRegistry maps a user to the live connections opened under its identity
// and keeps the listeners of the broadcast topic.
type IRegistry interface {
	Register(userID string, handle EventSink)
	Unregister(handle EventSink)
	Lookup(userID string) []EventSink
	Subscribe(listener EventSink)
	Unsubscribe(listener EventSink)
	Listeners() []EventSink
	ConnectionCount() int
}

type IDispatcher interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Delivery, error)
	MarkSeen(ctx context.Context, messageID, readerID string) (domain.Message, error)
}
