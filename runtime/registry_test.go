package runtime

import (
	"context"
	"direct-chat/domain"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type handle struct {
	name string
}

func (h *handle) Consume(context.Context, domain.Delivery) error { return nil }

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	laptop, phone := &handle{"laptop"}, &handle{"phone"}

	// Given bob is offline
	req.Empty(registry.Lookup("bob"))

	// When he connects from two devices
	registry.Register("bob", laptop)
	registry.Register("bob", phone)

	// Then both handles are reachable
	req.ElementsMatch(registry.Lookup("bob"), []any{laptop, phone})
	req.Equal(2, registry.ConnectionCount())
}

func TestRegistry_Register_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	h := &handle{"laptop"}

	registry.Register("bob", h)
	registry.Register("bob", h)

	req.Len(registry.Lookup("bob"), 1)
	req.Equal(1, registry.ConnectionCount())
}

func TestRegistry_Register_Moves_Handle_Between_Users(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	h := &handle{"shared"}

	registry.Register("alice", h)
	registry.Register("bob", h)

	req.Empty(registry.Lookup("alice"))
	req.Len(registry.Lookup("bob"), 1)
}

func TestRegistry_Unregister(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	laptop, phone := &handle{"laptop"}, &handle{"phone"}
	registry.Register("bob", laptop)
	registry.Register("bob", phone)

	// When one device disconnects
	registry.Unregister(laptop)

	// Then the other stays reachable
	req.Equal([]any{phone}, toAny(registry.Lookup("bob")))

	// When the last device disconnects twice
	registry.Unregister(phone)
	registry.Unregister(phone)

	// Then bob is offline and no empty entry is left behind
	req.Empty(registry.Lookup("bob"))
	req.Empty(registry.connections)
	req.Zero(registry.ConnectionCount())
}

func TestRegistry_Lookup_Returns_A_Snapshot(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	h := &handle{"laptop"}
	registry.Register("bob", h)

	handles := registry.Lookup("bob")
	registry.Unregister(h)

	req.Len(handles, 1)
	req.Empty(registry.Lookup("bob"))
}

func TestRegistry_Broadcast_Listeners(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	l1, l2 := &handle{"l1"}, &handle{"l2"}

	registry.Subscribe(l1)
	registry.Subscribe(l2)
	registry.Subscribe(l1)
	req.Len(registry.Listeners(), 2)

	registry.Unsubscribe(l1)
	registry.Unsubscribe(l1)
	req.Equal([]any{l2}, toAny(registry.Listeners()))
}

func TestRegistry_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%5)
			h := &handle{fmt.Sprintf("h-%d", i)}
			registry.Register(user, h)
			_ = registry.Lookup(user)
			registry.Unregister(h)
		}(i)
	}
	wg.Wait()

	req.Zero(registry.ConnectionCount())
	req.Empty(registry.connections)
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
