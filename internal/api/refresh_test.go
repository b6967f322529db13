package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefreshBusNotifiesSubscribers(t *testing.T) {
	bus := NewRefreshBus()

	ch1, cancel1 := bus.Subscribe()
	ch2, cancel2 := bus.Subscribe()
	defer cancel1()
	defer cancel2()

	bus.Notify()

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
}

func TestRefreshBusCoalescesPendingSignals(t *testing.T) {
	bus := NewRefreshBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Notify()
	bus.Notify()
	bus.Notify()

	require.Len(t, ch, 1)
}

func TestClientSharesOneRefreshBus(t *testing.T) {
	client := NewClient("http://example", "", nil)

	bus := client.RefreshBus()
	require.NotNil(t, bus)
	require.Same(t, bus, client.RefreshBus())

	ch, cancel := bus.Subscribe()
	defer cancel()
	client.RefreshBus().Notify()
	require.Len(t, ch, 1)
}

func TestRefreshBusUnsubscribe(t *testing.T) {
	bus := NewRefreshBus()
	ch, cancel := bus.Subscribe()
	cancel()

	bus.Notify()
	require.Empty(t, ch)
}
