package remote

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRoutesByTable(t *testing.T) {
	hub := NewHub()
	var inventory, team atomic.Int32

	_, err := hub.Subscribe("inventory", func() { inventory.Add(1) })
	require.NoError(t, err)
	_, err = hub.Subscribe("team", func() { team.Add(1) })
	require.NoError(t, err)

	require.NoError(t, hub.Publish(context.Background(), "inventory"))

	assert.Eventually(t, func() bool { return inventory.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), team.Load())
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	unsubscribe, err := hub.Subscribe("machines", func() {})
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers("machines"))

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, hub.Subscribers("machines"))
}

func TestHubNotifyAll(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	for _, table := range []string{"inventory", "machines", "maintenance"} {
		_, err := hub.Subscribe(table, func() { calls.Add(1) })
		require.NoError(t, err)
	}

	hub.NotifyAll()

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestHubCloseStopsDelivery(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	_, err := hub.Subscribe("team", func() { calls.Add(1) })
	require.NoError(t, err)

	require.NoError(t, hub.Close())
	hub.Notify("team")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
