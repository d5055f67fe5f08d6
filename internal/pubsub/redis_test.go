package pubsub_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AIS-Hub/AISHub/internal/pubsub"
	"github.com/AIS-Hub/AISHub/internal/sinks"
)

// redisAddr returns the test Redis instance's address, skipping the
// test when none is configured — these cases exercise a real
// connection rather than a fake, so they only run where infrastructure
// is available (CI sets AISHUB_TEST_REDIS_ADDR; local runs without it
// skip cleanly instead of failing).
func redisAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("AISHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AISHUB_TEST_REDIS_ADDR not set, skipping redis-backed pubsub test")
	}
	return addr
}

func TestConnectPingsRedis(t *testing.T) {
	addr := redisAddr(t)
	hub, err := pubsub.Connect(context.Background(), addr, "")
	require.NoError(t, err)
	defer hub.Close() //nolint:errcheck
}

func TestRelayFeedsLocalBroadcaster(t *testing.T) {
	addr := redisAddr(t)
	hub, err := pubsub.Connect(context.Background(), addr, "")
	require.NoError(t, err)
	defer hub.Close() //nolint:errcheck

	local := sinks.NewBroadcaster()
	ch := local.Subscribe(4)
	defer local.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Relay(ctx, "aishub-test:relay", local)

	time.Sleep(50 * time.Millisecond) // let the subscription establish
	require.NoError(t, hub.Publish(context.Background(), "aishub-test:relay", "hello"))

	select {
	case line := <-ch:
		require.Equal(t, "hello", line)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for relayed message")
	}
}

func TestBridgePublishesLocalBroadcasts(t *testing.T) {
	addr := redisAddr(t)
	hub, err := pubsub.Connect(context.Background(), addr, "")
	require.NoError(t, err)
	defer hub.Close() //nolint:errcheck

	local := sinks.NewBroadcaster()

	remote := hub.Subscribe(context.Background(), "aishub-test:bridge")
	defer remote.Unsubscribe() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Bridge(ctx, "aishub-test:bridge", local)

	time.Sleep(50 * time.Millisecond)
	local.PublishExternal("from-local")

	select {
	case line := <-remote.Channel():
		require.Equal(t, "from-local", line)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bridged message")
	}
}
