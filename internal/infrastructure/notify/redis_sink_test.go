package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/notify"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con Redis omitida en modo -short")
	}
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	addr, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisSink_PublishesJSON(t *testing.T) {
	client := startRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "pos-ledger.test")
	defer sub.Close()
	_, err := sub.Receive(ctx) // confirmación de suscripción
	require.NoError(t, err)

	sink := notify.NewRedisSink(client, "pos-ledger.test")
	require.NoError(t, sink.Deliver(ctx, event.Notification{
		Type:    event.TypeSaleCompleted,
		Payload: event.SaleCompleted{SaleID: "S1", SaleNumber: "V-1"},
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, event.TypeSaleCompleted, got["type"])
	assert.Equal(t, "V-1", got["payload"].(map[string]any)["sale_number"])
}
