package cooldown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemoryTracker_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewMemoryTracker(15 * time.Second)
	tr.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _, err := tr.Acquire(ctx, "wallet-a")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(4 * time.Second)
	ok, remaining, err := tr.Acquire(ctx, "wallet-a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 11*time.Second, remaining)

	ok, _, err = tr.Acquire(ctx, "wallet-b")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	now = now.Add(11 * time.Second)
	ok, _, err = tr.Acquire(ctx, "wallet-a")
	require.NoError(t, err)
	assert.True(t, ok, "window elapsed")
}

func TestMemoryTracker_ConcurrentAcquireGrantsOnce(t *testing.T) {
	tr := NewMemoryTracker(time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, _ := tr.Acquire(context.Background(), "same")
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, granted)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisTracker_Window(t *testing.T) {
	client := setupRedis(t)
	tr := NewRedisTracker(client, 2*time.Second, "test:cooldown:")
	ctx := context.Background()
	require.NoError(t, tr.Ping(ctx))

	ok, _, err := tr.Acquire(ctx, "wallet-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, remaining, err := tr.Acquire(ctx, "wallet-a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 2*time.Second)

	exists, err := client.Exists(ctx, "test:cooldown:wallet-a").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "keys carry the prefix")

	ok, _, err = tr.Acquire(ctx, "wallet-b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Eventually(t, func() bool {
		ok, _, err := tr.Acquire(ctx, "wallet-a")
		return err == nil && ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisTracker_ErrorWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	tr := NewRedisTracker(client, time.Second, "x:")

	_, _, err := tr.Acquire(context.Background(), "k")
	require.Error(t, err)
}
