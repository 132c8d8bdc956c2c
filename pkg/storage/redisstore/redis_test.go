package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyAddress(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Config{Address: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestClient_Increment(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Address: mr.Addr(), KeyPrefix: "demo"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	for want := int64(1); want <= 3; want++ {
		got, err := client.Increment(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	stored, err := mr.Get("demo:visits")
	require.NoError(t, err)
	assert.Equal(t, "3", stored)

	require.NoError(t, client.Ping(context.Background()))
}

func TestClient_IncrementWithoutPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("visits", "41"))

	client, err := Connect(context.Background(), Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	got, err := client.Increment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), got, "existing counter must keep counting")
}

func TestClient_PingAfterServerStops(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, client.Ping(ctx))
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "with prefix", prefix: "demo", parts: []string{"visits"}, expected: "demo:visits"},
		{name: "without prefix", parts: []string{"visits"}, expected: "visits"},
		{name: "nested", prefix: "demo", parts: []string{"visits", "today"}, expected: "demo:visits:today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{keyPrefix: tt.prefix}
			assert.Equal(t, tt.expected, c.buildKey(tt.parts...))
		})
	}
}
