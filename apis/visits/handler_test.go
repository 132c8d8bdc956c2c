package visits

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
)

// memoryCounter shares its count across handles, like a real database.
type memoryCounter struct {
	total  *atomic.Int64
	closes *atomic.Int32
	err    error
	block  bool
}

func (m *memoryCounter) Increment(ctx context.Context) (int64, error) {
	if m.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if m.err != nil {
		return 0, m.err
	}
	return m.total.Add(1), nil
}

func (m *memoryCounter) Close(context.Context) error {
	m.closes.Add(1)
	return nil
}

type counterDB struct {
	total   atomic.Int64
	opens   atomic.Int32
	closes  atomic.Int32
	openErr error
	opErr   error
	block   bool
}

func (db *counterDB) open(context.Context) (Counter, error) {
	if db.openErr != nil {
		return nil, db.openErr
	}
	db.opens.Add(1)
	return &memoryCounter{total: &db.total, closes: &db.closes, err: db.opErr, block: db.block}, nil
}

func newTestApp(db *counterDB, render Renderer, requestTimeout time.Duration) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, NewHandler(lifecycle.NewPerRequest(db.open), render), requestTimeout)
	return app
}

func get(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestVisit_CountsEveryRequest(t *testing.T) {
	db := &counterDB{}
	app := newTestApp(db, MongoGreeting, time.Second)

	for i := 1; i <= 3; i++ {
		code, body := get(t, app)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, MongoGreeting(int64(i)), body)
	}

	assert.Equal(t, int32(3), db.opens.Load())
	assert.Equal(t, int32(3), db.closes.Load())
}

func TestVisit_Failures(t *testing.T) {
	tests := []struct {
		name      string
		db        *counterDB
		wantOpens int32
	}{
		{name: "connect refused", db: &counterDB{openErr: errors.New("dial tcp: connection refused")}, wantOpens: 0},
		{name: "operation fails", db: &counterDB{opErr: errors.New("write concern error")}, wantOpens: 1},
		{name: "request times out", db: &counterDB{block: true}, wantOpens: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.db, MongoGreeting, 50*time.Millisecond)

			code, body := get(t, app)
			assert.Equal(t, fiber.StatusInternalServerError, code)
			assert.Equal(t, ErrorMessage, body)

			assert.Equal(t, tt.wantOpens, tt.db.opens.Load())
			assert.Equal(t, tt.db.opens.Load(), tt.db.closes.Load(), "every opened handle must be closed")
		})
	}
}

func TestRedisGreeting(t *testing.T) {
	render := RedisGreeting("web-1")
	assert.Equal(t, "Hello from Docker! This page has been viewed 7 times.\nHostname: web-1\n", render(7))
}

func TestMongoGreeting(t *testing.T) {
	assert.Equal(t, "Hello! This page has been visited 1 times.", MongoGreeting(1))
}
