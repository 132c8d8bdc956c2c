// Package sqlstore stores guestbook messages in MySQL or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned for drivers other than mysql and postgres.
var ErrUnknownDriver = errors.New("sqlstore: unknown driver")

// Config holds the relational database settings.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the database/sql driver name and data source name.
func (c Config) DSN() (driverName, dsn string, err error) {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))

	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = c.Database
		mc.ParseTime = true
		return "mysql", mc.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     addr,
			Path:     "/" + c.Database,
			RawQuery: "sslmode=disable",
		}
		return "pgx", u.String(), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
}

// Message is one guestbook entry.
type Message struct {
	ID        int64
	Text      string
	CreatedAt time.Time
}

// Store runs the guestbook queries against one *sql.DB.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects, pings and ensures the messages table exists. The returned
// Store owns the connection pool.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driverName, dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	store := New(db, cfg.Driver)
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing pool.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// EnsureSchema creates the messages table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS messages (
		id INT AUTO_INCREMENT PRIMARY KEY,
		message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if s.driver == DriverPostgres {
		ddl = `CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

// Add inserts a message.
func (s *Store) Add(ctx context.Context, text string) error {
	query := "INSERT INTO messages (message) VALUES (?)"
	if s.driver == DriverPostgres {
		query = "INSERT INTO messages (message) VALUES ($1)"
	}

	if _, err := s.db.ExecContext(ctx, query, text); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List returns every message, newest first.
func (s *Store) List(ctx context.Context) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, message, created_at FROM messages ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			m    Message
			text sql.NullString
		)
		if err := rows.Scan(&m.ID, &text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Text = text.String
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.driver, err)
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
