// Package accesslog writes one JSON line per HTTP request to the console and,
// optionally, to an append-only file.
package accesslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimestampLayout matches the millisecond UTC timestamps of the log format.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one access log line.
type Entry struct {
	Timestamp time.Time
	Method    string
	Path      string
	IP        string
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e Entry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("timestamp", e.Timestamp.UTC().Format(TimestampLayout))
	enc.AddString("method", e.Method)
	enc.AddString("path", e.Path)
	enc.AddString("ip", e.IP)
	return nil
}

// Logger writes access log entries.
type Logger struct {
	log  *zap.Logger
	file *os.File
}

// New creates an access logger writing to console and, when path is not
// empty, appending to the file at path. Missing directories are created.
// A nil console means stdout.
func New(path string, console io.Writer) (*Logger, error) {
	if console == nil {
		console = os.Stdout
	}

	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		LineEnding: zapcore.DefaultLineEnding,
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(console)), zapcore.InfoLevel),
	}

	var file *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}

		var err error
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(file), zapcore.InfoLevel))
	}

	return &Logger{
		log:  zap.New(zapcore.NewTee(cores...)),
		file: file,
	}, nil
}

// Log writes one entry to every sink.
func (l *Logger) Log(entry Entry) {
	l.log.Info("", zap.Inline(entry))
}

// Middleware logs every request before handing it on.
func (l *Logger) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l.Log(Entry{
			Timestamp: time.Now(),
			Method:    c.Method(),
			Path:      c.OriginalURL(),
			IP:        c.IP(),
		})
		return c.Next()
	}
}

// Close flushes the sinks and closes the log file.
func (l *Logger) Close() error {
	// Syncing a terminal fails on some platforms; only the file matters.
	_ = l.log.Sync()

	if l.file == nil {
		return nil
	}
	return multierr.Append(l.file.Sync(), l.file.Close())
}
