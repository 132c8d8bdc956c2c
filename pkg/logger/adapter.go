package logger

import (
	"go.uber.org/zap"
)

// DriverSink forwards MongoDB driver log messages to the global logger.
// It satisfies the mongo-driver options.LogSink interface.
type DriverSink struct{}

func NewDriverSink() *DriverSink {
	return &DriverSink{}
}

// Info logs driver messages at debug level; the driver is chatty about
// connection pool events.
func (d *DriverSink) Info(_ int, message string, keysAndValues ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Debugw(message, keysAndValues...)
	}
}

func (d *DriverSink) Error(err error, message string, keysAndValues ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Errorw(message, append(keysAndValues, "error", err)...)
	}
}

var Driver = NewDriverSink()
