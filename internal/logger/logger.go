package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(logrus.InfoLevel)
}

// Configure sets the log level by name, keeping the current level when the
// name is not recognised
func Configure(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, keeping current")
		return
	}
	Log.SetLevel(lvl)
}

// WithRecordID returns a logger with eventId field
func WithRecordID(eventID string) *logrus.Entry {
	return Log.WithField("eventId", eventID)
}

// WithStage returns a logger tagged with a pipeline stage
func WithStage(stage string) *logrus.Entry {
	return Log.WithField("stage", stage)
}

// WithFields returns a logger with custom fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
