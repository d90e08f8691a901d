package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogNavigation records the outcome of a page load.
func LogNavigation(url string, elapsed time.Duration, err error) {
	l := GetLogger().WithFields(map[string]interface{}{
		"url":        url,
		"elapsed_ms": elapsed.Milliseconds(),
	})

	if err != nil {
		l.WithError(err).Warn("Navigation failed")
		return
	}
	l.Debug("Navigation completed")
}

// LogPostProgress reports where the post detail loop currently is.
func LogPostProgress(index, total int, url string) {
	GetLogger().WithFields(map[string]interface{}{
		"post": fmt.Sprintf("%d/%d", index, total),
		"url":  url,
	}).Info("Processing post")
}

// LogDownload logs a media download result
func LogDownload(username, mediaID string, skipped bool, err error) {
	l := GetLogger().WithFields(map[string]interface{}{
		"username": username,
		"media_id": mediaID,
	})

	switch {
	case err != nil:
		l.WithError(err).Error("Download failed")
	case skipped:
		l.Debug("Download skipped, file already present")
	default:
		l.Info("Download completed")
	}
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)

	if len(config) > 0 {
		l = l.WithFields(config)
	}

	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
