package consumer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogHandler writes every received notification to the log.
type LogHandler struct {
	logger logrus.FieldLogger
}

// NewLogHandler builds a LogHandler.
func NewLogHandler(logger logrus.FieldLogger) *LogHandler {
	return &LogHandler{logger: logger}
}

// Handle implements Handler.
func (h *LogHandler) Handle(_ context.Context, msg Message) error {
	h.logger.WithFields(logrus.Fields{
		"event_type": msg.EventType,
		"entity":     msg.Kind,
		"id":         msg.EntityID,
		"offset":     msg.Offset,
	}).Info(msg.Text)
	return nil
}
