package logging

import (
	"context"
	"fmt"
	"time"
)

// NATS connection event types.
const (
	NATSConnected        = "CONNECTED"
	NATSDisconnected     = "DISCONNECTED"
	NATSReconnecting     = "RECONNECTING"
	NATSConnectionFailed = "CONNECTION_FAILED"
	NATSClosed           = "CLOSED"
)

// NATSConnectionEvent describes a change of a NATS connection.
type NATSConnectionEvent struct {
	Type      string
	ServerURL string
	Duration  time.Duration
	Success   bool
	Error     error
	Reason    string // For disconnections
}

// NATSPublishEvent describes the publication of one report.
type NATSPublishEvent struct {
	Subject     string
	MessageID   string
	MessageSize int64
	Duration    time.Duration
	Success     bool
	Error       error
}

// LogNATSConnectionEvent logs NATS connection events
func (l *applicationLoggerImpl) LogNATSConnectionEvent(ctx context.Context, event NATSConnectionEvent) {
	fields := Fields{
		"operation":  "nats_connection",
		"event_type": event.Type,
		"server_url": event.ServerURL,
		"success":    event.Success,
	}
	if event.Duration > 0 {
		fields["duration"] = event.Duration.String()
	}
	if event.Reason != "" {
		fields["reason"] = event.Reason
	}

	switch {
	case !event.Success && event.Error != nil:
		l.ErrorWithError(ctx, event.Error, fmt.Sprintf("NATS connection failed: %s", event.Type), fields)
	case event.Type == NATSReconnecting:
		l.Warn(ctx, fmt.Sprintf("NATS connection event: %s", event.Type), fields)
	default:
		l.Info(ctx, fmt.Sprintf("NATS connection event: %s", event.Type), fields)
	}
}

// LogNATSPublishEvent logs NATS message publishing events
func (l *applicationLoggerImpl) LogNATSPublishEvent(ctx context.Context, event NATSPublishEvent) {
	fields := Fields{
		"operation":    "nats_publish",
		"subject":      event.Subject,
		"message_id":   event.MessageID,
		"message_size": event.MessageSize,
		"success":      event.Success,
		"duration":     event.Duration.String(),
	}

	if !event.Success {
		l.ErrorWithError(ctx, event.Error, "NATS message publish failed", fields)
		return
	}
	l.Debug(ctx, "NATS message published", fields)
}
