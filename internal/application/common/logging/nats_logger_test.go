package logging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNATSLogger_ConnectionEvents tests NATS connection event logging
func TestNATSLogger_ConnectionEvents(t *testing.T) {
	config := Config{
		Level:  "INFO",
		Format: "json",
		Output: "buffer",
	}

	logger, err := NewApplicationLogger(config)
	require.NoError(t, err)

	natsLogger := logger.WithComponent("nats-publisher")
	ctx := WithCorrelationID(context.Background(), "nats-connection-123")

	tests := []struct {
		name     string
		event    NATSConnectionEvent
		logLevel string
	}{
		{
			name: "successful connection",
			event: NATSConnectionEvent{
				Type:      NATSConnected,
				ServerURL: "nats://localhost:4222",
				Duration:  time.Millisecond * 50,
				Success:   true,
			},
			logLevel: "INFO",
		},
		{
			name: "connection failure",
			event: NATSConnectionEvent{
				Type:      NATSConnectionFailed,
				ServerURL: "nats://localhost:4222",
				Duration:  time.Second * 2,
				Success:   false,
				Error:     errors.New("connection refused"),
			},
			logLevel: "ERROR",
		},
		{
			name: "disconnection",
			event: NATSConnectionEvent{
				Type:      NATSDisconnected,
				ServerURL: "nats://localhost:4222",
				Success:   true,
				Reason:    "client_disconnect",
			},
			logLevel: "INFO",
		},
		{
			name: "reconnection attempt",
			event: NATSConnectionEvent{
				Type:      NATSReconnecting,
				ServerURL: "nats://localhost:4222",
				Success:   false,
			},
			logLevel: "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			natsLogger.LogNATSConnectionEvent(ctx, tt.event)

			output := getLoggerOutput(natsLogger)
			assert.NotEmpty(t, output, "Expected NATS connection event to be logged")

			var logEntry LogEntry
			err := json.Unmarshal([]byte(output), &logEntry)
			require.NoError(t, err)

			assert.Equal(t, tt.logLevel, logEntry.Level)
			assert.Equal(t, "nats-publisher", logEntry.Component)
			assert.Equal(t, "nats_connection", logEntry.Operation)
			assert.Equal(t, "nats-connection-123", logEntry.CorrelationID)

			assert.Equal(t, tt.event.Type, logEntry.Metadata["event_type"])
			assert.Equal(t, tt.event.ServerURL, logEntry.Metadata["server_url"])
			assert.Equal(t, tt.event.Success, logEntry.Metadata["success"])

			if tt.event.Duration > 0 {
				assert.Equal(t, tt.event.Duration.String(), logEntry.Duration)
			}
			if tt.event.Error != nil {
				assert.Equal(t, tt.event.Error.Error(), logEntry.Error)
			}
			if tt.event.Reason != "" {
				assert.Equal(t, tt.event.Reason, logEntry.Metadata["reason"])
			}
		})
	}
}

// TestNATSLogger_MessagePublishing tests NATS message publishing logging
func TestNATSLogger_MessagePublishing(t *testing.T) {
	logger, err := NewApplicationLogger(Config{Level: "DEBUG", Format: "json", Output: "buffer"})
	require.NoError(t, err)

	ctx := WithCorrelationID(context.Background(), "publish-1")

	t.Run("successful publish is logged at debug", func(t *testing.T) {
		logger.LogNATSPublishEvent(ctx, NATSPublishEvent{
			Subject:     "gradle.reports.script",
			MessageID:   "report-1",
			MessageSize: 2048,
			Duration:    time.Millisecond * 3,
			Success:     true,
		})

		var logEntry LogEntry
		require.NoError(t, json.Unmarshal([]byte(getLoggerOutput(logger)), &logEntry))
		assert.Equal(t, "DEBUG", logEntry.Level)
		assert.Equal(t, "nats_publish", logEntry.Operation)
		assert.Equal(t, "gradle.reports.script", logEntry.Metadata["subject"])
		assert.Equal(t, "report-1", logEntry.Metadata["message_id"])
		assert.Equal(t, float64(2048), logEntry.Metadata["message_size"])
	})

	t.Run("failed publish is logged as error", func(t *testing.T) {
		logger.LogNATSPublishEvent(ctx, NATSPublishEvent{
			Subject:   "gradle.reports.project",
			MessageID: "report-2",
			Success:   false,
			Error:     errors.New("nats: timeout"),
		})

		var logEntry LogEntry
		require.NoError(t, json.Unmarshal([]byte(getLoggerOutput(logger)), &logEntry))
		assert.Equal(t, "ERROR", logEntry.Level)
		assert.Equal(t, "NATS message publish failed", logEntry.Message)
		assert.Equal(t, "nats: timeout", logEntry.Error)
	})
}
