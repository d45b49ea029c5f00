package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"gradlemeta/internal/application/common/logging"
	"gradlemeta/internal/application/common/retry"
	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/config"
	"gradlemeta/internal/port/outbound"
)

const (
	// ReportIDHeader carries the report id of every published message.
	ReportIDHeader = "Gradlemeta-Report-Id"

	defaultTimeout = 5 * time.Second
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("report publisher is closed")

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	ConnectedUrl() string
	Close()
}

// PublishMetrics tracks report publishing.
type PublishMetrics struct {
	PublishedCount    int64     `json:"published_count"`
	FailedCount       int64     `json:"failed_count"`
	LastPublishedTime time.Time `json:"last_published_time"`
}

// NATSReportPublisher publishes JSON encoded reports to a NATS subject.
type NATSReportPublisher struct {
	config  config.NATSConfig
	conn    Conn
	logger  logging.ApplicationLogger
	retry   retry.Policy
	mutex   sync.Mutex
	closed  bool
	metrics PublishMetrics
}

var _ outbound.ReportPublisher = (*NATSReportPublisher)(nil)

// NewNATSReportPublisher validates cfg and connects to the NATS server.
func NewNATSReportPublisher(ctx context.Context, cfg config.NATSConfig) (*NATSReportPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ReconnectWait < 0 {
		return nil, errors.New("reconnect wait cannot be negative")
	}

	logger := slogger.WithComponent("nats-publisher")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []nats.Option{
		nats.Name("gradlemeta"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(timeout),
		nats.DisconnectErrHandler(func(c *nats.Conn, err error) {
			event := logging.NATSConnectionEvent{Type: logging.NATSDisconnected, ServerURL: cfg.URL, Success: true}
			if err != nil {
				event.Reason = err.Error()
			}
			logger.LogNATSConnectionEvent(ctx, event)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.LogNATSConnectionEvent(ctx, logging.NATSConnectionEvent{
				Type:      logging.NATSConnected,
				ServerURL: c.ConnectedUrl(),
				Success:   true,
				Reason:    "reconnected",
			})
		}),
		nats.ClosedHandler(func(c *nats.Conn) {
			logger.LogNATSConnectionEvent(ctx, logging.NATSConnectionEvent{
				Type:      logging.NATSClosed,
				ServerURL: cfg.URL,
				Success:   true,
			})
		}),
	}

	start := time.Now()
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		logger.LogNATSConnectionEvent(ctx, logging.NATSConnectionEvent{
			Type:      logging.NATSConnectionFailed,
			ServerURL: cfg.URL,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.LogNATSConnectionEvent(ctx, logging.NATSConnectionEvent{
		Type:      logging.NATSConnected,
		ServerURL: conn.ConnectedUrl(),
		Duration:  time.Since(start),
		Success:   true,
	})

	return newPublisher(cfg, conn, logger), nil
}

// NewNATSReportPublisherWithConn creates a publisher over an established connection.
func NewNATSReportPublisherWithConn(cfg config.NATSConfig, conn Conn) (*NATSReportPublisher, error) {
	if conn == nil {
		return nil, errors.New("NATS connection cannot be nil")
	}
	if cfg.Subject == "" {
		return nil, errors.New("nats.subject is required")
	}
	return newPublisher(cfg, conn, slogger.WithComponent("nats-publisher")), nil
}

func newPublisher(cfg config.NATSConfig, conn Conn, logger logging.ApplicationLogger) *NATSReportPublisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	policy := retry.DefaultPolicy()
	policy.MaxRetries = cfg.PublishRetries
	return &NATSReportPublisher{config: cfg, conn: conn, logger: logger, retry: policy}
}

// isTransient reports whether a failed publish may succeed when sent again.
func isTransient(err error) bool {
	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrReconnectBufExceeded) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Publish sends report to the configured subject and waits for the server to
// acknowledge the flush. Timed out attempts are repeated up to
// nats.publish_retries times; consumers can drop repeats by ReportIDHeader.
func (p *NATSReportPublisher) Publish(ctx context.Context, report outbound.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return errors.New("report cannot be nil")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	start := time.Now()
	data, err := json.Marshal(report)
	if err != nil {
		p.metrics.FailedCount++
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	msg := nats.NewMsg(p.config.Subject)
	msg.Header.Set(ReportIDHeader, report.ReportID())
	msg.Data = data

	err = retry.Do(ctx, p.retry, isTransient, func(ctx context.Context) error {
		return p.send(ctx, msg)
	})
	p.logger.LogNATSPublishEvent(ctx, logging.NATSPublishEvent{
		Subject:     p.config.Subject,
		MessageID:   report.ReportID(),
		MessageSize: int64(len(data)),
		Duration:    time.Since(start),
		Success:     err == nil,
		Error:       err,
	})
	if err != nil {
		p.metrics.FailedCount++
		return err
	}

	p.metrics.PublishedCount++
	p.metrics.LastPublishedTime = time.Now()
	return nil
}

func (p *NATSReportPublisher) send(ctx context.Context, msg *nats.Msg) error {
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	// FlushWithContext requires a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// Metrics returns a snapshot of the publishing counters.
func (p *NATSReportPublisher) Metrics() PublishMetrics {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.metrics
}

// Close closes the connection. It is safe to call more than once.
func (p *NATSReportPublisher) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.conn.Close()
	return nil
}
