package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradlemeta/internal/config"
)

type fakeConn struct {
	published     []*nats.Msg
	publishErr    error
	flushErr      error
	flushFailures int // when set, only the first flushFailures flushes fail
	flushed       int
	deadlines     []bool
	closed        int
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, m)
	return nil
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
	f.flushed++
	if f.flushFailures > 0 && f.flushed > f.flushFailures {
		return nil
	}
	return f.flushErr
}

func (f *fakeConn) ConnectedUrl() string { return "nats://fake:4222" }
func (f *fakeConn) Close()               { f.closed++ }

type testReport struct {
	ID     string   `json:"id"`
	Script string   `json:"script"`
	Deps   []string `json:"dependencies"`
}

func (r *testReport) ReportID() string { return r.ID }

func testNATSConfig() config.NATSConfig {
	return config.NATSConfig{
		Enabled:       true,
		URL:           "nats://localhost:4222",
		Subject:       "gradlemeta.reports",
		MaxReconnects: 5,
		ReconnectWait: time.Second,
	}
}

func TestNATSReportPublisher_Publish(t *testing.T) {
	conn := &fakeConn{}
	publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), conn)
	require.NoError(t, err)

	report := &testReport{ID: "report-1", Script: "build.gradle", Deps: []string{"g:n:v"}}
	require.NoError(t, publisher.Publish(context.Background(), report))

	require.Len(t, conn.published, 1)
	msg := conn.published[0]
	assert.Equal(t, "gradlemeta.reports", msg.Subject)
	assert.Equal(t, "report-1", msg.Header.Get(ReportIDHeader))

	var decoded testReport
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, *report, decoded)

	assert.Equal(t, 1, conn.flushed)
	assert.Equal(t, []bool{true}, conn.deadlines, "flush must always run with a deadline")

	metrics := publisher.Metrics()
	assert.Equal(t, int64(1), metrics.PublishedCount)
	assert.Equal(t, int64(0), metrics.FailedCount)
	assert.False(t, metrics.LastPublishedTime.IsZero())
}

func TestNATSReportPublisher_PublishFailures(t *testing.T) {
	tests := []struct {
		name    string
		conn    *fakeConn
		ctx     func() context.Context
		report  *testReport
		wantErr string
	}{
		{
			name:    "publish error",
			conn:    &fakeConn{publishErr: nats.ErrConnectionClosed},
			wantErr: "failed to publish report",
		},
		{
			name:    "flush error",
			conn:    &fakeConn{flushErr: nats.ErrTimeout},
			wantErr: "failed to flush report",
		},
		{
			name: "cancelled context",
			conn: &fakeConn{},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), tt.conn)
			require.NoError(t, err)

			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			err = publisher.Publish(ctx, &testReport{ID: "r"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("failures are counted", func(t *testing.T) {
		publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), &fakeConn{flushErr: nats.ErrTimeout})
		require.NoError(t, err)
		err = publisher.Publish(context.Background(), &testReport{ID: "r"})
		assert.True(t, errors.Is(err, nats.ErrTimeout))
		assert.Equal(t, int64(1), publisher.Metrics().FailedCount)
	})

	t.Run("nil report", func(t *testing.T) {
		publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), &fakeConn{})
		require.NoError(t, err)
		assert.Error(t, publisher.Publish(context.Background(), nil))
	})
}

func TestNATSReportPublisher_Retries(t *testing.T) {
	cfg := testNATSConfig()
	cfg.PublishRetries = 2

	t.Run("timeout is retried", func(t *testing.T) {
		conn := &fakeConn{flushErr: nats.ErrTimeout, flushFailures: 1}
		publisher, err := NewNATSReportPublisherWithConn(cfg, conn)
		require.NoError(t, err)

		require.NoError(t, publisher.Publish(context.Background(), &testReport{ID: "r"}))
		assert.Equal(t, 2, conn.flushed)
		require.Len(t, conn.published, 2)
		assert.Equal(t, "r", conn.published[1].Header.Get(ReportIDHeader))
		assert.Equal(t, int64(1), publisher.Metrics().PublishedCount)
	})

	t.Run("retries used up", func(t *testing.T) {
		conn := &fakeConn{flushErr: nats.ErrTimeout}
		publisher, err := NewNATSReportPublisherWithConn(cfg, conn)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), &testReport{ID: "r"})
		assert.ErrorIs(t, err, nats.ErrTimeout)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Equal(t, 3, conn.flushed)
		assert.Equal(t, int64(1), publisher.Metrics().FailedCount)
	})

	t.Run("closed connection is not retried", func(t *testing.T) {
		conn := &fakeConn{publishErr: nats.ErrConnectionClosed}
		publisher, err := NewNATSReportPublisherWithConn(cfg, conn)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), &testReport{ID: "r"})
		assert.ErrorIs(t, err, nats.ErrConnectionClosed)
		assert.Zero(t, conn.flushed)
	})
}

func TestNATSReportPublisher_KeepsCallerDeadline(t *testing.T) {
	conn := &fakeConn{}
	publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), conn)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	require.NoError(t, publisher.Publish(ctx, &testReport{ID: "r"}))
	assert.Equal(t, []bool{true}, conn.deadlines)
}

func TestNATSReportPublisher_Close(t *testing.T) {
	conn := &fakeConn{}
	publisher, err := NewNATSReportPublisherWithConn(testNATSConfig(), conn)
	require.NoError(t, err)

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())
	assert.Equal(t, 1, conn.closed)

	err = publisher.Publish(context.Background(), &testReport{ID: "r"})
	assert.ErrorIs(t, err, ErrPublisherClosed)
	assert.Empty(t, conn.published)
}

func TestNewNATSReportPublisherWithConn_Validation(t *testing.T) {
	_, err := NewNATSReportPublisherWithConn(testNATSConfig(), nil)
	assert.Error(t, err)

	cfg := testNATSConfig()
	cfg.Subject = ""
	_, err = NewNATSReportPublisherWithConn(cfg, &fakeConn{})
	assert.Error(t, err)
}

func TestNewNATSReportPublisher_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.NATSConfig)
	}{
		{name: "empty url", modify: func(c *config.NATSConfig) { c.URL = "" }},
		{name: "wrong scheme", modify: func(c *config.NATSConfig) { c.URL = "http://localhost:4222" }},
		{name: "empty subject", modify: func(c *config.NATSConfig) { c.Subject = "" }},
		{name: "negative reconnect wait", modify: func(c *config.NATSConfig) { c.ReconnectWait = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testNATSConfig()
			tt.modify(&cfg)
			publisher, err := NewNATSReportPublisher(context.Background(), cfg)
			assert.Error(t, err)
			assert.Nil(t, publisher)
		})
	}
}

func TestNewNATSReportPublisher_ConnectionRefused(t *testing.T) {
	cfg := testNATSConfig()
	cfg.URL = "nats://127.0.0.1:1"
	cfg.MaxReconnects = 0
	cfg.Timeout = 200 * time.Millisecond

	publisher, err := NewNATSReportPublisher(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, publisher)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}
