package outbound

import "context"

// Report is an extraction result that can be delivered to other systems.
// Implementations must be JSON serialisable.
type Report interface {
	ReportID() string
}

// ReportPublisher delivers extraction reports.
type ReportPublisher interface {
	Publish(ctx context.Context, report Report) error
	Close() error
}
