package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names following OpenTelemetry semantic conventions for extraction.
const (
	ExtractionCounterName           = "gradlemeta_extractions_total"
	ExtractionDurationHistogramName = "gradlemeta_extraction_duration_seconds"
	RecordCounterName               = "gradlemeta_records_total"
)

// Attribute keys and values for extraction metrics.
const (
	AttrExtractor = "extractor"
	AttrResult    = "result"

	ResultSuccess = "success"
	ResultError   = "error"
)

// Extractor labels.
const (
	ExtractorLoad            = "load"
	ExtractorDependencies    = "dependencies"
	ExtractorPlugins         = "plugins"
	ExtractorRepositories    = "repositories"
	ExtractorProperties      = "properties"
	ExtractorSubprojects     = "subprojects"
	ExtractorScriptPlugins   = "script_plugins"
	ExtractorIncludedBuilds  = "included_builds"
	ExtractorDependencyBlock = "dependency_block"
)

// getExtractionLatencyBuckets returns bucket boundaries from 100µs to 5s.
func getExtractionLatencyBuckets() []float64 {
	return []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
}

// ExtractionMetrics records the outcome, duration and yield of every
// extractor run. A nil *ExtractionMetrics records nothing.
type ExtractionMetrics struct {
	extractionCounter metric.Int64Counter
	durationHistogram metric.Float64Histogram
	recordCounter     metric.Int64Counter
}

// NewExtractionMetrics creates the instruments on a meter from provider.
func NewExtractionMetrics(provider metric.MeterProvider) (*ExtractionMetrics, error) {
	meter := provider.Meter("gradlemeta-extraction")

	extractionCounter, err := meter.Int64Counter(ExtractionCounterName,
		metric.WithDescription("Total number of extractor runs"),
	)
	if err != nil {
		return nil, err
	}

	durationHistogram, err := meter.Float64Histogram(ExtractionDurationHistogramName,
		metric.WithDescription("Extractor run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(getExtractionLatencyBuckets()...),
	)
	if err != nil {
		return nil, err
	}

	recordCounter, err := meter.Int64Counter(RecordCounterName,
		metric.WithDescription("Total number of records extracted"),
	)
	if err != nil {
		return nil, err
	}

	return &ExtractionMetrics{
		extractionCounter: extractionCounter,
		durationHistogram: durationHistogram,
		recordCounter:     recordCounter,
	}, nil
}

// RecordExtraction records one extractor run.
func (m *ExtractionMetrics) RecordExtraction(
	ctx context.Context,
	extractor string,
	records int,
	duration time.Duration,
	err error,
) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	m.extractionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrExtractor, extractor),
			attribute.String(AttrResult, result),
		),
	)
	m.durationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(AttrExtractor, extractor)),
	)
	if records > 0 {
		m.recordCounter.Add(ctx, int64(records),
			metric.WithAttributes(attribute.String(AttrExtractor, extractor)),
		)
	}
}
