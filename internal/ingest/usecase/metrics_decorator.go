package usecase

import (
	"context"
	"time"

	"github.com/pitchside/matchpipe/internal/broker"
	"github.com/pitchside/matchpipe/internal/metrics"
)

// matchProcessorWithMetrics decorates MatchProcessor with metrics instrumentation.
type matchProcessorWithMetrics struct {
	next    MatchProcessor
	metrics metrics.BusinessMetrics
}

// NewMatchProcessorWithMetrics wraps a MatchProcessor with metrics recording.
func NewMatchProcessorWithMetrics(processor MatchProcessor, m metrics.BusinessMetrics) MatchProcessor {
	return &matchProcessorWithMetrics{
		next:    processor,
		metrics: m,
	}
}

// Process records metrics for full pipeline runs of one delivery.
func (p *matchProcessorWithMetrics) Process(
	ctx context.Context,
	delivery broker.Delivery,
) (ProcessResult, error) {
	start := time.Now()
	result, err := p.next.Process(ctx, delivery)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "ingest", "match_process", status)
	p.metrics.RecordDuration(ctx, "ingest", "match_process", time.Since(start), status)

	return result, err
}
