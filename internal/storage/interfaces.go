package storage

import (
	"context"
	"fmt"
	"time"

	"plant-growth-lab/internal/domain"
)

// SampleStore provides access to sensor_samples storage.
//
// Samples are keyed by (dataset, channel, timestamp). The analysis pipelines
// only read from it; InsertBulk exists to load campaign exports.
type SampleStore interface {
	// InsertBulk adds multiple samples atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, samples []*domain.Sample) error

	// GetByDataset retrieves all samples of a dataset, ordered by timestamp then channel.
	GetByDataset(ctx context.Context, dataset string) ([]*domain.Sample, error)

	// GetByTimeRange retrieves samples of a dataset within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, dataset string, start, end time.Time) ([]*domain.Sample, error)

	// ListChannels returns the distinct channels of a dataset, sorted by name.
	ListChannels(ctx context.Context, dataset string) ([]string, error)

	// GetTimeRange returns the first and last timestamps of a dataset.
	// Returns ErrNotFound if the dataset has no samples.
	GetTimeRange(ctx context.Context, dataset string) (first, last time.Time, err error)
}

// LoadFrame reads a whole dataset and pivots it into a frame.
// Returns ErrNotFound if the dataset has no samples.
func LoadFrame(ctx context.Context, store SampleStore, dataset string) (*domain.Frame, error) {
	samples, err := store.GetByDataset(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", dataset, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", dataset, ErrNotFound)
	}
	frame, err := domain.FrameFromSamples(samples)
	if err != nil {
		return nil, fmt.Errorf("pivot dataset %s: %w", dataset, err)
	}
	return frame, nil
}

// ToMillis converts a naive campaign timestamp to the stored timestamp_ms.
func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromMillis converts a stored timestamp_ms back to a naive timestamp.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
