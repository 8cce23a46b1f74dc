package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/storage"
)

// SampleStore implements storage.SampleStore using PostgreSQL.
type SampleStore struct {
	pool *Pool
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(pool *Pool) *SampleStore {
	return &SampleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SampleStore = (*SampleStore)(nil)

var sampleColumns = []string{"dataset", "channel", "timestamp_ms", "value"}

// InsertBulk adds multiple samples atomically using COPY.
// Fails entire batch on any duplicate (dataset, channel, timestamp_ms).
func (s *SampleStore) InsertBulk(ctx context.Context, samples []*domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, p := range samples {
		if p == nil || p.Dataset == "" || p.Channel == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"sensor_samples"},
		sampleColumns,
		pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
			p := samples[i]
			return []any{p.Dataset, p.Channel, storage.ToMillis(p.Timestamp), p.Value}, nil
		}),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("copy samples: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByDataset retrieves all samples of a dataset, ordered by timestamp then channel.
func (s *SampleStore) GetByDataset(ctx context.Context, dataset string) ([]*domain.Sample, error) {
	query := `
		SELECT dataset, channel, timestamp_ms, value
		FROM sensor_samples
		WHERE dataset = $1
		ORDER BY timestamp_ms ASC, channel ASC
	`

	rows, err := s.pool.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("get samples by dataset: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a dataset within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(ctx context.Context, dataset string, start, end time.Time) ([]*domain.Sample, error) {
	query := `
		SELECT dataset, channel, timestamp_ms, value
		FROM sensor_samples
		WHERE dataset = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC, channel ASC
	`

	rows, err := s.pool.Query(ctx, query, dataset, storage.ToMillis(start), storage.ToMillis(end))
	if err != nil {
		return nil, fmt.Errorf("get samples by time range: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// ListChannels returns the distinct channels of a dataset, sorted by name.
func (s *SampleStore) ListChannels(ctx context.Context, dataset string) ([]string, error) {
	query := `
		SELECT DISTINCT channel
		FROM sensor_samples
		WHERE dataset = $1
		ORDER BY channel ASC
	`

	rows, err := s.pool.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan channel rows: %w", err)
	}
	return channels, nil
}

// GetTimeRange returns the first and last timestamps of a dataset.
func (s *SampleStore) GetTimeRange(ctx context.Context, dataset string) (first, last time.Time, err error) {
	query := `
		SELECT min(timestamp_ms), max(timestamp_ms)
		FROM sensor_samples
		WHERE dataset = $1
	`

	var minMs, maxMs *int64
	if err := s.pool.QueryRow(ctx, query, dataset).Scan(&minMs, &maxMs); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("get time range: %w", err)
	}
	if minMs == nil || maxMs == nil {
		return time.Time{}, time.Time{}, storage.ErrNotFound
	}
	return storage.FromMillis(*minMs), storage.FromMillis(*maxMs), nil
}

// scanSamples scans multiple rows into a slice of Sample.
func scanSamples(rows pgx.Rows) ([]*domain.Sample, error) {
	var samples []*domain.Sample

	for rows.Next() {
		var p domain.Sample
		var timestampMs int64

		if err := rows.Scan(&p.Dataset, &p.Channel, &timestampMs, &p.Value); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}

		p.Timestamp = storage.FromMillis(timestampMs)
		samples = append(samples, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return samples, nil
}
