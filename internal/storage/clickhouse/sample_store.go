package clickhouse

import (
	"context"
	"fmt"
	"time"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/storage"
)

// SampleStore implements storage.SampleStore using ClickHouse.
type SampleStore struct {
	conn *Conn
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(conn *Conn) *SampleStore {
	return &SampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SampleStore = (*SampleStore)(nil)

type sampleKey struct {
	dataset     string
	channel     string
	timestampMs int64
}

// InsertBulk adds multiple samples. Fails entire batch on duplicate
// (dataset, channel, timestamp_ms). MergeTree does not enforce keys, so
// duplicates are checked against the rows already stored in the batch range.
func (s *SampleStore) InsertBulk(ctx context.Context, samples []*domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	type span struct{ min, max int64 }
	spans := make(map[string]*span)
	seen := make(map[sampleKey]struct{}, len(samples))
	for _, p := range samples {
		if p == nil || p.Dataset == "" || p.Channel == "" {
			return storage.ErrInvalidInput
		}
		ms := storage.ToMillis(p.Timestamp)
		k := sampleKey{p.Dataset, p.Channel, ms}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}

		sp, ok := spans[p.Dataset]
		if !ok {
			spans[p.Dataset] = &span{ms, ms}
			continue
		}
		sp.min = min(sp.min, ms)
		sp.max = max(sp.max, ms)
	}

	for dataset, sp := range spans {
		existing, err := s.keysInRange(ctx, dataset, sp.min, sp.max)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, k := range existing {
			if _, dup := seen[k]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sensor_samples (
			dataset, channel, timestamp_ms, value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range samples {
		if err := batch.Append(p.Dataset, p.Channel, storage.ToMillis(p.Timestamp), p.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByDataset retrieves all samples of a dataset, ordered by timestamp then channel.
func (s *SampleStore) GetByDataset(ctx context.Context, dataset string) ([]*domain.Sample, error) {
	query := `
		SELECT dataset, channel, timestamp_ms, value
		FROM sensor_samples
		WHERE dataset = ?
		ORDER BY timestamp_ms ASC, channel ASC
	`

	rows, err := s.conn.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("query by dataset: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a dataset within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(ctx context.Context, dataset string, start, end time.Time) ([]*domain.Sample, error) {
	query := `
		SELECT dataset, channel, timestamp_ms, value
		FROM sensor_samples
		WHERE dataset = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, channel ASC
	`

	rows, err := s.conn.Query(ctx, query, dataset, storage.ToMillis(start), storage.ToMillis(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// ListChannels returns the distinct channels of a dataset, sorted by name.
func (s *SampleStore) ListChannels(ctx context.Context, dataset string) ([]string, error) {
	query := `
		SELECT DISTINCT channel
		FROM sensor_samples
		WHERE dataset = ?
		ORDER BY channel ASC
	`

	rows, err := s.conn.Query(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan channel row: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel rows: %w", err)
	}
	return channels, nil
}

// GetTimeRange returns the first and last timestamps of a dataset.
func (s *SampleStore) GetTimeRange(ctx context.Context, dataset string) (first, last time.Time, err error) {
	query := `
		SELECT count(), min(timestamp_ms), max(timestamp_ms)
		FROM sensor_samples
		WHERE dataset = ?
	`

	var count uint64
	var minMs, maxMs int64
	if err := s.conn.QueryRow(ctx, query, dataset).Scan(&count, &minMs, &maxMs); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("get time range: %w", err)
	}
	if count == 0 {
		return time.Time{}, time.Time{}, storage.ErrNotFound
	}
	return storage.FromMillis(minMs), storage.FromMillis(maxMs), nil
}

func (s *SampleStore) keysInRange(ctx context.Context, dataset string, start, end int64) ([]sampleKey, error) {
	query := `
		SELECT channel, timestamp_ms
		FROM sensor_samples
		WHERE dataset = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
	`

	rows, err := s.conn.Query(ctx, query, dataset, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []sampleKey
	for rows.Next() {
		k := sampleKey{dataset: dataset}
		if err := rows.Scan(&k.channel, &k.timestampMs); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// scanSamples scans multiple rows.
func scanSamples(rows chRows) ([]*domain.Sample, error) {
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
