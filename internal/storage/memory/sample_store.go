package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/storage"
)

// SampleStore is an in-memory implementation of storage.SampleStore.
type SampleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Sample // keyed by (dataset, channel, timestamp_ms)
}

// NewSampleStore creates a new in-memory sample store.
func NewSampleStore() *SampleStore {
	return &SampleStore{
		data: make(map[string]*domain.Sample),
	}
}

func sampleKey(s *domain.Sample) string {
	return fmt.Sprintf("%s|%s|%d", s.Dataset, s.Channel, storage.ToMillis(s.Timestamp))
}

// InsertBulk adds multiple samples. Fails entire batch on duplicate.
func (s *SampleStore) InsertBulk(_ context.Context, samples []*domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(samples))
	for _, p := range samples {
		if p == nil || p.Dataset == "" || p.Channel == "" {
			return storage.ErrInvalidInput
		}
		key := sampleKey(p)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range samples {
		sampleCopy := *p
		sampleCopy.Timestamp = storage.FromMillis(storage.ToMillis(p.Timestamp))
		s.data[sampleKey(p)] = &sampleCopy
	}
	return nil
}

// GetByDataset retrieves all samples of a dataset, ordered by timestamp then channel.
func (s *SampleStore) GetByDataset(_ context.Context, dataset string) ([]*domain.Sample, error) {
	return s.collect(func(p *domain.Sample) bool { return p.Dataset == dataset }), nil
}

// GetByTimeRange retrieves samples of a dataset within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(_ context.Context, dataset string, start, end time.Time) ([]*domain.Sample, error) {
	return s.collect(func(p *domain.Sample) bool {
		return p.Dataset == dataset && !p.Timestamp.Before(start) && !p.Timestamp.After(end)
	}), nil
}

// ListChannels returns the distinct channels of a dataset, sorted by name.
func (s *SampleStore) ListChannels(_ context.Context, dataset string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.data {
		if p.Dataset == dataset {
			seen[p.Channel] = struct{}{}
		}
	}
	channels := make([]string, 0, len(seen))
	for c := range seen {
		channels = append(channels, c)
	}
	sort.Strings(channels)
	return channels, nil
}

// GetTimeRange returns the first and last timestamps of a dataset.
func (s *SampleStore) GetTimeRange(_ context.Context, dataset string) (first, last time.Time, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := false
	for _, p := range s.data {
		if p.Dataset != dataset {
			continue
		}
		if !found || p.Timestamp.Before(first) {
			first = p.Timestamp
		}
		if !found || p.Timestamp.After(last) {
			last = p.Timestamp
		}
		found = true
	}
	if !found {
		return time.Time{}, time.Time{}, storage.ErrNotFound
	}
	return first, last, nil
}

func (s *SampleStore) collect(keep func(*domain.Sample) bool) []*domain.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Sample
	for _, p := range s.data {
		if keep(p) {
			sampleCopy := *p
			result = append(result, &sampleCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].Channel < result[j].Channel
	})
	return result
}

var _ storage.SampleStore = (*SampleStore)(nil)
