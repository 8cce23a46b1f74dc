package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/storage"
)

var base = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func sample(dataset, channel string, minutes int, value float64) *domain.Sample {
	return &domain.Sample{
		Dataset:   dataset,
		Channel:   channel,
		Timestamp: base.Add(time.Duration(minutes) * time.Minute),
		Value:     value,
	}
}

func TestSampleStore_InsertBulkAndGetByDataset(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, nil))

	err := store.InsertBulk(ctx, []*domain.Sample{
		sample("growth-2025", "enc_2", 3, 20),
		sample("growth-2025", "enc_1", 3, 10),
		sample("growth-2025", "enc_1", 0, 9),
		sample("transpiration-2024", "plant_1", 0, 1),
	})
	require.NoError(t, err)

	got, err := store.GetByDataset(ctx, "growth-2025")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "enc_1", got[0].Channel)
	assert.Equal(t, base, got[0].Timestamp)
	assert.Equal(t, "enc_1", got[1].Channel)
	assert.Equal(t, "enc_2", got[2].Channel)

	// returned samples are copies
	got[0].Value = 999
	again, err := store.GetByDataset(ctx, "growth-2025")
	require.NoError(t, err)
	assert.Equal(t, 9.0, again[0].Value)

	none, err := store.GetByDataset(ctx, "porometer-2025")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSampleStore_InsertBulk_Duplicates(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sample{sample("d", "a", 0, 1)}))

	err := store.InsertBulk(ctx, []*domain.Sample{sample("d", "a", 10, 1), sample("d", "a", 0, 2)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.InsertBulk(ctx, []*domain.Sample{sample("d", "b", 0, 1), sample("d", "b", 0, 2)})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// failed batches leave nothing behind
	got, err := store.GetByDataset(ctx, "d")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	err = store.InsertBulk(ctx, []*domain.Sample{{Dataset: "d"}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSampleStore_GetByTimeRange(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	var samples []*domain.Sample
	for i := 0; i < 10; i++ {
		samples = append(samples, sample("d", "a", i*10, float64(i)))
	}
	require.NoError(t, store.InsertBulk(ctx, samples))

	got, err := store.GetByTimeRange(ctx, "d", base.Add(20*time.Minute), base.Add(40*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].Value)
	assert.Equal(t, 4.0, got[2].Value)
}

func TestSampleStore_ChannelsAndRange(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	_, _, err := store.GetTimeRange(ctx, "d")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sample{
		sample("d", "tem_1", 30, 1),
		sample("d", "plant_1", 0, 1),
		sample("d", "plant_1", 60, 1),
	}))

	channels, err := store.ListChannels(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"plant_1", "tem_1"}, channels)

	first, last, err := store.GetTimeRange(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, base, first)
	assert.Equal(t, base.Add(time.Hour), last)
}

func TestLoadFrame_PivotsSamples(t *testing.T) {
	store := NewSampleStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sample{
		sample("d", "a", 0, 1),
		sample("d", "b", 0, 10),
		sample("d", "a", 10, 2),
	}))

	frame, err := storage.LoadFrame(ctx, store, "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, frame.Channels())
	assert.Equal(t, 2, frame.Len())

	b, err := frame.Series("b")
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Values[0])
	assert.True(t, math.IsNaN(b.Values[1]))

	_, err = storage.LoadFrame(ctx, store, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
