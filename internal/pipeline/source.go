package pipeline

import (
	"context"
	"fmt"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/domain"
	"plant-growth-lab/internal/ingest"
	"plant-growth-lab/internal/storage"
	chstore "plant-growth-lab/internal/storage/clickhouse"
	"plant-growth-lab/internal/storage/memory"
	pgstore "plant-growth-lab/internal/storage/postgres"
)

// Source loads the frame of a time-series dataset.
type Source interface {
	// Describe names the source for logs and reports.
	Describe() string
	LoadFrame(ctx context.Context) (*domain.Frame, error)
}

// CSVSource reads a campaign export.
type CSVSource struct {
	Path    string
	Options ingest.Options
}

// Describe implements Source.
func (s *CSVSource) Describe() string { return "csv:" + s.Path }

// LoadFrame implements Source.
func (s *CSVSource) LoadFrame(ctx context.Context) (*domain.Frame, error) {
	return ingest.ReadFrameFile(ctx, s.Path, s.Options)
}

// StoreSource reads a dataset from a sample warehouse.
type StoreSource struct {
	Store   storage.SampleStore
	Dataset string
	Kind    string // memory | postgres | clickhouse
}

// Describe implements Source.
func (s *StoreSource) Describe() string { return s.Kind + ":" + s.Dataset }

// LoadFrame implements Source.
func (s *StoreSource) LoadFrame(ctx context.Context) (*domain.Frame, error) {
	return storage.LoadFrame(ctx, s.Store, s.Dataset)
}

// OpenStore connects to the warehouse selected by the configuration. The
// returned function releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.SampleStore, func(), error) {
	switch cfg.Storage.Source {
	case config.SourceMemory:
		return memory.NewSampleStore(), func() {}, nil
	case config.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pgstore.NewSampleStore(pool), pool.Close, nil
	case config.SourceClickhouse:
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		return chstore.NewSampleStore(conn), func() { conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("storage source %q has no warehouse", cfg.Storage.Source)
	}
}

// OpenSource builds the frame source selected by the configuration. The
// memory source loads the CSV export into an in-memory warehouse first, so
// the warehouse read path can be exercised without a database.
func OpenSource(ctx context.Context, cfg *config.Config) (Source, func(), error) {
	if cfg.Storage.Source == config.SourceCSV {
		return &CSVSource{Path: cfg.Dataset.Input, Options: ingest.OptionsFromConfig(cfg)}, func() {}, nil
	}

	store, closeFn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Source == config.SourceMemory {
		if _, err := Import(ctx, cfg, store); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return &StoreSource{Store: store, Dataset: cfg.Dataset.Name, Kind: cfg.Storage.Source}, closeFn, nil
}

// Import reads the configured CSV export and loads it into store under the
// dataset name. It returns the number of samples written.
func Import(ctx context.Context, cfg *config.Config, store storage.SampleStore) (int, error) {
	frame, err := ingest.ReadFrameFile(ctx, cfg.Dataset.Input, ingest.OptionsFromConfig(cfg))
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	samples := domain.SamplesFromFrame(cfg.Dataset.Name, frame)
	if err := store.InsertBulk(ctx, samples); err != nil {
		return 0, fmt.Errorf("import %s: %w", cfg.Dataset.Name, err)
	}
	return len(samples), nil
}
