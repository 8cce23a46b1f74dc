// Package config loads, normalizes, and validates dataset configuration.
//
// Everything that differs between measurement campaigns lives here rather
// than in the pipelines: input layout and timestamp format, sampling period,
// filter windows, channel selection, encoder geometry, manual sensor-jump
// corrections and the leaf windows used for reports. Embedded presets cover
// the known (kind, vintage) pairs; a TOML file can override any of them.
//
// Environment fallbacks (PLANTLAB_POSTGRES_DSN, PLANTLAB_CLICKHOUSE_DSN,
// PLANTLAB_OUTPUT_DIR) are honoured during normalization.
package config
