package domain

import (
	"math"
	"sort"
	"time"
)

// Sample is one warehouse row: a single channel reading at a timestamp.
// Corresponds to the sensor_samples table in PostgreSQL and ClickHouse.
type Sample struct {
	Dataset   string    // dataset identifier, e.g. "growth-2025"
	Channel   string    // channel name, e.g. "enc_1"
	Timestamp time.Time // naive campaign wall clock, in time.UTC
	Value     float64
}

// FrameFromSamples pivots long-format samples into a frame.
// Channels appear in first-seen order; a channel with no reading at a
// timestamp gets NaN. Duplicate (channel, timestamp) keep the last value.
func FrameFromSamples(samples []*Sample) (*Frame, error) {
	index := make(map[time.Time]int)
	var times []time.Time
	var channels []string
	seen := make(map[string]struct{})

	for _, s := range samples {
		ts := s.Timestamp.UTC()
		if _, ok := index[ts]; !ok {
			index[ts] = 0
			times = append(times, ts)
		}
		if _, ok := seen[s.Channel]; !ok {
			seen[s.Channel] = struct{}{}
			channels = append(channels, s.Channel)
		}
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i, t := range times {
		index[t] = i
	}

	columns := make(map[string][]float64, len(channels))
	for _, c := range channels {
		col := make([]float64, len(times))
		for i := range col {
			col[i] = math.NaN()
		}
		columns[c] = col
	}
	for _, s := range samples {
		columns[s.Channel][index[s.Timestamp.UTC()]] = s.Value
	}

	frame, err := NewFrame(times)
	if err != nil {
		return nil, err
	}
	for _, c := range channels {
		if err := frame.AddChannel(c, columns[c]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// SamplesFromFrame flattens a frame into long-format samples.
// NaN readings are skipped.
func SamplesFromFrame(dataset string, f *Frame) []*Sample {
	var out []*Sample
	for _, c := range f.Channels() {
		s, _ := f.Series(c)
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			out = append(out, &Sample{Dataset: dataset, Channel: c, Timestamp: s.Times[i], Value: v})
		}
	}
	return out
}
