package domain

import (
	"errors"
	"fmt"
	"time"
)

// Construction errors for frames and series.
var (
	// ErrNonMonotonic is returned when timestamps are not strictly increasing.
	ErrNonMonotonic = errors.New("timestamps must be strictly increasing")

	// ErrLengthMismatch is returned when a channel does not match the time axis length.
	ErrLengthMismatch = errors.New("channel length does not match time axis")

	// ErrUnknownChannel is returned when a channel name is not present in a frame.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrDuplicateChannel is returned when a channel name is added twice.
	ErrDuplicateChannel = errors.New("duplicate channel")
)

// Series is a single named channel over a timestamp axis.
// Timestamps are timezone-naive: wall clock of the campaign, carried in time.UTC.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// NewSeries validates and builds a series. Slices are copied.
func NewSeries(name string, times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("series %s: %w (%d times, %d values)", name, ErrLengthMismatch, len(times), len(values))
	}
	if err := checkMonotonic(times); err != nil {
		return Series{}, fmt.Errorf("series %s: %w", name, err)
	}
	return Series{
		Name:   name,
		Times:  append([]time.Time(nil), times...),
		Values: append([]float64(nil), values...),
	}, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Values)
}

// WithValues returns a series sharing the time axis with new values.
func (s Series) WithValues(values []float64) Series {
	return Series{Name: s.Name, Times: s.Times, Values: values}
}

// Slice returns the samples in [from, to).
func (s Series) Slice(from, to int) Series {
	return Series{Name: s.Name, Times: s.Times[from:to], Values: s.Values[from:to]}
}

// Frame is a set of named channels sharing one timestamp axis.
// Channel order is preserved as inserted.
type Frame struct {
	times    []time.Time
	channels []string
	values   map[string][]float64
}

// NewFrame builds an empty frame on the given time axis.
// Returns ErrNonMonotonic if the timestamps are not strictly increasing.
func NewFrame(times []time.Time) (*Frame, error) {
	if err := checkMonotonic(times); err != nil {
		return nil, err
	}
	return &Frame{
		times:  append([]time.Time(nil), times...),
		values: make(map[string][]float64),
	}, nil
}

// AddChannel appends a channel. Values are copied.
func (f *Frame) AddChannel(name string, values []float64) error {
	if len(values) != len(f.times) {
		return fmt.Errorf("channel %s: %w (%d values, %d times)", name, ErrLengthMismatch, len(values), len(f.times))
	}
	if _, exists := f.values[name]; exists {
		return fmt.Errorf("channel %s: %w", name, ErrDuplicateChannel)
	}
	f.channels = append(f.channels, name)
	f.values[name] = append([]float64(nil), values...)
	return nil
}

// SetChannel replaces or appends a channel.
func (f *Frame) SetChannel(name string, values []float64) error {
	if _, exists := f.values[name]; !exists {
		return f.AddChannel(name, values)
	}
	if len(values) != len(f.times) {
		return fmt.Errorf("channel %s: %w (%d values, %d times)", name, ErrLengthMismatch, len(values), len(f.times))
	}
	f.values[name] = append([]float64(nil), values...)
	return nil
}

// DropChannel removes a channel. Missing channels are ignored.
func (f *Frame) DropChannel(name string) {
	if _, exists := f.values[name]; !exists {
		return
	}
	delete(f.values, name)
	for i, c := range f.channels {
		if c == name {
			f.channels = append(f.channels[:i:i], f.channels[i+1:]...)
			break
		}
	}
}

// Times returns the shared time axis. Callers must not modify it.
func (f *Frame) Times() []time.Time {
	return f.times
}

// Channels returns channel names in insertion order.
func (f *Frame) Channels() []string {
	return append([]string(nil), f.channels...)
}

// Len returns the number of timestamps.
func (f *Frame) Len() int {
	return len(f.times)
}

// HasChannel reports whether the channel exists.
func (f *Frame) HasChannel(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Series returns a channel as a Series sharing the frame's storage.
func (f *Frame) Series(name string) (Series, error) {
	values, ok := f.values[name]
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
	}
	return Series{Name: name, Times: f.times, Values: values}, nil
}

// Select returns a new frame restricted to the given channels, in that order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{times: f.times, values: make(map[string][]float64, len(names))}
	for _, name := range names {
		values, ok := f.values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
		}
		if err := out.AddChannel(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Between returns the rows whose timestamps satisfy keep.
func (f *Frame) Between(keep func(time.Time) bool) *Frame {
	var idx []int
	for i, t := range f.times {
		if keep(t) {
			idx = append(idx, i)
		}
	}
	out := &Frame{
		times:    make([]time.Time, len(idx)),
		channels: append([]string(nil), f.channels...),
		values:   make(map[string][]float64, len(f.channels)),
	}
	for j, i := range idx {
		out.times[j] = f.times[i]
	}
	for _, name := range f.channels {
		src := f.values[name]
		dst := make([]float64, len(idx))
		for j, i := range idx {
			dst[j] = src[i]
		}
		out.values[name] = dst
	}
	return out
}

// Map applies fn to every channel and returns a new frame.
func (f *Frame) Map(fn func(Series) (Series, error)) (*Frame, error) {
	out := &Frame{times: f.times, values: make(map[string][]float64, len(f.channels))}
	for _, name := range f.channels {
		s, err := fn(Series{Name: name, Times: f.times, Values: f.values[name]})
		if err != nil {
			return nil, err
		}
		if err := out.AddChannel(name, s.Values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func checkMonotonic(times []time.Time) error {
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return fmt.Errorf("%w: %s follows %s at index %d",
				ErrNonMonotonic, times[i].Format(time.DateTime), times[i-1].Format(time.DateTime), i)
		}
	}
	return nil
}
