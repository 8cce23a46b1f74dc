package domain

import "time"

// Bound is one end of a selection window. DateOnly bounds cover the whole day.
type Bound struct {
	Time     time.Time
	DateOnly bool
}

// Window selects a sub-range of a channel, typically the life of one leaf.
// A nil bound is open.
type Window struct {
	Channel string
	Start   *Bound
	End     *Bound
	Plant   string // e.g. "Plant 1"
	Rank    string // leaf rank label, e.g. "rank 3"
}

// Contains reports whether t falls in the window. Both bounds are inclusive;
// a date-only end bound includes the whole day.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(w.Start.Time) {
		return false
	}
	if w.End != nil {
		if w.End.DateOnly {
			if !t.Before(w.End.Time.AddDate(0, 0, 1)) {
				return false
			}
		} else if t.After(w.End.Time) {
			return false
		}
	}
	return true
}

// Label returns a human-readable description.
func (w Window) Label() string {
	switch {
	case w.Plant != "" && w.Rank != "":
		return w.Plant + ", " + w.Rank
	case w.Plant != "":
		return w.Plant
	default:
		return w.Rank
	}
}

// Correction is an additive offset applied to one channel over a time range,
// used to compensate known sensor jumps. A nil bound is open.
type Correction struct {
	Channel string
	From    *Bound
	To      *Bound
	Offset  float64
}

// Applies reports whether the correction covers t.
func (c Correction) Applies(t time.Time) bool {
	return Window{Start: c.From, End: c.To}.Contains(t)
}
