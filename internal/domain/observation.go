package domain

import "time"

// Observation is one porometer reading: numeric measurements plus
// categorical descriptors of the measured leaf.
type Observation struct {
	Time    time.Time
	Numbers map[string]float64 // e.g. "cond", "PAR"; NaN when missing
	Labels  map[string]string  // e.g. "rang_f", "face_f", "pos_f"
}

// Number returns a numeric field and whether it was present.
func (o *Observation) Number(name string) (float64, bool) {
	v, ok := o.Numbers[name]
	return v, ok
}
