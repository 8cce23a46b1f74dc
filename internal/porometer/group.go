package porometer

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"plant-growth-lab/internal/domain"
)

// KeyFunc extracts a grouping key from a reading. Readings for which ok is
// false are left out of the grouping.
type KeyFunc func(o domain.Observation) (key string, ok bool)

// Label groups by a categorical column.
func Label(name string) KeyFunc {
	return func(o domain.Observation) (string, bool) {
		v, ok := o.Labels[name]
		return v, ok && v != ""
	}
}

// Hour groups by the hour of the reading.
func Hour() KeyFunc {
	return func(o domain.Observation) (string, bool) {
		return strconv.Itoa(o.Time.Hour()), true
	}
}

// Group is the summary of one key combination.
type Group struct {
	Key     []string
	Summary Summary
	Values  []float64 // readings in input order
}

// Name joins the key parts for display.
func (g Group) Name() string {
	return strings.Join(g.Key, " / ")
}

// GroupBy summarises the numeric field value per key combination. Groups
// are sorted by key, numerically where both parts are integers.
func GroupBy(obs []domain.Observation, value string, keys ...KeyFunc) []Group {
	index := make(map[string]int)
	var groups []Group
	var values [][]float64

	for _, o := range obs {
		v, ok := o.Number(value)
		if !ok {
			continue
		}
		key := make([]string, 0, len(keys))
		complete := true
		for _, kf := range keys {
			k, ok := kf(o)
			if !ok {
				complete = false
				break
			}
			key = append(key, k)
		}
		if !complete {
			continue
		}
		id := strings.Join(key, "\x00")
		i, seen := index[id]
		if !seen {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{Key: key})
			values = append(values, nil)
		}
		values[i] = append(values[i], v)
	}

	for i := range groups {
		groups[i].Summary = Describe(values[i])
		groups[i].Values = values[i]
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		for i := range a.Key {
			if c := compareKey(a.Key[i], b.Key[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return groups
}

// Ordered reorders single-key groups to follow order. Groups not listed
// keep their relative order after the listed ones.
func Ordered(groups []Group, order []string) []Group {
	if len(order) == 0 {
		return groups
	}
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b Group) int {
		ra, oka := rank[a.Name()]
		rb, okb := rank[b.Name()]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Between keeps readings with from <= time <= to.
func Between(obs []domain.Observation, from, to time.Time) []domain.Observation {
	var out []domain.Observation
	for _, o := range obs {
		if !o.Time.Before(from) && !o.Time.After(to) {
			out = append(out, o)
		}
	}
	return out
}

// Values returns the numeric field of every reading that has it.
func Values(obs []domain.Observation, name string) []float64 {
	out := make([]float64, 0, len(obs))
	for _, o := range obs {
		if v, ok := o.Number(name); ok {
			out = append(out, v)
		}
	}
	return out
}

func compareKey(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai - bi
	}
	return strings.Compare(a, b)
}
