// Package choice implements weighted random selection.
package choice

import (
	"cmp"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
)

var (
	// ErrNoItems is returned when there is nothing to choose from.
	ErrNoItems = errors.New("no items to choose from")

	// ErrNegativeWeight is returned when a weight is negative, NaN or infinite.
	ErrNegativeWeight = errors.New("weights must be finite and non-negative")

	// ErrZeroTotal is returned when every weight is zero.
	ErrZeroTotal = errors.New("total weight is zero")
)

// Item pairs a value with its selection weight.
type Item[T any] struct {
	Value  T
	Weight float64
}

// Choose returns one value with probability proportional to its weight.
// Items are walked in slice order, so results are reproducible for a seeded rng.
// Items with zero weight are never chosen. A nil rng uses the global source.
func Choose[T any](items []Item[T], rng *rand.Rand) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrNoItems
	}

	total := 0.0
	for _, it := range items {
		if it.Weight < 0 || math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) {
			return zero, ErrNegativeWeight
		}
		total += it.Weight
	}
	if total == 0 {
		return zero, ErrZeroTotal
	}

	var r float64
	if rng != nil {
		r = rng.Float64() * total
	} else {
		r = rand.Float64() * total
	}

	upto := 0.0
	last := -1
	for i, it := range items {
		if it.Weight == 0 {
			continue
		}
		if upto+it.Weight > r {
			return it.Value, nil
		}
		upto += it.Weight
		last = i
	}

	// Float rounding can leave r at or just above the final running sum.
	return items[last].Value, nil
}

// FromMap converts a weight map into items sorted by key.
func FromMap[T cmp.Ordered](m map[T]float64) []Item[T] {
	keys := make([]T, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	items := make([]Item[T], 0, len(keys))
	for _, k := range keys {
		items = append(items, Item[T]{Value: k, Weight: m[k]})
	}
	return items
}

// Uniform returns items with equal weight for each value.
func Uniform[T any](values []T) []Item[T] {
	items := make([]Item[T], len(values))
	for i, v := range values {
		items[i] = Item[T]{Value: v, Weight: 1}
	}
	return items
}
