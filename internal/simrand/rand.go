// Copyright 2025 NetViz Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package simrand

import (
	"errors"
	"math"
)

// ErrEmptyChoice is returned when Choice is called on an empty slice.
var ErrEmptyChoice = errors.New("simrand: choice on empty slice")

// A Source is a seedable pseudo-random generator. It is not
// cryptographically strong; the goal is exact reproducibility of a
// simulation run given its seed. A Source must not be shared between
// simulations if per-run determinism is required.
type Source struct {
	seed         int64
	originalSeed int64
}

// NewSource creates a Source with the given initial seed.
func NewSource(seed int64) *Source {
	return &Source{seed: seed, originalSeed: seed}
}

// Next returns a float in [0,1) and advances the seed by one. The value
// is the fractional part of a chaotic trigonometric transform of the
// seed, so a fixed seed and call order always replay the same stream.
func (s *Source) Next() float64 {
	s.seed++
	x := math.Sin(float64(s.seed)) * 10000
	return x - math.Floor(x)
}

// Range returns a float in [min, max).
func (s *Source) Range(min, max float64) float64 {
	return min + s.Next()*(max-min)
}

// Int returns an integer in [min, max], inclusive of both bounds.
func (s *Source) Int(min, max int) int {
	return int(math.Floor(s.Range(float64(min), float64(max)+1)))
}

// Reset restores the seed the Source was created with, restarting the
// stream from the beginning.
func (s *Source) Reset() {
	s.seed = s.originalSeed
}

// SetSeed overwrites both the current and the original seed, so a later
// Reset returns to the new seed rather than the construction-time one.
func (s *Source) SetSeed(seed int64) {
	s.seed = seed
	s.originalSeed = seed
}

// Seed reports the seed the stream restarts from on Reset.
func (s *Source) Seed() int64 {
	return s.originalSeed
}

// Choice picks a uniformly random element of items, consuming one draw
// from the Source. It fails on an empty slice instead of returning a
// zero value, so callers cannot silently propagate a bogus pick.
func Choice[T any](s *Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}
	return items[s.Int(0, len(items)-1)], nil
}
