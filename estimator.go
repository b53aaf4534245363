/*
 * Copyright 2024 The Reconcile Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ibf

import "math/bits"

// Estimator is a Strata Estimator: S IBFs stratified by the leading-zero
// count of each element's ID, used to cheaply size the IBF that an actual
// reconciliation round should use. The zero value is not usable; construct
// one with NewEstimator.
type Estimator struct {
	strata []*IBF
	s      int
}

// NewEstimator returns an empty Estimator with s strata, each an IBF with n
// cells and k hash-derived indices per element.
func NewEstimator(s, n, k int) (*Estimator, error) {
	if s < 1 {
		return nil, ErrInvalidS
	}
	strata := make([]*IBF, s)
	for i := range strata {
		f, err := New(n, k)
		if err != nil {
			return nil, err
		}
		strata[i] = f
	}
	return &Estimator{strata: strata, s: s}, nil
}

// S returns the number of strata this Estimator was constructed with.
func (e *Estimator) S() int { return e.s }

// leadingZeroBits counts the leading zero bits of id, interpreted
// big-endian (byte 0 first, MSB-first within each byte). This is bit-level
// granularity, not the original source's byte-boundary approximation.
func leadingZeroBits(id ID) int {
	total := 0
	for _, b := range id {
		lz := bits.LeadingZeros8(b)
		total += lz
		if lz != 8 {
			break
		}
	}
	return total
}

// stratumFor clamps an ID's leading-zero count into [0, s-1]; the last
// stratum absorbs every ID with s-1 or more leading zero bits.
func (e *Estimator) stratumFor(id ID) int {
	lz := leadingZeroBits(id)
	if lz > e.s-1 {
		return e.s - 1
	}
	return lz
}

// Insert forwards id to the stratum its leading-zero count selects.
func (e *Estimator) Insert(id ID) {
	e.strata[e.stratumFor(id)].Insert(id)
}

// Remove is the symmetric counterpart of Insert.
func (e *Estimator) Remove(id ID) {
	e.strata[e.stratumFor(id)].Remove(id)
}

// InsertBytes derives an ID from item via DeriveID and inserts it.
func (e *Estimator) InsertBytes(item []byte) { e.Insert(DeriveID(item)) }

// RemoveBytes derives an ID from item via DeriveID and removes it.
func (e *Estimator) RemoveBytes(item []byte) { e.Remove(DeriveID(item)) }

func (e *Estimator) sameShape(other *Estimator) bool {
	if e.s != other.s {
		return false
	}
	return e.strata[0].sameShape(other.strata[0])
}

// Add returns a fresh Estimator holding the elementwise IBF.Add of every
// stratum, leaving both operands untouched.
func (e *Estimator) Add(other *Estimator) (*Estimator, error) {
	if !e.sameShape(other) {
		return nil, ErrDimensionMismatch
	}
	out := &Estimator{strata: make([]*IBF, e.s), s: e.s}
	for i := range out.strata {
		f, err := e.strata[i].Add(other.strata[i])
		if err != nil {
			return nil, err
		}
		out.strata[i] = f
	}
	return out, nil
}

// Subtract returns a fresh Estimator holding the elementwise IBF.Subtract
// of every stratum, leaving both operands untouched.
func (e *Estimator) Subtract(other *Estimator) (*Estimator, error) {
	if !e.sameShape(other) {
		return nil, ErrDimensionMismatch
	}
	out := &Estimator{strata: make([]*IBF, e.s), s: e.s}
	for i := range out.strata {
		f, err := e.strata[i].Subtract(other.strata[i])
		if err != nil {
			return nil, err
		}
		out.strata[i] = f
	}
	return out, nil
}

// AddAssign combines other into e in place, stratum by stratum.
func (e *Estimator) AddAssign(other *Estimator) error {
	if !e.sameShape(other) {
		return ErrDimensionMismatch
	}
	for i := range e.strata {
		if err := e.strata[i].AddAssign(other.strata[i]); err != nil {
			return err
		}
	}
	return nil
}

// SubtractAssign subtracts other from e in place, stratum by stratum.
func (e *Estimator) SubtractAssign(other *Estimator) error {
	if !e.sameShape(other) {
		return ErrDimensionMismatch
	}
	for i := range e.strata {
		if err := e.strata[i].SubtractAssign(other.strata[i]); err != nil {
			return err
		}
	}
	return nil
}

// Estimate returns an estimate of the size of the symmetric difference this
// Estimator represents (typically the result of Subtract applied to two
// Estimators built from two parties' sets). It works from the highest
// stratum down: each stratum that fully decodes contributes its exact
// count, and as soon as stratum s fails to decode, the count gathered from
// the strata above it is scaled by 2^(s+1) (the inverse of the fraction of
// IDs those strata receive) and a 2^s midpoint correction term is added.
// If every stratum decodes, the estimate is exact. stats may be nil.
func (e *Estimator) Estimate(stats *Stats) uint64 {
	var count uint64

	for s := e.s - 1; s >= 0; s-- {
		it := e.strata[s].Recover()
		var recovered uint64
		for {
			_, ok := it.Next()
			if !ok {
				break
			}
			recovered++
		}
		ok := it.IsFullyRecovered()

		if stats != nil {
			stats.recordStratum(s, recovered, ok)
		}

		if !ok {
			return (uint64(1)<<(uint(s)+1))*count + uint64(1)<<uint(s)
		}

		count += recovered
	}

	return count
}
