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

// PureCell is one item recovered from a peeling decode: an ID tagged with
// which side of the symmetric difference it came from. Pos means the ID is
// present in the left-not-right set; a false Pos means right-not-left.
type PureCell struct {
	ID  ID
	Pos bool
}

// RecoverIterator is the stateful peeling decoder described by the spec: it
// owns a mutable IBF and repeatedly finds and unwinds pure cells until none
// remain. It is not safe for concurrent use.
type RecoverIterator struct {
	filter *IBF
	stats  *Stats
}

// WithStats attaches s to it so every emission is recorded by tag (Pos or
// Neg). The final recovery outcome is not recorded in s. Passing nil
// detaches any previously attached Stats.
func (it *RecoverIterator) WithStats(s *Stats) *RecoverIterator {
	it.stats = s
	return it
}

// Next finds the next pure cell, unwinds its contribution from the
// underlying filter, and returns it. It returns (PureCell{}, false) once no
// pure cell remains.
func (it *RecoverIterator) Next() (PureCell, bool) {
	pc, ok := it.filter.FindPure()
	if !ok {
		return PureCell{}, false
	}

	if pc.Pos {
		it.filter.Remove(pc.ID)
	} else {
		it.filter.Insert(pc.ID)
	}

	if it.stats != nil {
		it.stats.recordEmit(pc.Pos)
	}

	return pc, true
}

// IsFullyRecovered reports whether the underlying filter is empty, i.e.
// every cell's evidence has been accounted for by an emitted PureCell. If
// false, the difference exceeded the filter's capacity and the set of
// emissions, while individually correct (testable property 8), may be an
// incomplete subset of the true difference.
func (it *RecoverIterator) IsFullyRecovered() bool {
	return it.filter.IsEmpty()
}

// Drain runs the decoder to completion and returns every emitted PureCell
// along with whether the decode fully recovered.
func (it *RecoverIterator) Drain() ([]PureCell, bool) {
	var out []PureCell
	for {
		pc, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, pc)
	}
	return out, it.IsFullyRecovered()
}
