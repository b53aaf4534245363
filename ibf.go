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

import "errors"

// Errors returned by New, NewEstimator and the binary operators. These are
// the only runtime error surface this package has; everything else either
// succeeds or reports an under-recovered decode (see RecoverIterator).
var (
	ErrInvalidN          = errors.New("ibf: N must be >= 1")
	ErrInvalidK          = errors.New("ibf: K must be between 1 and N")
	ErrInvalidS          = errors.New("ibf: S must be >= 1")
	ErrDimensionMismatch = errors.New("ibf: operands have different N or K")
)

// IBF is a fixed array of N cells, each element mapping deterministically
// to K distinct cells. It supports insertion, deletion, set subtraction and
// peeling decode of the symmetric difference. The zero value is not usable;
// construct one with New.
type IBF struct {
	cells  []Cell
	used   []bool   // scratch for distinctIndices, reused across calls
	idxBuf []uint32 // scratch for the K indices of the in-flight operation
	n      int
	k      int
	mask   uint32
}

// New returns an empty IBF with n cells and k hash-derived indices per
// element.
func New(n, k int) (*IBF, error) {
	switch {
	case n < 1:
		return nil, ErrInvalidN
	case k < 1 || k > n:
		return nil, ErrInvalidK
	}
	return &IBF{
		cells:  make([]Cell, n),
		used:   make([]bool, n),
		idxBuf: make([]uint32, k),
		n:      n,
		k:      k,
		mask:   nextPow2(uint32(n)) - 1,
	}, nil
}

// N returns the cell count this IBF was constructed with.
func (f *IBF) N() int { return f.n }

// K returns the number of hash-derived indices per element.
func (f *IBF) K() int { return f.k }

func (f *IBF) indicesFor(id ID) []uint32 {
	distinctIndices(id, f.n, f.mask, f.used, f.idxBuf)
	return f.idxBuf
}

// Insert folds id's contribution into its K cells.
func (f *IBF) Insert(id ID) {
	cell := newCell(id)
	for _, idx := range f.indicesFor(id) {
		f.cells[idx].combineAssign(cell)
	}
}

// Remove folds the inverse of id's contribution into its K cells, undoing
// a prior Insert.
func (f *IBF) Remove(id ID) {
	cell := newCellInverse(id)
	for _, idx := range f.indicesFor(id) {
		f.cells[idx].combineAssign(cell)
	}
}

// InsertBytes derives an ID from item via DeriveID and inserts it.
func (f *IBF) InsertBytes(item []byte) { f.Insert(DeriveID(item)) }

// RemoveBytes derives an ID from item via DeriveID and removes it.
func (f *IBF) RemoveBytes(item []byte) { f.Remove(DeriveID(item)) }

// IsEmpty reports whether every cell is empty.
func (f *IBF) IsEmpty() bool {
	for i := range f.cells {
		if !f.cells[i].IsEmpty() {
			return false
		}
	}
	return true
}

// FindPure does a linear, index-ordered scan for the first pure cell. The
// index-order scan is what makes peeling deterministic (same initial state
// always peels in the same order).
func (f *IBF) FindPure() (PureCell, bool) {
	for i := range f.cells {
		id, kind := f.cells[i].Classify()
		switch kind {
		case PurePositive:
			return PureCell{ID: id, Pos: true}, true
		case PureNegative:
			return PureCell{ID: id, Pos: false}, true
		}
	}
	return PureCell{}, false
}

// Clone returns a deep, independent copy of f.
func (f *IBF) Clone() *IBF {
	out, err := New(f.n, f.k)
	if err != nil {
		// f was already validated at construction; New(f.n, f.k) cannot fail.
		panic(err)
	}
	copy(out.cells, f.cells)
	return out
}

func (f *IBF) sameShape(other *IBF) bool {
	return f.n == other.n && f.k == other.k
}

// Add returns a fresh IBF holding the elementwise Cell.Combine of f and
// other, leaving both operands untouched.
func (f *IBF) Add(other *IBF) (*IBF, error) {
	if !f.sameShape(other) {
		return nil, ErrDimensionMismatch
	}
	out := f.Clone()
	out.AddAssign(other)
	return out, nil
}

// Subtract returns a fresh IBF holding the elementwise Cell.Difference of f
// and other, leaving both operands untouched. If f was built from set A and
// other from set B, the result is algebraically identical to an IBF built
// by inserting A\B (count +1) and B\A (count -1); common elements cancel.
func (f *IBF) Subtract(other *IBF) (*IBF, error) {
	if !f.sameShape(other) {
		return nil, ErrDimensionMismatch
	}
	out := f.Clone()
	out.SubtractAssign(other)
	return out, nil
}

// AddAssign combines other into f in place.
func (f *IBF) AddAssign(other *IBF) error {
	if !f.sameShape(other) {
		return ErrDimensionMismatch
	}
	for i := range f.cells {
		f.cells[i].combineAssign(other.cells[i])
	}
	return nil
}

// SubtractAssign subtracts other from f in place.
func (f *IBF) SubtractAssign(other *IBF) error {
	if !f.sameShape(other) {
		return ErrDimensionMismatch
	}
	for i := range f.cells {
		f.cells[i].differenceAssign(other.cells[i])
	}
	return nil
}

// Recover returns a RecoverIterator that peels a clone of f, leaving f
// itself untouched. Use RecoverInPlace if f is no longer needed afterwards.
func (f *IBF) Recover() *RecoverIterator {
	return &RecoverIterator{filter: f.Clone()}
}

// RecoverInPlace returns a RecoverIterator that peels f directly. f is
// mutated as elements are emitted; this is how the decoder makes progress.
func (f *IBF) RecoverInPlace() *RecoverIterator {
	return &RecoverIterator{filter: f}
}
