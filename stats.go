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

import (
	"sync"

	"github.com/strataset/ibf/z"
)

// Stats is optional, nil-safe instrumentation that can be attached to a
// RecoverIterator (via WithStats) or passed to Estimator.Estimate. Every
// method is safe to call on a nil *Stats, mirroring the teacher's Metrics
// type: a caller who doesn't want bookkeeping can pass nil everywhere and
// pay nothing for it.
type Stats struct {
	mu             sync.Mutex
	recoveredByLen *z.HistogramData
	posEmitted     uint64
	negEmitted     uint64
	decodesOK      uint64
	decodesFailed  uint64
}

// NewStats returns a ready-to-use Stats. Strata counts above 2^20 are
// unrealistic for this library's parameters, so the histogram bounds only
// need to cover powers of two up to there.
func NewStats() *Stats {
	return &Stats{recoveredByLen: z.NewHistogramData(z.HistogramBounds(0, 20))}
}

func (s *Stats) recordEmit(pos bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos {
		s.posEmitted++
	} else {
		s.negEmitted++
	}
}

func (s *Stats) recordStratum(_ int, recovered uint64, ok bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.decodesOK++
		s.recoveredByLen.Update(int64(recovered))
	} else {
		s.decodesFailed++
	}
}

// PosEmitted is the total number of Pos(id) pure cells emitted across every
// decode this Stats has observed.
func (s *Stats) PosEmitted() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posEmitted
}

// NegEmitted is the Neg(id) counterpart of PosEmitted.
func (s *Stats) NegEmitted() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.negEmitted
}

// DecodesOK is the number of stratum decodes run by Estimator.Estimate that
// fully recovered. A RecoverIterator with this Stats attached does not add
// to it.
func (s *Stats) DecodesOK() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodesOK
}

// DecodesFailed is the number of stratum decodes that did not fully
// recover (the point at which Estimate falls back to extrapolation).
func (s *Stats) DecodesFailed() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodesFailed
}

// RecoveredHistogram returns a snapshot of the distribution of items
// recovered per fully-decoded stratum.
func (s *Stats) RecoveredHistogram() *z.HistogramData {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoveredByLen.Copy()
}
