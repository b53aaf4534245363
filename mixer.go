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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// keyedHash mixes an ID with a seed into a single 64-bit value. It backs
// both Cell's purity checksum (always called with seed 0) and index
// generation (called with seeds 0, 1, 2, ...), exactly as the spec's single
// non-cryptographic mixer contract requires. The seed is appended to the id
// bytes before hashing, the same key-plus-counter construction Filter.hash
// uses for the cache's admission Bloom filter.
func keyedHash(id ID, seed uint64) uint64 {
	var buf [IDSize + 8]byte
	copy(buf[:IDSize], id[:])
	binary.LittleEndian.PutUint64(buf[IDSize:], seed)
	return xxhash.Sum64(buf[:])
}

// checksum is keyedHash at seed 0, used to verify a cell's purity.
func checksum(id ID) uint64 {
	return keyedHash(id, 0)
}
