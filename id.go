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

import "golang.org/x/crypto/blake2b"

// IDSize is the fixed width, in bytes, of a content identifier.
const IDSize = 32

// ID is an opaque 32-byte content identifier. It is the only representation
// of an inserted item that Cell, IBF and Estimator ever inspect; once an ID
// is derived, the original item bytes are never looked at again.
type ID [IDSize]byte

// DeriveID hashes arbitrary bytes down to a 32-byte content identifier using
// BLAKE2b-256, a collision-resistant hash with the same 256-bit output and
// domain-separation properties the reference implementation gets from
// BLAKE3.
func DeriveID(item []byte) ID {
	return ID(blake2b.Sum256(item))
}
