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

// Package ibf implements set reconciliation over fixed-width content
// identifiers: an Invertible Bloom Filter for exact decoding of a small
// symmetric difference, and a Strata Estimator for cheaply sizing that
// difference ahead of time. Both types are plain in-memory values with no
// I/O, no background goroutines, and no locking of their own; callers that
// share an IBF or Estimator across goroutines are responsible for
// serializing writers themselves.
package ibf
