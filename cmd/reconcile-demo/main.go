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

// Command reconcile-demo builds two synthetic sets that share most of their
// elements but differ by a configurable number, estimates the size of that
// difference with a Strata Estimator, then reconciles it exactly with an
// Invertible Bloom Filter whose size is set by the -ibf flag; the estimate
// is reported but does not size that filter. It exists to exercise the ibf
// package end to end; it is not part of the library.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/strataset/ibf"
	"github.com/strataset/ibf/z"
)

const (
	estimatorFlagDefaults = `s=32; n=80; k=3`
	ibfFlagDefaults       = `n=4096; k=4`
)

func main() {
	var (
		common       = flag.Int("common", 1_000_000, "number of elements present on both sides")
		diff         = flag.Int("diff", 400, "total number of elements in the symmetric difference")
		seed         = flag.Int64("seed", 1, "seed for the synthetic data generator")
		estimatorCfg = flag.String("estimator", estimatorFlagDefaults,
			z.NewSuperFlagHelp(estimatorFlagDefaults).
				Flag("s", "Number of strata.").
				Flag("n", "Cells per stratum IBF.").
				Flag("k", "Hash-derived indices per element.").
				String())
		ibfCfg = flag.String("ibf", ibfFlagDefaults,
			z.NewSuperFlagHelp(ibfFlagDefaults).
				Flag("n", "Cells in the reconciliation IBF.").
				Flag("k", "Hash-derived indices per element.").
				String())
	)
	flag.Parse()

	est, fixed, err := run(*common, *diff, *seed, *estimatorCfg, *ibfCfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	fmt.Printf("true |symmetric difference|: %d\n", *diff)
	fmt.Printf("estimated |symmetric difference|: %d\n", est)
	fmt.Printf("recovered via IBF: %d (fully decoded: %v)\n", len(fixed.entries), fixed.ok)
	fmt.Printf("IBF size: %s\n", humanize.Bytes(uint64(fixed.cells)*uint64(unsafe.Sizeof(ibf.Cell{}))))
	fmt.Printf("elapsed: %s\n", fixed.elapsed)
}

type decodeResult struct {
	entries []ibf.PureCell
	ok      bool
	cells   int
	elapsed time.Duration
}

func run(common, diff int, seed int64, estimatorCfg, ibfCfg string) (uint64, decodeResult, error) {
	estFlag := z.NewSuperFlag(estimatorFlagDefaults).MergeAndCheckDefault(estimatorCfg)
	ibfFlag := z.NewSuperFlag(ibfFlagDefaults).MergeAndCheckDefault(ibfCfg)

	s := int(estFlag.GetUint64("s"))
	estN := int(estFlag.GetUint64("n"))
	estK := int(estFlag.GetUint64("k"))
	fixedN := int(ibfFlag.GetUint64("n"))
	fixedK := int(ibfFlag.GetUint64("k"))

	left, right, err := syntheticIDs(common, diff, seed)
	if err != nil {
		return 0, decodeResult{}, err
	}

	leftEst, err := ibf.NewEstimator(s, estN, estK)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "building left estimator")
	}
	rightEst, err := ibf.NewEstimator(s, estN, estK)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "building right estimator")
	}
	for _, id := range left {
		leftEst.Insert(id)
	}
	for _, id := range right {
		rightEst.Insert(id)
	}

	deltaEst, err := leftEst.Subtract(rightEst)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "subtracting estimators")
	}
	estimate := deltaEst.Estimate(nil)

	leftFilter, err := ibf.New(fixedN, fixedK)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "building left filter")
	}
	rightFilter, err := ibf.New(fixedN, fixedK)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "building right filter")
	}
	for _, id := range left {
		leftFilter.Insert(id)
	}
	for _, id := range right {
		rightFilter.Insert(id)
	}

	start := time.Now()
	delta, err := leftFilter.Subtract(rightFilter)
	if err != nil {
		return 0, decodeResult{}, errors.Wrap(err, "subtracting filters")
	}
	entries, ok := delta.RecoverInPlace().Drain()
	elapsed := time.Since(start)

	return estimate, decodeResult{entries: entries, ok: ok, cells: fixedN, elapsed: elapsed}, nil
}

// syntheticIDs builds two ID slices sharing `common` elements, each also
// holding half of `diff` elements unique to that side.
func syntheticIDs(common, diff int, seed int64) (left, right []ibf.ID, err error) {
	if diff%2 != 0 {
		return nil, nil, errors.Errorf("diff must be even, got %d", diff)
	}
	r := rand.New(rand.NewSource(seed))

	shared := make([]ibf.ID, common)
	for i := range shared {
		shared[i] = randomID(r)
	}

	leftOnly := make([]ibf.ID, diff/2)
	for i := range leftOnly {
		leftOnly[i] = randomID(r)
	}
	rightOnly := make([]ibf.ID, diff/2)
	for i := range rightOnly {
		rightOnly[i] = randomID(r)
	}

	left = append(append([]ibf.ID{}, shared...), leftOnly...)
	right = append(append([]ibf.ID{}, shared...), rightOnly...)
	return left, right, nil
}

func randomID(r *rand.Rand) ibf.ID {
	var buf [16]byte
	r.Read(buf[:])
	return ibf.DeriveID(buf[:])
}
