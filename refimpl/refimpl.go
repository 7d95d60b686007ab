// Package refimpl provides non-contractual reference collaborators used
// by tests and the demo CLI. None of these are "the" physics kernels,
// surrogate network, or UQ model named in spec.md §1 — they are stand-ins
// so the core is exercisable without a real collaborator, the same way
// the teacher keeps simple fakes (AlwaysAdmit, TokenBucket) alongside its
// real policies.
package refimpl

import "context"

// IdentitySurrogate writes each output feature equal to the corresponding
// input feature (pressure<-density, soundSpeedSq<-energy, bulkModulus<-
// density, temperature<-energy), replicating inputs across all four
// outputs the way an untrained or pass-through surrogate would.
type IdentitySurrogate struct{}

func (IdentitySurrogate) Eval(_ context.Context, n int, inputs [][]float64, outputs [][]float64) error {
	density, energy := inputs[0], inputs[1]
	for i := 0; i < n; i++ {
		outputs[0][i] = density[i]
		outputs[1][i] = energy[i]
		outputs[2][i] = density[i]
		outputs[3][i] = energy[i]
	}
	return nil
}

// ConstantSurrogate always writes the same four values, useful for
// dispatch-ordering tests where the surrogate's output must be
// distinguishable from the physics evaluator's.
type ConstantSurrogate struct {
	Pressure, SoundSpeedSq, BulkModulus, Temperature float64
}

func (c ConstantSurrogate) Eval(_ context.Context, n int, _ [][]float64, outputs [][]float64) error {
	for i := 0; i < n; i++ {
		outputs[0][i] = c.Pressure
		outputs[1][i] = c.SoundSpeedSq
		outputs[2][i] = c.BulkModulus
		outputs[3][i] = c.Temperature
	}
	return nil
}

// IdentityEOS replicates inputs across all four outputs, the same shape
// as IdentitySurrogate. Used where tests need the physics and surrogate
// paths to agree so sparse/dense and partition-size equivalence checks
// have a single expected answer.
type IdentityEOS struct{}

func (IdentityEOS) Eval(_ context.Context, n int, energy, density []float64, pressure, soundSpeedSq, bulkModulus, temperature []float64) error {
	for i := 0; i < n; i++ {
		pressure[i] = density[i]
		soundSpeedSq[i] = energy[i]
		bulkModulus[i] = density[i]
		temperature[i] = energy[i]
	}
	return nil
}

// ConstantEOS always writes the same four values.
type ConstantEOS struct {
	Pressure, SoundSpeedSq, BulkModulus, Temperature float64
}

func (c ConstantEOS) Eval(_ context.Context, n int, _, _ []float64, pressure, soundSpeedSq, bulkModulus, temperature []float64) error {
	for i := 0; i < n; i++ {
		pressure[i] = c.Pressure
		soundSpeedSq[i] = c.SoundSpeedSq
		bulkModulus[i] = c.BulkModulus
		temperature[i] = c.Temperature
	}
	return nil
}

// ThresholdUQCache accepts (marks the surrogate trustworthy) whenever
// density is within [DensityLow, DensityHigh]; outside that band it
// rejects, forcing physics fallback. A minimal stand-in for a real
// hash-domain UQ cache.
type ThresholdUQCache struct {
	DensityLow, DensityHigh float64
}

func (t ThresholdUQCache) Evaluate(_ context.Context, n int, inputs [][]float64, acceptable []bool) error {
	density := inputs[0]
	for i := 0; i < n; i++ {
		acceptable[i] = density[i] >= t.DensityLow && density[i] <= t.DensityHigh
	}
	return nil
}

// AlternatingUQCache accepts every other sample starting from Start,
// useful for exercising the predicate-dispatch invariant with a
// deterministic, easy-to-assert-on pattern.
type AlternatingUQCache struct {
	Start int // 0 accepts even indices first, 1 accepts odd indices first
}

func (a AlternatingUQCache) Evaluate(_ context.Context, n int, _ [][]float64, acceptable []bool) error {
	for i := 0; i < n; i++ {
		acceptable[i] = (i+a.Start)%2 == 0
	}
	return nil
}
