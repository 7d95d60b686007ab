// Package pipeline implements the per-material evaluation pipeline
// (spec §4.F): UQ check, surrogate inference, predicate-driven pack,
// physics fallback, unpack, and optional offline-store append, over
// memory-bounded partitions of one material's N samples.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ams-eos/ams-eos-core/collab"
	"github.com/ams-eos/ams-eos-core/data"
	"github.com/ams-eos/ams-eos-core/devicectx"
	"github.com/ams-eos/ams-eos-core/resource"
	"github.com/ams-eos/ams-eos-core/store"
	"github.com/ams-eos/ams-eos-core/trace"
)

// Options bundles the per-invocation construction options that affect
// the pipeline: the offline store (store.Null{} when ENABLE_DB is off),
// the tracer (trace.Nop() when ENABLE_TRACE is off), and SURROGATE_DEBUG.
type Options struct {
	Store          store.Store
	Tracer         *trace.Tracer
	SurrogateDebug bool
	Log            *logrus.Entry
}

const (
	nInFeatures  = 2
	nOutFeatures = 4
)

// Inner runs the evaluation pipeline for material m over N samples held
// in the six raw buffers (two input, four output), which may alias a
// material's dense gather buffers or direct slices of the caller's block
// tensors. On return every output position holds exactly one value: the
// surrogate writes all of them first (if present), then the physics
// evaluator overwrites the subset rejected by the UQ predicate.
func Inner(
	ctx context.Context,
	dctx *devicectx.Context,
	mgr *resource.Manager,
	m, n int,
	density, energy []float64,
	pressure, soundSpeedSq, bulkModulus, temperature []float64,
	uq collab.UQCache,
	surrogate collab.Surrogate,
	eos collab.EOS,
	opts Options,
) error {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	st := opts.Store
	if st == nil {
		st = store.Null{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop()
	}

	// Step 1+2: predicate buffer, zero-initialized (all-false: physics
	// fallback everywhere is the default per spec §9's resolved open
	// question), released on every exit path.
	predicate := mgr.AllocateBools(n)
	defer mgr.DeallocateBools(dctx.Space, predicate)

	if uq != nil {
		stop := tracer.Span("uq_cache")
		err := uq.Evaluate(ctx, n, [][]float64{density, energy}, predicate)
		stop()
		if err != nil {
			log.WithError(err).WithField("material", m).Error("uq cache evaluation failed")
			return fmt.Errorf("pipeline: material %d: uq cache: %w", m, err)
		}
	}

	part := data.ComputePartitionSize(nInFeatures, nOutFeatures, false)
	if part <= 0 {
		part = n
	}

	for pID := 0; pID < n; pID += part {
		length := part
		if remaining := n - pID; remaining < length {
			length = remaining
		}

		packedDensity, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		packedEnergy, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		packedPressure, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		packedSoundSpeedSq, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		packedBulkModulus, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		packedTemperature, _ := mgr.AllocateFloatsIn(dctx.Space, length)
		release := func() {
			mgr.DeallocateFloats(dctx.Space, packedDensity)
			mgr.DeallocateFloats(dctx.Space, packedEnergy)
			mgr.DeallocateFloats(dctx.Space, packedPressure)
			mgr.DeallocateFloats(dctx.Space, packedSoundSpeedSq)
			mgr.DeallocateFloats(dctx.Space, packedBulkModulus)
			mgr.DeallocateFloats(dctx.Space, packedTemperature)
		}

		densitySlice := density[pID : pID+length]
		energySlice := energy[pID : pID+length]
		pressureSlice := pressure[pID : pID+length]
		soundSpeedSqSlice := soundSpeedSq[pID : pID+length]
		bulkModulusSlice := bulkModulus[pID : pID+length]
		temperatureSlice := temperature[pID : pID+length]
		predicateSlice := predicate[pID : pID+length]

		if surrogate != nil {
			stop := tracer.Span("surrogate")
			err := surrogate.Eval(ctx, length,
				[][]float64{densitySlice, energySlice},
				[][]float64{pressureSlice, soundSpeedSqSlice, bulkModulusSlice, temperatureSlice},
			)
			stop()
			if err != nil {
				release()
				log.WithError(err).WithField("material", m).Error("surrogate evaluation failed")
				return fmt.Errorf("pipeline: material %d partition %d: surrogate: %w", m, pID, err)
			}
		}

		var priorSurrogate [][]float64
		if opts.SurrogateDebug {
			priorSurrogate = [][]float64{
				append([]float64(nil), pressureSlice...),
				append([]float64(nil), soundSpeedSqSlice...),
				append([]float64(nil), bulkModulusSlice...),
				append([]float64(nil), temperatureSlice...),
			}
		}

		k, err := data.Pack(dctx, predicateSlice, length, false,
			[][]float64{densitySlice, energySlice},
			[][]float64{packedDensity, packedEnergy},
		)
		if err != nil {
			release()
			return fmt.Errorf("pipeline: material %d partition %d: pack: %w", m, pID, err)
		}

		// If no physics evaluator is registered for this material there is
		// nothing to fall back to: the rejected positions simply keep
		// whichever value the surrogate (or a prior invocation) already
		// wrote there, per the absent-collaborator-is-not-an-error rule.
		physicsRan := false
		if k > 0 && eos != nil {
			physicsRan = true
			stop := tracer.Span("eos")
			err := eos.Eval(ctx, k, packedEnergy[:k], packedDensity[:k],
				packedPressure[:k], packedSoundSpeedSq[:k], packedBulkModulus[:k], packedTemperature[:k])
			stop()
			if err != nil {
				release()
				log.WithError(err).WithField("material", m).Error("eos evaluation failed")
				return fmt.Errorf("pipeline: material %d partition %d: eos: %w", m, pID, err)
			}

			if opts.SurrogateDebug {
				if cmp, ok := eos.(collab.RMSEComparer); ok && priorSurrogate != nil {
					rmse, err := cmp.ComputeRMSE(k, priorSurrogate)
					if err != nil {
						log.WithError(err).WithField("material", m).Warn("rmse comparison failed")
					} else {
						log.WithFields(logrus.Fields{"material": m, "partition": pID, "rmse": rmse}).Debug("surrogate vs physics rmse")
					}
				}
			}

			stop = tracer.Span("store")
			err = st.Append(k, nInFeatures, nOutFeatures,
				[][]float64{packedDensity[:k], packedEnergy[:k]},
				[][]float64{packedPressure[:k], packedSoundSpeedSq[:k], packedBulkModulus[:k], packedTemperature[:k]},
			)
			stop()
			if err != nil {
				release()
				return fmt.Errorf("pipeline: material %d partition %d: store append: %w", m, pID, err)
			}
		}

		if physicsRan {
			if err := data.Unpack(dctx, predicateSlice, length, false,
				[][]float64{packedPressure, packedSoundSpeedSq, packedBulkModulus, packedTemperature},
				[][]float64{pressureSlice, soundSpeedSqSlice, bulkModulusSlice, temperatureSlice},
			); err != nil {
				release()
				return fmt.Errorf("pipeline: material %d partition %d: unpack: %w", m, pID, err)
			}
		}

		release()
		log.WithFields(logrus.Fields{"material": m, "partition": pID, "len": length, "packed": k}).Debug("partition evaluated")
	}

	return nil
}
