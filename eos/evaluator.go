// Package eos implements the surrogate-accelerated per-material
// evaluation core: the material loop driver, the block-tensor data model,
// and the public construction/entry-point surface. The hard parts — the
// evaluation pipeline, the data handler's pack/unpack primitives and
// sparse index table, the device and resource-manager façades — live in
// the sibling pipeline, data, devicectx and resource packages this type
// wires together.
package eos

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ams-eos/ams-eos-core/collab"
	"github.com/ams-eos/ams-eos-core/data"
	"github.com/ams-eos/ams-eos-core/devicectx"
	"github.com/ams-eos/ams-eos-core/pipeline"
	"github.com/ams-eos/ams-eos-core/resource"
	"github.com/ams-eos/ams-eos-core/store"
	"github.com/ams-eos/ams-eos-core/trace"
)

// Evaluator is the material loop driver (spec §4.G) together with the
// construction parameters and collaborator registries (spec §6). Its
// construction parameters and options are fixed once New returns;
// collaborators are registered afterwards through the Register* methods.
// The driver itself is stateless across invocations of Evaluate.
type Evaluator struct {
	m, e, q        int
	isCPU          bool
	packSparseMats bool

	eosEvaluators collab.Registry[collab.EOS]
	surrogates    collab.Registry[collab.Surrogate]
	uqCaches      collab.Registry[collab.UQCache]

	mgr  *resource.Manager
	opts pipeline.Options
}

// Option configures an Evaluator at construction time. All options are
// immutable once New returns, matching the construction parameters being
// fixed for the Evaluator's lifetime (spec §6).
type Option func(*Evaluator)

// WithStore enables the offline store (ENABLE_DB). Without this option
// the evaluator uses store.Null{}, a true no-op.
func WithStore(s store.Store) Option {
	return func(ev *Evaluator) { ev.opts.Store = s }
}

// WithTracer enables instrumentation spans (ENABLE_TRACE). Without this
// option the evaluator uses a no-op tracer.
func WithTracer(t *trace.Tracer) Option {
	return func(ev *Evaluator) { ev.opts.Tracer = t }
}

// WithSurrogateDebug enables the RMSE-comparison debug hook
// (SURROGATE_DEBUG).
func WithSurrogateDebug(enabled bool) Option {
	return func(ev *Evaluator) { ev.opts.SurrogateDebug = enabled }
}

// WithLogger overrides the logrus entry the evaluator and pipeline log
// through.
func WithLogger(log *logrus.Entry) Option {
	return func(ev *Evaluator) { ev.opts.Log = log }
}

// WithResourceManager overrides the resource.Manager used for transient
// allocations. Mainly useful for tests that want to observe pool
// behavior; production callers can omit this and get a fresh Manager.
func WithResourceManager(mgr *resource.Manager) Option {
	return func(ev *Evaluator) { ev.mgr = mgr }
}

// New constructs an Evaluator for m materials, e elements (max per
// material), and q quadrature points. isCPU and packSparseMats gate the
// sparse-packing path of the material loop driver (spec §4.G step 3).
func New(m, e, q int, isCPU, packSparseMats bool, opts ...Option) *Evaluator {
	ev := &Evaluator{
		m: m, e: e, q: q,
		isCPU:          isCPU,
		packSparseMats: packSparseMats,
		eosEvaluators:  make(collab.Registry[collab.EOS], m),
		surrogates:     make(collab.Registry[collab.Surrogate], m),
		uqCaches:       make(collab.Registry[collab.UQCache], m),
	}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.mgr == nil {
		ev.mgr = resource.New()
	}
	if ev.opts.Log == nil {
		ev.opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return ev
}

// RegisterEOS sets the physics evaluator for material m. Passing nil
// marks it absent.
func (ev *Evaluator) RegisterEOS(m int, e collab.EOS) { ev.eosEvaluators[m] = e }

// RegisterSurrogate sets the surrogate evaluator for material m. Passing
// nil marks it absent.
func (ev *Evaluator) RegisterSurrogate(m int, s collab.Surrogate) { ev.surrogates[m] = s }

// RegisterUQCache sets the UQ cache for material m. Passing nil marks it
// absent.
func (ev *Evaluator) RegisterUQCache(m int, u collab.UQCache) { ev.uqCaches[m] = u }

// Evaluate is the entry point (spec §6): it computes pressure, sound
// speed squared, bulk modulus, and temperature for every active sample of
// every material, from density, energy, and the sparse element index
// table sparseIdx. It returns normally only if every material was
// processed; otherwise it returns the first fatal error unchanged (no
// partial retry, spec §7).
func (ev *Evaluator) Evaluate(
	ctx context.Context,
	density, energy BlockTensor,
	sparseIdx data.SparseIndex,
	pressure, soundSpeedSq, bulkModulus, temperature BlockTensor,
) error {
	dctx := devicectx.New()
	if ev.isCPU {
		dctx = devicectx.NewWithSpace(devicectx.Host)
	}

	for m := 0; m < ev.m; m++ {
		offsetStart := sparseIdx.OffsetStart(m)
		em := sparseIdx.ElemCount(m)
		if em < 0 {
			return fmt.Errorf("eos: material %d: negative active element count %d (offset_start=%d, S[m]=%d)", m, em, offsetStart, sparseIdx.S[m])
		}
		if em == 0 {
			// Not an error; material skipped silently (spec §4.G step 2,
			// §7 kind 5).
			continue
		}

		if err := ev.evaluateMaterial(ctx, dctx, m, em, density, energy, sparseIdx, pressure, soundSpeedSq, bulkModulus, temperature); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) evaluateMaterial(
	ctx context.Context,
	dctx *devicectx.Context,
	m, em int,
	density, energy BlockTensor,
	sparseIdx data.SparseIndex,
	pressure, soundSpeedSq, bulkModulus, temperature BlockTensor,
) error {
	q := ev.q
	log := ev.opts.Log.WithField("material", m)

	takeSparsePath := ev.isCPU && ev.packSparseMats && em < ev.e
	if !takeSparsePath {
		n := ev.e * q
		return pipeline.Inner(ctx, dctx, ev.mgr, m, n,
			density.MaterialSlice(m), energy.MaterialSlice(m),
			pressure.MaterialSlice(m), soundSpeedSq.MaterialSlice(m), bulkModulus.MaterialSlice(m), temperature.MaterialSlice(m),
			ev.uqCaches.Get(m), ev.surrogates.Get(m), ev.eosEvaluators.Get(m),
			ev.opts,
		)
	}

	log.WithField("active_elements", em).Debug("sparse path: gathering dense buffers")

	n := em * q
	denseDensity, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	denseEnergy, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	densePressure, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	denseSoundSpeedSq, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	denseBulkModulus, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	denseTemperature, _ := ev.mgr.AllocateFloatsIn(dctx.Space, n)
	defer func() {
		ev.mgr.DeallocateFloats(dctx.Space, denseDensity)
		ev.mgr.DeallocateFloats(dctx.Space, denseEnergy)
		ev.mgr.DeallocateFloats(dctx.Space, densePressure)
		ev.mgr.DeallocateFloats(dctx.Space, denseSoundSpeedSq)
		ev.mgr.DeallocateFloats(dctx.Space, denseBulkModulus)
		ev.mgr.DeallocateFloats(dctx.Space, denseTemperature)
	}()

	data.PackIJ(sparseIdx, m, q, em, density.MaterialSlice(m), denseDensity)
	data.PackIJ(sparseIdx, m, q, em, energy.MaterialSlice(m), denseEnergy)

	if err := pipeline.Inner(ctx, dctx, ev.mgr, m, n,
		denseDensity, denseEnergy,
		densePressure, denseSoundSpeedSq, denseBulkModulus, denseTemperature,
		ev.uqCaches.Get(m), ev.surrogates.Get(m), ev.eosEvaluators.Get(m),
		ev.opts,
	); err != nil {
		return err
	}

	data.UnpackIJ(sparseIdx, m, q, em, densePressure, pressure.MaterialSlice(m))
	data.UnpackIJ(sparseIdx, m, q, em, denseSoundSpeedSq, soundSpeedSq.MaterialSlice(m))
	data.UnpackIJ(sparseIdx, m, q, em, denseBulkModulus, bulkModulus.MaterialSlice(m))
	data.UnpackIJ(sparseIdx, m, q, em, denseTemperature, temperature.MaterialSlice(m))
	return nil
}
