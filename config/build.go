package config

import (
	"fmt"
	"io"
	"time"

	"github.com/ams-eos/ams-eos-core/collab"
	"github.com/ams-eos/ams-eos-core/data"
	"github.com/ams-eos/ams-eos-core/eos"
	"github.com/ams-eos/ams-eos-core/refimpl"
	"github.com/ams-eos/ams-eos-core/store"
	"github.com/ams-eos/ams-eos-core/trace"
)

// Registries maps collaborator names to factories, so Build can resolve
// the string names a YAML config uses into concrete collaborators. The
// real physics/surrogate/UQ implementations are external collaborators
// (spec.md §1); callers register their own factories here alongside (or
// instead of) DefaultRegistries' reference stand-ins.
type Registries struct {
	EOS       map[string]func() (collab.EOS, error)
	Surrogate map[string]func() (collab.Surrogate, error)
	UQCache   map[string]func() (collab.UQCache, error)
}

// DefaultRegistries returns the reference/test-double collaborators from
// the refimpl package, registered under short names a config file can reference.
func DefaultRegistries() Registries {
	return Registries{
		EOS: map[string]func() (collab.EOS, error){
			"identity": func() (collab.EOS, error) { return refimpl.IdentityEOS{}, nil },
		},
		Surrogate: map[string]func() (collab.Surrogate, error){
			"identity": func() (collab.Surrogate, error) { return refimpl.IdentitySurrogate{}, nil },
		},
		UQCache: map[string]func() (collab.UQCache, error){
			"alternating": func() (collab.UQCache, error) { return refimpl.AlternatingUQCache{}, nil },
		},
	}
}

// Build constructs an eos.Evaluator from cfg, resolving named
// collaborators through reg, and wiring the ENABLE_DB/ENABLE_TRACE/
// SURROGATE_DEBUG construction options. The returned io.Closer flushes
// and closes the offline store (a no-op if ENABLE_DB is off) and must be
// closed by the caller once evaluation is finished.
func Build(cfg *Config, reg Registries) (*eos.Evaluator, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.PartitionBudgetBytes > 0 {
		data.SetBudget(cfg.PartitionBudgetBytes)
	}

	var opts []eos.Option

	var closer io.Closer = nopCloser{}
	if cfg.EnableDB {
		fs, err := store.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, eos.WithStore(fs))
		closer = fs
	}

	if cfg.EnableTrace {
		opts = append(opts, eos.WithTracer(trace.New(trace.LevelSpans, func() int64 { return time.Now().UnixNano() })))
	}

	if cfg.SurrogateDebug {
		opts = append(opts, eos.WithSurrogateDebug(true))
	}

	ev := eos.New(cfg.Materials, cfg.Elements, cfg.Qpts, cfg.IsCPU, cfg.PackSparseMats, opts...)

	for m, mc := range cfg.Collaborators {
		if mc.EOS != "" {
			factory, ok := reg.EOS[mc.EOS]
			if !ok {
				return nil, nil, fmt.Errorf("config: material %d: unknown eos collaborator %q", m, mc.EOS)
			}
			e, err := factory()
			if err != nil {
				return nil, nil, fmt.Errorf("config: material %d: building eos %q: %w", m, mc.EOS, err)
			}
			ev.RegisterEOS(m, e)
		}
		if mc.Surrogate != "" {
			factory, ok := reg.Surrogate[mc.Surrogate]
			if !ok {
				return nil, nil, fmt.Errorf("config: material %d: unknown surrogate collaborator %q", m, mc.Surrogate)
			}
			s, err := factory()
			if err != nil {
				return nil, nil, fmt.Errorf("config: material %d: building surrogate %q: %w", m, mc.Surrogate, err)
			}
			ev.RegisterSurrogate(m, s)
		}
		if mc.UQCache != "" {
			factory, ok := reg.UQCache[mc.UQCache]
			if !ok {
				return nil, nil, fmt.Errorf("config: material %d: unknown uq_cache collaborator %q", m, mc.UQCache)
			}
			u, err := factory()
			if err != nil {
				return nil, nil, fmt.Errorf("config: material %d: building uq_cache %q: %w", m, mc.UQCache, err)
			}
			ev.RegisterUQCache(m, u)
		}
	}

	return ev, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
