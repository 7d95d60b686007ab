// Package cmd wires the Cobra CLI demo harness. This is a thin
// demonstration entrypoint, not the real application: mesh construction,
// the CLI's own flag surface, and logging wiring are out of scope per
// spec.md §1 ("referenced by its contract only"); this command exists so
// the evaluation core is exercisable end-to-end with synthetic data and
// the refimpl stand-in collaborators.
package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ams-eos/ams-eos-core/config"
	"github.com/ams-eos/ams-eos-core/data"
	"github.com/ams-eos/ams-eos-core/eos"
)

var (
	configPath string
	logLevel   string
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "ams-eos",
	Short: "Surrogate-accelerated per-material EOS evaluation core (demo harness)",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build an Evaluator from a YAML config and run it once over synthetic mesh data",
	RunE: func(_ *cobra.Command, _ []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ev, closer, err := config.Build(cfg, config.DefaultRegistries())
		if err != nil {
			return err
		}
		defer closer.Close()

		density, energy, sparseIdx, pressure, soundSpeedSq, bulkModulus, temperature := syntheticMesh(cfg, seed)

		logrus.WithFields(logrus.Fields{
			"materials": cfg.Materials, "elements": cfg.Elements, "qpts": cfg.Qpts,
		}).Info("starting evaluation")

		if err := ev.Evaluate(context.Background(), density, energy, sparseIdx, pressure, soundSpeedSq, bulkModulus, temperature); err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		logrus.Info("evaluation complete")
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "path to the construction/collaborator YAML config")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "seed for the synthetic mesh generator")
	runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}

// syntheticMesh builds a fully-active mesh (every material has E active
// elements, no gaps) with pseudo-random density/energy, purely to give
// the demo something to evaluate.
func syntheticMesh(cfg *config.Config, seed int64) (density, energy eos.BlockTensor, sparseIdx data.SparseIndex, pressure, soundSpeedSq, bulkModulus, temperature eos.BlockTensor) {
	rng := rand.New(rand.NewSource(seed))
	m, e, q := cfg.Materials, cfg.Elements, cfg.Qpts

	density = eos.NewBlockTensor(q, e, m)
	energy = eos.NewBlockTensor(q, e, m)
	pressure = eos.NewBlockTensor(q, e, m)
	soundSpeedSq = eos.NewBlockTensor(q, e, m)
	bulkModulus = eos.NewBlockTensor(q, e, m)
	temperature = eos.NewBlockTensor(q, e, m)

	for i := range density.Raw() {
		density.Raw()[i] = 1 + rng.Float64()
		energy.Raw()[i] = 10 + 10*rng.Float64()
	}

	s := make([]int, m+m*e)
	for mat := 0; mat < m; mat++ {
		s[mat] = m + (mat+1)*e
	}
	for mat := 0; mat < m; mat++ {
		base := m + mat*e
		for k := 0; k < e; k++ {
			s[base+k] = k
		}
	}
	sparseIdx = data.NewSparseIndex(s, m)
	return
}
