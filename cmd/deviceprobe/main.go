// Command deviceprobe prints the detected device profile and the particle
// budget each quality tier would get.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/device"
	"github.com/pthm-cable/driftfield/game"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/systems"
)

type report struct {
	Profile      device.Profile `yaml:"profile"`
	MaxParticles int            `yaml:"max_particles"`
	Budgets      map[string]int `yaml:"budgets"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	profile := device.Detect(device.NewHostSource(cfg.Device))
	budget := game.ParticleBudget(cfg, profile)
	opts := systems.OptionsFromConfig(cfg, budget)

	r := report{
		Profile:      profile,
		MaxParticles: budget,
		Budgets:      make(map[string]int, len(quality.Tiers)),
	}
	for _, t := range quality.Tiers {
		r.Budgets[t.String()] = opts.ParticleCountForTier(t)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "encoding profile: %v\n", err)
		os.Exit(1)
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "encoding profile: %v\n", err)
		os.Exit(1)
	}
}
