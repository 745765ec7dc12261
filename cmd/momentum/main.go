package main

import (
	"log/slog"
	"os"

	"github.com/sw965/momentum"
	"github.com/sw965/momentum/config"
	"github.com/sw965/momentum/state"
	"github.com/sw965/momentum/walk"
	"github.com/sw965/omw/mathx/randx"
)

const walkSteps = 200

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(logger); err != nil {
		logger.Error("momentum failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	c, err := config.FromEnv()
	if err != nil {
		return err
	}

	m, err := momentum.Build(c)
	if err != nil {
		return err
	}
	logger.Info("chain built",
		"states", m.Chain().Len(),
		"game_range", c.GameRange,
		"mental_range", c.MentalRange,
	)

	out, err := m.Solve()
	if err != nil {
		return err
	}
	logger.Info("win probabilities",
		"p1_relative", out.P1Relative,
		"p2_relative", out.P2Relative,
		"p1_win", out.P1Win,
		"p2_win", out.P2Win,
	)

	path, err := m.Walk(state.Start(), walkSteps, randx.NewPCGFromGlobalSeed())
	if err != nil {
		return err
	}
	logger.Info("random walk",
		"steps", len(path)-1,
		"games", len(walk.Winners(path)),
		"last", path[len(path)-1].String(),
	)
	return nil
}
