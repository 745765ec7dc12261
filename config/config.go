// Package config holds the parameters of the scoring game model.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/caarlos0/env/v11"
)

var ErrConfiguration = errors.New("configuration error")

// probabilitySumTolerance bounds |P1+P2-1|.
const probabilitySumTolerance = 1e-9

type Config struct {
	// P1 and P2 are the base probabilities that player A and player B win a point.
	P1 float64 `env:"MOMENTUM_P1" envDefault:"0.5"`
	P2 float64 `env:"MOMENTUM_P2" envDefault:"0.5"`

	// MentalEffect is the shift in point probability per mental-state step away from the middle.
	MentalEffect float64 `env:"MOMENTUM_MENTAL_EFFECT" envDefault:"0.05"`

	// GameRange is the number of points needed to win. MentalRange is the number of mental states.
	GameRange   int `env:"MOMENTUM_GAME_RANGE" envDefault:"11"`
	MentalRange int `env:"MOMENTUM_MENTAL_RANGE" envDefault:"5"`

	P1Start int `env:"MOMENTUM_P1_START" envDefault:"0"`
	P2Start int `env:"MOMENTUM_P2_START" envDefault:"0"`

	Parallelism int `env:"MOMENTUM_PARALLELISM" envDefault:"1"`
}

// New returns a validated Config with both players starting at zero.
func New(p1, p2, mentalEffect float64, gameRange, mentalRange int) (Config, error) {
	c := Config{
		P1:           p1,
		P2:           p2,
		MentalEffect: mentalEffect,
		GameRange:    gameRange,
		MentalRange:  mentalRange,
		Parallelism:  1,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnv reads a Config from MOMENTUM_* environment variables and validates it.
func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c Config) Validate() error {
	if !isFinite(c.P1) || c.P1 <= 0 || c.P1 >= 1 {
		return fmt.Errorf("%w: P1 must be in (0,1), got %v", ErrConfiguration, c.P1)
	}
	if !isFinite(c.P2) || c.P2 <= 0 || c.P2 >= 1 {
		return fmt.Errorf("%w: P2 must be in (0,1), got %v", ErrConfiguration, c.P2)
	}
	if math.Abs(c.P1+c.P2-1) > probabilitySumTolerance {
		return fmt.Errorf("%w: P1 + P2 must be 1, got %v + %v", ErrConfiguration, c.P1, c.P2)
	}
	// zero is allowed: the mental dimension then only diffuses
	if !isFinite(c.MentalEffect) || c.MentalEffect < 0 {
		return fmt.Errorf("%w: MentalEffect must be >= 0, got %v", ErrConfiguration, c.MentalEffect)
	}
	if c.GameRange < 1 {
		return fmt.Errorf("%w: GameRange must be >= 1, got %d", ErrConfiguration, c.GameRange)
	}
	if c.MentalRange < 1 {
		return fmt.Errorf("%w: MentalRange must be >= 1, got %d", ErrConfiguration, c.MentalRange)
	}
	if c.P1Start < 0 || c.P1Start >= c.GameRange {
		return fmt.Errorf("%w: P1Start must be in [0,%d), got %d", ErrConfiguration, c.GameRange, c.P1Start)
	}
	if c.P2Start < 0 || c.P2Start >= c.GameRange {
		return fmt.Errorf("%w: P2Start must be in [0,%d), got %d", ErrConfiguration, c.GameRange, c.P2Start)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: Parallelism must be >= 1, got %d", ErrConfiguration, c.Parallelism)
	}
	return nil
}
