// Package momentum models a two-player scoring game with psychological
// momentum as a Markov chain: Config → Build → Model → Solve / Walk.
//
// Package momentum は、心理的な勢いを持つ二人対戦の得点ゲームをマルコフ連鎖として扱います。
package momentum

import (
	"math/rand/v2"
	"sync"

	"github.com/sw965/momentum/absorption"
	"github.com/sw965/momentum/chain"
	"github.com/sw965/momentum/config"
	"github.com/sw965/momentum/state"
	"github.com/sw965/momentum/transition"
	"github.com/sw965/momentum/walk"
	"github.com/sw965/omw/mathx/randx"
)

// Model is immutable once built. Changing a parameter means building a new Model.
type Model struct {
	config config.Config
	chain  *chain.Chain

	solveOnce sync.Once
	outcome   absorption.Outcome
	solveErr  error
}

func Build(c config.Config) (*Model, error) {
	edges, err := transition.Edges(c)
	if err != nil {
		return nil, err
	}
	ch, err := chain.Assemble(edges)
	if err != nil {
		return nil, err
	}
	return NewModel(c, ch), nil
}

// NewModel wraps an already assembled chain. c is kept as given.
func NewModel(c config.Config, ch *chain.Chain) *Model {
	return &Model{config: c, chain: ch}
}

func (m *Model) Config() config.Config {
	return m.config
}

func (m *Model) Chain() *chain.Chain {
	return m.chain
}

// Solve returns the win probabilities. The result, or the error, is computed once per Model.
func (m *Model) Solve() (absorption.Outcome, error) {
	m.solveOnce.Do(func() {
		m.outcome, m.solveErr = absorption.Solve(m.chain)
	})
	if m.solveErr != nil {
		return absorption.Outcome{}, m.solveErr
	}
	out := m.outcome
	out.Stationary = append([]float64(nil), m.outcome.Stationary...)
	return out, nil
}

func (m *Model) Walk(start state.State, steps int, rng *rand.Rand) ([]state.State, error) {
	return walk.Sample(m.chain, start, steps, rng)
}

// Walks samples n walks from start on the model's configured parallelism,
// with a freshly seeded generator per worker.
func (m *Model) Walks(start state.State, steps, n int) ([][]state.State, error) {
	return walk.Samples(m.chain, start, steps, n, randx.NewPCGs(m.config.Parallelism))
}
