// Package walk samples random walks through an assembled chain.
//
// Package walk は組み立て済みの連鎖上のランダムウォークをサンプリングします。
package walk

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sw965/momentum/chain"
	"github.com/sw965/momentum/state"
	"github.com/sw965/omw/parallel"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrStateNotFound = errors.New("walk start state not found")
	ErrInvalidSteps  = errors.New("walk steps must be >= 0")
	ErrNoRand        = errors.New("walk requires at least one rand")
)

// Graph is the read-only view of a chain a walk needs. *chain.Chain satisfies it.
type Graph interface {
	IndexOf(state.State) (int, error)
	State(int) state.State
	Arcs(int) []chain.Arc
}

// Sample walks at most steps transitions from start, drawing each next state
// in proportion to the current state's column. The walk stops early on a
// state with no outgoing mass, so the path holds between 1 and steps+1 states.
func Sample(c Graph, start state.State, steps int, rng *rand.Rand) ([]state.State, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}
	if rng == nil {
		return nil, ErrNoRand
	}

	current, err := c.IndexOf(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateNotFound, err)
	}

	path := make([]state.State, 1, steps+1)
	path[0] = start
	for range steps {
		arcs := c.Arcs(current)
		ws := make([]float64, len(arcs))
		var sum float64
		for i, a := range arcs {
			ws[i] = a.Weight
			sum += a.Weight
		}
		if sum == 0 {
			break
		}

		k := int(distuv.NewCategorical(ws, rng).Rand())
		current = arcs[k].To
		path = append(path, c.State(current))
	}
	return path, nil
}

// Samples runs n independent walks on len(rngs) workers. Worker i draws only from rngs[i].
func Samples(c Graph, start state.State, steps, n int, rngs []*rand.Rand) ([][]state.State, error) {
	p := len(rngs)
	if p == 0 {
		return nil, ErrNoRand
	}

	paths := make([][]state.State, n)
	err := parallel.For(n, p, func(workerId, idx int) error {
		path, err := Sample(c, start, steps, rngs[workerId])
		if err != nil {
			return err
		}
		paths[idx] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Winners lists, in order, the winner of every game the path completes.
func Winners(path []state.State) []state.Player {
	winners := []state.Player{}
	for _, s := range path {
		if s.IsTerminal() {
			winners = append(winners, s.Winner)
		}
	}
	return winners
}
