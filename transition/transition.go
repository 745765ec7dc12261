// Package transition computes the weighted edges of the scoring game chain.
//
// Package transition は得点ゲームの連鎖の重み付き辺を計算します。
package transition

import (
	"math"

	"github.com/sw965/momentum/config"
	"github.com/sw965/momentum/state"
	"github.com/sw965/omw/parallel"
	"gonum.org/v1/gonum/floats"
)

type Edge struct {
	From   state.State
	To     state.State
	Weight float64
}

// Modifier is the shift applied to player A's point probability in mental state z.
// The middle mental state is neutral.
func Modifier(mentalEffect float64, mentalRange, z int) float64 {
	return mentalEffect * (float64(z+1) - float64(mentalRange+1)/2.0)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Probabilities returns the probabilities that A and B win the next point in mental state z.
// Each is clamped to [0,1].
func Probabilities(c config.Config, z int) (float64, float64) {
	mod := Modifier(c.MentalEffect, c.MentalRange, z)
	return clamp01(c.P1 + mod), clamp01(c.P2 - mod)
}

// Kernel returns the distribution of the next mental state after a point scored in mental state z.
// The weight of m is proportional to 1/(1+|z-m|).
//
// Kernel は、メンタル状態 z で得点した後の次のメンタル状態の分布を返します。
func Kernel(mentalRange, z int) []float64 {
	w := make([]float64, mentalRange)
	for m := range w {
		w[m] = 1.0 / float64(1+abs(z-m))
	}
	floats.Scale(1.0/floats.Sum(w), w)
	return w
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// From returns the outgoing edges of s. Terminal states route back to Start
// with weight 1 and Start fans out uniformly over the initial mental states.
func From(c config.Config, s state.State) []Edge {
	switch {
	case s.IsStart():
		return startEdges(c)
	case s.IsTerminal():
		return []Edge{{From: s, To: state.Start(), Weight: 1}}
	case s.IsNormal():
		return scoringEdges(c, s)
	}
	return nil
}

func startEdges(c config.Config) []Edge {
	edges := make([]Edge, c.MentalRange)
	w := 1.0 / float64(c.MentalRange)
	for m := range edges {
		edges[m] = Edge{From: state.Start(), To: state.Normal(c.P1Start, c.P2Start, m), Weight: w}
	}
	return edges
}

func scoringEdges(c config.Config, s state.State) []Edge {
	probA, probB := Probabilities(c, s.Mental)
	kernel := Kernel(c.MentalRange, s.Mental)
	last := c.GameRange - 1
	edges := make([]Edge, 0, 2*c.MentalRange)

	// a winning point goes straight to the terminal state, with no mental fan-out
	if s.A == last {
		edges = append(edges, Edge{From: s, To: state.Win(state.PlayerA), Weight: probA})
	} else {
		for m, k := range kernel {
			edges = append(edges, Edge{From: s, To: state.Normal(s.A+1, s.B, m), Weight: probA * k})
		}
	}

	if s.B == last {
		edges = append(edges, Edge{From: s, To: state.Win(state.PlayerB), Weight: probB})
	} else {
		for m, k := range kernel {
			edges = append(edges, Edge{From: s, To: state.Normal(s.A, s.B+1, m), Weight: probB * k})
		}
	}
	return edges
}

// Edges returns every edge of the chain: Start's fan-out, then the playing
// states in enumeration order, then the two terminal returns. The playing
// states are expanded on c.Parallelism workers; the order does not depend on it.
func Edges(c config.Config) ([]Edge, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	playing := state.Enumerate(c.P1Start, c.P2Start, c.GameRange, c.MentalRange)
	n := len(playing)
	perState := make([][]Edge, n)

	err := parallel.For(n, c.Parallelism, func(workerId, idx int) error {
		perState[idx] = scoringEdges(c, playing[idx])
		return nil
	})
	if err != nil {
		return nil, err
	}

	edges := startEdges(c)
	for _, es := range perState {
		edges = append(edges, es...)
	}
	edges = append(edges, From(c, state.Win(state.PlayerA))...)
	edges = append(edges, From(c, state.Win(state.PlayerB))...)
	return edges, nil
}

// OutgoingTotal is probA + probB for mental state z. It is 1 whenever P1 + P2 = 1,
// because clamping one side at 1 pushes the other below 0 at the same time.
func OutgoingTotal(c config.Config, z int) float64 {
	probA, probB := Probabilities(c, z)
	return probA + probB
}
