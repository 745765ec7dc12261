// Package chain assembles transition edges into a column-stochastic matrix
// over a fixed enumeration of states.
//
// Package chain は遷移の辺を、状態の固定された列挙に基づく列確率行列へ組み立てます。
package chain

import (
	"errors"
	"fmt"
	"math"

	"github.com/sw965/momentum/state"
	"github.com/sw965/momentum/transition"
	"github.com/sw965/omw/slicesx"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrConstructionInvariant = errors.New("construction invariant violated")
	ErrStateNotFound         = errors.New("state not found in index")
)

// ColumnSumTolerance bounds how far a column sum may drift from 1.
const ColumnSumTolerance = 0.01

type Arc struct {
	To     int
	Weight float64
}

// Chain is read-only after Assemble. Accessors hand out copies.
type Chain struct {
	states       []state.State
	indexByState map[state.State]int
	arcs         [][]Arc
	matrix       *mat.Dense
}

func (c *Chain) indexOrAdd(s state.State) int {
	if i, ok := c.indexByState[s]; ok {
		return i
	}
	i := len(c.states)
	c.states = append(c.states, s)
	c.indexByState[s] = i
	c.arcs = append(c.arcs, nil)
	return i
}

// setArc overwrites an existing arc to the same destination, so a repeated
// (source, dest) pair keeps only the last weight.
func (c *Chain) setArc(from, to int, w float64) {
	for i, a := range c.arcs[from] {
		if a.To == to {
			c.arcs[from][i].Weight = w
			return
		}
	}
	c.arcs[from] = append(c.arcs[from], Arc{To: to, Weight: w})
}

// Assemble indexes the states of edges in discovery order and fills
// M[dest][source] = weight. The result is validated before it is returned.
func Assemble(edges []transition.Edge) (*Chain, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: no edges", ErrConstructionInvariant)
	}

	c := &Chain{indexByState: map[state.State]int{}}
	for _, e := range edges {
		from := c.indexOrAdd(e.From)
		to := c.indexOrAdd(e.To)
		c.setArc(from, to, e.Weight)
	}

	n := len(c.states)
	c.matrix = mat.NewDense(n, n, nil)
	for from, arcs := range c.arcs {
		for _, a := range arcs {
			c.matrix.Set(a.To, from, a.Weight)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chain) Validate() error {
	if !slicesx.IsUnique(c.states) {
		return fmt.Errorf("%w: index contains duplicate states", ErrConstructionInvariant)
	}

	r, cols := c.matrix.Dims()
	if r != cols || r != len(c.states) {
		return fmt.Errorf("%w: matrix is %dx%d for %d states", ErrConstructionInvariant, r, cols, len(c.states))
	}

	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, c.matrix)
		for i, v := range col {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: M[%v][%v] = %v", ErrConstructionInvariant, c.states[i], c.states[j], v)
			}
		}
		if sum := floats.Sum(col); math.Abs(sum-1) > ColumnSumTolerance {
			return fmt.Errorf("%w: column %v sums to %v", ErrConstructionInvariant, c.states[j], sum)
		}
	}
	return nil
}

func (c *Chain) Len() int {
	return len(c.states)
}

func (c *Chain) States() []state.State {
	return append([]state.State(nil), c.states...)
}

func (c *Chain) State(i int) state.State {
	return c.states[i]
}

func (c *Chain) IndexOf(s state.State) (int, error) {
	i, ok := c.indexByState[s]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}
	return i, nil
}

// Matrix returns a copy of the transition matrix.
func (c *Chain) Matrix() *mat.Dense {
	return mat.DenseCopyOf(c.matrix)
}

// Column returns the distribution over next states from state index j.
func (c *Chain) Column(j int) []float64 {
	return mat.Col(nil, j, c.matrix)
}

func (c *Chain) ColumnSum(j int) float64 {
	return floats.Sum(c.Column(j))
}

func (c *Chain) Arcs(from int) []Arc {
	return append([]Arc(nil), c.arcs[from]...)
}

func (c *Chain) Weight(from, to state.State) float64 {
	i, ok := c.indexByState[from]
	if !ok {
		return 0
	}
	j, ok := c.indexByState[to]
	if !ok {
		return 0
	}
	return c.matrix.At(j, i)
}

// Edges lists the arcs as edges, grouped by source in index order.
func (c *Chain) Edges() []transition.Edge {
	edges := []transition.Edge{}
	for from, arcs := range c.arcs {
		for _, a := range arcs {
			edges = append(edges, transition.Edge{From: c.states[from], To: c.states[a.To], Weight: a.Weight})
		}
	}
	return edges
}
