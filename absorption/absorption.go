// Package absorption derives each player's win probability from the
// eigenvalue-1 eigenvector of an assembled chain.
package absorption

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/sw965/momentum/chain"
	"github.com/sw965/momentum/state"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrDegenerateChain = errors.New("degenerate chain")

const (
	// EigenvalueTolerance bounds |λ-1| for the eigenvalue taken as the stationary one.
	EigenvalueTolerance = 1e-6
	massTolerance       = 1e-12
)

type Outcome struct {
	P1Win float64
	P2Win float64

	// P1Relative and P2Relative are the stationary masses of the two terminal
	// states before they are renormalised against each other.
	P1Relative float64
	P2Relative float64

	// Stationary is indexed like chain.States.
	Stationary []float64
}

// StationaryIndex returns the index of the eigenvalue closest to 1.
func StationaryIndex(values []complex128) (int, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no eigenvalues", ErrDegenerateChain)
	}
	best := 0
	bestDist := cmplx.Abs(values[0] - 1)
	for i, v := range values[1:] {
		if d := cmplx.Abs(v - 1); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	if bestDist > EigenvalueTolerance {
		return 0, fmt.Errorf("%w: closest eigenvalue %v is %.3g away from 1", ErrDegenerateChain, values[best], bestDist)
	}
	return best, nil
}

// Stationary returns the eigenvalue-1 eigenvector of c's matrix with its
// imaginary part dropped, normalised to sum to 1.
func Stationary(c *chain.Chain) ([]float64, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(c.Matrix(), mat.EigenRight); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition did not converge", ErrDegenerateChain)
	}

	k, err := StationaryIndex(eig.Values(nil))
	if err != nil {
		return nil, err
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	n := c.Len()
	v := make([]float64, n)
	for i := range v {
		v[i] = real(vectors.At(i, k))
	}

	sum := floats.Sum(v)
	if math.Abs(sum) < massTolerance {
		return nil, fmt.Errorf("%w: eigenvector sums to %v", ErrDegenerateChain, sum)
	}
	floats.Scale(1/sum, v)
	return v, nil
}

// Solve computes the probability that each player wins a game started from Start.
//
// Solve は Start から開始したゲームで各プレイヤーが勝つ確率を計算します。
func Solve(c *chain.Chain) (Outcome, error) {
	stationary, err := Stationary(c)
	if err != nil {
		return Outcome{}, err
	}

	ia, err := c.IndexOf(state.Win(state.PlayerA))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrDegenerateChain, err)
	}
	ib, err := c.IndexOf(state.Win(state.PlayerB))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrDegenerateChain, err)
	}

	relA, relB := stationary[ia], stationary[ib]
	total := relA + relB
	if math.Abs(total) < massTolerance {
		return Outcome{}, fmt.Errorf("%w: terminal masses sum to %v", ErrDegenerateChain, total)
	}

	return Outcome{
		P1Win:      relA / total,
		P2Win:      relB / total,
		P1Relative: relA,
		P2Relative: relB,
		Stationary: stationary,
	}, nil
}
