package transition_test

import (
	"errors"
	"testing"

	"github.com/sw965/momentum/config"
	"github.com/sw965/momentum/state"
	"github.com/sw965/momentum/transition"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-12

func TestModifier(t *testing.T) {
	tests := []struct {
		name        string
		effect      float64
		mentalRange int
		z           int
		want        float64
	}{
		{name: "中央は中立_奇数", effect: 0.1, mentalRange: 3, z: 1, want: 0},
		{name: "下端", effect: 0.1, mentalRange: 3, z: 0, want: -0.1},
		{name: "上端", effect: 0.1, mentalRange: 3, z: 2, want: 0.1},
		{name: "偶数幅", effect: 0.1, mentalRange: 2, z: 0, want: -0.05},
		{name: "幅1", effect: 0.3, mentalRange: 1, z: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := transition.Modifier(tc.effect, tc.mentalRange, tc.z)
			if !scalar.EqualWithinAbs(got, tc.want, tol) {
				t.Errorf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestProbabilitiesClamp(t *testing.T) {
	c := config.Config{P1: 0.9, P2: 0.1, MentalEffect: 0.5, GameRange: 3, MentalRange: 3, Parallelism: 1}

	probA, probB := transition.Probabilities(c, 2)
	if probA != 1 || probB != 0 {
		t.Errorf("upper clamp: got (%v, %v)", probA, probB)
	}

	probA, probB = transition.Probabilities(c, 0)
	if !scalar.EqualWithinAbs(probA, 0.4, tol) || !scalar.EqualWithinAbs(probB, 0.6, tol) {
		t.Errorf("lower side: got (%v, %v)", probA, probB)
	}

	for z := 0; z < c.MentalRange; z++ {
		if got := transition.OutgoingTotal(c, z); !scalar.EqualWithinAbs(got, 1, 1e-9) {
			t.Errorf("z=%d: probA+probB = %v", z, got)
		}
	}
}

func TestKernel(t *testing.T) {
	for mentalRange := 1; mentalRange <= 9; mentalRange++ {
		for z := 0; z < mentalRange; z++ {
			k := transition.Kernel(mentalRange, z)
			if len(k) != mentalRange {
				t.Fatalf("len: want %d, got %d", mentalRange, len(k))
			}
			if sum := floats.Sum(k); !scalar.EqualWithinAbs(sum, 1, tol) {
				t.Errorf("mentalRange=%d z=%d: sum = %v", mentalRange, z, sum)
			}
			if floats.MaxIdx(k) != z {
				t.Errorf("mentalRange=%d z=%d: peak at %d", mentalRange, z, floats.MaxIdx(k))
			}
		}
	}

	// 1 : 1/2 : 1/3 normalised by 11/6
	k := transition.Kernel(3, 0)
	want := []float64{6.0 / 11.0, 3.0 / 11.0, 2.0 / 11.0}
	if !floats.EqualApprox(k, want, tol) {
		t.Errorf("want %v, got %v", want, k)
	}
}

func TestFrom(t *testing.T) {
	c := config.Config{P1: 0.6, P2: 0.4, MentalEffect: 0.1, GameRange: 3, MentalRange: 2, Parallelism: 1}

	t.Run("Start", func(t *testing.T) {
		edges := transition.From(c, state.Start())
		if len(edges) != 2 {
			t.Fatalf("want 2 edges, got %d", len(edges))
		}
		for m, e := range edges {
			if e.To != state.Normal(0, 0, m) || e.Weight != 0.5 {
				t.Errorf("edge %d: %+v", m, e)
			}
		}
	})

	t.Run("Terminal", func(t *testing.T) {
		edges := transition.From(c, state.Win(state.PlayerB))
		if len(edges) != 1 || edges[0].To != state.Start() || edges[0].Weight != 1 {
			t.Errorf("got %+v", edges)
		}
	})

	t.Run("両者とも途中", func(t *testing.T) {
		edges := transition.From(c, state.Normal(0, 1, 1))
		if len(edges) != 4 {
			t.Fatalf("want 4 edges, got %d", len(edges))
		}
		var sum float64
		for _, e := range edges {
			sum += e.Weight
		}
		if !scalar.EqualWithinAbs(sum, 1, tol) {
			t.Errorf("sum = %v", sum)
		}
	})

	t.Run("Aがマッチポイント", func(t *testing.T) {
		edges := transition.From(c, state.Normal(2, 0, 0))
		if len(edges) != 3 {
			t.Fatalf("want 3 edges, got %d", len(edges))
		}
		probA, _ := transition.Probabilities(c, 0)
		if edges[0].To != state.Win(state.PlayerA) || !scalar.EqualWithinAbs(edges[0].Weight, probA, tol) {
			t.Errorf("terminal edge: %+v", edges[0])
		}
	})

	t.Run("両者マッチポイント", func(t *testing.T) {
		edges := transition.From(c, state.Normal(2, 2, 1))
		if len(edges) != 2 {
			t.Fatalf("want 2 edges, got %d", len(edges))
		}
		if edges[0].To != state.Win(state.PlayerA) || edges[1].To != state.Win(state.PlayerB) {
			t.Errorf("got %+v", edges)
		}
	})
}

func TestEdges(t *testing.T) {
	c := config.Config{P1: 0.5, P2: 0.5, MentalEffect: 0.05, GameRange: 4, MentalRange: 3, P1Start: 1, Parallelism: 1}

	serial, err := transition.Edges(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Parallelism = 4
	par, err := transition.Edges(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(serial) != len(par) {
		t.Fatalf("len: serial %d, parallel %d", len(serial), len(par))
	}
	for i := range serial {
		if serial[i] != par[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, serial[i], par[i])
		}
	}

	if serial[0].From != state.Start() || serial[0].To != state.Normal(1, 0, 0) {
		t.Errorf("first edge: %+v", serial[0])
	}

	total := map[state.State]float64{}
	for _, e := range serial {
		if e.Weight < 0 {
			t.Errorf("negative weight: %+v", e)
		}
		total[e.From] += e.Weight
	}
	for s, sum := range total {
		if !scalar.EqualWithinAbs(sum, 1, 1e-9) {
			t.Errorf("%v: outgoing weight %v", s, sum)
		}
	}
}

func TestEdgesInvalidConfig(t *testing.T) {
	c := config.Config{P1: 0.6, P2: 0.3, MentalEffect: 0.05, GameRange: 4, MentalRange: 3, Parallelism: 1}
	edges, err := transition.Edges(c)
	if !errors.Is(err, config.ErrConfiguration) {
		t.Errorf("want ErrConfiguration, got %v", err)
	}
	if edges != nil {
		t.Errorf("want no edges, got %d", len(edges))
	}
}
