// Package state defines the states of the scoring game chain.
//
// Package state は得点ゲームのマルコフ連鎖における状態を定義します。
package state

import (
	"fmt"
)

type Kind int

const (
	NormalKind Kind = iota
	StartKind
	TerminalKind
)

func (k Kind) String() string {
	switch k {
	case NormalKind:
		return "Normal"
	case StartKind:
		return "Start"
	case TerminalKind:
		return "Terminal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Player int

const (
	NoPlayer Player = iota
	PlayerA
	PlayerB
)

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "PlayerA"
	case PlayerB:
		return "PlayerB"
	}
	return "NoPlayer"
}

// State is a comparable value. Only Normal states carry scores and a mental
// state; Start and Terminal states carry none, so two Start values are always equal.
//
// State は比較可能な値型です。スコアとメンタル状態を持つのは Normal のみです。
type State struct {
	Kind   Kind
	A      int
	B      int
	Mental int
	Winner Player
}

func Normal(a, b, mental int) State {
	return State{Kind: NormalKind, A: a, B: b, Mental: mental}
}

func Start() State {
	return State{Kind: StartKind}
}

func Win(winner Player) State {
	return State{Kind: TerminalKind, Winner: winner}
}

func (s State) IsNormal() bool {
	return s.Kind == NormalKind
}

func (s State) IsStart() bool {
	return s.Kind == StartKind
}

func (s State) IsTerminal() bool {
	return s.Kind == TerminalKind
}

func (s State) String() string {
	switch s.Kind {
	case NormalKind:
		return fmt.Sprintf("(%d,%d,%d)", s.A, s.B, s.Mental)
	case StartKind:
		return "Start"
	case TerminalKind:
		return s.Winner.String() + "Wins"
	}
	return fmt.Sprintf("State(kind=%d)", int(s.Kind))
}

const (
	// TerminalScore is the coordinate the plotting layer places a winner at.
	TerminalScore = 15.0
	StartScore    = -1.0
)

// Coords returns the position of s in the 3-D plot of the chain.
// Start and terminal states sit at the middle of the mental axis.
func (s State) Coords(mentalRange int) (x, y, z float64) {
	mid := float64(mentalRange) / 2.0
	switch s.Kind {
	case StartKind:
		return StartScore, StartScore, mid
	case TerminalKind:
		if s.Winner == PlayerA {
			return TerminalScore, 0, mid
		}
		return 0, TerminalScore, mid
	}
	return float64(s.A), float64(s.B), float64(s.Mental)
}

// Enumerate lists the playing states (a, b, z) with a in [startA, gameRange),
// b in [startB, gameRange) and z in [0, mentalRange), ordered by a, then b, then z.
func Enumerate(startA, startB, gameRange, mentalRange int) []State {
	if startA >= gameRange || startB >= gameRange || mentalRange < 1 {
		return nil
	}
	n := (gameRange - startA) * (gameRange - startB) * mentalRange
	states := make([]State, 0, n)
	for a := startA; a < gameRange; a++ {
		for b := startB; b < gameRange; b++ {
			for z := 0; z < mentalRange; z++ {
				states = append(states, Normal(a, b, z))
			}
		}
	}
	return states
}
