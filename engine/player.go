package engine

import "fmt"

type Player uint8

const (
	Empty Player = iota
	White
	Black
)

// OpeningPlayer is bound by the centre and ring restrictions on its first two turns.
const OpeningPlayer = White

var playerLabels = [...]string{
	Empty: ".",
	White: "w",
	Black: "b",
}

var playerNames = [...]string{
	Empty: "EMPTY",
	White: "WHITE",
	Black: "BLACK",
}

func (p Player) Opponent() Player {
	switch p {
	case White:
		return Black
	case Black:
		return White
	default:
		panic(fmt.Errorf("%w: %s", ErrNoOpponent, p))
	}
}

func (p Player) Label() string {
	if int(p) >= len(playerLabels) {
		return "?"
	}
	return playerLabels[p]
}

func (p Player) String() string {
	if int(p) >= len(playerNames) {
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
	return playerNames[p]
}

func ParseLabel(label string) (Player, error) {
	for p, l := range playerLabels {
		if l == label {
			return Player(p), nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// ParsePlayer reads the side-to-move token of a snapshot. Only the two real
// players are accepted.
func ParsePlayer(name string) (Player, error) {
	switch name {
	case playerNames[White]:
		return White, nil
	case playerNames[Black]:
		return Black, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
	}
}
