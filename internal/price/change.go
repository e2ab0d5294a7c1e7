package price

import "github.com/shopspring/decimal"

// Direction classifies a price move.
type Direction int

const (
	// NoPrior means there was no positive previous sample to compare with.
	NoPrior Direction = iota
	Up
	Down
	Unchanged
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Unchanged:
		return "unchanged"
	default:
		return "no prior sample"
	}
}

// Change is the move between two consecutive samples of the same pool.
type Change struct {
	Direction Direction
	// Percent is signed; zero when Direction is NoPrior.
	Percent decimal.Decimal
}

// HasPrior reports whether a previous sample took part in the comparison.
func (c Change) HasPrior() bool {
	return c.Direction != NoPrior
}

// Magnitude returns the absolute percentage.
func (c Change) Magnitude() decimal.Decimal {
	return c.Percent.Abs()
}

var hundred = decimal.NewFromInt(100)

// ChangeIndicator compares current against previous.
//
// Direction uses the exact sign of the delta: any positive delta is Up, and only
// an exact zero is Unchanged.
func ChangeIndicator(current, previous decimal.Decimal) Change {
	if !previous.IsPositive() {
		return Change{Direction: NoPrior}
	}

	delta := current.Sub(previous)
	change := Change{Percent: delta.Div(previous).Mul(hundred)}
	switch delta.Sign() {
	case 1:
		change.Direction = Up
	case -1:
		change.Direction = Down
	default:
		change.Direction = Unchanged
	}
	return change
}
