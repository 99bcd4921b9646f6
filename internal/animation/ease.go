package animation

// Ease shapes animation progress.
type Ease int

const (
	Linear Ease = iota
	QuadraticIn
	CubicOut
)

// Apply maps linear progress in [0, 1] to eased progress. Out of range input
// is clamped.
func (e Ease) Apply(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	switch e {
	case QuadraticIn:
		return p * p
	case CubicOut:
		q := p - 1
		return q*q*q + 1
	default:
		return p
	}
}

func (e Ease) String() string {
	switch e {
	case QuadraticIn:
		return "quadratic-in"
	case CubicOut:
		return "cubic-out"
	default:
		return "linear"
	}
}
