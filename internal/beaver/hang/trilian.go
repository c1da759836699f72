// Package hang implements the checkers that prove a program hangs: given a
// meta-loop analysis and live tape state, each returns a three-valued
// verdict. YES is sound and never retracted; NO only disables a checker
// until its checkpoint advances; MAYBE always defers to a later check.
package hang

// Trilian is a three-valued logic value: YES, NO, or MAYBE.
type Trilian int8

const (
	Maybe Trilian = iota
	Yes
	No
)

func (t Trilian) String() string {
	switch t {
	case Yes:
		return "YES"
	case No:
		return "NO"
	default:
		return "MAYBE"
	}
}

// FromBool converts a plain boolean check into YES/NO.
func FromBool(b bool) Trilian {
	if b {
		return Yes
	}
	return No
}
