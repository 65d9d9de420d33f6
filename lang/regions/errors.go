package regions

import "fmt"

// BugError marks a programmer-contract violation: adding a constraint after
// solving has begun, relating a Bound lifetime as sub or super region,
// resolving a variable before Solve has run, or calling the
// lattice operators with a Var. These never arise from user input, so they
// are not collected alongside the normal error records; they panic so the
// caller's own "compiler bug" channel can report and abort.
type BugError struct {
	Msg string
}

func (e *BugError) Error() string { return "region inference bug: " + e.Msg }

// ErrorKind discriminates the three shapes of region resolution error.
type ErrorKind uint8

const (
	// ConcreteFailure marks a RegSubReg constraint between two concrete
	// lifetimes where the sub does not outlive the sup.
	ConcreteFailure ErrorKind = iota
	// SubSupConflict marks an expanding variable whose lower bound does not
	// fit under one of its upper bounds.
	SubSupConflict
	// SupSupConflict marks a contracting variable with two upper bounds that
	// share no common sub-lifetime.
	SupSupConflict
)

func (k ErrorKind) String() string {
	switch k {
	case ConcreteFailure:
		return "ConcreteFailure"
	case SubSupConflict:
		return "SubSupConflict"
	case SupSupConflict:
		return "SupSupConflict"
	default:
		return fmt.Sprintf("<invalid ErrorKind %d>", k)
	}
}

// ResolutionError is one structured error record produced by
// (*Store).Solve. The fields that are meaningful depend on Kind:
// ConcreteFailure only sets Origin, Sub and Sup; the two conflict kinds set
// VarOrigin plus a pair of (origin, region) bounds.
type ResolutionError struct {
	Kind ErrorKind

	// Origin of the RegSubReg constraint, set only for ConcreteFailure.
	Origin Origin

	// VarOrigin is the origin of the inconsistent variable, set for both
	// conflict kinds.
	VarOrigin Origin

	// Sub, Sup are the two concrete regions of a ConcreteFailure.
	Sub, Sup Lifetime

	// FirstOrigin/FirstRegion and SecondOrigin/SecondRegion are the witness
	// pair for the two conflict kinds: for SubSupConflict, the lower bound
	// and the upper bound that fail to relate; for SupSupConflict, the two
	// upper bounds with no common sub-lifetime.
	FirstOrigin, SecondOrigin Origin
	FirstRegion, SecondRegion Lifetime
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case ConcreteFailure:
		return fmt.Sprintf("%s does not outlive %s", e.Sub, e.Sup)
	case SubSupConflict:
		return fmt.Sprintf("lower bound %s does not fit under upper bound %s", e.FirstRegion, e.SecondRegion)
	case SupSupConflict:
		return fmt.Sprintf("upper bounds %s and %s have no common sub-lifetime", e.FirstRegion, e.SecondRegion)
	default:
		return fmt.Sprintf("<invalid ResolutionError %#v>", e)
	}
}

// ErrorList collects the ResolutionError records returned by a solve. It
// implements error so a caller that wants to treat "any resolution errors"
// as a single failure can do so directly.
type ErrorList []*ResolutionError

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		s := el[0].Error()
		return fmt.Sprintf("%s (and %d more)", s, len(el)-1)
	}
}
