package item

import (
	"fmt"

	"cafe/internal/pkg/errs"
)

// State represents the preparation state of a single item.
// It implements a state machine with defined transitions so items follow
// the fulfillment workflow.
//
// State transitions:
//
//	Waiting ──> Preparing ──> Ready
//	   │
//	   └──────────> Ready        (transfer of a finished item from a
//	   └──────────> Preparing     cancelled order re-points a waiting item
//	                              directly to the donated state)
//
// Items leave the machine by being collected, dropped, or discarded; removal
// is modeled by deleting the item from its order, not by a terminal state.
type State int

const (
	// Unknown represents an invalid or undefined state.
	// This value (0) helps catch uninitialized State values.
	Unknown State = iota

	// Waiting is the initial state: the item has been ordered but no
	// preparation slot has been claimed for it yet.
	Waiting

	// Preparing indicates the item occupies a capacity slot and its
	// preparation timer is running.
	Preparing

	// Ready indicates preparation finished and the item sits on the tray
	// until the order is collected.
	Ready
)

// getStateStrings returns a map of State values to their string representations.
func getStateStrings() map[State]string {
	return map[State]string{
		Unknown:   "Unknown",
		Waiting:   "Waiting",
		Preparing: "Preparing",
		Ready:     "Ready",
	}
}

// getValidStateStrings returns a map of only valid State values.
func getValidStateStrings() map[State]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[State]string{
		Waiting:   "Waiting",
		Preparing: "Preparing",
		Ready:     "Ready",
	}
}

// Validate checks if the State value is valid.
// Valid states are Waiting, Preparing and Ready; Unknown (0) and any other
// values are invalid.
func (s State) Validate() error {
	if _, ok := getValidStateStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state is invalid", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the human-readable name of the state.
// Implements fmt.Stringer and is safe to call on any State value.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StartPreparing transitions the state to Preparing.
//
// Valid transitions:
//   - Waiting -> Preparing (scheduler claimed a capacity slot)
//
// Returns (0, error) if the item is not Waiting.
func (s State) StartPreparing() (State, error) {
	if s != Waiting {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"state is invalid",
			fmt.Errorf("%s is not a valid state to start preparing", s.String()),
		)
	}

	return Preparing, nil
}

// Finish transitions the state to Ready.
//
// Valid transitions:
//   - Preparing -> Ready (preparation timer elapsed)
//
// Returns (0, error) if the item is not Preparing.
func (s State) Finish() (State, error) {
	if s != Preparing {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"state is invalid",
			fmt.Errorf("%s is not a valid state to finish", s.String()),
		)
	}

	return Ready, nil
}

// Transfer transitions a Waiting state directly to the donated state of an
// item reclaimed from a cancelled order. The donated state keeps its
// progress: a Preparing donation keeps its capacity slot, a Ready donation
// arrives finished.
//
// Valid transitions:
//   - Waiting -> Preparing
//   - Waiting -> Ready
//
// Returns (0, error) if the receiving state is not Waiting or the donated
// state is not Preparing or Ready.
func (s State) Transfer(donated State) (State, error) {
	if s != Waiting {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"state is invalid",
			fmt.Errorf("%s is not a valid state to receive a transfer", s.String()),
		)
	}
	if donated != Preparing && donated != Ready {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"state is invalid",
			fmt.Errorf("%s is not a valid state to donate", donated.String()),
		)
	}

	return donated, nil
}
