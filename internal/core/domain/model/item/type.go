package item

import (
	"cafe/internal/pkg/errs"
)

// Type identifies a kind of preparable item on the cafe menu.
//
// Type is an open enumeration: the engine schedules and limits capacity per
// type without knowing the full menu in advance. Tea and Coffee are the
// reference menu; adapters may submit any non-empty type and the engine
// treats it uniformly.
type Type string

const (
	// Tea is the reference menu item with the shorter preparation time.
	Tea Type = "tea"

	// Coffee is the reference menu item with the longer preparation time.
	Coffee Type = "coffee"
)

// Validate checks that the type carries a name.
// An empty type is invalid; any non-empty name is an acceptable menu entry.
func (t Type) Validate() error {
	if t == "" {
		return errs.NewValueIsRequiredError("item type")
	}
	return nil
}

// String returns the menu name of the type.
func (t Type) String() string {
	return string(t)
}
