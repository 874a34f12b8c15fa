package item

import (
	"errors"

	"cafe/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a unit of work within an order: one drink of a given type moving
// through the preparation workflow.
//
// Item follows these invariants:
//   - Must have a non-empty identifier, unique within its owning order
//   - Must have a valid type
//   - State transitions follow the State machine rules
//   - Can only be created through the NewItem constructor
//
// An Item is not safe for concurrent use on its own: every mutation happens
// under the owning order's lock.
type Item struct {
	// id is the identifier of the item within its order, e.g. "tea-0"
	id string

	// itemType is the menu type of the item
	itemType Type

	// state is the current preparation state
	state State

	// isConstructed ensures the item was created via NewItem
	isConstructed bool
}

// NewItem creates an Item in the Waiting state.
//
// Parameters:
//   - id: Identifier unique within the owning order (must not be empty)
//   - itemType: Menu type of the item (must be valid)
//
// Returns the created item, or a validation error if any parameter is invalid.
func NewItem(id string, itemType Type) (*Item, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("item id")
	}
	if err := itemType.Validate(); err != nil {
		return nil, err
	}

	return &Item{
		id:            id,
		itemType:      itemType,
		state:         Waiting,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item instance was properly constructed through NewItem.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item's identifier within its order.
func (i *Item) ID() string {
	return i.id
}

// Type returns the menu type of the item.
func (i *Item) Type() Type {
	return i.itemType
}

// State returns the current preparation state.
func (i *Item) State() State {
	return i.state
}

// StartPreparing moves the item from Waiting to Preparing.
// The caller must hold the owning order's lock and a capacity slot
// for the item's type.
func (i *Item) StartPreparing() error {
	newState, err := i.state.StartPreparing()
	if err != nil {
		return err
	}

	i.state = newState
	return nil
}

// Finish moves the item from Preparing to Ready.
// The caller must hold the owning order's lock.
func (i *Item) Finish() error {
	newState, err := i.state.Finish()
	if err != nil {
		return err
	}

	i.state = newState
	return nil
}

// ReceiveTransfer re-points a Waiting item to the donated state of an item
// reclaimed from a cancelled order. The caller must hold the owning order's
// lock; for a Preparing donation the capacity slot travels with the donation.
func (i *Item) ReceiveTransfer(donated State) error {
	newState, err := i.state.Transfer(donated)
	if err != nil {
		return err
	}

	i.state = newState
	return nil
}
