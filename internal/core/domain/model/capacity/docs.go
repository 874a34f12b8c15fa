// Package capacity bounds concurrent preparation per item type. The Pool is
// shared by the scheduler, every running preparation and the cancellation
// path; a slot acquired for an item travels with that item until its
// preparation finishes, is discarded, or is inherited by a transfer.
package capacity
