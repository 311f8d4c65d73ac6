package state

import "time"

// Change is one dispatched action paired with the states around it, as seen
// by code that reacts to the store outside the dispatching goroutine.
type Change struct {
	Action   Action
	Previous AppState
	State    AppState
	At       time.Time
}
