// Package selection picks propulsion and payload components from the
// component databases and sizes the battery.
//
// Every selector returns the chosen item together with a human-readable
// Reason describing why it won. Selectors fail with
// core.ErrNoFeasibleSelection when no database entry survives filtering.
package selection
