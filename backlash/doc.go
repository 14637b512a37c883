// Package backlash implements a backlash (dead-zone hysteresis) model with
// linear decision boundaries, after J. Vörös, "Modeling and identification
// of systems with backlash", Automatica, 2008.
//
// The model tracks two lines in the input-output plane, a lower line with
// slope loSlope and input offset loOffset and an upper line with slope
// upSlope and input offset upOffset. The output follows whichever line the
// input has crossed and holds its previous value while the input stays
// between them. This reproduces the play of a mechanical coupling: on a
// direction reversal the output stays constant until the driving element
// has traversed the full gap.
//
// # Usage
//
// Create a model and feed it one input sample per simulation timestep:
//
//	m, _ := backlash.New(2, 1)
//	for _, u := range inputs {
//	    x, err := m.ProcessSample(u)
//	    // ...
//	}
//
// The model is explicitly stateful; each instance must be owned by a single
// goroutine. State can be reinitialized with Reset and inspected through
// LastInput, LastOutput, LowerBoundary, UpperBoundary, and Zone.
package backlash
