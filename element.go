// Package backprop is a computational-graph engine for small feed-forward
// sigmoid networks.  Networks are built from named elements -- inputs,
// weights, and neurons -- wired into an arbitrary DAG, and trained by
// manual reverse-mode differentiation: each element knows how to compute
// its output and the partial derivative of that output with respect to
// any weight upstream of it.
package backprop

import (
	. "github.com/stevegt/goadapt"
)

// Element is a differentiable node in the graph.  Every element produces
// a scalar output and can report the partial derivative of that output
// with respect to a target weight anywhere in its fan-in.
type Element interface {
	// Output returns the element's current output value.
	Output() float64
	// DOutDX returns the partial derivative of the element's output
	// with respect to the target weight.
	DOutDX(target *Weight) float64
	// ClearCache drops any memoized output or derivative values.
	ClearCache()
	// GetName returns the element's unique name.
	GetName() string
}

// Input is an externally-set scalar feeding the network.  Inputs may be
// variable features or fixed bias inputs (conventionally named "i0" and
// held at -1).
type Input struct {
	name  string
	value float64
}

// NewInput creates a named input with an initial value.
func NewInput(name string, value float64) *Input {
	return &Input{name: name, value: value}
}

// GetName returns the input's name.
func (in *Input) GetName() string {
	return in.name
}

// GetValue returns the input's current value.
func (in *Input) GetValue() float64 {
	return in.value
}

// SetValue sets the input's value.  Callers must clear the network cache
// before reading any downstream output.
func (in *Input) SetValue(value float64) {
	in.value = value
}

// Output returns the input's value.
func (in *Input) Output() float64 {
	return in.value
}

// DOutDX always returns zero; inputs are not trainable parameters.
func (in *Input) DOutDX(target *Weight) float64 {
	return 0
}

// ClearCache is a no-op; inputs hold no derived state.
func (in *Input) ClearCache() {}

// String returns a short representation of the input.
func (in *Input) String() string {
	return Spf("%s(%1.2f)", in.name, in.value)
}

// Weight is a mutable scalar parameter attached to one graph edge.
// Updates are two-phase: SetNextValue stages a pending value, and Update
// commits it.  Staging every weight before committing any gives all
// updates in a training step the same pre-update view of the network.
type Weight struct {
	name   string
	value  float64
	next   float64
	staged bool
}

// NewWeight creates a named weight with an initial value.
func NewWeight(name string, value float64) *Weight {
	return &Weight{name: name, value: value}
}

// GetName returns the weight's name.
func (w *Weight) GetName() string {
	return w.name
}

// GetValue returns the weight's committed value.
func (w *Weight) GetValue() float64 {
	return w.value
}

// SetValue sets the committed value directly, bypassing the two-phase
// protocol.  Used when loading saved weights.
func (w *Weight) SetValue(value float64) {
	w.value = value
	w.staged = false
}

// SetNextValue stages a pending value for the next Update.
func (w *Weight) SetNextValue(value float64) {
	w.next = value
	w.staged = true
}

// Update commits the staged value.  Committing an unstaged weight is a
// programming error in the caller's staging pass.
func (w *Weight) Update() {
	Assert(w.staged, "weight %s updated without a staged value", w.name)
	w.value = w.next
	w.staged = false
}

// String returns a short representation of the weight.
func (w *Weight) String() string {
	return Spf("%s(%1.2f)", w.name, w.value)
}
