package backprop

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/stevegt/goadapt"
)

func TestInputDerivativeIsZero(t *testing.T) {
	in := NewInput("i1", 3.7)
	w := NewWeight("w1A", 0.5)
	Tassert(t, in.Output() == 3.7, in.Output())
	Tassert(t, in.DOutDX(w) == 0, "input derivative must be zero")
	in.SetValue(-2)
	Tassert(t, in.Output() == -2, in.Output())
	Tassert(t, in.DOutDX(w) == 0, "input derivative must be zero")
}

func TestWeightStageCommit(t *testing.T) {
	w := NewWeight("wA", 1.0)
	w.SetNextValue(2.5)
	// staging must not change the committed value
	Tassert(t, w.GetValue() == 1.0, w.GetValue())
	w.Update()
	Tassert(t, w.GetValue() == 2.5, w.GetValue())
}

func TestWeightUpdateWithoutStage(t *testing.T) {
	w := NewWeight("wA", 1.0)
	require.Panics(t, func() { w.Update() })
	// a commit consumes the staged value; a second commit must also fail
	w.SetNextValue(2.0)
	w.Update()
	require.Panics(t, func() { w.Update() })
}

func TestWeightSetValueClearsStage(t *testing.T) {
	w := NewWeight("wA", 1.0)
	w.SetNextValue(5.0)
	w.SetValue(3.0)
	Tassert(t, w.GetValue() == 3.0, w.GetValue())
	require.Panics(t, func() { w.Update() })
}
