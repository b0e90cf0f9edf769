package backprop

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
)

// CheckGradients verifies the analytic derivative of the performance
// node with respect to every network weight against a finite-difference
// quotient, using a forward difference with the given step.  It returns
// an error naming the first weight whose derivatives disagree by more
// than tol.
//
// The check perturbs each weight in place and restores it afterward;
// caches are cleared around every probe.
func (net *Network) CheckGradients(step, tol float64) (err error) {
	for _, w := range net.Weights {
		orig := w.GetValue()

		net.ClearCache()
		analytic := net.Performance.DOutDX(w)

		f := func(x float64) float64 {
			w.SetValue(x)
			net.ClearCache()
			return net.Performance.Output()
		}
		numeric := fd.Derivative(f, orig, &fd.Settings{
			Formula: fd.Forward,
			Step:    step,
		})

		w.SetValue(orig)
		net.ClearCache()

		diff := analytic - numeric
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			return fmt.Errorf("weight %s: analytic derivative %v disagrees with finite difference %v",
				w.GetName(), analytic, numeric)
		}
	}
	return nil
}
