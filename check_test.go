package backprop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Gradient checks compare every analytic derivative against a forward
// finite-difference quotient with step 1e-8 and tolerance 1e-4.

func TestCheckGradientsBasic(t *testing.T) {
	net := basicFixture()
	net.Performance.SetDesired(1.0)
	require.NoError(t, net.CheckGradients(1e-8, 1e-4))
}

func TestCheckGradientsTwoLayer(t *testing.T) {
	net := NewTwoLayerNet(rand.New(rand.NewSource(1)))
	net.Inputs[0].SetValue(0.3)
	net.Inputs[1].SetValue(-0.8)
	net.Performance.SetDesired(1.0)
	net.ClearCache()
	require.NoError(t, net.CheckGradients(1e-8, 1e-4))
}

// The challenging topology routes A, B, and C into the output both
// directly and through D, so derivatives with respect to first-layer
// weights must sum contributions over multiple incoming edges.  The
// finite-difference check fails here unless the chain rule handles
// diamond dependencies.
func TestCheckGradientsDiamond(t *testing.T) {
	net := NewChallengingNet(rand.New(rand.NewSource(2)))
	net.Inputs[0].SetValue(1.0)
	net.Inputs[1].SetValue(0.5)
	net.Performance.SetDesired(0.0)
	net.ClearCache()
	require.NoError(t, net.CheckGradients(1e-8, 1e-4))
}

func TestCheckGradientsTuned(t *testing.T) {
	net := NewTunedChallengingNet()
	net.Inputs[0].SetValue(-0.4)
	net.Inputs[1].SetValue(0.9)
	net.Performance.SetDesired(1.0)
	net.ClearCache()
	require.NoError(t, net.CheckGradients(1e-8, 1e-4))
}

func TestCheckGradientsTwoMoons(t *testing.T) {
	net := NewTwoMoonsNet(rand.New(rand.NewSource(3)))
	net.Inputs[0].SetValue(0.7)
	net.Inputs[1].SetValue(-0.2)
	net.Performance.SetDesired(1.0)
	net.ClearCache()
	require.NoError(t, net.CheckGradients(1e-8, 1e-4))
}
