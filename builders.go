package backprop

import (
	"math/rand"

	. "github.com/stevegt/goadapt"
)

// Naming convention for hand-wired networks:
//
//	Input:  'i' + number, starting at 1; bias inputs are 'i0', fixed
//	        at -1.
//	Weight: 'w' + from + to, e.g. 'w1A' from input i1 to neuron A,
//	        'wAB' from neuron A to neuron B; a bias weight is 'w' +
//	        neuron, e.g. 'wA'.
//	Neuron: letters ordered by distance from the inputs; 'A' is
//	        closest.

// randomWeight draws an initial weight from {-1, 0, 1}.  The coarse
// three-value distribution works well empirically for these small
// topologies.
func randomWeight(rng *rand.Rand) float64 {
	return float64(rng.Intn(3) - 1)
}

// NewBasicNet constructs a 2-input, single-neuron network with all
// weights set to 1.  With i1=1 and i2=0 its output is exactly 0.5, which
// makes it the reference fixture for engine tests.
func NewBasicNet() *Network {
	i0 := NewInput("i0", -1.0)
	i1 := NewInput("i1", 0.0)
	i2 := NewInput("i2", 0.0)

	w1A := NewWeight("w1A", 1)
	w2A := NewWeight("w2A", 1)
	wA := NewWeight("wA", 1)

	// inputs must be in the same order as their paired weights
	a := NewNeuron("A", []Element{i1, i2, i0}, []*Weight{w1A, w2A, wA})
	p := NewPerformanceElem(a, 0.0)
	return NewNetwork("basic", p, []*Neuron{a})
}

// NewTwoLayerNet constructs a 2-input network with a two-neuron hidden
// layer feeding a single output neuron.  Weights are initialized from
// rng.
func NewTwoLayerNet(rng *rand.Rand) *Network {
	i0 := NewInput("i0", -1.0)
	i1 := NewInput("i1", 0.0)
	i2 := NewInput("i2", 0.0)

	wA := NewWeight("wA", randomWeight(rng))
	w1A := NewWeight("w1A", randomWeight(rng))
	w2A := NewWeight("w2A", randomWeight(rng))
	wB := NewWeight("wB", randomWeight(rng))
	w1B := NewWeight("w1B", randomWeight(rng))
	w2B := NewWeight("w2B", randomWeight(rng))
	wC := NewWeight("wC", randomWeight(rng))
	wAC := NewWeight("wAC", randomWeight(rng))
	wBC := NewWeight("wBC", randomWeight(rng))

	a := NewNeuron("A", []Element{i0, i1, i2}, []*Weight{wA, w1A, w2A})
	b := NewNeuron("B", []Element{i0, i1, i2}, []*Weight{wB, w1B, w2B})
	c := NewNeuron("C", []Element{i0, a, b}, []*Weight{wC, wAC, wBC})

	p := NewPerformanceElem(c, 0.0)
	return NewNetwork("twolayer", p, []*Neuron{a, b, c})
}

// NewChallengingNet constructs a 2-input, 5-neuron network: three
// first-layer neurons A, B, C all feeding D, and an output neuron E fed
// by A, B, C, and D.  The D-to-E path gives the graph diamond-shaped
// weight dependencies, exercising the multi-edge chain rule.
func NewChallengingNet(rng *rand.Rand) *Network {
	i0 := NewInput("i0", -1.0)
	i1 := NewInput("i1", 0.0)
	i2 := NewInput("i2", 0.0)

	w1A := NewWeight("w1A", randomWeight(rng))
	w1B := NewWeight("w1B", randomWeight(rng))
	w1C := NewWeight("w1C", randomWeight(rng))
	w2A := NewWeight("w2A", randomWeight(rng))
	w2B := NewWeight("w2B", randomWeight(rng))
	w2C := NewWeight("w2C", randomWeight(rng))

	wA := NewWeight("wA", randomWeight(rng))
	wB := NewWeight("wB", randomWeight(rng))
	wC := NewWeight("wC", randomWeight(rng))
	wD := NewWeight("wD", randomWeight(rng))
	wE := NewWeight("wE", randomWeight(rng))

	wAD := NewWeight("wAD", randomWeight(rng))
	wAE := NewWeight("wAE", randomWeight(rng))
	wBD := NewWeight("wBD", randomWeight(rng))
	wBE := NewWeight("wBE", randomWeight(rng))
	wCD := NewWeight("wCD", randomWeight(rng))
	wCE := NewWeight("wCE", randomWeight(rng))
	wDE := NewWeight("wDE", randomWeight(rng))

	a := NewNeuron("A", []Element{i0, i1, i2}, []*Weight{wA, w1A, w2A})
	b := NewNeuron("B", []Element{i0, i1, i2}, []*Weight{wB, w1B, w2B})
	c := NewNeuron("C", []Element{i0, i1, i2}, []*Weight{wC, w1C, w2C})
	d := NewNeuron("D", []Element{i0, a, b, c}, []*Weight{wD, wAD, wBD, wCD})
	e := NewNeuron("E", []Element{i0, a, b, c, d}, []*Weight{wE, wAE, wBE, wCE, wDE})

	p := NewPerformanceElem(e, 0.0)
	return NewNetwork("challenging", p, []*Neuron{a, b, c, d, e})
}

// tunedChallengingWeights are weight values known to make the
// challenging topology converge on the "patchy" dataset within 1000
// iterations.
var tunedChallengingWeights = map[string]float64{
	"wA":  3.810285,
	"w1A": 3.206646,
	"w2A": -3.838381,
	"wB":  -3.760194,
	"w1B": 3.848091,
	"w2B": -3.245683,
	"wC":  -2.293088,
	"w1C": -1.519480,
	"w2C": -1.653193,
	"wD":  1.808465,
	"wAD": -2.846714,
	"wBD": 3.299372,
	"wCD": 0.558235,
	"wE":  5.070003,
	"wAE": -7.328000,
	"wBE": 6.521601,
	"wCE": 3.880647,
	"wDE": 3.975002,
}

// NewTunedChallengingNet constructs the challenging topology with the
// tuned starting weights.
func NewTunedChallengingNet() *Network {
	net := NewChallengingNet(rand.New(rand.NewSource(0)))
	net.SetWeightValues(tunedChallengingWeights)
	return net
}

// NewTwoMoonsNet constructs a 2-input network with a 40-unit hidden
// layer feeding a single output neuron, sized for the two-moons
// dataset.
func NewTwoMoonsNet(rng *rand.Rand) *Network {
	i0 := NewInput("i0", -1.0)
	i1 := NewInput("i1", 0.0)
	i2 := NewInput("i2", 0.0)

	var hidden []*Neuron
	var outInputs []Element
	var outWeights []*Weight
	for i := 1; i <= 40; i++ {
		name := Spf("A1%d", i)
		w1 := NewWeight(Spf("w1%s", name), randomWeight(rng))
		w2 := NewWeight(Spf("w2%s", name), randomWeight(rng))
		wb := NewWeight(Spf("w%s", name), randomWeight(rng))
		n := NewNeuron(name, []Element{i1, i2, i0}, []*Weight{w1, w2, wb})
		hidden = append(hidden, n)
		outInputs = append(outInputs, n)
		outWeights = append(outWeights, NewWeight(Spf("w%sB", name), randomWeight(rng)))
	}
	outInputs = append(outInputs, i0)
	outWeights = append(outWeights, NewWeight("wB", randomWeight(rng)))
	b := NewNeuron("B", outInputs, outWeights)

	p := NewPerformanceElem(b, 0.0)
	return NewNetwork("twomoons", p, append(hidden, b))
}
