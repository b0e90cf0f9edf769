package shape

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stevegt/backprop"
	. "github.com/stevegt/goadapt"
)

func TestParse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net, err := Parse("(andnet i1 i2 (A i1 i2 i0) (B A i0))", rng)
	Tassert(t, err == nil, err)
	Tassert(t, net.Name == "andnet", net.Name)
	Tassert(t, len(net.Inputs) == 2, net.Inputs)
	Tassert(t, net.Inputs[0].GetName() == "i1", net.Inputs[0])
	Tassert(t, net.Inputs[1].GetName() == "i2", net.Inputs[1])
	Tassert(t, len(net.Neurons) == 2, net.Neurons)
	Tassert(t, net.Output.GetName() == "B", net.Output.GetName())

	// weight names follow the naming convention, flattened in
	// canonical order
	want := []string{"w1A", "w2A", "wA", "wAB", "wB"}
	Tassert(t, len(net.Weights) == len(want), net.Weights)
	for i, w := range net.Weights {
		Tassert(t, w.GetName() == want[i], "weight %d: got %s want %s", i, w.GetName(), want[i])
	}
}

func TestParseDiamond(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	txt := "(dianet i1 i2 (A i1 i2 i0) (B i1 i2 i0) (C A B i0) (D A C i0))"
	net, err := Parse(txt, rng)
	Tassert(t, err == nil, err)
	Tassert(t, len(net.Neurons) == 4, net.Neurons)
	Tassert(t, net.Output.GetName() == "D", net.Output.GetName())
	net.Inputs[0].SetValue(1)
	net.Inputs[1].SetValue(0)
	net.Performance.SetDesired(1)
	net.ClearCache()
	err = net.CheckGradients(1e-8, 1e-4)
	Tassert(t, err == nil, err)
}

func TestParsedNetTrains(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net, err := Parse("(ornet i1 i2 (A i1 i2 i0))", rng)
	Tassert(t, err == nil, err)

	data := []backprop.Datum{
		{0, 0, 0},
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 1},
	}
	opts := backprop.DefaultTrainOptions()
	opts.MaxIterations = 2000
	net.Train(data, opts)
	acc := net.Test(data)
	Tassert(t, acc == 1.0, acc)
}

func TestParseErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, txt := range []string{
		"(broken i1 i2 (A i1 i9 i0))",  // unknown source
		"(broken i2 (A i2 i0))",        // inputs must start at i1
		"(broken i1)",                  // no neurons
		"(broken i1 (A i1) (A i1 i0))", // duplicate neuron
		"(broken i1 (A (B i1) i0))",    // nested source expression
	} {
		_, err := Parse(txt, rng)
		Tassert(t, err != nil, "expected error for %s", txt)
	}
}

func TestWeightName(t *testing.T) {
	Tassert(t, WeightName("i1", "A") == "w1A", WeightName("i1", "A"))
	Tassert(t, WeightName("i0", "A") == "wA", WeightName("i0", "A"))
	Tassert(t, WeightName("A", "B") == "wAB", WeightName("A", "B"))
	Tassert(t, WeightName("A11", "B") == "wA11B", WeightName("A11", "B"))
}

func TestParsedWeightsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net, _ := Parse("(net i1 i2 (A i1 i2 i0) (B i1 i2 i0) (C A B i0))", rng)
	for _, w := range net.Weights {
		v := w.GetValue()
		Tassert(t, v == math.Trunc(v) && v >= -1 && v <= 1, "weight %s: %v", w.GetName(), v)
	}
}
