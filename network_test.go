package backprop

import (
	"math/rand"
	"strings"
	"testing"

	. "github.com/stevegt/goadapt"
)

func weightNames(net *Network) (names []string) {
	for _, w := range net.Weights {
		names = append(names, w.GetName())
	}
	return
}

func TestNetworkCanonicalOrder(t *testing.T) {
	net, _ := twoLayerFixture()

	// neurons alphabetical, weights flattened per neuron in edge order
	Tassert(t, net.Neurons[0].GetName() == "A", net.Neurons[0])
	Tassert(t, net.Neurons[1].GetName() == "B", net.Neurons[1])
	Tassert(t, net.Neurons[2].GetName() == "C", net.Neurons[2])
	want := []string{"w1A", "w2A", "wA", "w1B", "w2B", "wB", "wAC", "wBC", "wC"}
	got := weightNames(net)
	Tassert(t, len(got) == len(want), got)
	for i := range want {
		Tassert(t, got[i] == want[i], "weight %d: got %s want %s", i, got[i], want[i])
	}

	// bias inputs are excluded, features deduplicated in first-seen
	// order
	Tassert(t, len(net.Inputs) == 2, net.Inputs)
	Tassert(t, net.Inputs[0].GetName() == "i1", net.Inputs[0])
	Tassert(t, net.Inputs[1].GetName() == "i2", net.Inputs[1])
}

func TestNetworkOrderStable(t *testing.T) {
	// same construction twice must yield the same weight order
	a := NewChallengingNet(rand.New(rand.NewSource(7)))
	b := NewChallengingNet(rand.New(rand.NewSource(7)))
	an, bn := weightNames(a), weightNames(b)
	Tassert(t, len(an) == len(bn), an, bn)
	for i := range an {
		Tassert(t, an[i] == bn[i], "weight %d: %s vs %s", i, an[i], bn[i])
	}
}

func TestSetWeightList(t *testing.T) {
	net := NewBasicNet()
	net.SetWeightList([]float64{0.1, 0.2, 0.3})
	Tassert(t, net.Weights[0].GetValue() == 0.1, net.Weights[0])
	Tassert(t, net.Weights[1].GetValue() == 0.2, net.Weights[1])
	Tassert(t, net.Weights[2].GetValue() == 0.3, net.Weights[2])
}

func TestSaveLoadWeights(t *testing.T) {
	src := NewChallengingNet(rand.New(rand.NewSource(3)))
	src.SetWeightValues(tunedChallengingWeights)
	txt := src.SaveWeights()

	dst := NewChallengingNet(rand.New(rand.NewSource(9)))
	err := dst.LoadWeights(txt)
	Tassert(t, err == nil, err)
	for name, want := range src.WeightValues() {
		got := dst.WeightValues()[name]
		Tassert(t, got == want, "weight %s: got %v want %v", name, got, want)
	}
}

func TestLoadWeightsBadJSON(t *testing.T) {
	net := NewBasicNet()
	err := net.LoadWeights("{not json")
	Tassert(t, err != nil, "expected error")
}

func TestDraw(t *testing.T) {
	net := basicFixture()
	out := net.Draw()
	Tassert(t, strings.Contains(out, "digraph"), out)
	for _, frag := range []string{"i1", "i2", "i0", "A", "w1A=1.00", "wA=1.00"} {
		Tassert(t, strings.Contains(out, frag), "missing %s in:\n%s", frag, out)
	}
}
