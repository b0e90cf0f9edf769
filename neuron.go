package backprop

import (
	"math"

	. "github.com/stevegt/goadapt"
)

// sigmoid is the logistic activation function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Neuron is a sigmoid unit.  It computes the weighted sum of its input
// elements' outputs and applies the logistic function.  Inputs and
// weights are positionally paired: weights[i] scales inputs[i].
//
// A neuron memoizes its output and its derivatives; the memos must be
// cleared (via ClearCache, normally through Network.ClearCache) whenever
// any upstream input or weight value changes.  The descendant-weight
// index is built once and never invalidated, since topology is fixed
// after construction.
type Neuron struct {
	name     string
	inputs   []Element
	weights  []*Weight
	useCache bool

	out      float64
	outValid bool
	doutdx   map[string]float64
	// direct weight name -> names of all weights in that edge's fan-in
	descendants map[string]map[string]bool
}

// NewNeuron creates a neuron from positionally-paired inputs and
// weights.  Mismatched lengths or nil elements are fatal; they signal a
// bug in the graph builder.
func NewNeuron(name string, inputs []Element, weights []*Weight) *Neuron {
	Assert(len(inputs) == len(weights),
		"neuron %s: %d inputs but %d weights", name, len(inputs), len(weights))
	for i := range inputs {
		Assert(inputs[i] != nil, "neuron %s: input %d is nil", name, i)
		Assert(weights[i] != nil, "neuron %s: weight %d is nil", name, i)
	}
	n := &Neuron{
		name:     name,
		inputs:   inputs,
		weights:  weights,
		useCache: true,
	}
	n.ClearCache()
	return n
}

// GetName returns the neuron's name.
func (n *Neuron) GetName() string {
	return n.name
}

// GetInputs returns the neuron's input elements in edge order.
func (n *Neuron) GetInputs() []Element {
	return n.inputs
}

// GetWeights returns the neuron's weights in edge order.
func (n *Neuron) GetWeights() []*Weight {
	return n.weights
}

// SetUseCache enables or disables output and derivative memoization.
func (n *Neuron) SetUseCache(use bool) {
	n.useCache = use
}

// ClearCache drops the memoized output and derivative values.  The
// descendant-weight index survives; it depends only on topology.
func (n *Neuron) ClearCache() {
	n.outValid = false
	n.doutdx = make(map[string]float64)
}

// Output returns the neuron's activation, memoized when caching is
// enabled.
func (n *Neuron) Output() float64 {
	if n.useCache {
		if !n.outValid {
			n.out = n.computeOutput()
			n.outValid = true
		}
		return n.out
	}
	return n.computeOutput()
}

func (n *Neuron) computeOutput() float64 {
	z := 0.0
	for i, in := range n.inputs {
		z += n.weights[i].GetValue() * in.Output()
	}
	return sigmoid(z)
}

// DescendantWeights returns a mapping from the name of each direct
// incoming weight to the set of weight names transitively feeding that
// edge's source element.  The set is empty when the source is an Input.
// For example, if neurons A and B feed C via wAC and wBC, then
// C.DescendantWeights() maps "wAC" to all weight names upstream of A and
// "wBC" to all weight names upstream of B.
func (n *Neuron) DescendantWeights() map[string]map[string]bool {
	if n.descendants == nil {
		n.descendants = make(map[string]map[string]bool)
		for i, w := range n.weights {
			set := make(map[string]bool)
			if src, ok := n.inputs[i].(*Neuron); ok {
				for name, sub := range src.DescendantWeights() {
					set[name] = true
					for subName := range sub {
						set[subName] = true
					}
				}
			}
			n.descendants[w.GetName()] = set
		}
	}
	return n.descendants
}

// HasWeight reports whether w is a direct incoming weight of this
// neuron.
func (n *Neuron) HasWeight(w *Weight) bool {
	_, ok := n.DescendantWeights()[w.GetName()]
	return ok
}

// IsDescendantWeightOf reports whether target is reachable through the
// edge carrying via.  Asking about a weight that is not a direct
// incoming edge of this neuron is fatal; it means the caller requested a
// derivative along a nonexistent edge.
func (n *Neuron) IsDescendantWeightOf(target, via *Weight) bool {
	set, ok := n.DescendantWeights()[via.GetName()]
	Assert(ok, "weight %s is not connected to neuron %s", via, n)
	return set[target.GetName()]
}

// DOutDX returns the partial derivative of the neuron's output with
// respect to target, memoized by weight name when caching is enabled.
func (n *Neuron) DOutDX(target *Weight) float64 {
	if n.useCache {
		dev, ok := n.doutdx[target.GetName()]
		if !ok {
			dev = n.computeDOutDX(target)
			n.doutdx[target.GetName()] = dev
		}
		return dev
	}
	return n.computeDOutDX(target)
}

// computeDOutDX applies the chain rule through the neuron.  With s the
// logistic derivative at the current activation:
//
//	direct edge i:    s * inputs[i].Output()
//	upstream edge i:  s * weights[i].value * inputs[i].DOutDX(target)
//
// Contributions are summed over every qualifying edge, so diamond
// dependencies are handled by the full multivariate chain rule.  A
// target with no influence path yields zero.
func (n *Neuron) computeDOutDX(target *Weight) float64 {
	s := n.Output() * (1 - n.Output())
	dev := 0.0
	if n.HasWeight(target) {
		for i, w := range n.weights {
			if w.GetName() == target.GetName() {
				dev += s * n.inputs[i].Output()
			}
		}
		return dev
	}
	for i, w := range n.weights {
		if n.IsDescendantWeightOf(target, w) {
			dev += s * w.GetValue() * n.inputs[i].DOutDX(target)
		}
	}
	return dev
}

// String returns a short representation of the neuron.
func (n *Neuron) String() string {
	return Spf("Neuron(%s)", n.name)
}
