package backprop

import (
	"encoding/json"
	"sort"
	"strings"

	. "github.com/stevegt/goadapt"
)

// BiasName is the reserved name for bias inputs.  Inputs whose name
// contains it are excluded from the network's input list; they are fixed
// thresholds, not features.
const BiasName = "i0"

// Network aggregates the elements reachable from a performance node.  It
// owns no values itself; it holds references in a canonical order so
// that training and weight initialization are reproducible:
//
//   - Neurons are sorted alphabetically by name.
//   - Weights are flattened per sorted neuron, in each neuron's own edge
//     order.
//   - Inputs are collected in first-seen order over the sorted neurons,
//     deduplicated, excluding bias inputs.
type Network struct {
	Name        string
	Inputs      []*Input
	Weights     []*Weight
	Neurons     []*Neuron
	Performance Performance
	Output      Element
}

// NewNetwork builds a network from a performance node and the neurons
// reachable from it.
func NewNetwork(name string, perf Performance, neurons []*Neuron) *Network {
	net := &Network{
		Name:        name,
		Performance: perf,
		Output:      perf.GetInput(),
		Neurons:     append([]*Neuron{}, neurons...),
	}
	sort.Slice(net.Neurons, func(i, j int) bool {
		return net.Neurons[i].GetName() < net.Neurons[j].GetName()
	})
	seen := make(map[string]bool)
	for _, neuron := range net.Neurons {
		net.Weights = append(net.Weights, neuron.GetWeights()...)
		for _, elem := range neuron.GetInputs() {
			in, ok := elem.(*Input)
			if !ok {
				continue
			}
			if strings.Contains(in.GetName(), BiasName) {
				continue
			}
			if seen[in.GetName()] {
				continue
			}
			seen[in.GetName()] = true
			net.Inputs = append(net.Inputs, in)
		}
	}
	return net
}

// ClearCache clears every neuron's memoized output and derivatives.
// Call it between any two states where an input or weight value
// changes; stale caches return silently wrong results otherwise.
func (net *Network) ClearCache() {
	for _, neuron := range net.Neurons {
		neuron.ClearCache()
	}
}

// WeightValues returns the current weight values keyed by name.
func (net *Network) WeightValues() map[string]float64 {
	vals := make(map[string]float64, len(net.Weights))
	for _, w := range net.Weights {
		vals[w.GetName()] = w.GetValue()
	}
	return vals
}

// SetWeightValues sets weight values by name.  Every network weight must
// be present in the map.
func (net *Network) SetWeightValues(vals map[string]float64) {
	for _, w := range net.Weights {
		v, ok := vals[w.GetName()]
		Assert(ok, "no value for weight %s", w.GetName())
		w.SetValue(v)
	}
	net.ClearCache()
}

// SetWeightList sets weight values positionally, in the network's
// canonical weight order.
func (net *Network) SetWeightList(vals []float64) {
	Assert(len(vals) == len(net.Weights),
		"got %d values for %d weights", len(vals), len(net.Weights))
	for i, w := range net.Weights {
		w.SetValue(vals[i])
	}
	net.ClearCache()
}

// SaveWeights serializes the weight values to a JSON string keyed by
// weight name.
func (net *Network) SaveWeights() string {
	buf, err := json.MarshalIndent(net.WeightValues(), "", "  ")
	Ck(err)
	return string(buf)
}

// LoadWeights restores weight values from a JSON string produced by
// SaveWeights.
func (net *Network) LoadWeights(txt string) (err error) {
	defer Return(&err)
	vals := make(map[string]float64)
	err = json.Unmarshal([]byte(txt), &vals)
	Ck(err)
	net.SetWeightValues(vals)
	return
}
