package backprop

import (
	"github.com/emicklei/dot"

	. "github.com/stevegt/goadapt"
)

// Draw renders the network topology as a Graphviz digraph.  Inputs are
// boxes (bias inputs included), neurons are ellipses, and each edge is
// labeled with its weight's name and current value.  The performance
// node appears as a double circle hanging off the output element.
func (net *Network) Draw() string {
	g := dot.NewGraph(dot.Directed)
	for _, neuron := range net.Neurons {
		to := g.Node(neuron.GetName())
		for i, src := range neuron.GetInputs() {
			from := g.Node(src.GetName())
			if _, ok := src.(*Input); ok {
				from.Attr("shape", "box")
			}
			w := neuron.GetWeights()[i]
			g.Edge(from, to).Attr("label", Spf("%s=%1.2f", w.GetName(), w.GetValue()))
		}
	}
	perf := g.Node("P").Attr("shape", "doublecircle")
	g.Edge(g.Node(net.Output.GetName()), perf)
	return g.String()
}
