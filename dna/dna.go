// Package dna encodes a network as a compact binary genome and rebuilds
// it.  A genome is a text head followed by binary statements:
//
//	name,inputNames,neuronNames,outputName|statements
//
// where the name lists are space-separated and statements are 9 bytes
// each: a 1-byte opcode and a big-endian float64 argument.  Inputs are
// declared first (argument = initial value), then neurons in an order
// where every source precedes its consumers; each neuron's edges follow
// it as AddEdge (argument = source element index) / SetWeight (argument
// = weight value) pairs.  Weight names are regenerated from the engine's
// naming convention, so a rebuilt network matches the original for any
// conventionally-named topology.
package dna

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/stevegt/backprop"
	"github.com/stevegt/backprop/shape"
	. "github.com/stevegt/goadapt"
)

type Opcode uint

const (
	// declare the next input from the head, with its value
	OpAddInput Opcode = iota
	// declare the next neuron from the head
	OpAddNeuron
	// add an edge to the most recent neuron from the element at index
	OpAddEdge
	// set the weight value of the most recent edge
	OpSetWeight
	// stop processing
	OpHalt
	// keep this last
	OpLast
)

// Statement is one genome instruction.
type Statement struct {
	Opcode Opcode
	Arg    float64
}

// String returns a string representation of the statement.
func (statement *Statement) String() string {
	return Spf("%v %f", statement.Opcode, statement.Arg)
}

// DNA is the decoded genome of a network.
type DNA struct {
	Name        string
	InputNames  []string
	NeuronNames []string
	OutputName  string
	Statements  []*Statement
}

// String returns a string representation of the DNA.
func (dna *DNA) String() string {
	var buf bytes.Buffer
	buf.WriteString(Spf("DNA %s\n", dna.Name))
	buf.WriteString(Spf("Inputs: %s\n", strings.Join(dna.InputNames, " ")))
	buf.WriteString(Spf("Neurons: %s\n", strings.Join(dna.NeuronNames, " ")))
	buf.WriteString(Spf("Output: %s\n", dna.OutputName))
	for _, statement := range dna.Statements {
		buf.WriteString(Spf("%s\n", statement))
	}
	return buf.String()
}

// AddOp appends a statement to the DNA given an opcode and argument.
func (dna *DNA) AddOp(opcode Opcode, arg float64) {
	dna.Statements = append(dna.Statements, &Statement{Opcode: opcode, Arg: arg})
}

// FromNetwork encodes a network as a genome.  Neurons are emitted in
// dependency order so that Build never sees a forward reference.
func FromNetwork(net *backprop.Network) (dna *DNA) {
	dna = &DNA{Name: net.Name, OutputName: net.Output.GetName()}

	// order neurons so sources precede consumers
	var order []*backprop.Neuron
	visited := make(map[string]bool)
	var visit func(n *backprop.Neuron)
	visit = func(n *backprop.Neuron) {
		if visited[n.GetName()] {
			return
		}
		visited[n.GetName()] = true
		for _, src := range n.GetInputs() {
			if sn, ok := src.(*backprop.Neuron); ok {
				visit(sn)
			}
		}
		order = append(order, n)
	}
	for _, n := range net.Neurons {
		visit(n)
	}

	// collect every input, bias inputs included, in first-seen order
	index := make(map[string]int)
	var inputs []*backprop.Input
	for _, n := range order {
		for _, src := range n.GetInputs() {
			in, ok := src.(*backprop.Input)
			if !ok {
				continue
			}
			if _, seen := index[in.GetName()]; seen {
				continue
			}
			index[in.GetName()] = len(inputs)
			inputs = append(inputs, in)
		}
	}

	for _, in := range inputs {
		dna.InputNames = append(dna.InputNames, in.GetName())
		dna.AddOp(OpAddInput, in.GetValue())
	}
	for _, n := range order {
		index[n.GetName()] = len(index)
		dna.NeuronNames = append(dna.NeuronNames, n.GetName())
		dna.AddOp(OpAddNeuron, 0)
		for i, src := range n.GetInputs() {
			srcIdx, ok := index[src.GetName()]
			Assert(ok, "neuron %s: source %s not yet declared", n.GetName(), src.GetName())
			dna.AddOp(OpAddEdge, float64(srcIdx))
			dna.AddOp(OpSetWeight, n.GetWeights()[i].GetValue())
		}
	}
	dna.AddOp(OpHalt, 0)
	return
}

// Build rebuilds the network from the genome.  Malformed genomes are
// fatal.
func (dna *DNA) Build() (net *backprop.Network) {
	var elements []backprop.Element
	var neurons []*backprop.Neuron

	nextInput := 0
	nextNeuron := 0
	var pendingName string
	var pendingInputs []backprop.Element
	var pendingWeights []*backprop.Weight

	flush := func() {
		if pendingName == "" {
			return
		}
		n := backprop.NewNeuron(pendingName, pendingInputs, pendingWeights)
		neurons = append(neurons, n)
		elements = append(elements, n)
		pendingName = ""
		pendingInputs = nil
		pendingWeights = nil
	}

	for _, statement := range dna.Statements {
		switch statement.Opcode {
		case OpAddInput:
			Assert(nextInput < len(dna.InputNames), "more AddInput statements than input names")
			elements = append(elements, backprop.NewInput(dna.InputNames[nextInput], statement.Arg))
			nextInput++
		case OpAddNeuron:
			flush()
			Assert(nextNeuron < len(dna.NeuronNames), "more AddNeuron statements than neuron names")
			pendingName = dna.NeuronNames[nextNeuron]
			nextNeuron++
		case OpAddEdge:
			Assert(pendingName != "", "AddEdge before any AddNeuron")
			idx := int(statement.Arg)
			Assert(idx >= 0 && idx < len(elements), "edge source index %d out of range", idx)
			pendingInputs = append(pendingInputs, elements[idx])
			name := shape.WeightName(elements[idx].GetName(), pendingName)
			pendingWeights = append(pendingWeights, backprop.NewWeight(name, 0))
		case OpSetWeight:
			Assert(len(pendingWeights) > 0, "SetWeight before any AddEdge")
			pendingWeights[len(pendingWeights)-1].SetValue(statement.Arg)
		case OpHalt:
			flush()
		default:
			Assert(false, "unknown opcode %v", statement.Opcode)
		}
	}
	flush()

	var output *backprop.Neuron
	for _, n := range neurons {
		if n.GetName() == dna.OutputName {
			output = n
		}
	}
	Assert(output != nil, "output neuron %s not found", dna.OutputName)
	perf := backprop.NewPerformanceElem(output, 0.0)
	return backprop.NewNetwork(dna.Name, perf, neurons)
}

// AsBytes returns the DNA as a byte slice.
func (dna *DNA) AsBytes() (out []byte) {
	var buf bytes.Buffer
	head := Spf("%s,%s,%s,%s|", dna.Name,
		strings.Join(dna.InputNames, " "),
		strings.Join(dna.NeuronNames, " "),
		dna.OutputName)
	_, err := buf.WriteString(head)
	Ck(err)
	for _, statement := range dna.Statements {
		err := buf.WriteByte(byte(statement.Opcode))
		Ck(err)
		argbytes := Float64ToBytes(statement.Arg)
		n, err := buf.Write(argbytes)
		Ck(err)
		Assert(n == len(argbytes), "short write")
	}
	out = buf.Bytes()
	return
}

// FromBytes creates a new DNA object from a byte slice.
func FromBytes(buf []byte) (dna *DNA) {
	dna = &DNA{}
	parts := strings.SplitN(string(buf), "|", 2)
	Assert(len(parts) == 2, "invalid dna %x", buf)
	head := parts[0]
	body := []byte(parts[1])
	parts = strings.Split(head, ",")
	Assert(len(parts) == 4, "invalid dna head %s", head)
	dna.Name = parts[0]
	dna.InputNames = strings.Fields(parts[1])
	dna.NeuronNames = strings.Fields(parts[2])
	dna.OutputName = parts[3]
	for i := 0; i+9 <= len(body); i += 9 {
		opcode := Opcode(body[i])
		arg := Float64FromBytes(body[i+1 : i+9])
		dna.AddOp(opcode, arg)
	}
	return
}

func Float64FromBytes(buf []byte) float64 {
	bits := binary.BigEndian.Uint64(buf)
	return math.Float64frombits(bits)
}

func Float64ToBytes(f float64) []byte {
	bits := math.Float64bits(f)
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)
	return buf
}
