// Package shape parses s-expression topology descriptions into wired
// networks.  A description names the network, lists its feature inputs,
// and then defines each neuron by the sources feeding it:
//
//	(andnet i1 i2 (A i1 i2 i0) (B A i0))
//
// Neurons must be defined after every source they reference.  The bias
// input i0 is created implicitly with value -1 on first reference.
// Weight names follow the engine's naming convention (w1A for i1 into
// A, wAB for A into B, wA for A's bias weight).  The last neuron
// defined is the network output.
package shape

import (
	"math/rand"
	"strings"

	"github.com/stevegt/backprop"
	. "github.com/stevegt/goadapt"
	"github.com/xiam/sexpr/ast"
	"github.com/xiam/sexpr/parser"
)

// SyntaxError is a syntax error with the offending token's position.
type SyntaxError struct {
	msg  string
	node *ast.Node
}

func (e *SyntaxError) Error() string {
	return Spf("[shape:%s] %s:\n%s", e.node.Token().Pos, e.msg, e.node.String())
}

// synck raises a syntax error if cond is false.
func synck(node *ast.Node, cond bool, args ...interface{}) {
	if !cond {
		msg := FormatArgs(args...)
		panic(&SyntaxError{msg, node})
	}
}

// WeightName derives the conventional weight name for an edge: the
// leading 'i' of a feature input is stripped, a bias edge takes the
// destination name alone, and neuron sources keep their full name.
func WeightName(from, to string) string {
	if from == backprop.BiasName {
		return "w" + to
	}
	if strings.HasPrefix(from, "i") {
		return "w" + strings.TrimPrefix(from, "i") + to
	}
	return "w" + from + to
}

// Parse parses a topology description and returns the wired network.
// Initial weights are drawn from rng.
func Parse(txt string, rng *rand.Rand) (net *backprop.Network, err error) {
	Assert(rng != nil, "nil rng")
	defer func() {
		if r := recover(); r != nil {
			serr, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			net = nil
			err = serr
		}
	}()

	root, err := parser.Parse([]byte(txt))
	if err != nil {
		return nil, err
	}

	// root is a list holding a single network expression
	synck(root, root.Type() == ast.NodeTypeList, "root is not a list")
	children := root.List()
	synck(root, len(children) == 1, "root has %d children", len(children))
	expr := children[0]
	synck(expr, expr.Type() == ast.NodeTypeExpression, "root's child is not an expression")

	parsed, err := parseExpr(expr)
	if err != nil {
		return nil, err
	}
	return build(expr, parsed, rng)
}

// build wires the parsed expression into a network.
func build(astNode *ast.Node, expr *Expr, rng *rand.Rand) (net *backprop.Network, err error) {
	name := expr.Op
	elements := make(map[string]backprop.Element)
	var neurons []*backprop.Neuron
	var last *backprop.Neuron

	inputNum := 1
	for _, arg := range expr.Args {
		if len(arg.Args) == 0 {
			// feature input declaration
			synck(astNode, arg.Op == Spf("i%d", inputNum),
				"expected input i%d, got %s", inputNum, arg.Op)
			elements[arg.Op] = backprop.NewInput(arg.Op, 0.0)
			inputNum++
			continue
		}

		// neuron definition
		neuronName := arg.Op
		_, dup := elements[neuronName]
		synck(astNode, !dup, "duplicate element %s", neuronName)
		var inputs []backprop.Element
		var weights []*backprop.Weight
		for _, srcExpr := range arg.Args {
			synck(astNode, len(srcExpr.Args) == 0,
				"neuron %s: source %s is not a name", neuronName, srcExpr.Op)
			srcName := srcExpr.Op
			src, ok := elements[srcName]
			if !ok && srcName == backprop.BiasName {
				src = backprop.NewInput(backprop.BiasName, -1.0)
				elements[backprop.BiasName] = src
				ok = true
			}
			synck(astNode, ok, "neuron %s: unknown source %s", neuronName, srcName)
			inputs = append(inputs, src)
			w := backprop.NewWeight(WeightName(srcName, neuronName), randomWeight(rng))
			weights = append(weights, w)
		}
		synck(astNode, len(inputs) > 0, "neuron %s has no sources", neuronName)
		n := backprop.NewNeuron(neuronName, inputs, weights)
		elements[neuronName] = n
		neurons = append(neurons, n)
		last = n
	}
	synck(astNode, last != nil, "network %s has no neurons", name)

	perf := backprop.NewPerformanceElem(last, 0.0)
	return backprop.NewNetwork(name, perf, neurons), nil
}

// randomWeight draws an initial weight from {-1, 0, 1}.
func randomWeight(rng *rand.Rand) float64 {
	return float64(rng.Intn(3) - 1)
}

// Expr is a parsed expression: an operator symbol and its arguments.
type Expr struct {
	Op   string
	Args []Expr
}

func parseExpr(n *ast.Node) (expr *Expr, err error) {
	defer Return(&err)
	children := n.List()
	synck(n, len(children) > 0, "missing opcode")
	synck(n, children[0].Type() == ast.NodeTypeSymbol, "first word is not a symbol")
	expr = &Expr{}
	expr.Op = children[0].Encode()
	for i := 1; i < len(children); i++ {
		switch children[i].Type() {
		case ast.NodeTypeSymbol, ast.NodeTypeInt, ast.NodeTypeFloat, ast.NodeTypeString:
			expr.Args = append(expr.Args, Expr{children[i].Encode(), nil})
		case ast.NodeTypeExpression:
			arg, err := parseExpr(children[i])
			Ck(err)
			expr.Args = append(expr.Args, *arg)
		default:
			synck(children[i], false, "unknown node type %v", children[i].Type())
		}
	}
	return
}
