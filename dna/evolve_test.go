package dna

import (
	"math/rand"
	"testing"

	"github.com/stevegt/backprop"
	. "github.com/stevegt/goadapt"
)

func TestEvolveConverges(t *testing.T) {
	// seed with weights that misclassify (0,0): z is always 1
	seed := backprop.NewBasicNet()
	seed.SetWeightValues(map[string]float64{"w1A": 0, "w2A": 0, "wA": -1})
	data := []backprop.Datum{{1, 1, 1}, {0, 0, 0}}

	rng := rand.New(rand.NewSource(1))
	parms := EvolveParms{
		Generations:    300,
		PopulationSize: 30,
		MutationRate:   0.3,
		MaxError:       0.45,
	}
	best, meanError, err := Evolve(seed, data, parms, rng)
	Tassert(t, err == nil, "evolution did not converge: %v (error %f)", err, meanError)
	Tassert(t, meanError < parms.MaxError, meanError)
	accuracy := best.Test(data)
	Tassert(t, accuracy == 1.0, accuracy)
}

func TestEvolveKeepsBest(t *testing.T) {
	// the best individual must survive every generation
	seed := backprop.NewTwoLayerNet(rand.New(rand.NewSource(2)))
	data := []backprop.Datum{{1, 1, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	w := NewWorld(seed, data, 10, 0.5, rand.New(rand.NewSource(3)))
	best := w.Generation()
	prev := w.fitness(best)
	for i := 0; i < 5; i++ {
		best = w.Generation()
		cur := w.fitness(best)
		Tassert(t, cur <= prev, "best error regressed: %f > %f", cur, prev)
		prev = cur
	}
}

func TestCrossoverPreservesShape(t *testing.T) {
	seed := backprop.NewChallengingNet(rand.New(rand.NewSource(5)))
	rng := rand.New(rand.NewSource(6))
	w := NewWorld(seed, []backprop.Datum{{0, 0, 0}}, 2, 1.0, rng)
	child := w.crossover(w.pop[0].dna, w.pop[1].dna)
	Tassert(t, len(child.Statements) == len(w.pop[0].dna.Statements), child)
	// the child must still build into the seed's topology
	net := child.Build()
	Tassert(t, len(net.Neurons) == len(seed.Neurons), net.Neurons)
	Tassert(t, len(net.Weights) == len(seed.Weights), net.Weights)
}
