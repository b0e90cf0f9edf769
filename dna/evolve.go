package dna

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/stevegt/backprop"
	. "github.com/stevegt/goadapt"
)

// EvolveParms contains the parameters for evolving a network.
type EvolveParms struct {
	Generations    int
	PopulationSize int
	// MutationRate is the per-weight probability of replacement with a
	// random value during mutation.
	MutationRate float64
	// MaxError stops evolution once the best individual's mean error
	// over the dataset falls below it.
	MaxError float64
	Verbose  bool
}

// Evolve searches for weight values by genetic algorithm instead of
// gradient ascent.  The network's topology is fixed; individuals are
// genomes of the seed network differing only in weight values, so every
// genome in the population builds.  Evolution stops when the best
// individual's mean error (root mean squared error over the dataset)
// drops below MaxError, or when the generation cap is reached.
func Evolve(seed *backprop.Network, data []backprop.Datum, parms EvolveParms, rng *rand.Rand) (best *backprop.Network, meanError float64, err error) {
	w := NewWorld(seed, data, parms.PopulationSize, parms.MutationRate, rng)
	for i := 0; i < parms.Generations; i++ {
		top := w.Generation()
		meanError = w.fitness(top)
		if parms.Verbose {
			Pf("generation %d: best error %1.6f, worst error %1.6f\n",
				i, meanError, w.fitness(w.pop[len(w.pop)-1]))
		}
		if meanError < parms.MaxError {
			return top.dna.Build(), meanError, nil
		}
	}
	best = w.pop[0].dna.Build()
	meanError = w.fitness(w.pop[0])
	return best, meanError, fmt.Errorf("max generations reached")
}

// individual pairs a genome with its cached fitness.
type individual struct {
	dna *DNA
	// mean error over the dataset; zero means not yet scored
	fitness float64
}

// World holds the population along with environmental parameters.
type World struct {
	data         []backprop.Datum
	pop          []*individual
	popSize      int
	mutationRate float64
	rng          *rand.Rand
}

// NewWorld seeds a population from the given network: one exact copy
// plus progressively mutated copies.
func NewWorld(seed *backprop.Network, data []backprop.Datum, popSize int, mutationRate float64, rng *rand.Rand) (w *World) {
	Assert(popSize >= 2, "population size %d too small", popSize)
	w = &World{
		data:         data,
		popSize:      popSize,
		mutationRate: mutationRate,
		rng:          rng,
	}
	genome := FromNetwork(seed)
	w.pop = append(w.pop, &individual{dna: genome})
	for i := 1; i < popSize; i++ {
		mutated := w.mutate(w.pop[i-1].dna)
		w.pop = append(w.pop, &individual{dna: mutated})
	}
	return
}

// Generation runs one cull/breed cycle and returns the best individual.
func (w *World) Generation() (best *individual) {
	w.sort()
	w.cull()
	w.breed()
	w.sort()
	return w.pop[0]
}

// fitness returns the individual's mean error over the dataset,
// computed once and cached.
func (w *World) fitness(ind *individual) float64 {
	if ind.fitness == 0.0 {
		net := ind.dna.Build()
		squaredError := 0.0
		for _, datum := range w.data {
			Assert(len(datum) == len(net.Inputs)+1,
				"datum has %d values; want %d features + label",
				len(datum), len(net.Inputs))
			for i, in := range net.Inputs {
				in.SetValue(datum[i])
			}
			net.ClearCache()
			diff := datum[len(datum)-1] - net.Output.Output()
			squaredError += diff * diff
		}
		meanError := math.Sqrt(squaredError / float64(len(w.data)))
		// keep zero reserved for the not-yet-scored state
		ind.fitness = meanError + math.SmallestNonzeroFloat64
	}
	return ind.fitness
}

// sort orders the population by fitness, lower is better.
func (w *World) sort() {
	sort.Slice(w.pop, func(i, j int) bool {
		return w.fitness(w.pop[i]) < w.fitness(w.pop[j])
	})
}

// cull removes the worst half of the population.  The population must
// be sorted first.
func (w *World) cull() {
	w.pop = w.pop[:(len(w.pop)+1)/2]
}

// breed refills the population: one parent from the top of the
// survivors, one from anywhere, crossover, then mutation.
func (w *World) breed() {
	for len(w.pop) < w.popSize {
		top := (len(w.pop) + 9) / 10
		parent1 := w.pop[w.rng.Intn(top)]
		parent2 := w.pop[w.rng.Intn(len(w.pop))]
		child := w.crossover(parent1.dna, parent2.dna)
		child = w.mutate(child)
		w.pop = append(w.pop, &individual{dna: child})
	}
}

// crossover combines two genomes at a statement boundary.  Parents
// share the seed's topology, so their statement lists are the same
// length and the child is always a valid genome.
func (w *World) crossover(parent1, parent2 *DNA) (child *DNA) {
	Assert(len(parent1.Statements) == len(parent2.Statements),
		"genome length mismatch: %d vs %d",
		len(parent1.Statements), len(parent2.Statements))
	child = parent1.cp()
	cross := w.rng.Intn(len(child.Statements))
	for i := cross; i < len(child.Statements); i++ {
		child.Statements[i].Arg = parent2.Statements[i].Arg
		Assert(child.Statements[i].Opcode == parent2.Statements[i].Opcode,
			"genome shape mismatch at statement %d", i)
	}
	return
}

// mutate returns a copy of the genome with each weight value replaced,
// with probability mutationRate, by a random value in [-1, 1).  Only
// SetWeight arguments mutate; topology statements are left alone so the
// genome stays buildable.
func (w *World) mutate(genome *DNA) (mutated *DNA) {
	mutated = genome.cp()
	for _, statement := range mutated.Statements {
		if statement.Opcode != OpSetWeight {
			continue
		}
		if w.rng.Float64() < w.mutationRate {
			statement.Arg = w.rng.Float64()*2 - 1
		}
	}
	return
}

// cp returns a deep copy of the DNA.
func (dna *DNA) cp() (out *DNA) {
	out = &DNA{
		Name:        dna.Name,
		InputNames:  append([]string{}, dna.InputNames...),
		NeuronNames: append([]string{}, dna.NeuronNames...),
		OutputName:  dna.OutputName,
	}
	for _, statement := range dna.Statements {
		out.AddOp(statement.Opcode, statement.Arg)
	}
	return
}
