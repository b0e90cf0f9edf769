package backprop

import (
	"math"

	. "github.com/stevegt/goadapt"
	"gonum.org/v1/gonum/floats"
)

// Datum is one training or test example: feature values in network input
// order, followed by the binary class label (0 or 1).
type Datum []float64

// TrainOptions configures a training run.
type TrainOptions struct {
	// Rate is the learning rate applied to each staged update.
	Rate float64
	// TargetAbsMeanPerformance terminates training once the mean of
	// absolute performance values over a full dataset pass falls below
	// it.
	TargetAbsMeanPerformance float64
	// MaxIterations caps the number of dataset passes.
	MaxIterations int
	// Verbose enables progress reporting.
	Verbose bool
}

// DefaultTrainOptions returns the conventional training parameters.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Rate:                     1.0,
		TargetAbsMeanPerformance: 0.0001,
		MaxIterations:            10000,
	}
}

// absMean returns the mean of absolute values.
func absMean(vals []float64) float64 {
	return floats.Norm(vals, 1) / float64(len(vals))
}

// Train runs backpropagation over the dataset until the mean absolute
// performance reaches the target or the iteration cap is exhausted.
// Neither outcome is an error; the trained weights are the result.
//
// Weight updates within one datum are synchronous: every update is
// staged from the pre-update state before any weight commits, so the
// staging pass never observes a partially updated network.
func (net *Network) Train(data []Datum, opts TrainOptions) (iterations int, performance float64) {
	Assert(len(data) > 0, "empty dataset")
	correct := 0
	for iterations = 0; iterations < opts.MaxIterations; iterations++ {
		performances := make([]float64, 0, len(data))
		correct = 0
		for _, datum := range data {
			Assert(len(datum) == len(net.Inputs)+1,
				"datum has %d values; want %d features + label",
				len(datum), len(net.Inputs))
			for i, in := range net.Inputs {
				in.SetValue(datum[i])
			}
			label := datum[len(datum)-1]
			net.Performance.SetDesired(label)
			net.ClearCache()

			// forward pass
			result := net.Output.Output()
			if math.Round(result) == label {
				correct++
			}

			// stage every update from the pre-update state, then
			// commit all at once
			for _, w := range net.Weights {
				w.SetNextValue(w.GetValue() + opts.Rate*net.Performance.DOutDX(w))
			}
			for _, w := range net.Weights {
				w.Update()
			}

			// caches still hold the pre-update outputs, so this
			// records the performance the update was computed from
			performances = append(performances, net.Performance.Output())
			net.ClearCache()
		}

		performance = absMean(performances)
		if performance < opts.TargetAbsMeanPerformance {
			if opts.Verbose {
				Pf("iter %d: training complete.\n"+
					"mean-abs-performance threshold %v reached (%1.6f)\n",
					iterations, opts.TargetAbsMeanPerformance, performance)
			}
			break
		}

		if opts.Verbose && iterations%10 == 0 {
			Pf("iter %d: mean-abs-performance = %1.6f\n", iterations, performance)
		}
	}
	if opts.Verbose {
		Pf("weights: %v\n", net.Weights)
		Pf("train accuracy: %1.4f\n", float64(correct)/float64(len(data)))
	}
	return
}

// Test evaluates classification accuracy over the dataset.  It reads
// outputs only; no weight is mutated.
func (net *Network) Test(data []Datum) (accuracy float64) {
	Assert(len(data) > 0, "empty dataset")
	correct := 0
	for _, datum := range data {
		Assert(len(datum) == len(net.Inputs)+1,
			"datum has %d values; want %d features + label",
			len(datum), len(net.Inputs))
		for i, in := range net.Inputs {
			in.SetValue(datum[i])
		}
		net.ClearCache()
		result := net.Output.Output()
		net.ClearCache()
		if math.Round(result) == datum[len(datum)-1] {
			correct++
		}
	}
	return float64(correct) / float64(len(data))
}
