package backprop

// Performance scores the network's designated output element against a
// desired value.  Its derivative drives gradient ascent: training pushes
// every weight in the direction that increases performance.
type Performance interface {
	// Output returns the current performance value.
	Output() float64
	// DOutDX returns the partial derivative of performance with
	// respect to the target weight.
	DOutDX(target *Weight) float64
	// SetDesired sets the target output value for the current datum.
	SetDesired(desired float64)
	// GetInput returns the wrapped output element.
	GetInput() Element
}

// PerformanceElem is the negative-half-squared-error performance node.
// It wraps exactly one output element and is never cached; it always
// recomputes from the wrapped element.
type PerformanceElem struct {
	input   Element
	desired float64
}

// NewPerformanceElem creates a performance node over the given output
// element with an initial desired value.
func NewPerformanceElem(input Element, desired float64) *PerformanceElem {
	return &PerformanceElem{input: input, desired: desired}
}

// Output returns -0.5 * (desired - output)^2.
func (p *PerformanceElem) Output() float64 {
	diff := p.desired - p.input.Output()
	return -0.5 * diff * diff
}

// DOutDX chains through the single wrapped element:
// (desired - output) * d(output)/d(target).
func (p *PerformanceElem) DOutDX(target *Weight) float64 {
	return (p.desired - p.input.Output()) * p.input.DOutDX(target)
}

// SetDesired sets the desired output value.
func (p *PerformanceElem) SetDesired(desired float64) {
	p.desired = desired
}

// GetInput returns the wrapped output element.
func (p *PerformanceElem) GetInput() Element {
	return p.input
}

// RegularizedPerformanceElem adds a ridge penalty to the squared-error
// performance: lambda * sum(w^2) is subtracted from the objective, which
// shrinks weights toward zero during gradient ascent.  The weight list
// is attached after network construction via SetWeights.
type RegularizedPerformanceElem struct {
	PerformanceElem
	lambda  float64
	weights []*Weight
}

// NewRegularizedPerformanceElem creates an L2-penalized performance node
// with the given regularization strength.
func NewRegularizedPerformanceElem(input Element, desired, lambda float64) *RegularizedPerformanceElem {
	return &RegularizedPerformanceElem{
		PerformanceElem: PerformanceElem{input: input, desired: desired},
		lambda:          lambda,
	}
}

// SetWeights attaches the network's weight list for the penalty term.
func (p *RegularizedPerformanceElem) SetWeights(weights []*Weight) {
	p.weights = weights
}

// Output returns the base performance minus lambda * sum(w^2).
func (p *RegularizedPerformanceElem) Output() float64 {
	penalty := 0.0
	for _, w := range p.weights {
		penalty += w.GetValue() * w.GetValue()
	}
	return p.PerformanceElem.Output() - p.lambda*penalty
}

// DOutDX subtracts the penalty gradient 2 * lambda * w from the base
// derivative.
func (p *RegularizedPerformanceElem) DOutDX(target *Weight) float64 {
	return p.PerformanceElem.DOutDX(target) - 2*p.lambda*target.GetValue()
}
