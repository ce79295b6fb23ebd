package thermal

// PowerOutput returns the combined collector output in watts
// (collectors × per-collector kW × 1000).
func (p Params) PowerOutput() float64 {
	return float64(p.Collectors) * p.CollectorPower * 1000
}

// StepRise returns the temperature increase in °C produced by dt seconds
// of heating. Constant across a run: the model has no feedback from the
// current temperature.
func (p Params) StepRise(dt float64) float64 {
	energy := p.PowerOutput() * dt
	return energy / (p.Mass * p.SpecificHeat)
}

// Tank models a fixed-mass water store heated by an array of identical
// constant-power collectors. No heat loss, no stratification: every joule
// delivered raises the bulk temperature uniformly. Construction validates
// the parameters; use the raw Params methods for unchecked arithmetic.
type Tank struct {
	params Params
}

func NewTank(params Params) (*Tank, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Tank{params: params}, nil
}

func (t *Tank) Params() Params { return t.params }

func (t *Tank) PowerOutput() float64 { return t.params.PowerOutput() }

func (t *Tank) StepRise(dt float64) float64 { return t.params.StepRise(dt) }
