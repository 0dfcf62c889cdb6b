package models

import (
	"fmt"
	"math"
)

const (
	DefaultDarkChannelWindow = 15
	DefaultGuidedWindow      = 81
	DefaultGuidedEpsilon     = 0.001
	DefaultOmega             = 0.95
	DefaultTransmissionFloor = 0.3
	DefaultTopFraction       = 1.0 / 1000.0
)

// DehazeParameters holds the tunables of the dark channel prior pipeline.
type DehazeParameters struct {
	DarkChannelWindow Window
	GuidedWindow      Window
	GuidedEpsilon     float64
	// Omega is the haze retention factor; values below 1 keep a trace of haze.
	Omega             float64
	TransmissionFloor float64
	// TopFraction is the share of brightest dark-channel pixels averaged into
	// the atmospheric light.
	TopFraction float64
	// Workers bounds intra-stage parallelism. Zero means GOMAXPROCS.
	Workers int
}

// ParameterRange defines the valid interval of a numeric parameter.
// Exclusive bounds reject the endpoint itself.
type ParameterRange struct {
	Min          float64
	Max          float64
	MinExclusive bool
}

// ParameterRanges lists the accepted interval of each floating point parameter.
var ParameterRanges = map[string]ParameterRange{
	"guided_epsilon":     {Min: 0, Max: math.Inf(1), MinExclusive: true},
	"omega":              {Min: 0, Max: 1},
	"transmission_floor": {Min: 0, Max: 1, MinExclusive: true},
	"top_fraction":       {Min: 0, Max: 1, MinExclusive: true},
}

func DefaultDehazeParameters() DehazeParameters {
	return DehazeParameters{
		DarkChannelWindow: Square(DefaultDarkChannelWindow),
		GuidedWindow:      Square(DefaultGuidedWindow),
		GuidedEpsilon:     DefaultGuidedEpsilon,
		Omega:             DefaultOmega,
		TransmissionFloor: DefaultTransmissionFloor,
		TopFraction:       DefaultTopFraction,
	}
}

// Validate checks every parameter and reports the first violation wrapped in
// ErrInvalidArgument.
func (p DehazeParameters) Validate() error {
	if err := p.DarkChannelWindow.Validate(); err != nil {
		return fmt.Errorf("dark channel window: %w", err)
	}
	if err := p.GuidedWindow.Validate(); err != nil {
		return fmt.Errorf("guided window: %w", err)
	}

	values := []struct {
		name  string
		value float64
	}{
		{"guided_epsilon", p.GuidedEpsilon},
		{"omega", p.Omega},
		{"transmission_floor", p.TransmissionFloor},
		{"top_fraction", p.TopFraction},
	}
	for _, v := range values {
		if err := CheckRange(v.name, v.value); err != nil {
			return err
		}
	}

	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidArgument, p.Workers)
	}
	return nil
}

// CheckRange validates value against ParameterRanges[name].
func CheckRange(name string, value float64) error {
	r, ok := ParameterRanges[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidArgument, name)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalidArgument, name)
	}
	if value < r.Min || (r.MinExclusive && value == r.Min) || value > r.Max {
		lower := "["
		if r.MinExclusive {
			lower = "("
		}
		return fmt.Errorf("%w: %s=%g outside %s%g, %g]", ErrInvalidArgument, name, value, lower, r.Min, r.Max)
	}
	return nil
}

// ToMap flattens the parameters for structured logging.
func (p DehazeParameters) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"dark_channel_window": p.DarkChannelWindow.String(),
		"guided_window":       p.GuidedWindow.String(),
		"guided_epsilon":      p.GuidedEpsilon,
		"omega":               p.Omega,
		"transmission_floor":  p.TransmissionFloor,
		"top_fraction":        p.TopFraction,
		"workers":             p.Workers,
	}
}
