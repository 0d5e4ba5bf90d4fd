/*
Copyright © 2024 the Exposure authors.
This file is part of Exposure.

Exposure is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Exposure is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Exposure.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package exposure is a Monte Carlo model of the risk of airborne infection
// for a person sharing a room with other occupants, any of whom may be
// infectious.
//
// Each trial samples the transmissibility of the circulating variant, the
// exposed person's breathing rate and infectious dose, and the infection
// status of every occupant. Infectious occupants exhale a size-resolved
// spectrum of virus-laden particles that reaches the exposed person both
// through the well-mixed room air (long range) and through the exhaled jet
// (short range). The inhaled and deposited dose is converted to a
// probability of infection with an exponential dose-response model.
package exposure

import (
	"math"

	"github.com/spatialmodel/exposure/science/aerosol"
	"github.com/spatialmodel/exposure/science/jet"
)

// Version gives the version number.
const Version = "1.0.0"

// Result holds the outcome of a simulation.
type Result struct {
	// RunID identifies the simulation in logs.
	RunID string `json:"run_id" yaml:"run_id"`

	// Risk is the mean probability of infection across trials.
	Risk float64 `json:"risk" yaml:"risk"`

	// Median is the median probability of infection across trials.
	Median float64 `json:"median" yaml:"median"`

	// Bands holds credible intervals of the probability of infection.
	Bands Bands `json:"percentiles" yaml:"percentiles"`

	// Distribution describes the spread of trial risks. It is nil if the
	// trial risks could not be summarized.
	Distribution *Distribution `json:"risk_distribution" yaml:"risk_distribution"`

	// EffectiveVentilation is the room ventilation rate [L/s].
	EffectiveVentilation float64 `json:"q_e" yaml:"q_e"`

	ACH        float64 `json:"ACH" yaml:"ACH"`
	RoomVolume float64 `json:"room_volume" yaml:"room_volume"`

	ActivityLabel string `json:"activity_label" yaml:"activity_label"`

	Masked   int `json:"N_masked" yaml:"N_masked"`
	Unmasked int `json:"N_unmasked" yaml:"N_unmasked"`

	// Trials is the number of trials run.
	Trials int `json:"n_simulations" yaml:"n_simulations"`

	// ExpectedInfectious is the expected number of infectious occupants.
	ExpectedInfectious float64 `json:"expected_infectious" yaml:"expected_infectious"`

	Seed uint64 `json:"seed" yaml:"seed"`

	// NearField describes the exhaled jet of a typical occupant.
	NearField NearField `json:"near_field" yaml:"near_field"`

	// Repeated is the cumulative risk of repeated exposures, if requested.
	Repeated *Repeated `json:"repeated,omitempty" yaml:"repeated,omitempty"`

	// Outputs holds user-defined derived outputs. See Derive.
	Outputs map[string]float64 `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	Inputs Inputs `json:"inputs" yaml:"inputs"`

	// EffectiveExhalationFlow and EffectiveInhalationFlow [L/s] are the
	// Wells-Riley flows adjusted for masks and transmissibility.
	EffectiveExhalationFlow float64 `json:"Q0_effective" yaml:"Q0_effective"`
	EffectiveInhalationFlow float64 `json:"p_effective" yaml:"p_effective"`
}

// NearField holds deterministic properties of the jet exhaled by an
// occupant breathing at the median rate for their activity: breathing rate
// [m³/h], initial velocity [m/s], jet-to-puff transition distance [m],
// dispersion stage and dilution factor at the exposure distance, and the
// fraction of virus still viable after the time of flight [s] to that
// distance.
type NearField struct {
	BreathingRate   float64 `json:"breathing_rate" yaml:"breathing_rate"`
	Velocity        float64 `json:"u0" yaml:"u0"`
	Transition      float64 `json:"x_transition" yaml:"x_transition"`
	Stage           string  `json:"stage" yaml:"stage"`
	Dilution        float64 `json:"Sx" yaml:"Sx"`
	ShortRangeDecay float64 `json:"short_range_decay" yaml:"short_range_decay"`
	TimeOfFlight    float64 `json:"time_of_flight" yaml:"time_of_flight"`
	TVADSurvival    float64 `json:"tvad_survival" yaml:"tvad_survival"`
}

// NewNearField calculates the near-field properties of the scenario in in.
func NewNearField(in *Inputs) NearField {
	p := jet.New(in.OthersActivity.BreathingRate())
	nf := NearField{
		BreathingRate:   p.BreathingRate,
		Velocity:        p.Velocity,
		Transition:      p.Transition,
		Stage:           p.Regime(in.Distance).String(),
		Dilution:        p.Dilution(in.Distance),
		ShortRangeDecay: aerosol.ShortRangeDecay(in.Distance, p.Velocity, in.RelativeHumidity),
	}
	if p.Velocity > 0 {
		nf.TimeOfFlight = in.Distance / p.Velocity
	}
	nf.TVADSurvival = aerosol.TVADSurvival(nf.TimeOfFlight, in.RelativeHumidity, in.CO2)
	return nf
}

// result assembles the Result of a simulation of in with trial risks.
func (s *Simulation) result(in *Inputs, risks []float64) *Result {
	sum := Summarize(risks)
	masked, unmasked := in.MaskedOccupants()
	r := &Result{
		RunID:                   s.run,
		Risk:                    sum.Mean,
		Median:                  sum.Median,
		Bands:                   sum.Bands,
		EffectiveVentilation:    in.EffectiveVentilation(),
		ACH:                     in.ACH,
		RoomVolume:              in.RoomVolume,
		ActivityLabel:           ActivityLabel(in.ActivityChoice),
		Masked:                  masked,
		Unmasked:                unmasked,
		Trials:                  len(risks),
		ExpectedInfectious:      in.ExpectedInfectious(),
		Seed:                    s.Seed,
		NearField:               NewNearField(in),
		Inputs:                  *in,
		EffectiveExhalationFlow: in.ExhalationFlow * in.ExhalationFactor * in.Transmissibility,
		EffectiveInhalationFlow: in.InhalationFlow * in.InhalationFactor,
	}
	s.emit(EventSummary, Fields{"mean": r.Risk, "median": r.Median})

	d, err := NewDistribution(risks)
	if err != nil {
		s.emit(EventDistributionFailure, Fields{"error": err.Error()})
	} else {
		r.Distribution = d
	}
	if s.Repeats > 0 {
		r.Repeated = NewRepeated(r.Risk, s.Repeats)
	}
	return r
}

// Repeated describes a series of identical, independent exposures.
type Repeated struct {
	Exposures int     `json:"exposures" yaml:"exposures"`
	Risk      float64 `json:"cumulative_risk" yaml:"cumulative_risk"`

	// ToHalf is the number of exposures after which the cumulative
	// risk reaches 50%, or zero if it never does.
	ToHalf int `json:"exposures_to_50pct" yaml:"exposures_to_50pct"`
}

// NewRepeated describes n exposures that each carry risk r.
func NewRepeated(r float64, n int) *Repeated {
	half, _ := ExposuresToReach(r, 0.5)
	return &Repeated{Exposures: n, Risk: CumulativeRisk(r, n), ToHalf: half}
}

// CumulativeRisk returns the probability of at least one infection over
// n independent exposures that each carry risk r.
func CumulativeRisk(r float64, n int) float64 {
	switch {
	case n <= 0 || !(r > 0):
		return 0
	case r >= 1:
		return 1
	}
	return -math.Expm1(float64(n) * math.Log1p(-r))
}

// ExposuresToReach returns the smallest number of independent exposures
// with risk r whose cumulative risk reaches target. It returns false if
// target can never be reached.
func ExposuresToReach(r, target float64) (int, bool) {
	switch {
	case target <= 0:
		return 0, true
	case r >= 1:
		return 1, true
	case !(r > 0) || target >= 1:
		return 0, false
	}
	k := math.Ceil(math.Log1p(-target) / math.Log1p(-r))
	if k > math.MaxInt32 {
		return 0, false
	}
	n := int(k)
	for n > 1 && CumulativeRisk(r, n-1) >= target {
		n--
	}
	for CumulativeRisk(r, n) < target {
		n++
	}
	return n, true
}
