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

// Package aerosol contains removal and viability-decay processes for
// exhaled respiratory particles.
package aerosol

import "math"

// Evaporation is the ratio of the desiccated diameter of an exhaled particle
// to its diameter at emission.
const Evaporation = 0.3

// DepositionFraction returns the fraction of inhaled particles with
// emitted diameter d [μm] that deposit in the respiratory tract after
// shrinking by evaporation factor evap. The result is bounded to [0, 1].
// From W. C. Hinds, "Aerosol Technology", New York, Wiley, 1999 (pp. 233-259).
func DepositionFraction(d, evap float64) float64 {
	d *= evap
	if !(d > 0) {
		return 0
	}
	inhalable := 1 - 0.5*(1-1/(1+0.00076*math.Pow(d, 2.8)))
	lnd := math.Log(d)
	f := inhalable * (0.0587 +
		0.911/(1+math.Exp(4.77+1.485*lnd)) +
		0.943/(1+math.Exp(0.508-2.58*lnd)))
	return clamp(f, 0, 1)
}

// sourceHeight is the height above the floor at which particles are
// emitted [m].
const sourceHeight = 1.5

// SedimentationRate returns the gravitational settling removal rate [1/h]
// of particles with emitted diameter d [μm] after evaporation by factor evap.
func SedimentationRate(d, evap float64) float64 {
	vg := 1.88e-4 * math.Pow(d*evap/2.5, 2) // m/s
	return vg * 3600 / sourceHeight
}

// maxHalfLife is the upper bound on the airborne half-life [h].
const maxHalfLife = 6.43

// InactivationRate returns the biological decay rate [1/h] of airborne virus
// at temperature tempK [K] and relative humidity rh [0-1], using the
// empirical half-life model of
//
// Dabisch P, Schuit M, Herzog A, et al. (2021). The influence of temperature,
// humidity, and simulated sunlight on the infectivity of SARS-CoV-2 in aerosols.
// Aerosol Science and Technology 55(2): 142-153.
//
// Non-positive half-lives are replaced by the maximum half-life.
func InactivationRate(tempK, rh float64) float64 {
	t := (tempK - 273.15 - 20.615) / 10.585
	h := (rh*100 - 45.235) / 28.665
	hl := math.Ln2 / (0.16030 + 0.04018*t + 0.02176*h - 0.14369 - 0.02636*t)
	if !(hl > 0) || hl > maxHalfLife {
		hl = maxHalfLife
	}
	return math.Ln2 / hl
}

// ShortRangeThreshold is the relative humidity above which no viability
// decay occurs in the near field.
const ShortRangeThreshold = 0.40

// shortRangeDecayRate is the fractional loss of viability per second of
// flight in dry air.
const shortRangeDecayRate = 0.016

// ShortRangeDecay returns the fraction of virus that remains viable
// after travelling distance x [m] in a jet with initial velocity u0 [m/s]
// at relative humidity rh [0-1]. The result is in [0, 1].
func ShortRangeDecay(x, u0, rh float64) float64 {
	if rh > ShortRangeThreshold {
		return 1
	}
	if !(u0 > 0) {
		return 0
	}
	return clamp(1-shortRangeDecayRate*x/u0, 0, 1)
}

// Parameters of the time-varying airborne decay (TVAD) of the Omicron
// variant, following Haddrell et al. (2023).
const (
	ReferenceCO2 = 500.0  // [ppm]
	humidLag     = 15.0   // lag before decay above 50% RH [s]
	dynamicHalf  = 32.0   // dynamic-phase half-life at ReferenceCO2 [s]
	slowHalf     = 4800.0 // slow-phase half-life at ReferenceCO2 [s]
)

// TVADSurvival returns the fraction of virus that survives t seconds
// aloft at relative humidity rh [0-1] and carbon dioxide concentration
// co2 [ppm]. Decay follows a lag phase, a fast dynamic phase lasting three
// half-lives, and a slow phase. Half-lives lengthen in proportion to co2.
// Non-positive co2 is treated as ReferenceCO2.
func TVADSurvival(t, rh, co2 float64) float64 {
	if !(co2 > 0) {
		co2 = ReferenceCO2
	}
	lag := 0.
	if rh > 0.5 {
		lag = humidLag
	}
	dyn := dynamicHalf * co2 / ReferenceCO2
	slow := slowHalf * co2 / ReferenceCO2
	k2 := math.Ln2 / dyn
	k3 := math.Ln2 / slow
	dynEnd := lag + 3*dyn

	switch {
	case t <= lag:
		return 1
	case t <= dynEnd:
		return math.Exp(-k2 * (t - lag))
	default:
		return math.Exp(-k2*(dynEnd-lag)) * math.Exp(-k3*(t-dynEnd))
	}
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
