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

// Package jet describes the near field of an exhaled breath as a turbulent
// jet that decays into a puff, following
//
// Henriques A, Mounet N, Aleixo L, Elson P, Devine J, Azzopardi G, Andreini M,
// Rognlien M, Tarocco N, Tang J. (2022). Modelling airborne transmission of
// SARS-CoV-2 using CARA: risk assessment for enclosed spaces. Interface Focus
// 12: 20210076. DOI: 10.1098/rsfs.2021.0076.
package jet

import "math"

// Mouth geometry and breathing cycle of an exhaling person.
const (
	MouthDiameter = 0.02 // [m]
	BreathPeriod  = 4.0  // [s]

	// exhalationRatio is the ratio of exhalation flow to the mean breathing rate.
	exhalationRatio = 2.0
)

// Entrainment coefficients for the radial (R) and streamwise (X)
// growth of the jet and the puff.
const (
	betaRJet  = 0.18
	betaRPuff = 0.20
	betaXJet  = 2.4
	betaXPuff = 2.2
)

// minBreathingRate keeps the closed-form relations finite for
// non-positive inputs [m³/h].
const minBreathingRate = 1.e-3

// Regime is a stage in the dispersion of exhaled air.
type Regime int

const (
	// JetLike is the near-field stage where exhaled air behaves as a
	// continuous jet.
	JetLike Regime = iota
	// PuffLike is the far-field stage where the jet has broken up into a
	// decaying puff.
	PuffLike
)

func (r Regime) String() string {
	switch r {
	case JetLike:
		return "jet"
	case PuffLike:
		return "puff"
	default:
		return "unknown"
	}
}

// Params holds the jet properties derived from a breathing rate.
type Params struct {
	// BreathingRate is the mean breathing rate [m³/h].
	BreathingRate float64

	// Flow is the exhalation flow rate [m³/s].
	Flow float64

	// Velocity is the initial jet velocity at the mouth [m/s].
	Velocity float64

	// JetTime and PuffTime are the virtual time origins of the
	// jet and puff stages [s].
	JetTime, PuffTime float64

	// JetOrigin and PuffOrigin are the virtual origin offsets of the
	// jet and puff stages [m].
	JetOrigin, PuffOrigin float64

	// Transition is the distance from the mouth at which the jet
	// becomes a puff [m].
	Transition float64
}

// New calculates the jet properties for a person breathing at
// breathingRate [m³/h].
func New(breathingRate float64) Params {
	if !(breathingRate > 0) {
		breathingRate = minBreathingRate
	}
	br := breathingRate / 3600
	flow := exhalationRatio * br
	volume := BreathPeriod * br
	area := math.Pi * (MouthDiameter / 2) * (MouthDiameter / 2)
	u0 := flow / area
	tStar := BreathPeriod / 2

	t0j := math.Sqrt(math.Pi) * math.Pow(MouthDiameter, 3) /
		(8 * betaRJet * betaRJet * betaXJet * betaXJet * flow)
	ratio := math.Pow(betaRJet*betaXJet, 4) / math.Pow(betaRPuff*betaXPuff, 4)
	t0p := ratio*(flow/volume)*(tStar+t0j)*(tStar+t0j) - tStar

	x0j := MouthDiameter / (2 * betaRJet)
	xtr := betaXJet*math.Pow(flow*u0, 0.25)*math.Sqrt(tStar+t0j) - x0j
	x0p := betaRJet/betaRPuff*(xtr+x0j) - xtr

	return Params{
		BreathingRate: breathingRate,
		Flow:          flow,
		Velocity:      u0,
		JetTime:       t0j,
		PuffTime:      t0p,
		JetOrigin:     x0j,
		PuffOrigin:    x0p,
		Transition:    xtr,
	}
}

// Regime returns the dispersion stage at distance x [m] from the mouth.
func (p Params) Regime(x float64) Regime {
	if x < p.Transition {
		return JetLike
	}
	return PuffLike
}

// Dilution returns the factor by which exhaled air has been diluted
// at distance x [m] from the mouth. The puff-like law is anchored at the
// jet-like value at the transition distance, so the factor is continuous.
func (p Params) Dilution(x float64) float64 {
	if p.Regime(x) == JetLike {
		return p.jetDilution(x)
	}
	s := p.jetDilution(p.Transition)
	g := 1 + betaRPuff*(x-p.Transition)/(betaRJet*(p.Transition+p.JetOrigin))
	return s * g * g * g
}

// jetDilution is the linear jet-like dilution law.
func (p Params) jetDilution(x float64) float64 {
	return 2 * betaRJet * (x + p.JetOrigin) / MouthDiameter
}
