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

package exposure

import (
	"context"

	"github.com/spatialmodel/exposure/epi"
	"github.com/spatialmodel/exposure/science/aerosol"
	"golang.org/x/exp/rand"
)

// Particles larger than these diameters [μm] do not contribute to the
// long-range and short-range concentrations, respectively.
const (
	LongRangeCutoff  = 20.
	ShortRangeCutoff = 100.
)

// chamber holds the properties of a room and an exposure that are fixed
// across trials, with size-resolved rates precomputed on the particle grid.
type chamber struct {
	grid *ParticleGrid

	spectrum   []float64 // emission spectrum of the other occupants [mL/m³/μm]
	removal    []float64 // ventilation + sedimentation + inactivation [1/h]
	deposition []float64 // fraction of inhaled particles deposited

	volume   float64 // m³
	hours    float64 // exposure duration [h]
	distance float64 // m
	humidity float64 // relative humidity [0-1]

	inhalation float64 // fraction passing the exposed person's mask
	exhalation float64 // fraction passing a masked occupant's mask
	emission   float64 // immunocompromise emission multiplier

	occupants      int
	prevalence     float64 // fraction
	maskedFraction float64
	user, others   PhysicalActivity
	immunity       float64
}

// newChamber prepares the fixed properties of the scenario in in, with
// infectious occupants' emissions raised by the factor emission.
func newChamber(in *Inputs, g *ParticleGrid, emission float64) *chamber {
	c := &chamber{
		grid:           g,
		spectrum:       g.spectrum(in.OthersVocalization),
		removal:        make([]float64, g.Len()),
		deposition:     make([]float64, g.Len()),
		volume:         in.RoomVolume,
		hours:          in.Duration / 3600,
		distance:       in.Distance,
		humidity:       in.RelativeHumidity,
		inhalation:     in.InhalationFactor,
		exhalation:     in.ExhalationFactor,
		emission:       emission,
		occupants:      in.Occupants,
		prevalence:     in.PrevalenceFraction(),
		maskedFraction: in.MaskedFraction,
		user:           in.UserActivity,
		others:         in.OthersActivity,
		immunity:       in.Immunity,
	}
	inactivation := aerosol.InactivationRate(in.Temperature, in.RelativeHumidity)
	for i, d := range g.Diameters {
		c.removal[i] = in.ACH + aerosol.SedimentationRate(d, aerosol.Evaporation) + inactivation
		c.deposition[i] = aerosol.DepositionFraction(d, aerosol.Evaporation)
	}
	return c
}

// dose returns the dose [IRP] inhaled at breathing rate inhale [m³/h] from
// infectious occupant o when the variant's transmissibility multiplier is
// transmissibility. The concentration in each size bin is the long-range
// steady-state background plus the diluted and decayed excess of the
// exhaled jet over that background.
func (c *chamber) dose(o *occupant, inhale, transmissibility float64) float64 {
	dilution := o.jet.Dilution(c.distance)
	if !(dilution >= 1) {
		dilution = 1
	}
	nearField := aerosol.ShortRangeDecay(c.distance, o.jet.Velocity, c.humidity) / dilution

	filter := 1.
	if o.masked {
		filter = c.exhalation
	}
	source := o.viralLoad * o.infectiousRate * EmissionCalibration *
		transmissibility * c.emission * filter

	intake := inhale * c.hours * c.inhalation
	var dose float64
	for i, d := range c.grid.Diameters {
		c0 := c.spectrum[i] * source // IRP/m³/μm
		var clr float64
		if d <= LongRangeCutoff && c.removal[i] > 0 {
			clr = c0 * o.breathingRate / (c.removal[i] * c.volume)
		}
		csr := clr
		if d <= ShortRangeCutoff {
			csr += nearField * (c0 - clr)
		}
		dose += csr * intake * c.deposition[i] * c.grid.Widths[i]
	}
	return dose
}

// outcome records one trial.
type outcome struct {
	risk             float64
	dose             float64 // IRP
	infectious       int
	transmissibility float64
	id50             float64 // IRP
	breathingRate    float64 // m³/h
	protection       float64
}

// cancelCheck is how many occupants are visited between checks for
// cancellation within a trial.
const cancelCheck = 1024

// trial runs one independent trial, drawing every random quantity from rng.
// It returns ctx's error if ctx is done before the trial finishes.
func (c *chamber) trial(ctx context.Context, rng *rand.Rand) (outcome, error) {
	var t outcome
	t.transmissibility = SampleTransmissibility(rng)
	t.id50 = epi.SampleID50(rng)
	t.breathingRate = SampleBreathingRate(rng, c.user)
	for k := 0; k < c.occupants; k++ {
		if k%cancelCheck == cancelCheck-1 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}
		if rng.Float64() >= c.prevalence {
			continue
		}
		t.infectious++
		o := sampleOccupant(rng, c.others, c.maskedFraction)
		t.dose += c.dose(&o, t.breathingRate, t.transmissibility)
	}
	t.protection = epi.DefaultProtection(c.immunity).Rand(rng)
	t.risk = epi.TrialRisk(t.dose, t.id50, t.protection)
	return t, nil
}
