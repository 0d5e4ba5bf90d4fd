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
	"math"

	"github.com/spatialmodel/exposure/science/jet"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// The log10 viral load [RNA copies/mL] of an infectious person follows a
// Weibull distribution with mean 6.2 and standard deviation 1.8, truncated
// to [MinLogViralLoad, MaxLogViralLoad]. From:
//
// Chen PZ, Bobrovitz N, Premji Z, et al. (2021). Heterogeneity in
// transmissibility and shedding SARS-CoV-2 via droplets and aerosols.
// eLife 10: e65774.
const (
	viralLoadShape  = 3.9
	viralLoadScale  = 6.85
	MinLogViralLoad = 2.
	MaxLogViralLoad = 10.
)

// The ratio of infectious respiratory particles to RNA copies is drawn
// uniformly from this range.
const (
	MinInfectiousRatio = 0.01
	MaxInfectiousRatio = 0.60
)

// The transmissibility multiplier of the circulating variant follows the
// pooled reproduction number 4.20 (95% CI 2.05-6.35) of
//
// Du Z, Liu C, Wang C, et al. (2022). Reproduction Number of the Omicron
// Variant Triples That of the Delta Variant. Viruses 14(4): 821.
//
// bounded to [MinTransmissibility, MaxTransmissibility].
const (
	transmissibilityMedian = 4.20
	transmissibilityLow    = 2.05
	transmissibilityHigh   = 6.35
	MinTransmissibility    = 1.5
	MaxTransmissibility    = 8.
)

// SampleViralLoad draws the viral load [RNA copies/mL] of an infectious
// person.
func SampleViralLoad(src rand.Source) float64 {
	v := distuv.Weibull{K: viralLoadShape, Lambda: viralLoadScale, Src: src}.Rand()
	return math.Pow(10, clamp(v, MinLogViralLoad, MaxLogViralLoad))
}

// SampleInfectiousRatio draws the ratio of infectious respiratory
// particles to RNA copies.
func SampleInfectiousRatio(src rand.Source) float64 {
	return distuv.Uniform{Min: MinInfectiousRatio, Max: MaxInfectiousRatio, Src: src}.Rand()
}

// SampleTransmissibility draws a transmissibility multiplier.
func SampleTransmissibility(src rand.Source) float64 {
	se := (math.Log(transmissibilityHigh) - math.Log(transmissibilityLow)) / (2 * 1.96)
	v := distuv.LogNormal{Mu: math.Log(transmissibilityMedian), Sigma: se, Src: src}.Rand()
	return clamp(v, MinTransmissibility, MaxTransmissibility)
}

// SampleBreathingRate draws the breathing rate [m³/h] of a person
// engaged in activity a.
func SampleBreathingRate(src rand.Source, a PhysicalActivity) float64 {
	mu, sigma := a.logBreathingRate()
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}.Rand()
}

// occupant holds the characteristics of one infectious occupant in one
// trial.
type occupant struct {
	viralLoad      float64 // RNA copies/mL
	infectiousRate float64 // IRP per RNA copy
	breathingRate  float64 // m³/h
	masked         bool
	jet            jet.Params
}

// sampleOccupant draws the characteristics of an infectious occupant who is
// masked with probability maskedFraction.
func sampleOccupant(rng *rand.Rand, a PhysicalActivity, maskedFraction float64) occupant {
	var o occupant
	o.viralLoad = SampleViralLoad(rng)
	o.infectiousRate = SampleInfectiousRatio(rng)
	o.breathingRate = SampleBreathingRate(rng, a)
	o.masked = rng.Float64() < maskedFraction
	o.jet = jet.New(o.breathingRate)
	return o
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
