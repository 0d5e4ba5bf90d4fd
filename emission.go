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

import "math"

// EmissionCalibration scales the emission spectrum of every occupant.
// The published methodology uses no calibration, so it is 1.
const EmissionCalibration = 1.0

// expirationMode is one lognormal mode of the
// bronchiolar-laryngeal-oral (BLO) model of exhaled particle sizes.
type expirationMode struct {
	cn    float64 // number concentration [cm⁻³]
	mu    float64 // mean of ln(D/μm)
	sigma float64 // standard deviation of ln(D/μm)
}

// bloModes are the bronchiolar, laryngeal, and oral modes from
//
// Johnson GR, Morawska L, Ristovski ZD, et al. (2011). Modality of human
// expired aerosol size distributions. Journal of Aerosol Science 42(12):
// 839-851.
var bloModes = [3]expirationMode{
	{cn: 0.06, mu: 0.989541, sigma: 0.262364},
	{cn: 0.2, mu: 1.38629, sigma: 0.506818},
	{cn: 0.0010008, mu: 4.97673, sigma: 0.585005},
}

// amplification holds the weight of each BLO mode for each vocalization.
var amplification = [...][3]float64{
	Breathing:    {1, 0, 0},
	Speaking:     {1, 1, 1},
	LoudSpeaking: {1, 5, 5},
}

// EmissionSpectrum returns the volume of liquid exhaled per volume of
// exhaled air per unit diameter [mL/m³/μm] for particles of diameter d [μm]
// from a person with vocalization v.
func EmissionSpectrum(d float64, v Vocalization) float64 {
	if !(d > 0) || v < Breathing || v > LoudSpeaking {
		return 0
	}
	famp := amplification[v]
	volume := 4. / 3. * math.Pi * d * d * d / 8 // μm³
	lnd := math.Log(d)
	var e float64
	for i, m := range bloModes {
		if famp[i] == 0 {
			continue
		}
		z := lnd - m.mu
		n := famp[i] * m.cn / (math.Sqrt(2*math.Pi) * m.sigma) / d *
			math.Exp(-z*z/(2*m.sigma*m.sigma)) // cm⁻³ μm⁻¹
		e += n * volume * 1.e-6 // μm³/cm³ to mL/m³
	}
	return e
}

// spectrum evaluates EmissionSpectrum for every diameter in g.
func (g *ParticleGrid) spectrum(v Vocalization) []float64 {
	s := make([]float64, g.Len())
	for i, d := range g.Diameters {
		s[i] = EmissionSpectrum(d, v)
	}
	return s
}

// ViralEmission returns the concentration of infectious respiratory
// particles in exhaled air per unit diameter [IRP/m³/μm] for particles of
// diameter d [μm], given the viral load [RNA copies/mL] and the ratio of
// infectious particles to RNA copies infRatio.
func ViralEmission(d float64, v Vocalization, viralLoad, infRatio float64) float64 {
	return EmissionSpectrum(d, v) * viralLoad * infRatio * EmissionCalibration
}
