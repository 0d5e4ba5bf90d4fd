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

package aerosol

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestDepositionFraction(t *testing.T) {
	var tests = []struct {
		d, want float64
	}{
		{d: 0.1, want: 0.6122911418809187},
		{d: 1, want: 0.12738138764259058},
		{d: 5, want: 0.6575169364788882},
		{d: 20, want: 0.9362954939672014},
		{d: 30, want: 0.8655160669086396},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.d), func(t *testing.T) {
			have := DepositionFraction(test.d, Evaporation)
			if different(have, test.want, 1.e-10) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestDepositionFractionBounds(t *testing.T) {
	ds := floats.LogSpan(make([]float64, 200), 0.01, 1000)
	for _, d := range ds {
		for _, evap := range []float64{Evaporation, 1} {
			f := DepositionFraction(d, evap)
			if f < 0 || f > 1 || math.IsNaN(f) {
				t.Errorf("d=%g, evap=%g: %g outside [0, 1]", d, evap, f)
			}
		}
	}
	if f := DepositionFraction(0, Evaporation); f != 0 {
		t.Errorf("zero diameter: %g", f)
	}
}

func TestSedimentationRate(t *testing.T) {
	if r := SedimentationRate(10, Evaporation); different(r, 0.649728, 1.e-10) {
		t.Errorf("have %g", r)
	}
	// Settling scales with the square of diameter.
	if r := SedimentationRate(20, Evaporation) / SedimentationRate(10, Evaporation); different(r, 4, 1.e-12) {
		t.Errorf("ratio %g", r)
	}
}

func TestInactivationRate(t *testing.T) {
	var tests = []struct {
		tempK, rh, want float64
	}{
		{tempK: 293.15, rh: 0.4, want: 0.10779893943389507},
		{tempK: 333.15, rh: 1.0, want: 0.10960476230767006},
		{tempK: 343.15, rh: 1.0, want: 0.12266097392788732},
		{tempK: 233.15, rh: 0.4, want: 0.10779893943389507},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%g_%g", test.tempK, test.rh), func(t *testing.T) {
			have := InactivationRate(test.tempK, test.rh)
			if different(have, test.want, 1.e-10) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestShortRangeDecay(t *testing.T) {
	for _, rh := range []float64{0.41, 0.5, 0.8, 1} {
		for x := 0.; x < 5; x += 0.25 {
			for _, u0 := range []float64{0.1, 0.9, 2.2, 10} {
				if f := ShortRangeDecay(x, u0, rh); f != 1 {
					t.Errorf("rh=%g, x=%g, u0=%g: %g", rh, x, u0, f)
				}
			}
		}
	}
	if f := ShortRangeDecay(1, 1, 0.4); different(f, 0.984, 1.e-12) {
		t.Errorf("dry air: %g", f)
	}
	if f := ShortRangeDecay(100, 1, 0.2); f != 0 {
		t.Errorf("long flight: %g", f)
	}
}

func TestTVADSurvival(t *testing.T) {
	var tests = []struct {
		t, rh, co2, want float64
	}{
		{t: 10, rh: 0.6, co2: 500, want: 1},
		{t: 47, rh: 0.6, co2: 500, want: 0.5},
		{t: 32, rh: 0.4, co2: 500, want: 0.5},
		{t: 200, rh: 0.4, co2: 500, want: 0.12313675270643845},
		{t: 64, rh: 0.4, co2: 1000, want: 0.5},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.t, test.rh, test.co2), func(t *testing.T) {
			have := TVADSurvival(test.t, test.rh, test.co2)
			if different(have, test.want, 1.e-10) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
	if s := TVADSurvival(100, 0.4, 0); math.IsNaN(s) || s < 0 || s > 1 {
		t.Errorf("zero CO2: %g", s)
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
