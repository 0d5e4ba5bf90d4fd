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
	"fmt"
	"testing"
)

func TestEmissionSpectrum(t *testing.T) {
	var tests = []struct {
		d                         float64
		breathing, speaking, loud float64
	}{
		{d: 1, breathing: 3.892132840766713e-11, speaking: 1.9952499772656586e-09, loud: 9.820564572697623e-09},
		{d: 3, breathing: 3.9433854365382275e-07, speaking: 1.0258294298304073e-06, loud: 3.551792974536745e-06},
		{d: 10, breathing: 1.7391564847198583e-11, speaking: 1.608111570172108e-06, loud: 8.04048828460115e-06},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.d), func(t *testing.T) {
			for v, want := range map[Vocalization]float64{
				Breathing:    test.breathing,
				Speaking:     test.speaking,
				LoudSpeaking: test.loud,
			} {
				if have := EmissionSpectrum(test.d, v); different(have, want, 1.e-9) {
					t.Errorf("%v: have %g, want %g", v, have, want)
				}
			}
		})
	}
}

func TestEmissionOrdering(t *testing.T) {
	for _, d := range Particles.Diameters {
		b := EmissionSpectrum(d, Breathing)
		s := EmissionSpectrum(d, Speaking)
		l := EmissionSpectrum(d, LoudSpeaking)
		if !(b > 0) || s < b || l < s {
			t.Errorf("d=%g: breathing %g, speaking %g, loud %g", d, b, s, l)
		}
	}
	if e := EmissionSpectrum(0, Speaking); e != 0 {
		t.Errorf("zero diameter: %g", e)
	}
}

func TestViralEmission(t *testing.T) {
	if EmissionCalibration != 1 {
		t.Errorf("calibration is %g", EmissionCalibration)
	}
	e := EmissionSpectrum(3, Speaking)
	if v := ViralEmission(3, Speaking, 1.e6, 0.5); different(v, e*5.e5, 1.e-12) {
		t.Errorf("have %g, want %g", v, e*5.e5)
	}
}

func TestParseCategories(t *testing.T) {
	for s, want := range map[string]PhysicalActivity{
		"":               Standing,
		"seated":         Sitting,
		" Light ":        LightActivity,
		"high_intensity": HeavyActivity,
	} {
		a, err := ParsePhysicalActivity(s)
		if err != nil || a != want {
			t.Errorf("%q: have %v (%v), want %v", s, a, err, want)
		}
	}
	if _, err := ParsePhysicalActivity("jogging"); err == nil {
		t.Error("expected error for unknown activity")
	}
	for s, want := range map[string]Vocalization{
		"":               Speaking,
		"just_breathing": Breathing,
		"shouting":       LoudSpeaking,
	} {
		v, err := ParseVocalization(s)
		if err != nil || v != want {
			t.Errorf("%q: have %v (%v), want %v", s, v, err, want)
		}
	}
	for s, want := range map[string]float64{"": 1, "moderate": 8, "severe": 20, "unsure": 1} {
		st, err := ParseImmuneStatus(s)
		if err != nil || st.EmissionMultiplier() != want {
			t.Errorf("%q: multiplier %g (%v), want %g", s, st.EmissionMultiplier(), err, want)
		}
	}
	if l := ActivityLabel(9); l != "Standard" {
		t.Errorf("label: %s", l)
	}
	if r := HeavyActivity.BreathingRate(); r != 3.28 {
		t.Errorf("heavy breathing rate: %g", r)
	}
}
