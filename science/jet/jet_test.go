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

package jet

import (
	"fmt"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	var tests = []struct {
		br, velocity, transition, dilution float64
	}{
		{br: 0.51, velocity: 0.9018780108540737, transition: 0.3771543932820856, dilution: 47.655365846052916},
		{br: 0.57, velocity: 1.0079813062486704, transition: 0.4015032807350339, dilution: 42.27658663000882},
		{br: 1.24, velocity: 2.1928014381550023, transition: 0.6158811676407451, dilution: 17.868161568379268},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.br), func(t *testing.T) {
			p := New(test.br)
			if different(p.Velocity, test.velocity, 1.e-10) {
				t.Errorf("velocity: have %g, want %g", p.Velocity, test.velocity)
			}
			if different(p.Transition, test.transition, 1.e-10) {
				t.Errorf("transition: have %g, want %g", p.Transition, test.transition)
			}
			if d := p.Dilution(0.7); different(d, test.dilution, 1.e-10) {
				t.Errorf("dilution at 0.7 m: have %g, want %g", d, test.dilution)
			}
		})
	}
}

func TestContinuity(t *testing.T) {
	for br := 0.1; br < 6; br += 0.137 {
		p := New(br)
		jet := p.jetDilution(p.Transition)
		puff := p.Dilution(p.Transition)
		if different(jet, puff, 1.e-12) {
			t.Errorf("br=%g: jet %g != puff %g at transition", br, jet, puff)
		}
		below := p.Dilution(p.Transition * (1 - 1.e-9))
		if different(below, puff, 1.e-6) {
			t.Errorf("br=%g: discontinuity %g -> %g", br, below, puff)
		}
	}
}

func TestRegime(t *testing.T) {
	p := New(0.57)
	if r := p.Regime(0.2); r != JetLike {
		t.Errorf("0.2 m: have %v, want %v", r, JetLike)
	}
	if r := p.Regime(p.Transition); r != PuffLike {
		t.Errorf("transition: have %v, want %v", r, PuffLike)
	}
	if s := PuffLike.String(); s != "puff" {
		t.Errorf("have %q", s)
	}
}

func TestDilutionIncreasing(t *testing.T) {
	p := New(0.57)
	if d := p.Dilution(0); different(d, 1, 1.e-12) {
		t.Errorf("dilution at the mouth should be 1 but is %g", d)
	}
	prev := 0.
	for x := 0.; x < 3; x += 0.05 {
		d := p.Dilution(x)
		if d < prev {
			t.Fatalf("dilution decreased at x=%g: %g < %g", x, d, prev)
		}
		prev = d
	}
}

func TestNonPositiveBreathingRate(t *testing.T) {
	for _, br := range []float64{0, -1, math.NaN()} {
		p := New(br)
		d := p.Dilution(1)
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			t.Errorf("br=%g: dilution %g", br, d)
		}
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
