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
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func TestSampleViralLoad(t *testing.T) {
	src := rand.NewSource(3)
	logs := make([]float64, 50000)
	for i := range logs {
		v := SampleViralLoad(src)
		if v < 1.e2 || v > 1.e10 {
			t.Fatalf("viral load %g outside [1e2, 1e10]", v)
		}
		logs[i] = math.Log10(v)
	}
	mean, std := stat.MeanStdDev(logs, nil)
	if math.Abs(mean-6.2) > 0.1 {
		t.Errorf("mean log10 viral load %g, want about 6.2", mean)
	}
	if math.Abs(std-1.8) > 0.15 {
		t.Errorf("standard deviation %g, want about 1.8", std)
	}
}

func TestSampleBounds(t *testing.T) {
	src := rand.NewSource(4)
	for i := 0; i < 20000; i++ {
		if r := SampleInfectiousRatio(src); r < MinInfectiousRatio || r > MaxInfectiousRatio {
			t.Fatalf("infectious ratio %g", r)
		}
		if tr := SampleTransmissibility(src); tr < MinTransmissibility || tr > MaxTransmissibility {
			t.Fatalf("transmissibility %g", tr)
		}
		if br := SampleBreathingRate(src, HeavyActivity); !(br > 0) {
			t.Fatalf("breathing rate %g", br)
		}
	}
}

func TestSampleBreathingRateMedian(t *testing.T) {
	src := rand.NewSource(5)
	for _, a := range []PhysicalActivity{Sitting, Standing, LightActivity, ModerateActivity, HeavyActivity} {
		v := make([]float64, 20001)
		for i := range v {
			v[i] = SampleBreathingRate(src, a)
		}
		m := stat.Quantile(0.5, stat.Empirical, sorted(v), nil)
		if math.Abs(m-a.BreathingRate())/a.BreathingRate() > 0.03 {
			t.Errorf("%v: median %g, want %g", a, m, a.BreathingRate())
		}
	}
}
