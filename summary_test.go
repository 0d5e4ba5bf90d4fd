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
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
)

func checkHistogram(t *testing.T, d *Distribution, n int) {
	t.Helper()
	h := d.Histogram
	if len(h.Edges) != len(h.Counts)+1 {
		t.Errorf("%d edges for %d bins", len(h.Edges), len(h.Counts))
	}
	var sum, max int
	for _, c := range h.Counts {
		sum += c
		if c > max {
			max = c
		}
	}
	if sum != n || h.Total != n {
		t.Errorf("counts sum to %d (total %d), want %d", sum, h.Total, n)
	}
	if max != h.MaxCount {
		t.Errorf("max count: have %d, want %d", h.MaxCount, max)
	}
	for i := 1; i < len(h.Edges); i++ {
		if !(h.Edges[i] > h.Edges[i-1]) {
			t.Errorf("edges not increasing at %d: %v", i, h.Edges)
			break
		}
	}
}

func TestSummarize(t *testing.T) {
	risks := make([]float64, 101)
	for i := range risks {
		risks[len(risks)-1-i] = float64(i) / 100
	}
	s := Summarize(risks)
	want := Summary{
		Mean:   0.5,
		Median: 0.5,
		Bands: Bands{
			CI50: Interval{Low: 0.25, High: 0.75},
			CI90: Interval{Low: 0.05, High: 0.95},
			CI99: Interval{Low: 0.005, High: 0.995},
		},
	}
	for _, c := range []struct{ have, want float64 }{
		{s.Mean, want.Mean},
		{s.Median, want.Median},
		{s.Bands.CI50.Low, want.Bands.CI50.Low},
		{s.Bands.CI50.High, want.Bands.CI50.High},
		{s.Bands.CI90.Low, want.Bands.CI90.Low},
		{s.Bands.CI90.High, want.Bands.CI90.High},
	} {
		if different(c.have, c.want, 0.011) {
			t.Errorf("have %g, want %g", c.have, c.want)
		}
	}
	if risks[0] != 1 {
		t.Error("Summarize modified its input")
	}
}

func TestPercentile(t *testing.T) {
	var tests = []struct {
		x    []float64
		p    float64
		want float64
	}{
		{x: []float64{0, 1}, p: 0.5, want: 0.5},
		{x: []float64{0, 1}, p: 0.25, want: 0.25},
		{x: []float64{0.1, 0.2, 0.3, 0.4}, p: 0.5, want: 0.25},
		{x: []float64{0.1, 0.2, 0.3, 0.4}, p: 0.95, want: 0.385},
		{x: []float64{0.1, 0.2, 0.3, 0.4}, p: 0, want: 0.1},
		{x: []float64{0.1, 0.2, 0.3, 0.4}, p: 1, want: 0.4},
		{x: []float64{0.1, 0.2, 0.3}, p: 0.5, want: 0.2},
		{x: []float64{0.7}, p: 0.05, want: 0.7},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v_%g", test.x, test.p), func(t *testing.T) {
			if have := percentile(test.p, test.x); different(have, test.want, 1.e-9) {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestSummarizeEven(t *testing.T) {
	s := Summarize([]float64{0.4, 0.1, 0.3, 0.2})
	if different(s.Median, 0.25, 1.e-9) {
		t.Errorf("median: have %g, want 0.25", s.Median)
	}
	if different(s.Bands.CI90.High, 0.385, 1.e-9) {
		t.Errorf("95th percentile: have %g, want 0.385", s.Bands.CI90.High)
	}
	s = Summarize([]float64{0, 1})
	if s.Median != 0.5 || s.Bands.CI50.Low != 0.25 || s.Bands.CI50.High != 0.75 {
		t.Errorf("have %+v", s)
	}
}

func TestNewDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var tests = []struct {
		name  string
		risks []float64
	}{
		{name: "uniform", risks: func() []float64 {
			x := make([]float64, 1000)
			for i := range x {
				x[i] = rng.Float64()
			}
			return x
		}()},
		{name: "small", risks: func() []float64 {
			x := make([]float64, 5000)
			for i := range x {
				x[i] = 1.e-6 * rng.ExpFloat64()
			}
			return x
		}()},
		{name: "mostly zero", risks: func() []float64 {
			x := make([]float64, 1000)
			for i := 0; i < 10; i++ {
				x[i] = 0.5
			}
			return x
		}()},
		{name: "two values", risks: []float64{0, 1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := NewDistribution(test.risks)
			if err != nil {
				t.Fatal(err)
			}
			checkHistogram(t, d, len(test.risks))
			st := d.Statistics
			if !(st.P5 <= st.P25 && st.P25 <= st.Median && st.Median <= st.P75 && st.P75 <= st.P95) {
				t.Errorf("percentiles out of order: %+v", st)
			}
			if st.StdDev <= 0 {
				t.Errorf("std %g", st.StdDev)
			}
			if st.PctAboveMean < 0 || st.PctAboveMean > 100 || st.PctAboveP95 < 0 || st.PctAboveP95 > 100 {
				t.Errorf("percent above: %g, %g", st.PctAboveMean, st.PctAboveP95)
			}
			if !(d.Axis.Max > d.Axis.Min) || d.Axis.Min < 0 {
				t.Errorf("axis: %+v", d.Axis)
			}
		})
	}
}

func TestNewDistributionStdDev(t *testing.T) {
	d, err := NewDistribution([]float64{0, 0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if different(d.Statistics.StdDev, 0.5, 1.e-12) {
		t.Errorf("population std: have %g, want 0.5", d.Statistics.StdDev)
	}
	if d.Statistics.PctAboveMean != 50 {
		t.Errorf("percent above mean: have %g, want 50", d.Statistics.PctAboveMean)
	}
}

func TestNewDistributionErrors(t *testing.T) {
	if _, err := NewDistribution([]float64{0.2, 0.2, 0.2}); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("identical risks: have %v, want ErrDegenerateDistribution", err)
	}
	if _, err := NewDistribution(nil); err == nil {
		t.Error("expected error for empty risks")
	}
	if _, err := NewDistribution([]float64{0.1, 1.5}); err == nil {
		t.Error("expected error for risk above 1")
	}
	if _, err := NewDistribution([]float64{-0.1, 0.5}); err == nil {
		t.Error("expected error for negative risk")
	}
	if _, err := NewDistribution([]float64{math.NaN(), 0.5}); err == nil {
		t.Error("expected error for NaN risk")
	}
}

func TestBinWidth(t *testing.T) {
	var tests = []struct {
		in, out float64
	}{
		{in: 0.0003, out: 0.0003},
		{in: 0.00034, out: 0.0003},
		{in: 0.00004, out: 0.00004},
		{in: 0.0043, out: 0.004},
		{in: 0.037, out: 0.04},
		{in: 0.123, out: 0.12},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.in), func(t *testing.T) {
			if have := binWidth(test.in); different(have, test.out, 1.e-9) {
				t.Errorf("have %g, want %g", have, test.out)
			}
		})
	}
}

func TestNewAxis(t *testing.T) {
	a := newAxis(0.01, 0.05, 0, 0.2)
	if different(a.Min, 0.008, 1.e-12) || different(a.Max, 0.06, 1.e-12) {
		t.Errorf("padded axis: %+v", a)
	}
	if a.TickInterval != 0.01 {
		t.Errorf("tick interval: %g", a.TickInterval)
	}
	a = newAxis(0, 0, 0, 0.5)
	if a.Min != 0 || a.Max != 0.5 || a.TickInterval != 0.05 {
		t.Errorf("fallback axis: %+v", a)
	}
}

func TestInterpret(t *testing.T) {
	in := interpret(Statistics{Mean: 0.123, P25: 0.05, P75: 0.2, P95: 0.4, PctAboveP95: 5})
	if in.TypicalRange != "5.0% - 20.0%" {
		t.Errorf("typical range: %q", in.TypicalRange)
	}
	if in.ExtremeScenarios != "5% of scenarios above 40.0%" {
		t.Errorf("extreme scenarios: %q", in.ExtremeScenarios)
	}
	if !strings.HasPrefix(in.Summary, "Most scenarios cluster around 12.3%") {
		t.Errorf("summary: %q", in.Summary)
	}
}
