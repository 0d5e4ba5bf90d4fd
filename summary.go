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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval is a pair of percentiles of the trial risks.
type Interval struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Bands holds credible intervals of the trial risks.
type Bands struct {
	CI50 Interval `json:"ci50" yaml:"ci50"` // 25th-75th percentiles
	CI90 Interval `json:"ci90" yaml:"ci90"` // 5th-95th percentiles
	CI99 Interval `json:"ci99" yaml:"ci99"` // 0.5th-99.5th percentiles
}

// Summary holds the scalar statistics of a set of trial risks.
type Summary struct {
	Mean   float64
	Median float64
	Bands  Bands
}

// Summarize calculates the mean, median, and credible intervals of
// risks, which must not be empty.
func Summarize(risks []float64) Summary {
	x := sorted(risks)
	q := func(p float64) float64 { return percentile(p, x) }
	return Summary{
		Mean:   stat.Mean(x, nil),
		Median: q(0.5),
		Bands: Bands{
			CI50: Interval{Low: q(0.25), High: q(0.75)},
			CI90: Interval{Low: q(0.05), High: q(0.95)},
			CI99: Interval{Low: q(0.005), High: q(0.995)},
		},
	}
}

// Histogram holds counts of trial risks. Edges has one more element than
// Counts.
type Histogram struct {
	Counts   []int     `json:"counts" yaml:"counts"`
	Edges    []float64 `json:"edges" yaml:"edges"`
	Total    int       `json:"total_simulations" yaml:"total_simulations"`
	MaxCount int       `json:"max_count" yaml:"max_count"`
}

// Statistics describes the shape of a risk distribution.
type Statistics struct {
	Mean         float64 `json:"mean" yaml:"mean"`
	Median       float64 `json:"median" yaml:"median"`
	P5           float64 `json:"p5" yaml:"p5"`
	P25          float64 `json:"p25" yaml:"p25"`
	P75          float64 `json:"p75" yaml:"p75"`
	P95          float64 `json:"p95" yaml:"p95"`
	StdDev       float64 `json:"std" yaml:"std"`
	Skewness     float64 `json:"skewness" yaml:"skewness"`
	PctAboveMean float64 `json:"pct_above_mean" yaml:"pct_above_mean"`
	PctAboveP95  float64 `json:"pct_above_p95" yaml:"pct_above_p95"`
}

// Axis is the suggested display range of a risk histogram.
type Axis struct {
	Min          float64 `json:"x_min" yaml:"x_min"`
	Max          float64 `json:"x_max" yaml:"x_max"`
	TickInterval float64 `json:"tick_interval" yaml:"tick_interval"`
	XLabel       string  `json:"x_label" yaml:"x_label"`
	YLabel       string  `json:"y_label" yaml:"y_label"`
}

// Interpretation holds plain-language descriptions of a risk distribution.
type Interpretation struct {
	TypicalRange           string `json:"typical_range" yaml:"typical_range"`
	ExtremeScenarios       string `json:"extreme_scenarios" yaml:"extreme_scenarios"`
	Summary                string `json:"summary" yaml:"summary"`
	UncertaintyExplanation string `json:"uncertainty_explanation" yaml:"uncertainty_explanation"`
}

// Distribution describes the spread of trial risks for display.
type Distribution struct {
	Histogram      Histogram      `json:"histogram" yaml:"histogram"`
	Statistics     Statistics     `json:"statistics" yaml:"statistics"`
	Axis           Axis           `json:"axis_config" yaml:"axis_config"`
	Interpretation Interpretation `json:"interpretation" yaml:"interpretation"`
	Method         string         `json:"method" yaml:"method"`
}

const (
	targetBins = 20
	maxBins    = 200
)

// NewDistribution builds a histogram, statistics, and interpretation of
// risks. Risks outside the display axis are counted in the nearest end
// bin, so the counts sum to len(risks). It returns
// ErrDegenerateDistribution if risks are all equal.
func NewDistribution(risks []float64) (*Distribution, error) {
	if len(risks) == 0 {
		return nil, fmt.Errorf("exposure: no risks to summarize")
	}
	x := sorted(risks)
	n := len(x)
	if x[0] < 0 || x[n-1] > 1 || math.IsNaN(x[0]) || math.IsNaN(x[n-1]) {
		return nil, fmt.Errorf("exposure: risks must be between 0 and 1, have [%g, %g]", x[0], x[n-1])
	}
	if x[0] == x[n-1] {
		return nil, ErrDegenerateDistribution
	}

	q := func(p float64) float64 { return percentile(p, x) }
	mean, variance := stat.MeanVariance(x, nil)
	st := Statistics{
		Mean:     mean,
		Median:   q(0.5),
		P5:       q(0.05),
		P25:      q(0.25),
		P75:      q(0.75),
		P95:      q(0.95),
		StdDev:   math.Sqrt(variance * float64(n-1) / float64(n)),
		Skewness: stat.Skew(x, nil),
	}
	var aboveMean, aboveP95 int
	for _, v := range x {
		if v > st.Mean {
			aboveMean++
		}
		if v > st.P95 {
			aboveP95++
		}
	}
	st.PctAboveMean = 100 * float64(aboveMean) / float64(n)
	st.PctAboveP95 = 100 * float64(aboveP95) / float64(n)

	axis := newAxis(st.P5, st.P95, x[0], x[n-1])
	h, err := newHistogram(x, axis.Min, axis.Max)
	if err != nil {
		return nil, err
	}
	return &Distribution{
		Histogram:      h,
		Statistics:     st,
		Axis:           axis,
		Interpretation: interpret(st),
		Method:         "Monte Carlo simulation with Bayesian parameter uncertainty",
	}, nil
}

// newAxis frames the 5th to 95th percentiles with padding, falling back
// to the full range [min, max] when the percentiles coincide at zero.
func newAxis(p5, p95, min, max float64) Axis {
	a := Axis{
		Min:    math.Max(0, p5*0.8),
		Max:    p95 * 1.2,
		XLabel: "Infection Risk (%)",
		YLabel: "Number of Scenarios",
	}
	if !(a.Max > a.Min) {
		a.Min, a.Max = min, max
	}
	switch {
	case a.Max < 0.01:
		a.TickInterval = 0.001
	case a.Max < 0.1:
		a.TickInterval = 0.01
	default:
		a.TickInterval = 0.05
	}
	return a
}

// binWidth rounds w to a readable increment: 0.01% below 0.1%, 0.1% below
// 1%, and 1% otherwise. Widths that would round to zero keep one
// significant figure.
func binWidth(w float64) float64 {
	var r float64
	switch {
	case w < 0.001:
		r = math.Round(w*1.e4) / 1.e4
	case w < 0.01:
		r = math.Round(w*1.e3) / 1.e3
	default:
		r = math.Round(w*100) / 100
	}
	if r > 0 {
		return r
	}
	p := math.Pow(10, math.Floor(math.Log10(w)))
	return math.Round(w/p) * p
}

func newHistogram(x []float64, min, max float64) (Histogram, error) {
	w := binWidth((max - min) / targetBins)
	if !(w > 0) {
		return Histogram{}, ErrDegenerateDistribution
	}
	nbins := int(math.Ceil((max-min)/w - 1.e-9))
	if nbins < 1 {
		nbins = 1
	}
	if nbins > maxBins {
		nbins = targetBins
		w = (max - min) / targetBins
	}
	h := Histogram{
		Counts: make([]int, nbins),
		Edges:  make([]float64, nbins+1),
		Total:  len(x),
	}
	for i := range h.Edges {
		h.Edges[i] = min + float64(i)*w
	}
	for _, v := range x {
		i := int(math.Floor((v - min) / w))
		if i < 0 {
			i = 0
		} else if i >= nbins {
			i = nbins - 1
		}
		h.Counts[i]++
	}
	for _, c := range h.Counts {
		if c > h.MaxCount {
			h.MaxCount = c
		}
	}
	return h, nil
}

func interpret(st Statistics) Interpretation {
	return Interpretation{
		TypicalRange: fmt.Sprintf("%.1f%% - %.1f%%", st.P25*100, st.P75*100),
		ExtremeScenarios: fmt.Sprintf("%.0f%% of scenarios above %.1f%%",
			st.PctAboveP95, st.P95*100),
		Summary: fmt.Sprintf("Most scenarios cluster around %.1f%%, with typical variation between %.1f%% and %.1f%%",
			st.Mean*100, st.P25*100, st.P75*100),
		UncertaintyExplanation: "This variation reflects biological differences between people " +
			"(viral loads, breathing patterns) and epidemiological uncertainty, not model error.",
	}
}

// percentile returns the p quantile of the sorted values x, interpolating
// linearly between the closest ranks at h = (n-1)p. The median of an
// even number of values is the mean of the middle two.
func percentile(p float64, x []float64) float64 {
	h := float64(len(x)-1) * p
	i := int(math.Floor(h))
	if i >= len(x)-1 {
		return x[len(x)-1]
	}
	if i < 0 {
		return x[0]
	}
	return x[i] + (h-float64(i))*(x[i+1]-x[i])
}

// sorted returns a sorted copy of x.
func sorted(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}
