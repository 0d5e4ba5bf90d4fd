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

	"gonum.org/v1/gonum/floats"
)

// ParticleGrid is an ordered set of particle diameters [μm] and the
// width [μm] of the size bin each diameter represents.
type ParticleGrid struct {
	Diameters []float64
	Widths    []float64
}

// Particles is the particle grid used by default: 50 log-spaced
// diameters between 0.1 and 30 μm.
var Particles = mustParticleGrid(0.1, 30, 50)

// NewParticleGrid creates a grid of n log-spaced diameters between
// min and max [μm]. Interior bins extend halfway to their neighbors and
// end bins extend halfway to their single neighbor, so the widths sum to
// max-min.
func NewParticleGrid(min, max float64, n int) (*ParticleGrid, error) {
	if n < 2 {
		return nil, fmt.Errorf("exposure: particle grid needs at least 2 diameters, have %d", n)
	}
	if !(min > 0) || !(max > min) {
		return nil, fmt.Errorf("exposure: invalid particle grid range [%g, %g]", min, max)
	}
	g := &ParticleGrid{
		Diameters: floats.LogSpan(make([]float64, n), min, max),
		Widths:    make([]float64, n),
	}
	d := g.Diameters
	g.Widths[0] = (d[1] - d[0]) / 2
	g.Widths[n-1] = (d[n-1] - d[n-2]) / 2
	for i := 1; i < n-1; i++ {
		g.Widths[i] = (d[i+1] - d[i-1]) / 2
	}
	return g, nil
}

func mustParticleGrid(min, max float64, n int) *ParticleGrid {
	g, err := NewParticleGrid(min, max, n)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of diameters in the grid.
func (g *ParticleGrid) Len() int { return len(g.Diameters) }

// Range returns the smallest and largest diameters in the grid.
func (g *ParticleGrid) Range() (min, max float64) {
	return g.Diameters[0], g.Diameters[len(g.Diameters)-1]
}
