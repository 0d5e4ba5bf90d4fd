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

// Package epi holds dose-response functions relating an inhaled dose of
// infectious virus to the probability of infection.
package epi

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DoseResponse is an interface for any type that can calculate the
// probability of infection caused by dose [infectious respiratory particles].
type DoseResponse interface {
	Risk(dose float64) float64
	Name() string
}

// Exponential implements the single-hit exponential dose-response model
//
//	P(dose) = 1 - exp(-dose / Threshold)
//
// as used in:
//
// Henriques A, Mounet N, Aleixo L, et al. (2022). Modelling airborne
// transmission of SARS-CoV-2 using CARA: risk assessment for enclosed
// spaces. Interface Focus 12: 20210076.
type Exponential struct {
	// Threshold is the dose at which the probability of infection is
	// 1 - 1/e (ID63).
	Threshold float64

	// Label is the name of the function.
	Label string
}

// Risk calculates the probability of infection caused by dose.
// A non-positive threshold means any positive dose causes infection.
func (e Exponential) Risk(dose float64) float64 {
	if !(dose > 0) {
		return 0
	}
	if !(e.Threshold > 0) {
		return 1
	}
	return -math.Expm1(-dose / e.Threshold)
}

// Name returns the label for this function.
func (e Exponential) Name() string { return e.Label }

// ID63 returns the dose with a 63% probability of infection
// given the median infectious dose id50.
func ID63(id50 float64) float64 { return id50 / math.Ln2 }

// The median infectious dose is uncertain and is drawn uniformly from
// this range [IRP].
const (
	MinID50 = 10.
	MaxID50 = 100.
)

// SampleID50 draws a median infectious dose [IRP] from src.
func SampleID50(src rand.Source) float64 {
	return distuv.Uniform{Min: MinID50, Max: MaxID50, Src: src}.Rand()
}

// ProtectionFactor describes the multiplicative inflation of the
// infectious dose threshold conferred by immunity. Factors are drawn
// from a lognormal distribution centered on 1/Immunity.
type ProtectionFactor struct {
	// Immunity is the susceptibility of the exposed person relative to an
	// immunologically naive person [0-1]; 1 means no protection.
	Immunity float64

	// Sigma is the standard deviation of the log of the factor.
	Sigma float64

	// Max caps the factor.
	Max float64
}

// DefaultProtection returns the protection-factor distribution for the
// given immunity.
func DefaultProtection(immunity float64) ProtectionFactor {
	return ProtectionFactor{Immunity: immunity, Sigma: 0.2, Max: 50}
}

// Rand draws a protection factor from src. A non-positive immunity
// yields Max.
func (p ProtectionFactor) Rand(src rand.Source) float64 {
	if !(p.Immunity > 0) {
		return p.Max
	}
	pf := distuv.LogNormal{Mu: -math.Log(p.Immunity), Sigma: p.Sigma, Src: src}.Rand()
	return math.Min(pf, p.Max)
}

// TrialRisk returns the probability of infection from dose for a person
// with median infectious dose id50 and protection factor pf.
func TrialRisk(dose, id50, pf float64) float64 {
	return Exponential{Threshold: ID63(id50) * pf}.Risk(dose)
}
