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
)

// Inputs are the validated settings of one exposure scenario.
// Struct tags hold the form keys used by ParseForm.
type Inputs struct {
	// QuantaConcentration [quanta/L], ExhalationFlow [L/s], InhalationFlow
	// [L/s], and Gamma are parameters of the Wells-Riley model. They do not
	// affect the simulation and are echoed in the result.
	QuantaConcentration float64 `json:"C0" yaml:"C0" toml:"C0"`
	ExhalationFlow      float64 `json:"Q0" yaml:"Q0" toml:"Q0"`
	InhalationFlow      float64 `json:"p" yaml:"p" toml:"p"`
	Gamma               float64 `json:"gamma" yaml:"gamma" toml:"gamma"`

	// ExhalationFactor is the fraction of exhaled particles that pass
	// through the mask of a masked infectious occupant.
	ExhalationFactor float64 `json:"f_e" yaml:"f_e" toml:"f_e"`

	// InhalationFactor is the fraction of inhaled particles that pass
	// through the mask of the exposed person.
	InhalationFactor float64 `json:"f_i" yaml:"f_i" toml:"f_i"`

	// Transmissibility is the nominal transmissibility multiplier of the
	// circulating variant. Trials sample their own multiplier.
	Transmissibility float64 `json:"omicron" yaml:"omicron" toml:"omicron"`

	// ACH is the ventilation rate [air changes per hour].
	ACH float64 `json:"ACH" yaml:"ACH" toml:"ACH"`

	// RoomVolume [m³].
	RoomVolume float64 `json:"room_volume" yaml:"room_volume" toml:"room_volume"`

	// Duration of the exposure [s].
	Duration float64 `json:"delta_t" yaml:"delta_t" toml:"delta_t"`

	// Distance between the exposed person and the other occupants [m].
	Distance float64 `json:"x" yaml:"x" toml:"x"`

	// Prevalence of infection among occupants [percent].
	Prevalence float64 `json:"covid_prevalence" yaml:"covid_prevalence" toml:"covid_prevalence"`

	// Immunity is the susceptibility of the exposed person relative to an
	// immunologically naive person [0-1]; 1 means no protection.
	Immunity float64 `json:"immune" yaml:"immune" toml:"immune"`

	// Occupants is the number of other people in the room.
	Occupants int `json:"N" yaml:"N" toml:"N"`

	// MaskedFraction is the fraction of occupants wearing masks [0-1].
	MaskedFraction float64 `json:"percentage_masked" yaml:"percentage_masked" toml:"percentage_masked"`

	// ActivityChoice is the legacy activity intensity (1-5), used only
	// for the display label.
	ActivityChoice int `json:"activity_choice" yaml:"activity_choice" toml:"activity_choice"`

	UserActivity       PhysicalActivity `json:"user_physical_activity" yaml:"user_physical_activity" toml:"user_physical_activity"`
	OthersActivity     PhysicalActivity `json:"others_physical_activity" yaml:"others_physical_activity" toml:"others_physical_activity"`
	OthersVocalization Vocalization     `json:"others_vocal_activity" yaml:"others_vocal_activity" toml:"others_vocal_activity"`

	// RelativeHumidity [0-1].
	RelativeHumidity float64 `json:"RH" yaml:"RH" toml:"RH"`

	// CO2 is the indoor carbon dioxide concentration [ppm].
	CO2 float64 `json:"CO2" yaml:"CO2" toml:"CO2"`

	// Temperature is the indoor temperature [K].
	Temperature float64 `json:"inside_temp" yaml:"inside_temp" toml:"inside_temp"`

	ImmuneStatus ImmuneStatus `json:"immunocompromised_status" yaml:"immunocompromised_status" toml:"immunocompromised_status"`
}

// DefaultInputs returns the inputs used when no values are supplied.
func DefaultInputs() Inputs {
	return Inputs{
		QuantaConcentration: 0.1,
		ExhalationFlow:      0.1,
		InhalationFlow:      0.1,
		Gamma:               0.5,
		ExhalationFactor:    1,
		InhalationFactor:    1,
		Transmissibility:    4.20,
		ACH:                 1,
		RoomVolume:          1000,
		Duration:            42,
		Distance:            0.7,
		Prevalence:          1,
		Immunity:            1,
		Occupants:           1,
		MaskedFraction:      0,
		ActivityChoice:      2,
		UserActivity:        Standing,
		OthersActivity:      Standing,
		OthersVocalization:  Speaking,
		RelativeHumidity:    0.40,
		CO2:                 800,
		Temperature:         293.15,
		ImmuneStatus:        ImmuneNormal,
	}
}

// Validate checks that every value is finite and within its physical
// range. It returns a *ValidationError for the first violation.
func (in *Inputs) Validate() error {
	values := []struct {
		key string
		v   float64
	}{
		{"C0", in.QuantaConcentration},
		{"Q0", in.ExhalationFlow},
		{"p", in.InhalationFlow},
		{"gamma", in.Gamma},
		{"f_e", in.ExhalationFactor},
		{"f_i", in.InhalationFactor},
		{"omicron", in.Transmissibility},
		{"ACH", in.ACH},
		{"room_volume", in.RoomVolume},
		{"delta_t", in.Duration},
		{"x", in.Distance},
		{"covid_prevalence", in.Prevalence},
		{"immune", in.Immunity},
		{"percentage_masked", in.MaskedFraction},
		{"RH", in.RelativeHumidity},
		{"CO2", in.CO2},
		{"inside_temp", in.Temperature},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ValidationError{Field: f.key, Value: fmt.Sprint(f.v)}
		}
	}

	nonNegative := []struct {
		key string
		v   float64
	}{
		{"f_e", in.ExhalationFactor},
		{"f_i", in.InhalationFactor},
		{"ACH", in.ACH},
		{"delta_t", in.Duration},
		{"x", in.Distance},
		{"immune", in.Immunity},
		{"CO2", in.CO2},
		{"N", float64(in.Occupants)},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return &ValidationError{Field: f.key, Value: fmt.Sprint(f.v), Reason: "must not be negative"}
		}
	}
	switch {
	case !(in.RoomVolume > 0):
		return &ValidationError{Field: "room_volume", Value: fmt.Sprint(in.RoomVolume), Reason: "must be greater than zero"}
	case !(in.Temperature > 0):
		return &ValidationError{Field: "inside_temp", Value: fmt.Sprint(in.Temperature), Reason: "must be greater than zero"}
	case in.Prevalence < 0 || in.Prevalence > 100:
		return &ValidationError{Field: "covid_prevalence", Value: fmt.Sprint(in.Prevalence), Reason: "must be between 0 and 100"}
	case in.MaskedFraction < 0 || in.MaskedFraction > 1:
		return &ValidationError{Field: "percentage_masked", Value: fmt.Sprint(in.MaskedFraction), Reason: "must be between 0 and 1"}
	case in.RelativeHumidity < 0 || in.RelativeHumidity > 1:
		return &ValidationError{Field: "RH", Value: fmt.Sprint(in.RelativeHumidity), Reason: "must be between 0 and 1"}
	}
	return nil
}

// PrevalenceFraction returns the prevalence as a fraction [0-1].
func (in *Inputs) PrevalenceFraction() float64 { return in.Prevalence / 100 }

// ExpectedInfectious returns the expected number of infectious occupants.
func (in *Inputs) ExpectedInfectious() float64 {
	return float64(in.Occupants) * in.PrevalenceFraction()
}

// MaskedOccupants returns the number of masked and unmasked occupants.
func (in *Inputs) MaskedOccupants() (masked, unmasked int) {
	masked = int(math.Floor(float64(in.Occupants) * in.MaskedFraction))
	return masked, in.Occupants - masked
}

// EffectiveVentilation returns the room ventilation rate [L/s].
func (in *Inputs) EffectiveVentilation() float64 {
	return in.ACH * in.RoomVolume * 1000 / 3600
}
