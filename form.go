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
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// FormKeys are the keys recognized by ParseForm.
var FormKeys = []string{
	"C0", "Q0", "p", "ACH", "room_volume", "delta_t", "x", "gamma",
	"f_e", "f_i", "omicron", "covid_prevalence", "immune", "N",
	"activity_choice", "percentage_masked", "user_physical_activity",
	"others_physical_activity", "others_vocal_activity", "RH", "CO2",
	"inside_temp", "immunocompromised_status",
}

// ParseForm converts string form values into validated Inputs.
// Missing or blank values take their defaults from DefaultInputs.
// A value that is not a finite number yields a *ValidationError whose
// message is InvalidInputMessage.
func ParseForm(values map[string]string) (*Inputs, error) {
	in := DefaultInputs()

	numeric := []struct {
		key string
		dst *float64
	}{
		{"C0", &in.QuantaConcentration},
		{"Q0", &in.ExhalationFlow},
		{"p", &in.InhalationFlow},
		{"ACH", &in.ACH},
		{"room_volume", &in.RoomVolume},
		{"delta_t", &in.Duration},
		{"x", &in.Distance},
		{"gamma", &in.Gamma},
		{"f_e", &in.ExhalationFactor},
		{"f_i", &in.InhalationFactor},
		{"omicron", &in.Transmissibility},
		{"covid_prevalence", &in.Prevalence},
		{"immune", &in.Immunity},
		{"percentage_masked", &in.MaskedFraction},
		{"RH", &in.RelativeHumidity},
		{"CO2", &in.CO2},
		{"inside_temp", &in.Temperature},
	}
	for _, f := range numeric {
		if err := parseFloat(values, f.key, f.dst); err != nil {
			return nil, err
		}
	}
	if err := parseInt(values, "N", &in.Occupants); err != nil {
		return nil, err
	}

	// The legacy activity choice only selects a label; anything
	// unrecognized falls back to the default.
	if c, err := cast.ToIntE(strings.TrimSpace(values["activity_choice"])); err == nil && c >= 1 && c <= 5 {
		in.ActivityChoice = c
	}

	var err error
	if in.UserActivity, err = ParsePhysicalActivity(values["user_physical_activity"]); err != nil {
		return nil, &ValidationError{Field: "user_physical_activity", Value: values["user_physical_activity"], Reason: "is not a recognized activity"}
	}
	if in.OthersActivity, err = ParsePhysicalActivity(values["others_physical_activity"]); err != nil {
		return nil, &ValidationError{Field: "others_physical_activity", Value: values["others_physical_activity"], Reason: "is not a recognized activity"}
	}
	if in.OthersVocalization, err = ParseVocalization(values["others_vocal_activity"]); err != nil {
		return nil, &ValidationError{Field: "others_vocal_activity", Value: values["others_vocal_activity"], Reason: "is not a recognized vocal activity"}
	}
	if in.ImmuneStatus, err = ParseImmuneStatus(values["immunocompromised_status"]); err != nil {
		return nil, &ValidationError{Field: "immunocompromised_status", Value: values["immunocompromised_status"], Reason: "is not a recognized status"}
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

func parseFloat(values map[string]string, key string, dst *float64) error {
	s := strings.TrimSpace(values[key])
	if s == "" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: key, Value: s}
	}
	*dst = v
	return nil
}

// parseInt accepts integers written in decimal, including a zero
// fractional part such as "3.0".
func parseInt(values map[string]string, key string, dst *int) error {
	s := strings.TrimSpace(values[key])
	if s == "" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) ||
		math.Abs(v) > math.MaxInt32 {
		return &ValidationError{Field: key, Value: s}
	}
	*dst = cast.ToInt(v)
	return nil
}

// Response is the outcome of evaluating a form: either a Result or an
// error, never both.
type Response struct {
	Result *Result
	Err    error
}

// Evaluate parses form values and runs the simulation.
func Evaluate(ctx context.Context, values map[string]string, opts ...Option) Response {
	in, err := ParseForm(values)
	if err != nil {
		return Response{Err: err}
	}
	r, err := Run(ctx, in, opts...)
	if err != nil {
		return Response{Err: err}
	}
	return Response{Result: r}
}

// errorBody is the single-key object reported for a failed evaluation.
type errorBody struct {
	Error string `json:"error" yaml:"error"`
}

// MarshalJSON encodes a failed response as {"error": message} and a
// successful one as its Result.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(errorBody{Error: r.Err.Error()})
	}
	return json.Marshal(r.Result)
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (r Response) MarshalYAML() (interface{}, error) {
	if r.Err != nil {
		return errorBody{Error: r.Err.Error()}, nil
	}
	return r.Result, nil
}
