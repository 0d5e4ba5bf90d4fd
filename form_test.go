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
	"errors"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"
)

func TestParseFormDefaults(t *testing.T) {
	in, err := ParseForm(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(*in, DefaultInputs()); len(diff) > 0 {
		t.Errorf("defaults differ: %v", diff)
	}
	blank := make(map[string]string)
	for _, k := range FormKeys {
		blank[k] = "  "
	}
	in, err = ParseForm(blank)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(*in, DefaultInputs()); len(diff) > 0 {
		t.Errorf("blank values differ from defaults: %v", diff)
	}
}

func TestParseForm(t *testing.T) {
	in, err := ParseForm(map[string]string{
		"room_volume":              " 250 ",
		"N":                        "3.0",
		"covid_prevalence":         "5",
		"percentage_masked":        "0.5",
		"activity_choice":          "4",
		"user_physical_activity":   "heavy",
		"others_physical_activity": "sitting",
		"others_vocal_activity":    "loudly_speaking",
		"immunocompromised_status": "severe",
		"RH":                       "0.6",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultInputs()
	want.RoomVolume = 250
	want.Occupants = 3
	want.Prevalence = 5
	want.MaskedFraction = 0.5
	want.ActivityChoice = 4
	want.UserActivity = HeavyActivity
	want.OthersActivity = Sitting
	want.OthersVocalization = LoudSpeaking
	want.ImmuneStatus = ImmuneSevere
	want.RelativeHumidity = 0.6
	if diff := pretty.Diff(*in, want); len(diff) > 0 {
		t.Errorf("inputs differ: %v", diff)
	}
}

func TestParseFormActivityChoice(t *testing.T) {
	for _, s := range []string{"0", "6", "x", "2.5"} {
		in, err := ParseForm(map[string]string{"activity_choice": s})
		if err != nil {
			t.Fatal(err)
		}
		if in.ActivityChoice != 2 {
			t.Errorf("%q: activity choice %d", s, in.ActivityChoice)
		}
	}
}

func TestParseFormInvalid(t *testing.T) {
	var tests = []struct {
		key, value string
		message    string
	}{
		{key: "room_volume", value: "abc", message: InvalidInputMessage},
		{key: "ACH", value: "NaN", message: InvalidInputMessage},
		{key: "delta_t", value: "Inf", message: InvalidInputMessage},
		{key: "N", value: "2.5", message: InvalidInputMessage},
		{key: "N", value: "-2", message: "Invalid input; N must not be negative."},
		{key: "room_volume", value: "0", message: "Invalid input; room_volume must be greater than zero."},
		{key: "covid_prevalence", value: "101", message: "Invalid input; covid_prevalence must be between 0 and 100."},
		{key: "RH", value: "1.5", message: "Invalid input; RH must be between 0 and 1."},
		{key: "user_physical_activity", value: "juggling", message: "Invalid input; user_physical_activity is not a recognized activity."},
		{key: "immunocompromised_status", value: "fine", message: "Invalid input; immunocompromised_status is not a recognized status."},
	}
	for _, test := range tests {
		t.Run(test.key+"="+test.value, func(t *testing.T) {
			_, err := ParseForm(map[string]string{test.key: test.value})
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != test.message {
				t.Errorf("have %q, want %q", err.Error(), test.message)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("%v does not match ErrInvalidInput", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != test.key {
				t.Errorf("error field: %+v", verr)
			}
		})
	}
}

func TestEvaluateError(t *testing.T) {
	r := Evaluate(context.Background(), map[string]string{"room_volume": "abc"})
	if r.Result != nil || r.Err == nil {
		t.Fatalf("response: %+v", r)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m["error"] != InvalidInputMessage {
		t.Errorf("error body: %s", b)
	}

	y, err := yaml.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(y), "error: ") {
		t.Errorf("yaml error body: %s", y)
	}
}

func TestEvaluate(t *testing.T) {
	r := Evaluate(context.Background(), map[string]string{"N": "4", "covid_prevalence": "10"},
		WithSeed(2), WithTrials(200))
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"risk", "median", "percentiles", "risk_distribution", "q_e", "activity_label", "N_masked", "N_unmasked", "n_simulations", "inputs"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("successful response has an error key")
	}
	inputs := m["inputs"].(map[string]interface{})
	if inputs["others_vocal_activity"] != "speaking" {
		t.Errorf("echoed vocal activity: %v", inputs["others_vocal_activity"])
	}
}
