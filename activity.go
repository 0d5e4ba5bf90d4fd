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
	"strings"
)

// Vocalization is the vocal activity of an emitting occupant.
type Vocalization int

// Vocalization categories.
const (
	Breathing Vocalization = iota
	Speaking
	LoudSpeaking
)

var vocalizationNames = map[string]Vocalization{
	"breathing":       Breathing,
	"just_breathing":  Breathing,
	"speaking":        Speaking,
	"loudly_speaking": LoudSpeaking,
	"loud_speaking":   LoudSpeaking,
	"shouting":        LoudSpeaking,
}

// ParseVocalization returns the vocalization with the given name.
// An empty name returns Speaking.
func ParseVocalization(s string) (Vocalization, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Speaking, nil
	}
	v, ok := vocalizationNames[s]
	if !ok {
		return Speaking, fmt.Errorf("unknown vocal activity %q", s)
	}
	return v, nil
}

func (v Vocalization) String() string {
	switch v {
	case Breathing:
		return "breathing"
	case Speaking:
		return "speaking"
	case LoudSpeaking:
		return "loudly_speaking"
	default:
		return fmt.Sprintf("Vocalization(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Vocalization) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Vocalization) UnmarshalText(b []byte) error {
	var err error
	*v, err = ParseVocalization(string(b))
	return err
}

// PhysicalActivity is the level of exertion of an occupant, which sets
// their breathing rate.
type PhysicalActivity int

// Physical activity levels.
const (
	Sitting PhysicalActivity = iota
	Standing
	LightActivity
	ModerateActivity
	HeavyActivity
)

var activityNames = map[string]PhysicalActivity{
	"sitting":           Sitting,
	"seated":            Sitting,
	"standing":          Standing,
	"light":             LightActivity,
	"light_exercise":    LightActivity,
	"moderate":          ModerateActivity,
	"moderate_exercise": ModerateActivity,
	"heavy":             HeavyActivity,
	"high_intensity":    HeavyActivity,
}

// breathingRates holds the median breathing rate [m³/h] and the standard
// deviation of its logarithm for each activity level, from Table 1 of
// Henriques et al. (2022).
var breathingRates = [...]struct{ median, sigma float64 }{
	Sitting:          {0.51, 0.053},
	Standing:         {0.57, 0.053},
	LightActivity:    {1.24, 0.12},
	ModerateActivity: {1.77, 0.34},
	HeavyActivity:    {3.28, 0.72},
}

// ParsePhysicalActivity returns the activity level with the given name.
// An empty name returns Standing.
func ParsePhysicalActivity(s string) (PhysicalActivity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Standing, nil
	}
	a, ok := activityNames[s]
	if !ok {
		return Standing, fmt.Errorf("unknown physical activity %q", s)
	}
	return a, nil
}

// BreathingRate returns the median breathing rate [m³/h] for the activity.
func (a PhysicalActivity) BreathingRate() float64 { return breathingRates[a.valid()].median }

// logBreathingRate returns the parameters of the lognormal breathing-rate
// distribution for the activity.
func (a PhysicalActivity) logBreathingRate() (mu, sigma float64) {
	r := breathingRates[a.valid()]
	return math.Log(r.median), r.sigma
}

func (a PhysicalActivity) valid() PhysicalActivity {
	if a < Sitting || a > HeavyActivity {
		return Standing
	}
	return a
}

func (a PhysicalActivity) String() string {
	switch a {
	case Sitting:
		return "sitting"
	case Standing:
		return "standing"
	case LightActivity:
		return "light"
	case ModerateActivity:
		return "moderate"
	case HeavyActivity:
		return "heavy"
	default:
		return fmt.Sprintf("PhysicalActivity(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a PhysicalActivity) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *PhysicalActivity) UnmarshalText(b []byte) error {
	var err error
	*a, err = ParsePhysicalActivity(string(b))
	return err
}

// ImmuneStatus describes whether infectious occupants are
// immunocompromised, which raises how much virus they shed.
type ImmuneStatus int

// Immune status tiers. ImmuneUnsure blends the Normal and Moderate tiers
// with equal weight.
const (
	ImmuneNormal ImmuneStatus = iota
	ImmuneModerate
	ImmuneSevere
	ImmuneUnsure
)

var immuneNames = map[string]ImmuneStatus{
	"normal":   ImmuneNormal,
	"no":       ImmuneNormal,
	"moderate": ImmuneModerate,
	"yes":      ImmuneModerate,
	"severe":   ImmuneSevere,
	"unsure":   ImmuneUnsure,
}

// ParseImmuneStatus returns the immune status with the given name.
// An empty name returns ImmuneNormal.
func ParseImmuneStatus(s string) (ImmuneStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ImmuneNormal, nil
	}
	st, ok := immuneNames[s]
	if !ok {
		return ImmuneNormal, fmt.Errorf("unknown immunocompromised status %q", s)
	}
	return st, nil
}

// EmissionMultiplier returns the factor by which viral emissions are
// raised for this status. ImmuneUnsure has no multiplier of its own and
// returns 1.
func (s ImmuneStatus) EmissionMultiplier() float64 {
	switch s {
	case ImmuneModerate:
		return 8
	case ImmuneSevere:
		return 20
	default:
		return 1
	}
}

func (s ImmuneStatus) String() string {
	switch s {
	case ImmuneNormal:
		return "normal"
	case ImmuneModerate:
		return "moderate"
	case ImmuneSevere:
		return "severe"
	case ImmuneUnsure:
		return "unsure"
	default:
		return fmt.Sprintf("ImmuneStatus(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ImmuneStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ImmuneStatus) UnmarshalText(b []byte) error {
	var err error
	*s, err = ParseImmuneStatus(string(b))
	return err
}

// activityLabels are display labels for the legacy activity choice.
var activityLabels = map[int]string{
	1: "Sedentary/Passive",
	2: "Standard",
	3: "Light",
	4: "Moderate",
	5: "Intense",
}

// ActivityLabel returns the display label for legacy activity choice c
// (1-5). Choices outside that range are treated as 2.
func ActivityLabel(c int) string {
	if l, ok := activityLabels[c]; ok {
		return l
	}
	return activityLabels[2]
}
