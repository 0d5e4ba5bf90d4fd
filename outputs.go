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

	"github.com/Knetic/govaluate"
)

// OutputVariables returns the result values available to derived output
// expressions, keyed by variable name.
func (r *Result) OutputVariables() map[string]interface{} {
	return map[string]interface{}{
		"risk":                r.Risk,
		"median":              r.Median,
		"p0_5":                r.Bands.CI99.Low,
		"p5":                  r.Bands.CI90.Low,
		"p25":                 r.Bands.CI50.Low,
		"p75":                 r.Bands.CI50.High,
		"p95":                 r.Bands.CI90.High,
		"p99_5":               r.Bands.CI99.High,
		"trials":              float64(r.Trials),
		"expected_infectious": r.ExpectedInfectious,
		"q_e":                 r.EffectiveVentilation,
		"N":                   float64(r.Inputs.Occupants),
		"N_masked":            float64(r.Masked),
		"N_unmasked":          float64(r.Unmasked),
		"delta_t":             r.Inputs.Duration,
		"room_volume":         r.RoomVolume,
		"ACH":                 r.ACH,
		"x":                   r.Inputs.Distance,
		"Sx":                  r.NearField.Dilution,
	}
}

// outputFunctions are the functions available to derived output
// expressions:
//
// 'exp(x)' applies the exponential function e^x.
//
// 'cumulative(r, n)' is the probability of at least one infection in n
// independent exposures with risk r.
//
// 'min(a, b)' and 'max(a, b)' return the smaller and larger argument.
var outputFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("exp", 1, arg)
		if err != nil {
			return nil, err
		}
		return math.Exp(x[0]), nil
	},
	"cumulative": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("cumulative", 2, arg)
		if err != nil {
			return nil, err
		}
		return CumulativeRisk(x[0], int(x[1])), nil
	},
	"min": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("min", 2, arg)
		if err != nil {
			return nil, err
		}
		return math.Min(x[0], x[1]), nil
	},
	"max": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("max", 2, arg)
		if err != nil {
			return nil, err
		}
		return math.Max(x[0], x[1]), nil
	},
}

// floatArgs checks that function name was called with n numeric arguments.
func floatArgs(name string, n int, arg []interface{}) ([]float64, error) {
	if len(arg) != n {
		return nil, fmt.Errorf("exposure: got %d arguments for function '%s', but needs %d", len(arg), name, n)
	}
	x := make([]float64, n)
	for i, a := range arg {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("exposure: argument %d of function '%s' is %v (%T), but needs a number", i+1, name, a, a)
		}
		x[i] = v
	}
	return x, nil
}

// Derive evaluates the expressions in outputs, keyed by output name,
// against r's OutputVariables and stores the values in r.Outputs.
// For example, {"expected_cases": "risk * 30"} reports the expected number
// of infections among 30 people with the same exposure.
func (r *Result) Derive(outputs map[string]string) error {
	if len(outputs) == 0 {
		return nil
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := r.OutputVariables()
	derived := make(map[string]float64, len(outputs))
	for _, name := range names {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(outputs[name], outputFunctions)
		if err != nil {
			return fmt.Errorf("exposure: output %s: %v", name, err)
		}
		for _, v := range expr.Vars() {
			if _, ok := vars[v]; !ok {
				return fmt.Errorf("exposure: output %s: unknown variable %q", name, v)
			}
		}
		val, err := expr.Evaluate(vars)
		if err != nil {
			return fmt.Errorf("exposure: output %s: %v", name, err)
		}
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("exposure: output %s: expression %q is not numeric", name, outputs[name])
		}
		derived[name] = f
	}
	r.Outputs = derived
	return nil
}
