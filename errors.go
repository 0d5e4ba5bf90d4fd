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
)

// InvalidInputMessage is the message returned to callers when an input
// value is not a number.
const InvalidInputMessage = "Invalid input; please enter numeric values."

var (
	// ErrInvalidInput matches every input validation error.
	ErrInvalidInput = errors.New("exposure: invalid input")

	// ErrDegenerateDistribution is returned when a set of trial risks
	// has no spread from which to build a histogram.
	ErrDegenerateDistribution = errors.New("exposure: degenerate risk distribution")
)

// ValidationError reports an input field that could not be parsed or is
// outside its allowed range. No trials are run when a ValidationError
// occurs.
type ValidationError struct {
	// Field is the form key of the offending input.
	Field string

	// Value is the value as it was supplied.
	Value string

	// Reason describes the allowed range. It is empty when Value
	// could not be parsed as a number.
	Reason string
}

// Error returns the message to be shown to the caller.
func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return InvalidInputMessage
	}
	return fmt.Sprintf("Invalid input; %s %s.", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
