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

import "github.com/sirupsen/logrus"

// Names of the events emitted during a simulation.
const (
	EventInputs              = "inputs"
	EventTrials              = "trials"
	EventFirstTrial          = "first_trial"
	EventSummary             = "summary"
	EventDistributionFailure = "distribution_failed"
	EventComplete            = "complete"
)

// Fields are named values attached to an Event.
type Fields map[string]interface{}

// Event is a named point in the progress of a simulation.
type Event struct {
	Name   string
	Run    string
	Fields Fields
}

// Observer receives events as a simulation progresses. Observe may be
// called from more than one goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc is a function that implements Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// LogObserver returns an Observer that writes events to l. Completion
// is logged at the info level and everything else at the debug level.
func LogObserver(l logrus.FieldLogger) Observer {
	return ObserverFunc(func(e Event) {
		entry := l.WithFields(logrus.Fields(e.Fields)).WithField("run", e.Run)
		switch e.Name {
		case EventComplete:
			entry.Info(e.Name)
		case EventDistributionFailure:
			entry.Warn(e.Name)
		default:
			entry.Debug(e.Name)
		}
	})
}
