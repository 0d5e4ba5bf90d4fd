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

package exposureutil

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/exposure"
	"gopkg.in/yaml.v3"
)

var formats = []string{"json", "yaml", "text"}

// checkFormat makes sure the output format is one that we know how to
// write.
func checkFormat(format string) error {
	for _, f := range formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("exposure: output format must be one of %v, have %q", formats, format)
}

// writeResponse writes resp to w in the given format.
func writeResponse(w io.Writer, resp exposure.Response, format string) error {
	switch format {
	case "json":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(resp)
	case "yaml":
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(resp); err != nil {
			return err
		}
		return e.Close()
	case "text":
		return writeText(w, resp)
	default:
		return checkFormat(format)
	}
}

// writeText writes a human-readable summary of resp.
func writeText(w io.Writer, resp exposure.Response) error {
	if resp.Err != nil {
		_, err := fmt.Fprintf(w, "error: %v\n", resp.Err)
		return err
	}
	r := resp.Result
	pct := func(v float64) string { return fmt.Sprintf("%.4g%%", v*100) }

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Mean risk\t%s\n", pct(r.Risk))
	fmt.Fprintf(tw, "Median risk\t%s\n", pct(r.Median))
	fmt.Fprintf(tw, "50%% interval\t%s - %s\n", pct(r.Bands.CI50.Low), pct(r.Bands.CI50.High))
	fmt.Fprintf(tw, "90%% interval\t%s - %s\n", pct(r.Bands.CI90.Low), pct(r.Bands.CI90.High))
	fmt.Fprintf(tw, "99%% interval\t%s - %s\n", pct(r.Bands.CI99.Low), pct(r.Bands.CI99.High))
	fmt.Fprintf(tw, "Trials\t%d\n", r.Trials)
	fmt.Fprintf(tw, "Expected infectious\t%.3g\n", r.ExpectedInfectious)
	fmt.Fprintf(tw, "Occupants masked/unmasked\t%d/%d\n", r.Masked, r.Unmasked)
	fmt.Fprintf(tw, "Ventilation\t%.4g L/s\n", r.EffectiveVentilation)
	fmt.Fprintf(tw, "Activity\t%s\n", r.ActivityLabel)
	fmt.Fprintf(tw, "Near field\t%s regime, dilution %.3g\n", r.NearField.Stage, r.NearField.Dilution)
	if r.Repeated != nil {
		fmt.Fprintf(tw, "Risk after %d exposures\t%s\n", r.Repeated.Exposures, pct(r.Repeated.Risk))
	}
	if d := r.Distribution; d != nil {
		fmt.Fprintf(tw, "Typical range\t%s\n", d.Interpretation.TypicalRange)
		fmt.Fprintf(tw, "Extreme scenarios\t%s\n", d.Interpretation.ExtremeScenarios)
	}
	fmt.Fprintf(tw, "Seed\t%d\n", r.Seed)
	return tw.Flush()
}

// newLogger returns a logger writing timestamped text to w.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
