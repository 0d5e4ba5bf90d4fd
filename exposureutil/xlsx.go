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
	"fmt"
	"sort"

	"github.com/spatialmodel/exposure"
	"github.com/tealeg/xlsx"
)

// Spreadsheet sheet names.
const (
	summarySheet   = "Summary"
	histogramSheet = "Histogram"
)

// saveSpreadsheet saves the summary of r and its risk histogram, if any,
// to an Excel file at path.
func saveSpreadsheet(r *exposure.Result, path string) error {
	f, err := resultSpreadsheet(r)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("exposure: saving spreadsheet: %v", err)
	}
	return nil
}

func resultSpreadsheet(r *exposure.Result) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	addRow := func(name string, v float64) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetFloat(v)
	}
	header := sheet.AddRow()
	header.AddCell().SetString("Variable")
	header.AddCell().SetString("Value")

	vars := r.OutputVariables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		addRow(name, vars[name].(float64))
	}
	outputs := make([]string, 0, len(r.Outputs))
	for name := range r.Outputs {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)
	for _, name := range outputs {
		addRow(name, r.Outputs[name])
	}

	d := r.Distribution
	if d == nil {
		return f, nil
	}
	hist, err := f.AddSheet(histogramSheet)
	if err != nil {
		return nil, err
	}
	header = hist.AddRow()
	for _, s := range []string{"Lower edge", "Upper edge", "Count"} {
		header.AddCell().SetString(s)
	}
	for i, c := range d.Histogram.Counts {
		row := hist.AddRow()
		row.AddCell().SetFloat(d.Histogram.Edges[i])
		row.AddCell().SetFloat(d.Histogram.Edges[i+1])
		row.AddCell().SetInt(c)
	}
	return f, nil
}
