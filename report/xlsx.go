/*
Copyright © 2019 the TOUCAN authors.
This file is part of TOUCAN.

TOUCAN is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

TOUCAN is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with TOUCAN.  If not, see <http://www.gnu.org/licenses/>.
*/

package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// WriteXLSX saves t as a sheet with the given name in a new Excel file at
// path. The first row of the sheet holds the column names.
func WriteXLSX(path, sheet string, t *Table) error {
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	if err != nil {
		return fmt.Errorf("report: creating Excel sheet: %v", err)
	}
	header := s.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}
	for _, row := range t.Rows {
		r := s.AddRow()
		for _, v := range row {
			r.AddCell().SetFloat(v)
		}
	}
	if err := f.Save(os.ExpandEnv(path)); err != nil {
		return fmt.Errorf("report: saving Excel file: %v", err)
	}
	return nil
}

// ReadXLSX reads a table from the named sheet of an Excel file, where the
// first row holds column names and the rest hold numbers. If sheet is
// empty, the first sheet in the file is used. Blank rows are skipped.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := xlsx.OpenFile(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("report: opening Excel file: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("report: Excel file %s has no sheets", path)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("report: reading table from Excel; no sheet %s", sheet)
		}
	}
	t := new(Table)
	for i, row := range s.Rows {
		if i == 0 {
			for _, c := range row.Cells {
				t.Columns = append(t.Columns, strings.TrimSpace(c.Value))
			}
			continue
		}
		if len(row.Cells) == 0 {
			continue
		}
		vals := make([]float64, len(t.Columns))
		for j := range vals {
			if j >= len(row.Cells) {
				return nil, fmt.Errorf("report: reading table from Excel: row %d has %d cells but there are %d columns",
					i+1, len(row.Cells), len(t.Columns))
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[j].Value), 64)
			if err != nil {
				return nil, fmt.Errorf("report: reading table from Excel: row %d: %v", i+1, err)
			}
			vals[j] = v
		}
		t.Rows = append(t.Rows, vals)
	}
	return t, nil
}
