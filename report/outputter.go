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
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
)

// Outputter calculates output columns from the columns of a Table.
//
// outputVariables maps the names of the output columns to expressions
// that define how they are calculated. Expressions can use the table
// columns (see ModelVariables), other output variables, and functions.
//
// modelVariables is automatically generated based on the table columns
// that are required to calculate the requested output variables.
type Outputter struct {
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
}

func numArgs(name string, n int, arg []interface{}) error {
	if len(arg) != n {
		return fmt.Errorf("report: got %d arguments for function '%s', but needs %d", len(arg), name, n)
	}
	return nil
}

// NewOutputter initializes a new Outputter and adds a set of default
// output functions:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log10(x)' which gives the base-10 logarithm of x.
//
// 'max(x, y)' and 'min(x, y)'.
//
// 'lifetime(c, fieldFactor)' which converts an impurity concentration
// into an electron lifetime, returning +Inf for zero impurities.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if err := numArgs("exp", 1, arg); err != nil {
				return nil, err
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log10": func(arg ...interface{}) (interface{}, error) {
			if err := numArgs("log10", 1, arg); err != nil {
				return nil, err
			}
			return math.Log10(arg[0].(float64)), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			if err := numArgs("max", 2, arg); err != nil {
				return nil, err
			}
			return math.Max(arg[0].(float64), arg[1].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			if err := numArgs("min", 2, arg); err != nil {
				return nil, err
			}
			return math.Min(arg[0].(float64), arg[1].(float64)), nil
		},
		"lifetime": func(arg ...interface{}) (interface{}, error) {
			if err := numArgs("lifetime", 2, arg); err != nil {
				return nil, err
			}
			c := arg[0].(float64)
			if c == 0 {
				return math.Inf(1), nil
			}
			return arg[1].(float64) / c, nil
		},
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := &Outputter{
		outputVariables: make(map[string]string, len(outputVariables)),
		outputFunctions: defaultOutputFuncs,
	}
	for k, v := range outputVariables {
		o.outputVariables[k] = v
	}
	if err := o.checkForDerivatives(); err != nil {
		return nil, err
	}
	return o, nil
}

// removeDuplicates removes all duplicated strings from a slice, returning a
// slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{})
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = struct{}{}
		}
	}
	return result
}

var identChar = regexp.MustCompile("[a-zA-Z0-9_]")

// partOfName reports whether the text on either side of an occurrence of
// a variable name shows that the occurrence is part of a longer name.
func partOfName(before, after string) bool {
	if before != "" && identChar.MatchString(before[len(before)-1:]) {
		return true
	}
	if after != "" && identChar.MatchString(after[:1]) {
		return true
	}
	return false
}

// checkForDerivatives replaces every output variable that is used in the
// expression of another output variable with the expression that defines
// it, and then records the table columns that the expressions require.
func (o *Outputter) checkForDerivatives() error {
	const maxDepth = 100
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return fmt.Errorf("report: output variables are defined in terms of each other in a loop")
		}
		replaced := false
		o.modelVariables = o.modelVariables[:0]
		for key, val := range o.outputVariables {
			expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
			if err != nil {
				return fmt.Errorf("report: output variable %s: %v", key, err)
			}
			for _, v := range removeDuplicates(expression.Vars()) {
				def, ok := o.outputVariables[v]
				if !ok || def == v {
					o.modelVariables = append(o.modelVariables, v)
					continue
				}
				if v == key {
					return fmt.Errorf("report: output variable %s is defined in terms of itself", key)
				}
				split := strings.Split(o.outputVariables[key], v)
				var b strings.Builder
				b.WriteString(split[0])
				for i := 1; i < len(split); i++ {
					if partOfName(split[i-1], split[i]) {
						b.WriteString(v)
					} else {
						b.WriteString("(" + def + ")")
					}
					b.WriteString(split[i])
				}
				o.outputVariables[key] = b.String()
				replaced = true
			}
		}
		if !replaced {
			break
		}
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	sort.Strings(o.modelVariables)
	return nil
}

// ModelVariables returns the table columns required to calculate the
// output variables.
func (o *Outputter) ModelVariables() []string { return o.modelVariables }

// CheckColumns returns an error if t does not have a column required to
// calculate the output variables.
func (o *Outputter) CheckColumns(t *Table) error {
	have := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	for _, v := range o.modelVariables {
		if _, ok := have[v]; !ok {
			return fmt.Errorf("report: undefined variable name '%s'", v)
		}
	}
	return nil
}

// Output calculates the output variables for every row of t and returns
// them as a new table with columns sorted by name.
func (o *Outputter) Output(t *Table) (*Table, error) {
	if err := o.CheckColumns(t); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(o.outputVariables))
	for k := range o.outputVariables {
		names = append(names, k)
	}
	sort.Strings(names)

	exprs := make([]*govaluate.EvaluableExpression, len(names))
	for i, n := range names {
		var err error
		exprs[i], err = govaluate.NewEvaluableExpressionWithFunctions(o.outputVariables[n], o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("report: output variable %s: %v", n, err)
		}
	}

	out := &Table{Columns: names, Rows: make([][]float64, len(t.Rows))}
	params := make(map[string]interface{}, len(t.Columns))
	for i, row := range t.Rows {
		for j, c := range t.Columns {
			params[c] = row[j]
		}
		out.Rows[i] = make([]float64, len(names))
		for j, e := range exprs {
			v, err := e.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("report: calculating %s for row %d: %v", names[j], i, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("report: output variable %s is not a number: %v", names[j], v)
			}
			out.Rows[i][j] = f
		}
	}
	return out, nil
}
