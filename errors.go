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

package toucan

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter indicates a missing, zero, negative or otherwise
	// unusable physical parameter.
	ErrInvalidParameter = errors.New("toucan: invalid parameter")

	// ErrInvalidUnit indicates an unrecognized unit name.
	ErrInvalidUnit = errors.New("toucan: invalid unit")

	// ErrDegenerateSolution indicates that a closed-form solution or fit
	// has a zero denominator.
	ErrDegenerateSolution = errors.New("toucan: degenerate solution")
)

// SegmentError reports the time segment in which a multi-segment
// calculation failed. Results for earlier segments remain valid.
type SegmentError struct {
	Segment int
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("toucan: segment %d: %v", e.Segment, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

func invalidParameter(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, a...))
}

func invalidUnit(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidUnit, fmt.Sprintf(format, a...))
}

// positive checks that v is a finite number greater than zero.
func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalidParameter("%s=%g but should be >0", name, v)
	}
	return nil
}

// nonNegative checks that v is a finite number that is not negative.
func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return invalidParameter("%s=%g but should be >=0", name, v)
	}
	return nil
}
