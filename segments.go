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
	"strings"

	"github.com/sirupsen/logrus"
)

// Clock specifies how the timestamps of each time segment are converted
// to the elapsed times used in the diffusion solution.
type Clock int

const (
	// RelativeClock leaves the first segment's timestamps unchanged and
	// re-bases each later segment so that its elapsed time starts at zero.
	RelativeClock Clock = iota

	// AbsoluteClock uses all timestamps unchanged, as time since the
	// start of the first segment.
	AbsoluteClock
)

func (c Clock) String() string {
	switch c {
	case RelativeClock:
		return "relative"
	case AbsoluteClock:
		return "absolute"
	}
	return "Clock(invalid)"
}

// ParseClock returns the clock with the given name, either "relative" or
// "absolute".
func ParseClock(name string) (Clock, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "relative", "":
		return RelativeClock, nil
	case "absolute":
		return AbsoluteClock, nil
	}
	return -1, invalidUnit("clock %q; valid options are relative and absolute", name)
}

// Simulator calculates impurity and flow rate trajectories over a
// sequence of time segments, where each segment has its own diffusion
// constant and begins with the impurities left over from the segment
// before it.
type Simulator struct {
	Kernel

	// Clock specifies how segment timestamps are converted to elapsed
	// times.
	Clock Clock

	// Tail post-processes the flow rate after the clamp index of any
	// segment whose impurities were clamped. If it is nil, HardClamp is
	// used.
	Tail TailPolicy

	// Log receives information about the progress of the simulation.
	// If it is nil, the logrus standard logger is used.
	Log logrus.FieldLogger
}

// NewSimulator returns a simulator with DefaultKernel, a relative clock
// and a hard-clamped flow rate tail.
func NewSimulator() *Simulator {
	return &Simulator{
		Kernel: DefaultKernel,
		Clock:  RelativeClock,
		Tail:   HardClamp(),
		Log:    logrus.StandardLogger(),
	}
}

func (s *Simulator) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func (s *Simulator) tail() TailPolicy {
	if s.Tail == nil {
		return HardClamp()
	}
	return s.Tail
}

// ImpurityTrajectory holds the amount of impurities remaining in a
// material at each timestamp of each time segment.
type ImpurityTrajectory struct {
	Values [][]float64

	// ClampIndex holds, for each segment, the first index at which the
	// impurities were clamped to the segment's constraint floor, or -1
	// if the segment was not clamped.
	ClampIndex []int
}

// localTimes returns the elapsed times for segment i.
func (s *Simulator) localTimes(i int, seg []float64) ([]float64, error) {
	if len(seg) == 0 {
		return nil, invalidParameter("segment has no timestamps")
	}
	var offset float64
	if i > 0 && s.Clock == RelativeClock {
		offset = seg[0]
	}
	o := make([]float64, len(seg))
	for j, t := range seg {
		o[j] = t - offset
		if !(o[j] >= 0) {
			return nil, invalidParameter("timestamp %d (%g s) gives a negative elapsed time", j, t)
		}
		if j > 0 && t < seg[j-1] {
			return nil, invalidParameter("timestamp %d (%g s) is before timestamp %d (%g s)", j, t, j-1, seg[j-1])
		}
	}
	return o, nil
}

// broadcast returns the value for segment i, where a single value
// applies to all segments.
func broadcast(x []float64, i int) float64 {
	if len(x) == 1 {
		return x[0]
	}
	return x[i]
}

func checkBroadcast(name string, n, nSegments int) error {
	if n != 1 && n != nSegments {
		return invalidParameter("%d %s for %d time segments; there should be 1 or %d", n, name, nSegments, nSegments)
	}
	return nil
}

// ImpuritiesOverTime calculates the impurities remaining in a slab of the
// given thickness [cm] at each timestamp [s] of each segment. diff holds
// the diffusion constant [cm²/s] for each segment, or a single value for
// all segments. c0 is the initial amount of impurities, in any unit.
//
// If constraints[i] is present, the trajectory of segment i is held
// constant at values[0]/constraints[i] from the first timestamp at which
// it falls below that floor. Constraints must be >= 1 so that the floor
// is never above the start of the segment. Constraints beyond the number
// of segments are ignored.
//
// After all segments are calculated, each segment after the first is
// rescaled so that it starts exactly where the segment before it ends.
//
// If a segment cannot be calculated, the trajectories of the segments
// before it are returned together with a *SegmentError.
func (s *Simulator) ImpuritiesOverTime(segments [][]float64, diff []float64, thickness, c0 float64, constraints []float64) (*ImpurityTrajectory, error) {
	if err := positive("thickness", thickness); err != nil {
		return nil, err
	}
	if err := nonNegative("initial impurities", c0); err != nil {
		return nil, err
	}
	if err := checkBroadcast("diffusion constants", len(diff), len(segments)); err != nil {
		return nil, err
	}
	traj := &ImpurityTrajectory{
		Values:     make([][]float64, 0, len(segments)),
		ClampIndex: make([]int, 0, len(segments)),
	}
	seed := c0
	for i, seg := range segments {
		v, clamp, err := s.impuritySegment(i, seg, broadcast(diff, i), thickness, seed, constraints)
		if err != nil {
			renormalize(traj.Values)
			return traj, &SegmentError{Segment: i, Err: err}
		}
		traj.Values = append(traj.Values, v)
		traj.ClampIndex = append(traj.ClampIndex, clamp)
		seed = v[len(v)-1]
	}
	renormalize(traj.Values)
	return traj, nil
}

func (s *Simulator) impuritySegment(i int, seg []float64, d, thickness, seed float64, constraints []float64) ([]float64, int, error) {
	if err := ValidateSlab(d, thickness); err != nil {
		return nil, -1, err
	}
	times, err := s.localTimes(i, seg)
	if err != nil {
		return nil, -1, err
	}
	log := s.log().WithFields(logrus.Fields{
		"segment":   i,
		"diffusion": d,
		"seed":      seed,
	})
	log.Debugf("calculating impurities for %d timestamps", len(times))
	v := make([]float64, len(times))
	for j, t := range times {
		v[j] = s.ResidualConcentration(t, d, thickness, seed)
	}
	clamp := -1
	if i < len(constraints) {
		if !(constraints[i] >= 1) {
			return nil, -1, invalidParameter("constraint=%g but should be >=1", constraints[i])
		}
		floor := v[0] / constraints[i]
		for j, x := range v {
			if x < floor {
				clamp = j
				break
			}
		}
		if clamp >= 0 {
			for j := clamp; j < len(v); j++ {
				v[j] = floor
			}
			log.WithFields(logrus.Fields{
				"index": clamp,
				"floor": floor,
			}).Info("impurities clamped to constraint floor")
		}
	}
	return v, clamp, nil
}

// renormalize rescales each segment after the first by the ratio of the
// previous segment's last value to its own first value, and then sets its
// first value to the previous segment's last value.
// Segments that start at zero are left unchanged.
func renormalize(values [][]float64) {
	for i := 1; i < len(values); i++ {
		prev := values[i-1][len(values[i-1])-1]
		first := values[i][0]
		if first == 0 {
			continue
		}
		ratio := prev / first
		for j := range values[i] {
			values[i][j] *= ratio
		}
		values[i][0] = prev
	}
}
