/*
Copyright © 2024 the OceanPost authors.
This file is part of OceanPost.

OceanPost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

OceanPost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with OceanPost.  If not, see <http://www.gnu.org/licenses/>.
*/

package oceanpost

import (
	"fmt"
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// Variable is one resolved output quantity: aggregated data plus the
// metadata the writer needs to serialize it.
type Variable struct {
	// Name is the output name, after mapping and category suffixing.
	Name     string
	Group    GroupKind
	Category Category
	Units    string

	// Data holds the reduced array. The first axis is time.
	Data *sparse.DenseArray
	// Dims names the axes of Data.
	Dims []string

	// Times holds the decoded time coordinate, one entry per record.
	// It is nil when the source files carry no parseable time coordinate.
	Times []time.Time
	// TimeCoder converts between Times and the on-disk time values.
	TimeCoder *TimeCoder

	// Lat and Lon are the horizontal coordinate arrays shared by the
	// variable's file group, when present in the source files.
	Lat, Lon *sparse.DenseArray
}

// NRecords returns the number of time records.
func (v *Variable) NRecords() int {
	if v.Data == nil || len(v.Data.Shape) == 0 {
		return 0
	}
	return v.Data.Shape[0]
}

// TimeSubset returns a copy of v containing only the records at the given
// indices, in the given order.
func (v *Variable) TimeSubset(idx []int) *Variable {
	recLen := 1
	for _, n := range v.Data.Shape[1:] {
		recLen *= n
	}
	shape := append([]int{len(idx)}, v.Data.Shape[1:]...)
	out := sparse.ZerosDense(shape...)
	for i, t := range idx {
		copy(out.Elements[i*recLen:(i+1)*recLen], v.Data.Elements[t*recLen:(t+1)*recLen])
	}
	sub := *v
	sub.Data = out
	if v.Times != nil {
		sub.Times = make([]time.Time, len(idx))
		for i, t := range idx {
			sub.Times[i] = v.Times[t]
		}
	}
	return &sub
}

// Years returns the sorted list of calendar years spanned by the time axis.
func (v *Variable) Years() []int {
	var years []int
	seen := make(map[int]struct{})
	for _, t := range v.Times {
		y := t.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	return years
}

// TimeCoder converts between time.Time values and NetCDF time-coordinate
// values expressed in CF-style units ("<unit> since <reference>").
type TimeCoder struct {
	// Units is the original units attribute, preserved for output.
	Units  string
	origin time.Time
	step   time.Duration
}

// cfTimeLayouts are the reference-timestamp layouts accepted in time units
// attributes.
var cfTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2",
}

// ParseTimeUnits parses a CF-style time units attribute such as
// "seconds since 1900-01-01 00:00:00". The supported units are seconds,
// minutes, hours, and days.
func ParseTimeUnits(units string) (*TimeCoder, error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || strings.ToLower(fields[1]) != "since" {
		return nil, fmt.Errorf("oceanpost: cannot parse time units %q", units)
	}
	var step time.Duration
	switch strings.ToLower(strings.TrimSuffix(fields[0], "s")) + "s" {
	case "seconds":
		step = time.Second
	case "minutes":
		step = time.Minute
	case "hours":
		step = time.Hour
	case "days":
		step = 24 * time.Hour
	default:
		return nil, fmt.Errorf("oceanpost: unsupported time unit %q in %q", fields[0], units)
	}
	ref := strings.Join(fields[2:], " ")
	ref = strings.TrimSuffix(ref, " UTC")
	for _, layout := range cfTimeLayouts {
		if origin, err := time.Parse(layout, ref); err == nil {
			return &TimeCoder{Units: units, origin: origin.UTC(), step: step}, nil
		}
	}
	return nil, fmt.Errorf("oceanpost: cannot parse time reference %q in units %q", ref, units)
}

// Decode converts an on-disk time value to a time.Time.
func (tc *TimeCoder) Decode(v float64) time.Time {
	return tc.origin.Add(time.Duration(v * float64(tc.step)))
}

// Encode converts a time.Time back to an on-disk value in the coder's units.
func (tc *TimeCoder) Encode(t time.Time) float64 {
	return float64(t.Sub(tc.origin)) / float64(tc.step)
}

// nemoDims maps NEMO T-grid coordinate and dimension names to the common
// names shared by all groups, so physics and biogeochemistry variables line
// up on one coordinate system.
var nemoDims = map[string]string{
	"nav_lat_grid_T": "nav_lat",
	"nav_lon_grid_T": "nav_lon",
	"y_grid_T":       "y",
	"x_grid_T":       "x",
}

// normalizeDim returns the common name for a NEMO grid-specific dimension or
// coordinate name, or the name unchanged.
func normalizeDim(name string) string {
	if n, ok := nemoDims[name]; ok {
		return n
	}
	return name
}

// depthDims are the dimension names recognized as the vertical axis.
var depthDims = map[string]struct{}{
	"deptht": {}, "depthu": {}, "depthv": {}, "depthw": {},
	"depth": {}, "z": {}, "olevel": {},
}

// depthAxis returns the index of the vertical axis among dims, or -1 when
// the variable has no vertical dimension.
func depthAxis(dims []string) int {
	for i, d := range dims {
		if _, ok := depthDims[d]; ok {
			return i
		}
	}
	return -1
}

// sameShape reports whether two shapes are identical.
func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func shapeString(s []int) string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = fmt.Sprint(n)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
