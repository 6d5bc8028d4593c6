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
	"time"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Resample converts a variable to the requested time granularity.
// Month averages records into calendar-month bins, stamped mid-month;
// Day keeps records at the granularity the source files provide.
// Variables without a parseable time coordinate pass through unchanged.
func Resample(v *Variable, unit TimeUnit) *Variable {
	if unit != Month || len(v.Times) == 0 || v.NRecords() != len(v.Times) {
		return v
	}

	type bin struct{ year, month int }
	var order []bin
	groups := make(map[bin][]int)
	for i, t := range v.Times {
		b := bin{t.Year(), int(t.Month())}
		if _, ok := groups[b]; !ok {
			order = append(order, b)
		}
		groups[b] = append(groups[b], i)
	}
	if len(order) == v.NRecords() {
		return v // already monthly
	}

	recLen := 1
	for _, n := range v.Data.Shape[1:] {
		recLen *= n
	}
	shape := append([]int{len(order)}, v.Data.Shape[1:]...)
	out := sparse.ZerosDense(shape...)
	times := make([]time.Time, len(order))
	for bi, b := range order {
		dst := out.Elements[bi*recLen : (bi+1)*recLen]
		for _, i := range groups[b] {
			floats.Add(dst, v.Data.Elements[i*recLen:(i+1)*recLen])
		}
		floats.Scale(1/float64(len(groups[b])), dst)
		times[bi] = time.Date(b.year, time.Month(b.month), 15, 0, 0, 0, 0, time.UTC)
	}

	res := *v
	res.Data = out
	res.Times = times
	return &res
}
