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
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

func TestResampleMonthly(t *testing.T) {
	// Two January records and one February record on a 1x2 grid.
	data := sparse.ZerosDense(3, 1, 2)
	copy(data.Elements, []float64{
		1, 2, // Jan 5
		3, 4, // Jan 25
		10, 20, // Feb 10
	})
	v := &Variable{
		Name: "salinity_surface",
		Data: data,
		Dims: []string{"time_counter", "y", "x"},
		Times: []time.Time{
			time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2014, 1, 25, 0, 0, 0, 0, time.UTC),
			time.Date(2014, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	out := Resample(v, Month)
	if out.NRecords() != 2 {
		t.Fatalf("got %d records, want 2", out.NRecords())
	}
	checkElements(t, out.Data.Elements, []float64{2, 3, 10, 20})
	if out.Times[0].Month() != time.January || out.Times[1].Month() != time.February {
		t.Errorf("bin times: got %v", out.Times)
	}
	// The input must be untouched.
	if v.NRecords() != 3 {
		t.Error("Resample modified its input")
	}
}

func TestResamplePassThrough(t *testing.T) {
	data := sparse.ZerosDense(2, 1, 1)
	times := []time.Time{
		time.Date(2014, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2014, 2, 15, 0, 0, 0, 0, time.UTC),
	}
	v := &Variable{Name: "x", Data: data, Times: times}

	if got := Resample(v, Day); got != v {
		t.Error("day granularity should pass through unchanged")
	}
	// Already-monthly data passes through too.
	if got := Resample(v, Month); got != v {
		t.Error("already-monthly data should pass through unchanged")
	}
	// Variables without a time coordinate cannot be rebinned.
	noTimes := &Variable{Name: "y", Data: data}
	if got := Resample(noTimes, Month); got != noTimes {
		t.Error("a variable without times should pass through unchanged")
	}
}
