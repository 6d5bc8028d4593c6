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
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/sparse"
)

func TestParseTimeUnits(t *testing.T) {
	tests := []struct {
		units   string
		value   float64
		want    time.Time
		wantErr bool
	}{
		{
			units: "seconds since 1900-01-01 00:00:00",
			value: 86400,
			want:  time.Date(1900, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			units: "days since 2014-01-01",
			value: 30.5,
			want:  time.Date(2014, 1, 31, 12, 0, 0, 0, time.UTC),
		},
		{
			units: "hours since 1950-01-01T00:00:00Z",
			value: 24,
			want:  time.Date(1950, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{units: "fortnights since 2000-01-01", wantErr: true},
		{units: "kelvin", wantErr: true},
		{units: "days since yesterday", wantErr: true},
	}
	for _, test := range tests {
		tc, err := ParseTimeUnits(test.units)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseTimeUnits(%q): expected error", test.units)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeUnits(%q): %v", test.units, err)
			continue
		}
		got := tc.Decode(test.value)
		if !got.Equal(test.want) {
			t.Errorf("ParseTimeUnits(%q).Decode(%g): got %v, want %v", test.units, test.value, got, test.want)
		}
		if back := tc.Encode(got); math.Abs(back-test.value) > 1e-9 {
			t.Errorf("ParseTimeUnits(%q).Encode: got %g, want %g", test.units, back, test.value)
		}
	}
}

func TestTimeSubset(t *testing.T) {
	data := sparse.ZerosDense(3, 2, 2)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	times := []time.Time{
		time.Date(2014, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2014, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2015, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	v := &Variable{Name: "x", Data: data, Dims: []string{"time_counter", "y", "x"}, Times: times}

	if got, want := v.Years(), []int{2014, 2015}; !reflect.DeepEqual(got, want) {
		t.Errorf("Years: got %v, want %v", got, want)
	}

	sub := v.TimeSubset([]int{2})
	if got, want := sub.Data.Shape, []int{1, 2, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("subset shape: got %v, want %v", got, want)
	}
	for i := 0; i < 4; i++ {
		if sub.Data.Elements[i] != float64(8+i) {
			t.Errorf("subset element %d: got %g, want %g", i, sub.Data.Elements[i], float64(8+i))
		}
	}
	if len(sub.Times) != 1 || !sub.Times[0].Equal(times[2]) {
		t.Errorf("subset times: got %v", sub.Times)
	}
	// The original must be untouched.
	if v.NRecords() != 3 {
		t.Error("TimeSubset modified its receiver")
	}
}
