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
	"os"
	"testing"

	"github.com/ctessum/cdf"
)

// ncfVar describes one variable of a synthetic NetCDF test file.
type ncfVar struct {
	name  string
	depth bool // variable has a vertical axis
	units string
	data  []float32
}

// ncfBuilder assembles small NEMO-like NetCDF files for tests.
type ncfBuilder struct {
	nt, nz, ny, nx int
	timeUnits      string
	times          []float64
	latlon         bool
	gridT          bool // use the NEMO T-grid dimension names
	vars           []ncfVar
}

func (b *ncfBuilder) write(t *testing.T, path string) {
	t.Helper()
	yDim, xDim, latName, lonName := "y", "x", "nav_lat", "nav_lon"
	if b.gridT {
		yDim, xDim = "y_grid_T", "x_grid_T"
		latName, lonName = "nav_lat_grid_T", "nav_lon_grid_T"
	}
	dims := []string{"time_counter", yDim, xDim}
	lengths := []int{b.nt, b.ny, b.nx}
	hasDepth := false
	for _, v := range b.vars {
		if v.depth {
			hasDepth = true
		}
	}
	if hasDepth {
		dims = []string{"time_counter", "deptht", yDim, xDim}
		lengths = []int{b.nt, b.nz, b.ny, b.nx}
	}

	h := cdf.NewHeader(dims, lengths)
	if len(b.times) > 0 {
		h.AddVariable("time_counter", []string{"time_counter"}, []float64{0})
		h.AddAttribute("time_counter", "units", b.timeUnits)
	}
	if b.latlon {
		h.AddVariable(latName, []string{yDim, xDim}, []float64{0})
		h.AddVariable(lonName, []string{yDim, xDim}, []float64{0})
	}
	for _, v := range b.vars {
		vdims := []string{"time_counter", yDim, xDim}
		if v.depth {
			vdims = []string{"time_counter", "deptht", yDim, xDim}
		}
		h.AddVariable(v.name, vdims, []float32{0})
		if v.units != "" {
			h.AddAttribute(v.name, "units", v.units)
		}
	}
	h.Define()
	for _, err := range h.Check() {
		t.Fatal(err)
	}

	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.times) > 0 {
		writeTestVar(t, f, "time_counter", b.times)
	}
	if b.latlon {
		coords := make([]float64, b.ny*b.nx)
		for i := range coords {
			coords[i] = float64(i)
		}
		writeTestVar(t, f, latName, coords)
		writeTestVar(t, f, lonName, coords)
	}
	for _, v := range b.vars {
		writeTestVar(t, f, v.name, v.data)
	}
}

func writeTestVar[T float32 | float64](t *testing.T, f *cdf.File, name string, data []T) {
	t.Helper()
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
}

// writeTestMask writes a mesh-mask file with floor (2-D bottom level
// indices), tmask, and e3t_0 fields. Nil fields are omitted.
func writeTestMask(t *testing.T, path string, nz, ny, nx int, floor, tmask, e3t []float32) {
	t.Helper()
	h := cdf.NewHeader([]string{"z", "y", "x"}, []int{nz, ny, nx})
	if floor != nil {
		h.AddVariable("floor", []string{"y", "x"}, []float32{0})
	}
	if tmask != nil {
		h.AddVariable("tmask", []string{"z", "y", "x"}, []float32{0})
	}
	if e3t != nil {
		h.AddVariable("e3t_0", []string{"z", "y", "x"}, []float32{0})
	}
	h.Define()
	for _, err := range h.Check() {
		t.Fatal(err)
	}
	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	if floor != nil {
		writeTestVar(t, f, "floor", floor)
	}
	if tmask != nil {
		writeTestVar(t, f, "tmask", tmask)
	}
	if e3t != nil {
		writeTestVar(t, f, "e3t_0", e3t)
	}
}

// seq32 generates n float32 values starting at base, stepping by one.
func seq32(n int, base float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(base + float64(i))
	}
	return out
}
