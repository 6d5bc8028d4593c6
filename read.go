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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// openNCF opens a NetCDF file for reading. The caller must close the
// returned *os.File.
func openNCF(path string) (*os.File, *cdf.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("oceanpost: opening %s: %v", path, err)
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("oceanpost: reading NetCDF header of %s: %v", path, err)
	}
	return f, ff, nil
}

// hasVar reports whether the file contains a variable with the given name.
func hasVar(ff *cdf.File, name string) bool {
	return len(ff.Header.Lengths(name)) > 0
}

// readFull reads an entire variable from an open NetCDF file, converting it
// to float64 elements. The returned dimension names are normalized to the
// common NEMO grid names. The length of a record (unlimited) dimension is
// reported as zero by the header, so it is recovered from the amount of data
// actually read.
func readFull(ff *cdf.File, name string) (*sparse.DenseArray, []string, error) {
	lengths := ff.Header.Lengths(name)
	if len(lengths) == 0 {
		return nil, nil, fmt.Errorf("oceanpost: read netcdf: variable %v not in file", name)
	}
	r := ff.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, nil, fmt.Errorf("oceanpost: read netcdf variable %s: %v", name, err)
	}
	elements, err := toFloat64(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("oceanpost: read netcdf variable %s: %v", name, err)
	}
	shape := make([]int, len(lengths))
	copy(shape, lengths)
	if len(shape) > 0 && shape[0] == 0 {
		rest := 1
		for _, n := range shape[1:] {
			rest *= n
		}
		if rest > 0 {
			shape[0] = len(elements) / rest
		}
	}
	data := sparse.ZerosDense(shape...)
	copy(data.Elements, elements)
	rawDims := ff.Header.Dimensions(name)
	dims := make([]string, len(rawDims))
	for i, d := range rawDims {
		dims[i] = normalizeDim(d)
	}
	return data, dims, nil
}

// toFloat64 converts a buffer returned by a cdf reader to float64 values.
func toFloat64(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", buf)
	}
}

// attrString returns a string attribute of a variable, or "" when absent.
func attrString(ff *cdf.File, varName, attr string) string {
	a := ff.Header.GetAttribute(varName, attr)
	if a == nil {
		return ""
	}
	switch v := a.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// readTimeCoord reads the time coordinate variable named dim from the file,
// returning the raw values and a coder built from its units attribute.
// It returns nils without error when the coordinate or its units cannot be
// interpreted; callers fall back to path ordering in that case.
func readTimeCoord(ff *cdf.File, dim string) ([]float64, *TimeCoder) {
	if !hasVar(ff, dim) {
		return nil, nil
	}
	data, _, err := readFull(ff, dim)
	if err != nil {
		return nil, nil
	}
	units := attrString(ff, dim, "units")
	tc, err := ParseTimeUnits(units)
	if err != nil {
		return nil, nil
	}
	return data.Elements, tc
}

// squeeze removes leading axes of length one, typically the singleton time
// axis of NEMO mesh-mask fields.
func squeeze(data *sparse.DenseArray, dims []string) (*sparse.DenseArray, []string) {
	i := 0
	for i < len(data.Shape)-1 && data.Shape[i] == 1 {
		i++
	}
	if i == 0 {
		return data, dims
	}
	out := sparse.ZerosDense(data.Shape[i:]...)
	copy(out.Elements, data.Elements)
	return out, dims[i:]
}
