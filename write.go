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
	"path/filepath"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// outFile is one planned output file.
type outFile struct {
	name string
	vars []*Variable
}

// Partition assigns the resolved variables to output files according to the
// save option. Variables with zero records are dropped.
func Partition(vars []*Variable, opt SaveOption) ([]outFile, error) {
	var kept []*Variable
	for _, v := range vars {
		if v.NRecords() > 0 {
			kept = append(kept, v)
		}
	}
	switch opt {
	case SaveAll:
		return []outFile{{name: "processed_output.nc", vars: kept}}, nil
	case SaveByPhysBio:
		var files []outFile
		for _, g := range GroupKinds {
			var fv []*Variable
			for _, v := range kept {
				if v.Group == g {
					fv = append(fv, v)
				}
			}
			if len(fv) > 0 {
				files = append(files, outFile{name: fmt.Sprintf("processed_%s.nc", g), vars: fv})
			}
		}
		return files, nil
	case SaveByVariableType:
		var files []outFile
		for _, cat := range Categories {
			var fv []*Variable
			for _, v := range kept {
				if v.Category == cat {
					fv = append(fv, v)
				}
			}
			if len(fv) > 0 {
				files = append(files, outFile{name: cat.String() + ".nc", vars: fv})
			}
		}
		return files, nil
	case SaveByVariable:
		var files []outFile
		for _, v := range kept {
			files = append(files, outFile{name: v.Name + ".nc", vars: []*Variable{v}})
		}
		return files, nil
	case SaveYearly:
		var years []int
		seen := make(map[int]struct{})
		for _, v := range kept {
			if len(v.Times) == 0 {
				return nil, fmt.Errorf("oceanpost: save_option yearly requires a parseable time coordinate, but variable %s has none", v.Name)
			}
			for _, y := range v.Years() {
				if _, ok := seen[y]; !ok {
					seen[y] = struct{}{}
					years = append(years, y)
				}
			}
		}
		sort.Ints(years)
		var files []outFile
		for _, y := range years {
			var fv []*Variable
			for _, v := range kept {
				var idx []int
				for i, t := range v.Times {
					if t.Year() == y {
						idx = append(idx, i)
					}
				}
				if len(idx) > 0 {
					fv = append(fv, v.TimeSubset(idx))
				}
			}
			if len(fv) > 0 {
				files = append(files, outFile{name: fmt.Sprintf("processed_%d.nc", y), vars: fv})
			}
		}
		return files, nil
	default:
		return nil, &ConfigError{Key: "save_option", Msg: fmt.Sprintf("invalid save option %q", string(opt))}
	}
}

// Write serializes the resolved variables under outputPath, partitioned by
// the save option. Each file is written to a temporary name and renamed into
// place, so a failure partway through one file never leaves that file in an
// inconsistent state; files written before the failing one remain on disk.
func Write(vars []*Variable, opt SaveOption, outputPath string, msgChan chan string) error {
	files, err := Partition(vars, opt)
	if err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(outputPath, f.name)
		if err := writeFile(path, f.vars); err != nil {
			return err
		}
		if msgChan != nil {
			msgChan <- fmt.Sprintf("Wrote %s (%d variables)", path, len(f.vars))
		}
	}
	return nil
}

// dimRegistry assigns NetCDF dimension names within one output file.
// Variables reuse a dimension when both the name and the length agree;
// a name that reappears with a different length gets a numbered alias.
type dimRegistry struct {
	names []string
	sizes []int
}

func (r *dimRegistry) add(base string, size int) string {
	for i, n := range r.names {
		if r.sizes[i] == size && (n == base || dimAlias(n, base)) {
			return n
		}
	}
	name := base
	for n := 2; r.taken(name); n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	r.names = append(r.names, name)
	r.sizes = append(r.sizes, size)
	return name
}

func (r *dimRegistry) taken(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

func dimAlias(name, base string) bool {
	return len(name) > len(base)+1 && name[:len(base)+1] == base+"_"
}

// writeFile writes one output NetCDF file containing the given variables
// along with their time and horizontal coordinates.
func writeFile(path string, vars []*Variable) error {
	reg := new(dimRegistry)
	varDims := make([][]string, len(vars))
	names := make(map[string]struct{})
	for i, v := range vars {
		if _, dup := names[v.Name]; dup {
			return &ConfigError{Key: v.Name, Msg: "duplicate output variable name in one output file; use the mapping section to disambiguate"}
		}
		names[v.Name] = struct{}{}
		dims := make([]string, len(v.Data.Shape))
		for ax, n := range v.Data.Shape {
			base := fmt.Sprintf("dim%d", ax)
			if ax < len(v.Dims) {
				base = v.Dims[ax]
			}
			dims[ax] = reg.add(base, n)
		}
		varDims[i] = dims
	}

	h := cdf.NewHeader(reg.names, reg.sizes)

	// Time coordinates, one per distinct time dimension.
	timeCoords := make(map[string]*Variable)
	var timeDims []string
	for i, v := range vars {
		if len(v.Times) == 0 || v.TimeCoder == nil {
			continue
		}
		d := varDims[i][0]
		if _, ok := timeCoords[d]; !ok {
			timeCoords[d] = v
			timeDims = append(timeDims, d)
		}
	}
	for _, d := range timeDims {
		h.AddVariable(d, []string{d}, []float64{0})
		h.AddAttribute(d, "units", timeCoords[d].TimeCoder.Units)
	}

	// Horizontal coordinates, taken from the first variable that carries
	// them and matches its own trailing dimensions.
	var coordVar int = -1
	for i, v := range vars {
		if v.Lat != nil && v.Lon != nil && len(varDims[i]) >= 2 &&
			sameShape(v.Lat.Shape, v.Data.Shape[len(v.Data.Shape)-2:]) &&
			sameShape(v.Lon.Shape, v.Lat.Shape) {
			coordVar = i
			break
		}
	}
	if coordVar >= 0 {
		hd := varDims[coordVar][len(varDims[coordVar])-2:]
		h.AddVariable("nav_lat", hd, []float64{0})
		h.AddAttribute("nav_lat", "units", "degrees_north")
		h.AddVariable("nav_lon", hd, []float64{0})
		h.AddAttribute("nav_lon", "units", "degrees_east")
	}

	for i, v := range vars {
		h.AddVariable(v.Name, varDims[i], []float32{0})
		if v.Units != "" {
			h.AddAttribute(v.Name, "units", v.Units)
		}
	}

	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("oceanpost: creating output file %s: %v", path, err)
	}

	tmp := path + ".tmp"
	ff, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("oceanpost: creating output file %s: %v", path, err)
	}
	ok := false
	defer func() {
		if !ok {
			ff.Close()
			os.Remove(tmp)
		}
	}()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("oceanpost: creating output file %s: %v", path, err)
	}

	for _, d := range timeDims {
		v := timeCoords[d]
		t64 := make([]float64, len(v.Times))
		for i, t := range v.Times {
			t64[i] = v.TimeCoder.Encode(t)
		}
		if err := writeVar64(f, d, t64); err != nil {
			return fmt.Errorf("oceanpost: writing time coordinate to %s: %v", path, err)
		}
	}
	if coordVar >= 0 {
		v := vars[coordVar]
		if err := writeVar64(f, "nav_lat", v.Lat.Elements); err != nil {
			return fmt.Errorf("oceanpost: writing coordinates to %s: %v", path, err)
		}
		if err := writeVar64(f, "nav_lon", v.Lon.Elements); err != nil {
			return fmt.Errorf("oceanpost: writing coordinates to %s: %v", path, err)
		}
	}
	for _, v := range vars {
		if err := writeVar32(f, v.Name, v.Data); err != nil {
			return fmt.Errorf("oceanpost: writing variable %s to %s: %v", v.Name, path, err)
		}
	}
	if err := ff.Close(); err != nil {
		os.Remove(tmp)
		ok = true // already cleaned up
		return fmt.Errorf("oceanpost: closing output file %s: %v", path, err)
	}
	ok = true
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("oceanpost: finalizing output file %s: %v", path, err)
	}
	return nil
}

// writeVar32 writes a dense array to an output file as float32 data.
func writeVar32(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}

// writeVar64 writes float64 values to an output file.
func writeVar64(f *cdf.File, name string, data []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	out := make([]float64, len(data))
	copy(out, data)
	_, err := w.Write(out)
	return err
}
