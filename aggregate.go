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
	"sort"
	"time"

	"github.com/ctessum/sparse"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// rawVar is one source variable read and concatenated across a file group,
// before summation and vertical reduction.
type rawVar struct {
	data  *sparse.DenseArray
	dims  []string
	units string
	times []time.Time
	coder *TimeCoder
}

// fileSlice is the portion of a source variable held by one file.
type fileSlice struct {
	path  string
	data  *sparse.DenseArray
	dims  []string
	units string
	times []time.Time
	coder *TimeCoder
}

// readGroupVar reads the source variable name from every file in the group
// that contains it and concatenates the pieces along the time axis. Files
// are ordered by their first time-coordinate value when every piece has a
// parseable time coordinate, and by sorted path order otherwise.
func readGroupVar(group *FileGroup, name string) (*rawVar, error) {
	var slices []fileSlice
	for _, path := range group.Paths {
		f, ff, err := openNCF(path)
		if err != nil {
			return nil, err
		}
		if !hasVar(ff, name) {
			f.Close()
			continue
		}
		data, dims, err := readFull(ff, name)
		if err != nil {
			f.Close()
			return nil, err
		}
		s := fileSlice{path: path, data: data, dims: dims}
		s.units = attrString(ff, name, "units")
		if len(dims) > 0 {
			if vals, tc := readTimeCoord(ff, ff.Header.Dimensions(name)[0]); tc != nil {
				s.coder = tc
				s.times = make([]time.Time, len(vals))
				for i, v := range vals {
					s.times[i] = tc.Decode(v)
				}
			}
		}
		f.Close()
		slices = append(slices, s)
	}
	if len(slices) == 0 {
		return nil, &ResolutionError{Ident: name, Msg: fmt.Sprintf("not present in any of the %d discovered %s files", len(group.Paths), group.Kind)}
	}

	sort.Slice(slices, func(i, j int) bool { return slices[i].path < slices[j].path })
	timed := true
	for _, s := range slices {
		if len(s.times) == 0 {
			timed = false
			break
		}
	}
	if timed {
		sort.SliceStable(slices, func(i, j int) bool { return slices[i].times[0].Before(slices[j].times[0]) })
	}

	first := slices[0]
	nrec := 0
	for _, s := range slices {
		if !sameShape(s.data.Shape[1:], first.data.Shape[1:]) {
			return nil, &ResolutionError{Ident: name,
				Msg: fmt.Sprintf("shape %s in %s does not match shape %s in %s", shapeString(s.data.Shape), s.path, shapeString(first.data.Shape), first.path)}
		}
		nrec += s.data.Shape[0]
	}
	out := &rawVar{
		dims:  first.dims,
		units: first.units,
		coder: first.coder,
	}
	shape := append([]int{nrec}, first.data.Shape[1:]...)
	out.data = sparse.ZerosDense(shape...)
	pos := 0
	for _, s := range slices {
		copy(out.data.Elements[pos:], s.data.Elements)
		pos += len(s.data.Elements)
		if timed {
			out.times = append(out.times, s.times...)
		}
	}
	return out, nil
}

// sumSpec reads and element-wise sums all source variables of a spec.
// Single-variable specs pass through unchanged.
func sumSpec(spec VarSpec, group *FileGroup) (*rawVar, error) {
	total, err := readGroupVar(group, spec.Sources[0])
	if err != nil {
		return nil, err
	}
	for _, src := range spec.Sources[1:] {
		v, err := readGroupVar(group, src)
		if err != nil {
			return nil, err
		}
		if !sameShape(v.data.Shape, total.data.Shape) {
			return nil, &ResolutionError{Ident: spec.Key,
				Msg: fmt.Sprintf("component %s has shape %s but %s has shape %s", src, shapeString(v.data.Shape), spec.Sources[0], shapeString(total.data.Shape))}
		}
		floats.Add(total.data.Elements, v.data.Elements)
	}
	return total, nil
}

// reduce applies the category-specific vertical reduction. Variables without
// a vertical dimension pass through unchanged.
func reduce(cat Category, v *rawVar, mask *Mask) (*sparse.DenseArray, []string, error) {
	d := depthAxis(v.dims)
	if d < 0 {
		return v.data, v.dims, nil
	}
	outDims := append(append([]string{}, v.dims[:d]...), v.dims[d+1:]...)
	switch cat {
	case Surface:
		out, err := selectLevel(v.data, d, nil, 0)
		if err != nil {
			return nil, nil, err
		}
		return out, outDims, nil
	case Integrated:
		var w *sparse.DenseArray
		if mask != nil {
			w = integrationWeights(mask)
		}
		out, err := sumLevels(v.data, d, w)
		if err != nil {
			return nil, nil, err
		}
		return out, outDims, nil
	default: // Bottom
		if mask == nil || mask.Floor == nil {
			return nil, nil, &DependencyError{Msg: "bottom-category aggregation requires a mask file with a bottom-level index field"}
		}
		switch len(mask.Floor.Shape) {
		case 2:
			// Per-cell bottom level index.
			out, err := selectLevel(v.data, d, mask.Floor, 0)
			if err != nil {
				return nil, nil, err
			}
			return out, outDims, nil
		case 3:
			// One-hot bottom mask over the vertical axis.
			out, err := sumLevels(v.data, d, mask.Floor)
			if err != nil {
				return nil, nil, err
			}
			return out, outDims, nil
		default:
			return nil, nil, &DependencyError{Msg: fmt.Sprintf("bottom-level index field has unsupported shape %s", shapeString(mask.Floor.Shape))}
		}
	}
}

// integrationWeights combines the cell-thickness and land-mask fields into
// one element-wise weight array, or returns nil when neither is available.
func integrationWeights(mask *Mask) *sparse.DenseArray {
	switch {
	case mask.CellThickness != nil && mask.Tmask != nil &&
		sameShape(mask.CellThickness.Shape, mask.Tmask.Shape):
		w := mask.CellThickness.Copy()
		floats.Mul(w.Elements, mask.Tmask.Elements)
		return w
	case mask.CellThickness != nil:
		return mask.CellThickness
	case mask.Tmask != nil:
		return mask.Tmask
	default:
		return nil
	}
}

// selectLevel picks one vertical level along axis d. When floor is non-nil
// it gives a per-cell level index (rounded and clamped to the vertical
// extent); otherwise the fixed level k is used for every cell.
func selectLevel(data *sparse.DenseArray, d int, floor *sparse.DenseArray, k int) (*sparse.DenseArray, error) {
	outer, depth, inner := axisSpans(data.Shape, d)
	if floor != nil && len(floor.Elements) != inner {
		return nil, fmt.Errorf("oceanpost: bottom-level index field shape %s does not cover the variable's horizontal grid %s",
			shapeString(floor.Shape), shapeString(data.Shape[d+1:]))
	}
	shape := append(append([]int{}, data.Shape[:d]...), data.Shape[d+1:]...)
	out := sparse.ZerosDense(shape...)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			level := k
			if floor != nil {
				level = int(floor.Elements[i] + 0.5)
				if level < 0 {
					level = 0
				} else if level >= depth {
					level = depth - 1
				}
			}
			out.Elements[o*inner+i] = data.Elements[(o*depth+level)*inner+i]
		}
	}
	return out, nil
}

// sumLevels sums data across vertical axis d, optionally weighting each
// element by w, whose shape must cover the vertical and horizontal axes.
func sumLevels(data *sparse.DenseArray, d int, w *sparse.DenseArray) (*sparse.DenseArray, error) {
	outer, depth, inner := axisSpans(data.Shape, d)
	if w != nil && len(w.Elements) != depth*inner {
		return nil, fmt.Errorf("oceanpost: mask field shape %s does not cover the variable's vertical grid %s",
			shapeString(w.Shape), shapeString(data.Shape[d:]))
	}
	shape := append(append([]int{}, data.Shape[:d]...), data.Shape[d+1:]...)
	out := sparse.ZerosDense(shape...)
	for o := 0; o < outer; o++ {
		for k := 0; k < depth; k++ {
			base := (o*depth + k) * inner
			for i := 0; i < inner; i++ {
				v := data.Elements[base+i]
				if w != nil {
					v *= w.Elements[k*inner+i]
				}
				out.Elements[o*inner+i] += v
			}
		}
	}
	return out, nil
}

// axisSpans returns the element counts before, at, and after axis d.
func axisSpans(shape []int, d int) (outer, depth, inner int) {
	outer, depth, inner = 1, shape[d], 1
	for _, n := range shape[:d] {
		outer *= n
	}
	for _, n := range shape[d+1:] {
		inner *= n
	}
	return outer, depth, inner
}

// groupCoords reads the horizontal coordinate arrays shared by a file group
// from the first file that carries them.
func groupCoords(group *FileGroup) (lat, lon *sparse.DenseArray) {
	latNames := []string{"nav_lat", "nav_lat_grid_T"}
	lonNames := []string{"nav_lon", "nav_lon_grid_T"}
	for _, path := range group.Paths {
		f, ff, err := openNCF(path)
		if err != nil {
			continue
		}
		for _, n := range latNames {
			if lat == nil && hasVar(ff, n) {
				lat, _, _ = readFull(ff, n)
			}
		}
		for _, n := range lonNames {
			if lon == nil && hasVar(ff, n) {
				lon, _, _ = readFull(ff, n)
			}
		}
		f.Close()
		if lat != nil && lon != nil {
			return lat, lon
		}
	}
	return lat, lon
}

// Aggregate produces the resolved output variables for one category and one
// file group. Each spec is read, summed, and vertically reduced; specs are
// processed concurrently since they are independent until summation, with
// results kept in configured order. An empty spec list or an absent file
// group yields no variables and no error.
func Aggregate(cat Category, specs []string, group *FileGroup, mask *Mask, mapping Mapping, msgChan chan string) ([]*Variable, error) {
	if len(specs) == 0 || group.Empty() {
		return nil, nil
	}
	parsed := make([]VarSpec, len(specs))
	for i, s := range specs {
		vs, err := ParseVarSpec(s)
		if err != nil {
			return nil, err
		}
		parsed[i] = vs
	}
	lat, lon := groupCoords(group)

	results := make([]*Variable, len(parsed))
	var g errgroup.Group
	for i, spec := range parsed {
		i, spec := i, spec
		g.Go(func() error {
			raw, err := sumSpec(spec, group)
			if err != nil {
				return err
			}
			data, dims, err := reduce(cat, raw, mask)
			if err != nil {
				return err
			}
			name := mapping.Name(spec.Key) + cat.Suffix()
			results[i] = &Variable{
				Name:      name,
				Group:     group.Kind,
				Category:  cat,
				Units:     raw.units,
				Data:      data,
				Dims:      dims,
				Times:     raw.times,
				TimeCoder: raw.coder,
				Lat:       lat,
				Lon:       lon,
			}
			if msgChan != nil {
				msgChan <- fmt.Sprintf("Aggregated %s %s as %s (%d records)", group.Kind, spec.Key, name, results[i].NRecords())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
