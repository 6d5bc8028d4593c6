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
	"github.com/ctessum/sparse"
)

// Mask holds the auxiliary mesh-mask fields used by the vertical reductions.
// It is read once per run and shared read-only.
type Mask struct {
	// Floor gives, per horizontal cell, the index of the lowest valid
	// vertical level. It is required for bottom-category aggregation.
	Floor *sparse.DenseArray
	// Tmask is the 3-D land/sea mask (1 over water, 0 over land),
	// used to limit vertical integrals to wet cells. Optional.
	Tmask *sparse.DenseArray
	// CellThickness is the 3-D vertical cell thickness (the NEMO e3t_0
	// field), used to depth-weight vertical integrals. Optional.
	CellThickness *sparse.DenseArray
}

// mesh-mask variable names in NEMO output.
const (
	floorVar     = "floor"
	tmaskVar     = "tmask"
	thicknessVar = "e3t_0"
)

// LoadMask reads the bottom-level index and, when present, the land mask and
// cell-thickness fields from the mask file at path. Mesh-mask fields often
// carry a singleton time axis, which is dropped.
func LoadMask(path string) (*Mask, error) {
	f, ff, err := openNCF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := new(Mask)
	for _, v := range []string{floorVar, tmaskVar, thicknessVar} {
		if !hasVar(ff, v) {
			continue
		}
		data, dims, err := readFull(ff, v)
		if err != nil {
			return nil, err
		}
		data, _ = squeeze(data, dims)
		switch v {
		case floorVar:
			m.Floor = data
		case tmaskVar:
			m.Tmask = data
		case thicknessVar:
			m.CellThickness = data
		}
	}
	return m, nil
}
