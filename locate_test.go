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
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func makeTree(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, n := range names {
		path := filepath.Join(root, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLocate(t *testing.T) {
	root := makeTree(t,
		"2014/model_grid_T_201401.nc",
		"2014/model_grid_T_201402.nc",
		"2014/model_ptrc_T_201401.nc",
		"2015/model_grid_T_201501.nc",
		"static/mesh_mask.nc",
	)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "wildcard across subdirectories",
			patterns: []string{"model_grid_T_*.nc"},
			want: []string{
				filepath.Join(root, "2014", "model_grid_T_201401.nc"),
				filepath.Join(root, "2014", "model_grid_T_201402.nc"),
				filepath.Join(root, "2015", "model_grid_T_201501.nc"),
			},
		},
		{
			name:     "literal file name",
			patterns: []string{"mesh_mask.nc"},
			want:     []string{filepath.Join(root, "static", "mesh_mask.nc")},
		},
		{
			name:     "union preserves pattern order and deduplicates",
			patterns: []string{"model_ptrc_T_*.nc", "model_*_201401.nc"},
			want: []string{
				filepath.Join(root, "2014", "model_ptrc_T_201401.nc"),
				filepath.Join(root, "2014", "model_grid_T_201401.nc"),
			},
		},
		{
			name:     "path pattern",
			patterns: []string{"2015/*.nc"},
			want:     []string{filepath.Join(root, "2015", "model_grid_T_201501.nc")},
		},
		{
			name:     "no patterns",
			patterns: nil,
			want:     nil,
		},
	}
	for _, test := range tests {
		got, err := Locate(root, test.patterns)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestLocateGroup(t *testing.T) {
	root := makeTree(t, "model_grid_T_201401.nc")

	// Zero matches with requested variables is fatal.
	_, err := LocateGroup(root, Bio, []string{"model_ptrc_T_*.nc"}, true)
	var derr *DiscoveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DiscoveryError, got %v", err)
	}
	if derr.Group != Bio {
		t.Errorf("DiscoveryError group: got %v, want bio", derr.Group)
	}

	// Zero matches without requested variables is a recoverable condition.
	g, err := LocateGroup(root, Bio, []string{"model_ptrc_T_*.nc"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Empty() {
		t.Error("expected empty group")
	}

	// No configured patterns disables the group even when variables exist.
	g, err = LocateGroup(root, Bio, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Empty() {
		t.Error("expected empty group for empty pattern list")
	}
}
