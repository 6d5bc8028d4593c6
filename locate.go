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
	"io/fs"
	"path/filepath"
	"strings"
)

// FileGroup is the ordered, deduplicated set of source files discovered for
// one group kind. It is resolved once per run and then read-only.
type FileGroup struct {
	Kind  GroupKind
	Paths []string
}

// Empty reports whether no files were discovered.
func (g *FileGroup) Empty() bool { return g == nil || len(g.Paths) == 0 }

// Locate recursively searches the directory tree rooted at root for files
// matching the given patterns. A pattern without a path separator is matched
// against file names; a pattern containing a separator is matched against the
// path relative to root. Results are unioned across patterns in order, with
// duplicates removed while preserving first-seen order.
func Locate(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	type entry struct {
		rel  string
		path string
	}
	var files []entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, entry{rel: filepath.ToSlash(rel), path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("oceanpost: searching %s: %v", root, err)
	}

	var matches []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		usePath := strings.Contains(pattern, "/")
		for _, f := range files {
			name := filepath.Base(f.rel)
			if usePath {
				name = f.rel
			}
			ok, err := filepath.Match(pattern, name)
			if err != nil {
				return nil, &ConfigError{Key: pattern, Msg: fmt.Sprintf("invalid file pattern: %v", err)}
			}
			if !ok {
				continue
			}
			if _, dup := seen[f.path]; dup {
				continue
			}
			seen[f.path] = struct{}{}
			matches = append(matches, f.path)
		}
	}
	return matches, nil
}

// LocateGroup discovers the files for one group kind. A group with no
// configured patterns is disabled and returns an empty group without error.
// A group whose patterns match nothing is an error when hasVars is true
// (variables were requested from it) and otherwise only a warning condition
// to be reported by the caller.
func LocateGroup(root string, kind GroupKind, patterns []string, hasVars bool) (*FileGroup, error) {
	paths, err := Locate(root, patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 && len(patterns) > 0 && hasVars {
		return nil, &DiscoveryError{Group: kind, Root: root, Patterns: patterns}
	}
	return &FileGroup{Kind: kind, Paths: paths}, nil
}
