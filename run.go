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
)

// Run executes one complete processing run: discover the source files,
// aggregate every configured variable, and write the outputs. It aborts on
// the first fatal error; either every requested variable is produced or no
// output is written for the failing category. If msgChan is not nil, status
// messages are sent to it.
func Run(cfg *Config, msgChan chan string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var mask *Mask
	if cfg.MaskPath != "" {
		var err error
		mask, err = LoadMask(cfg.MaskPath)
		if err != nil {
			return err
		}
	}
	if !cfg.Bottom.Empty() && (mask == nil || mask.Floor == nil) {
		return &DependencyError{Msg: fmt.Sprintf("bottom variables are configured but %s has no %s field", cfg.MaskPath, floorVar)}
	}

	groups := make(map[GroupKind]*FileGroup)
	for _, g := range GroupKinds {
		hasVars := false
		for _, cat := range Categories {
			if len(cfg.Vars(cat).Vars(g)) > 0 {
				hasVars = true
			}
		}
		patterns := cfg.Patterns(g)
		group, err := LocateGroup(cfg.ModelPath, g, patterns, hasVars)
		if err != nil {
			return err
		}
		if msgChan != nil {
			switch {
			case len(patterns) == 0:
				msgChan <- fmt.Sprintf("No %s file patterns configured; skipping %s processing", g, g)
			case group.Empty():
				msgChan <- fmt.Sprintf("Warning: no files matched the %s patterns", g)
			default:
				msgChan <- fmt.Sprintf("Found %d %s files", len(group.Paths), g)
			}
		}
		groups[g] = group
	}

	var resolved []*Variable
	for _, g := range GroupKinds {
		for _, cat := range Categories {
			vars, err := Aggregate(cat, cfg.Vars(cat).Vars(g), groups[g], mask, cfg.Mapping, msgChan)
			if err != nil {
				return err
			}
			for _, v := range vars {
				resolved = append(resolved, Resample(v, cfg.TimeUnit))
			}
		}
	}

	if err := os.MkdirAll(cfg.OutputPath, 0755); err != nil {
		return fmt.Errorf("oceanpost: creating output directory %s: %v", cfg.OutputPath, err)
	}
	return Write(resolved, cfg.SaveOption, cfg.OutputPath, msgChan)
}
