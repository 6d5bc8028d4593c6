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

import "fmt"

// Category is one of the three vertical-reduction rules that can be applied
// to a variable.
type Category int

const (
	// Surface selects the top vertical level.
	Surface Category = iota
	// Integrated sums across the vertical dimension, weighted by cell
	// thickness when the mask file provides it.
	Integrated
	// Bottom selects, for each horizontal cell, the vertical level given
	// by the mask's bottom-level index field.
	Bottom
)

// Categories lists all categories in processing order.
var Categories = []Category{Surface, Integrated, Bottom}

func (c Category) String() string {
	switch c {
	case Surface:
		return "surface"
	case Integrated:
		return "integrated"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Suffix returns the qualifier appended to output variable names so the same
// physical variable can appear under multiple categories without collision.
func (c Category) Suffix() string {
	return "_" + c.String()
}

// GroupKind distinguishes the two source-file groups.
type GroupKind int

const (
	// Phys is the physics file group.
	Phys GroupKind = iota
	// Bio is the biogeochemistry file group.
	Bio
)

// GroupKinds lists both file groups in processing order.
var GroupKinds = []GroupKind{Phys, Bio}

func (g GroupKind) String() string {
	switch g {
	case Phys:
		return "phys"
	case Bio:
		return "bio"
	default:
		return fmt.Sprintf("GroupKind(%d)", int(g))
	}
}

// TimeUnit is the granularity at which source records are expected and at
// which output records are produced.
type TimeUnit string

const (
	// Month averages the concatenated records into calendar-month bins.
	Month TimeUnit = "month"
	// Day keeps records at the granularity the source files provide.
	Day TimeUnit = "day"
)

// SaveOption is the output-file partitioning policy.
type SaveOption string

const (
	// SaveYearly writes one file per calendar year spanned by the time axis.
	SaveYearly SaveOption = "yearly"
	// SaveByVariable writes one file per output variable.
	SaveByVariable SaveOption = "by_variable"
	// SaveByVariableType writes one file per category.
	SaveByVariableType SaveOption = "by_variable_type"
	// SaveByPhysBio writes one file of physics variables and one of
	// biogeochemistry variables.
	SaveByPhysBio SaveOption = "by_phys_bio"
	// SaveAll writes a single file containing every variable.
	SaveAll SaveOption = "all"
)

// SaveOptions lists the recognized save options.
var SaveOptions = []SaveOption{SaveYearly, SaveByVariable, SaveByVariableType, SaveByPhysBio, SaveAll}

// CategoryVars holds the ordered variable-spec lists configured for one
// category.
type CategoryVars struct {
	Phys []string
	Bio  []string
}

// Vars returns the spec list for the given file group.
func (cv CategoryVars) Vars(g GroupKind) []string {
	if g == Phys {
		return cv.Phys
	}
	return cv.Bio
}

// Empty reports whether no variables are configured for the category.
func (cv CategoryVars) Empty() bool {
	return len(cv.Phys) == 0 && len(cv.Bio) == 0
}

// Config holds one complete run description. It is loaded once, validated,
// and then treated as read-only by every component.
type Config struct {
	// ModelType names the source model layout. Currently only "nemo"
	// is recognized.
	ModelType string
	// ModelPath is the directory tree searched for source files.
	ModelPath string
	// OutputPath is the directory output files are written to.
	OutputPath string
	// MaskPath is the optional mesh-mask file providing the bottom-level
	// index field and cell-thickness metadata.
	MaskPath string

	// PhysFiles and BioFiles hold the file-name patterns for the two
	// source groups. An empty list disables the group.
	PhysFiles []string
	BioFiles  []string

	TimeUnit   TimeUnit
	SaveOption SaveOption

	Surface    CategoryVars
	Integrated CategoryVars
	Bottom     CategoryVars

	// Mapping translates variable-spec join-keys to output display names.
	Mapping Mapping
}

// Vars returns the variable lists configured for the given category.
func (c *Config) Vars(cat Category) CategoryVars {
	switch cat {
	case Surface:
		return c.Surface
	case Integrated:
		return c.Integrated
	default:
		return c.Bottom
	}
}

// Patterns returns the file-name patterns configured for the given group.
func (c *Config) Patterns(g GroupKind) []string {
	if g == Phys {
		return c.PhysFiles
	}
	return c.BioFiles
}

// Validate checks the configuration for errors that can be reported before
// any I/O happens.
func (c *Config) Validate() error {
	if c.ModelType != "nemo" {
		return &ConfigError{Key: "model_type", Msg: fmt.Sprintf("unrecognized model type %q; valid options are: nemo", c.ModelType)}
	}
	if c.ModelPath == "" {
		return &ConfigError{Key: "model_path", Msg: "a model directory must be specified"}
	}
	if c.OutputPath == "" {
		return &ConfigError{Key: "output_path", Msg: "an output directory must be specified"}
	}
	if c.TimeUnit != Month && c.TimeUnit != Day {
		return &ConfigError{Key: "time_unit", Msg: fmt.Sprintf("invalid time unit %q; valid options are: month, day", string(c.TimeUnit))}
	}
	valid := false
	for _, o := range SaveOptions {
		if c.SaveOption == o {
			valid = true
			break
		}
	}
	if !valid {
		return &ConfigError{Key: "save_option", Msg: fmt.Sprintf("invalid save option %q; valid options are: yearly, by_variable, by_variable_type, by_phys_bio, all", string(c.SaveOption))}
	}
	for _, cat := range Categories {
		cv := c.Vars(cat)
		for _, g := range GroupKinds {
			for _, spec := range cv.Vars(g) {
				if _, err := ParseVarSpec(spec); err != nil {
					return err
				}
			}
		}
	}
	if !c.Bottom.Empty() && c.MaskPath == "" {
		return &DependencyError{Msg: "bottom variables are configured but mask_path is not set"}
	}
	return nil
}
