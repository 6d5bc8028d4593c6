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

package oceanpostutil

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/oceanmodel/oceanpost"
)

// iniLoadOptions configure the INI parser to behave like the configuration
// files this tool historically accepts: keys keep their case (mapping keys
// are variable names), and list values may continue over indented lines.
var iniLoadOptions = ini.LoadOptions{
	AllowPythonMultilineValues: true,
}

// LoadConfig reads and validates a run configuration from an INI file with
// sections PARAMS, SURFACE, INTEGRATED, BOTTOM, and MAPPING.
func LoadConfig(path string) (*oceanpost.Config, error) {
	f, err := ini.LoadSources(iniLoadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("oceanpost: reading configuration file %s: %v", path, err)
	}
	params, err := f.GetSection("PARAMS")
	if err != nil {
		return nil, &oceanpost.ConfigError{Key: "PARAMS", Msg: "missing required section"}
	}

	get := func(key string) (string, error) {
		if !params.HasKey(key) {
			return "", &oceanpost.ConfigError{Key: key, Msg: "missing required key in PARAMS"}
		}
		return strings.TrimSpace(params.Key(key).String()), nil
	}

	cfg := new(oceanpost.Config)
	fields := []struct {
		key string
		dst *string
	}{
		{"model_type", &cfg.ModelType},
		{"model_path", &cfg.ModelPath},
		{"output_path", &cfg.OutputPath},
	}
	for _, fld := range fields {
		if *fld.dst, err = get(fld.key); err != nil {
			return nil, err
		}
	}
	if params.HasKey("mask_path") {
		cfg.MaskPath = strings.TrimSpace(params.Key("mask_path").String())
	}
	cfg.PhysFiles = splitList(params.Key("phys_files").String())
	cfg.BioFiles = splitList(params.Key("bio_files").String())

	tu, err := get("time_unit")
	if err != nil {
		return nil, err
	}
	cfg.TimeUnit = oceanpost.TimeUnit(tu)
	so, err := get("save_option")
	if err != nil {
		return nil, err
	}
	cfg.SaveOption = oceanpost.SaveOption(so)

	cfg.Surface = categoryVars(f, "SURFACE")
	cfg.Integrated = categoryVars(f, "INTEGRATED")
	cfg.Bottom = categoryVars(f, "BOTTOM")

	cfg.Mapping = make(oceanpost.Mapping)
	if mapping, err := f.GetSection("MAPPING"); err == nil {
		for _, k := range mapping.Keys() {
			cfg.Mapping[k.Name()] = strings.TrimSpace(k.String())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// categoryVars reads the phys_vars and bio_vars lists of one category
// section. A missing section or key is a valid feature-disabled state.
func categoryVars(f *ini.File, section string) oceanpost.CategoryVars {
	var cv oceanpost.CategoryVars
	sec, err := f.GetSection(section)
	if err != nil {
		return cv
	}
	cv.Phys = splitList(sec.Key("phys_vars").String())
	cv.Bio = splitList(sec.Key("bio_vars").String())
	return cv
}

// splitList splits a whitespace- or newline-separated configuration list.
func splitList(s string) []string {
	return strings.Fields(s)
}

// WriteConfig serializes the effective configuration back to an INI file so
// output directories are self-describing.
func WriteConfig(cfg *oceanpost.Config, path string) error {
	f := ini.Empty()
	params, err := f.NewSection("PARAMS")
	if err != nil {
		return fmt.Errorf("oceanpost: writing configuration: %v", err)
	}
	params.NewKey("model_type", cfg.ModelType)
	params.NewKey("model_path", cfg.ModelPath)
	params.NewKey("output_path", cfg.OutputPath)
	if cfg.MaskPath != "" {
		params.NewKey("mask_path", cfg.MaskPath)
	}
	params.NewKey("phys_files", strings.Join(cfg.PhysFiles, " "))
	params.NewKey("bio_files", strings.Join(cfg.BioFiles, " "))
	params.NewKey("time_unit", string(cfg.TimeUnit))
	params.NewKey("save_option", string(cfg.SaveOption))

	sections := []struct {
		name string
		vars oceanpost.CategoryVars
	}{
		{"SURFACE", cfg.Surface},
		{"INTEGRATED", cfg.Integrated},
		{"BOTTOM", cfg.Bottom},
	}
	for _, s := range sections {
		sec, err := f.NewSection(s.name)
		if err != nil {
			return fmt.Errorf("oceanpost: writing configuration: %v", err)
		}
		sec.NewKey("phys_vars", strings.Join(s.vars.Phys, " "))
		sec.NewKey("bio_vars", strings.Join(s.vars.Bio, " "))
	}
	if len(cfg.Mapping) > 0 {
		sec, err := f.NewSection("MAPPING")
		if err != nil {
			return fmt.Errorf("oceanpost: writing configuration: %v", err)
		}
		for k, v := range cfg.Mapping {
			sec.NewKey(k, v)
		}
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("oceanpost: writing configuration to %s: %v", path, err)
	}
	defer w.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("oceanpost: writing configuration to %s: %v", path, err)
	}
	return nil
}
