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

import "strings"

// VarSpec is a parsed variable specification: one or more source variables
// that are summed element-wise into a single output quantity.
type VarSpec struct {
	// Sources are the source variable names in configured order.
	Sources []string
	// Key is the canonical join-key ("a+b+c") used for mapping lookups
	// and default output naming. For a single source variable it is the
	// variable name itself.
	Key string
}

// Composite reports whether the spec sums more than one source variable.
func (s VarSpec) Composite() bool { return len(s.Sources) > 1 }

// ParseVarSpec normalizes a configured variable specification into the list
// of source identifiers it names. Identifiers are separated by '+' and
// surrounding whitespace is stripped; an empty identifier is a configuration
// error.
func ParseVarSpec(spec string) (VarSpec, error) {
	parts := strings.Split(spec, "+")
	sources := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return VarSpec{}, &ConfigError{Key: spec, Msg: "malformed variable specification: empty identifier"}
		}
		sources = append(sources, p)
	}
	return VarSpec{Sources: sources, Key: strings.Join(sources, "+")}, nil
}

// Mapping translates variable-spec join-keys to output display names.
// Lookup is an exact string match on the configured key; a composite key
// only matches when the configuration uses the same identifier order.
type Mapping map[string]string

// Name returns the configured display name for key, or key itself when no
// mapping is present.
func (m Mapping) Name(key string) string {
	if name, ok := m[key]; ok {
		return name
	}
	return key
}
