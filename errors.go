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
	"strings"
)

// ConfigError reports a missing or invalid configuration value. It is
// detected before any file I/O happens.
type ConfigError struct {
	// Key is the configuration key the error refers to.
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("oceanpost: configuration %s: %s", e.Key, e.Msg)
}

// DiscoveryError reports that a file group with configured variables matched
// no files.
type DiscoveryError struct {
	Group    GroupKind
	Root     string
	Patterns []string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("oceanpost: no %s files found under %s matching %s, but %s variables are configured",
		e.Group, e.Root, strings.Join(e.Patterns, ", "), e.Group)
}

// ResolutionError reports a requested source variable that cannot be
// satisfied from the discovered files, or a composite sum whose components
// have mismatched shapes.
type ResolutionError struct {
	// Ident is the source identifier (or composite join-key) that could
	// not be resolved.
	Ident string
	Msg   string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("oceanpost: resolving variable %s: %s", e.Ident, e.Msg)
}

// DependencyError reports an operation that needs an auxiliary input which
// is not configured, such as a bottom-category aggregation without a mask.
type DependencyError struct {
	Msg string
}

func (e *DependencyError) Error() string {
	return "oceanpost: " + e.Msg
}
