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

// Package oceanpost extracts, aggregates, renames, and re-chunks ocean-model
// output stored in NetCDF files, driven by a declarative configuration.
//
// A run discovers the physics and biogeochemistry source files under a model
// directory, reads the configured variables (which may be sums of several
// source variables), applies a vertical reduction per output category
// (surface, integrated, bottom), optionally renames the results, and writes
// them back out partitioned according to a save option.
package oceanpost
