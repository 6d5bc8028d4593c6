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

// Package oceanpostutil wires the oceanpost engine to a command-line
// interface, configuration loading, and logging.
package oceanpostutil

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCommand builds the oceanpost command-line interface. The single
// required option selects the configuration file; the process exits non-zero
// on any fatal error.
func NewRootCommand() *cobra.Command {
	var configFile string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "oceanpost",
		Short: "oceanpost extracts and aggregates variables from ocean-model NetCDF output",
		Long: `oceanpost reads a declarative INI configuration naming physical and
biogeochemical model variables (possibly as sums of several source
variables), locates the files that contain them under the model directory,
applies surface, depth-integrated, and bottom reductions, optionally renames
the results, and re-chunks them into output NetCDF files according to the
chosen save option.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return Process(configFile)
		},
	}
	addFlags(cmd.Flags(), &configFile, &verbose)
	cmd.MarkFlagRequired("config")
	return cmd
}

func addFlags(flags *pflag.FlagSet, configFile *string, verbose *bool) {
	flags.StringVarP(configFile, "config", "c", "", "path to the configuration file")
	flags.BoolVarP(verbose, "verbose", "v", false, "enable debug logging")
}
