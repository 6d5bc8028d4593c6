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

// Command oceanpost is a command-line interface for postprocessing
// ocean-model NetCDF output.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/oceanmodel/oceanpost/oceanpostutil"
)

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := oceanpostutil.NewRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
