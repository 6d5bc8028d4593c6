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
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/oceanmodel/oceanpost"
)

// Process loads the configuration at configFile and executes one complete
// run, logging engine progress as it happens. After a successful run the
// effective configuration is echoed to options.ini in the output directory.
func Process(configFile string) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"model_path":  cfg.ModelPath,
		"output_path": cfg.OutputPath,
		"save_option": string(cfg.SaveOption),
		"time_unit":   string(cfg.TimeUnit),
	}).Info("Starting processing run")

	msgChan := make(chan string)
	done := make(chan struct{})
	go func() {
		for msg := range msgChan {
			logrus.Info(msg)
		}
		close(done)
	}()
	err = oceanpost.Run(cfg, msgChan)
	close(msgChan)
	<-done
	if err != nil {
		return err
	}

	if err := WriteConfig(cfg, filepath.Join(cfg.OutputPath, "options.ini")); err != nil {
		return err
	}
	logrus.Info("Processing run finished")
	return nil
}
