/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportDir    string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the canvas to business_model_canvas.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext("export")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		data := s.ctrl.Snapshot()
		if exportStdout {
			return s.store.Export(cmd.OutOrStdout(), data)
		}
		dir := cfg.Export.Dir
		if cmd.Flags().Changed("dir") {
			dir = exportDir
		}
		path, err := s.store.ExportFile(dir, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", data.Len(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Target directory (default: export.dir from config, else current dir)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print the export instead of writing a file")
}
