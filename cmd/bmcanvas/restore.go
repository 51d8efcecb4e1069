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
	"path/filepath"

	"github.com/spf13/cobra"

	"bmcanvas/internal/storage"
)

var restoreList bool

var restoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "Bring back an earlier version of the canvas from the backups folder",
	Long: `Restore imports the newest backup (or the named one) kept by the file
backend when storage.backups is above zero. The current canvas is backed up
in turn, so a restore can itself be undone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext("restore")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		fb, ok := s.store.Blobs().(*storage.FileBlobStore)
		if !ok {
			return fmt.Errorf("backups are kept by the file backend only (current: %s)", cfg.Storage.Backend)
		}
		backups, err := fb.ListBackups(storage.StorageKey)
		if err != nil {
			return err
		}
		if restoreList {
			for _, b := range backups {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Base(b))
			}
			return nil
		}
		if len(backups) == 0 {
			return fmt.Errorf("no backups in %s", filepath.Join(fb.Dir, storage.BackupsDirName))
		}
		path := backups[len(backups)-1]
		if len(args) == 1 {
			path = filepath.Join(fb.Dir, storage.BackupsDirName, filepath.Base(args[0]))
		}

		data, err := s.ctrl.ImportFile(ctx, path)
		if err != nil {
			return describeImportError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d notes from %s\n", data.Len(), filepath.Base(path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVarP(&restoreList, "list", "l", false, "List available backups instead of restoring")
}
