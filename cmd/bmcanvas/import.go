/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bmcanvas/internal/domain"
	"bmcanvas/internal/schema"
	"bmcanvas/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the canvas with a previously exported file",
	Long: `Import validates the file and, only if it is a well-formed canvas, replaces
every block with its content. A failed import leaves the canvas untouched.
Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext("import")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		var data domain.CanvasData
		if args[0] == "-" {
			data, err = s.ctrl.Import(ctx, cmd.InOrStdin())
		} else {
			data, err = s.ctrl.ImportFile(ctx, args[0])
		}
		if err != nil {
			return describeImportError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes\n", data.Len())
		return nil
	},
}

// describeImportError keeps the classification first and adds every schema
// violation so the user can fix the file in one go.
func describeImportError(err error) error {
	var ie *storage.ImportError
	if !errors.As(err, &ie) {
		return err
	}
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%s:\n%s", ie.Kind, ve.Details())
	}
	return err
}

func init() {
	rootCmd.AddCommand(importCmd)
}
