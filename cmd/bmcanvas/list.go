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
	"io"

	"github.com/spf13/cobra"

	"bmcanvas/internal/domain"
	"bmcanvas/internal/storage"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list [block]",
	Aliases: []string{"ls"},
	Short:   "Show the canvas or a single block",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks := domain.BlockTypes()
		if len(args) == 1 {
			bt, err := parseBlockArg(args[0])
			if err != nil {
				return err
			}
			blocks = []domain.BlockType{bt}
		}
		ctx := commandContext("list")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		data := s.ctrl.Snapshot()
		if listJSON {
			if len(args) == 1 {
				only := domain.EmptyCanvas()
				only.SetItems(blocks[0], data.Items(blocks[0]))
				data = only
			}
			return s.store.Export(cmd.OutOrStdout(), data)
		}
		printBlocks(cmd.OutOrStdout(), data, blocks)
		return nil
	},
}

func printBlocks(w io.Writer, data domain.CanvasData, blocks []domain.BlockType) {
	for i, bt := range blocks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		items := data.Items(bt)
		fmt.Fprintf(w, "%s (%d)\n", bt.Title(), len(items))
		for _, it := range items {
			fmt.Fprintf(w, "  %s  %s\n", it.ID, it.Text)
		}
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in the "+storage.ExportMIMEType+" export format")
}
