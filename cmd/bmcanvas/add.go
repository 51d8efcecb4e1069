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
	"strings"

	"github.com/spf13/cobra"

	"bmcanvas/internal/domain"
)

var addCmd = &cobra.Command{
	Use:   "add <block> <text...>",
	Short: "Add a note to a block",
	Long: `Add appends a note to one of the nine blocks and saves the canvas.
Blocks may be written as key-partners, "Key Partners" or key_partners.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bt, err := parseBlockArg(args[0])
		if err != nil {
			return err
		}
		ctx := commandContext("add")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		item, ok := s.ctrl.AddItem(ctx, bt, strings.Join(args[1:], " "))
		if !ok {
			return fmt.Errorf("text must not be empty")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", item.ID, bt.Title())
		return nil
	},
}

func parseBlockArg(s string) (domain.BlockType, error) {
	bt, ok := domain.ParseBlockType(s)
	if !ok {
		names := make([]string, 0, len(domain.BlockTypes()))
		for _, b := range domain.BlockTypes() {
			names = append(names, string(b))
		}
		return "", fmt.Errorf("unknown block %q (one of: %s)", s, strings.Join(names, ", "))
	}
	return bt, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
}
