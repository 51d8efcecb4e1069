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

var removeCmd = &cobra.Command{
	Use:     "remove <block> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a note from a block",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bt, err := parseBlockArg(args[0])
		if err != nil {
			return err
		}
		ctx := commandContext("remove")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if !s.ctrl.RemoveItem(ctx, bt, args[1]) {
			return fmt.Errorf("no note %s in %s", args[1], bt.Title())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], bt.Title())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
