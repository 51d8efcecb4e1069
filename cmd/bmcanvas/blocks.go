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

	"bmcanvas/internal/domain"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List the nine block names accepted by add, remove and list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, bt := range domain.BlockTypes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", bt, bt.Title())
		}
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
