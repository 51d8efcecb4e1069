/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bmcanvas/internal/domain"
	"bmcanvas/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the canvas again whenever another process changes it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext("watch"), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd)
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	printBlocks(out, s.ctrl.Snapshot(), domain.BlockTypes())
	err = s.store.Watch(ctx, func(data domain.CanvasData) {
		s.ctrl.ReplaceAll(data)
		fmt.Fprintf(out, "\n--- changed %s ---\n", time.Now().Format(time.TimeOnly))
		printBlocks(out, data, domain.BlockTypes())
	})
	if errors.Is(err, storage.ErrWatchUnsupported) {
		return fmt.Errorf("watch needs the file backend (current: %s)", cfg.Storage.Backend)
	}
	return err
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
