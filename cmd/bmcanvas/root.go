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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bmcanvas/internal/config"
	applog "bmcanvas/internal/log"
)

var (
	verbose     bool
	dataDirFlag string
	backendFlag string

	// cfg is resolved in PersistentPreRunE before any command body runs.
	cfg config.AppConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bmcanvas",
	Short: "Edit a Business Model Canvas from the terminal",
	Long: `bmcanvas keeps a single Business Model Canvas: nine blocks of short notes
(partners, activities, value propositions, ...). Every change is saved at once,
and the canvas can be exported to JSON, imported back or printed as PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data-dir") {
			c.Storage.DataDir = dataDirFlag
		}
		if cmd.Flags().Changed("backend") {
			c.Storage.Backend = backendFlag
		}
		if verbose {
			c.Logging.Level = "debug"
		}
		cfg = c
		applog.Init(cfg.LogOptions())
		applog.WithComponent("cli").Debug("start",
			slog.String("cmd", cmd.Name()),
			slog.String("backend", cfg.Storage.Backend),
			slog.String("data_dir", cfg.Storage.DataDir))
		crashTarget.DataDir = cfg.Storage.DataDir
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the canvas (default: per-user data dir)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: file, sqlite or memory")
}
