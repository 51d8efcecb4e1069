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

	"bmcanvas/internal/config"
	"bmcanvas/internal/export"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the user configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings and where overrides come from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", path)
		for _, key := range config.Keys() {
			v, err := cfg.Get(key)
			if err != nil {
				return err
			}
			if env, ok := config.EnvOverrideFor(key); ok {
				fmt.Fprintf(out, "%-18s %s  (from %s)\n", key, v, env)
				continue
			}
			fmt.Fprintf(out, "%-18s %s\n", key, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one setting to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "export.page" {
			if _, err := export.ParsePreset(value); err != nil {
				return err
			}
		}
		// Write back the file values only, so env overrides never get persisted.
		fileCfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := fileCfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(fileCfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		v, _ := fileCfg.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
		if env, ok := config.EnvOverrideFor(key); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "note: %s is set and takes precedence\n", env)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
