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

	"bmcanvas/internal/export"
)

var (
	pdfTitle  string
	pdfAuthor string
	pdfFont   float64
	pdfPage   string
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <out.pdf>",
	Short: "Print the canvas to a one-page PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext("pdf")
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		page := cfg.Export.Page
		if cmd.Flags().Changed("page") {
			page = pdfPage
		}
		preset, err := export.ParsePreset(page)
		if err != nil {
			return err
		}
		opt := export.PDFOptions{Title: pdfTitle, Author: pdfAuthor, FontSize: pdfFont, Page: preset}
		if err := export.CanvasPDF(s.ctrl.Snapshot(), args[0], opt); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringVar(&pdfTitle, "title", "", "Page title (default \"Business Model Canvas\")")
	pdfCmd.Flags().StringVar(&pdfAuthor, "author", "", "Author recorded in the PDF metadata")
	pdfCmd.Flags().Float64Var(&pdfFont, "font-size", 0, "Note text size in points (default 9)")
	pdfCmd.Flags().StringVar(&pdfPage, "page", "", "Page preset: a4, a3 or letter (default: export.page from config)")
}
