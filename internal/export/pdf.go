/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a canvas into printable artifacts. The JSON interchange
// format lives with storage; this package only produces documents for people.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"bmcanvas/internal/domain"
)

// PDFOptions controls PDF export behavior. Units are millimetres.
type PDFOptions struct {
	Title    string // printed in the header; defaults to "Business Model Canvas"
	Author   string
	FontSize float64 // item text size in points; default 9
	Date     time.Time
	Page     PresetName // landscape page size; default A4
}

// cell is a block rectangle in grid units: 10 columns by 3 rows, the classic
// canvas arrangement (five tall columns above two wide cost/revenue blocks).
type cell struct {
	block      domain.BlockType
	col, row   float64
	cols, rows float64
}

var layout = []cell{
	{domain.KeyPartners, 0, 0, 2, 2},
	{domain.KeyActivities, 2, 0, 2, 1},
	{domain.KeyResources, 2, 1, 2, 1},
	{domain.ValuePropositions, 4, 0, 2, 2},
	{domain.CustomerRelationships, 6, 0, 2, 1},
	{domain.Channels, 6, 1, 2, 1},
	{domain.CustomerSegments, 8, 0, 2, 2},
	{domain.CostStructure, 0, 2, 5, 1},
	{domain.RevenueStreams, 5, 2, 5, 1},
}

const (
	margin  = 10.0
	headerH = 12.0
	pad     = 2.0
)

// WriteCanvasPDF renders data as a one-page landscape canvas.
func WriteCanvasPDF(w io.Writer, data domain.CanvasData, opt PDFOptions) error {
	page, err := presetFor(opt.Page)
	if err != nil {
		return err
	}
	pageW, pageH := page.width, page.height
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Business Model Canvas"
	}
	fontSize := opt.FontSize
	if fontSize <= 0 {
		fontSize = 9
	}
	date := opt.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := gofpdf.New("L", "mm", page.size, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)
	// Core fonts are cp1252; translate UTF-8 item text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, true)
	}
	pdf.SetCreator("bmcanvas", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin-60, headerH-4, tr(title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, headerH-4, date.Format("2006-01-02"), "", 0, "R", false, 0, "")

	gridTop := margin + headerH
	unitW := (pageW - 2*margin) / 10
	unitH := (pageH - gridTop - margin) / 3

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.3)
	for _, c := range layout {
		x := margin + c.col*unitW
		y := gridTop + c.row*unitH
		drawBlock(pdf, tr, c.block, data.Items(c.block), x, y, c.cols*unitW, c.rows*unitH, fontSize)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// CanvasPDF writes the PDF to outPath, creating parent directories.
func CanvasPDF(data domain.CanvasData, outPath string, opt PDFOptions) error {
	if strings.TrimSpace(outPath) == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := WriteCanvasPDF(f, data, opt); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func drawBlock(pdf *gofpdf.Fpdf, tr func(string) string, b domain.BlockType, items []domain.CanvasItem, x, y, w, h, fontSize float64) {
	pdf.Rect(x, y, w, h, "D")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(x+pad, y+pad)
	pdf.CellFormat(w-2*pad, 5, tr(b.Title()), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize)
	lineH := fontSize * 0.3528 * 1.25 // pt to mm with leading
	bottom := y + h - pad
	cy := y + pad + 6
	textW := w - 2*pad - 3
	for i, it := range items {
		lines := pdf.SplitLines([]byte(tr(it.Text)), textW)
		for j, ln := range lines {
			if cy+lineH > bottom {
				// Out of room: mark the cut and stop.
				pdf.SetXY(x+pad, bottom-lineH)
				pdf.CellFormat(w-2*pad, lineH, tr(fmt.Sprintf("… +%d more", len(items)-i)), "", 0, "R", false, 0, "")
				return
			}
			bullet := ""
			if j == 0 {
				bullet = "-"
			}
			pdf.SetXY(x+pad, cy)
			pdf.CellFormat(3, lineH, bullet, "", 0, "L", false, 0, "")
			pdf.CellFormat(textW, lineH, string(ln), "", 0, "L", false, 0, "")
			cy += lineH
		}
		cy += lineH * 0.3
	}
}
