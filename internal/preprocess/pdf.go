// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"invoice-scan/internal/ocr"
)

// maxPages caps processing for very large PDFs.
const maxPages = 20

// ExtractPDFLines extracts positioned text lines from a text-layer PDF.
// Row coordinates are normalized to page fractions with a top-left origin
// so downstream layout analysis sees the same geometry as an OCR dump.
func ExtractPDFLines(filePath string) ([]ocr.Line, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	var lines []ocr.Line
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		pageLines, err := extractPageLines(p)
		if err != nil {
			// Fall back to the plain text layer for this page.
			text, textErr := p.GetPlainText(nil)
			if textErr != nil {
				continue
			}
			pageLines = ocr.FromText(text)
		}
		lines = append(lines, pageLines...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", filePath)
	}
	return lines, nil
}

// extractPageLines converts one page's text rows into positioned lines.
func extractPageLines(p pdf.Page) ([]ocr.Line, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, err
	}

	width, height := pageSize(p)

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}
	// PDF Y grows bottom-up; read top-down.
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) > averageY(sortedRows[j].Content)
	})

	var lines []ocr.Line
	for _, row := range sortedRows {
		text := reconstructRowText(row.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, ocr.Line{
			Text:       strings.TrimSpace(text),
			Box:        rowBox(row.Content, width, height),
			Confidence: 1.0,
			Source:     ocr.SourceStandard,
		})
	}
	return lines, nil
}

// pageSize reads the media box dimensions, defaulting to US Letter points.
func pageSize(p pdf.Page) (float64, float64) {
	width, height := 612.0, 792.0
	mediaBox := p.V.Key("MediaBox")
	if mediaBox.Kind() == pdf.Array && mediaBox.Len() == 4 {
		x0 := mediaBox.Index(0).Float64()
		y0 := mediaBox.Index(1).Float64()
		x1 := mediaBox.Index(2).Float64()
		y1 := mediaBox.Index(3).Float64()
		if x1 > x0 && y1 > y0 {
			width, height = x1-x0, y1-y0
		}
	}
	return width, height
}

// rowBox computes the normalized bounding box of a row, flipping the Y
// axis to a top-left origin.
func rowBox(textElements []pdf.Text, pageWidth, pageHeight float64) ocr.BoundingBox {
	minX, maxX := textElements[0].X, textElements[0].X+textElements[0].W
	maxY := textElements[0].Y
	fontSize := textElements[0].FontSize
	for _, element := range textElements[1:] {
		if element.X < minX {
			minX = element.X
		}
		if end := element.X + element.W; end > maxX {
			maxX = end
		}
		if element.Y > maxY {
			maxY = element.Y
		}
		if element.FontSize > fontSize {
			fontSize = element.FontSize
		}
	}
	if fontSize <= 0 {
		fontSize = 12
	}

	box := ocr.BoundingBox{
		X:      minX / pageWidth,
		Y:      (pageHeight - maxY - fontSize) / pageHeight,
		Width:  (maxX - minX) / pageWidth,
		Height: fontSize / pageHeight,
	}
	return clampBox(box)
}

func clampBox(box ocr.BoundingBox) ocr.BoundingBox {
	if box.X < 0 {
		box.X = 0
	}
	if box.Y < 0 {
		box.Y = 0
	}
	if box.X+box.Width > 1 {
		box.Width = 1 - box.X
	}
	if box.Y+box.Height > 1 {
		box.Height = 1 - box.Y
	}
	return box
}

// averageY is the mean Y coordinate of a row's text elements.
func averageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}
	var total float64
	for _, element := range textElements {
		total += element.Y
	}
	return total / float64(len(textElements))
}

// reconstructRowText joins row elements left to right, inserting spaces
// where the horizontal gap exceeds a fraction of the font size.
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(textElements))
	copy(sorted, textElements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var builder strings.Builder
	for i, element := range sorted {
		builder.WriteString(element.S)

		if i < len(sorted)-1 {
			gap := sorted[i+1].X - (element.X + element.W)
			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			if gap > fontSize*0.2 {
				builder.WriteString(" ")
			}
		}
	}
	return builder.String()
}
