// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocess turns input files into analyzable documents. Three
// input kinds are supported: plain text, OCR JSON dumps carrying line
// geometry, and text-layer PDFs.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"invoice-scan/internal/ocr"
)

// Document is the loader output: the full text plus the line list when the
// input format carries one.
type Document struct {
	Filename string
	Text     string
	Lines    []ocr.Line
}

// Load reads an input file by extension. JSON dumps and PDFs yield lines
// with geometry; everything else is treated as plain text.
func Load(path string) (*Document, error) {
	doc := &Document{Filename: filepath.Base(path)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		lines, err := ocr.LoadLines(path)
		if err != nil {
			return nil, err
		}
		doc.Lines = lines
		doc.Text = ocr.JoinText(lines)

	case ".pdf":
		lines, err := ExtractPDFLines(path)
		if err != nil {
			return nil, err
		}
		doc.Lines = lines
		doc.Text = ocr.JoinText(lines)

	default:
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("error reading input file: %w", err)
		}
		doc.Text = string(data)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("no text content in %s", doc.Filename)
	}
	return doc, nil
}
