// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"strings"
	"time"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

func testNow() time.Time {
	return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
}

// gline builds a positioned line with solid OCR confidence.
func gline(text string, x, y, w, h float64) ocr.Line {
	return ocr.Line{
		Text:       text,
		Box:        ocr.BoundingBox{X: x, Y: y, Width: w, Height: h},
		Confidence: 0.95,
	}
}

// buildDoc runs the same pre-analysis the analyzer does.
func buildDoc(lines []ocr.Line, lang locale.Language) *Document {
	la := layout.Analyze(lines)
	return &Document{
		Lines:       lines,
		Text:        ocr.JoinText(lines),
		Layout:      la,
		Anchors:     anchor.NewDetector().Detect(lines),
		Language:    lang,
		HasGeometry: la.HasGeometry(),
		Weights:     DefaultWeights(),
		Now:         testNow,
	}
}

// textDoc builds a document from plain text lines, no geometry.
func textDoc(lang locale.Language, texts ...string) *Document {
	return buildDoc(ocr.FromText(strings.Join(texts, "\n")), lang)
}
