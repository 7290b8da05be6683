// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ocr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Source identifies which recognition pass produced a line.
type Source string

const (
	SourceStandard  Source = "standard"
	SourceSensitive Source = "sensitive"
	SourceMerged    Source = "merged"
)

// BoundingBox is the normalized position of a line on the page.
// Coordinates are page fractions in [0,1]; the origin is the top-left corner.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 {
	return b.X + b.Width/2
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return b.Y + b.Height/2
}

// MaxY returns the bottom edge of the box.
func (b BoundingBox) MaxY() float64 {
	return b.Y + b.Height
}

// MaxX returns the right edge of the box.
func (b BoundingBox) MaxX() float64 {
	return b.X + b.Width
}

// Line is one recognized line of text with its position and recognition
// confidence. Lines are produced by the external OCR collaborator and are
// read-only to the analysis engine.
type Line struct {
	Text       string      `json:"text"`
	Box        BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
	Source     Source      `json:"source,omitempty"`
}

// HasGeometry reports whether the line carries a usable bounding box.
// Lines synthesized from plain text have zero-size boxes.
func (l Line) HasGeometry() bool {
	return l.Box.Width > 0 && l.Box.Height > 0
}

// LoadLines reads an OCR dump file: a JSON array of lines as produced by
// external OCR tooling ([{text, bbox, confidence, source}]).
func LoadLines(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR dump: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse OCR dump %s: %w", path, err)
	}
	return lines, nil
}

// FromText synthesizes geometry-free lines from a plain text blob, one Line
// per non-empty text line. Used by the reduced text-only analysis path.
func FromText(text string) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lines = append(lines, Line{
			Text:       trimmed,
			Confidence: 1.0,
			Source:     SourceStandard,
		})
	}
	return lines
}

// JoinText reassembles the full document text from a line list.
func JoinText(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, "\n")
}
