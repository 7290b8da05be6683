// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract implements the per-field extraction strategies. Each
// extractor runs several independent strategies over the analyzed document
// and emits ranked candidates; it never fails, it only finds nothing.
package extract

import (
	"sort"
	"strings"
	"time"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

// Field identifies an extracted invoice field.
type Field string

const (
	FieldVendor        Field = "vendor"
	FieldVendorAddress Field = "vendor-address"
	FieldTaxID         Field = "tax-id"
	FieldRegistryID    Field = "registry-id"
	FieldAmount        Field = "amount"
	FieldDueDate       Field = "due-date"
	FieldInvoiceNumber Field = "invoice-number"
	FieldBankAccount   Field = "bank-account"
)

// Method is the closed set of extraction strategies. Tie-break and
// cross-validation logic switches on this tag; the matched phrase rides
// along as evidence.
type Method string

const (
	MethodAnchorSameLine  Method = "anchor-same-line"
	MethodAnchorRight     Method = "anchor-right"
	MethodAnchorBelow     Method = "anchor-below-column"
	MethodTaxIDFallback   Method = "tax-id-fallback"
	MethodRegionHeuristic Method = "region-heuristic"
	MethodDirectScan      Method = "direct-scan"
	MethodGenericPattern  Method = "generic-pattern"
	MethodCrossField      Method = "cross-field"
)

// Category groups methods into independent evidence sources for
// cross-validation: agreement across categories is strong evidence,
// agreement within one category is not.
func (m Method) Category() string {
	switch m {
	case MethodAnchorSameLine, MethodAnchorRight, MethodAnchorBelow:
		return "anchor"
	case MethodTaxIDFallback, MethodCrossField:
		return "tax-id"
	case MethodRegionHeuristic:
		return "region"
	default:
		return "pattern"
	}
}

// Candidate is one hypothesis for a field's value.
type Candidate struct {
	Value      string
	Confidence float64
	Box        ocr.BoundingBox
	Method     Method
	// MatchedPhrase is the label or pattern evidence that produced the
	// candidate.
	MatchedPhrase string
	// SourceLine is the text of the line the value came from.
	SourceLine string
	Region     string
	AnchorType anchor.Type
	// Class tags amount candidates by payment semantics ("due", "total",
	// "currency", "vat", "bare"); empty for other fields.
	Class string
	// Currency is the currency marker found next to an amount value.
	Currency string
	// CapturedAddress carries address lines captured as a side effect of
	// vendor-block extraction.
	CapturedAddress string
	// Score is the raw pre-normalization score for score-ranked fields
	// (amount, due date); zero elsewhere.
	Score float64
	// LineIndex is the candidate's position in the document, used as a
	// ranking tie-break.
	LineIndex int
}

// FieldExtraction is the ranked candidate list for one field.
type FieldExtraction struct {
	Field      Field
	Candidates []Candidate
}

// Best returns the top-ranked candidate.
func (fe FieldExtraction) Best() (Candidate, bool) {
	if len(fe.Candidates) == 0 {
		return Candidate{}, false
	}
	return fe.Candidates[0], true
}

// Empty reports whether no strategy produced a candidate.
func (fe FieldExtraction) Empty() bool {
	return len(fe.Candidates) == 0
}

// Document bundles everything the extractors need for one analysis call.
// It is built once by the analyzer and read-only afterwards.
type Document struct {
	Lines    []ocr.Line
	Text     string
	Layout   *layout.Analysis
	Anchors  *anchor.Result
	Language locale.Language
	// HasGeometry is false on the reduced text-only path; extractors then
	// skip spatial strategies and scale confidences down.
	HasGeometry bool
	Weights     ScoringWeights
	Now         func() time.Time
}

// scale applies the text-only confidence reduction. The same keyword match
// is worth strictly less without layout corroboration.
func (d *Document) scale(confidence float64) float64 {
	if d.HasGeometry {
		return clamp01(confidence)
	}
	return clamp01(confidence * d.Weights.TextOnlyScale)
}

func (d *Document) lineIndex(line ocr.Line) int {
	for i, l := range d.Lines {
		if l.Text == line.Text && l.Box == line.Box {
			return i
		}
	}
	return -1
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// Dedupe collapses candidates sharing a normalized value, keeping the
// highest-confidence instance, and re-sorts descending. It runs after
// every extractor and is idempotent.
func Dedupe(fe FieldExtraction, normalize func(string) string) FieldExtraction {
	if normalize == nil {
		normalize = func(s string) string { return strings.TrimSpace(s) }
	}
	best := make(map[string]int)
	var kept []Candidate
	for _, c := range fe.Candidates {
		key := normalize(c.Value)
		if idx, seen := best[key]; seen {
			if c.Confidence > kept[idx].Confidence {
				kept[idx] = c
			}
			continue
		}
		best[key] = len(kept)
		kept = append(kept, c)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	return FieldExtraction{Field: fe.Field, Candidates: kept}
}
