// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package anchor finds field labels ("Sprzedawca:", "Amount due") on OCR
// lines. An anchor marks where a label is, not where the value is; the
// extractors use anchors as spatial reference points.
package anchor

import (
	"sort"
	"strings"

	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

// Type identifies what kind of label an anchor is.
type Type string

const (
	TypeVendor        Type = "vendor"
	TypeBuyer         Type = "buyer"
	TypeDueDate       Type = "due-date"
	TypeAmount        Type = "amount"
	TypeTaxID         Type = "tax-id"
	TypeRegistryID    Type = "registry-id"
	TypeInvoiceNumber Type = "invoice-number"
	TypeDate          Type = "date"
	TypeBankAccount   Type = "bank-account"
	TypePaymentTerms  Type = "payment-terms"
)

// Detected is a label found on a line.
type Detected struct {
	Type          Type
	Line          ocr.Line
	LineIndex     int
	Confidence    float64
	MatchedPhrase string
	// IsLabel is set when the text after the phrase looks like a label
	// (a colon, or trailing content that would be the value).
	IsLabel bool
}

const (
	// minConfidence is the floor below which matches are discarded.
	minConfidence = 0.5
	// lineStartBonus rewards a phrase at the very start of the line,
	// where labels live on real invoices.
	lineStartBonus = 0.05
	// labelShapeBonus rewards a colon or trailing content after the phrase.
	labelShapeBonus = 0.05
)

// Detector matches the phrase tables against lines.
type Detector struct {
	tables map[Type][]Phrase
}

// NewDetector returns a detector over the built-in phrase tables.
func NewDetector() *Detector {
	return &Detector{tables: phraseTables}
}

// Result holds all anchors of one document.
type Result struct {
	All  []Detected
	best map[Type]Detected
}

// Best returns the highest-confidence anchor of the given type.
func (r *Result) Best(t Type) (Detected, bool) {
	d, ok := r.best[t]
	return d, ok
}

// OfType returns all anchors of one type, best first.
func (r *Result) OfType(t Type) []Detected {
	var out []Detected
	for _, d := range r.All {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Detect scans every line against every phrase table and returns all
// anchors above the confidence floor, sorted descending.
func (d *Detector) Detect(lines []ocr.Line) *Result {
	result := &Result{best: make(map[Type]Detected)}
	for i, line := range lines {
		result.All = append(result.All, d.DetectLine(line, i)...)
	}
	sort.SliceStable(result.All, func(i, j int) bool {
		return result.All[i].Confidence > result.All[j].Confidence
	})
	for _, det := range result.All {
		if existing, ok := result.best[det.Type]; !ok || det.Confidence > existing.Confidence {
			result.best[det.Type] = det
		}
	}
	return result
}

// DetectLine returns the best match per anchor type for a single line.
func (d *Detector) DetectLine(line ocr.Line, index int) []Detected {
	normalized := locale.Normalize(line.Text)
	if normalized == "" {
		return nil
	}

	var out []Detected
	for anchorType, phrases := range d.tables {
		best, found := d.matchType(normalized, phrases)
		if !found || best.Confidence < minConfidence {
			continue
		}
		best.Type = anchorType
		best.Line = line
		best.LineIndex = index
		out = append(out, best)
	}
	return out
}

func (d *Detector) matchType(normalized string, phrases []Phrase) (Detected, bool) {
	var best Detected
	found := false
	for _, phrase := range phrases {
		idx := strings.Index(normalized, phrase.Text)
		if idx < 0 {
			continue
		}
		confidence := phrase.Confidence
		if idx == 0 {
			confidence += lineStartBonus
		}
		rest := strings.TrimSpace(normalized[idx+len(phrase.Text):])
		isLabel := strings.HasPrefix(rest, ":") || rest != ""
		if isLabel {
			confidence += labelShapeBonus
		}
		if confidence > 1.0 {
			confidence = 1.0
		}
		if !found || confidence > best.Confidence ||
			(confidence == best.Confidence && len(phrase.Text) > len(best.MatchedPhrase)) {
			best = Detected{
				Confidence:    confidence,
				MatchedPhrase: phrase.Text,
				IsLabel:       isLabel,
			}
			found = true
		}
	}
	return best, found
}

// ValueAfter returns the text following the matched phrase on the anchor's
// own line, with label punctuation stripped. Empty when the label has no
// inline value.
func (a Detected) ValueAfter() string {
	cut := phraseEndInOriginal(a.Line.Text, a.MatchedPhrase)
	if cut < 0 {
		return ""
	}
	rest := a.Line.Text[cut:]
	rest = strings.TrimLeft(rest, " \t:.-")
	return strings.TrimSpace(rest)
}

// phraseEndInOriginal locates the byte offset in the original string at
// which the folded phrase ends. It folds the original rune-by-rune while
// recording each folded byte's source offset, then searches the folded
// text for the phrase.
func phraseEndInOriginal(original, foldedPhrase string) int {
	var folded strings.Builder
	var offsets []int // offsets[i] = original byte offset after folded byte i
	pendingSpace := false
	for byteIdx, r := range original {
		f := locale.Normalize(string(r))
		end := byteIdx + len(string(r))
		if f == "" {
			// Whitespace or a rune folded away: collapse to one space,
			// matching locale.Normalize.
			pendingSpace = folded.Len() > 0
			continue
		}
		if pendingSpace {
			folded.WriteByte(' ')
			offsets = append(offsets, byteIdx)
			pendingSpace = false
		}
		folded.WriteString(f)
		for i := 0; i < len(f); i++ {
			offsets = append(offsets, end)
		}
	}
	idx := strings.Index(folded.String(), foldedPhrase)
	if idx < 0 {
		return -1
	}
	last := idx + len(foldedPhrase) - 1
	if last >= len(offsets) {
		return -1
	}
	return offsets[last]
}
