// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/checksum"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

var (
	// Domestic 10-digit tax ID, grouped or bare, optional country prefix.
	taxIDPattern = regexp.MustCompile(`(?:PL[\s-]?)?(\d{3}[- ]\d{3}[- ]\d{2}[- ]\d{2}|\d{3}[- ]\d{2}[- ]\d{2}[- ]\d{3}|\d{10})`)
	// 9-digit EIN, dash-guarded; accepted only next to contextual keywords.
	einPattern = regexp.MustCompile(`\b(\d{2}-\d{7})\b`)

	registryPattern      = regexp.MustCompile(`\b(\d{9})\b`)
	courtRegistryPattern = regexp.MustCompile(`\b(\d{10})\b`)
)

var einContextKeywords = []string{"ein", "employer identification", "federal tax", "tax id"}

// TaxIDExtractor finds the vendor's tax identifier.
type TaxIDExtractor struct {
	weights TaxIDWeights
}

// NewTaxIDExtractor builds the extractor from the document's weight table.
func NewTaxIDExtractor(w TaxIDWeights) *TaxIDExtractor {
	return &TaxIDExtractor{weights: w}
}

// Extract runs the anchor, region and pattern strategies and returns the
// deduplicated ranked candidates.
func (e *TaxIDExtractor) Extract(doc *Document) FieldExtraction {
	var candidates []Candidate

	for _, a := range doc.Anchors.OfType(anchor.TypeTaxID) {
		candidates = append(candidates, e.anchorCandidates(doc, a)...)
	}

	if doc.HasGeometry {
		for _, region := range []layout.Region{layout.RegionTopLeft, layout.RegionMiddleLeft} {
			for _, line := range doc.Layout.LinesInRegion(region) {
				if value, matched := e.findTaxID(line.Text); matched {
					candidates = append(candidates, e.candidate(doc, value, line, MethodRegionHeuristic, region.String(), e.weights.RegionBase))
				}
			}
		}
	}

	// Pattern fallback over the whole document.
	for _, line := range doc.Lines {
		if value, matched := e.findTaxID(line.Text); matched {
			candidates = append(candidates, e.candidate(doc, value, line, MethodGenericPattern, "", e.weights.PatternBase))
		}
		if value, matched := e.findEIN(line.Text); matched {
			candidates = append(candidates, e.candidate(doc, value, line, MethodGenericPattern, "", e.weights.PatternBase))
		}
	}

	return Dedupe(FieldExtraction{Field: FieldTaxID, Candidates: candidates}, NormalizeID)
}

func (e *TaxIDExtractor) anchorCandidates(doc *Document, a anchor.Detected) []Candidate {
	var out []Candidate

	if value, matched := e.findTaxID(a.Line.Text); matched {
		out = append(out, e.candidate(doc, value, a.Line, MethodAnchorSameLine, "", e.weights.AnchorSameLineBase*a.Confidence))
	} else if value, matched := e.findEIN(a.Line.Text); matched {
		out = append(out, e.candidate(doc, value, a.Line, MethodAnchorSameLine, "", e.weights.AnchorSameLineBase*a.Confidence))
	}

	if !doc.HasGeometry {
		return out
	}

	for _, line := range doc.Layout.LinesRightOf(a.Line, 0.02) {
		if value, matched := e.findTaxID(line.Text); matched {
			out = append(out, e.candidate(doc, value, line, MethodAnchorRight, "", e.weights.AnchorRightBase*a.Confidence))
			break
		}
	}
	for _, line := range doc.Layout.LinesBelow(a.Line, 0.05) {
		if value, matched := e.findTaxID(line.Text); matched {
			out = append(out, e.candidate(doc, value, line, MethodAnchorBelow, "", e.weights.AnchorBelowBase*a.Confidence))
			break
		}
	}
	return out
}

func (e *TaxIDExtractor) candidate(doc *Document, value string, line ocr.Line, method Method, region string, base float64) Candidate {
	confidence := base
	digits := checksum.DigitsOnly(value)
	switch len(digits) {
	case 10:
		if checksum.ValidTaxID(value) {
			confidence += e.weights.ChecksumValidBoost
		} else {
			confidence += e.weights.ChecksumInvalidPenalty
		}
	case 9:
		if checksum.ValidEIN(value) {
			confidence += e.weights.ChecksumValidBoost
		} else {
			confidence += e.weights.ChecksumInvalidPenalty
		}
	}
	return Candidate{
		Value:      strings.TrimSpace(value),
		Confidence: doc.scale(confidence),
		Box:        line.Box,
		Method:     method,
		SourceLine: line.Text,
		Region:     region,
		AnchorType: anchor.TypeTaxID,
		LineIndex:  doc.lineIndex(line),
	}
}

func (e *TaxIDExtractor) findTaxID(text string) (string, bool) {
	for _, span := range taxIDPattern.FindAllStringIndex(text, -1) {
		// A 10-digit run inside a longer digit sequence is an account
		// number or similar, not a tax ID.
		if span[0] > 0 && isDigit(text[span[0]-1]) {
			continue
		}
		if span[1] < len(text) && isDigit(text[span[1]]) {
			continue
		}
		match := text[span[0]:span[1]]
		if len(checksum.DigitsOnly(match)) == 10 {
			return match, true
		}
	}
	return "", false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// findEIN only accepts the dash-guarded 9-digit form when the line carries
// a contextual keyword; bare NN-NNNNNNN strings are too common.
func (e *TaxIDExtractor) findEIN(text string) (string, bool) {
	m := einPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	normalized := locale.Normalize(text)
	for _, kw := range einContextKeywords {
		if strings.Contains(normalized, kw) {
			return m[1], true
		}
	}
	return "", false
}

// RegistryIDExtractor finds the secondary business-registry identifier
// (statistical registry or court registry number).
type RegistryIDExtractor struct {
	weights TaxIDWeights
}

// NewRegistryIDExtractor builds the extractor.
func NewRegistryIDExtractor(w TaxIDWeights) *RegistryIDExtractor {
	return &RegistryIDExtractor{weights: w}
}

// Extract looks for registry numbers next to registry anchors; there is no
// bare-pattern fallback because 9- and 10-digit runs are too ambiguous
// without a label.
func (e *RegistryIDExtractor) Extract(doc *Document) FieldExtraction {
	var candidates []Candidate

	for _, a := range doc.Anchors.OfType(anchor.TypeRegistryID) {
		if value, ok := findRegistryID(a.Line.Text); ok {
			candidates = append(candidates, Candidate{
				Value:         value,
				Confidence:    doc.scale(e.weights.AnchorSameLineBase * a.Confidence),
				Box:           a.Line.Box,
				Method:        MethodAnchorSameLine,
				MatchedPhrase: a.MatchedPhrase,
				SourceLine:    a.Line.Text,
				AnchorType:    anchor.TypeRegistryID,
				LineIndex:     a.LineIndex,
			})
			continue
		}
		if !doc.HasGeometry {
			continue
		}
		for _, line := range doc.Layout.LinesRightOf(a.Line, 0.02) {
			if value, ok := findRegistryID(line.Text); ok {
				candidates = append(candidates, Candidate{
					Value:         value,
					Confidence:    doc.scale(e.weights.AnchorRightBase * a.Confidence),
					Box:           line.Box,
					Method:        MethodAnchorRight,
					MatchedPhrase: a.MatchedPhrase,
					SourceLine:    line.Text,
					AnchorType:    anchor.TypeRegistryID,
					LineIndex:     doc.lineIndex(line),
				})
				break
			}
		}
	}

	return Dedupe(FieldExtraction{Field: FieldRegistryID, Candidates: candidates}, NormalizeID)
}

func findRegistryID(text string) (string, bool) {
	if m := registryPattern.FindStringSubmatch(text); m != nil && checksum.LooksLikeRegistryID(m[1]) {
		return m[1], true
	}
	if m := courtRegistryPattern.FindStringSubmatch(text); m != nil && checksum.LooksLikeCourtRegistryID(m[1]) {
		return m[1], true
	}
	return "", false
}

// NormalizeID is the dedupe key for identifier fields: digits only.
func NormalizeID(s string) string {
	return checksum.DigitsOnly(s)
}
