// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/checksum"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/ocr"
)

var (
	invoiceNumberToken = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9\-/_.]{1,28}[A-Za-z0-9]`)
	// Typical header forms: FV/123/2026, 2026/08/0042, INV-2026-0042.
	invoiceNumberHeader = regexp.MustCompile(`(?i)\b(?:fv|inv|f)[-/ ]?[A-Za-z0-9\-/]*\d[A-Za-z0-9\-/]*\b|\b\d{1,5}/\d{1,4}(?:/\d{2,4})?\b`)
	hasDigit            = regexp.MustCompile(`\d`)
	letterPrefix        = regexp.MustCompile(`^[A-Za-z]`)
)

// InvoiceNumberExtractor finds the invoice number via anchors and the
// top-of-page header regions.
type InvoiceNumberExtractor struct {
	weights InvoiceNumberWeights
}

// NewInvoiceNumberExtractor builds the extractor.
func NewInvoiceNumberExtractor(w InvoiceNumberWeights) *InvoiceNumberExtractor {
	return &InvoiceNumberExtractor{weights: w}
}

// Extract runs the anchor and region strategies.
func (e *InvoiceNumberExtractor) Extract(doc *Document) FieldExtraction {
	var candidates []Candidate

	for _, a := range doc.Anchors.OfType(anchor.TypeInvoiceNumber) {
		if value := extractInvoiceNumber(a.ValueAfter()); value != "" {
			candidates = append(candidates, e.candidate(doc, value, a.Line, MethodAnchorSameLine, a, e.weights.AnchorSameLineBase))
		}
		if !doc.HasGeometry {
			// Reduced path: the value often sits on the following line.
			if a.LineIndex+1 < len(doc.Lines) {
				next := doc.Lines[a.LineIndex+1]
				if value := extractInvoiceNumber(next.Text); value != "" {
					candidates = append(candidates, e.candidate(doc, value, next, MethodAnchorBelow, a, e.weights.AnchorBelowBase))
				}
			}
			continue
		}
		for _, line := range doc.Layout.LinesRightOf(a.Line, 0.02) {
			if value := extractInvoiceNumber(line.Text); value != "" {
				candidates = append(candidates, e.candidate(doc, value, line, MethodAnchorRight, a, e.weights.AnchorRightBase))
				break
			}
		}
		for _, line := range doc.Layout.LinesBelow(a.Line, 0.04) {
			if value := extractInvoiceNumber(line.Text); value != "" {
				candidates = append(candidates, e.candidate(doc, value, line, MethodAnchorBelow, a, e.weights.AnchorBelowBase))
				break
			}
		}
	}

	if doc.HasGeometry {
		for _, region := range []layout.Region{layout.RegionTopCenter, layout.RegionTopRight} {
			for _, line := range doc.Layout.LinesInRegion(region) {
				m := invoiceNumberHeader.FindString(line.Text)
				if m == "" {
					continue
				}
				if value := extractInvoiceNumber(m); value != "" {
					candidates = append(candidates, Candidate{
						Value:      value,
						Confidence: doc.scale(e.weights.RegionBase),
						Box:        line.Box,
						Method:     MethodRegionHeuristic,
						SourceLine: line.Text,
						Region:     region.String(),
						LineIndex:  doc.lineIndex(line),
					})
					break
				}
			}
		}
	}

	return Dedupe(FieldExtraction{Field: FieldInvoiceNumber, Candidates: candidates}, strings.TrimSpace)
}

func (e *InvoiceNumberExtractor) candidate(doc *Document, value string, line ocr.Line, method Method, a anchor.Detected, base float64) Candidate {
	return Candidate{
		Value:         value,
		Confidence:    doc.scale(base * a.Confidence),
		Box:           line.Box,
		Method:        method,
		MatchedPhrase: a.MatchedPhrase,
		SourceLine:    line.Text,
		AnchorType:    anchor.TypeInvoiceNumber,
		LineIndex:     doc.lineIndex(line),
	}
}

// extractInvoiceNumber pulls the first token shaped like an invoice number
// out of a string; empty when nothing qualifies.
func extractInvoiceNumber(s string) string {
	for _, token := range invoiceNumberToken.FindAllString(s, -1) {
		if validInvoiceNumber(token) {
			return token
		}
	}
	return ""
}

// validInvoiceNumber: 3–30 chars of alphanumerics and separators with at
// least one digit. A bare date is rejected unless letter-prefixed
// ("FV/15.03.2026" passes, "15.03.2026" does not).
func validInvoiceNumber(s string) bool {
	if len(s) < 3 || len(s) > 30 {
		return false
	}
	if !hasDigit.MatchString(s) {
		return false
	}
	if checksum.LooksLikeDate(s) && !letterPrefix.MatchString(s) {
		return false
	}
	// Values claimed by other fields never qualify.
	if checksum.LooksLikeAmount(s) || checksum.LooksLikeAccountNumber(s) || checksum.LooksLikeTaxID(s) {
		return false
	}
	return true
}
