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

// Bank account shapes, strongest first. Which shape matched decides which
// checksum (if any) adjusts the confidence.
var (
	ibanShape     = regexp.MustCompile(`\b[A-Z]{2}\s?\d{2}(?:[ -]?\d{4}){4,7}(?:[ -]?\d{1,4})?\b`)
	domesticShape = regexp.MustCompile(`\b\d{2}(?:[ -]?\d{4}){6}\b|\b\d{26}\b`)
	routingShape  = regexp.MustCompile(`(?i)\b(?:routing|aba)[^0-9]{0,12}(\d{9})\b`)
	usAccountShape = regexp.MustCompile(`(?i)\b(?:account|acct)\.?\s*(?:number|no\.?|#)?[^0-9]{0,8}(\d{6,17})\b`)
)

type accountShape int

const (
	shapeIBAN accountShape = iota
	shapeDomestic
	shapeRouting
	shapeUSAccount
)

// BankAccountExtractor finds the payment account: IBAN, domestic 26-digit,
// or labeled US routing/account numbers.
type BankAccountExtractor struct {
	weights BankAccountWeights
}

// NewBankAccountExtractor builds the extractor.
func NewBankAccountExtractor(w BankAccountWeights) *BankAccountExtractor {
	return &BankAccountExtractor{weights: w}
}

// Extract runs the anchor, region and pattern strategies.
func (e *BankAccountExtractor) Extract(doc *Document) FieldExtraction {
	var candidates []Candidate

	for _, a := range doc.Anchors.OfType(anchor.TypeBankAccount) {
		if value, shape, ok := findAccount(a.Line.Text); ok {
			candidates = append(candidates, e.candidate(doc, value, shape, a.Line, MethodAnchorSameLine, e.weights.AnchorSameLineBase*a.Confidence))
		}
		if !doc.HasGeometry {
			if a.LineIndex+1 < len(doc.Lines) {
				next := doc.Lines[a.LineIndex+1]
				if value, shape, ok := findAccount(next.Text); ok {
					candidates = append(candidates, e.candidate(doc, value, shape, next, MethodAnchorBelow, e.weights.AnchorBelowBase*a.Confidence))
				}
			}
			continue
		}
		for _, line := range doc.Layout.LinesBelow(a.Line, 0.05) {
			if value, shape, ok := findAccount(line.Text); ok {
				candidates = append(candidates, e.candidate(doc, value, shape, line, MethodAnchorBelow, e.weights.AnchorBelowBase*a.Confidence))
				break
			}
		}
		for _, line := range doc.Layout.LinesRightOf(a.Line, 0.02) {
			if value, shape, ok := findAccount(line.Text); ok {
				candidates = append(candidates, e.candidate(doc, value, shape, line, MethodAnchorRight, e.weights.AnchorRightBase*a.Confidence))
				break
			}
		}
	}

	if doc.HasGeometry {
		for _, line := range doc.Layout.LinesInRegion(layout.RegionBottomLeft) {
			if value, shape, ok := findAccount(line.Text); ok {
				c := e.candidate(doc, value, shape, line, MethodRegionHeuristic, e.weights.RegionBase)
				c.Region = layout.RegionBottomLeft.String()
				candidates = append(candidates, c)
				break
			}
		}
	}

	// Pattern fallback over the whole document for the checksummed shapes;
	// bare US account numbers need a label and are excluded here.
	for _, line := range doc.Lines {
		if value, shape, ok := findAccount(line.Text); ok && (shape == shapeIBAN || shape == shapeDomestic) {
			candidates = append(candidates, e.candidate(doc, value, shape, line, MethodGenericPattern, e.weights.PatternBase))
		}
	}

	return Dedupe(FieldExtraction{Field: FieldBankAccount, Candidates: candidates}, NormalizeAccount)
}

// candidate applies the shape-appropriate checksum adjustment: IBAN and
// domestic numbers get mod-97, 9-digit values get the routing checksum,
// bare account numbers stay neutral.
func (e *BankAccountExtractor) candidate(doc *Document, value string, shape accountShape, line ocr.Line, method Method, base float64) Candidate {
	confidence := base
	switch shape {
	case shapeIBAN:
		if checksum.ValidIBAN(value) {
			confidence += e.weights.ChecksumValidBoost
		} else {
			confidence += e.weights.ChecksumInvalidPenalty
		}
	case shapeDomestic:
		if checksum.ValidDomesticAccount(value) {
			confidence += e.weights.ChecksumValidBoost
		} else {
			confidence += e.weights.ChecksumInvalidPenalty
		}
	case shapeRouting:
		if checksum.ValidRoutingNumber(value) {
			confidence += e.weights.ChecksumValidBoost
		} else {
			confidence += e.weights.ChecksumInvalidPenalty
		}
	case shapeUSAccount:
		// No checksum exists for bare account numbers; neutral.
	}
	return Candidate{
		Value:      strings.TrimSpace(value),
		Confidence: doc.scale(confidence),
		Box:        line.Box,
		Method:     method,
		SourceLine: line.Text,
		AnchorType: anchor.TypeBankAccount,
		LineIndex:  doc.lineIndex(line),
	}
}

// findAccount tries the shapes strongest-evidence first.
func findAccount(text string) (string, accountShape, bool) {
	upper := strings.ToUpper(text)
	if m := ibanShape.FindString(upper); m != "" && len(checksum.DigitsOnly(m)) >= 13 {
		return m, shapeIBAN, true
	}
	if m := domesticShape.FindString(text); m != "" && len(checksum.DigitsOnly(m)) == 26 {
		return m, shapeDomestic, true
	}
	if m := routingShape.FindStringSubmatch(text); m != nil {
		return m[1], shapeRouting, true
	}
	if m := usAccountShape.FindStringSubmatch(text); m != nil {
		// "Account" labels also precede domestic formats the digit-count
		// checks above already claimed; anything reaching here is 6–17
		// digits.
		return m[1], shapeUSAccount, true
	}
	return "", 0, false
}

// NormalizeAccount is the dedupe key: uppercase, digits and letters only.
func NormalizeAccount(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(locale.Fold(s)) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
