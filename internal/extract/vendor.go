// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"
	"unicode"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/checksum"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

// junkHeaderTypes are label types that terminate a vendor block: a line
// carrying one of these belongs to another section.
var junkHeaderTypes = map[anchor.Type]bool{
	anchor.TypeBuyer:         true,
	anchor.TypeDate:          true,
	anchor.TypeDueDate:       true,
	anchor.TypeAmount:        true,
	anchor.TypeTaxID:         true,
	anchor.TypeBankAccount:   true,
	anchor.TypeInvoiceNumber: true,
	anchor.TypePaymentTerms:  true,
}

var taxIDMentionKeywords = []string{"nip", "tax id", "vat id", "ein", "regon"}

// VendorExtractor finds the vendor name. The tax-ID line is reused as an
// independent spatial signal, so extraction order matters: tax ID first.
type VendorExtractor struct {
	weights VendorWeights
}

// NewVendorExtractor builds the extractor.
func NewVendorExtractor(w VendorWeights) *VendorExtractor {
	return &VendorExtractor{weights: w}
}

// Extract runs the four vendor strategies and cross-validates agreement
// between the independent ones.
func (e *VendorExtractor) Extract(doc *Document, taxIDs FieldExtraction) FieldExtraction {
	var candidates []Candidate

	candidates = append(candidates, e.anchorBlock(doc)...)
	candidates = append(candidates, e.taxIDFallback(doc, taxIDs)...)
	candidates = append(candidates, e.regionScan(doc)...)

	candidates = e.crossValidate(candidates)

	return Dedupe(FieldExtraction{Field: FieldVendor, Candidates: candidates}, locale.Normalize)
}

// anchorBlock captures a block of lines below the vendor label in the same
// column; the first valid line is the name, the rest the address.
func (e *VendorExtractor) anchorBlock(doc *Document) []Candidate {
	var out []Candidate
	for _, a := range doc.Anchors.OfType(anchor.TypeVendor) {
		// The label's own line may carry the name ("Sprzedawca: ACME").
		if inline := a.ValueAfter(); checksum.ValidVendorName(inline) {
			out = append(out, e.candidate(doc, inline, a.Line, MethodAnchorSameLine, a, ""))
		}

		if !doc.HasGeometry {
			// Text-only: take the next document lines as the block.
			out = append(out, e.textBlock(doc, a)...)
			continue
		}

		var name string
		var nameLine ocr.Line
		var address []string
		for _, line := range doc.Layout.LinesBelow(a.Line, e.weights.BlockMaxDY) {
			if len(address) >= e.weights.BlockMaxLines {
				break
			}
			if !doc.Layout.SameColumn(a.Line, line) {
				continue
			}
			if e.isJunkHeader(doc, line) {
				break
			}
			if name == "" {
				if checksum.ValidVendorName(line.Text) {
					name = strings.TrimSpace(line.Text)
					nameLine = line
				}
				continue
			}
			if looksLikeAddressLine(line.Text) {
				address = append(address, strings.TrimSpace(line.Text))
			}
		}
		if name != "" {
			c := e.candidate(doc, name, nameLine, MethodAnchorBelow, a, strings.Join(address, "\n"))
			out = append(out, c)
		}
	}
	return out
}

// textBlock is the reduced-capability block capture: document order stands
// in for spatial order.
func (e *VendorExtractor) textBlock(doc *Document, a anchor.Detected) []Candidate {
	var name string
	var nameLine ocr.Line
	var address []string
	limit := a.LineIndex + 1 + e.weights.BlockMaxLines
	for i := a.LineIndex + 1; i < len(doc.Lines) && i < limit; i++ {
		line := doc.Lines[i]
		if e.isJunkHeader(doc, line) {
			break
		}
		if name == "" {
			if checksum.ValidVendorName(line.Text) {
				name = strings.TrimSpace(line.Text)
				nameLine = line
			}
			continue
		}
		if looksLikeAddressLine(line.Text) {
			address = append(address, strings.TrimSpace(line.Text))
		}
	}
	if name == "" {
		return nil
	}
	return []Candidate{e.candidate(doc, name, nameLine, MethodAnchorBelow, a, strings.Join(address, "\n"))}
}

// taxIDFallback treats the line immediately above a detected tax ID, in
// the same column, as a vendor signal comparable in strength to the anchor
// block; invoices nearly always print the name directly over its NIP.
func (e *VendorExtractor) taxIDFallback(doc *Document, taxIDs FieldExtraction) []Candidate {
	var out []Candidate
	for _, taxID := range taxIDs.Candidates {
		if taxID.LineIndex < 0 {
			continue
		}
		taxLine := doc.Lines[taxID.LineIndex]

		if doc.HasGeometry {
			for _, above := range doc.Layout.LinesAbove(taxLine, 0.05) {
				if !doc.Layout.SameColumn(taxLine, above) {
					continue
				}
				if c, ok := e.fallbackCandidate(doc, above); ok {
					out = append(out, c)
				}
				break
			}
			continue
		}

		if i := taxID.LineIndex - 1; i >= 0 {
			if c, ok := e.fallbackCandidate(doc, doc.Lines[i]); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *VendorExtractor) fallbackCandidate(doc *Document, line ocr.Line) (Candidate, bool) {
	name := strings.TrimSpace(line.Text)
	// The line above the tax ID may itself carry a vendor label
	// ("Sprzedawca: ACME"); strip it so agreement with the anchor
	// strategy dedupes to one value.
	for _, a := range doc.Anchors.OfType(anchor.TypeVendor) {
		if a.Line.Text == line.Text && a.Line.Box == line.Box {
			if inline := a.ValueAfter(); inline != "" {
				name = inline
			}
			break
		}
	}
	if !checksum.ValidVendorName(name) {
		return Candidate{}, false
	}
	confidence := e.weights.TaxIDFallbackBase
	if checksum.HasLegalEntitySuffix(name) {
		confidence += e.weights.LegalSuffixBoost
	}
	return Candidate{
		Value:      name,
		Confidence: doc.scale(confidence),
		Box:        line.Box,
		Method:     MethodTaxIDFallback,
		SourceLine: line.Text,
		LineIndex:  doc.lineIndex(line),
	}, true
}

// regionScan runs the two positional heuristics: top-left block (vendor
// headers live there) and middle-left block minus tax-ID mentions.
func (e *VendorExtractor) regionScan(doc *Document) []Candidate {
	if !doc.HasGeometry {
		return nil
	}
	var out []Candidate

	for _, line := range doc.Layout.LinesInRegion(layout.RegionTopLeft) {
		if checksum.ValidVendorName(line.Text) && !e.isJunkHeader(doc, line) {
			out = append(out, e.regionCandidate(doc, line, layout.RegionTopLeft, e.weights.RegionTopLeftBase))
			break
		}
	}

	for _, line := range doc.Layout.LinesInRegion(layout.RegionMiddleLeft) {
		if mentionsTaxID(line.Text) {
			continue
		}
		if checksum.ValidVendorName(line.Text) && !e.isJunkHeader(doc, line) {
			out = append(out, e.regionCandidate(doc, line, layout.RegionMiddleLeft, e.weights.RegionMiddleLeftBase))
			break
		}
	}
	return out
}

func (e *VendorExtractor) regionCandidate(doc *Document, line ocr.Line, region layout.Region, base float64) Candidate {
	name := strings.TrimSpace(line.Text)
	if checksum.HasLegalEntitySuffix(name) {
		base += e.weights.LegalSuffixBoost
	}
	return Candidate{
		Value:      name,
		Confidence: doc.scale(base),
		Box:        line.Box,
		Method:     MethodRegionHeuristic,
		SourceLine: line.Text,
		Region:     region.String(),
		LineIndex:  doc.lineIndex(line),
	}
}

func (e *VendorExtractor) candidate(doc *Document, name string, line ocr.Line, method Method, a anchor.Detected, address string) Candidate {
	confidence := e.weights.AnchorBlockBase * a.Confidence
	if checksum.HasLegalEntitySuffix(name) {
		confidence += e.weights.LegalSuffixBoost
	}
	if address != "" {
		confidence += e.weights.AddressBoost
	}
	return Candidate{
		Value:           strings.TrimSpace(name),
		Confidence:      doc.scale(confidence),
		Box:             line.Box,
		Method:          method,
		MatchedPhrase:   a.MatchedPhrase,
		SourceLine:      line.Text,
		AnchorType:      anchor.TypeVendor,
		CapturedAddress: address,
		LineIndex:       doc.lineIndex(line),
	}
}

// crossValidate boosts the best instance of a name produced by at least
// two independent strategy categories.
func (e *VendorExtractor) crossValidate(candidates []Candidate) []Candidate {
	byName := make(map[string]map[string]bool)
	for _, c := range candidates {
		key := locale.Normalize(c.Value)
		if byName[key] == nil {
			byName[key] = make(map[string]bool)
		}
		byName[key][c.Method.Category()] = true
	}

	boosted := make(map[string]bool)
	for i := range candidates {
		key := locale.Normalize(candidates[i].Value)
		if len(byName[key]) < 2 || boosted[key] {
			continue
		}
		// Boost the best-confidence instance only; Dedupe keeps it.
		best := i
		for j := range candidates {
			if locale.Normalize(candidates[j].Value) == key &&
				candidates[j].Confidence > candidates[best].Confidence {
				best = j
			}
		}
		candidates[best].Confidence = clamp01(candidates[best].Confidence + e.weights.CrossValidationBoost)
		boosted[key] = true
	}
	return candidates
}

func (e *VendorExtractor) isJunkHeader(doc *Document, line ocr.Line) bool {
	for _, a := range doc.Anchors.All {
		if !junkHeaderTypes[a.Type] || a.Confidence < 0.7 {
			continue
		}
		if a.Line.Text == line.Text && a.Line.Box == line.Box {
			return true
		}
	}
	return checksum.LooksLikeDate(line.Text) || checksum.LooksLikeAmount(line.Text) ||
		checksum.LooksLikeTaxID(line.Text) || checksum.LooksLikeAccountNumber(line.Text)
}

func mentionsTaxID(text string) bool {
	normalized := locale.Normalize(text)
	for _, kw := range taxIDMentionKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// Address shape detection for the vendor-address fallback.

var (
	postalCodePattern   = regexp.MustCompile(`\b\d{2}-\d{3}\b|\b\d{5}(?:-\d{4})?\b`)
	streetPrefixes      = []string{"ul.", "ul ", "al.", "aleja", "os.", "pl.", "street", "st.", "ave", "avenue", "road", "rd.", "suite", "lane"}
)

// looksLikeAddressLine accepts postal codes, street-prefixed lines and
// letter-dominant lines (city names), rejecting anything shaped like a
// value from another field.
func looksLikeAddressLine(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if checksum.LooksLikeTaxID(trimmed) || checksum.LooksLikeAccountNumber(trimmed) ||
		checksum.LooksLikeAmount(trimmed) || checksum.LooksLikeDate(trimmed) {
		return false
	}
	if postalCodePattern.MatchString(trimmed) {
		return true
	}
	normalized := locale.Normalize(trimmed)
	for _, prefix := range streetPrefixes {
		if strings.HasPrefix(normalized, prefix) || strings.Contains(normalized, " "+prefix) {
			return true
		}
	}
	letters, total := 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return total > 0 && float64(letters)/float64(total) > 0.7
}

// VendorAddressExtractor recovers the vendor address: primarily from the
// side channel captured during vendor-block extraction, otherwise by
// scanning the lines between the vendor line and the tax-ID line.
type VendorAddressExtractor struct {
	weights VendorWeights
}

// NewVendorAddressExtractor builds the extractor.
func NewVendorAddressExtractor(w VendorWeights) *VendorAddressExtractor {
	return &VendorAddressExtractor{weights: w}
}

// Extract derives the address from the vendor and tax-ID extractions.
func (e *VendorAddressExtractor) Extract(doc *Document, vendors, taxIDs FieldExtraction) FieldExtraction {
	var candidates []Candidate

	for _, v := range vendors.Candidates {
		if v.CapturedAddress == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Value:      v.CapturedAddress,
			Confidence: v.Confidence, // rides on the vendor block's evidence
			Box:        v.Box,
			Method:     v.Method,
			SourceLine: v.SourceLine,
			LineIndex:  v.LineIndex,
		})
	}

	if len(candidates) == 0 {
		candidates = append(candidates, e.betweenScan(doc, vendors, taxIDs)...)
	}

	return Dedupe(FieldExtraction{Field: FieldVendorAddress, Candidates: candidates}, locale.Normalize)
}

// betweenScan collects address-shaped lines strictly between the vendor
// line and the tax-ID line.
func (e *VendorAddressExtractor) betweenScan(doc *Document, vendors, taxIDs FieldExtraction) []Candidate {
	vendor, ok := vendors.Best()
	if !ok || vendor.LineIndex < 0 {
		return nil
	}
	taxID, ok := taxIDs.Best()
	if !ok || taxID.LineIndex <= vendor.LineIndex+1 {
		return nil
	}

	var parts []string
	var box ocr.BoundingBox
	for i := vendor.LineIndex + 1; i < taxID.LineIndex; i++ {
		line := doc.Lines[i]
		if looksLikeAddressLine(line.Text) {
			if len(parts) == 0 {
				box = line.Box
			}
			parts = append(parts, strings.TrimSpace(line.Text))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return []Candidate{{
		Value:      strings.Join(parts, "\n"),
		Confidence: doc.scale(e.weights.RegionTopLeftBase),
		Box:        box,
		Method:     MethodCrossField,
		SourceLine: parts[0],
		LineIndex:  vendor.LineIndex + 1,
	}}
}
