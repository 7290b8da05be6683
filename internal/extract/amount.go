// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

var (
	amountNumberPattern = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})+[,.]\d{2}|\d{1,3}(?:,\d{3})+\.\d{2}|\d+[,.]\d{2}|\d+`)
	currencyPattern     = regexp.MustCompile(`(?i)\b(z[łl]|pln|usd|eur|gbp|chf)\b|[$€£]`)
)

var currencyCodes = map[string]string{
	"zł": "PLN", "zl": "PLN", "pln": "PLN",
	"usd": "USD", "$": "USD",
	"eur": "EUR", "€": "EUR",
	"gbp": "GBP", "£": "GBP",
	"chf": "CHF",
}

// classRank orders amount provenance classes for the near-tie override:
// a payable amount beats a gross total at comparable confidence.
var classRank = map[string]int{
	"due": 4, "total": 3, "currency": 2, "vat": 1, "bare": 0,
}

// AmountExtractor finds the amount due. Every number in the document is a
// candidate; an ordered keyword tier table, a semantic context window and
// the line's OCR confidence drive the score.
type AmountExtractor struct {
	weights AmountWeights
	rules   []ContextRule
}

// NewAmountExtractor builds the extractor from the weight table.
func NewAmountExtractor(w AmountWeights) *AmountExtractor {
	rules := make([]ContextRule, len(w.ContextRules))
	copy(rules, w.ContextRules)
	return &AmountExtractor{weights: w, rules: rules}
}

// AddContextRules merges additional keyword rules (learned phrases from
// the correction store) into the semantic scorer.
func (e *AmountExtractor) AddContextRules(rules []ContextRule) {
	e.rules = append(e.rules, rules...)
}

// Extract scores every numeric value in the document and returns the
// ranked, value-deduplicated candidates.
func (e *AmountExtractor) Extract(doc *Document) FieldExtraction {
	var candidates []Candidate

	for i, line := range doc.Lines {
		normalized := locale.Normalize(line.Text)
		numbers := findAmountStrings(line.Text)

		tier := e.matchTier(normalized)
		for _, raw := range numbers {
			value, ok := ParseAmount(raw)
			if !ok || value.IsNegative() || value.IsZero() {
				continue
			}
			lineTier := tier
			currency := findCurrency(line.Text)
			if lineTier.Name == "bare-number" && currency != "" {
				lineTier = e.tierByName("currency-number")
			}
			candidates = append(candidates, e.candidate(doc, raw, value, line, i, lineTier, currency))
		}

		// Definitive keyword with the value on a neighbouring line: a
		// direct scan independent of the anchor detector, so anchor
		// misses cannot hide the payable amount.
		if len(numbers) == 0 && tier.Class == "due" {
			if c, ok := e.adjacentValue(doc, line, i, tier); ok {
				candidates = append(candidates, c)
			}
		}
	}

	deduped := e.dedupeByValue(candidates)
	e.rank(deduped)
	return FieldExtraction{Field: FieldAmount, Candidates: deduped}
}

// candidate assembles one scored amount hypothesis.
func (e *AmountExtractor) candidate(doc *Document, raw string, value decimal.Decimal, line ocr.Line, lineIdx int, tier AmountTierSpec, currency string) Candidate {
	score := tier.Weight
	score += e.contextScore(doc, lineIdx)
	score += e.ocrAdjustment(line)

	confidence := score / e.weights.ScoreScale
	if confidence < e.weights.MinConfidence {
		confidence = e.weights.MinConfidence
	}
	if confidence > e.weights.MaxConfidence {
		confidence = e.weights.MaxConfidence
	}

	return Candidate{
		Value:         raw,
		Confidence:    doc.scale(confidence),
		Box:           line.Box,
		Method:        MethodDirectScan,
		MatchedPhrase: tier.Name,
		SourceLine:    line.Text,
		Class:         tier.Class,
		Currency:      currency,
		Score:         score,
		LineIndex:     lineIdx,
	}
}

// adjacentValue looks right of and below a definitive keyword line for the
// nearest number.
func (e *AmountExtractor) adjacentValue(doc *Document, line ocr.Line, lineIdx int, tier AmountTierSpec) (Candidate, bool) {
	if doc.HasGeometry {
		for _, neighbour := range doc.Layout.LinesRightOf(line, 0.02) {
			if raw, value, ok := firstAmount(neighbour.Text); ok {
				return e.candidate(doc, raw, value, neighbour, doc.lineIndex(neighbour), tier, findCurrency(neighbour.Text)), true
			}
		}
		for _, neighbour := range doc.Layout.LinesBelow(line, 0.04) {
			if raw, value, ok := firstAmount(neighbour.Text); ok {
				return e.candidate(doc, raw, value, neighbour, doc.lineIndex(neighbour), tier, findCurrency(neighbour.Text)), true
			}
		}
		return Candidate{}, false
	}
	if lineIdx+1 < len(doc.Lines) {
		neighbour := doc.Lines[lineIdx+1]
		if raw, value, ok := firstAmount(neighbour.Text); ok {
			return e.candidate(doc, raw, value, neighbour, lineIdx+1, tier, findCurrency(neighbour.Text)), true
		}
	}
	return Candidate{}, false
}

// matchTier returns the highest tier whose keyword appears on the line.
// Tiers are ordered strongest first, so the first hit wins.
func (e *AmountExtractor) matchTier(normalized string) AmountTierSpec {
	for _, tier := range e.weights.Tiers {
		for _, phrase := range tier.Phrases {
			if strings.Contains(normalized, phrase) {
				return tier
			}
		}
	}
	return e.tierByName("bare-number")
}

func (e *AmountExtractor) tierByName(name string) AmountTierSpec {
	for _, tier := range e.weights.Tiers {
		if tier.Name == name {
			return tier
		}
	}
	return AmountTierSpec{Name: name, Class: "bare"}
}

// contextScore sums the signed keyword weights over the three-line window
// around the value. Each rule fires at most once.
func (e *AmountExtractor) contextScore(doc *Document, lineIdx int) float64 {
	var window strings.Builder
	for i := lineIdx - 1; i <= lineIdx+1; i++ {
		if i < 0 || i >= len(doc.Lines) {
			continue
		}
		window.WriteString(locale.Normalize(doc.Lines[i].Text))
		window.WriteByte(' ')
	}
	text := window.String()

	score := 0.0
	for _, rule := range e.rules {
		if strings.Contains(text, rule.Phrase) {
			score += rule.Weight
		}
	}
	return score
}

// ocrAdjustment rewards confidently recognized lines and penalizes shaky
// ones; a misread digit is worse than a missed keyword.
func (e *AmountExtractor) ocrAdjustment(line ocr.Line) float64 {
	switch {
	case line.Confidence > e.weights.OCRHighConfidence:
		return e.weights.OCRHighBonus
	case line.Confidence < e.weights.OCRLowConfidence:
		return e.weights.OCRLowPenalty
	default:
		return 0
	}
}

// dedupeByValue collapses candidates by parsed numeric value, keeping the
// highest score.
func (e *AmountExtractor) dedupeByValue(candidates []Candidate) []Candidate {
	best := make(map[string]int)
	var kept []Candidate
	for _, c := range candidates {
		value, ok := ParseAmount(c.Value)
		if !ok {
			continue
		}
		key := value.String()
		if idx, seen := best[key]; seen {
			if c.Score > kept[idx].Score {
				kept[idx] = c
			}
			continue
		}
		best[key] = len(kept)
		kept = append(kept, c)
	}
	return kept
}

// rank orders candidates: near-tie class override first, then score,
// then document position (later wins: payable totals sit at the bottom),
// then currency marker, then the smaller value. A large number is more
// likely a sum of items than the amount due.
func (e *AmountExtractor) rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		confDiff := a.Confidence - b.Confidence
		if confDiff < 0 {
			confDiff = -confDiff
		}
		if confDiff < e.weights.ClassTieEpsilon && classRank[a.Class] != classRank[b.Class] {
			return classRank[a.Class] > classRank[b.Class]
		}

		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.LineIndex != b.LineIndex {
			return a.LineIndex > b.LineIndex
		}
		if (a.Currency != "") != (b.Currency != "") {
			return a.Currency != ""
		}
		av, aok := ParseAmount(a.Value)
		bv, bok := ParseAmount(b.Value)
		if aok && bok {
			return av.LessThan(bv)
		}
		return false
	})
}

// findAmountStrings returns the monetary-looking numbers on a line,
// skipping values embedded in identifiers (dates, account numbers).
func findAmountStrings(text string) []string {
	var out []string
	for _, span := range amountNumberPattern.FindAllStringIndex(text, -1) {
		if span[0] > 0 {
			prev := text[span[0]-1]
			if prev == '-' || prev == '/' || prev == '.' || isDigit(prev) {
				continue
			}
		}
		if span[1] < len(text) {
			next := text[span[1]]
			if next == '-' || next == '/' || isDigit(next) {
				continue
			}
			// "15.03" inside "15.03.2026" is a date fragment, not an amount.
			if next == '.' && span[1]+1 < len(text) && isDigit(text[span[1]+1]) {
				continue
			}
		}
		out = append(out, text[span[0]:span[1]])
	}
	return out
}

func firstAmount(text string) (string, decimal.Decimal, bool) {
	for _, raw := range findAmountStrings(text) {
		if value, ok := ParseAmount(raw); ok && value.IsPositive() {
			return raw, value, true
		}
	}
	return "", decimal.Decimal{}, false
}

func findCurrency(text string) string {
	m := currencyPattern.FindString(text)
	if m == "" {
		return ""
	}
	if code, ok := currencyCodes[strings.ToLower(m)]; ok {
		return code
	}
	return strings.ToUpper(m)
}

// ParseAmount parses a localized amount string into an exact decimal.
// Both "1 234,56" and "1,234.56" conventions are handled; the last
// separator with exactly two trailing digits is the decimal mark.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The later separator is the decimal mark; the other groups
		// thousands.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-lastComma-1 == 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 || len(cleaned)-lastDot-1 == 3 {
			// Multiple dots, or a single dot with a 3-digit group:
			// thousands separators.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
