// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dateparse extracts calendar dates from noisy OCR text. Numeric
// dates are locale-ambiguous (05/06 can be May 6 or June 5); the parser
// returns every plausible interpretation ranked by confidence instead of
// guessing silently.
package dateparse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"invoice-scan/internal/locale"
)

// Candidate is one interpretation of a date string.
type Candidate struct {
	Date       time.Time
	Format     string
	Confidence float64
}

// Options holds the tunable parsing thresholds. The ambiguity bounds and
// the validity window are configuration, not derived values.
type Options struct {
	// MaxMonth and MaxDay bound the "truly ambiguous" numeric case: both
	// fields ≤ MaxMonth means either could be the month.
	MaxMonth int
	MaxDay   int
	// PastWindow and FutureWindow bound accepted dates relative to now.
	// Dates outside the window are OCR digit-transposition garbage.
	PastWindow   time.Duration
	FutureWindow time.Duration
	// Now is the reference clock, injectable for tests.
	Now func() time.Time
}

// DefaultOptions returns the production thresholds: ambiguity bounds 12/31
// and a validity window of 5 years back, 2 years forward.
func DefaultOptions() Options {
	return Options{
		MaxMonth:     12,
		MaxDay:       31,
		PastWindow:   5 * 365 * 24 * time.Hour,
		FutureWindow: 2 * 365 * 24 * time.Hour,
		Now:          time.Now,
	}
}

// Parser parses dates under a language hint.
type Parser struct {
	hint locale.Language
	opts Options
}

// NewParser creates a parser with default thresholds.
func NewParser(hint locale.Language) *Parser {
	return &Parser{hint: hint, opts: DefaultOptions()}
}

// NewParserWithOptions creates a parser with explicit thresholds.
func NewParserWithOptions(hint locale.Language, opts Options) *Parser {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Parser{hint: hint, opts: opts}
}

var (
	isoPattern     = regexp.MustCompile(`\b(\d{4})([-./])(\d{1,2})([-./])(\d{1,2})\b`)
	numericPattern = regexp.MustCompile(`\b(\d{1,2})([-./])(\d{1,2})([-./])(\d{4})\b`)
	// 15 marca 2026, 15 mar 2026
	verbalDayFirst = regexp.MustCompile(`\b(\d{1,2})\.?\s+(\p{L}+)\.?\s+(\d{4})\b`)
	// March 15, 2026 / March 15 2026
	verbalMonthFirst = regexp.MustCompile(`\b(\p{L}+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
)

// monthNames maps folded lowercase month names, full and abbreviated,
// Polish (nominative and genitive) and English, to month numbers.
var monthNames = map[string]time.Month{
	// English full
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	// English abbreviated
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
	// Polish nominative (folded)
	"styczen": time.January, "luty": time.February, "marzec": time.March,
	"kwiecien": time.April, "maj": time.May, "czerwiec": time.June,
	"lipiec": time.July, "sierpien": time.August, "wrzesien": time.September,
	"pazdziernik": time.October, "listopad": time.November, "grudzien": time.December,
	// Polish genitive, the form used in dates ("15 marca 2026")
	"stycznia": time.January, "lutego": time.February, "marca": time.March,
	"kwietnia": time.April, "maja": time.May, "czerwca": time.June,
	"lipca": time.July, "sierpnia": time.August, "wrzesnia": time.September,
	"pazdziernika": time.October, "listopada": time.November, "grudnia": time.December,
	// Polish abbreviated
	"sty": time.January, "lut": time.February, "kwi": time.April,
	"cze": time.June, "lip": time.July, "sie": time.August, "wrz": time.September,
	"paz": time.October, "lis": time.November, "gru": time.December,
}

// Parse returns all date interpretations found in text, deduplicated by
// resolved date and sorted by confidence descending. No candidates means
// the text holds no plausible date; that is not an error.
func (p *Parser) Parse(text string) []Candidate {
	var out []Candidate

	isoSpans := isoPattern.FindAllStringSubmatchIndex(text, -1)
	for _, span := range isoSpans {
		m := isoPattern.FindStringSubmatch(text[span[0]:span[1]])
		if c, ok := p.parseISO(m); ok {
			out = append(out, c)
		}
	}

	for _, m := range numericPattern.FindAllStringSubmatchIndex(text, -1) {
		// A YYYY-MM-DD match also matches the numeric pattern from its
		// MM onward; the ISO interpretation wins.
		if overlapsAny(m[0], m[1], isoSpans) {
			continue
		}
		sub := numericPattern.FindStringSubmatch(text[m[0]:m[1]])
		out = append(out, p.parseNumeric(sub)...)
	}

	folded := locale.Normalize(text)
	for _, m := range verbalDayFirst.FindAllStringSubmatch(folded, -1) {
		if c, ok := p.parseVerbal(m[2], m[1], m[3], "verbal-day-first"); ok {
			out = append(out, c)
		}
	}
	for _, m := range verbalMonthFirst.FindAllStringSubmatch(folded, -1) {
		if c, ok := p.parseVerbal(m[1], m[2], m[3], "verbal-month-first"); ok {
			out = append(out, c)
		}
	}

	return dedupe(out)
}

// ParseOne returns the best interpretation, if any.
func (p *Parser) ParseOne(text string) (Candidate, bool) {
	candidates := p.Parse(text)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

func (p *Parser) parseISO(m []string) (Candidate, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[5])
	date, ok := p.makeDate(year, month, day)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{Date: date, Format: "iso", Confidence: 0.95}, true
}

// parseNumeric handles N1{sep}N2{sep}YYYY. The separator and the digit
// values carry the disambiguation signal; the language hint breaks the
// remaining ties.
func (p *Parser) parseNumeric(m []string) []Candidate {
	n1, _ := strconv.Atoi(m[1])
	n2, _ := strconv.Atoi(m[3])
	year, _ := strconv.Atoi(m[5])
	sep := m[2]

	dayFirst, dfOK := p.makeDate(year, n2, n1)
	monthFirst, mfOK := p.makeDate(year, n1, n2)

	// Period separator is a strong European signal: day-first.
	if sep == "." {
		if dfOK {
			return []Candidate{{Date: dayFirst, Format: "numeric-day-first", Confidence: 0.95}}
		}
		if mfOK {
			return []Candidate{{Date: monthFirst, Format: "numeric-month-first", Confidence: 0.70}}
		}
		return nil
	}

	// A value above MaxMonth cannot be the month, so the order is forced.
	n1High := n1 > p.opts.MaxMonth && n1 <= p.opts.MaxDay
	n2High := n2 > p.opts.MaxMonth && n2 <= p.opts.MaxDay
	if n1High && !n2High {
		if dfOK {
			return []Candidate{{Date: dayFirst, Format: "numeric-day-first", Confidence: 0.95}}
		}
		return nil
	}
	if n2High && !n1High {
		if mfOK {
			return []Candidate{{Date: monthFirst, Format: "numeric-month-first", Confidence: 0.95}}
		}
		return nil
	}
	if n1High && n2High {
		return nil
	}

	// Both ≤ MaxMonth: truly ambiguous.
	if dfOK && !mfOK {
		return []Candidate{{Date: dayFirst, Format: "numeric-day-first", Confidence: 0.70}}
	}
	if mfOK && !dfOK {
		return []Candidate{{Date: monthFirst, Format: "numeric-month-first", Confidence: 0.70}}
	}
	if !dfOK && !mfOK {
		return nil
	}

	primary, alternate := dayFirst, monthFirst
	primaryFmt, alternateFmt := "numeric-day-first", "numeric-month-first"
	primaryConf, alternateConf := 0.90, 0.40

	switch p.hint {
	case locale.Polish:
		// day-first preferred, set above
	case locale.English:
		primary, alternate = monthFirst, dayFirst
		primaryFmt, alternateFmt = "numeric-month-first", "numeric-day-first"
	default:
		// Without a hint the separator is the only signal: dash leans
		// European, slash leans US.
		if sep == "/" {
			primary, alternate = monthFirst, dayFirst
			primaryFmt, alternateFmt = "numeric-month-first", "numeric-day-first"
		}
		primaryConf, alternateConf = 0.70, 0.55
	}

	out := []Candidate{{Date: primary, Format: primaryFmt, Confidence: primaryConf}}
	if !alternate.Equal(primary) {
		out = append(out, Candidate{Date: alternate, Format: alternateFmt, Confidence: alternateConf})
	}
	return out
}

func (p *Parser) parseVerbal(monthName, dayStr, yearStr, format string) (Candidate, bool) {
	month, ok := monthNames[strings.TrimSuffix(monthName, ".")]
	if !ok {
		return Candidate{}, false
	}
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	date, valid := p.makeDate(year, int(month), day)
	if !valid {
		return Candidate{}, false
	}
	return Candidate{Date: date, Format: format, Confidence: 0.95}, true
}

// makeDate builds a calendar date, rejecting impossible dates (time.Date
// normalizes Feb 30 to Mar 2, so a round-trip check is required) and dates
// outside the validity window.
func (p *Parser) makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	now := p.opts.Now()
	if date.Before(now.Add(-p.opts.PastWindow)) || date.After(now.Add(p.opts.FutureWindow)) {
		return time.Time{}, false
	}
	return date, true
}

// dedupe keeps the highest-confidence candidate per resolved date and sorts
// descending by confidence.
func dedupe(candidates []Candidate) []Candidate {
	best := make(map[time.Time]Candidate)
	var order []time.Time
	for _, c := range candidates {
		existing, seen := best[c.Date]
		if !seen {
			order = append(order, c.Date)
		}
		if !seen || c.Confidence > existing.Confidence {
			best[c.Date] = c
		}
	}
	out := make([]Candidate, 0, len(order))
	for _, d := range order {
		out = append(out, best[d])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
