// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dateparse

import (
	"testing"
	"time"

	"invoice-scan/internal/locale"
)

func testParser(hint locale.Language) *Parser {
	opts := DefaultOptions()
	opts.Now = func() time.Time {
		return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	}
	return NewParserWithOptions(hint, opts)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_Unambiguous(t *testing.T) {
	tests := []struct {
		name   string
		hint   locale.Language
		text   string
		want   time.Time
		format string
		conf   float64
	}{
		{"iso", locale.Unknown, "Termin: 2026-03-15", date(2026, time.March, 15), "iso", 0.95},
		{"iso dotted", locale.Unknown, "2026.03.15", date(2026, time.March, 15), "iso", 0.95},
		{"period day-first", locale.Unknown, "15.03.2026", date(2026, time.March, 15), "numeric-day-first", 0.95},
		{"slash forced day-first", locale.English, "13/05/2026", date(2026, time.May, 13), "numeric-day-first", 0.95},
		{"slash forced month-first", locale.Polish, "05/13/2026", date(2026, time.May, 13), "numeric-month-first", 0.95},
		{"verbal polish genitive", locale.Polish, "15 marca 2026", date(2026, time.March, 15), "verbal-day-first", 0.95},
		{"verbal english", locale.English, "March 15, 2026", date(2026, time.March, 15), "verbal-month-first", 0.95},
		{"verbal english ordinal", locale.English, "March 1st, 2026", date(2026, time.March, 1), "verbal-month-first", 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testParser(tt.hint).Parse(tt.text)
			if len(got) != 1 {
				t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
			}
			c := got[0]
			if !c.Date.Equal(tt.want) || c.Format != tt.format || c.Confidence != tt.conf {
				t.Errorf("got %v/%s/%.2f, want %v/%s/%.2f",
					c.Date, c.Format, c.Confidence, tt.want, tt.format, tt.conf)
			}
		})
	}
}

func TestParse_AmbiguousWithHint(t *testing.T) {
	tests := []struct {
		name          string
		hint          locale.Language
		text          string
		primary       time.Time
		primaryConf   float64
		alternate     time.Time
		alternateConf float64
	}{
		{
			"polish leans day-first", locale.Polish, "05/06/2026",
			date(2026, time.June, 5), 0.90, date(2026, time.May, 6), 0.40,
		},
		{
			"english leans month-first", locale.English, "05/06/2026",
			date(2026, time.May, 6), 0.90, date(2026, time.June, 5), 0.40,
		},
		{
			"no hint slash leans month-first", locale.Unknown, "05/06/2026",
			date(2026, time.May, 6), 0.70, date(2026, time.June, 5), 0.55,
		},
		{
			"no hint dash leans day-first", locale.Unknown, "05-06-2026",
			date(2026, time.June, 5), 0.70, date(2026, time.May, 6), 0.55,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testParser(tt.hint).Parse(tt.text)
			if len(got) != 2 {
				t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
			}
			if !got[0].Date.Equal(tt.primary) || got[0].Confidence != tt.primaryConf {
				t.Errorf("primary = %v/%.2f, want %v/%.2f",
					got[0].Date, got[0].Confidence, tt.primary, tt.primaryConf)
			}
			if !got[1].Date.Equal(tt.alternate) || got[1].Confidence != tt.alternateConf {
				t.Errorf("alternate = %v/%.2f, want %v/%.2f",
					got[1].Date, got[1].Confidence, tt.alternate, tt.alternateConf)
			}
		})
	}
}

func TestParse_SameDayBothOrders(t *testing.T) {
	// 05/05 resolves to the same date either way; one candidate, not two.
	got := testParser(locale.Unknown).Parse("05/05/2026")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
	if !got[0].Date.Equal(date(2026, time.May, 5)) {
		t.Errorf("got %v, want 2026-05-05", got[0].Date)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"impossible date", "30.02.2026"},
		{"outside past window", "15.03.2019"},
		{"outside future window", "15.03.2031"},
		{"no date", "Do zapłaty: 1 234,56 zł"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testParser(locale.Polish).Parse(tt.text); len(got) != 0 {
				t.Errorf("Parse(%q) = %+v, want none", tt.text, got)
			}
		})
	}
}

func TestParse_DedupeAcrossFormats(t *testing.T) {
	// The same date written twice collapses to one candidate at the higher
	// confidence.
	got := testParser(locale.Polish).Parse("2026-03-15 tj. 15.03.2026")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
	if got[0].Confidence != 0.95 {
		t.Errorf("confidence = %.2f, want 0.95", got[0].Confidence)
	}
}

func TestParseOne(t *testing.T) {
	p := testParser(locale.Polish)
	c, ok := p.ParseOne("Termin płatności: 15.03.2026")
	if !ok {
		t.Fatal("expected a candidate")
	}
	if !c.Date.Equal(date(2026, time.March, 15)) {
		t.Errorf("got %v, want 2026-03-15", c.Date)
	}
	if _, ok := p.ParseOne("nothing here"); ok {
		t.Error("expected no candidate")
	}
}
