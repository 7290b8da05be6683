// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-scan/internal/locale"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"123,45", "123.45", true},
		{"123.45", "123.45", true},
		{"1 234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"1.234,56", "1234.56", true},
		{"1.234", "1234", true},   // single dot, 3-digit group: thousands
		{"1,234", "1234", true},   // same for the comma convention
		{"1234", "1234", true},
		{"12.345.678,90", "12345678.90", true},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestAmountExtract_PayableBeatsGrossTotal(t *testing.T) {
	doc := textDoc(locale.Polish,
		"Razem brutto: 100,00 zł",
		"Do zapłaty: 123,45 zł",
	)
	got := NewAmountExtractor(doc.Weights.Amount).Extract(doc)

	require.Len(t, got.Candidates, 2)
	best := got.Candidates[0]
	assert.Equal(t, "123,45", best.Value)
	assert.Equal(t, "due", best.Class)
	assert.Equal(t, "PLN", best.Currency)
	assert.InDelta(t, 0.8245, best.Confidence, 0.0001)

	// The gross total clamps to the same confidence; the payable class
	// breaks the tie.
	second := got.Candidates[1]
	assert.Equal(t, "100,00", second.Value)
	assert.Equal(t, "total", second.Class)
	assert.InDelta(t, best.Confidence, second.Confidence, 0.0001)
}

func TestAmountExtract_ValueOnFollowingLine(t *testing.T) {
	doc := textDoc(locale.Polish,
		"Do zapłaty:",
		"123,45 zł",
	)
	got := NewAmountExtractor(doc.Weights.Amount).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "123,45", best.Value)
	assert.Equal(t, "due", best.Class)
	assert.InDelta(t, 0.8245, best.Confidence, 0.0001)
}

func TestAmountExtract_DiscountPenalty(t *testing.T) {
	doc := textDoc(locale.Polish,
		"Rabat: 50,00 zł",
		"Pozycje dokumentu",
		"Do zapłaty: 123,45 zł",
	)
	got := NewAmountExtractor(doc.Weights.Amount).Extract(doc)

	require.NotEmpty(t, got.Candidates)
	assert.Equal(t, "123,45", got.Candidates[0].Value)

	for _, c := range got.Candidates {
		if c.Value == "50,00" {
			assert.Less(t, c.Confidence, 0.2, "discounted value should score near the floor")
			return
		}
	}
	t.Fatal("expected the discount value among the candidates")
}

func TestAmountExtract_LearnedContextRule(t *testing.T) {
	build := func() (*AmountExtractor, *Document) {
		doc := textDoc(locale.Polish, "Suma opłat: 77,10 zł")
		return NewAmountExtractor(doc.Weights.Amount), doc
	}

	plain, doc := build()
	before, ok := plain.Extract(doc).Best()
	require.True(t, ok)

	learned, doc2 := build()
	learned.AddContextRules([]ContextRule{{Phrase: "suma oplat", Weight: 40}})
	after, ok := learned.Extract(doc2).Best()
	require.True(t, ok)

	assert.Greater(t, after.Confidence, before.Confidence)
}

func TestFindAmountStrings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"grouped polish", "Do zapłaty: 1 234,56 zł", []string{"1 234,56"}},
		{"date skipped", "Termin płatności: 15.03.2026", nil},
		{"identifier skipped", "Faktura FV/123/2026", nil},
		{"plain decimal", "Netto 80,00 VAT 18,40", []string{"80,00", "18,40"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findAmountStrings(tt.text))
		})
	}
}

func TestFindCurrency(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"123,45 zł", "PLN"},
		{"123,45 PLN", "PLN"},
		{"$49.99", "USD"},
		{"49.99 EUR", "EUR"},
		{"£10.00", "GBP"},
		{"no marker", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findCurrency(tt.text), tt.text)
	}
}
