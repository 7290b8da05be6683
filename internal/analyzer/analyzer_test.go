// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

func testNow() time.Time {
	return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
}

func TestAnalyze_FullInvoiceTextOnly(t *testing.T) {
	text := strings.Join([]string{
		"Faktura VAT nr FV/123/2026",
		"Sprzedawca: ACME Sp. z o.o.",
		"ul. Prosta 5",
		"00-001 Warszawa",
		"NIP: 123-456-32-18",
		"Data wystawienia: 10.01.2026",
		"Termin płatności: 15.03.2026",
		"Razem brutto: 100,00 zł",
		"Do zapłaty: 123,45 zł",
		"Nr rachunku: 61 1090 1014 0000 0712 1981 2874",
	}, "\n")

	a := New()
	a.SetNow(testNow)
	result, err := a.Analyze(text, nil, locale.Unknown)
	require.NoError(t, err)

	assert.Equal(t, locale.Polish, result.Language)

	assert.Equal(t, "ACME Sp. z o.o.", result.Vendor.Value)
	assert.Equal(t, "123-456-32-18", result.TaxID.Value)
	assert.Equal(t, "FV/123/2026", result.InvoiceNumber.Value)
	assert.Equal(t, "61 1090 1014 0000 0712 1981 2874", result.BankAccount.Value)
	assert.True(t, result.VendorAddress.Found())

	assert.Equal(t, "123,45", result.Amount.Value)
	require.True(t, result.HasAmount)
	assert.True(t, result.AmountValue.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, "PLN", result.Currency)

	assert.Equal(t, "2026-03-15", result.DueDate.Value)
	require.True(t, result.HasDueDate)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), result.DueDateValue)

	assert.Equal(t, 1.0, result.OverallConfidence,
		"all four primary fields should be found")
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New()
	result, err := a.Analyze("", nil, locale.Unknown)
	require.NoError(t, err)
	assert.Equal(t, locale.Unknown, result.Language)
	assert.Equal(t, 0.0, result.OverallConfidence)
	assert.False(t, result.Vendor.Found())
}

func TestAnalyze_GeometryOutscoresTextOnly(t *testing.T) {
	box := func(text string, x, y, w, h float64) ocr.Line {
		return ocr.Line{
			Text:       text,
			Box:        ocr.BoundingBox{X: x, Y: y, Width: w, Height: h},
			Confidence: 0.95,
		}
	}
	lines := []ocr.Line{
		box("Sprzedawca:", 0.05, 0.10, 0.12, 0.02),
		box("ACME Sp. z o.o.", 0.05, 0.13, 0.20, 0.02),
		box("NIP: 123-456-32-18", 0.05, 0.16, 0.18, 0.02),
	}

	a := New()
	a.SetNow(testNow)

	withGeometry, err := a.Analyze("", lines, locale.Polish)
	require.NoError(t, err)
	textOnly, err := a.Analyze(ocr.JoinText(lines), nil, locale.Polish)
	require.NoError(t, err)

	assert.Equal(t, withGeometry.Vendor.Value, textOnly.Vendor.Value)
	assert.Less(t, textOnly.Vendor.Confidence, withGeometry.Vendor.Confidence,
		"identical text without geometry must report strictly lower confidence")
}

func TestAnalyze_LanguageHintRespected(t *testing.T) {
	a := New()
	a.SetNow(testNow)
	result, err := a.Analyze("Due: 05/06/2026", nil, locale.English)
	require.NoError(t, err)
	assert.Equal(t, locale.English, result.Language)
	assert.Equal(t, "2026-05-06", result.DueDate.Value,
		"the English hint reads 05/06 month-first")
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want locale.Language
	}{
		{
			"polish signals",
			"Faktura od: sprzedawca, do zapłaty razem 100 zł",
			locale.Polish,
		},
		{
			"english signals",
			"Invoice: amount due by due date, bill to customer",
			locale.English,
		},
		{
			"mixed stays unknown",
			"Faktura razem invoice subtotal",
			locale.Unknown,
		},
		{"empty", "", locale.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}
