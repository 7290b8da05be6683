// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-scan/internal/locale"
	"invoice-scan/internal/ocr"
)

func TestInvoiceNumberExtract_AnchorSameLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"polish header", "Faktura VAT nr FV/123/2026", "FV/123/2026"},
		{"polish label", "Nr faktury: 2026/08/0042", "2026/08/0042"},
		{"english label", "Invoice no: INV-2026-0042", "INV-2026-0042"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := textDoc(locale.Unknown, tt.line)
			got := NewInvoiceNumberExtractor(doc.Weights.Invoice).Extract(doc)
			best, ok := got.Best()
			require.True(t, ok)
			assert.Equal(t, tt.want, best.Value)
			assert.Equal(t, MethodAnchorSameLine, best.Method)
		})
	}
}

func TestInvoiceNumberExtract_ValueOnFollowingLine(t *testing.T) {
	doc := textDoc(locale.Polish,
		"Numer faktury:",
		"FV/123/2026",
	)
	got := NewInvoiceNumberExtractor(doc.Weights.Invoice).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "FV/123/2026", best.Value)
	assert.Equal(t, MethodAnchorBelow, best.Method)
}

func TestInvoiceNumberExtract_BareDateRejected(t *testing.T) {
	doc := textDoc(locale.Polish, "Nr faktury: 15.03.2026")
	got := NewInvoiceNumberExtractor(doc.Weights.Invoice).Extract(doc)
	assert.True(t, got.Empty(), "a bare date is not an invoice number")
}

func TestInvoiceNumberExtract_HeaderRegion(t *testing.T) {
	doc := buildDoc([]ocr.Line{
		gline("Faktura 123/08/2026", 0.70, 0.05, 0.20, 0.02),
	}, locale.Polish)
	got := NewInvoiceNumberExtractor(doc.Weights.Invoice).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "123/08/2026", best.Value)
	assert.Equal(t, MethodRegionHeuristic, best.Method)
	assert.InDelta(t, 0.55, best.Confidence, 0.0001)
}

func TestValidInvoiceNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"FV/123/2026", true},
		{"INV-2026-0042", true},
		{"FV/15.03.2026", true}, // letter prefix rescues a date shape
		{"15.03.2026", false},
		{"AB", false},
		{"ABCDEF", false}, // no digit
		{"123-456-32-18", false},
		{"123,45", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validInvoiceNumber(tt.input), tt.input)
	}
}
