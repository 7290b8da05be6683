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

func TestMethodCategory(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{MethodAnchorSameLine, "anchor"},
		{MethodAnchorRight, "anchor"},
		{MethodAnchorBelow, "anchor"},
		{MethodTaxIDFallback, "tax-id"},
		{MethodCrossField, "tax-id"},
		{MethodRegionHeuristic, "region"},
		{MethodDirectScan, "pattern"},
		{MethodGenericPattern, "pattern"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.method.Category(), string(tt.method))
	}
}

func TestDedupe(t *testing.T) {
	fe := FieldExtraction{
		Field: FieldVendor,
		Candidates: []Candidate{
			{Value: "ACME Sp. z o.o.", Confidence: 0.7, Method: MethodRegionHeuristic},
			{Value: "acme sp. z o.o.", Confidence: 0.9, Method: MethodAnchorBelow},
			{Value: "Other Corp", Confidence: 0.5},
		},
	}

	got := Dedupe(fe, locale.Normalize)
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "acme sp. z o.o.", got.Candidates[0].Value)
	assert.Equal(t, 0.9, got.Candidates[0].Confidence)
	assert.Equal(t, "Other Corp", got.Candidates[1].Value)

	// Idempotent.
	again := Dedupe(got, locale.Normalize)
	assert.Equal(t, got, again)
}

func TestDocumentScale(t *testing.T) {
	withGeometry := buildDoc([]ocr.Line{gline("a", 0.1, 0.1, 0.2, 0.02)}, locale.Polish)
	assert.Equal(t, 0.9, withGeometry.scale(0.9))
	assert.Equal(t, 1.0, withGeometry.scale(1.2), "clamped at 1")

	textOnly := textDoc(locale.Polish, "a")
	assert.InDelta(t, 0.765, textOnly.scale(0.9), 1e-9)
}

func TestFieldExtractionBest(t *testing.T) {
	var empty FieldExtraction
	_, ok := empty.Best()
	assert.False(t, ok)
	assert.True(t, empty.Empty())

	fe := FieldExtraction{Candidates: []Candidate{{Value: "x", Confidence: 0.8}}}
	best, ok := fe.Best()
	require.True(t, ok)
	assert.Equal(t, "x", best.Value)
	assert.False(t, fe.Empty())
}
