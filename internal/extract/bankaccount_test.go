// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-scan/internal/locale"
)

func TestBankAccountExtract_DomesticWithAnchor(t *testing.T) {
	doc := textDoc(locale.Polish, "Nr rachunku: 61 1090 1014 0000 0712 1981 2874")
	got := NewBankAccountExtractor(doc.Weights.Bank).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "61 1090 1014 0000 0712 1981 2874", best.Value)
	assert.Equal(t, MethodAnchorSameLine, best.Method)
	assert.InDelta(t, 0.833, best.Confidence, 0.0001)
}

func TestBankAccountExtract_IBAN(t *testing.T) {
	doc := textDoc(locale.English, "IBAN: PL61 1090 1014 0000 0712 1981 2874")
	got := NewBankAccountExtractor(doc.Weights.Bank).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "PL61 1090 1014 0000 0712 1981 2874", best.Value)
	assert.InDelta(t, 0.833, best.Confidence, 0.0001)
}

func TestBankAccountExtract_RoutingNumber(t *testing.T) {
	doc := textDoc(locale.English, "Routing number: 021000021")
	got := NewBankAccountExtractor(doc.Weights.Bank).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "021000021", best.Value)
}

func TestBankAccountExtract_LabeledUSAccount(t *testing.T) {
	doc := textDoc(locale.English, "Account number: 12345678")
	got := NewBankAccountExtractor(doc.Weights.Bank).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, "12345678", best.Value)
	// No checksum exists for bare account numbers; base confidence only.
	assert.InDelta(t, 0.782, best.Confidence, 0.0001)
}

func TestBankAccountExtract_PatternFallback(t *testing.T) {
	doc := textDoc(locale.Polish, "61 1090 1014 0000 0712 1981 2874")
	got := NewBankAccountExtractor(doc.Weights.Bank).Extract(doc)

	best, ok := got.Best()
	require.True(t, ok)
	assert.Equal(t, MethodGenericPattern, best.Method)
	assert.InDelta(t, 0.476, best.Confidence, 0.0001)
}

func TestBankAccountExtract_ChecksumPenalty(t *testing.T) {
	valid := textDoc(locale.Polish, "Nr rachunku: 61 1090 1014 0000 0712 1981 2874")
	flipped := textDoc(locale.Polish, "Nr rachunku: 61 1090 1014 0000 0712 1981 2875")

	vBest, ok := NewBankAccountExtractor(valid.Weights.Bank).Extract(valid).Best()
	require.True(t, ok)
	fBest, ok := NewBankAccountExtractor(flipped.Weights.Bank).Extract(flipped).Best()
	require.True(t, ok)

	assert.Less(t, fBest.Confidence, vBest.Confidence,
		"a single flipped digit must drop the candidate below the valid one")
}

func TestFindAccountShapePrecedence(t *testing.T) {
	// A routing label next to the digits beats the generic account shape.
	value, shape, ok := findAccount("ABA routing 021000021 account 99887766")
	require.True(t, ok)
	assert.Equal(t, "021000021", value)
	assert.Equal(t, shapeRouting, shape)
}

func TestNormalizeAccount(t *testing.T) {
	assert.Equal(t, "PL61109010140000071219812874",
		NormalizeAccount("pl61 1090-1014 0000 0712 1981 2874"))
}
