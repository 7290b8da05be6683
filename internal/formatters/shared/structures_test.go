// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"invoice-scan/internal/analyzer"
	"invoice-scan/internal/extract"
	"invoice-scan/internal/formatters"
	"invoice-scan/internal/locale"
)

func sampleResult() *analyzer.Result {
	return &analyzer.Result{
		Vendor: analyzer.FieldResult{
			Value:      "ACME Sp. z o.o.",
			Confidence: 0.93,
			Candidates: []extract.Candidate{
				{Value: "ACME Sp. z o.o.", Confidence: 0.93, Method: extract.MethodAnchorBelow, SourceLine: "ACME Sp. z o.o."},
				{Value: "Other Corp", Confidence: 0.62, Method: extract.MethodRegionHeuristic},
			},
		},
		Amount: analyzer.FieldResult{Value: "123,45", Confidence: 0.97},
		Language:          locale.Polish,
		OverallConfidence: 0.5,
		AmountValue:       decimal.RequireFromString("123.45"),
		HasAmount:         true,
		Currency:          "PLN",
		DueDateValue:      time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		HasDueDate:        true,
	}
}

func TestConvertResult(t *testing.T) {
	report := ConvertResult(sampleResult(), formatters.FormatterOptions{})

	if report.Language != "polish" {
		t.Errorf("language = %q", report.Language)
	}
	if report.OverallConfidence != 0.5 {
		t.Errorf("overall confidence = %v", report.OverallConfidence)
	}

	vendor, ok := report.Fields["vendor"]
	if !ok {
		t.Fatal("expected the vendor field")
	}
	if vendor.Value != "ACME Sp. z o.o." || vendor.Confidence != 0.93 {
		t.Errorf("unexpected vendor field: %+v", vendor)
	}
	if vendor.Candidates != nil {
		t.Error("candidates should be omitted without verbose")
	}

	if _, ok := report.Fields["tax_id"]; ok {
		t.Error("empty fields should be absent from the report")
	}

	if report.Amount == nil || report.Amount.Value != "123.45" || report.Amount.Currency != "PLN" {
		t.Errorf("unexpected amount: %+v", report.Amount)
	}
	if report.DueDate != "2026-03-15" {
		t.Errorf("due date = %q", report.DueDate)
	}
}

func TestConvertResult_VerboseCandidates(t *testing.T) {
	report := ConvertResult(sampleResult(), formatters.FormatterOptions{Verbose: true})

	vendor := report.Fields["vendor"]
	if len(vendor.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(vendor.Candidates))
	}
	if vendor.Candidates[1].Value != "Other Corp" ||
		vendor.Candidates[1].Method != string(extract.MethodRegionHeuristic) {
		t.Errorf("unexpected runner-up: %+v", vendor.Candidates[1])
	}
}

func TestConvertResult_EmptyResult(t *testing.T) {
	report := ConvertResult(&analyzer.Result{}, formatters.FormatterOptions{})
	if report.Language != "unknown" {
		t.Errorf("language = %q, want unknown", report.Language)
	}
	if len(report.Fields) != 0 {
		t.Errorf("expected no fields, got %v", report.Fields)
	}
	if report.Amount != nil || report.DueDate != "" {
		t.Error("expected no typed values")
	}
}
