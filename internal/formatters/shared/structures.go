// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package shared holds the serializable report structures used by the
// structured output formats.
package shared

import (
	"invoice-scan/internal/analyzer"
	"invoice-scan/internal/formatters"
)

// Report is the machine-readable form of an analysis result
type Report struct {
	Language          string           `json:"language" yaml:"language"`
	OverallConfidence float64          `json:"overall_confidence" yaml:"overall_confidence"`
	Fields            map[string]Field `json:"fields" yaml:"fields"`
	Amount            *Amount          `json:"amount,omitempty" yaml:"amount,omitempty"`
	DueDate           string           `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

// Field is one extracted field with its ranked candidates
type Field struct {
	Value      string      `json:"value" yaml:"value"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
	Candidates []Candidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Candidate is a single scored extraction
type Candidate struct {
	Value      string  `json:"value" yaml:"value"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Method     string  `json:"method" yaml:"method"`
	Line       string  `json:"line,omitempty" yaml:"line,omitempty"`
}

// Amount is the typed winning amount
type Amount struct {
	Value    string `json:"value" yaml:"value"`
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// ConvertResult builds the report DTO from an analysis result. Candidate
// lists are included only in verbose mode.
func ConvertResult(result *analyzer.Result, options formatters.FormatterOptions) Report {
	report := Report{
		Language:          string(result.Language),
		OverallConfidence: result.OverallConfidence,
		Fields:            make(map[string]Field),
	}
	if report.Language == "" {
		report.Language = "unknown"
	}

	fields := map[string]analyzer.FieldResult{
		"vendor":         result.Vendor,
		"vendor_address": result.VendorAddress,
		"tax_id":         result.TaxID,
		"registry_id":    result.RegistryID,
		"amount_due":     result.Amount,
		"due_date":       result.DueDate,
		"invoice_number": result.InvoiceNumber,
		"bank_account":   result.BankAccount,
	}
	for name, field := range fields {
		if !field.Found() && len(field.Candidates) == 0 {
			continue
		}
		converted := Field{
			Value:      field.Value,
			Confidence: field.Confidence,
		}
		if options.Verbose {
			for _, c := range field.Candidates {
				converted.Candidates = append(converted.Candidates, Candidate{
					Value:      c.Value,
					Confidence: c.Confidence,
					Method:     string(c.Method),
					Line:       c.SourceLine,
				})
			}
		}
		report.Fields[name] = converted
	}

	if result.HasAmount {
		report.Amount = &Amount{
			Value:    result.AmountValue.StringFixed(2),
			Currency: result.Currency,
		}
	}
	if result.HasDueDate {
		report.DueDate = result.DueDateValue.Format("2006-01-02")
	}

	return report
}
