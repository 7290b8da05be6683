// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"invoice-scan/internal/analyzer"
	"invoice-scan/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

// fieldRow pairs a display label with one extracted field.
type fieldRow struct {
	label string
	field analyzer.FieldResult
}

func (f *Formatter) Format(result *analyzer.Result, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	rows := []fieldRow{
		{"Vendor", result.Vendor},
		{"Vendor address", result.VendorAddress},
		{"Tax ID", result.TaxID},
		{"Registry ID", result.RegistryID},
		{"Amount due", result.Amount},
		{"Due date", result.DueDate},
		{"Invoice number", result.InvoiceNumber},
		{"Bank account", result.BankAccount},
	}

	f.appendHeader(&builder, result, options)

	for _, row := range rows {
		f.appendFieldLine(&builder, row, options)
		if options.Verbose && len(row.field.Candidates) > 1 {
			f.appendCandidates(&builder, row.field, options)
		}
	}

	f.appendFooter(&builder, result, options)

	return builder.String(), nil
}

// appendHeader writes the document-level summary line
func (f *Formatter) appendHeader(builder *strings.Builder, result *analyzer.Result, options formatters.FormatterOptions) {
	language := string(result.Language)
	if language == "" {
		language = "unknown"
	}
	if !options.NoColor {
		f.colors["white"].Fprintf(builder, "=== Invoice Analysis ===\n")
		f.colors["cyan"].Fprintf(builder, "Language: ")
		fmt.Fprintf(builder, "%s\n", language)
	} else {
		fmt.Fprintf(builder, "=== Invoice Analysis ===\n")
		fmt.Fprintf(builder, "Language: %s\n", language)
	}
	fmt.Fprintln(builder)
}

// appendFieldLine writes one "Label: value (confidence)" line
func (f *Formatter) appendFieldLine(builder *strings.Builder, row fieldRow, options formatters.FormatterOptions) {
	labelStr := fmt.Sprintf("%-16s", row.label)
	if !options.NoColor {
		labelStr = f.colors["cyan"].Sprintf("%-16s", row.label)
	}

	if !row.field.Found() {
		missing := "not found"
		if !options.NoColor {
			missing = f.colors["magenta"].Sprint(missing)
		}
		fmt.Fprintf(builder, "%s %s\n", labelStr, missing)
		return
	}

	confidenceStr := fmt.Sprintf("(%.0f%%)", row.field.Confidence*100)
	if !options.NoColor {
		confidenceStr = f.confidenceColor(row.field.Confidence).Sprint(confidenceStr)
	}

	fmt.Fprintf(builder, "%s %s %s\n", labelStr, row.field.Value, confidenceStr)
}

// appendCandidates lists the runner-up candidates below a field line
func (f *Formatter) appendCandidates(builder *strings.Builder, field analyzer.FieldResult, options formatters.FormatterOptions) {
	for i, candidate := range field.Candidates {
		if candidate.Value == field.Value && i == 0 {
			continue
		}
		line := fmt.Sprintf("    - %s (%.0f%%, %s)", candidate.Value, candidate.Confidence*100, candidate.Method)
		if !options.NoColor {
			line = f.colors["magenta"].Sprint(line)
		}
		fmt.Fprintf(builder, "%s\n", line)
	}
}

// appendFooter writes the typed values and overall confidence
func (f *Formatter) appendFooter(builder *strings.Builder, result *analyzer.Result, options formatters.FormatterOptions) {
	fmt.Fprintln(builder)

	if result.HasAmount {
		amountLine := fmt.Sprintf("Amount: %s %s", result.AmountValue.StringFixed(2), result.Currency)
		if !options.NoColor {
			amountLine = f.colors["white"].Sprint(amountLine)
		}
		fmt.Fprintf(builder, "%s\n", amountLine)
	}
	if result.HasDueDate {
		dueLine := fmt.Sprintf("Due:    %s", result.DueDateValue.Format("2006-01-02"))
		if !options.NoColor {
			dueLine = f.colors["white"].Sprint(dueLine)
		}
		fmt.Fprintf(builder, "%s\n", dueLine)
	}

	overallStr := fmt.Sprintf("Fields found: %.0f%%", result.OverallConfidence*100)
	if !options.NoColor {
		overallStr = f.confidenceColor(result.OverallConfidence).Sprint(overallStr)
	}
	fmt.Fprintf(builder, "%s\n", overallStr)
}

// confidenceColor maps a confidence to the traffic-light color
func (f *Formatter) confidenceColor(confidence float64) *color.Color {
	switch {
	case confidence >= 0.9:
		return f.colors["green"]
	case confidence >= 0.6:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
