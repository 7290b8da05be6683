// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package analyzer is the public entry point of the extraction engine: one
// synchronous Analyze call over an immutable input. Concurrent analyses
// need no coordination; every call owns its own state.
package analyzer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoice-scan/internal/anchor"
	"invoice-scan/internal/dateparse"
	"invoice-scan/internal/extract"
	"invoice-scan/internal/layout"
	"invoice-scan/internal/learn"
	"invoice-scan/internal/locale"
	"invoice-scan/internal/observability"
	"invoice-scan/internal/ocr"
)

// FieldResult is one field's outcome: the best value, its confidence and
// the full ranked candidate list for a correction UI.
type FieldResult struct {
	Value      string
	Confidence float64
	Candidates []extract.Candidate
}

// Found reports whether any strategy produced a value.
func (f FieldResult) Found() bool {
	return f.Value != ""
}

// Result is the assembled outcome of one analysis.
type Result struct {
	Vendor        FieldResult
	VendorAddress FieldResult
	TaxID         FieldResult
	RegistryID    FieldResult
	Amount        FieldResult
	DueDate       FieldResult
	InvoiceNumber FieldResult
	BankAccount   FieldResult

	// Typed values for the winning amount and due date.
	AmountValue decimal.Decimal
	HasAmount   bool
	Currency    string
	DueDateValue time.Time
	HasDueDate   bool

	Language locale.Language
	// OverallConfidence is the found fraction of the four primary fields
	// (vendor, amount, due date, invoice number).
	OverallConfidence float64
	// RawText is the input passed through for the learning collaborator;
	// the engine never persists it.
	RawText string
}

// Analyzer runs the full extraction pipeline. The zero configuration from
// New is production-ready; setters exist for tests and for wiring the
// keyword store and observer.
type Analyzer struct {
	weights    extract.ScoringWeights
	tolerances layout.Tolerances
	dateOpts   dateparse.Options
	detector   *anchor.Detector
	store      learn.Store
	observer   *observability.StandardObserver
	now        func() time.Time
}

// New creates an analyzer with default weights and thresholds.
func New() *Analyzer {
	return &Analyzer{
		weights:    extract.DefaultWeights(),
		tolerances: layout.DefaultTolerances(),
		dateOpts:   dateparse.DefaultOptions(),
		detector:   anchor.NewDetector(),
		now:        time.Now,
	}
}

// SetObserver sets the observability component.
func (a *Analyzer) SetObserver(observer *observability.StandardObserver) {
	a.observer = observer
}

// SetKeywordStore wires the learned-keyword store; its amount phrases are
// merged into the scoring ruleset at the start of each analysis.
func (a *Analyzer) SetKeywordStore(store learn.Store) {
	a.store = store
}

// SetWeights overrides the scoring model.
func (a *Analyzer) SetWeights(w extract.ScoringWeights) {
	a.weights = w
}

// SetTolerances overrides the layout thresholds.
func (a *Analyzer) SetTolerances(t layout.Tolerances) {
	a.tolerances = t
}

// SetDateOptions overrides the date parsing thresholds. The injected
// clock, if any, is preserved.
func (a *Analyzer) SetDateOptions(opts dateparse.Options) {
	if opts.Now == nil {
		opts.Now = a.now
	}
	a.dateOpts = opts
}

// SetNow injects the reference clock used by date scoring.
func (a *Analyzer) SetNow(now func() time.Time) {
	a.now = now
	a.dateOpts.Now = now
}

// Analyze extracts all fields from one document. lines may be nil: the
// engine then runs the reduced text-only path over fullText. A field
// that cannot be found is absent, never an error.
func (a *Analyzer) Analyze(fullText string, lines []ocr.Line, hint locale.Language) (*Result, error) {
	var finishTiming func(bool, map[string]interface{})
	if a.observer != nil {
		finishTiming = a.observer.StartTiming("analyzer", "analyze", "")
	}

	if strings.TrimSpace(fullText) == "" && len(lines) == 0 {
		if finishTiming != nil {
			finishTiming(true, map[string]interface{}{"empty_input": true})
		}
		return &Result{Language: locale.Unknown}, nil
	}

	if len(lines) == 0 {
		lines = ocr.FromText(fullText)
	}
	if fullText == "" {
		fullText = ocr.JoinText(lines)
	}

	language := hint
	if language == "" || language == locale.Unknown {
		language = DetectLanguage(fullText)
	}

	layoutAnalysis := layout.AnalyzeWithTolerances(lines, a.tolerances)
	anchors := a.detector.Detect(lines)

	doc := &extract.Document{
		Lines:       lines,
		Text:        fullText,
		Layout:      layoutAnalysis,
		Anchors:     anchors,
		Language:    language,
		HasGeometry: layoutAnalysis.HasGeometry(),
		Weights:     a.weights,
		Now:         a.now,
	}

	// Tax ID first: its line doubles as a vendor anchor.
	taxIDs := extract.NewTaxIDExtractor(a.weights.TaxID).Extract(doc)
	registry := extract.NewRegistryIDExtractor(a.weights.TaxID).Extract(doc)

	vendorExtractor := extract.NewVendorExtractor(a.weights.Vendor)
	vendors := vendorExtractor.Extract(doc, taxIDs)
	addresses := extract.NewVendorAddressExtractor(a.weights.Vendor).Extract(doc, vendors, taxIDs)

	amountExtractor := extract.NewAmountExtractor(a.weights.Amount)
	amountExtractor.AddContextRules(a.learnedAmountRules())
	amounts := amountExtractor.Extract(doc)

	dateParser := dateparse.NewParserWithOptions(language, a.dateOpts)
	dueDates := extract.NewDueDateExtractor(a.weights.DueDate, dateParser).Extract(doc)

	invoiceNumbers := extract.NewInvoiceNumberExtractor(a.weights.Invoice).Extract(doc)
	bankAccounts := extract.NewBankAccountExtractor(a.weights.Bank).Extract(doc)

	result := &Result{
		Vendor:        toFieldResult(vendors),
		VendorAddress: toFieldResult(addresses),
		TaxID:         toFieldResult(taxIDs),
		RegistryID:    toFieldResult(registry),
		Amount:        toFieldResult(amounts),
		DueDate:       toFieldResult(dueDates),
		InvoiceNumber: toFieldResult(invoiceNumbers),
		BankAccount:   toFieldResult(bankAccounts),
		Language:      language,
		RawText:       fullText,
	}

	a.assignTypedValues(result, amounts, dueDates)
	result.OverallConfidence = overallConfidence(result)
	a.debugCandidates(result)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"language":           string(language),
			"layout_aware":       doc.HasGeometry,
			"overall_confidence": result.OverallConfidence,
		})
	}
	return result, nil
}

// debugCandidates reports each field winner on the debug observer
func (a *Analyzer) debugCandidates(result *Result) {
	if a.observer == nil || a.observer.DebugObserver == nil {
		return
	}
	debug := a.observer.DebugObserver
	for _, field := range []struct {
		name   string
		result FieldResult
	}{
		{"vendor", result.Vendor},
		{"vendor_address", result.VendorAddress},
		{"tax_id", result.TaxID},
		{"registry_id", result.RegistryID},
		{"amount", result.Amount},
		{"due_date", result.DueDate},
		{"invoice_number", result.InvoiceNumber},
		{"bank_account", result.BankAccount},
	} {
		if !field.result.Found() {
			debug.LogDetail(field.name, "no candidates")
			continue
		}
		debug.LogCandidate(field.name, field.result.Value, field.result.Confidence)
	}
}

// assignTypedValues converts the winning amount and due-date strings into
// typed values and resolves the currency.
func (a *Analyzer) assignTypedValues(result *Result, amounts, dueDates extract.FieldExtraction) {
	if best, ok := amounts.Best(); ok {
		if value, parsed := extract.ParseAmount(best.Value); parsed {
			result.AmountValue = value
			result.HasAmount = true
		}
		result.Currency = best.Currency
	}
	if result.Currency == "" {
		result.Currency = defaultCurrency(result.Language)
	}

	if best, ok := dueDates.Best(); ok {
		if date, err := time.Parse("2006-01-02", best.Value); err == nil {
			result.DueDateValue = date
			result.HasDueDate = true
		}
	}
}

func defaultCurrency(language locale.Language) string {
	switch language {
	case locale.Polish:
		return "PLN"
	case locale.English:
		return "USD"
	default:
		return ""
	}
}

// learnedAmountRules reads the keyword store; store failures degrade to
// the built-in ruleset, they never abort an analysis.
func (a *Analyzer) learnedAmountRules() []extract.ContextRule {
	if a.store == nil {
		return nil
	}
	phrases, err := a.store.Keywords(string(extract.FieldAmount))
	if err != nil {
		return nil
	}
	rules := make([]extract.ContextRule, 0, len(phrases))
	for _, p := range phrases {
		rules = append(rules, extract.ContextRule{Phrase: p.Phrase, Weight: p.Weight})
	}
	return rules
}

func toFieldResult(fe extract.FieldExtraction) FieldResult {
	result := FieldResult{Candidates: fe.Candidates}
	if best, ok := fe.Best(); ok {
		result.Value = best.Value
		result.Confidence = best.Confidence
	}
	return result
}

// overallConfidence is the found fraction of the four primary fields.
func overallConfidence(result *Result) float64 {
	found := 0
	for _, field := range []FieldResult{result.Vendor, result.Amount, result.DueDate, result.InvoiceNumber} {
		if field.Found() {
			found++
		}
	}
	return float64(found) / 4
}
