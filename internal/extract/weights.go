// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

// ScoringWeights centralizes every confidence constant used by the
// extractors, so the scoring model is auditable and tunable in tests
// independent of control flow.
type ScoringWeights struct {
	// TextOnlyScale multiplies every confidence on the no-geometry path.
	TextOnlyScale float64

	Vendor  VendorWeights
	TaxID   TaxIDWeights
	Amount  AmountWeights
	DueDate DueDateWeights
	Invoice InvoiceNumberWeights
	Bank    BankAccountWeights
}

// VendorWeights scores the vendor-name strategies.
type VendorWeights struct {
	// AnchorBlockBase is the confidence of the first valid line below a
	// vendor anchor in the same column.
	AnchorBlockBase float64
	// TaxIDFallbackBase scores the line directly above a tax-ID line.
	// This is an independent strong signal, not a weak fallback.
	TaxIDFallbackBase float64
	// RegionTopLeftBase / RegionMiddleLeftBase score the region scans.
	RegionTopLeftBase    float64
	RegionMiddleLeftBase float64
	// LegalSuffixBoost rewards a known legal-entity suffix in the name.
	LegalSuffixBoost float64
	// AddressBoost rewards a vendor block that also yielded address lines.
	AddressBoost float64
	// CrossValidationBoost is added once when ≥2 independent strategy
	// categories agree on the same normalized name.
	CrossValidationBoost float64
	// BlockMaxLines bounds the captured block below a vendor anchor.
	BlockMaxLines int
	// BlockMaxDY is the maximum Y distance for block capture.
	BlockMaxDY float64
}

// TaxIDWeights scores tax-ID and registry-ID candidates.
type TaxIDWeights struct {
	AnchorSameLineBase float64
	AnchorRightBase    float64
	AnchorBelowBase    float64
	RegionBase         float64
	PatternBase        float64
	ChecksumValidBoost float64
	ChecksumInvalidPenalty float64
}

// ContextRule is one signed keyword weight of the amount semantic scorer.
// Learned keywords from the store merge into this set.
type ContextRule struct {
	Phrase string
	Weight float64
}

// AmountTierSpec is one row of the ordered amount pattern tier table.
type AmountTierSpec struct {
	Name   string
	Class  string
	Weight float64
	// Phrases are folded keyword forms that select the tier.
	Phrases []string
}

// AmountWeights drives the amount extractor.
type AmountWeights struct {
	Tiers []AmountTierSpec
	// ContextRules are the signed three-line-window keyword weights.
	ContextRules []ContextRule
	// OCR confidence adjustment thresholds and deltas.
	OCRHighConfidence float64
	OCRLowConfidence  float64
	OCRHighBonus      float64
	OCRLowPenalty     float64
	// CurrencyBonus is the ranking tertiary criterion reward.
	CurrencyBonus float64
	// ScoreScale divides the raw score to produce a confidence.
	ScoreScale float64
	MinConfidence, MaxConfidence float64
	// ClassTieEpsilon: within this confidence distance a "due"-class
	// candidate outranks a "total"-class one regardless of raw order.
	ClassTieEpsilon float64
}

// DueDateWeights drives the due-date scorer.
type DueDateWeights struct {
	KeywordSameLine   float64
	KeywordAdjacent   float64
	IssueDatePenalty  float64
	BottomPageBonus   float64
	TopPagePenalty    float64
	AnchorProximity   float64
	// Day-offset curve relative to now.
	NearFutureDays  int
	NearFutureBonus float64
	FarFutureDays   int
	FarFutureBonus  float64
	BeyondFuturePenalty float64
	RecentPastDays  int
	RecentPastBonus float64
	DistantPastPenalty float64
	// AdjacentMaxDY is the Y band for "spatially adjacent".
	AdjacentMaxDY float64
	ScoreScale    float64
	MinConfidence, MaxConfidence float64
}

// InvoiceNumberWeights scores invoice-number strategies.
type InvoiceNumberWeights struct {
	AnchorSameLineBase float64
	AnchorRightBase    float64
	AnchorBelowBase    float64
	RegionBase         float64
}

// BankAccountWeights scores bank-account strategies.
type BankAccountWeights struct {
	AnchorSameLineBase float64
	AnchorBelowBase    float64
	AnchorRightBase    float64
	RegionBase         float64
	PatternBase        float64
	ChecksumValidBoost float64
	ChecksumInvalidPenalty float64
}

// DefaultWeights returns the production scoring model.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		TextOnlyScale: 0.85,

		Vendor: VendorWeights{
			AnchorBlockBase:      0.88,
			TaxIDFallbackBase:    0.90,
			RegionTopLeftBase:    0.72,
			RegionMiddleLeftBase: 0.62,
			LegalSuffixBoost:     0.05,
			AddressBoost:         0.02,
			CrossValidationBoost: 0.05,
			BlockMaxLines:        6,
			BlockMaxDY:           0.18,
		},

		TaxID: TaxIDWeights{
			AnchorSameLineBase:     0.95,
			AnchorRightBase:        0.90,
			AnchorBelowBase:        0.80,
			RegionBase:             0.60,
			PatternBase:            0.45,
			ChecksumValidBoost:     0.05,
			ChecksumInvalidPenalty: -0.10,
		},

		Amount: AmountWeights{
			Tiers: []AmountTierSpec{
				{
					Name: "definitive-payment", Class: "due", Weight: 100,
					Phrases: []string{
						"do zaplaty", "pozostalo do zaplaty", "razem do zaplaty",
						"kwota do zaplaty", "amount due", "total due", "balance due",
						"please pay", "do zap1aty",
					},
				},
				{
					Name: "primary-payment", Class: "due", Weight: 90,
					Phrases: []string{
						"naleznosc ogolem", "do przelewu", "zaplata", "to pay",
						"amount payable", "payable",
					},
				},
				{
					Name: "category-total", Class: "total", Weight: 75,
					Phrases: []string{
						"razem brutto", "suma brutto", "wartosc brutto", "brutto",
						"gross total", "gross amount", "total incl", "total including",
					},
				},
				{
					Name: "generic-total", Class: "total", Weight: 60,
					Phrases: []string{
						"razem", "suma", "total", "grand total", "wartosc", "amount",
					},
				},
				{
					Name: "currency-number", Class: "currency", Weight: 45,
					Phrases: nil, // selected by currency marker, not keyword
				},
				{
					Name: "vat-related", Class: "vat", Weight: 25,
					Phrases: []string{"vat", "podatek", "tax", "netto", "net"},
				},
				{
					Name: "bare-number", Class: "bare", Weight: 10,
					Phrases: nil,
				},
			},
			ContextRules: []ContextRule{
				{"do zaplaty", 40}, {"amount due", 40}, {"balance due", 40},
				{"termin platnosci", 15}, {"due date", 15},
				{"razem", 10}, {"total", 10}, {"brutto", 10},
				{"rabat", -40}, {"discount", -40}, {"upust", -35},
				{"korekta", -30}, {"correction", -30}, {"zwrot", -30},
				{"refund", -30}, {"netto", -15}, {"net", -10},
				{"vat", -15}, {"podatek", -15},
			},
			OCRHighConfidence: 0.9,
			OCRLowConfidence:  0.7,
			OCRHighBonus:      20,
			OCRLowPenalty:     -30,
			CurrencyBonus:     5,
			ScoreScale:        140,
			MinConfidence:     0.10,
			MaxConfidence:     0.97,
			ClassTieEpsilon:   0.08,
		},

		DueDate: DueDateWeights{
			KeywordSameLine:     100,
			KeywordAdjacent:     80,
			IssueDatePenalty:    -60,
			BottomPageBonus:     30,
			TopPagePenalty:      -20,
			AnchorProximity:     60,
			NearFutureDays:      90,
			NearFutureBonus:     40,
			FarFutureDays:       180,
			FarFutureBonus:      10,
			BeyondFuturePenalty: -20,
			RecentPastDays:      60,
			RecentPastBonus:     15,
			DistantPastPenalty:  -50,
			AdjacentMaxDY:       0.06,
			ScoreScale:          100,
			MinConfidence:       0.15,
			MaxConfidence:       0.95,
		},

		Invoice: InvoiceNumberWeights{
			AnchorSameLineBase: 0.95,
			AnchorRightBase:    0.88,
			AnchorBelowBase:    0.78,
			RegionBase:         0.55,
		},

		Bank: BankAccountWeights{
			AnchorSameLineBase:     0.92,
			AnchorBelowBase:        0.85,
			AnchorRightBase:        0.85,
			RegionBase:             0.60,
			PatternBase:            0.50,
			ChecksumValidBoost:     0.06,
			ChecksumInvalidPenalty: -0.12,
		},
	}
}
