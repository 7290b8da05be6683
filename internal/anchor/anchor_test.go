// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package anchor

import (
	"testing"

	"invoice-scan/internal/ocr"
)

func textLine(text string) ocr.Line {
	return ocr.Line{Text: text, Confidence: 0.95}
}

func TestDetectLine(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		text       string
		wantType   Type
		wantPhrase string
		wantConf   float64
		wantLabel  bool
	}{
		{
			"polish vendor label", "Sprzedawca: ACME Sp. z o.o.",
			TypeVendor, "sprzedawca", 1.0, true,
		},
		{
			"polish due date with diacritics", "Termin płatności: 15.03.2026",
			TypeDueDate, "termin platnosci", 1.0, true,
		},
		{
			"bare label no inline value", "Sprzedawca",
			TypeVendor, "sprzedawca", 1.0, false,
		},
		{
			"ocr variant", "Sprzedavvca: ACME",
			TypeVendor, "sprzedavvca", 0.90, true,
		},
		{
			"tax id label", "NIP: 123-456-32-18",
			TypeTaxID, "nip", 1.0, true,
		},
		{
			"mid-line loses start bonus", "Company VAT Reg: GB123",
			TypeTaxID, "vat reg", 0.90, true,
		},
		{
			"line-start keeps bonus", "VAT Reg: GB123",
			TypeTaxID, "vat reg", 0.95, true,
		},
		{
			"longest phrase wins ties", "Faktura VAT nr FV/123/2026",
			TypeInvoiceNumber, "faktura vat nr", 1.0, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detected := d.DetectLine(textLine(tt.text), 0)
			var match *Detected
			for i := range detected {
				if detected[i].Type == tt.wantType {
					match = &detected[i]
					break
				}
			}
			if match == nil {
				t.Fatalf("no %s anchor in %+v", tt.wantType, detected)
			}
			if match.MatchedPhrase != tt.wantPhrase {
				t.Errorf("phrase = %q, want %q", match.MatchedPhrase, tt.wantPhrase)
			}
			if match.Confidence != tt.wantConf {
				t.Errorf("confidence = %.2f, want %.2f", match.Confidence, tt.wantConf)
			}
			if match.IsLabel != tt.wantLabel {
				t.Errorf("IsLabel = %v, want %v", match.IsLabel, tt.wantLabel)
			}
		})
	}
}

func TestDetectLine_NoMatch(t *testing.T) {
	d := NewDetector()
	for _, text := range []string{"", "   ", "ul. Prosta 5", "00-001 Warszawa"} {
		if got := d.DetectLine(textLine(text), 0); len(got) != 0 {
			t.Errorf("DetectLine(%q) = %+v, want none", text, got)
		}
	}
}

func TestDetect_BestAndOfType(t *testing.T) {
	d := NewDetector()
	lines := []ocr.Line{
		textLine("Wystawca: ACME"),
		textLine("Sprzedawca: ACME Sp. z o.o."),
		textLine("Faktura nr FV/123/2026"),
	}
	result := d.Detect(lines)

	best, ok := result.Best(TypeVendor)
	if !ok {
		t.Fatal("expected a vendor anchor")
	}
	if best.MatchedPhrase != "sprzedawca" || best.LineIndex != 1 {
		t.Errorf("best vendor = %q on line %d, want sprzedawca on line 1",
			best.MatchedPhrase, best.LineIndex)
	}

	vendors := result.OfType(TypeVendor)
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendor anchors, got %d", len(vendors))
	}
	if vendors[0].Confidence < vendors[1].Confidence {
		t.Error("expected vendor anchors sorted best first")
	}

	if _, ok := result.Best(TypeBankAccount); ok {
		t.Error("did not expect a bank account anchor")
	}
}

func TestValueAfter(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		text     string
		anchorOf Type
		want     string
	}{
		{"Termin płatności: 15.03.2026", TypeDueDate, "15.03.2026"},
		{"Sprzedawca: ACME Sp. z o.o.", TypeVendor, "ACME Sp. z o.o."},
		{"NIP 123-456-32-18", TypeTaxID, "123-456-32-18"},
		{"Sprzedawca", TypeVendor, ""},
		{"Due date - 2026-03-15", TypeDueDate, "2026-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			detected := d.DetectLine(textLine(tt.text), 0)
			var match *Detected
			for i := range detected {
				if detected[i].Type == tt.anchorOf {
					match = &detected[i]
					break
				}
			}
			if match == nil {
				t.Fatalf("no %s anchor", tt.anchorOf)
			}
			if got := match.ValueAfter(); got != tt.want {
				t.Errorf("ValueAfter = %q, want %q", got, tt.want)
			}
		})
	}
}
