// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"strings"

	"invoice-scan/internal/locale"
)

// Strong-signal keyword sets, mutually exclusive between the two locales.
// Folded forms, matched on normalized text.
var polishSignals = []string{
	"sprzedawca", "nabywca", "faktura", "do zaplaty", "termin platnosci",
	"data wystawienia", "razem", "brutto", "netto", "nip", "regon",
	"naleznosc", "rachunek", "platnosci", "zlotych",
}

var englishSignals = []string{
	"invoice", "amount due", "due date", "bill to", "total due",
	"payment terms", "subtotal", "sales tax", "remit to", "payable",
	"vendor", "account number", "routing",
}

const (
	// languageMinCount is the minimum winning-signal count.
	languageMinCount = 3
	// languageDominance: the winner must exceed double the loser.
	languageDominance = 2
)

// DetectLanguage classifies the document language by counting strong
// keyword signals. The winner needs at least three hits and more than
// double the other side's, otherwise the document stays unclassified.
func DetectLanguage(text string) locale.Language {
	normalized := locale.Normalize(text)

	polish := countSignals(normalized, polishSignals)
	english := countSignals(normalized, englishSignals)

	switch {
	case polish >= languageMinCount && polish > english*languageDominance:
		return locale.Polish
	case english >= languageMinCount && english > polish*languageDominance:
		return locale.English
	default:
		return locale.Unknown
	}
}

func countSignals(normalized string, signals []string) int {
	count := 0
	for _, signal := range signals {
		count += strings.Count(normalized, signal)
	}
	return count
}
