// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"regexp"
	"strings"
	"unicode"

	"invoice-scan/internal/locale"
)

// Shape predicates. These are conservative reject-filters: the extractors
// use them to throw out candidates that belong to another field (a vendor
// name that is actually a date, an invoice number that is a bank account).

var (
	datePattern    = regexp.MustCompile(`^\s*\d{1,4}[-./]\d{1,2}[-./]\d{1,4}\s*$`)
	amountPattern  = regexp.MustCompile(`^\s*-?\d{1,3}(?:[ .,]?\d{3})*(?:[.,]\d{2})?\s*(?:z[łl]|PLN|USD|EUR|GBP|\$|€|£)?\s*$`)
	accountPattern = regexp.MustCompile(`^[\d\s-]+$`)
	taxIDPattern   = regexp.MustCompile(`^\s*(?:[A-Z]{2})?\s*\d{3}[- ]?\d{3}[- ]?\d{2}[- ]?\d{2}\s*$|^\s*(?:[A-Z]{2})?\s*\d{10}\s*$`)
	purelyNumeric  = regexp.MustCompile(`^[\d\s\-./,]+$`)
)

// LooksLikeDate reports whether the whole string is a numeric date.
func LooksLikeDate(s string) bool {
	return datePattern.MatchString(s)
}

// LooksLikeAmount reports whether the whole string is a monetary amount,
// optionally with a currency marker.
func LooksLikeAmount(s string) bool {
	return amountPattern.MatchString(s) && strings.ContainsAny(s, "0123456789")
}

// LooksLikeAccountNumber reports whether the string is a 26–30 digit
// account number, ignoring separators.
func LooksLikeAccountNumber(s string) bool {
	if !accountPattern.MatchString(strings.TrimSpace(s)) {
		return false
	}
	n := len(DigitsOnly(s))
	return n >= 26 && n <= 30
}

// LooksLikeTaxID reports whether the string has the shape of a 10-digit
// tax identifier, with or without grouping separators and country prefix.
func LooksLikeTaxID(s string) bool {
	return taxIDPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// LooksLikeRegistryID reports whether the string is a 9-digit statistical
// registry number (REGON).
func LooksLikeRegistryID(s string) bool {
	digits := DigitsOnly(s)
	return len(digits) == 9 && purelyNumeric.MatchString(strings.TrimSpace(s))
}

// LooksLikeCourtRegistryID reports whether the string is a 10-digit court
// registry (KRS) number, zero-padding included.
func LooksLikeCourtRegistryID(s string) bool {
	digits := DigitsOnly(s)
	return len(digits) == 10 && strings.HasPrefix(digits, "0")
}

// legalSuffixes is the known legal-entity suffix table; a match boosts
// vendor-name confidence but is never required.
var legalSuffixes = []string{
	"sp. z o.o.", "sp. z o. o.", "spolka z o.o.", "sp.j.", "sp. j.",
	"sp.k.", "sp. k.", "s.a.", "s.c.", "p.p.h.u.", "f.h.u.", "z o.o.",
	"ltd", "ltd.", "limited", "llc", "inc", "inc.", "corp", "corp.",
	"gmbh", "ag", "s.r.o.", "b.v.", "sarl", "s.a.r.l.", "oy", "ab",
	"plc", "co.", "company",
}

// documentTypeBlacklist holds document-type headings that OCR places where
// a vendor name would be.
var documentTypeBlacklist = []string{
	"faktura", "faktura vat", "faktura proforma", "proforma", "rachunek",
	"invoice", "tax invoice", "vat invoice", "pro forma invoice", "receipt",
	"nota ksiegowa", "duplikat", "korekta", "original", "orygina", "kopia", "copy",
}

// HasLegalEntitySuffix reports whether the name ends with (or contains) a
// known legal-entity suffix.
func HasLegalEntitySuffix(name string) bool {
	n := locale.Normalize(name)
	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(n, suffix) || strings.Contains(n, " "+suffix+" ") {
			return true
		}
	}
	return false
}

// ValidVendorName reports whether a string is plausible as a company name:
// sensible length, mostly letters, not a document-type heading, not a
// value belonging to another field.
func ValidVendorName(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 3 || len(trimmed) > 100 {
		return false
	}
	if purelyNumeric.MatchString(trimmed) {
		return false
	}
	if LooksLikeDate(trimmed) || LooksLikeAmount(trimmed) || LooksLikeTaxID(trimmed) || LooksLikeAccountNumber(trimmed) {
		return false
	}

	normalized := locale.Normalize(trimmed)
	for _, phrase := range documentTypeBlacklist {
		if normalized == phrase || strings.HasPrefix(normalized, phrase+" nr") ||
			strings.HasPrefix(normalized, phrase+" no") || strings.HasPrefix(normalized, phrase+" #") {
			return false
		}
	}

	letters, total := 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return false
	}
	ratio := float64(letters) / float64(total)
	// Names with a legal suffix tolerate more digits ("3M Sp. z o.o.").
	if HasLegalEntitySuffix(trimmed) {
		return ratio > 0.3
	}
	return ratio > 0.5
}
