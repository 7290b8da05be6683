// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package checksum holds the pure format and checksum validators shared by
// every field extractor. Validators never reject a candidate outright; OCR
// noise makes wrong checksums common for genuinely correct values, so the
// extractors only adjust confidence on the result.
package checksum

import (
	"strings"
)

// nipWeights are the digit weights of the Polish tax-ID (NIP) mod-11
// checksum, applied to digits 1–9.
var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// ValidTaxID validates a 10-digit tax identifier (NIP) by its mod-11
// checksum. Separators are stripped first.
func ValidTaxID(s string) bool {
	digits := DigitsOnly(s)
	if len(digits) != 10 {
		return false
	}
	sum := 0
	for i, w := range nipWeights {
		sum += int(digits[i]-'0') * w
	}
	check := sum % 11
	if check == 10 {
		return false
	}
	return check == int(digits[9]-'0')
}

// domesticCountryPrefix is prepended to a bare 26-digit domestic account
// number (NRB) before running the IBAN checksum; the domestic format is the
// national IBAN without its country header.
const domesticCountryPrefix = "PL"

// ValidIBAN validates an account number by the ISO 13616 mod-97 checksum:
// move the first four characters to the end, map letters to numbers
// (A=10…Z=35) and require the whole digit string ≡ 1 (mod 97).
func ValidIBAN(s string) bool {
	cleaned := strings.ToUpper(strings.Map(dropSeparators, s))
	if len(cleaned) < 15 || len(cleaned) > 34 {
		return false
	}
	rearranged := cleaned[4:] + cleaned[:4]

	var sb strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteString(itoa2(int(r-'A') + 10))
		default:
			return false
		}
	}
	digits := sb.String()

	// Process in fixed-size chunks, carrying the running remainder forward;
	// the full number does not fit in an int64.
	const chunkSize = 9
	remainder := 0
	for i := 0; i < len(digits); i += chunkSize {
		end := i + chunkSize
		if end > len(digits) {
			end = len(digits)
		}
		chunk := digits[i:end]
		value := remainder
		for _, d := range chunk {
			value = value*10 + int(d-'0')
		}
		remainder = value % 97
	}
	return remainder == 1
}

// ValidDomesticAccount validates a 26-digit domestic account number by
// prepending the fixed country prefix and running the IBAN checksum.
func ValidDomesticAccount(s string) bool {
	digits := DigitsOnly(s)
	if len(digits) != 26 {
		return false
	}
	return ValidIBAN(domesticCountryPrefix + digits)
}

// einPrefixes is the fixed whitelist of valid EIN issuing-office prefixes.
var einPrefixes = map[string]bool{
	"01": true, "02": true, "03": true, "04": true, "05": true, "06": true,
	"10": true, "11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "20": true, "21": true, "22": true, "23": true, "24": true,
	"25": true, "26": true, "27": true, "30": true, "31": true, "32": true,
	"33": true, "34": true, "35": true, "36": true, "37": true, "38": true,
	"39": true, "40": true, "41": true, "42": true, "43": true, "44": true,
	"45": true, "46": true, "47": true, "48": true, "50": true, "51": true,
	"52": true, "53": true, "54": true, "55": true, "56": true, "57": true,
	"58": true, "59": true, "60": true, "61": true, "62": true, "63": true,
	"64": true, "65": true, "66": true, "67": true, "68": true, "71": true,
	"72": true, "73": true, "74": true, "75": true, "76": true, "77": true,
	"80": true, "81": true, "82": true, "83": true, "84": true, "85": true,
	"86": true, "87": true, "88": true, "90": true, "91": true, "92": true,
	"93": true, "94": true, "95": true, "98": true, "99": true,
}

// ValidEIN validates a 9-digit employer identification number against the
// issuing-office prefix table.
func ValidEIN(s string) bool {
	digits := DigitsOnly(s)
	if len(digits) != 9 {
		return false
	}
	return einPrefixes[digits[:2]]
}

// abaWeights is the repeating weight cycle of the ABA routing checksum.
var abaWeights = [3]int{3, 7, 1}

// ValidRoutingNumber validates a 9-digit ABA routing number by its weighted
// mod-10 checksum.
func ValidRoutingNumber(s string) bool {
	digits := DigitsOnly(s)
	if len(digits) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * abaWeights[i%3]
	}
	return sum%10 == 0
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func dropSeparators(r rune) rune {
	switch r {
	case ' ', '-', '\t':
		return -1
	}
	return r
}

// itoa2 formats a two-digit number without allocation-heavy strconv calls
// in the IBAN hot path.
func itoa2(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
