// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"strings"
)

// LocateValue finds where a corrected value appears in the source text so
// the learning module can harvest the surrounding keywords. Exact match
// first, then OCR-noise-tolerant variants: swapped decimal separator,
// inserted or removed thousands-separator spaces, spacing around the
// separator.
func LocateValue(text, value string) (index int, matched string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, "", false
	}

	for _, variant := range valueVariants(value) {
		if idx := strings.Index(text, variant); idx >= 0 {
			return idx, variant, true
		}
	}
	return 0, "", false
}

// valueVariants enumerates the spellings OCR plausibly produced for the
// confirmed value, most faithful first.
func valueVariants(value string) []string {
	variants := []string{value}
	seen := map[string]bool{value: true}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	// Alternate decimal separator.
	add(swapLast(value, ",", "."))
	add(swapLast(value, ".", ","))

	// Thousands-separator spaces removed or inserted.
	compact := strings.ReplaceAll(value, " ", "")
	add(compact)
	add(swapLast(compact, ",", "."))
	add(swapLast(compact, ".", ","))
	add(groupThousands(compact, ","))
	add(groupThousands(compact, "."))

	// Spacing around the decimal separator.
	for _, sep := range []string{",", "."} {
		if idx := strings.LastIndex(value, sep); idx > 0 {
			add(value[:idx] + " " + sep + value[idx+1:])
			add(value[:idx] + sep + " " + value[idx+1:])
			add(value[:idx] + " " + sep + " " + value[idx+1:])
		}
	}

	return variants
}

// swapLast replaces the last occurrence of old with new.
func swapLast(s, old, new string) string {
	idx := strings.LastIndex(s, old)
	if idx < 0 {
		return ""
	}
	return s[:idx] + new + s[idx+len(old):]
}

// groupThousands inserts space separators into the integer part of a
// compact amount ("1234567,89" -> "1 234 567,89").
func groupThousands(s, decimalSep string) string {
	intPart := s
	fracPart := ""
	if idx := strings.LastIndex(s, decimalSep); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}
	if len(intPart) <= 3 || strings.ContainsAny(intPart, " .,") {
		return ""
	}
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	return strings.Join(groups, " ") + fracPart
}
