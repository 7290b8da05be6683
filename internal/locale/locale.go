// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package locale holds the language hint shared by the date parser, the
// anchor detector and the analyzer, plus text normalization helpers used
// for multilingual keyword matching.
package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Language is the three-state document language hint.
type Language string

const (
	Polish  Language = "polish"
	English Language = "english"
	Unknown Language = "unknown"
)

// foldTransformer strips combining marks after canonical decomposition, so
// "płatności" folds to "płatnosci" and "ü" to "u". The Polish stroked l is
// not a combining form, handled separately below.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

var strokedReplacer = strings.NewReplacer(
	"ł", "l",
	"Ł", "L",
	"ø", "o",
	"Ø", "O",
	"đ", "d",
	"Đ", "D",
)

// Fold removes diacritics from s. OCR engines drop or mangle diacritics
// often enough that all keyword matching happens on folded text.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strokedReplacer.Replace(folded)
}

// Normalize lowercases, folds diacritics and collapses runs of whitespace.
// This is the canonical form for anchor-phrase matching.
func Normalize(s string) string {
	folded := Fold(strings.ToLower(s))
	return strings.Join(strings.Fields(folded), " ")
}
