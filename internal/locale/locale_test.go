// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package locale

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"płatności", "platnosci"},
		{"Łódź", "Lodz"},
		{"należność", "naleznosc"},
		{"über", "uber"},
		{"plain ascii", "plain ascii"},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Termin Płatności:  15.03.2026", "termin platnosci: 15.03.2026"},
		{"  DO  ZAPŁATY ", "do zaplaty"},
		{"\tSprzedawca\n", "sprzedawca"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
