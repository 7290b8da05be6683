// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package checksum

import "testing"

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid bare", "1234563218", true},
		{"valid grouped", "123-456-32-18", true},
		{"valid spaced", "123 456 32 18", true},
		{"flipped check digit", "1234563217", false},
		{"flipped inner digit", "1234563318", false},
		{"too short", "123456321", false},
		{"too long", "12345632181", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTaxID(tt.input); got != tt.want {
				t.Errorf("ValidTaxID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidTaxID_SingleCheckDigit(t *testing.T) {
	// Only one of the ten possible final digits satisfies the checksum.
	valid := 0
	for d := byte('0'); d <= '9'; d++ {
		if ValidTaxID("123456321" + string(d)) {
			valid++
		}
	}
	if valid != 1 {
		t.Errorf("expected exactly 1 valid check digit, got %d", valid)
	}
}

func TestValidIBAN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid gb", "GB82 WEST 1234 5698 7654 32", true},
		{"valid gb compact", "GB82WEST12345698765432", true},
		{"valid pl", "PL61 1090 1014 0000 0712 1981 2874", true},
		{"digit flip", "GB82 WEST 1234 5698 7654 33", false},
		{"transposed", "GB82 WEST 1234 5698 7654 23", false},
		{"too short", "GB82WEST", false},
		{"garbage characters", "GB82_WEST_1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidIBAN(tt.input); got != tt.want {
				t.Errorf("ValidIBAN(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidDomesticAccount(t *testing.T) {
	// The domestic 26-digit form is the national IBAN without its "PL" header.
	if !ValidDomesticAccount("61 1090 1014 0000 0712 1981 2874") {
		t.Error("expected valid domestic account")
	}
	if ValidDomesticAccount("61 1090 1014 0000 0712 1981 2875") {
		t.Error("expected digit flip to fail the checksum")
	}
	if ValidDomesticAccount("1090 1014 0000 0712 1981 2874") {
		t.Error("expected 24 digits to be rejected")
	}
}

func TestValidEIN(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12-3456789", true},
		{"123456789", true},
		{"07-1234567", false}, // 07 is not an issuing-office prefix
		{"09-1234567", false},
		{"12-345678", false},
	}
	for _, tt := range tests {
		if got := ValidEIN(tt.input); got != tt.want {
			t.Errorf("ValidEIN(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidRoutingNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"021000021", true},
		{"111000025", true},
		{"021000022", false},
		{"12345678", false},
	}
	for _, tt := range tests {
		if got := ValidRoutingNumber(tt.input); got != tt.want {
			t.Errorf("ValidRoutingNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("PL 61-1090"); got != "611090" {
		t.Errorf("DigitsOnly = %q, want 611090", got)
	}
}
