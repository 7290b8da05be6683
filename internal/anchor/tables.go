// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package anchor

// Phrase is one label phrase with its base confidence. Phrases are matched
// against normalized (lowercased, diacritic-folded) line text, so table
// entries are written in folded form.
type Phrase struct {
	Text       string
	Confidence float64
}

// phraseTables maps each anchor type to its label phrases, Polish and
// English. OCR-misread variants (digit/letter confusions seen in real
// scans) are enumerated next to their canonical phrase.
var phraseTables = map[Type][]Phrase{
	TypeVendor: {
		{"sprzedawca", 0.95},
		{"sprzedajacy", 0.85},
		{"wystawca", 0.85},
		{"dostawca", 0.80},
		{"uslugodawca", 0.75},
		{"seller", 0.90},
		{"vendor", 0.90},
		{"supplier", 0.85},
		{"issued by", 0.80},
		{"from:", 0.70},
		// OCR variants
		{"sprzedavvca", 0.80},
		{"5przedawca", 0.75},
	},
	TypeBuyer: {
		{"nabywca", 0.95},
		{"kupujacy", 0.85},
		{"odbiorca", 0.80},
		{"zamawiajacy", 0.80},
		{"platnik", 0.75},
		{"buyer", 0.90},
		{"bill to", 0.90},
		{"billed to", 0.85},
		{"sold to", 0.85},
		{"customer", 0.80},
		{"client", 0.75},
	},
	TypeDueDate: {
		{"termin platnosci", 0.95},
		{"termin zaplaty", 0.90},
		{"platne do", 0.90},
		{"data platnosci", 0.85},
		{"zaplacono do", 0.70},
		{"due date", 0.95},
		{"payment due", 0.90},
		{"due by", 0.90},
		{"pay by", 0.85},
		{"payable by", 0.85},
		{"payment date", 0.75},
		// OCR variants
		{"termin p1atnosci", 0.80},
		{"terrnin platnosci", 0.80},
	},
	TypeAmount: {
		{"do zaplaty", 0.95},
		{"razem do zaplaty", 0.95},
		{"pozostalo do zaplaty", 0.95},
		{"kwota do zaplaty", 0.95},
		{"naleznosc ogolem", 0.90},
		{"razem brutto", 0.85},
		{"suma brutto", 0.85},
		{"wartosc brutto", 0.80},
		{"razem", 0.65},
		{"suma", 0.60},
		{"amount due", 0.95},
		{"total due", 0.95},
		{"balance due", 0.95},
		{"total amount", 0.85},
		{"grand total", 0.85},
		{"total", 0.65},
		// OCR variants
		{"do zap1aty", 0.85},
		{"do zapiaty", 0.80},
	},
	TypeTaxID: {
		{"nip", 0.95},
		{"nr nip", 0.95},
		{"numer nip", 0.95},
		{"nip sprzedawcy", 0.95},
		{"tax id", 0.95},
		{"tax identification", 0.90},
		{"vat id", 0.90},
		{"vat no", 0.90},
		{"vat reg", 0.85},
		{"ein", 0.85},
		{"tin", 0.80},
		// OCR variants
		{"n1p", 0.80},
	},
	TypeRegistryID: {
		{"regon", 0.95},
		{"krs", 0.90},
		{"registry number", 0.80},
		{"company number", 0.75},
		{"registration no", 0.75},
	},
	TypeInvoiceNumber: {
		{"faktura vat nr", 0.95},
		{"faktura nr", 0.95},
		{"faktura numer", 0.90},
		{"nr faktury", 0.95},
		{"numer faktury", 0.95},
		{"nr dokumentu", 0.80},
		{"invoice number", 0.95},
		{"invoice no", 0.95},
		{"invoice #", 0.95},
		{"invoice id", 0.85},
		{"document no", 0.75},
		// OCR variants
		{"lnvoice no", 0.80},
		{"faktura vat m", 0.70},
	},
	TypeDate: {
		{"data wystawienia", 0.95},
		{"data sprzedazy", 0.90},
		{"data wykonania", 0.80},
		{"wystawiono dnia", 0.85},
		{"issue date", 0.95},
		{"invoice date", 0.95},
		{"date of issue", 0.90},
		{"sale date", 0.85},
		{"date:", 0.70},
	},
	TypeBankAccount: {
		{"numer konta", 0.95},
		{"nr konta", 0.95},
		{"konto bankowe", 0.90},
		{"nr rachunku", 0.95},
		{"numer rachunku", 0.95},
		{"rachunek bankowy", 0.90},
		{"konto", 0.70},
		{"account number", 0.95},
		{"account no", 0.90},
		{"bank account", 0.90},
		{"iban", 0.95},
		{"routing number", 0.90},
		{"aba", 0.70},
		{"swift", 0.65},
		// OCR variants
		{"nr rachunl<u", 0.75},
	},
	TypePaymentTerms: {
		{"forma platnosci", 0.90},
		{"sposob platnosci", 0.90},
		{"sposob zaplaty", 0.85},
		{"payment method", 0.90},
		{"payment terms", 0.90},
		{"terms", 0.60},
	},
}
