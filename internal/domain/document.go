package domain

import "strings"

// DocumentKind distinguishes individual (CPF) from company (CNPJ) tax ids.
type DocumentKind string

const (
	DocumentCPF  DocumentKind = "cpf"
	DocumentCNPJ DocumentKind = "cnpj"
)

// Document is a validated Brazilian tax id, digits only.
type Document struct {
	Digits string
	Kind   DocumentKind
}

// Masked returns the document with its middle digits redacted.
func (d Document) Masked() string {
	return MaskDocument(d.Digits)
}

// OnlyDigits strips everything but 0-9.
func OnlyDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

// ParseDocument validates a CPF (11 digits, check digits verified) or a
// CNPJ (14 digits). Formatting characters are ignored.
func ParseDocument(raw string) (Document, error) {
	digits := OnlyDigits(raw)
	switch {
	case digits == "":
		return Document{}, Validation("CPF é obrigatório.", "cpf")
	case len(digits) == 11:
		if !IsValidCPF(digits) {
			return Document{}, Validation("CPF informado é inválido.", "cpf")
		}
		return Document{Digits: digits, Kind: DocumentCPF}, nil
	case len(digits) == 14:
		return Document{Digits: digits, Kind: DocumentCNPJ}, nil
	default:
		return Document{}, Validation("CNPJ informado é inválido.", "cnpj")
	}
}

// IsValidCPF applies the modulo-11 check on both verification digits.
// Sequences of a single repeated digit are rejected.
func IsValidCPF(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}

	check := func(n int) int {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(digits[i]-'0') * (n + 1 - i)
		}
		rest := 11 - sum%11
		if rest >= 10 {
			return 0
		}
		return rest
	}

	return check(9) == int(digits[9]-'0') && check(10) == int(digits[10]-'0')
}

// MaskDocument keeps the first and last digits of a tax id visible:
// 123*****901 for CPF, 12********34 for CNPJ, "n/d" otherwise.
func MaskDocument(value string) string {
	digits := OnlyDigits(value)
	switch len(digits) {
	case 11:
		return digits[:3] + "*****" + digits[8:]
	case 14:
		return digits[:2] + "********" + digits[12:]
	default:
		return "n/d"
	}
}
