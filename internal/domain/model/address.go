package model

import (
	"fmt"
	"strings"
)

// PostalCodeLength is the number of digits in a CEP.
const PostalCodeLength = 8

// Address is a delivery address built from user input and lookup results.
type Address struct {
	PostalCode   string `json:"postalCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Reference    string `json:"reference,omitempty"`
}

// NormalizePostalCode strips everything except digits.
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPostalCode reports whether raw normalizes to exactly eight digits.
func ValidPostalCode(raw string) bool {
	return len(NormalizePostalCode(raw)) == PostalCodeLength
}

// DisplayPostalCode renders a CEP as 00000-000 when it is valid, otherwise
// it returns the input unchanged.
func DisplayPostalCode(raw string) string {
	digits := NormalizePostalCode(raw)
	if len(digits) != PostalCodeLength {
		return raw
	}
	return digits[:5] + "-" + digits[5:]
}

// Merge fills blank fields of a with the values from resolved. Fields the
// user already typed are kept.
func (a Address) Merge(resolved Address) Address {
	out := a
	fill := func(dst *string, src string) {
		if isBlank(*dst) && !isBlank(src) {
			*dst = strings.TrimSpace(src)
		}
	}
	fill(&out.PostalCode, resolved.PostalCode)
	fill(&out.Street, resolved.Street)
	fill(&out.Complement, resolved.Complement)
	fill(&out.Neighborhood, resolved.Neighborhood)
	fill(&out.City, resolved.City)
	fill(&out.State, resolved.State)
	return out
}

// FilledBy returns the fields of merged that were blank in a, that is the
// values a lookup contributed on top of what the user typed.
func (a Address) FilledBy(merged Address) Address {
	var out Address
	take := func(dst *string, before, after string) {
		if isBlank(before) && !isBlank(after) {
			*dst = strings.TrimSpace(after)
		}
	}
	take(&out.Street, a.Street, merged.Street)
	take(&out.Complement, a.Complement, merged.Complement)
	take(&out.Neighborhood, a.Neighborhood, merged.Neighborhood)
	take(&out.City, a.City, merged.City)
	take(&out.State, a.State, merged.State)
	return out
}

// Forget blanks the fields of a that still hold the value recorded in
// filled. Fields the user edited afterwards are kept.
func (a Address) Forget(filled Address) Address {
	out := a
	drop := func(dst *string, src string) {
		if !isBlank(src) && strings.TrimSpace(*dst) == src {
			*dst = ""
		}
	}
	drop(&out.Street, filled.Street)
	drop(&out.Complement, filled.Complement)
	drop(&out.Neighborhood, filled.Neighborhood)
	drop(&out.City, filled.City)
	drop(&out.State, filled.State)
	return out
}

// HasStreetAndCity reports whether enough was typed manually to go on
// without a lookup.
func (a Address) HasStreetAndCity() bool {
	return !isBlank(a.Street) && !isBlank(a.City)
}

// MissingFields lists required fields that are blank, in display order.
func (a Address) MissingFields() []string {
	var missing []string
	if isBlank(a.PostalCode) {
		missing = append(missing, "postal code")
	}
	if isBlank(a.Street) {
		missing = append(missing, "street")
	}
	if isBlank(a.Number) {
		missing = append(missing, "number")
	}
	if isBlank(a.Neighborhood) {
		missing = append(missing, "neighborhood")
	}
	if isBlank(a.City) {
		missing = append(missing, "city")
	}
	return missing
}

// Format renders the single-line address stored on orders.
func (a Address) Format() string {
	s := fmt.Sprintf("%s, %s - %s, %s/%s - CEP: %s",
		strings.TrimSpace(a.Street),
		strings.TrimSpace(a.Number),
		strings.TrimSpace(a.Neighborhood),
		strings.TrimSpace(a.City),
		strings.TrimSpace(a.State),
		DisplayPostalCode(strings.TrimSpace(a.PostalCode)),
	)
	if ref := strings.TrimSpace(a.Reference); ref != "" {
		s += " (Ref: " + ref + ")"
	}
	return s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
