package dto

import (
	"math"
	"strconv"
	"strings"
)

// MaxQuantity caps a single quantity input.
const MaxQuantity = 999

// Address is the delivery address as sent and returned by the API.
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

// CartItemRequest adds a product. Quantity accepts a number or a numeric
// string.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  any    `json:"quantity"`
}

// QuantityRequest replaces the quantity of a line.
type QuantityRequest struct {
	Quantity any `json:"quantity"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type PostalCodeRequest struct {
	PostalCode string `json:"postalCode"`
}

type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// CartResponse is the cart with its totals and checkout gate.
type CartResponse struct {
	Items        []LineItem `json:"items"`
	Address      Address    `json:"address"`
	Notes        string     `json:"notes"`
	TotalUnits   int        `json:"totalUnits"`
	Subtotal     string     `json:"subtotal"`
	DeliveryFee  string     `json:"deliveryFee"`
	Total        string     `json:"total"`
	MinimumUnits int        `json:"minimumUnits"`
	MissingUnits int        `json:"missingUnits"`
}

// CoerceQuantity turns raw JSON input into a quantity in [0, MaxQuantity].
// Missing or non-numeric input yields fallback; fractions are truncated.
func CoerceQuantity(raw any, fallback int) int {
	var q int
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		if v > MaxQuantity {
			return MaxQuantity
		}
		q = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		q = n
	default:
		return fallback
	}

	switch {
	case q < 0:
		return 0
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}
