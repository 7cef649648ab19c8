package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LineItem is one entry in a cart or an order. Clients attach whatever
// product fields they display (name, price, size, image, ...), so the
// object is stored as sent; only "id" and "quantity" are interpreted.
type LineItem map[string]any

// NewLineItem builds an item with the two interpreted fields set.
func NewLineItem(productID string, quantity int) LineItem {
	return LineItem{"id": productID, "quantity": float64(quantity)}
}

// ProductID returns the "id" field, or "" when it is missing or not a
// string.
func (li LineItem) ProductID() string {
	id, _ := li["id"].(string)
	return id
}

// Quantity returns "quantity" as a whole number. Numeric strings are
// accepted; fractional or non-numeric values report false.
func (li LineItem) Quantity() (int, bool) {
	switch v := li["quantity"].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}
