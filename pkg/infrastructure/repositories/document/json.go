package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// marshalIndented writes two-space indented JSON without HTML escaping, so
// accented item names stay readable in the file.
func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// number renders a decimal as a bare JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// parseNumber accepts a JSON number (or numeric string); empty means zero.
func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q: %w", n, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("quantity cannot be negative, got %s", d)
	}
	return d, nil
}
