// Package cart holds the session cart shapes and the normalization and
// merge rules applied to them. The session historically stored two formats,
// bare product-id strings and structured objects; everything entering the
// rest of the application goes through Normalize first.
package cart

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// CosmeticsCategory is exempt from size/color selection requirements.
const CosmeticsCategory = "cosmetics"

// Entry is the canonical cart line. Size and Color are "" when not
// applicable; (ProductID, Size, Color) identifies a line, with "" and the
// literal "none" treated as the same absent value.
type Entry struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Size      string    `json:"size,omitempty" bson:"size,omitempty"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	AddedAt   time.Time `json:"added_at,omitempty" bson:"added_at,omitempty"`

	// legacy marks entries that were migrated or repaired during decode,
	// so Normalize can report whether a write-back is needed.
	legacy bool
}

type entryAlias struct {
	ProductID interface{} `json:"product_id"`
	Quantity  interface{} `json:"quantity"`
	Size      string      `json:"size"`
	Color     string      `json:"color"`
	AddedAt   time.Time   `json:"added_at"`
}

// UnmarshalJSON accepts both the legacy bare-string format and the
// structured object format. Entries that are neither decode to a zero
// ProductID and are dropped by Normalize.
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		e.legacy = true
		return nil
	}

	// Legacy format: the entry is just the product id.
	if data[0] == '"' {
		var pid string
		if err := json.Unmarshal(data, &pid); err != nil {
			e.legacy = true
			return nil
		}
		*e = Entry{ProductID: pid, Quantity: 1, legacy: true}
		return nil
	}

	if data[0] != '{' {
		e.legacy = true
		return nil
	}

	var raw entryAlias
	if err := json.Unmarshal(data, &raw); err != nil {
		e.legacy = true
		return nil
	}

	pid := stringify(raw.ProductID)
	if pid == "" {
		// Object without a product_id is malformed and gets discarded.
		e.legacy = true
		return nil
	}

	qty, ok := coerceQuantity(raw.Quantity)
	*e = Entry{
		ProductID: pid,
		Quantity:  qty,
		Size:      normalizeVariant(raw.Size),
		Color:     normalizeVariant(raw.Color),
		AddedAt:   raw.AddedAt,
		legacy:    !ok,
	}
	return nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// coerceQuantity returns the quantity as a positive integer; ok is false
// when the stored value had to be repaired or defaulted. Fractional values
// truncate toward zero, so 2.5 keeps two items rather than resetting to one.
func coerceQuantity(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 1 {
			if t == float64(int(t)) {
				return int(t), true
			}
			return int(t), false
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil && n >= 1 {
			return n, false
		}
	}
	return 1, false
}

func normalizeVariant(s string) string {
	if s == "none" {
		return ""
	}
	return s
}

// Normalize reconciles a decoded cart into its canonical shape. Malformed
// entries are dropped silently. The returned flag reports whether anything
// changed; normalizing an already-normalized cart is a no-op and must not
// trigger a session write-back.
func Normalize(entries []Entry) ([]Entry, bool) {
	normalized := make([]Entry, 0, len(entries))
	changed := false

	for _, e := range entries {
		if e.ProductID == "" {
			changed = true
			continue
		}
		if e.legacy {
			changed = true
			e.legacy = false
		}
		if e.Quantity < 1 {
			e.Quantity = 1
			changed = true
		}
		normalized = append(normalized, e)
	}

	return normalized, changed
}

// sameVariant treats empty and "none" as the same absent selection.
func sameVariant(a, b string) bool {
	return normalizeVariant(a) == normalizeVariant(b)
}

// Add merges an entry into the cart: an existing line for the same product
// and variant has its quantity summed in place, otherwise the entry is
// appended. The returned flag reports whether an existing line was merged.
func Add(entries []Entry, e Entry) ([]Entry, bool) {
	for i := range entries {
		if entries[i].ProductID == e.ProductID &&
			sameVariant(entries[i].Size, e.Size) &&
			sameVariant(entries[i].Color, e.Color) {
			entries[i].Quantity += e.Quantity
			return entries, true
		}
	}
	return append(entries, e), false
}

// Remove deletes the first line matching (productID, size, color), where
// "none" and "" both mean no selection. It reports whether a line was
// removed; on a miss the cart is returned unchanged.
func Remove(entries []Entry, productID, size, color string) ([]Entry, bool) {
	size = normalizeVariant(size)
	color = normalizeVariant(color)

	for i := range entries {
		if entries[i].ProductID == productID &&
			sameVariant(entries[i].Size, size) &&
			sameVariant(entries[i].Color, color) {
			out := make([]Entry, 0, len(entries)-1)
			out = append(out, entries[:i]...)
			out = append(out, entries[i+1:]...)
			return out, true
		}
	}
	return entries, false
}
