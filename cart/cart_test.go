package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCart(t *testing.T, raw string) []Entry {
	t.Helper()
	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	return entries
}

func TestNormalizeMigratesLegacyStringEntries(t *testing.T) {
	entries := decodeCart(t, `["652f1a2b3c4d5e6f70812345", {"product_id": "652f1a2b3c4d5e6f70812346", "quantity": 2, "size": "M"}]`)

	normalized, changed := Normalize(entries)
	assert.True(t, changed)
	require.Len(t, normalized, 2)

	assert.Equal(t, "652f1a2b3c4d5e6f70812345", normalized[0].ProductID)
	assert.Equal(t, 1, normalized[0].Quantity)
	assert.Empty(t, normalized[0].Size)

	assert.Equal(t, 2, normalized[1].Quantity)
	assert.Equal(t, "M", normalized[1].Size)
}

func TestNormalizeDropsMalformedEntries(t *testing.T) {
	entries := decodeCart(t, `[{"quantity": 3}, 42, null, {"product_id": "pid1", "quantity": 1}]`)

	normalized, changed := Normalize(entries)
	assert.True(t, changed)
	require.Len(t, normalized, 1)
	assert.Equal(t, "pid1", normalized[0].ProductID)
}

func TestNormalizeRepairsQuantity(t *testing.T) {
	entries := decodeCart(t, `[{"product_id": "pid1", "quantity": "2"}, {"product_id": "pid2", "quantity": 0}, {"product_id": "pid3", "quantity": 2.5}, {"product_id": "pid4", "quantity": 0.5}]`)

	normalized, changed := Normalize(entries)
	assert.True(t, changed)
	require.Len(t, normalized, 4)
	assert.Equal(t, 2, normalized[0].Quantity)
	assert.Equal(t, 1, normalized[1].Quantity)
	assert.Equal(t, 2, normalized[2].Quantity, "fractional quantities truncate instead of resetting")
	assert.Equal(t, 1, normalized[3].Quantity)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	entries := decodeCart(t, `["pid1", {"product_id": "pid2", "quantity": "3"}]`)

	first, changed := Normalize(entries)
	assert.True(t, changed)

	second, changed := Normalize(first)
	assert.False(t, changed, "normalizing a normalized cart must not report changes")
	assert.Equal(t, first, second)
}

func TestNormalizeCanonicalCartUntouched(t *testing.T) {
	entries := decodeCart(t, `[{"product_id": "pid1", "quantity": 2, "size": "M", "color": "Red"}]`)

	normalized, changed := Normalize(entries)
	assert.False(t, changed)
	require.Len(t, normalized, 1)
	assert.Equal(t, Entry{ProductID: "pid1", Quantity: 2, Size: "M", Color: "Red"}, normalized[0])
}

func TestAddMergesSameVariant(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 1, Size: "M", Color: "Red"}}

	entries, merged := Add(entries, Entry{ProductID: "pid1", Quantity: 2, Size: "M", Color: "Red"})
	assert.True(t, merged)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
}

func TestAddDifferentVariantAppends(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 1, Size: "M"}}

	entries, merged := Add(entries, Entry{ProductID: "pid1", Quantity: 1, Size: "L"})
	assert.False(t, merged)
	assert.Len(t, entries, 2)
}

func TestAddTreatsNoneAsEmpty(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 1, Size: "none"}}

	entries, merged := Add(entries, Entry{ProductID: "pid1", Quantity: 1, Size: ""})
	assert.True(t, merged)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity)
}

func TestRemoveExactVariant(t *testing.T) {
	entries := []Entry{
		{ProductID: "pid1", Quantity: 1, Size: "M"},
		{ProductID: "pid1", Quantity: 1, Size: "L"},
	}

	entries, removed := Remove(entries, "pid1", "L", "")
	assert.True(t, removed)
	require.Len(t, entries, 1)
	assert.Equal(t, "M", entries[0].Size)
}

func TestRemoveMissLeavesCartUnchanged(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 1, Size: "M"}}

	out, removed := Remove(entries, "pid1", "XL", "")
	assert.False(t, removed)
	assert.Equal(t, entries, out)
}

func TestRemoveNoneMatchesEmpty(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 1}}

	out, removed := Remove(entries, "pid1", "none", "none")
	assert.True(t, removed)
	assert.Empty(t, out)
}

func TestCartRoundTripsThroughJSON(t *testing.T) {
	entries := []Entry{{ProductID: "pid1", Quantity: 2, Size: "M", Color: "Red"}}

	payload, err := json.Marshal(entries)
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(payload, &decoded))

	_, changed := Normalize(decoded)
	assert.False(t, changed, "a canonical cart must survive a store round trip")
}
