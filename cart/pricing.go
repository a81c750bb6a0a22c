package cart

import (
	"errors"

	"github.com/timelessthreads/storefront/models"
)

var (
	ErrSizeRequired  = errors.New("please select a size")
	ErrColorRequired = errors.New("please select a color")
)

// MRP derives the pre-discount price from the selling price and discount
// percentage: price = mrp * (1 - discount/100). With no discount the MRP is
// the price itself. The result is floored to whole currency units.
func MRP(price, discount int) int {
	if discount <= 0 {
		return price
	}
	return int(float64(price) / (1 - float64(discount)/100))
}

// LineTotal is the selling price of a cart line.
func LineTotal(price, quantity int) int {
	return price * quantity
}

// ValidateSelection enforces variant choice for products that declare sizes
// or colors. The cosmetics category is exempt.
func ValidateSelection(p models.Product, size, color string) error {
	if p.Category == CosmeticsCategory {
		return nil
	}
	if len(p.Sizes) > 0 && normalizeVariant(size) == "" {
		return ErrSizeRequired
	}
	if len(p.Colors) > 0 && normalizeVariant(color) == "" {
		return ErrColorRequired
	}
	return nil
}

// BuildEntry produces the canonical cart line for an add request. Cosmetics
// never carry a variant, matching the storefront's add-to-cart rules.
func BuildEntry(p models.Product, quantity int, size, color string) Entry {
	if quantity < 1 {
		quantity = 1
	}
	if p.Category == CosmeticsCategory {
		size, color = "", ""
	}
	return Entry{
		ProductID: p.ID.Hex(),
		Quantity:  quantity,
		Size:      normalizeVariant(size),
		Color:     normalizeVariant(color),
	}
}
