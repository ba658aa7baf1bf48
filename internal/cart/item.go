package cart

import (
	"regexp"
	"strings"

	"github.com/avignatattva/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CartItemID derives the cart identity key of an entity+variation pair:
// itemType_entityID_variationName, with whitespace runs in the name collapsed to "_".
func CartItemID(itemType domain.ItemType, entityID, variationName string) string {
	return string(itemType) + "_" + entityID + "_" + whitespaceRun.ReplaceAllString(variationName, "_")
}

// ParsePrice parses a price string. Anything unparsable counts as zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// lineTotal is the only place a CartItem's TotalPrice is computed
func lineTotal(v domain.Variation, quantity int) decimal.Decimal {
	return ParsePrice(v.Price).Mul(decimal.NewFromInt(int64(quantity)))
}

func withQuantity(item domain.CartItem, quantity int) domain.CartItem {
	item.Quantity = quantity
	item.TotalPrice = lineTotal(item.SelectedVariation, quantity)
	return item
}

// normalize rebuilds a list of items that came from outside the store (storage).
// Ids and totals are re-derived, non-positive quantities dropped and duplicates merged
// in first-seen order.
func normalize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || !it.ItemType.Valid() {
			continue
		}
		it.CartItemID = CartItemID(it.ItemType, it.ID, it.SelectedVariation.Name)
		if i, ok := index[it.CartItemID]; ok {
			out[i] = withQuantity(out[i], out[i].Quantity+it.Quantity)
			continue
		}
		index[it.CartItemID] = len(out)
		out = append(out, withQuantity(it, it.Quantity))
	}
	return out
}
