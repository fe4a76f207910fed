package cart

import (
	"github.com/shopspring/decimal"
)

// ProductSnapshot carries the minimal product fields captured at add-time.
// The cart never re-reads the catalog: title, price, and image are frozen
// as they were when the item was added.
type ProductSnapshot struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

// LineItem is one product's entry in the cart with its own quantity.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Cart holds the ordered line items for one session. Order is insertion order.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Count returns the sum of all line item quantities.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Total returns the sum of price * quantity over all line items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Clone returns a deep copy so callers can't mutate the store's state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return &Cart{}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}

// mergeAdd returns a new item list with the snapshot merged in: an existing
// line for the same product id has its quantity incremented, otherwise a new
// line is appended. qty must already be validated as positive.
func mergeAdd(items []LineItem, snapshot ProductSnapshot, qty int) []LineItem {
	next := make([]LineItem, len(items))
	copy(next, items)
	for i := range next {
		if next[i].ProductID == snapshot.ProductID {
			next[i].Quantity += qty
			return next
		}
	}
	return append(next, LineItem{
		ProductID: snapshot.ProductID,
		Title:     snapshot.Title,
		Price:     snapshot.Price,
		Image:     snapshot.Image,
		Quantity:  qty,
	})
}

// setQuantity returns a new item list with the matching line's quantity set.
// A non-positive quantity removes the line. The second return reports whether
// the product was present at all.
func setQuantity(items []LineItem, productID int64, qty int) ([]LineItem, bool) {
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		next := make([]LineItem, len(items))
		copy(next, items)
		if qty <= 0 {
			return append(next[:i], next[i+1:]...), true
		}
		next[i].Quantity = qty
		return next, true
	}
	return items, false
}

// removeItem returns a new item list without the matching line. Removing an
// absent product is a no-op, not an error.
func removeItem(items []LineItem, productID int64) []LineItem {
	for i := range items {
		if items[i].ProductID == productID {
			next := make([]LineItem, len(items))
			copy(next, items)
			return append(next[:i], next[i+1:]...)
		}
	}
	return items
}
