package domain

import "strconv"

// Cart is the server-owned shopping cart. Subtotal and TotalItems are
// derived from Items and are recomputed, never independently tracked.
type Cart struct {
	ID         int        `json:"id"`
	Items      []CartItem `json:"items"`
	Subtotal   string     `json:"subtotal"`
	TotalItems int        `json:"totalItems"`
}

// CartItem is a single cart line: one variant at a quantity.
type CartItem struct {
	ID       int         `json:"id"`
	Quantity int         `json:"quantity"`
	Variant  CartVariant `json:"variant"`
	Product  CartProduct `json:"product"`
}

// CartVariant is the variant snapshot embedded in a cart line.
type CartVariant struct {
	ID            int     `json:"id"`
	SKU           string  `json:"sku"`
	Size          *string `json:"size"`
	ColorName     *string `json:"colorName"`
	ColorHexCode  *string `json:"colorHexCode"`
	StockQuantity int     `json:"stockQuantity"`
}

// CartProduct is the product snapshot embedded in a cart line.
type CartProduct struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	MainImageURL *string `json:"mainImageUrl"`
	BasePrice    string  `json:"basePrice"`
}

// Recompute rewrites Subtotal and TotalItems from the current item list.
func (c *Cart) Recompute() {
	total := 0
	subtotal := 0.0
	for _, item := range c.Items {
		total += item.Quantity
		price, err := strconv.ParseFloat(item.Product.BasePrice, 64)
		if err != nil {
			continue
		}
		subtotal += price * float64(item.Quantity)
	}
	c.TotalItems = total
	c.Subtotal = FormatPrice(subtotal)
}

// FormatPrice renders an amount with two decimal places, the price wire
// format used throughout the API.
func FormatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
