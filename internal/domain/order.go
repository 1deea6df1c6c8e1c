package domain

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// Cancelable reports whether an order in this status may still be cancelled
// by the customer.
func (s OrderStatus) Cancelable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// Order is a placed order with its line items and shipping destination.
type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     string          `json:"totalAmount"`
	CreatedAt       string          `json:"createdAt"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	TrackingNumber  *string         `json:"trackingNumber"`
	Notes           *string         `json:"notes"`
}

// OrderItem is a purchased line frozen at checkout time.
type OrderItem struct {
	ID              int     `json:"id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase string  `json:"priceAtPurchase"`
	ProductName     string  `json:"productName"`
	ProductImageURL *string `json:"productImageUrl"`
	VariantSKU      string  `json:"variantSku"`
	VariantSize     *string `json:"variantSize"`
	VariantColor    *string `json:"variantColor"`
}

// ShippingAddress is the destination captured on an order.
type ShippingAddress struct {
	FullName     string  `json:"fullName"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
	PhoneNumber  string  `json:"phoneNumber"`
}

// PaymentInfo carries the checkout payment selection.
type PaymentInfo struct {
	PaymentMethod string `json:"paymentMethod"`
}

// CreateOrderInput is the checkout payload: either an existing AddressID or
// an inline ShippingAddress must be provided.
type CreateOrderInput struct {
	AddressID       *int             `json:"addressId,omitempty"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentInfo     PaymentInfo      `json:"paymentInfo"`
	Notes           string           `json:"notes,omitempty"`
}
