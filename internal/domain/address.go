package domain

// Address is a saved customer shipping address.
type Address struct {
	ID           int     `json:"id"`
	Label        *string `json:"label"`
	FullName     string  `json:"fullName"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
	PhoneNumber  string  `json:"phoneNumber"`
	IsDefault    bool    `json:"isDefault"`
	CreatedAt    string  `json:"createdAt"`
}

// AddressInput is the create/update payload for a saved address.
type AddressInput struct {
	Label        string `json:"label,omitempty"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}
