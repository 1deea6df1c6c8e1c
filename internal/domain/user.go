package domain

// User is a storefront customer account as returned by the auth API.
type User struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// AdminRole enumerates admin console roles.
type AdminRole string

const (
	AdminRoleSuper   AdminRole = "SUPER_ADMIN"
	AdminRoleManager AdminRole = "MANAGER"
	AdminRoleSupport AdminRole = "SUPPORT"
)

// AdminUser is an admin console account. Unlike User it is persisted in
// durable client storage alongside the admin token.
type AdminUser struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"createdAt,omitempty"`
}
