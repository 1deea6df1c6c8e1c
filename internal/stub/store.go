package stub

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// Store is the stub server's in-memory state. Everything lives behind one
// mutex; the stub trades throughput for being hermetic in tests.
type Store struct {
	mu sync.Mutex

	nextID int

	usersByEmail map[string]*Account
	usersByID    map[int]*Account

	adminsByEmail map[string]*AdminAccount
	adminsByID    map[int]*AdminAccount

	products []domain.Product
	reviews  map[int][]domain.ProductReview

	carts map[string]*serverCart

	orders map[int]*orderRecord

	addresses map[int]*addressRecord

	refreshTokens map[string]refreshRecord
	resetTokens   map[string]string
}

// Account is a stored customer account.
type Account struct {
	ID           int
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	CreatedAt    time.Time
}

// AdminAccount is a stored admin console account.
type AdminAccount struct {
	ID           int
	Email        string
	PasswordHash string
	Role         string
}

type cartLine struct {
	ID        int
	VariantID int
	Quantity  int
}

type serverCart struct {
	ID    int
	Lines []cartLine
}

type orderRecord struct {
	UserID int
	Order  domain.Order
}

type addressRecord struct {
	UserID  int
	Address domain.Address
}

type refreshRecord struct {
	UserID    int
	ExpiresAt time.Time
}

// NewStore creates an empty store with a seeded catalog.
func NewStore() *Store {
	s := &Store{
		usersByEmail:  make(map[string]*Account),
		usersByID:     make(map[int]*Account),
		adminsByEmail: make(map[string]*AdminAccount),
		adminsByID:    make(map[int]*AdminAccount),
		reviews:       make(map[int][]domain.ProductReview),
		carts:         make(map[string]*serverCart),
		orders:        make(map[int]*orderRecord),
		addresses:     make(map[int]*addressRecord),
		refreshTokens: make(map[string]refreshRecord),
		resetTokens:   make(map[string]string),
	}
	s.seedCatalog()
	return s
}

func (s *Store) nextIdentity() int {
	s.nextID++
	return s.nextID
}

// --- accounts ---

// CreateUser registers a customer account. Email must be unique.
func (s *Store) CreateUser(email, passwordHash string, firstName, lastName *string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.usersByEmail[key]; exists {
		return nil, fmt.Errorf("email already registered")
	}
	account := &Account{
		ID:           s.nextIdentity(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now(),
	}
	s.usersByEmail[key] = account
	s.usersByID[account.ID] = account
	return account, nil
}

// UserByEmail looks up a customer account.
func (s *Store) UserByEmail(email string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.usersByEmail[strings.ToLower(email)]
	return account, ok
}

// UserByID looks up a customer account.
func (s *Store) UserByID(id int) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.usersByID[id]
	return account, ok
}

// SeedAdmin registers an admin account directly; the stub has no admin
// signup flow.
func (s *Store) SeedAdmin(email, passwordHash, role string) *AdminAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin := &AdminAccount{
		ID:           s.nextIdentity(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.adminsByEmail[strings.ToLower(email)] = admin
	s.adminsByID[admin.ID] = admin
	return admin
}

// AdminByEmail looks up an admin account.
func (s *Store) AdminByEmail(email string) (*AdminAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.adminsByEmail[strings.ToLower(email)]
	return admin, ok
}

// AdminByID looks up an admin account.
func (s *Store) AdminByID(id int) (*AdminAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.adminsByID[id]
	return admin, ok
}

// --- refresh tokens ---

// IssueRefreshToken mints an opaque refresh token for the user.
func (s *Store) IssueRefreshToken(userID int, ttl time.Duration) string {
	raw := make([]byte, 32)
	_, _ = rand.Read(raw)
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	s.refreshTokens[token] = refreshRecord{UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token
}

// RedeemRefreshToken resolves a refresh token to its user if still valid.
func (s *Store) RedeemRefreshToken(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.refreshTokens[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(record.ExpiresAt) {
		delete(s.refreshTokens, token)
		return 0, false
	}
	return record.UserID, true
}

// RevokeRefreshToken invalidates a refresh token.
func (s *Store) RevokeRefreshToken(token string) {
	s.mu.Lock()
	delete(s.refreshTokens, token)
	s.mu.Unlock()
}

// --- catalog ---

// AddProduct inserts a product into the catalog. Tests use this to control
// stock levels.
func (s *Store) AddProduct(product domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == 0 {
		product.ID = s.nextIdentity()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == 0 {
			product.Variants[i].ID = s.nextIdentity()
		}
	}
	s.products = append(s.products, product)
	return product
}

// Products returns catalog entries matching the filters.
func (s *Store) Products(category, search string, limit, offset int) []domain.ProductListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ProductListItem
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, domain.ProductListItem{
			ID:           p.ID,
			Name:         p.Name,
			BasePrice:    p.BasePrice,
			MainImageURL: p.MainImageURL,
			Category:     p.Category,
		})
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// ProductByID returns a full product.
func (s *Store) ProductByID(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Reviews returns the approved reviews for a product.
func (s *Store) Reviews(productID int) []domain.ProductReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	var approved []domain.ProductReview
	for _, review := range s.reviews[productID] {
		if review.IsApproved {
			approved = append(approved, review)
		}
	}
	return approved
}

// AddReview records a pending review on a product.
func (s *Store) AddReview(productID int, user *Account, input domain.ReviewInput) (domain.ProductReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Rating < 1 || input.Rating > 5 {
		return domain.ProductReview{}, fmt.Errorf("rating must be between 1 and 5")
	}
	exists := false
	for _, p := range s.products {
		if p.ID == productID {
			exists = true
			break
		}
	}
	if !exists {
		return domain.ProductReview{}, fmt.Errorf("product not found")
	}

	review := domain.ProductReview{
		ID:                s.nextIdentity(),
		Rating:            input.Rating,
		Title:             input.Title,
		Body:              input.Body,
		FitRecommendation: input.FitRecommendation,
		CreatedAt:         time.Now().Format(time.RFC3339),
	}
	review.User.FirstName = user.FirstName
	review.User.LastName = user.LastName
	s.reviews[productID] = append(s.reviews[productID], review)
	return review, nil
}

// PendingReviews returns the reviews awaiting approval for a product.
func (s *Store) PendingReviews(productID int) []domain.ProductReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []domain.ProductReview
	for _, review := range s.reviews[productID] {
		if !review.IsApproved {
			pending = append(pending, review)
		}
	}
	return pending
}

// ApproveReview publishes a pending review into the product listing.
func (s *Store) ApproveReview(productID, reviewID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, review := range s.reviews[productID] {
		if review.ID == reviewID {
			s.reviews[productID][i].IsApproved = true
			return true
		}
	}
	return false
}

// variantByID resolves a variant and its product. Caller holds the lock.
func (s *Store) variantByID(variantID int) (domain.Product, domain.ProductVariant, bool) {
	for _, p := range s.products {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return p, v, true
			}
		}
	}
	return domain.Product{}, domain.ProductVariant{}, false
}

// --- carts ---

// CartOwnerUser builds the cart owner key for an authenticated user.
func CartOwnerUser(userID int) string { return fmt.Sprintf("user:%d", userID) }

// CartOwnerGuest builds the cart owner key for a guest session.
func CartOwnerGuest(sessionID string) string { return "guest:" + sessionID }

// CartView materializes the owner's cart with derived fields, or nil when
// no cart exists.
func (s *Store) CartView(owner string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked(owner)
}

func (s *Store) cartViewLocked(owner string) *domain.Cart {
	sc, ok := s.carts[owner]
	if !ok {
		return nil
	}
	cart := &domain.Cart{ID: sc.ID, Items: []domain.CartItem{}}
	for _, line := range sc.Lines {
		product, variant, found := s.variantByID(line.VariantID)
		if !found {
			continue
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       line.ID,
			Quantity: line.Quantity,
			Variant: domain.CartVariant{
				ID:            variant.ID,
				SKU:           variant.SKU,
				Size:          variant.Size,
				ColorName:     variant.ColorName,
				ColorHexCode:  variant.ColorHexCode,
				StockQuantity: variant.StockQuantity,
			},
			Product: domain.CartProduct{
				ID:           product.ID,
				Name:         product.Name,
				MainImageURL: product.MainImageURL,
				BasePrice:    product.BasePrice,
			},
		})
	}
	cart.Recompute()
	return cart
}

func (s *Store) cartLocked(owner string) *serverCart {
	sc, ok := s.carts[owner]
	if !ok {
		sc = &serverCart{ID: s.nextIdentity()}
		s.carts[owner] = sc
	}
	return sc
}

// AddCartItem adds quantity of a variant to the owner's cart, enforcing the
// variant's stock ceiling across the whole line.
func (s *Store) AddCartItem(owner string, variantID, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, variant, found := s.variantByID(variantID)
	if !found {
		return nil, fmt.Errorf("variant not found")
	}

	sc := s.cartLocked(owner)
	for i := range sc.Lines {
		if sc.Lines[i].VariantID == variantID {
			if sc.Lines[i].Quantity+quantity > variant.StockQuantity {
				return nil, fmt.Errorf("only %d in stock", variant.StockQuantity)
			}
			sc.Lines[i].Quantity += quantity
			return s.cartViewLocked(owner), nil
		}
	}

	if quantity > variant.StockQuantity {
		return nil, fmt.Errorf("only %d in stock", variant.StockQuantity)
	}
	sc.Lines = append(sc.Lines, cartLine{ID: s.nextIdentity(), VariantID: variantID, Quantity: quantity})
	return s.cartViewLocked(owner), nil
}

// UpdateCartItem sets a line's quantity, enforcing stock.
func (s *Store) UpdateCartItem(owner string, itemID, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.carts[owner]
	if !ok {
		return nil, fmt.Errorf("cart not found")
	}
	for i := range sc.Lines {
		if sc.Lines[i].ID != itemID {
			continue
		}
		_, variant, found := s.variantByID(sc.Lines[i].VariantID)
		if !found {
			return nil, fmt.Errorf("variant not found")
		}
		if quantity > variant.StockQuantity {
			return nil, fmt.Errorf("only %d in stock", variant.StockQuantity)
		}
		if quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1")
		}
		sc.Lines[i].Quantity = quantity
		return s.cartViewLocked(owner), nil
	}
	return nil, fmt.Errorf("cart item not found")
}

// RemoveCartItem deletes a line.
func (s *Store) RemoveCartItem(owner string, itemID int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.carts[owner]
	if !ok {
		return nil, fmt.Errorf("cart not found")
	}
	for i := range sc.Lines {
		if sc.Lines[i].ID == itemID {
			sc.Lines = append(sc.Lines[:i], sc.Lines[i+1:]...)
			return s.cartViewLocked(owner), nil
		}
	}
	return nil, fmt.Errorf("cart item not found")
}

// ClearCart drops the owner's cart entirely.
func (s *Store) ClearCart(owner string) {
	s.mu.Lock()
	delete(s.carts, owner)
	s.mu.Unlock()
}

// AdoptGuestCart folds a guest cart into the user's cart at login. Lines
// for the same variant merge with quantities capped at stock.
func (s *Store) AdoptGuestCart(guestSessionID string, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guestOwner := CartOwnerGuest(guestSessionID)
	guestCart, ok := s.carts[guestOwner]
	if !ok {
		return
	}
	delete(s.carts, guestOwner)

	userOwner := CartOwnerUser(userID)
	userCart, ok := s.carts[userOwner]
	if !ok {
		guestCart.ID = s.nextIdentity()
		s.carts[userOwner] = guestCart
		return
	}

merge:
	for _, line := range guestCart.Lines {
		_, variant, found := s.variantByID(line.VariantID)
		if !found {
			continue
		}
		for i := range userCart.Lines {
			if userCart.Lines[i].VariantID == line.VariantID {
				combined := userCart.Lines[i].Quantity + line.Quantity
				if combined > variant.StockQuantity {
					combined = variant.StockQuantity
				}
				userCart.Lines[i].Quantity = combined
				continue merge
			}
		}
		userCart.Lines = append(userCart.Lines, line)
	}
}

// --- orders ---

// CreateOrder materializes the user's cart into an order and clears the
// cart. The shipping address must already be resolved by the handler.
func (s *Store) CreateOrder(userID int, shipping domain.ShippingAddress, notes string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := CartOwnerUser(userID)
	view := s.cartViewLocked(owner)
	if view == nil || len(view.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	order := domain.Order{
		ID:              s.nextIdentity(),
		OrderNumber:     "BL-" + strings.ToUpper(uuid.NewString()[:8]),
		Status:          domain.OrderStatusPending,
		TotalAmount:     view.Subtotal,
		CreatedAt:       time.Now().Format(time.RFC3339),
		ShippingAddress: shipping,
		Items:           []domain.OrderItem{},
	}
	if notes != "" {
		order.Notes = &notes
	}
	for _, item := range view.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:              s.nextIdentity(),
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Product.BasePrice,
			ProductName:     item.Product.Name,
			ProductImageURL: item.Product.MainImageURL,
			VariantSKU:      item.Variant.SKU,
			VariantSize:     item.Variant.Size,
			VariantColor:    item.Variant.ColorName,
		})
	}

	s.orders[order.ID] = &orderRecord{UserID: userID, Order: order}
	delete(s.carts, owner)
	return &order, nil
}

// OrdersByUser lists a user's orders.
func (s *Store) OrdersByUser(userID int) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, record := range s.orders {
		if record.UserID == userID {
			out = append(out, record.Order)
		}
	}
	return out
}

// OrderByID returns one of the user's orders.
func (s *Store) OrderByID(userID, orderID int) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.orders[orderID]
	if !ok || record.UserID != userID {
		return domain.Order{}, false
	}
	return record.Order, true
}

// CancelOrder moves a cancelable order to CANCELLED.
func (s *Store) CancelOrder(userID, orderID int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.orders[orderID]
	if !ok || record.UserID != userID {
		return domain.Order{}, fmt.Errorf("order not found")
	}
	if !record.Order.Status.Cancelable() {
		return domain.Order{}, fmt.Errorf("order can no longer be cancelled")
	}
	record.Order.Status = domain.OrderStatusCancelled
	return record.Order, nil
}

// --- addresses ---

// CreateAddress saves an address for the user.
func (s *Store) CreateAddress(userID int, input domain.AddressInput) domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := addressFromInput(input)
	addr.ID = s.nextIdentity()
	addr.CreatedAt = time.Now().Format(time.RFC3339)
	if input.IsDefault {
		s.clearDefaultLocked(userID)
		addr.IsDefault = true
	} else if len(s.addressesByUserLocked(userID)) == 0 {
		// The first saved address becomes the checkout default.
		addr.IsDefault = true
	}
	s.addresses[addr.ID] = &addressRecord{UserID: userID, Address: addr}
	return addr
}

// UpdateAddress rewrites one of the user's addresses.
func (s *Store) UpdateAddress(userID, addressID int, input domain.AddressInput) (domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.addresses[addressID]
	if !ok || record.UserID != userID {
		return domain.Address{}, fmt.Errorf("address not found")
	}
	updated := addressFromInput(input)
	updated.ID = addressID
	updated.CreatedAt = record.Address.CreatedAt
	if input.IsDefault {
		s.clearDefaultLocked(userID)
		updated.IsDefault = true
	}
	record.Address = updated
	return updated, nil
}

// SetDefaultAddress marks one address as default.
func (s *Store) SetDefaultAddress(userID, addressID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.addresses[addressID]
	if !ok || record.UserID != userID {
		return fmt.Errorf("address not found")
	}
	s.clearDefaultLocked(userID)
	record.Address.IsDefault = true
	return nil
}

// DeleteAddress removes an address.
func (s *Store) DeleteAddress(userID, addressID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.addresses[addressID]
	if !ok || record.UserID != userID {
		return fmt.Errorf("address not found")
	}
	delete(s.addresses, addressID)
	return nil
}

// AddressesByUser lists the user's addresses.
func (s *Store) AddressesByUser(userID int) []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addressesByUserLocked(userID)
}

func (s *Store) addressesByUserLocked(userID int) []domain.Address {
	var out []domain.Address
	for _, record := range s.addresses {
		if record.UserID == userID {
			out = append(out, record.Address)
		}
	}
	return out
}

// AddressByID returns one of the user's addresses.
func (s *Store) AddressByID(userID, addressID int) (domain.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.addresses[addressID]
	if !ok || record.UserID != userID {
		return domain.Address{}, false
	}
	return record.Address, true
}

func (s *Store) clearDefaultLocked(userID int) {
	for _, record := range s.addresses {
		if record.UserID == userID {
			record.Address.IsDefault = false
		}
	}
}

func addressFromInput(input domain.AddressInput) domain.Address {
	addr := domain.Address{
		FullName:     input.FullName,
		AddressLine1: input.AddressLine1,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		PhoneNumber:  input.PhoneNumber,
	}
	if input.Label != "" {
		label := input.Label
		addr.Label = &label
	}
	if input.AddressLine2 != "" {
		line2 := input.AddressLine2
		addr.AddressLine2 = &line2
	}
	return addr
}

// --- password reset ---

// IssueResetToken mints a password reset token for the email.
func (s *Store) IssueResetToken(email string) string {
	raw := make([]byte, 16)
	_, _ = rand.Read(raw)
	token := hex.EncodeToString(raw)
	s.mu.Lock()
	s.resetTokens[token] = strings.ToLower(email)
	s.mu.Unlock()
	return token
}

// RedeemResetToken applies a new password hash for the token's account.
func (s *Store) RedeemResetToken(token, newHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[token]
	if !ok {
		return false
	}
	account, ok := s.usersByEmail[email]
	if !ok {
		return false
	}
	account.PasswordHash = newHash
	delete(s.resetTokens, token)
	return true
}

func (s *Store) seedCatalog() {
	charcoal := "Charcoal"
	charcoalHex := "#36454F"
	bone := "Bone"
	boneHex := "#E3DAC9"
	sizeM := "M"
	sizeL := "L"

	s.products = []domain.Product{
		{
			ID:        s.nextIdentity(),
			Name:      "Archive Tee",
			BasePrice: "38.00",
			Category:  "tops",
			Variants: []domain.ProductVariant{
				{ID: s.nextIdentity(), SKU: "BL-TEE-CHAR-M", Size: &sizeM, ColorName: &charcoal, ColorHexCode: &charcoalHex, StockQuantity: 20},
				{ID: s.nextIdentity(), SKU: "BL-TEE-CHAR-L", Size: &sizeL, ColorName: &charcoal, ColorHexCode: &charcoalHex, StockQuantity: 8},
			},
		},
		{
			ID:        s.nextIdentity(),
			Name:      "Session Hoodie",
			BasePrice: "88.00",
			Category:  "tops",
			Variants: []domain.ProductVariant{
				{ID: s.nextIdentity(), SKU: "BL-HOOD-BONE-M", Size: &sizeM, ColorName: &bone, ColorHexCode: &boneHex, StockQuantity: 12},
			},
		},
	}
}
