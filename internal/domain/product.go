package domain

// Product is the full catalog entry with images and purchasable variants.
type Product struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	BasePrice    string           `json:"basePrice"`
	Category     string           `json:"category"`
	MainImageURL *string          `json:"mainImageUrl"`
	Images       []ProductImage   `json:"images"`
	Variants     []ProductVariant `json:"variants"`
	SizeGuide    *SizeGuide       `json:"sizeGuide"`
}

// ProductImage is a gallery image attached to a product.
type ProductImage struct {
	ID           int     `json:"id"`
	ImageURL     string  `json:"imageUrl"`
	AltText      *string `json:"altText"`
	DisplayOrder int     `json:"displayOrder,omitempty"`
}

// ProductVariant is a purchasable SKU-level configuration (size/color
// combination) with its own stock count.
type ProductVariant struct {
	ID            int     `json:"id"`
	SKU           string  `json:"sku"`
	Size          *string `json:"size"`
	ColorName     *string `json:"colorName"`
	ColorHexCode  *string `json:"colorHexCode"`
	StockQuantity int     `json:"stockQuantity"`
}

// SizeGuide holds sizing copy for a product.
type SizeGuide struct {
	Name        string `json:"name"`
	ContentHTML string `json:"contentHtml"`
}

// ProductListItem is the trimmed shape returned by list endpoints.
type ProductListItem struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	BasePrice    string  `json:"basePrice"`
	MainImageURL *string `json:"mainImageUrl"`
	Category     string  `json:"category,omitempty"`
}

// ProductFilters narrows a catalog listing.
type ProductFilters struct {
	Category string
	Size     string
	Search   string
	Limit    int
	Offset   int
}

// ProductReview is a customer review on a product.
type ProductReview struct {
	ID                int     `json:"id"`
	Rating            int     `json:"rating"`
	Title             *string `json:"title"`
	Body              *string `json:"body"`
	FitRecommendation *string `json:"fitRecommendation"`
	IsApproved        bool    `json:"isApproved"`
	CreatedAt         string  `json:"createdAt"`
	User              struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
	} `json:"user"`
}

// ReviewInput is the payload for submitting a product review. Submitted
// reviews stay hidden from the public listing until approved.
type ReviewInput struct {
	Rating            int     `json:"rating"`
	Title             *string `json:"title,omitempty"`
	Body              *string `json:"body,omitempty"`
	FitRecommendation *string `json:"fitRecommendation,omitempty"`
}
